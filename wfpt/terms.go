// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package wfpt

import (
	"math"

	. "github.com/gomlx/gomlx/pkg/core/graph"
)

// KSmall returns, elementwise, the minimal number of small-time series terms
// that bounds the truncation error by err at the standardized times tt
// (Navarro & Fuss 2009, eq. 11). tt must be positive. The result is a
// (fractional) count; take the ceiling before summing.
func KSmall(tt *Node, err float64) *Node {
	if err <= 0 {
		err = DefaultErr
	}
	g := tt.Graph()
	bound := MulScalar(Sqrt(MulScalar(tt, 2*math.Pi)), 2*err) // 2·err·sqrt(2π·tt)
	// Clamping the log argument to 1 makes the formula continuous at the
	// regime boundary and keeps its gradient NaN-free where the bound holds.
	ks := AddScalar(Sqrt(Mul(MulScalar(tt, -2), Log(MinScalar(bound, 1)))), 2)
	ks = Max(ks, OnePlus(Sqrt(tt)))
	return Where(LessThan(bound, ScalarOne(g, tt.DType())), ks, ConstAs(tt, 2))
}

// KLarge returns, elementwise, the minimal number of large-time series terms
// that bounds the truncation error by err at the standardized times tt
// (Navarro & Fuss 2009, eq. 10). tt must be positive. The result is a
// (fractional) count; take the ceiling before summing.
func KLarge(tt *Node, err float64) *Node {
	if err <= 0 {
		err = DefaultErr
	}
	g := tt.Graph()
	bound := MulScalar(tt, math.Pi*err) // π·tt·err
	lower := Div(ScalarOne(g, tt.DType()), MulScalar(Sqrt(tt), math.Pi))
	kl := Sqrt(Div(MulScalar(Log(MinScalar(bound, 1)), -2), MulScalar(tt, math.Pi*math.Pi)))
	kl = Max(kl, lower)
	return Where(LessThan(bound, ScalarOne(g, tt.DType())), kl, lower)
}

// UseSmallTime returns, elementwise, whether the small-time expansion needs
// fewer terms than the large-time one at tolerance err, i.e. which branch
// the density evaluation selects at the standardized times tt.
func UseSmallTime(tt *Node, err float64) *Node {
	return LessThan(KSmall(tt, err), KLarge(tt, err))
}
