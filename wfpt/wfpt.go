// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package wfpt implements the first-passage-time density of the Wiener
// diffusion process (the drift-diffusion decision model) as GoMLX graph
// operations.
//
// The density follows Navarro & Fuss (2009), "Fast and accurate calculations
// for first-passage time densities in Wiener diffusion models": the
// standardized density has two series expansions, one converging quickly for
// small times and one for large times, and each observation is evaluated
// with the expansion that needs fewer terms for the requested error
// tolerance. Truncation counts are either fixed by the caller or derived per
// observation from the tolerance. Trial-to-trial variability of the drift
// rate is marginalized in closed form.
//
// All functions build nodes into the graph of their inputs, so the returned
// log-densities compose with any other graph operations and are
// differentiable with respect to the model parameters through
// graph.Gradient.
//
// Parameter convention: a is the distance from the midpoint to each boundary
// (half the boundary separation) and z the starting point as a fraction of
// the full separation, the convention of the likelihood-approximation
// network model family. Results equal formulations written in terms of the
// full separation A evaluated at a=A/2 and the same z.
package wfpt

import (
	"math"

	. "github.com/gomlx/gomlx/pkg/core/graph"
	. "github.com/gomlx/gomlx/pkg/support/exceptions"
)

const (
	// MinLogDensity is the lower bound of any log-density returned by this
	// package. Observations the process cannot generate (rt-t <= 0) and
	// observations whose series density underflows are reported at exactly
	// this value, keeping every result finite and every gradient defined.
	MinLogDensity = -66.1

	// DefaultErr is the truncation error tolerance used when a caller
	// passes err = 0.
	DefaultErr = 1e-7

	// adaptiveTermCap bounds the number of series terms materialized in the
	// graph when term counts are derived per observation (kTerms = 0). The
	// per-observation counts stay well below it for any realistic
	// tolerance.
	adaptiveTermCap = 32
)

// LogDensity returns the elementwise natural log of the Wiener
// first-passage-time density for a batch of observations.
//
// data is either shape (N, 2) with column 0 holding reaction times and
// column 1 the boundary of each response, -1 (lower) or +1 (upper), or
// shape (N,) holding signed reaction times rt·boundary. The parameters are
// the drift rate v, the across-trial standard deviation of the drift rate
// sv (0 recovers the fixed-drift model), the boundary half-separation a,
// the relative starting point z and the non-decision time t. Each parameter
// is either a scalar or a length-N vector, and must have the same dtype as
// data.
//
// err is the truncation error tolerance (0 selects DefaultErr). kTerms > 0
// makes every observation sum exactly kTerms series terms; kTerms == 0
// derives the minimal term count justified by err separately for each
// observation.
//
// The result has shape (N,). It is finite everywhere: observations with
// rt-t <= 0 yield MinLogDensity. Parameters are not validated against the
// model domain (a > 0, 0 < z < 1, sv >= 0); callers enforce bounds, e.g.
// through the model registry of the root package.
func LogDensity(data, v, sv, a, z, t *Node, err float64, kTerms int) *Node {
	if err <= 0 {
		err = DefaultErr
	}
	if kTerms < 0 {
		Panicf("wfpt.LogDensity: kTerms is %d, must be 0 (adaptive) or positive", kTerms)
	}
	rt, boundary := splitData(data)
	n := rt.Shape().Dimensions[0]
	checkParamShapes(n, data, v, sv, a, z, t)
	g := data.Graph()
	dtype := data.DType()

	// Upper-boundary passages are evaluated as lower-boundary passages of
	// the mirrored process.
	upper := GreaterThan(boundary, ScalarZero(g, dtype))
	vf := Where(upper, Neg(v), v)
	w := Where(upper, OneMinus(z), z)

	tau := Sub(rt, t)
	valid := GreaterThan(tau, ScalarZero(g, dtype))
	// Invalid rows get a placeholder time of 1 so that neither series nor
	// its gradient can produce NaN; their value is replaced by the sentinel
	// at the end.
	tauSafe := Where(valid, tau, OnesLike(tau))

	full := MulScalar(a, 2)
	tt := Div(tauSafe, Square(full))

	ks := KSmall(tt, err)
	kl := KLarge(tt, err)
	var pSmall, pLarge *Node
	if kTerms > 0 {
		pSmall = smallTime(tt, w, kTerms, nil)
		pLarge = largeTime(tt, w, kTerms, nil)
	} else {
		countSmall := StopGradient(MinScalar(Ceil(ks), adaptiveTermCap))
		countLarge := StopGradient(MinScalar(Ceil(kl), adaptiveTermCap))
		pSmall = smallTime(tt, w, adaptiveTermCap, countSmall)
		pLarge = largeTime(tt, w, adaptiveTermCap, countLarge)
	}
	p := Where(LessThan(ks, kl), pSmall, pLarge)

	// Truncation can leave a zero or slightly negative density; flooring it
	// before the log keeps the result finite and the gradient defined.
	logp := Log(MaxScalar(p, math.Exp(MinLogDensity)))

	// Marginalization over across-trial drift variability, in closed form.
	// With sv=0 it reduces exactly to the fixed-drift density
	// exp(-v·A·w - v²·τ/2)/A² · f(tt|0,1,w).
	num := Sub(
		Sub(Square(Mul(Mul(full, w), sv)), MulScalar(Mul(Mul(full, vf), w), 2)),
		Mul(Square(vf), tauSafe))
	den := AddScalar(MulScalar(Mul(Square(sv), tauSafe), 2), 2)
	logp = Add(logp, Div(num, den))
	logp = Sub(logp, MulScalar(Log1p(Mul(Square(sv), tauSafe)), 0.5))
	logp = Sub(logp, MulScalar(Log(full), 2))

	return Where(valid, logp, ConstAs(logp, MinLogDensity))
}

// splitData decomposes the observations into reaction times and boundary
// signs, accepting the (N, 2) columnar and the (N,) signed layouts.
func splitData(data *Node) (rt, boundary *Node) {
	switch data.Rank() {
	case 2:
		if data.Shape().Dimensions[1] != 2 {
			Panicf("wfpt: data has shape %s, want (N, 2) with columns (rt, boundary)", data.Shape())
		}
		rt = Squeeze(Slice(data, AxisRange(), AxisElem(0)), -1)
		boundary = Squeeze(Slice(data, AxisRange(), AxisElem(1)), -1)
	case 1:
		rt = Abs(data)
		boundary = Sign(data)
	default:
		Panicf("wfpt: data has shape %s, want (N, 2) or a vector of signed reaction times", data.Shape())
	}
	return
}

// checkParamShapes panics unless every parameter is a scalar or a length-n
// vector of the data's dtype.
func checkParamShapes(n int, data *Node, params ...*Node) {
	names := []string{"v", "sv", "a", "z", "t"}
	for i, p := range params {
		if p.DType() != data.DType() {
			Panicf("wfpt: parameter %s has dtype %s, data has dtype %s -- they must match",
				names[i], p.DType(), data.DType())
		}
		if p.IsScalar() {
			continue
		}
		if p.Rank() != 1 || p.Shape().Dimensions[0] != n {
			Panicf("wfpt: parameter %s has shape %s, want a scalar or a vector of length %d",
				names[i], p.Shape(), n)
		}
	}
}
