// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package wfpt

import (
	"math"

	. "github.com/gomlx/gomlx/pkg/core/graph"
	"github.com/gomlx/gomlx/pkg/core/shapes"
	. "github.com/gomlx/gomlx/pkg/support/exceptions"
)

// SmallTimeDensity evaluates the small-time series expansion of the
// standardized density f(tt|0,1,w) with exactly kTerms terms:
//
//	f(tt|0,1,w) = 1/sqrt(2π·tt³) · Σ_k (w+2k)·exp(-(w+2k)²/(2·tt))
//
// summed over the kTerms replica indices k centered on zero. tt and w must
// be vectors of the same length, tt positive standardized times and w the
// relative starting point. The expansion converges fast for small tt; see
// UseSmallTime for the crossover.
func SmallTimeDensity(tt, w *Node, kTerms int) *Node {
	if kTerms < 1 {
		Panicf("wfpt.SmallTimeDensity: kTerms is %d, must be positive", kTerms)
	}
	return smallTime(tt, w, kTerms, nil)
}

// LargeTimeDensity evaluates the large-time series expansion of the
// standardized density f(tt|0,1,w) with exactly kTerms terms:
//
//	f(tt|0,1,w) = π · Σ_{k=1..kTerms} k·exp(-k²π²·tt/2)·sin(k·π·w)
//
// tt and w must be vectors of the same length. The expansion converges fast
// for large tt.
func LargeTimeDensity(tt, w *Node, kTerms int) *Node {
	if kTerms < 1 {
		Panicf("wfpt.LargeTimeDensity: kTerms is %d, must be positive", kTerms)
	}
	return largeTime(tt, w, kTerms, nil)
}

// smallTime is the small-time expansion over a kTerms-wide replica lattice.
// counts, when non-nil, holds per-observation term counts <= kTerms; lattice
// positions outside an observation's window contribute exactly zero, to the
// sum and to its gradient.
func smallTime(tt, w *Node, kTerms int, counts *Node) *Node {
	g := tt.Graph()
	dtype := tt.DType()

	// Replica lattice -floor((K-1)/2) .. ceil((K-1)/2), as a (1, K) row.
	lattice := AddScalar(Iota(g, shapes.Make(dtype, 1, kTerms), 1), -float64((kTerms-1)/2))
	tt1 := InsertAxes(tt, -1)
	w1 := InsertAxes(w, -1)
	y := Add(w1, MulScalar(lattice, 2))         // w + 2k, (N, K)
	r := Div(Neg(Square(y)), MulScalar(tt1, 2)) // -(w+2k)²/(2·tt)
	if counts != nil {
		// An observation with count c keeps lattice positions
		// -floor((c-1)/2) .. ceil((c-1)/2), the windows of Navarro & Fuss.
		c1 := AddScalar(InsertAxes(counts, -1), -1)
		inWindow := LogicalAnd(
			GreaterOrEqual(lattice, Neg(Floor(MulScalar(c1, 0.5)))),
			LessOrEqual(lattice, Ceil(MulScalar(c1, 0.5))))
		r = Where(inWindow, r, Infinity(g, dtype, -1))
	}
	// Factor out the row maximum so the sum survives exponent underflow.
	m := StopGradient(ReduceAndKeep(r, ReduceMax, -1))
	sum := ReduceSum(Mul(y, Exp(Sub(r, m))), -1)
	sum = Mul(Exp(Squeeze(m, -1)), sum)
	return Div(sum, Sqrt(MulScalar(PowScalar(tt, 3), 2*math.Pi)))
}

// largeTime is the large-time expansion with kTerms frequencies. counts,
// when non-nil, holds per-observation term counts <= kTerms; frequencies
// beyond an observation's count contribute exactly zero.
func largeTime(tt, w *Node, kTerms int, counts *Node) *Node {
	g := tt.Graph()
	dtype := tt.DType()

	k := OnePlus(Iota(g, shapes.Make(dtype, 1, kTerms), 1)) // 1 .. K, (1, K)
	tt1 := InsertAxes(tt, -1)
	w1 := InsertAxes(w, -1)
	terms := Mul(k, Mul(
		Exp(MulScalar(Mul(Square(k), tt1), -math.Pi*math.Pi/2)),
		Sin(MulScalar(Mul(k, w1), math.Pi))))
	if counts != nil {
		keep := LessOrEqual(k, InsertAxes(counts, -1))
		terms = Where(keep, terms, ZerosLike(terms))
	}
	return MulScalar(ReduceSum(terms, -1), math.Pi)
}
