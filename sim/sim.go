// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package sim simulates the sequential-sampling decision processes whose
// likelihoods this repository computes. It is used by the likelihood tests
// as an independent source of realistic data, and is exported because
// parameter-recovery studies need the same thing.
package sim

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// DDMParams are the parameters of the basic drift-diffusion process, in the
// same convention used by wfpt.LogDensity: A is the boundary half-separation
// (the boundaries sit a distance 2·A apart), Z the starting point as a
// fraction of the full separation, T the non-decision time added to every
// first-passage time, V the drift rate and SV the across-trial standard
// deviation of the drift rate (0 for a fixed drift).
type DDMParams struct {
	V, SV, A, Z, T float64
}

const (
	// dt is the Euler-Maruyama integration step, in seconds.
	dt = 1e-3

	// maxDecisionTime caps a single trial's accumulation time. Trials still
	// undecided at the cap are assigned the boundary closest to the current
	// accumulated evidence.
	maxDecisionTime = 20.0
)

// DDM simulates n trials of the drift-diffusion process by Euler-Maruyama
// integration with unit diffusion coefficient. It returns the reaction times
// and the hit boundaries (+1 upper, -1 lower), in trial order.
//
// The simulation is deterministic for a given seed.
func DDM(p DDMParams, n int, seed uint64) (rts, choices []float64) {
	src := rand.NewPCG(seed, seed)
	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: src}

	rts = make([]float64, n)
	choices = make([]float64, n)
	sqrtDt := math.Sqrt(dt)
	full := 2 * p.A
	for i := range n {
		v := p.V
		if p.SV > 0 {
			v += p.SV * normal.Rand()
		}
		x := p.Z * full
		var elapsed float64
		for x > 0 && x < full && elapsed < maxDecisionTime {
			x += v*dt + sqrtDt*normal.Rand()
			elapsed += dt
		}
		rts[i] = p.T + elapsed
		if x >= full/2 {
			choices[i] = 1
		} else {
			choices[i] = -1
		}
	}
	return
}

// SignedRTs merges reaction times and choices into the signed representation
// rt·choice accepted by wfpt.Decision and by rank-1 wfpt.LogDensity data.
func SignedRTs(rts, choices []float64) []float64 {
	signed := make([]float64, len(rts))
	for i, rt := range rts {
		signed[i] = rt * choices[i]
	}
	return signed
}

// Columns stacks reaction times and choices into a flat row-major (n, 2)
// buffer, the layout of the data tensor taken by wfpt.LogDensity.
func Columns(rts, choices []float64) []float64 {
	flat := make([]float64, 2*len(rts))
	for i, rt := range rts {
		flat[2*i] = rt
		flat[2*i+1] = choices[i]
	}
	return flat
}
