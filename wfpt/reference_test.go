// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package wfpt_test

// A scalar float64 rendition of the density, independent of any graph
// machinery, used as the reference the graph ops are checked against.

import (
	"math"

	"github.com/gomlx/ssm/wfpt"
)

func refKSmall(tt, err float64) float64 {
	bound := 2 * err * math.Sqrt(2*math.Pi*tt)
	if bound >= 1 {
		return 2
	}
	return math.Max(2+math.Sqrt(-2*tt*math.Log(bound)), math.Sqrt(tt)+1)
}

func refKLarge(tt, err float64) float64 {
	bound := math.Pi * tt * err
	lower := 1 / (math.Pi * math.Sqrt(tt))
	if bound >= 1 {
		return lower
	}
	return math.Max(math.Sqrt(-2*math.Log(bound)/(math.Pi*math.Pi*tt)), lower)
}

func refSmallTime(tt, w float64, kTerms int) float64 {
	low := -((kTerms - 1) / 2)
	var sum float64
	for i := 0; i < kTerms; i++ {
		y := w + 2*float64(low+i)
		sum += y * math.Exp(-y*y/(2*tt))
	}
	return sum / math.Sqrt(2*math.Pi*tt*tt*tt)
}

func refLargeTime(tt, w float64, kTerms int) float64 {
	var sum float64
	for k := 1; k <= kTerms; k++ {
		kf := float64(k)
		sum += kf * math.Exp(-kf*kf*math.Pi*math.Pi*tt/2) * math.Sin(kf*math.Pi*w)
	}
	return math.Pi * sum
}

// refLogDensity mirrors wfpt.LogDensity for a single observation, with a the
// boundary half-separation. kTerms = 0 derives the term count from err, with
// the same cap of 32 the graph version uses.
func refLogDensity(rt, boundary, v, sv, a, z, t, err float64, kTerms int) float64 {
	return refLogDensityFullSep(rt, boundary, v, sv, 2*a, z, t, err, kTerms)
}

// refLogDensityFullSep is the density written in terms of the full boundary
// separation, the form of the classical implementations.
func refLogDensityFullSep(rt, boundary, v, sv, full, z, t, err float64, kTerms int) float64 {
	if err <= 0 {
		err = wfpt.DefaultErr
	}
	w, vf := z, v
	if boundary > 0 {
		w, vf = 1-z, -v
	}
	tau := rt - t
	if tau <= 0 {
		return wfpt.MinLogDensity
	}
	tt := tau / (full * full)
	ks, kl := refKSmall(tt, err), refKLarge(tt, err)
	var p float64
	switch {
	case kTerms > 0 && ks < kl:
		p = refSmallTime(tt, w, kTerms)
	case kTerms > 0:
		p = refLargeTime(tt, w, kTerms)
	case ks < kl:
		p = refSmallTime(tt, w, min(int(math.Ceil(ks)), 32))
	default:
		p = refLargeTime(tt, w, min(int(math.Ceil(kl)), 32))
	}
	lp := math.Log(math.Max(p, math.Exp(wfpt.MinLogDensity)))
	lp += ((full*w*sv)*(full*w*sv) - 2*full*vf*w - vf*vf*tau) / (2*sv*sv*tau + 2)
	lp -= 0.5 * math.Log1p(sv*sv*tau)
	lp -= 2 * math.Log(full)
	return lp
}

// refLogDensityFixedDrift is the sv=0 density spelled as its own closed
// form, so the sv marginalization can be checked to reduce to it exactly.
func refLogDensityFixedDrift(rt, boundary, v, a, z, t, err float64, kTerms int) float64 {
	if err <= 0 {
		err = wfpt.DefaultErr
	}
	w, vf := z, v
	if boundary > 0 {
		w, vf = 1-z, -v
	}
	tau := rt - t
	if tau <= 0 {
		return wfpt.MinLogDensity
	}
	full := 2 * a
	tt := tau / (full * full)
	ks, kl := refKSmall(tt, err), refKLarge(tt, err)
	var p float64
	if ks < kl {
		if kTerms == 0 {
			kTerms = min(int(math.Ceil(ks)), 32)
		}
		p = refSmallTime(tt, w, kTerms)
	} else {
		if kTerms == 0 {
			kTerms = min(int(math.Ceil(kl)), 32)
		}
		p = refLargeTime(tt, w, kTerms)
	}
	return math.Log(math.Max(p, math.Exp(wfpt.MinLogDensity))) -
		full*vf*w - vf*vf*tau/2 - 2*math.Log(full)
}
