// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package wfpt_test

import (
	"math"
	"math/rand/v2"
	"testing"

	. "github.com/gomlx/gomlx/pkg/core/graph"
	"github.com/gomlx/gomlx/pkg/core/tensors"
	"github.com/gomlx/ssm/sim"
	"github.com/gomlx/ssm/ssmtest"
	"github.com/gomlx/ssm/wfpt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixture simulates the reference batch shared by most tests: 1000 trials at
// v=0.5, a=1.5, z=0.5, t=0.5 with fixed drift.
func fixture(t *testing.T, n int) (rts, choices []float64) {
	rts, choices = sim.DDM(sim.DDMParams{V: 0.5, A: 1.5, Z: 0.5, T: 0.5}, n, 23)
	require.Len(t, rts, n)
	return
}

func fixtureTensor(t *testing.T, n int) *tensors.Tensor {
	rts, choices := fixture(t, n)
	return tensors.FromFlatDataAndDimensions(sim.Columns(rts, choices), n, 2)
}

// runLogDensity executes wfpt.LogDensity for (N, 2) data and the five
// parameters, each a scalar or length-N slice.
func runLogDensity(t *testing.T, errTol float64, kTerms int, data any, params ...any) []float64 {
	backend := ssmtest.BuildTestBackend()
	exec := MustNewExecAny(backend, func(inputs []*Node) *Node {
		return wfpt.LogDensity(inputs[0], inputs[1], inputs[2], inputs[3], inputs[4], inputs[5],
			errTol, kTerms)
	})
	defer exec.Finalize()
	outputs, err := exec.Exec(append([]any{data}, params...)...)
	require.NoErrorf(t, err, "LogDensity(err=%g, kTerms=%d) failed", errTol, kTerms)
	return tensors.MustCopyFlatData[float64](outputs[0])
}

func requireAllFinite(t *testing.T, values []float64, msg string) {
	for i, v := range values {
		require.Falsef(t, math.IsNaN(v) || math.IsInf(v, 0), "%s: element %d is %v", msg, i, v)
	}
}

func TestLogDensityFiniteAcrossTermCounts(t *testing.T) {
	data := fixtureTensor(t, 1000)
	for kTerms := 7; kTerms <= 11; kTerms++ {
		logp := runLogDensity(t, 1e-7, kTerms, data, 0.5, 0.1, 0.75, 0.5, 0.4)
		requireAllFinite(t, logp, "fixed term count")
		var sum float64
		for _, lp := range logp {
			sum += lp
		}
		require.Falsef(t, math.IsNaN(sum) || math.IsInf(sum, 0), "kTerms=%d: summed logp is %v", kTerms, sum)
	}
	// Per-observation derived term counts.
	logp := runLogDensity(t, 1e-7, 0, data, 0.5, 0.1, 0.75, 0.5, 0.4)
	requireAllFinite(t, logp, "adaptive term count")
}

func TestDecision(t *testing.T) {
	backend := ssmtest.BuildTestBackend()
	exec := MustNewExecAny(backend, func(inputs []*Node) *Node {
		return wfpt.Decision(inputs[0], 1e-7)
	})
	defer exec.Finalize()

	rts, choices := fixture(t, 1000)
	signed := sim.SignedRTs(rts, choices)
	outputs, err := exec.Exec(signed)
	require.NoError(t, err)
	flags := tensors.MustCopyFlatData[bool](outputs[0])
	require.Len(t, flags, len(signed))
	for i, flag := range flags {
		require.Falsef(t, flag, "observation %d (signed rt %.3f) flagged as small-time", i, signed[i])
	}

	// Magnitudes at or near zero are always in the small-time regime.
	outputs, err = exec.Exec([]float64{1e-3, -2e-3, 0.01, 0})
	require.NoError(t, err)
	for i, flag := range tensors.MustCopyFlatData[bool](outputs[0]) {
		assert.Truef(t, flag, "near-zero magnitude %d not flagged", i)
	}
}

func TestTermCountsMatchReference(t *testing.T) {
	backend := ssmtest.BuildTestBackend()
	tts := []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5}
	for _, errTol := range []float64{1e-7, 1e-3, 0.5} {
		exec := MustNewExecAny(backend, func(inputs []*Node) []*Node {
			return []*Node{wfpt.KSmall(inputs[0], errTol), wfpt.KLarge(inputs[0], errTol)}
		})
		outputs, err := exec.Exec(tts)
		require.NoError(t, err)
		ks := tensors.MustCopyFlatData[float64](outputs[0])
		kl := tensors.MustCopyFlatData[float64](outputs[1])
		exec.Finalize()
		for i, tt := range tts {
			require.InDeltaf(t, refKSmall(tt, errTol), ks[i], 1e-9, "KSmall(tt=%g, err=%g)", tt, errTol)
			require.InDeltaf(t, refKLarge(tt, errTol), kl[i], 1e-9, "KLarge(tt=%g, err=%g)", tt, errTol)
		}
	}
}

func TestSeriesBranchesAgreeAtCrossover(t *testing.T) {
	backend := ssmtest.BuildTestBackend()
	// Around the crossover both expansions are far inside their convergence
	// regions at 20 terms, so they must agree to float64 precision.
	tts := []float64{0.15, 0.2, 0.25, 0.3, 0.35, 0.5, 0.75, 1}
	ws := make([]float64, len(tts))
	for i := range ws {
		ws[i] = 0.5
	}
	exec := MustNewExecAny(backend, func(inputs []*Node) []*Node {
		return []*Node{
			wfpt.SmallTimeDensity(inputs[0], inputs[1], 20),
			wfpt.LargeTimeDensity(inputs[0], inputs[1], 20),
			wfpt.UseSmallTime(inputs[0], 1e-7),
		}
	})
	defer exec.Finalize()
	outputs, err := exec.Exec(tts, ws)
	require.NoError(t, err)
	small := tensors.MustCopyFlatData[float64](outputs[0])
	large := tensors.MustCopyFlatData[float64](outputs[1])
	flags := tensors.MustCopyFlatData[bool](outputs[2])
	for i, tt := range tts {
		require.InDeltaf(t, small[i], large[i], 1e-9,
			"branches disagree at tt=%g: small=%v large=%v", tt, small[i], large[i])
		require.InDeltaf(t, refSmallTime(tt, 0.5, 20), small[i], 1e-9, "small-time at tt=%g", tt)
		require.InDeltaf(t, refLargeTime(tt, 0.5, 20), large[i], 1e-9, "large-time at tt=%g", tt)
	}
	// The selected branch flips from small-time to large-time inside the grid.
	assert.True(t, flags[0], "tt=%g should be in the small-time regime", tts[0])
	assert.False(t, flags[len(flags)-1], "tt=%g should be in the large-time regime", tts[len(tts)-1])
}

func TestSeriesGraphFns(t *testing.T) {
	tts := []float64{0.1, 0.3, 1.5}
	ws := []float64{0.3, 0.5, 0.7}
	wantSmall := make([]float64, len(tts))
	wantLarge := make([]float64, len(tts))
	for i := range tts {
		wantSmall[i] = refSmallTime(tts[i], ws[i], 12)
		wantLarge[i] = refLargeTime(tts[i], ws[i], 12)
	}
	ssmtest.RunTestGraphFn(t, "SmallTimeDensity and LargeTimeDensity",
		func(g *Graph) (inputs, outputs []*Node) {
			inputs = []*Node{Const(g, tts), Const(g, ws)}
			outputs = []*Node{
				wfpt.SmallTimeDensity(inputs[0], inputs[1], 12),
				wfpt.LargeTimeDensity(inputs[0], inputs[1], 12),
			}
			return
		}, []any{wantSmall, wantLarge}, 1e-12)

	ssmtest.RunTestGraphFn(t, "UseSmallTime",
		func(g *Graph) (inputs, outputs []*Node) {
			inputs = []*Node{Const(g, []float64{0.05, 0.15, 2, 10})}
			outputs = []*Node{wfpt.UseSmallTime(inputs[0], 1e-7)}
			return
		}, []any{[]bool{true, true, false, false}}, -1)
}

func TestLogDensityMatchesReference(t *testing.T) {
	const n = 1000
	rts, choices := fixture(t, n)
	data := tensors.FromFlatDataAndDimensions(sim.Columns(rts, choices), n, 2)

	rng := rand.New(rand.NewPCG(3, 3))
	for draw := 0; draw < 10; draw++ {
		v := rng.Float64()*4 - 2
		sv := rng.Float64() * 0.8
		a := 0.75 + rng.Float64()*0.5
		z := 0.3 + rng.Float64()*0.4
		tnd := rng.Float64() * 0.45
		for _, kTerms := range []int{0, 9} {
			logp := runLogDensity(t, 1e-7, kTerms, data, v, sv, a, z, tnd)
			for i := range n {
				want := refLogDensity(rts[i], choices[i], v, sv, a, z, tnd, 1e-7, kTerms)
				require.InDeltaf(t, want, logp[i], 1e-6,
					"draw %d kTerms=%d obs %d (rt=%.3f c=%v): v=%.3f sv=%.3f a=%.3f z=%.3f t=%.3f",
					draw, kTerms, i, rts[i], choices[i], v, sv, a, z, tnd)
			}
		}
	}
}

func TestLogDensityFixedDriftReduction(t *testing.T) {
	const n = 500
	rts, choices := fixture(t, n)
	data := tensors.FromFlatDataAndDimensions(sim.Columns(rts, choices), n, 2)
	v, a, z, tnd := 0.7, 0.8, 0.45, 0.3
	logp := runLogDensity(t, 1e-7, 0, data, v, 0.0, a, z, tnd)
	for i := range n {
		want := refLogDensityFixedDrift(rts[i], choices[i], v, a, z, tnd, 1e-7, 0)
		require.InDeltaf(t, want, logp[i], 1e-6,
			"sv=0 must reduce to the fixed-drift closed form (obs %d)", i)
	}
}

func TestLogDensityBoundaryConvention(t *testing.T) {
	const n = 500
	rts, choices := fixture(t, n)
	data := tensors.FromFlatDataAndDimensions(sim.Columns(rts, choices), n, 2)

	rng := rand.New(rand.NewPCG(11, 11))
	for draw := 0; draw < 5; draw++ {
		v := rng.Float64()*2 - 1
		sv := rng.Float64() * 0.5
		full := 1.5 + rng.Float64() // full separation, classical convention
		z := 0.4 + rng.Float64()*0.2
		tnd := rng.Float64() * 0.4
		logp := runLogDensity(t, 1e-7, 0, data, v, sv, full/2, z, tnd)
		for i := range n {
			want := refLogDensityFullSep(rts[i], choices[i], v, sv, full, z, tnd, 1e-7, 0)
			require.InDeltaf(t, want, logp[i], 1e-6,
				"draw %d obs %d: half-separation %g must match full separation %g", draw, i, full/2, full)
		}
	}
}

func TestLogDensityInvalidObservations(t *testing.T) {
	data := tensors.FromFlatDataAndDimensions([]float64{
		0.3, 1, // rt < t
		0.5, -1, // rt == t
		2.0, 1, // valid
	}, 3, 2)
	logp := runLogDensity(t, 1e-7, 0, data, 0.5, 0.0, 0.75, 0.5, 0.5)
	require.InDeltaf(t, wfpt.MinLogDensity, logp[0], 1e-12, "rt<t must yield the sentinel")
	require.InDeltaf(t, wfpt.MinLogDensity, logp[1], 1e-12, "rt==t must yield the sentinel")
	assert.Greater(t, logp[2], wfpt.MinLogDensity, "valid observation must be above the sentinel")
	requireAllFinite(t, logp, "invalid observations")
}

func TestLogDensitySignedVectorLayout(t *testing.T) {
	const n = 300
	rts, choices := fixture(t, n)
	columnar := runLogDensity(t, 1e-7, 0,
		tensors.FromFlatDataAndDimensions(sim.Columns(rts, choices), n, 2),
		0.5, 0.1, 0.75, 0.5, 0.4)
	signed := runLogDensity(t, 1e-7, 0, sim.SignedRTs(rts, choices), 0.5, 0.1, 0.75, 0.5, 0.4)
	for i := range n {
		require.InDeltaf(t, columnar[i], signed[i], 1e-12, "layouts disagree at observation %d", i)
	}
}

func TestLogDensityRegressionParameters(t *testing.T) {
	const n = 200
	rts, choices := fixture(t, n)
	data := tensors.FromFlatDataAndDimensions(sim.Columns(rts, choices), n, 2)

	vVec := make([]float64, n)
	tVec := make([]float64, n)
	for i := range n {
		vVec[i] = 0.5
		tVec[i] = 0.4
	}
	scalar := runLogDensity(t, 1e-7, 0, data, 0.5, 0.1, 0.75, 0.5, 0.4)
	vector := runLogDensity(t, 1e-7, 0, data, vVec, 0.1, 0.75, 0.5, tVec)
	for i := range n {
		require.InDeltaf(t, scalar[i], vector[i], 1e-12,
			"constant regression vectors must match scalars at observation %d", i)
	}

	// A regression vector of the wrong length is a shape error.
	backend := ssmtest.BuildTestBackend()
	exec := MustNewExecAny(backend, func(inputs []*Node) *Node {
		return wfpt.LogDensity(inputs[0], inputs[1], inputs[2], inputs[3], inputs[4], inputs[5], 1e-7, 0)
	})
	defer exec.Finalize()
	_, err := exec.Exec(data, vVec[:n-1], 0.1, 0.75, 0.5, 0.4)
	require.Error(t, err, "length mismatch between data and a regression parameter must fail")
}

func TestLogDensityGradients(t *testing.T) {
	backend := ssmtest.BuildTestBackend()
	const n = 50
	rts, choices := fixture(t, n)
	rts[0] = 0.1 // one invalid observation; its sentinel must not poison gradients
	data := tensors.FromFlatDataAndDimensions(sim.Columns(rts, choices), n, 2)

	// A fixed term count keeps the density smooth in the parameters, so
	// central differences are a valid check for the autodiff gradients.
	const kTerms = 9
	exec := MustNewExecAny(backend, func(inputs []*Node) []*Node {
		logp := wfpt.LogDensity(inputs[0], inputs[1], inputs[2], inputs[3], inputs[4], inputs[5], 1e-7, kTerms)
		loss := ReduceAllSum(logp)
		return append([]*Node{loss}, Gradient(loss, inputs[1:]...)...)
	})
	defer exec.Finalize()

	v, sv, a, z, tnd := 0.5, 0.1, 0.75, 0.5, 0.4
	outputs, err := exec.Exec(data, v, sv, a, z, tnd)
	require.NoError(t, err)
	require.Len(t, outputs, 6)
	values := make([]float64, len(outputs))
	for i, out := range outputs {
		values[i] = tensors.ToScalar[float64](out)
	}
	requireAllFinite(t, values, "loss and gradients")

	// Central finite differences on each parameter.
	sumAt := func(pv, psv, pa, pz, pt float64) float64 {
		logp := runLogDensity(t, 1e-7, kTerms, data, pv, psv, pa, pz, pt)
		var sum float64
		for _, lp := range logp {
			sum += lp
		}
		return sum
	}
	const h = 1e-6
	fds := []float64{
		(sumAt(v+h, sv, a, z, tnd) - sumAt(v-h, sv, a, z, tnd)) / (2 * h),
		(sumAt(v, sv+h, a, z, tnd) - sumAt(v, sv-h, a, z, tnd)) / (2 * h),
		(sumAt(v, sv, a+h, z, tnd) - sumAt(v, sv, a-h, z, tnd)) / (2 * h),
		(sumAt(v, sv, a, z+h, tnd) - sumAt(v, sv, a, z-h, tnd)) / (2 * h),
		(sumAt(v, sv, a, z, tnd+h) - sumAt(v, sv, a, z, tnd-h)) / (2 * h),
	}
	names := []string{"v", "sv", "a", "z", "t"}
	for i, fd := range fds {
		tolerance := 1e-4 * math.Max(1, math.Abs(fd))
		require.InDeltaf(t, fd, values[i+1], tolerance,
			"gradient wrt %s: autodiff=%v finite-difference=%v", names[i], values[i+1], fd)
	}
}

func TestLogDensityEndToEnd(t *testing.T) {
	const n = 1000
	rts, choices := fixture(t, n)
	data := tensors.FromFlatDataAndDimensions(sim.Columns(rts, choices), n, 2)
	logp := runLogDensity(t, 1e-7, 0, data, 0.5, 0.0, 1.5, 0.5, 0.5)
	requireAllFinite(t, logp, "end to end")

	var sum, want float64
	for i := range n {
		sum += logp[i]
		want += refLogDensity(rts[i], choices[i], 0.5, 0, 1.5, 0.5, 0.5, 1e-7, 0)
	}
	require.False(t, math.IsNaN(sum) || math.IsInf(sum, 0), "summed log-likelihood is %v", sum)
	require.InDeltaf(t, want, sum, 1e-2, "summed log-likelihood: got %v, reference %v", sum, want)
}
