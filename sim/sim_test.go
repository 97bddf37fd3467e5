// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package sim_test

import (
	"testing"

	"github.com/gomlx/ssm/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
)

func TestDDMReproducible(t *testing.T) {
	p := sim.DDMParams{V: 0.5, A: 1.5, Z: 0.5, T: 0.5}
	rts1, choices1 := sim.DDM(p, 100, 42)
	rts2, choices2 := sim.DDM(p, 100, 42)
	require.Equal(t, rts1, rts2, "same seed must reproduce the same reaction times")
	require.Equal(t, choices1, choices2, "same seed must reproduce the same choices")

	rts3, _ := sim.DDM(p, 100, 43)
	assert.NotEqual(t, rts1, rts3, "different seeds must yield different trials")
}

func TestDDMRangesAndDriftDirection(t *testing.T) {
	const n = 4000
	up := sim.DDMParams{V: 1.5, A: 1.0, Z: 0.5, T: 0.3}
	rts, choices := sim.DDM(up, n, 7)
	require.Len(t, rts, n)
	require.Len(t, choices, n)
	for i := range n {
		require.Greaterf(t, rts[i], up.T, "trial %d: rt must include the non-decision time", i)
		require.Lessf(t, rts[i], 25.0, "trial %d: rt beyond the decision-time cap", i)
		require.Containsf(t, []float64{-1, 1}, choices[i], "trial %d: choice must be a boundary sign", i)
	}
	assert.Greater(t, stat.Mean(choices, nil), 0.5,
		"strong positive drift from the midpoint must mostly hit the upper boundary")

	down := up
	down.V = -up.V
	_, choicesDown := sim.DDM(down, n, 7)
	assert.Less(t, stat.Mean(choicesDown, nil), -0.5,
		"strong negative drift from the midpoint must mostly hit the lower boundary")
}

func TestSignedRTsAndColumns(t *testing.T) {
	rts := []float64{0.7, 1.2, 0.9}
	choices := []float64{1, -1, 1}
	assert.Equal(t, []float64{0.7, -1.2, 0.9}, sim.SignedRTs(rts, choices))
	assert.Equal(t, []float64{0.7, 1, 1.2, -1, 0.9, 1}, sim.Columns(rts, choices))
}
