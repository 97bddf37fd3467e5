// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package ssmtest holds test utilities for the packages of this repository,
// and for users testing models that embed its likelihood ops.
//
// By default tests run on the pure Go backend, so they work without any PJRT
// plugin installed. Set the GOMLX_BACKEND environment variable to test
// against a different backend (e.g. "xla:cpu").
package ssmtest

import (
	"fmt"
	"sync"
	"testing"

	"github.com/gomlx/gomlx/backends"
	_ "github.com/gomlx/gomlx/backends/simplego"
	"github.com/gomlx/gomlx/pkg/core/graph"
	"github.com/gomlx/gomlx/pkg/core/shapes"
	"github.com/gomlx/gomlx/pkg/core/tensors"
	"github.com/gomlx/gomlx/pkg/support/xslices"
	"github.com/stretchr/testify/require"
)

// TestGraphFn should build its own inputs, and return both inputs and outputs.
type TestGraphFn func(g *graph.Graph) (inputs, outputs []*graph.Node)

var (
	backendOnce   sync.Once
	cachedBackend backends.Backend
)

// BuildTestBackend returns the backend shared by all tests in the process.
// It honors GOMLX_BACKEND and otherwise falls back to the "go" backend.
func BuildTestBackend() backends.Backend {
	backendOnce.Do(func() {
		cachedBackend = backends.MustNew()
	})
	return cachedBackend
}

// RunTestGraphFn tests a graph building function graphFn by executing it and
// comparing its output(s) to the values in want, reporting back any errors
// in t.
//
// delta is the margin of value on the difference of output and want values
// that are acceptable. Values of delta <= 0 means only exact equality is
// accepted.
func RunTestGraphFn(t *testing.T, testName string, graphFn TestGraphFn, want []any, delta float64) {
	RunTestGraphFnWithBackend(t, testName, BuildTestBackend(), graphFn, want, delta)
}

// RunTestGraphFnWithBackend is like RunTestGraphFn on a specific backend.
func RunTestGraphFnWithBackend(t *testing.T, testName string, backend backends.Backend, graphFn TestGraphFn, want []any, delta float64) {
	t.Run(testName, func(t *testing.T) {
		wantTensors := xslices.Map(want, func(value any) *tensors.Tensor {
			if s, ok := value.(shapes.Shape); ok {
				return tensors.FromShape(s)
			}
			return tensors.FromAnyValue(value)
		})

		var numInputs int
		wrapperFn := func(g *graph.Graph) []*graph.Node {
			i, o := graphFn(g)
			numInputs = len(i)
			return append(i, o...)
		}
		exec := graph.MustNewExec(backend, wrapperFn)
		defer exec.Finalize()
		inputsAndOutputs, err := exec.Exec()
		require.NoErrorf(t, err, "%s: failed to execute graph", testName)
		inputs := inputsAndOutputs[:numInputs]
		outputs := inputsAndOutputs[numInputs:]

		fmt.Printf("\n%s:\n", testName)
		for ii, input := range inputs {
			fmt.Printf("\tInput %d: %s\n", ii, input.GoStr())
		}
		if numInputs > 0 {
			fmt.Printf("\t======\n")
		}
		for ii, output := range outputs {
			fmt.Printf("\tOutput %d: %s\n", ii, output.GoStr())
		}
		require.Equalf(t, len(want), len(outputs), "%s: number of wanted results different from number of outputs", testName)

		for ii, output := range outputs {
			require.Truef(t, wantTensors[ii].InDelta(output, delta), "%s: output #%d doesn't match wanted value %v",
				testName, ii, want[ii])
		}
	})
}
