// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package lan

import (
	"github.com/pkg/errors"

	"github.com/gomlx/gomlx/backends"
	. "github.com/gomlx/gomlx/pkg/core/graph"
	"github.com/gomlx/gomlx/pkg/core/tensors"
)

// LogpFunc evaluates the log-density of a batch of observations: data is
// the (batch, features) observation matrix, params the model parameters,
// and the result the (batch,) vector of per-observation log-densities.
type LogpFunc func(data *tensors.Tensor, params ...*tensors.Tensor) (*tensors.Tensor, error)

// LogpGradFunc is the vector-Jacobian product of a LogpFunc: the gradients
// of sum(logp * outputGrad) with respect to each parameter, in parameter
// order. Scalar parameters get scalar gradients, regression parameters get
// batch-length vectors.
type LogpGradFunc func(outputGrad, data *tensors.Tensor, params ...*tensors.Tensor) ([]*tensors.Tensor, error)

// logpGraph routes parameters and data into the network, interprets it, and
// squeezes the (batch, 1) network output into the (batch,) log-density
// vector. The first declared output is the log-density.
func logpGraph(net *Network, isRegression []bool, data *Node, params []*Node) *Node {
	out := net.BuildGraph(RouteInputs(data, params, isRegression))[0]
	if out.Rank() == 2 && out.Shape().Dimensions[1] == 1 {
		out = Squeeze(out, -1)
	}
	return out
}

// MakeLogpFuncs returns the three callables a sampler wires in: the cached
// evaluator (compiled once per input shape and reused), its
// vector-Jacobian product, and an uncached variant that compiles a fresh
// computation on every call. All three evaluate the same pipeline:
// RouteInputs, the network, and the output squeeze.
func MakeLogpFuncs(backend backends.Backend, net *Network, isRegression []bool) (logp LogpFunc, logpGrad LogpGradFunc, logpNoJIT LogpFunc, err error) {
	op, err := MakeLogpOp(backend, net, isRegression)
	if err != nil {
		return nil, nil, nil, err
	}
	logp = func(data *tensors.Tensor, params ...*tensors.Tensor) (*tensors.Tensor, error) {
		return op.Forward(append([]*tensors.Tensor{data}, params...))
	}
	logpGrad = func(outputGrad, data *tensors.Tensor, params ...*tensors.Tensor) ([]*tensors.Tensor, error) {
		grads, err := op.Backward(append([]*tensors.Tensor{data}, params...), outputGrad)
		if err != nil {
			return nil, err
		}
		// Drop the data slot, nil by construction: callers get parameter
		// gradients only, aligned with params.
		return grads[1:], nil
	}
	graphFn := func(inputs []*Node) *Node {
		return logpGraph(net, isRegression, inputs[0], inputs[1:])
	}
	logpNoJIT = func(data *tensors.Tensor, params ...*tensors.Tensor) (*tensors.Tensor, error) {
		exec := MustNewExecAny(backend, graphFn)
		defer exec.Finalize()
		args := append([]any{data}, tensorsToArgs(params)...)
		outputs, err := exec.Exec(args...)
		if err != nil {
			return nil, errors.WithMessagef(err, "lan: evaluating network %q uncached", net.Name)
		}
		return outputs[0], nil
	}
	return logp, logpGrad, logpNoJIT, nil
}

// MakeGraphLogp returns a graph-building function that inlines the whole
// logp pipeline into a host graph, so the host's own Gradient
// differentiates through it: the symbolic counterpart of MakeLogpOp. The
// two produce the same values and gradients; use MakeLogpOp when the outer
// engine cannot trace through the computation, MakeGraphLogp when it can.
//
// Structural problems in the network panic with an exception at the first
// interpretation, following the graph package's convention.
func MakeGraphLogp(net *Network, isRegression []bool) func(data *Node, params ...*Node) *Node {
	return func(data *Node, params ...*Node) *Node {
		return logpGraph(net, isRegression, data, params)
	}
}
