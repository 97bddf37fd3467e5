// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package lan

import (
	"github.com/pkg/errors"

	"github.com/gomlx/gomlx/backends"
	. "github.com/gomlx/gomlx/pkg/core/graph"
	"github.com/gomlx/gomlx/pkg/core/tensors"
	"github.com/gomlx/gomlx/pkg/support/xslices"
)

// Op is the contract between a compiled operator and an outer
// differentiation engine that cannot trace through it: an explicit forward
// evaluation plus the matching vector-Jacobian product. A sampler or
// optimizer written against Op can treat the whole likelihood evaluation as
// one opaque, differentiable node.
type Op interface {
	// Forward evaluates the operator. inputs[0] is the observation matrix,
	// inputs[1:] the parameters.
	Forward(inputs []*tensors.Tensor) (*tensors.Tensor, error)

	// Backward returns the vector-Jacobian product of the operator for
	// outputGrad, one tensor per entry of inputs, aligned by position.
	// Entries the operator does not differentiate with respect to are nil.
	Backward(inputs []*tensors.Tensor, outputGrad *tensors.Tensor) ([]*tensors.Tensor, error)
}

// LogpOp is the Op for a likelihood network: Forward routes the parameters
// and data through the network and returns the (batch,) vector of
// log-densities; Backward returns the gradients of sum(logp * outputGrad)
// with respect to each parameter.
//
// A scalar parameter's gradient is a scalar even though the parameter was
// tiled across the batch: the tiling is part of the traced computation, so
// its adjoint, the sum over the batch, is taken by the same autodiff that
// produces the gradient. A regression parameter's gradient is a
// batch-length vector, one entry per observation.
//
// By default the observation matrix is treated as constant and its gradient
// slot is nil; WithDataGradient enables it.
type LogpOp struct {
	net          *Network
	isRegression []bool
	wrtData      bool

	forward  *Exec
	backward *Exec
}

var _ Op = (*LogpOp)(nil)

// LogpOpOption configures a LogpOp.
type LogpOpOption func(*LogpOp)

// WithDataGradient makes Backward also differentiate with respect to the
// observation matrix, filling its gradient slot instead of leaving it nil.
// Useful when the observations themselves are produced by an upstream
// differentiable transformation.
func WithDataGradient() LogpOpOption {
	return func(op *LogpOp) { op.wrtData = true }
}

// MakeLogpOp validates the network and builds the forward and backward
// executors. isRegression flags, per network parameter, whether the
// parameter is a batch-length regression vector rather than a scalar; the
// network input width must equal len(isRegression) plus the number of data
// columns, checked at first execution.
func MakeLogpOp(backend backends.Backend, net *Network, isRegression []bool, opts ...LogpOpOption) (*LogpOp, error) {
	if err := net.Validate(); err != nil {
		return nil, err
	}
	op := &LogpOp{net: net, isRegression: isRegression}
	for _, opt := range opts {
		opt(op)
	}
	op.forward = MustNewExecAny(backend, func(inputs []*Node) *Node {
		return logpGraph(net, isRegression, inputs[0], inputs[1:])
	})
	op.backward = MustNewExecAny(backend, func(inputs []*Node) []*Node {
		data := inputs[0]
		params := inputs[1 : len(inputs)-1]
		outputGrad := inputs[len(inputs)-1]
		logp := logpGraph(net, isRegression, data, params)
		contracted := ReduceAllSum(Mul(logp, outputGrad))
		wrt := make([]*Node, 0, 1+len(params))
		if op.wrtData {
			wrt = append(wrt, data)
		}
		wrt = append(wrt, params...)
		return Gradient(contracted, wrt...)
	})
	return op, nil
}

// Forward implements Op.
func (op *LogpOp) Forward(inputs []*tensors.Tensor) (*tensors.Tensor, error) {
	outputs, err := op.forward.Exec(tensorsToArgs(inputs)...)
	if err != nil {
		return nil, errors.WithMessagef(err, "lan: forward of network %q", op.net.Name)
	}
	return outputs[0], nil
}

// Backward implements Op. outputGrad must have the forward output's shape,
// (batch,).
func (op *LogpOp) Backward(inputs []*tensors.Tensor, outputGrad *tensors.Tensor) ([]*tensors.Tensor, error) {
	args := append(tensorsToArgs(inputs), outputGrad)
	grads, err := op.backward.Exec(args...)
	if err != nil {
		return nil, errors.WithMessagef(err, "lan: backward of network %q", op.net.Name)
	}
	if op.wrtData {
		return grads, nil
	}
	return append([]*tensors.Tensor{nil}, grads...), nil
}

// Finalize releases both executors' cached executables.
func (op *LogpOp) Finalize() {
	op.forward.Finalize()
	op.backward.Finalize()
}

func tensorsToArgs(inputs []*tensors.Tensor) []any {
	return xslices.Map(inputs, func(t *tensors.Tensor) any { return t })
}
