// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package lan

import (
	"github.com/pkg/errors"

	"github.com/gomlx/gomlx/pkg/core/dtypes"
	. "github.com/gomlx/gomlx/pkg/core/graph"
	"github.com/gomlx/gomlx/pkg/core/tensors"
	"github.com/gomlx/gomlx/pkg/ml/layers/activations"

	. "github.com/gomlx/gomlx/pkg/support/exceptions"
)

// BuildGraph interprets the network inside the graph of input, which
// becomes the network's declared input tensor. It returns the declared
// output nodes, in order.
//
// Because the network is expressed in the graph's own operations, the
// results are differentiable by graph.Gradient like any other node: this is
// the runtime to use when the network is part of a larger computation that
// needs gradients flowing through it.
//
// Structural and shape problems panic with a descriptive exception, the
// graph package convention; Exec converts such panics to errors at its API
// boundary.
func (n *Network) BuildGraph(input *Node) []*Node {
	g := input.Graph()
	if input.Rank() != 2 {
		Panicf("lan: network %q input must be rank-2 (batch, features), got shape %s", n.Name, input.Shape())
	}
	if got := input.Shape().Dimensions[1]; got != n.InputWidth {
		Panicf("lan: network %q declares input width %d, got shape %s", n.Name, n.InputWidth, input.Shape())
	}
	// Weights are float32, so the input must be too: catching it here beats a
	// dtype mismatch deep inside some MatMul.
	if input.DType() != dtypes.Float32 {
		Panicf("lan: network %q takes float32 inputs, got dtype %s", n.Name, input.DType())
	}

	env := make(map[string]*Node, 1+len(n.Consts)+len(n.Nodes))
	env[n.Input] = input
	for _, c := range n.Consts {
		if _, found := env[c.Name]; found {
			Panicf("lan: network %q: tensor %q is produced more than once", n.Name, c.Name)
		}
		env[c.Name] = ConstTensor(g, tensors.FromFlatDataAndDimensions(c.Data, c.Dims...))
	}

	for i, node := range n.Nodes {
		if arity := node.Op.arity(); arity >= 0 && len(node.Inputs) != arity {
			Panicf("lan: network %q: node #%d (%s %q) takes %d inputs, got %d",
				n.Name, i, node.Op, node.Name, arity, len(node.Inputs))
		} else if arity < 0 && len(node.Inputs) == 0 {
			Panicf("lan: network %q: node #%d (%s %q) takes at least one input, got none",
				n.Name, i, node.Op, node.Name)
		}
		inputs := make([]*Node, len(node.Inputs))
		for j, name := range node.Inputs {
			in, found := env[name]
			if !found {
				Panicf("lan: network %q: node #%d (%s %q) reads tensor %q before it is produced",
					n.Name, i, node.Op, node.Name, name)
			}
			inputs[j] = in
		}
		if len(node.Outputs) != 1 {
			Panicf("lan: network %q: node #%d (%s %q) must produce exactly one tensor, got %d",
				n.Name, i, node.Op, node.Name, len(node.Outputs))
		}
		if _, found := env[node.Outputs[0]]; found {
			Panicf("lan: network %q: tensor %q is produced more than once", n.Name, node.Outputs[0])
		}
		env[node.Outputs[0]] = n.buildNode(i, node, inputs)
	}

	outputs := make([]*Node, len(n.Outputs))
	for i, name := range n.Outputs {
		out, found := env[name]
		if !found {
			Panicf("lan: network %q: declared output %q is never produced", n.Name, name)
		}
		outputs[i] = out
	}
	return outputs
}

// buildNode emits the graph operations for one network node.
func (n *Network) buildNode(i int, node NodeDef, inputs []*Node) *Node {
	x := inputs[0]
	switch node.Op {
	case OpMatMul:
		return MatMul(x, inputs[1])
	case OpAdd:
		return Add(x, inputs[1])
	case OpSub:
		return Sub(x, inputs[1])
	case OpMul:
		return Mul(x, inputs[1])
	case OpDiv:
		return Div(x, inputs[1])
	case OpNeg:
		return Neg(x)
	case OpRelu:
		return activations.Relu(x)
	case OpLeakyRelu:
		return activations.LeakyReluWithAlpha(x, leakyReluAlpha(node))
	case OpTanh:
		return Tanh(x)
	case OpSigmoid:
		return Sigmoid(x)
	case OpSoftplus:
		return softplus(x)
	case OpExp:
		return Exp(x)
	case OpLog:
		return Log(x)
	case OpIdentity:
		return x
	case OpReshape:
		dims, err := resolveReshape(node.Dims, x.Shape().Size())
		if err != nil {
			Panicf("lan: network %q: node #%d (%s %q): %v", n.Name, i, node.Op, node.Name, err)
		}
		return Reshape(x, dims...)
	case OpTranspose:
		if len(node.Perm) > 0 && len(node.Perm) != x.Rank() {
			Panicf("lan: network %q: node #%d (%s %q): perm %v does not match input rank %d",
				n.Name, i, node.Op, node.Name, node.Perm, x.Rank())
		}
		return TransposeAllDims(x, transposePerm(node.Perm, x.Rank())...)
	case OpConcat:
		return Concatenate(inputs, node.Axis)
	}
	Panicf("lan: network %q: node #%d (%q) has unsupported op %s", n.Name, i, node.Name, node.Op)
	return nil
}

// softplus is log(1+exp(x)) computed stably: max(x,0) + log1p(exp(-|x|)).
func softplus(x *Node) *Node {
	return Add(MaxScalar(x, 0), Log1p(Exp(Neg(Abs(x)))))
}

// leakyReluAlpha returns the negative-side slope, defaulting to 0.01.
func leakyReluAlpha(node NodeDef) float64 {
	if node.Alpha == 0 {
		return 0.01
	}
	return node.Alpha
}

// resolveReshape fills the one allowed -1 in a reshape target from the
// input size, and checks sizes match.
func resolveReshape(dims []int, size int) ([]int, error) {
	resolved := make([]int, len(dims))
	known := 1
	inferAt := -1
	for i, dim := range dims {
		resolved[i] = dim
		if dim == -1 {
			if inferAt >= 0 {
				return nil, errors.Errorf("reshape dims %v have more than one -1", dims)
			}
			inferAt = i
			continue
		}
		if dim <= 0 {
			return nil, errors.Errorf("reshape to invalid dimension %d", dim)
		}
		known *= dim
	}
	if inferAt >= 0 {
		if known == 0 || size%known != 0 {
			return nil, errors.Errorf("cannot reshape %d values to %v", size, dims)
		}
		resolved[inferAt] = size / known
		return resolved, nil
	}
	if known != size {
		return nil, errors.Errorf("cannot reshape %d values to %v (%d values)", size, dims, known)
	}
	return resolved, nil
}

// transposePerm returns perm itself, or the all-axes reversal when empty.
func transposePerm(perm []int, rank int) []int {
	if len(perm) > 0 {
		return perm
	}
	reversed := make([]int, rank)
	for i := range reversed {
		reversed[i] = rank - 1 - i
	}
	return reversed
}
