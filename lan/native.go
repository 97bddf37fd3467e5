// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package lan

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// EvalNative interprets the network on gonum matrices, in float64, with no
// graph backend involved. It returns the declared outputs, in order.
//
// This is the reference runtime: slow, but simple enough to audit, and the
// one the graph-based runtimes are compared against in tests. It is
// restricted to matrices, so every tensor in the network, constants
// included, must be rank-2; the float32 weights are widened to float64
// exactly.
func (n *Network) EvalNative(input *mat.Dense) ([]*mat.Dense, error) {
	rows, cols := input.Dims()
	if cols != n.InputWidth {
		return nil, errors.Errorf("lan: network %q declares input width %d, got a %dx%d input", n.Name, n.InputWidth, rows, cols)
	}

	env := make(map[string]*mat.Dense, 1+len(n.Consts)+len(n.Nodes))
	env[n.Input] = input
	for _, c := range n.Consts {
		if _, found := env[c.Name]; found {
			return nil, errors.Errorf("lan: network %q: tensor %q is produced more than once", n.Name, c.Name)
		}
		if len(c.Dims) != 2 {
			return nil, errors.Errorf("lan: network %q: the native runtime is matrix-only, constant %q has dims %v",
				n.Name, c.Name, c.Dims)
		}
		data := make([]float64, len(c.Data))
		for i, v := range c.Data {
			data[i] = float64(v)
		}
		env[c.Name] = mat.NewDense(c.Dims[0], c.Dims[1], data)
	}

	for i, node := range n.Nodes {
		if arity := node.Op.arity(); arity >= 0 && len(node.Inputs) != arity {
			return nil, errors.Errorf("lan: network %q: node #%d (%s %q) takes %d inputs, got %d",
				n.Name, i, node.Op, node.Name, arity, len(node.Inputs))
		} else if arity < 0 && len(node.Inputs) == 0 {
			return nil, errors.Errorf("lan: network %q: node #%d (%s %q) takes at least one input, got none",
				n.Name, i, node.Op, node.Name)
		}
		inputs := make([]*mat.Dense, len(node.Inputs))
		for j, name := range node.Inputs {
			in, found := env[name]
			if !found {
				return nil, errors.Errorf("lan: network %q: node #%d (%s %q) reads tensor %q before it is produced",
					n.Name, i, node.Op, node.Name, name)
			}
			inputs[j] = in
		}
		if len(node.Outputs) != 1 {
			return nil, errors.Errorf("lan: network %q: node #%d (%s %q) must produce exactly one tensor, got %d",
				n.Name, i, node.Op, node.Name, len(node.Outputs))
		}
		if _, found := env[node.Outputs[0]]; found {
			return nil, errors.Errorf("lan: network %q: tensor %q is produced more than once", n.Name, node.Outputs[0])
		}
		out, err := evalNode(node, inputs)
		if err != nil {
			return nil, errors.WithMessagef(err, "lan: network %q: node #%d (%s %q)", n.Name, i, node.Op, node.Name)
		}
		env[node.Outputs[0]] = out
	}

	outputs := make([]*mat.Dense, len(n.Outputs))
	for i, name := range n.Outputs {
		out, found := env[name]
		if !found {
			return nil, errors.Errorf("lan: network %q: declared output %q is never produced", n.Name, name)
		}
		outputs[i] = out
	}
	return outputs, nil
}

func evalNode(node NodeDef, inputs []*mat.Dense) (*mat.Dense, error) {
	x := inputs[0]
	switch node.Op {
	case OpMatMul:
		xr, xc := x.Dims()
		yr, yc := inputs[1].Dims()
		if xc != yr {
			return nil, errors.Errorf("cannot multiply a %dx%d matrix by a %dx%d one", xr, xc, yr, yc)
		}
		out := mat.NewDense(xr, yc, nil)
		out.Mul(x, inputs[1])
		return out, nil
	case OpAdd:
		return broadcastBinary(x, inputs[1], func(a, b float64) float64 { return a + b })
	case OpSub:
		return broadcastBinary(x, inputs[1], func(a, b float64) float64 { return a - b })
	case OpMul:
		return broadcastBinary(x, inputs[1], func(a, b float64) float64 { return a * b })
	case OpDiv:
		return broadcastBinary(x, inputs[1], func(a, b float64) float64 { return a / b })
	case OpNeg:
		return applyElem(x, func(v float64) float64 { return -v }), nil
	case OpRelu:
		return applyElem(x, func(v float64) float64 { return math.Max(v, 0) }), nil
	case OpLeakyRelu:
		alpha := leakyReluAlpha(node)
		return applyElem(x, func(v float64) float64 {
			if v < 0 {
				return alpha * v
			}
			return v
		}), nil
	case OpTanh:
		return applyElem(x, math.Tanh), nil
	case OpSigmoid:
		return applyElem(x, func(v float64) float64 { return 1 / (1 + math.Exp(-v)) }), nil
	case OpSoftplus:
		return applyElem(x, func(v float64) float64 {
			return math.Max(v, 0) + math.Log1p(math.Exp(-math.Abs(v)))
		}), nil
	case OpExp:
		return applyElem(x, math.Exp), nil
	case OpLog:
		return applyElem(x, math.Log), nil
	case OpIdentity:
		return x, nil
	case OpReshape:
		xr, xc := x.Dims()
		dims, err := resolveReshape(node.Dims, xr*xc)
		if err != nil {
			return nil, err
		}
		if len(dims) != 2 {
			return nil, errors.Errorf("the native runtime is matrix-only, cannot reshape to %v", dims)
		}
		return mat.NewDense(dims[0], dims[1], flatten(x)), nil
	case OpTranspose:
		perm := transposePerm(node.Perm, 2)
		if len(perm) != 2 {
			return nil, errors.Errorf("the native runtime is matrix-only, cannot transpose with perm %v", node.Perm)
		}
		if perm[0] == 0 {
			return x, nil
		}
		return mat.DenseCopyOf(x.T()), nil
	case OpConcat:
		return concatDense(inputs, node.Axis)
	}
	return nil, errors.Errorf("unsupported op %s", node.Op)
}

// applyElem returns f applied elementwise to a fresh matrix.
func applyElem(x *mat.Dense, f func(float64) float64) *mat.Dense {
	var out mat.Dense
	out.Apply(func(_, _ int, v float64) float64 { return f(v) }, x)
	return &out
}

// broadcastBinary applies f elementwise, broadcasting size-1 axes of either
// operand against the other, numpy-style.
func broadcastBinary(x, y *mat.Dense, f func(a, b float64) float64) (*mat.Dense, error) {
	xr, xc := x.Dims()
	yr, yc := y.Dims()
	rows, okRows := broadcastDim(xr, yr)
	cols, okCols := broadcastDim(xc, yc)
	if !okRows || !okCols {
		return nil, errors.Errorf("cannot broadcast a %dx%d matrix with a %dx%d one", xr, xc, yr, yc)
	}
	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		xi, yi := i, i
		if xr == 1 {
			xi = 0
		}
		if yr == 1 {
			yi = 0
		}
		for j := 0; j < cols; j++ {
			xj, yj := j, j
			if xc == 1 {
				xj = 0
			}
			if yc == 1 {
				yj = 0
			}
			out.Set(i, j, f(x.At(xi, xj), y.At(yi, yj)))
		}
	}
	return out, nil
}

func broadcastDim(x, y int) (int, bool) {
	switch {
	case x == y:
		return x, true
	case x == 1:
		return y, true
	case y == 1:
		return x, true
	}
	return 0, false
}

// flatten copies x row-major into a fresh slice.
func flatten(x *mat.Dense) []float64 {
	rows, cols := x.Dims()
	flat := make([]float64, 0, rows*cols)
	for i := 0; i < rows; i++ {
		flat = append(flat, x.RawRowView(i)...)
	}
	return flat
}

func concatDense(inputs []*mat.Dense, axis int) (*mat.Dense, error) {
	if axis < 0 {
		axis += 2
	}
	if axis != 0 && axis != 1 {
		return nil, errors.Errorf("the native runtime is matrix-only, cannot concatenate on axis %d", axis)
	}
	rows0, cols0 := inputs[0].Dims()
	total := 0
	for _, in := range inputs {
		rows, cols := in.Dims()
		if axis == 0 {
			if cols != cols0 {
				return nil, errors.Errorf("cannot concatenate a %dx%d matrix with a %dx%d one on axis 0", rows0, cols0, rows, cols)
			}
			total += rows
		} else {
			if rows != rows0 {
				return nil, errors.Errorf("cannot concatenate a %dx%d matrix with a %dx%d one on axis 1", rows0, cols0, rows, cols)
			}
			total += cols
		}
	}
	var out *mat.Dense
	if axis == 0 {
		out = mat.NewDense(total, cols0, nil)
		at := 0
		for _, in := range inputs {
			rows, _ := in.Dims()
			for i := 0; i < rows; i++ {
				out.SetRow(at, in.RawRowView(i))
				at++
			}
		}
	} else {
		out = mat.NewDense(rows0, total, nil)
		at := 0
		for _, in := range inputs {
			_, cols := in.Dims()
			for j := 0; j < cols; j++ {
				for i := 0; i < rows0; i++ {
					out.Set(i, at, in.At(i, j))
				}
				at++
			}
		}
	}
	return out, nil
}
