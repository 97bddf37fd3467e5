// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package lan loads and executes likelihood approximation networks: small
// feed-forward networks trained to approximate the log-density of a
// sequential sampling model, evaluated per observation.
//
// A network is stored as a flat, explicitly ordered compute graph (see
// Network), restricted to a closed set of operations (OpKind). The same
// network can be interpreted three ways:
//
//   - Network.BuildGraph inlines it into a host computation graph, so the
//     host's own autodiff differentiates through it ("symbolic").
//   - NetExec runs it stand-alone on a backend, JIT-compiling on first use
//     ("traced"), with a CallNoJIT variant that recompiles every call.
//   - Network.EvalNative interprets it on gonum matrices in float64, with
//     no backend involved, as a reference runtime.
//
// MakeLogpFuncs, MakeLogpOp and MakeGraphLogp assemble the full
// per-observation log-density pipeline (input routing, network evaluation,
// output squeezing) on top of those runtimes.
package lan

// Network is a likelihood approximation network: a flat list of nodes in
// execution order, operating on named tensors. Names are unique; every
// tensor is produced exactly once, by the declared input, a constant, or a
// node output, and must be produced before it is read.
//
// The batch axis is always axis 0: the input has shape (batch, InputWidth)
// and the first declared output carries one value per batch row.
type Network struct {
	// Name identifies the network in errors and logs.
	Name string `json:"name"`

	// Input is the name of the single batch input tensor, with shape
	// (batch, InputWidth).
	Input      string `json:"input"`
	InputWidth int    `json:"input_width"`

	// Consts are the trained weights and any other fixed tensors.
	Consts []TensorDef `json:"consts"`

	// Nodes are the operations, in execution order.
	Nodes []NodeDef `json:"nodes"`

	// Outputs name the tensors returned by the network, in order. The
	// first one is the per-observation result used by the logp helpers.
	Outputs []string `json:"outputs"`
}

// TensorDef is a constant tensor: trained weights, biases or fixed tables.
// Data is the row-major flat contents, of length equal to the product of
// Dims. Values are stored in float32, the precision the networks are
// trained and executed in.
type TensorDef struct {
	Name string    `json:"name"`
	Dims []int     `json:"dims"`
	Data []float32 `json:"data"`
}

// NodeDef is one operation of the network. Only the attributes relevant to
// its OpKind are used: Axis for OpConcat, Perm for OpTranspose, Dims for
// OpReshape and Alpha for OpLeakyRelu.
type NodeDef struct {
	Op   OpKind `json:"op"`
	Name string `json:"name"`

	// Inputs are the names of the tensors consumed, in the op's argument
	// order. Outputs has exactly one entry, the tensor produced.
	Inputs  []string `json:"inputs"`
	Outputs []string `json:"outputs"`

	// Axis of concatenation for OpConcat. Negative values count from the
	// end, as usual.
	Axis int `json:"axis,omitempty"`

	// Perm is the axes permutation for OpTranspose. Empty means reverse
	// all axes.
	Perm []int `json:"perm,omitempty"`

	// Dims is the target shape for OpReshape. At most one entry may be -1,
	// which is inferred from the input size.
	Dims []int `json:"dims,omitempty"`

	// Alpha is the negative-side slope for OpLeakyRelu. Zero means the
	// default of 0.01.
	Alpha float64 `json:"alpha,omitempty"`
}

// NumParams returns the total number of values held in constant tensors,
// a rough measure of network size.
func (n *Network) NumParams() int {
	total := 0
	for _, c := range n.Consts {
		total += len(c.Data)
	}
	return total
}
