// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package lan

import (
	"github.com/gomlx/gomlx/pkg/support/sets"
	"github.com/pkg/errors"
)

// Validate checks the structural integrity of the network: every referenced
// tensor is produced before it is read, every tensor is produced exactly
// once, constants carry data matching their dims, ops are known and get the
// right number of inputs, and shape attributes are well formed.
//
// A network that validates may still fail at interpretation time on shape
// mismatches, which depend on the actual input shape. Validate never
// evaluates anything.
func (n *Network) Validate() error {
	if n.Input == "" {
		return errors.Errorf("network %q declares no input tensor", n.Name)
	}
	if n.InputWidth <= 0 {
		return errors.Errorf("network %q declares input width %d, must be positive", n.Name, n.InputWidth)
	}
	if len(n.Outputs) == 0 {
		return errors.Errorf("network %q declares no outputs", n.Name)
	}

	produced := sets.MakeWith(n.Input)
	for _, c := range n.Consts {
		if c.Name == "" {
			return errors.Errorf("network %q has an unnamed constant", n.Name)
		}
		if produced.Has(c.Name) {
			return errors.Errorf("network %q: tensor %q is produced more than once", n.Name, c.Name)
		}
		size := 1
		for _, dim := range c.Dims {
			if dim <= 0 {
				return errors.Errorf("network %q: constant %q has invalid dimension %d", n.Name, c.Name, dim)
			}
			size *= dim
		}
		if size != len(c.Data) {
			return errors.Errorf("network %q: constant %q declares dims %v (%d values) but carries %d",
				n.Name, c.Name, c.Dims, size, len(c.Data))
		}
		produced.Insert(c.Name)
	}

	for i, node := range n.Nodes {
		if !node.Op.IsAOpKind() || node.Op == OpInvalid {
			return errors.Errorf("network %q: node #%d (%q) has unsupported op %s", n.Name, i, node.Name, node.Op)
		}
		if arity := node.Op.arity(); arity >= 0 && len(node.Inputs) != arity {
			return errors.Errorf("network %q: node #%d (%s %q) takes %d inputs, got %d",
				n.Name, i, node.Op, node.Name, arity, len(node.Inputs))
		} else if arity < 0 && len(node.Inputs) == 0 {
			return errors.Errorf("network %q: node #%d (%s %q) takes at least one input, got none",
				n.Name, i, node.Op, node.Name)
		}
		for _, in := range node.Inputs {
			if !produced.Has(in) {
				return errors.Errorf("network %q: node #%d (%s %q) reads tensor %q before it is produced",
					n.Name, i, node.Op, node.Name, in)
			}
		}
		if len(node.Outputs) != 1 {
			return errors.Errorf("network %q: node #%d (%s %q) must produce exactly one tensor, got %d",
				n.Name, i, node.Op, node.Name, len(node.Outputs))
		}
		if out := node.Outputs[0]; produced.Has(out) {
			return errors.Errorf("network %q: tensor %q is produced more than once", n.Name, out)
		}
		if err := validateAttrs(node); err != nil {
			return errors.WithMessagef(err, "network %q: node #%d (%s %q)", n.Name, i, node.Op, node.Name)
		}
		produced.Insert(node.Outputs[0])
	}

	for _, out := range n.Outputs {
		if !produced.Has(out) {
			return errors.Errorf("network %q: declared output %q is never produced", n.Name, out)
		}
	}
	return nil
}

func validateAttrs(node NodeDef) error {
	switch node.Op {
	case OpReshape:
		if len(node.Dims) == 0 {
			return errors.New("reshape without target dims")
		}
		inferred := 0
		for _, dim := range node.Dims {
			if dim == -1 {
				inferred++
			} else if dim <= 0 {
				return errors.Errorf("reshape to invalid dimension %d", dim)
			}
		}
		if inferred > 1 {
			return errors.Errorf("reshape dims %v have more than one -1", node.Dims)
		}
	case OpTranspose:
		if len(node.Perm) == 0 {
			return nil // Empty means reverse all axes.
		}
		seen := sets.Make[int]()
		for _, axis := range node.Perm {
			if axis < 0 || axis >= len(node.Perm) || seen.Has(axis) {
				return errors.Errorf("perm %v is not a permutation of the axes", node.Perm)
			}
			seen.Insert(axis)
		}
	case OpLeakyRelu:
		if node.Alpha < 0 {
			return errors.Errorf("negative leaky_relu slope %g", node.Alpha)
		}
	}
	return nil
}
