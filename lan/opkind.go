// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package lan

// OpKind enumerates the operations a Network may contain. The set is
// closed: every interpreter dispatches over exactly these kinds and
// rejects anything else, so a network that validates runs identically on
// all of them.
type OpKind int

//go:generate go tool enumer -type=OpKind -trimprefix=Op -transform=snake -values -text -json -output=gen_opkind_enumer.go opkind.go

const (
	// OpInvalid is the zero value, never valid in a network.
	OpInvalid OpKind = iota

	// OpMatMul multiplies two matrices: (batch, k) x (k, m) -> (batch, m).
	OpMatMul

	// Elementwise binary ops. The second operand may be a bias row (1, m),
	// a column (batch, 1) or a 1x1 scalar, broadcast against the first.
	OpAdd
	OpSub
	OpMul
	OpDiv

	// Elementwise unary ops.
	OpNeg
	OpRelu
	OpLeakyRelu
	OpTanh
	OpSigmoid
	OpSoftplus
	OpExp
	OpLog
	OpIdentity

	// Shape ops.
	OpReshape
	OpTranspose
	OpConcat
)

// arity returns the number of inputs the op consumes, or -1 for variadic
// (at least one).
func (op OpKind) arity() int {
	switch op {
	case OpMatMul, OpAdd, OpSub, OpMul, OpDiv:
		return 2
	case OpNeg, OpRelu, OpLeakyRelu, OpTanh, OpSigmoid, OpSoftplus,
		OpExp, OpLog, OpIdentity, OpReshape, OpTranspose:
		return 1
	case OpConcat:
		return -1
	}
	return 0
}
