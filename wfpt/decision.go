// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package wfpt

import (
	. "github.com/gomlx/gomlx/pkg/core/graph"
)

// Decision flags, elementwise, signed reaction times whose magnitude falls
// in the small-time regime at tolerance err: the observations that need the
// small-time expansion (and any special handling downstream reserves for
// effectively-zero magnitudes, which always flag true).
//
// x holds signed reaction times rt·boundary; only the magnitude matters.
// The result is a boolean vector of the same length.
func Decision(x *Node, err float64) *Node {
	if err <= 0 {
		err = DefaultErr
	}
	// The magnitude floor keeps the term-count formulas total at x = 0.
	return UseSmallTime(MaxScalar(Abs(x), 1e-30), err)
}
