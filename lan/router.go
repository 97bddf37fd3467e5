// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package lan

import (
	. "github.com/gomlx/gomlx/pkg/core/graph"

	. "github.com/gomlx/gomlx/pkg/support/exceptions"
)

// RouteInputs assembles the per-observation input matrix a likelihood
// network expects from the model parameters and the observed data.
//
// data is the (batch, features) observation matrix. Each parameter is
// either a scalar, tiled down the batch, or, when its regression flag is
// set, a batch-length vector carrying one value per observation, passed
// through as its own column. The result is (batch, len(params)+features)
// with the parameter columns first, in declared order, then the data
// columns: the layout these networks are trained on.
//
// Shape mismatches panic with an exception naming the offending parameter;
// Exec converts them to errors at its boundary.
func RouteInputs(data *Node, params []*Node, isRegression []bool) *Node {
	if data.Rank() != 2 {
		Panicf("lan: data must be rank-2 (batch, features), got shape %s", data.Shape())
	}
	if len(params) != len(isRegression) {
		Panicf("lan: %d parameters but %d regression flags", len(params), len(isRegression))
	}
	batch := data.Shape().Dimensions[0]
	columns := make([]*Node, 0, len(params)+1)
	for i, param := range params {
		if param.DType() != data.DType() {
			Panicf("lan: parameter #%d has dtype %s, data has dtype %s -- they must match",
				i, param.DType(), data.DType())
		}
		switch {
		case isRegression[i]:
			if param.Rank() != 1 || param.Shape().Dimensions[0] != batch {
				Panicf("lan: regression parameter #%d has shape %s, want a vector of length %d",
					i, param.Shape(), batch)
			}
			columns = append(columns, InsertAxes(param, -1))
		case param.IsScalar():
			columns = append(columns, ExpandAndBroadcast(param, []int{batch, 1}, []int{0, 1}))
		default:
			Panicf("lan: parameter #%d has shape %s, want a scalar (or flag it as regression)",
				i, param.Shape())
		}
	}
	columns = append(columns, data)
	return Concatenate(columns, -1)
}
