// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package ssm evaluates sequential sampling models (drift-diffusion and
// its relatives) as GoMLX computations: analytical log-likelihoods where
// they exist, trained likelihood approximation networks where they do not,
// both differentiable with respect to the model parameters.
//
// The subpackages do the work: wfpt implements the analytical
// drift-diffusion density, lan loads and executes likelihood approximation
// networks, and sim samples synthetic decision data. This package holds the
// model registry: which parameters each supported model family takes, in
// which order, within which bounds, and how its likelihood is computed.
package ssm

import (
	"github.com/pkg/errors"

	"github.com/gomlx/gomlx/pkg/support/xslices"
)

// LoglikKind tells how a model family's log-likelihood is evaluated.
type LoglikKind int

//go:generate go tool enumer -type=LoglikKind -trimprefix=Loglik -transform=snake -values -text -json -output=gen_loglikkind_enumer.go config.go

const (
	// LoglikAnalytical models have a closed-form density, built directly as
	// graph operations by the wfpt package.
	LoglikAnalytical LoglikKind = iota

	// LoglikApproxDifferentiable models use a trained likelihood
	// approximation network, loaded and executed by the lan package.
	LoglikApproxDifferentiable
)

// Bounds is the closed interval a parameter must lie in for the model's
// likelihood to be trustworthy: analytical densities lose numerical
// accuracy outside it, approximation networks were never trained there.
type Bounds struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Contains reports whether value lies within the bounds, inclusive.
func (b Bounds) Contains(value float64) bool {
	return value >= b.Lower && value <= b.Upper
}

// ModelConfig describes one supported model family.
type ModelConfig struct {
	// Name of the model family, the registry key.
	Name string

	// Params are the parameter names in canonical order: the order
	// likelihood evaluators take them and networks were trained on. The
	// first parameter is the family's main drift parameter.
	Params []string

	// Bounds per parameter. Every name in Params has an entry.
	Bounds map[string]Bounds

	// Loglik tells which evaluation path the family uses.
	Loglik LoglikKind

	// NetworkFile is the file name of the serialized likelihood
	// approximation network for LoglikApproxDifferentiable families, empty
	// otherwise. Resolve it against wherever the trained networks are
	// deployed, then load with lan.LoadNetwork.
	NetworkFile string
}

// NetworkInputWidth is the input width of the family's likelihood network:
// one column per parameter plus the two observation columns, reaction time
// and choice.
func (c *ModelConfig) NetworkInputWidth() int {
	return len(c.Params) + 2
}

// ParamIndex returns the position of a parameter in the canonical order.
func (c *ModelConfig) ParamIndex(name string) (int, bool) {
	for i, param := range c.Params {
		if param == name {
			return i, true
		}
	}
	return 0, false
}

// CheckParam verifies that a single named parameter value is inside the
// model's bounds.
func (c *ModelConfig) CheckParam(name string, value float64) error {
	bounds, found := c.Bounds[name]
	if !found {
		return errors.Errorf("model %q has no parameter %q (has %v)", c.Name, name, c.Params)
	}
	if !bounds.Contains(value) {
		return errors.Errorf("model %q: parameter %s=%g is outside its bounds [%g, %g]",
			c.Name, name, value, bounds.Lower, bounds.Upper)
	}
	return nil
}

// CheckParams verifies a full parameter vector, in canonical order.
func (c *ModelConfig) CheckParams(values []float64) error {
	if len(values) != len(c.Params) {
		return errors.Errorf("model %q takes %d parameters %v, got %d values",
			c.Name, len(c.Params), c.Params, len(values))
	}
	for i, value := range values {
		if err := c.CheckParam(c.Params[i], value); err != nil {
			return err
		}
	}
	return nil
}

// clone returns a deep copy, so callers can modify their config freely
// without touching the registry.
func (c *ModelConfig) clone() *ModelConfig {
	clone := &ModelConfig{
		Name:        c.Name,
		Params:      append([]string(nil), c.Params...),
		Bounds:      make(map[string]Bounds, len(c.Bounds)),
		Loglik:      c.Loglik,
		NetworkFile: c.NetworkFile,
	}
	for name, bounds := range c.Bounds {
		clone.Bounds[name] = bounds
	}
	return clone
}

// modelRegistry holds the default configuration of every supported model
// family. Parameter lists and bounds follow the published defaults of the
// LAN model zoo these families come from.
var modelRegistry = map[string]*ModelConfig{
	"ddm": {
		Name:   "ddm",
		Params: []string{"v", "sv", "a", "z", "t"},
		Bounds: map[string]Bounds{
			"v":  {-3.0, 3.0},
			"sv": {0.0, 1.0},
			"a":  {0.3, 2.5},
			"z":  {0.1, 0.9},
			"t":  {0.0, 2.0},
		},
		Loglik: LoglikAnalytical,
	},
	"angle": {
		Name:   "angle",
		Params: []string{"v", "a", "z", "t", "theta"},
		Bounds: map[string]Bounds{
			"v":     {-3.0, 3.0},
			"a":     {0.3, 3.0},
			"z":     {0.1, 0.9},
			"t":     {0.001, 2.0},
			"theta": {-0.1, 1.3},
		},
		Loglik:      LoglikApproxDifferentiable,
		NetworkFile: "angle.json",
	},
	"levy": {
		Name:   "levy",
		Params: []string{"v", "a", "z", "alpha", "t"},
		Bounds: map[string]Bounds{
			"v":     {-3.0, 3.0},
			"a":     {0.3, 3.0},
			"z":     {0.1, 0.9},
			"alpha": {1.0, 2.0},
			"t":     {1e-3, 2.0},
		},
		Loglik:      LoglikApproxDifferentiable,
		NetworkFile: "levy.json",
	},
	"ornstein": {
		Name:   "ornstein",
		Params: []string{"v", "a", "z", "g", "t"},
		Bounds: map[string]Bounds{
			"v": {-2.0, 2.0},
			"a": {0.3, 3.0},
			"z": {0.1, 0.9},
			"g": {-1.0, 1.0},
			"t": {1e-3, 2.0},
		},
		Loglik:      LoglikApproxDifferentiable,
		NetworkFile: "ornstein.json",
	},
	"weibull": {
		Name:   "weibull",
		Params: []string{"v", "a", "z", "t", "alpha", "beta"},
		Bounds: map[string]Bounds{
			"v":     {-2.5, 2.5},
			"a":     {0.3, 2.5},
			"z":     {0.2, 0.8},
			"t":     {1e-3, 2.0},
			"alpha": {0.31, 4.99},
			"beta":  {0.31, 6.99},
		},
		Loglik:      LoglikApproxDifferentiable,
		NetworkFile: "weibull.json",
	},
	"race_no_bias_angle_4": {
		Name:   "race_no_bias_angle_4",
		Params: []string{"v0", "v1", "v2", "v3", "a", "z", "ndt", "theta"},
		Bounds: map[string]Bounds{
			"v0":    {0.0, 2.5},
			"v1":    {0.0, 2.5},
			"v2":    {0.0, 2.5},
			"v3":    {0.0, 2.5},
			"a":     {1.0, 3.0},
			"z":     {0.0, 0.9},
			"ndt":   {0.0, 2.0},
			"theta": {-0.1, 1.45},
		},
		Loglik:      LoglikApproxDifferentiable,
		NetworkFile: "race_no_bias_angle_4.json",
	},
	"ddm_seq2_no_bias": {
		Name:   "ddm_seq2_no_bias",
		Params: []string{"vh", "vl1", "vl2", "a", "t"},
		Bounds: map[string]Bounds{
			"vh":  {-4.0, 4.0},
			"vl1": {-4.0, 4.0},
			"vl2": {-4.0, 4.0},
			"a":   {0.3, 2.5},
			"t":   {0.0, 2.0},
		},
		Loglik:      LoglikApproxDifferentiable,
		NetworkFile: "ddm_seq2_no_bias.json",
	},
}

// Models returns the names of all supported model families, sorted.
func Models() []string {
	return xslices.SortedKeys(modelRegistry)
}

// Config returns the default configuration of a model family. The result
// is the caller's to change; the registry itself never does.
func Config(model string) (*ModelConfig, error) {
	config, found := modelRegistry[model]
	if !found {
		return nil, errors.Errorf("unknown model %q, supported models are %v", model, Models())
	}
	return config.clone(), nil
}
