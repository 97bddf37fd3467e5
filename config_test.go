// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package ssm_test

import (
	"encoding/json"
	"testing"

	"github.com/gomlx/ssm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelsAreSortedAndComplete(t *testing.T) {
	assert.Equal(t, []string{
		"angle", "ddm", "ddm_seq2_no_bias", "levy", "ornstein",
		"race_no_bias_angle_4", "weibull",
	}, ssm.Models())
}

func TestConfigDDM(t *testing.T) {
	config, err := ssm.Config("ddm")
	require.NoError(t, err)
	assert.Equal(t, "ddm", config.Name)
	assert.Equal(t, []string{"v", "sv", "a", "z", "t"}, config.Params)
	assert.Equal(t, ssm.LoglikAnalytical, config.Loglik)
	assert.Empty(t, config.NetworkFile, "the analytical family needs no network")
	assert.Equal(t, 7, config.NetworkInputWidth())
	assert.Equal(t, ssm.Bounds{Lower: 0.3, Upper: 2.5}, config.Bounds["a"])
}

func TestEveryModelIsInternallyConsistent(t *testing.T) {
	for _, model := range ssm.Models() {
		config, err := ssm.Config(model)
		require.NoError(t, err)
		assert.Equal(t, model, config.Name)
		assert.NotEmpty(t, config.Params)
		require.Lenf(t, config.Bounds, len(config.Params),
			"model %q: every parameter needs bounds, and nothing else", model)
		for _, param := range config.Params {
			bounds, found := config.Bounds[param]
			require.Truef(t, found, "model %q: parameter %q has no bounds", model, param)
			assert.Lessf(t, bounds.Lower, bounds.Upper, "model %q: parameter %q", model, param)
		}
		if config.Loglik == ssm.LoglikApproxDifferentiable {
			assert.NotEmptyf(t, config.NetworkFile, "model %q needs a network file", model)
		} else {
			assert.Emptyf(t, config.NetworkFile, "model %q is analytical", model)
		}
	}
}

func TestConfigUnknownModel(t *testing.T) {
	_, err := ssm.Config("lba")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown model "lba"`)
	assert.Contains(t, err.Error(), "ddm", "the error lists the supported models")
}

func TestConfigReturnsACopy(t *testing.T) {
	first, err := ssm.Config("angle")
	require.NoError(t, err)
	first.Params[0] = "corrupted"
	first.Bounds["v"] = ssm.Bounds{Lower: -99, Upper: 99}

	second, err := ssm.Config("angle")
	require.NoError(t, err)
	assert.Equal(t, "v", second.Params[0], "registry entries must not be mutable through returned configs")
	assert.Equal(t, ssm.Bounds{Lower: -3, Upper: 3}, second.Bounds["v"])
}

func TestParamIndex(t *testing.T) {
	config, err := ssm.Config("angle")
	require.NoError(t, err)
	index, found := config.ParamIndex("theta")
	require.True(t, found)
	assert.Equal(t, 4, index)
	_, found = config.ParamIndex("sv")
	assert.False(t, found, "angle has no sv parameter")
}

func TestCheckParam(t *testing.T) {
	config, err := ssm.Config("ddm")
	require.NoError(t, err)

	require.NoError(t, config.CheckParam("v", 0.5))
	require.NoError(t, config.CheckParam("z", 0.1), "bounds are inclusive")
	require.NoError(t, config.CheckParam("z", 0.9))

	err = config.CheckParam("v", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "v=5")
	assert.Contains(t, err.Error(), "outside its bounds")

	err = config.CheckParam("theta", 0.5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no parameter "theta"`)
}

func TestCheckParams(t *testing.T) {
	config, err := ssm.Config("ddm")
	require.NoError(t, err)

	require.NoError(t, config.CheckParams([]float64{0.5, 0.3, 1.5, 0.5, 0.4}))

	err = config.CheckParams([]float64{0.5, 0.3, 1.5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "takes 5 parameters")

	err = config.CheckParams([]float64{0.5, 0.3, 99, 0.5, 0.4})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a=99")
}

func TestLoglikKindEncoding(t *testing.T) {
	encoded, err := json.Marshal(ssm.LoglikApproxDifferentiable)
	require.NoError(t, err)
	assert.Equal(t, `"approx_differentiable"`, string(encoded))

	var decoded ssm.LoglikKind
	require.NoError(t, json.Unmarshal([]byte(`"analytical"`), &decoded))
	assert.Equal(t, ssm.LoglikAnalytical, decoded)

	require.Error(t, json.Unmarshal([]byte(`"quadrature"`), &decoded))
}
