package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daryltucker/flux-runner/internal/engine"
	"github.com/daryltucker/flux-runner/internal/model"
	"github.com/daryltucker/flux-runner/internal/network"
)

func TestParseSetting(t *testing.T) {
	got, err := engine.ParseSetting("EX_glucose.lower=-12.5")
	require.NoError(t, err)
	assert.Equal(t, engine.Setting{Reaction: "EX_glucose", Kind: model.LowerBound, Value: -12.5}, got)
	assert.Equal(t, "EX_glucose.lower=-12.5", got.String())

	got, err = engine.ParseSetting("oxphos.ub= 20")
	require.NoError(t, err)
	assert.Equal(t, model.UpperBound, got.Kind)
	assert.Equal(t, 20.0, got.Value)

	for _, bad := range []string{"oxphos", "oxphos=1", ".lower=1", "oxphos.side=1", "oxphos.lower=abc"} {
		_, err := engine.ParseSetting(bad)
		assert.Error(t, err, bad)
	}
}

func TestApply(t *testing.T) {
	m, err := network.Build()
	require.NoError(t, err)
	base := m.DefaultBounds()

	out, err := engine.Apply(m, base, []engine.Setting{
		{Reaction: network.Oxphos, Kind: model.UpperBound, Value: 20},
		{Reaction: network.Oxphos, Kind: model.UpperBound, Value: 30},
	})
	require.NoError(t, err)

	i, err := m.Index(network.Oxphos)
	require.NoError(t, err)
	assert.Equal(t, 30.0, out[i].Upper, "later settings win")
	assert.Equal(t, 1000.0, base[i].Upper)
}
