package network_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daryltucker/flux-runner/internal/model"
	"github.com/daryltucker/flux-runner/internal/network"
)

func TestBuild(t *testing.T) {
	m, err := network.Build()
	require.NoError(t, err)

	assert.Equal(t, network.Name, m.Name())
	assert.Equal(t, 5, m.NumReactions())
	assert.Equal(t, 4, m.NumMetabolites())
	assert.Equal(t, network.ATPMaintenance, m.Objective().ID)
	assert.Equal(t, []string{
		network.ExGlucose,
		network.Hexokinase,
		network.Oxphos,
		network.PyruvateKinase,
		network.ATPMaintenance,
	}, m.ReactionIDs())
	assert.Empty(t, m.CheckBounds(m.DefaultBounds()))
}

func TestReactionsAreFreshCopies(t *testing.T) {
	a := network.Reactions()
	a[0].Stoichiometry[network.Glucose] = 5
	assert.Equal(t, -1.0, network.Reactions()[0].Stoichiometry[network.Glucose])
}

func TestATPBalanceOfOxphos(t *testing.T) {
	m, err := network.Build()
	require.NoError(t, err)

	// 40 glucose fully through oxphos yields 120 ATP turnover at steady state.
	fluxes := map[string]float64{
		network.ExGlucose:      -40,
		network.Hexokinase:     40,
		network.Oxphos:         40,
		network.PyruvateKinase: 0,
		network.ATPMaintenance: 120,
	}
	for id, v := range m.Imbalance(fluxes) {
		assert.InDelta(t, 0, v, 1e-12, id)
	}
}

func TestEquation(t *testing.T) {
	m, err := network.Build()
	require.NoError(t, err)

	want := map[string]string{
		network.ExGlucose:      "glucose <--",
		network.Hexokinase:     "glucose + adp --> glucose_6p + atp",
		network.Oxphos:         "glucose_6p + 2 adp --> 2 atp",
		network.PyruvateKinase: "glucose_6p + adp --> atp",
		network.ATPMaintenance: "atp --> adp",
	}
	for _, r := range m.Reactions() {
		assert.Equal(t, want[r.ID], network.Equation(m, r), r.ID)
	}

	rev := model.Reaction{ID: "rev", Stoichiometry: map[string]float64{network.ATP: -1, network.ADP: 1}, Bound: model.Bound{Lower: -1, Upper: 1}}
	assert.Equal(t, "atp <=> adp", network.Equation(m, rev))
}
