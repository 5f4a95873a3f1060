package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lattics/lattics/pkg/agent"
	"github.com/lattics/lattics/pkg/rng"
)

func TestConcentrationDependentToxicityModel_RequiresSubstrateInfo(t *testing.T) {
	m, err := NewConcentrationDependentToxicityModel(0, "", "oxygen", 1.0, 0.5, rng.New(1))
	require.NoError(t, err)

	a := agent.New()
	err = m.InitializeAttributes(a)
	require.Error(t, err)
}

func TestConcentrationDependentToxicityModel_HighConcentrationEventuallyNecrotic(t *testing.T) {
	// A very high max_rate and long elapsed time should push death
	// probability near 1 regardless of the RNG draw.
	m, err := NewConcentrationDependentToxicityModel(0, "", "toxin", 1e9, 1.0, rng.New(1))
	require.NoError(t, err)

	a := agent.New()
	a.SetAttribute(agent.AttrSubstrateInfo, map[string]agent.SubstrateInfo{
		"toxin": {Type: "flux", Concentration: 100},
	})
	require.NoError(t, m.InitializeAttributes(a))

	m.UpdateClock().Increase(1000)
	m.UpdateAttributes(a)

	assert.Equal(t, agent.StateNecrotic, a.GetAttribute(agent.AttrState))
	assert.Equal(t, 0.0, a.GetAttribute(agent.AttrMotility))
	assert.Equal(t, 0.0, a.GetAttribute(agent.AttrBindingAffinity))
	assert.Equal(t, false, a.GetAttribute(agent.AttrCellCycleIsActive))
}

func TestConcentrationDependentToxicityModel_ZeroConcentrationNoDeath(t *testing.T) {
	m, err := NewConcentrationDependentToxicityModel(0, "", "toxin", 10, 0.5, rng.New(1))
	require.NoError(t, err)

	a := agent.New()
	a.SetAttribute(agent.AttrSubstrateInfo, map[string]agent.SubstrateInfo{
		"toxin": {Type: "flux", Concentration: 0},
	})
	require.NoError(t, m.InitializeAttributes(a))

	m.UpdateClock().Increase(1000)
	m.UpdateAttributes(a)

	assert.False(t, a.HasAttribute(agent.AttrState))
}
