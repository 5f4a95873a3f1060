package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lattics/lattics/pkg/agent"
	"github.com/lattics/lattics/pkg/rng"
	"github.com/lattics/lattics/pkg/units"
)

func newTestCellCycleModel(t *testing.T, dist CellCycleDistribution) *FixedIncrementCellCycleModel {
	t.Helper()
	m, err := NewFixedIncrementCellCycleModel(0, "", dist, 4, rng.New(1))
	require.NoError(t, err)
	return m
}

func TestFixedIncrementCellCycleModel_InitializeFixed(t *testing.T) {
	m := newTestCellCycleModel(t, DistributionFixed)
	a := agent.New()
	a.SetAttribute(agent.AttrCellCycleMeanLength, [2]any{600000.0, units.Millisecond})

	require.NoError(t, m.InitializeAttributes(a))

	assert.Equal(t, 600000.0, a.GetAttribute(agent.AttrCellCycleLength))
	assert.Equal(t, true, a.GetAttribute(agent.AttrCellCycleIsActive))
	assert.Equal(t, false, a.GetAttribute(agent.AttrDivisionPending))
}

func TestFixedIncrementCellCycleModel_InitializeRequiresMeanLength(t *testing.T) {
	m := newTestCellCycleModel(t, DistributionFixed)
	a := agent.New()

	err := m.InitializeAttributes(a)
	require.Error(t, err)
}

func TestFixedIncrementCellCycleModel_DivisionPendingAfterLengthElapsed(t *testing.T) {
	m := newTestCellCycleModel(t, DistributionFixed)
	a := agent.New()
	a.SetAttribute(agent.AttrCellCycleMeanLength, [2]any{100.0, units.Millisecond})
	require.NoError(t, m.InitializeAttributes(a))

	m.UpdateClock().Increase(150)
	m.UpdateAttributes(a)

	assert.Equal(t, true, a.GetAttribute(agent.AttrDivisionPending))
}

func TestFixedIncrementCellCycleModel_ResetsOnDivisionCompleted(t *testing.T) {
	m := newTestCellCycleModel(t, DistributionFixed)
	a := agent.New()
	a.SetAttribute(agent.AttrCellCycleMeanLength, [2]any{100.0, units.Millisecond})
	require.NoError(t, m.InitializeAttributes(a))

	a.SetAttribute(agent.AttrDivisionCompleted, true)
	m.UpdateAttributes(a)

	assert.Equal(t, false, a.GetAttribute(agent.AttrDivisionCompleted))
	assert.Equal(t, 0.0, a.GetAttribute(agent.AttrCellCycleCurrentTime))
}
