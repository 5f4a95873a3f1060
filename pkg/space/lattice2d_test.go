package space

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lattics/lattics/pkg/agent"
	"github.com/lattics/lattics/pkg/lattice"
	"github.com/lattics/lattics/pkg/rng"
)

func TestLattice2DSpace_AddAgentRejectsOutOfBounds(t *testing.T) {
	sim := &fakeSimulation{}
	s := NewLattice2DSpace(sim, 3, 3, 1.0, 0, 0, rng.New(1))
	a := agent.New()

	err := s.AddAgent(a, lattice.Point{X: 5, Y: 5}, Params{})
	require.Error(t, err)
}

func TestLattice2DSpace_AddAgentRejectsOccupied(t *testing.T) {
	sim := &fakeSimulation{}
	s := NewLattice2DSpace(sim, 3, 3, 1.0, 0, 0, rng.New(1))
	a1 := agent.New()
	a2 := agent.New()

	require.NoError(t, s.AddAgent(a1, lattice.Point{X: 1, Y: 1}, Params{}))
	err := s.AddAgent(a2, lattice.Point{X: 1, Y: 1}, Params{})
	require.Error(t, err)
}

func TestLattice2DSpace_AddAgentSetsPositionAndDefaults(t *testing.T) {
	sim := &fakeSimulation{}
	s := NewLattice2DSpace(sim, 3, 3, 1.0, 0, 0, rng.New(1))
	a := agent.New()

	require.NoError(t, s.AddAgent(a, lattice.Point{X: 0, Y: 0}, Params{Motility: 2, BindingAffinity: 3}))

	assert.Equal(t, lattice.Point{X: 0, Y: 0}, a.GetAttribute(agent.AttrPosition))
	assert.Equal(t, 2.0, a.GetAttribute(agent.AttrMotility))
	assert.Equal(t, 3.0, a.GetAttribute(agent.AttrBindingAffinity))
	assert.Equal(t, 1.0, a.GetAttribute(attrDisplacementLimit))
}

func TestLattice2DSpace_GetRemainingVolume(t *testing.T) {
	sim := &fakeSimulation{}
	s := NewLattice2DSpace(sim, 3, 3, 2.0, 0, 0, rng.New(1))
	a := agent.New()
	require.NoError(t, s.AddAgent(a, lattice.Point{X: 0, Y: 0}, Params{Volume: 1}))

	assert.Equal(t, 4.0, s.GetRemainingVolume(lattice.Point{X: 1, Y: 1}))
	assert.Equal(t, 3.0, s.GetRemainingVolume(lattice.Point{X: 0, Y: 0}))
}

func TestLattice2DSpace_DivisionAdjacentCloneTakesFreeNeighbor(t *testing.T) {
	sim := &fakeSimulation{}
	s := NewLattice2DSpace(sim, 3, 3, 1.0, 0, 0, rng.New(1))
	a := agent.New()
	require.NoError(t, s.AddAgent(a, lattice.Point{X: 1, Y: 1}, Params{DisplacementLimit: 5}))
	a.SetAttribute(agent.AttrDivisionPending, true)

	s.Update(1)

	require.Len(t, sim.added, 1)
	assert.Equal(t, true, a.GetAttribute(agent.AttrDivisionCompleted))
	assert.Equal(t, false, a.GetAttribute(agent.AttrDivisionPending))

	clonePos := sim.added[0].GetAttribute(agent.AttrPosition).(lattice.Point)
	assert.False(t, s.IsEmptyPosition(a.GetAttribute(agent.AttrPosition).(lattice.Point)))
	_ = clonePos
}

func TestLattice2DSpace_DivisionSkippedWhenNoEmptyCellWithinLimit(t *testing.T) {
	sim := &fakeSimulation{}
	s := NewLattice2DSpace(sim, 1, 1, 1.0, 0, 0, rng.New(1))
	a := agent.New()
	require.NoError(t, s.AddAgent(a, lattice.Point{X: 0, Y: 0}, Params{DisplacementLimit: 5}))
	a.SetAttribute(agent.AttrDivisionPending, true)

	s.Update(1)

	assert.Empty(t, sim.added)
	assert.Equal(t, true, a.GetAttribute(agent.AttrDivisionPending))
}

func TestLattice2DSpace_RemoveAgentFreesLayerCell(t *testing.T) {
	sim := &fakeSimulation{}
	s := NewLattice2DSpace(sim, 3, 3, 1.0, 0, 0, rng.New(1))
	a := agent.New()
	require.NoError(t, s.AddAgent(a, lattice.Point{X: 1, Y: 1}, Params{}))

	s.RemoveAgent(a)

	assert.True(t, s.IsEmptyPosition(lattice.Point{X: 1, Y: 1}))
}
