package substrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lattics/lattics/pkg/agent"
	"github.com/lattics/lattics/pkg/lattice"
)

func TestHomogeneousField_FluxNodeExchangesMass(t *testing.T) {
	f := NewHomogeneousField("oxygen", 0, 0, 100)
	node := NewStaticNode(lattice.Point{}, 10)
	node.SetSubstrateInfo("oxygen", agent.SubstrateInfo{
		Type:         NodeTypeFlux,
		Concentration: 0,
		UptakeRate:    1,
		ReleaseRate:   0,
		PassiveRate:   0,
	})
	f.AddStaticNode(node)

	f.concentration = 5
	f.Update(1)

	assert.Less(t, f.Concentration(), 5.0)
	info := node.SubstrateInfo("oxygen")
	assert.Greater(t, info.Concentration, 0.0)
}

func TestHomogeneousField_FixedNodeAveragesConcentration(t *testing.T) {
	f := NewHomogeneousField("oxygen", 0, 0, 100)
	n1 := NewStaticNode(lattice.Point{}, 10)
	n1.SetSubstrateInfo("oxygen", agent.SubstrateInfo{Type: NodeTypeFixed, Concentration: 4})
	n2 := NewStaticNode(lattice.Point{}, 10)
	n2.SetSubstrateInfo("oxygen", agent.SubstrateInfo{Type: NodeTypeFixed, Concentration: 6})
	f.AddStaticNode(n1)
	f.AddStaticNode(n2)

	f.Update(1)

	assert.Equal(t, 5.0, f.Concentration())
}

func TestHomogeneousField_DecayReducesConcentration(t *testing.T) {
	f := NewHomogeneousField("oxygen", 0, 0.1, 100)
	f.concentration = 10
	f.Update(1)
	assert.Less(t, f.Concentration(), 10.0)
}

func TestLattice2DField_FixedNodeOverwritesCell(t *testing.T) {
	f := NewLattice2DField("glucose", 0, 0, 4, 4, 1.0)
	node := NewStaticNode(lattice.Point{X: 1, Y: 1}, 1)
	node.SetSubstrateInfo("glucose", agent.SubstrateInfo{Type: NodeTypeFixed, Concentration: 42})
	f.AddStaticNode(node)

	f.updateNodes(1)

	assert.Equal(t, 42.0, f.Concentration(lattice.Point{X: 1, Y: 1}))
}

func TestLattice2DField_DiffusionSpreadsMassWithoutBlowingUp(t *testing.T) {
	f := NewLattice2DField("glucose", 1.0, 0, 5, 5, 1.0)
	f.concentration[f.index(lattice.Point{X: 2, Y: 2})] = 100

	f.diffusionDecay(1)

	center := f.Concentration(lattice.Point{X: 2, Y: 2})
	neighbor := f.Concentration(lattice.Point{X: 3, Y: 2})
	require.Less(t, center, 100.0)
	assert.Greater(t, neighbor, 0.0)

	// No negative concentrations after clamping.
	for _, c := range f.concentration {
		assert.GreaterOrEqual(t, c, 0.0)
	}
}

func TestLattice2DField_ZeroDiffusionZeroDecayIsNoOp(t *testing.T) {
	f := NewLattice2DField("glucose", 0, 0, 3, 3, 1.0)
	f.concentration[f.index(lattice.Point{X: 1, Y: 1})] = 7

	f.diffusionDecay(5)

	assert.InDelta(t, 7.0, f.Concentration(lattice.Point{X: 1, Y: 1}), 1e-9)
}
