package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lattics/lattics/pkg/agent"
	"github.com/lattics/lattics/pkg/clock"
	"github.com/lattics/lattics/pkg/event"
	"github.com/lattics/lattics/pkg/units"
)

type fakeSpace struct {
	added       []*agent.Agent
	removed     []*agent.Agent
	updateCalls []int64
}

func (f *fakeSpace) AddAgentParams(a *agent.Agent, params map[string]any) error {
	f.added = append(f.added, a)
	return nil
}

func (f *fakeSpace) RemoveAgent(a *agent.Agent) {
	f.removed = append(f.removed, a)
}

func (f *fakeSpace) AddSubstrate(name string, diffusionCoefficient, decayCoefficient float64) {}

func (f *fakeSpace) Update(dt int64) {
	f.updateCalls = append(f.updateCalls, dt)
}

type countingModel struct {
	clk     *clock.UpdateClock
	calls   int
	initErr error
}

func newCountingModel(intervalMs int64) *countingModel {
	return &countingModel{clk: clock.New(intervalMs)}
}

func (m *countingModel) InitializeAttributes(a *agent.Agent) error { return m.initErr }
func (m *countingModel) UpdateAttributes(a *agent.Agent)           { m.calls++ }
func (m *countingModel) UpdateClock() *clock.UpdateClock           { return m.clk }

func TestSimulation_AddAgentWiresSpaceAndModels(t *testing.T) {
	sp := &fakeSpace{}
	sim := New("")
	require.NoError(t, sim.AddSpace(sp))

	m := newCountingModel(0)
	sim.AddModel(m)

	a := agent.New()
	require.NoError(t, sim.AddAgent(a, map[string]any{"volume": 10.0, "note": "x"}))

	assert.Len(t, sp.added, 1)
	assert.Equal(t, "x", a.GetAttribute("note"))
	assert.Contains(t, sim.Agents(), a)
}

func TestSimulation_AddSpaceTwiceErrors(t *testing.T) {
	sim := New("")
	require.NoError(t, sim.AddSpace(&fakeSpace{}))
	err := sim.AddSpace(&fakeSpace{})
	assert.Error(t, err)
}

func TestSimulation_AddSubstrateRequiresSpace(t *testing.T) {
	sim := New("")
	err := sim.AddSubstrate("glucose", 1, 0)
	assert.Error(t, err)
}

func TestSimulation_RunFiresEventsAndDrivesModelsAndSpace(t *testing.T) {
	sp := &fakeSpace{}
	sim := New("")
	require.NoError(t, sim.AddSpace(sp))

	var order []string
	m := newCountingModel(0)
	sim.AddModel(m)

	fired := false
	sim.AddEvent(event.New(0, func(params map[string]any) {
		fired = true
		order = append(order, "event")
	}, nil))

	a := agent.New()
	require.NoError(t, sim.AddAgent(a, map[string]any{"volume": 1.0}))

	err := sim.Run(RunOptions{
		TimeValue: 10,
		TimeUnit:  units.Millisecond,
		DtValue:   5,
		DtUnit:    units.Millisecond,
		SaveMode:  SaveOnCompletion,
	})
	require.NoError(t, err)

	assert.True(t, fired)
	assert.Equal(t, []string{"event"}, order)
	assert.Greater(t, m.calls, 0)
	assert.NotEmpty(t, sp.updateCalls)
	assert.Equal(t, int64(10), sim.Time())
}

func TestSimulation_RunRecordsHistoryOnInterval(t *testing.T) {
	sp := &fakeSpace{}
	sim := New("run-1")
	require.NoError(t, sim.AddSpace(sp))

	err := sim.Run(RunOptions{
		TimeValue:      20,
		TimeUnit:       units.Millisecond,
		DtValue:        5,
		DtUnit:         units.Millisecond,
		DtHistoryValue: 10,
		DtHistoryUnit:  units.Millisecond,
		SaveMode:       SaveOnCompletion,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, sim.history)
}

func TestSimulation_RemoveAgentDelegatesToSpace(t *testing.T) {
	sp := &fakeSpace{}
	sim := New("")
	require.NoError(t, sim.AddSpace(sp))
	a := agent.New()
	require.NoError(t, sim.AddAgent(a, nil))

	require.NoError(t, sim.RemoveAgent(a))

	assert.NotContains(t, sim.Agents(), a)
	assert.Contains(t, sp.removed, a)
}

func TestSimulation_SnapshotRoundTripsAgents(t *testing.T) {
	sim := New("snap-1")
	a := agent.New()
	a.SetAttribute(agent.AttrVolume, 42.0)
	require.NoError(t, sim.AddAgent(a, nil))

	blob, err := sim.Snapshot()
	require.NoError(t, err)

	restored, err := Restore(blob)
	require.NoError(t, err)

	require.Len(t, restored.Agents(), 1)
	assert.Equal(t, a.ID(), restored.Agents()[0].ID())
	assert.Equal(t, 42.0, restored.Agents()[0].GetAttribute(agent.AttrVolume))
}
