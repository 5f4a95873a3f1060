// Package space implements the two concrete simulation domains: a
// well-mixed HomogeneousSpace and a Lattice2DSpace with Monte Carlo
// mechanics and substrate fields.
package space

import (
	"github.com/lattics/lattics/pkg/agent"
	"github.com/lattics/lattics/pkg/clock"
	"github.com/lattics/lattics/pkg/substrate"
)

// SimulationCallback is the subset of Simulation a Space needs to call
// back into: adding daughter agents produced by division, and removing
// agents that opted out via remove_pending. Defined here (rather than
// depending on the simulation package directly) to keep space the
// lower-level package in the dependency graph; *simulation.Simulation
// satisfies this interface structurally.
type SimulationCallback interface {
	AddAgent(a *agent.Agent, params map[string]any) error
	RemoveAgent(a *agent.Agent) error
}

// Space is the common interface shared by HomogeneousSpace and
// Lattice2DSpace.
type Space interface {
	AddSubstrate(name string, diffusionCoefficient, decayCoefficient float64)
	Update(dt int64)
}

// Params carries the optional per-agent keyword arguments the original
// passes as **kwargs to add_agent (volume, position, motility,
// binding_affinity, displacement_limit). Unset fields keep their zero
// value, matching the reference defaults.
type Params struct {
	Position          [2]int
	HasPosition       bool
	Volume            float64
	Motility          float64
	BindingAffinity   float64
	DisplacementLimit float64
}

func initializeCommonAttributes(a *agent.Agent, volume float64) {
	if !a.HasAttribute(agent.AttrDivisionPending) {
		a.SetAttribute(agent.AttrDivisionPending, false)
	}
	if !a.HasAttribute(agent.AttrDivisionCompleted) {
		a.SetAttribute(agent.AttrDivisionCompleted, false)
	}
	if !a.HasAttribute(attrRemovePending) {
		a.SetAttribute(attrRemovePending, false)
	}
	if !a.HasAttribute(agent.AttrVolume) {
		a.SetAttribute(agent.AttrVolume, volume)
	}
}

const attrRemovePending = "remove_pending"
const attrDisplacementLimit = "displacement_limit"

// ParamsFromMap extracts the known Params fields from a generic
// string-keyed map, the shape Simulation.AddAgent forwards its **params
// through as. Unrecognized keys are ignored here; callers that need to
// store them as plain agent attributes (the original's "every unclaimed
// key in params becomes an attribute" rule) do that separately, at the
// Simulation layer.
func ParamsFromMap(m map[string]any) Params {
	var p Params
	if v, ok := m["volume"].(float64); ok {
		p.Volume = v
	}
	if v, ok := m["motility"].(float64); ok {
		p.Motility = v
	}
	if v, ok := m["binding_affinity"].(float64); ok {
		p.BindingAffinity = v
	}
	if v, ok := m["displacement_limit"].(float64); ok {
		p.DisplacementLimit = v
	}
	return p
}

func clearDynamicNodes(fields map[string]substrate.Field) {
	for _, f := range fields {
		f.ClearDynamicNodes()
	}
}

func newUpdateClock(intervalMs int64) *clock.UpdateClock {
	return clock.New(intervalMs)
}
