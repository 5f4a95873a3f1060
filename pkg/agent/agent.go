// Package agent implements the cell-agent entity: an id-bearing bag of
// named attributes shared by models, spaces, and the simulation scheduler.
package agent

import (
	"fmt"
	"sync/atomic"
)

// Well-known attribute names set and read by the core packages and the
// supplemented models. Callers are free to use additional, model-specific
// attribute names; these constants exist only to avoid typos on the ones
// the engine itself understands.
const (
	AttrPosition        = "position"
	AttrVolume          = "volume"
	AttrMotility        = "motility"
	AttrBindingAffinity = "binding_affinity"
	AttrSubstrateInfo   = "substrate_info"
	AttrState           = "state"

	AttrCellCycleIsActive      = "cellcycle_is_active"
	AttrCellCycleCurrentTime   = "cellcycle_current_time"
	AttrCellCycleLength        = "cellcycle_length"
	AttrCellCycleMeanLength    = "cellcycle_mean_length"
	AttrCellCycleRandomInitial = "cellcycle_random_initial"
	AttrDivisionPending        = "division_pending"
	AttrDivisionCompleted      = "division_completed"
)

// StateNecrotic is the terminal state set by ConcentrationDependentToxicityModel.
const StateNecrotic = "necrotic"

var idCounter atomic.Int64

// SubstrateInfo mirrors the per-agent view of a substrate field: its type
// ("flux" or "fixed"), current local concentration, and the three rate
// constants used by the field's node-update equation.
type SubstrateInfo struct {
	Type            string
	Concentration   float64
	PassiveRate     float64
	UptakeRate      float64
	ReleaseRate     float64
}

// Agent is a single entity in the simulation: an identity plus a free-form
// attribute map. The engine itself never special-cases attribute values; it
// only moves agents between spaces and hands them to models to mutate.
type Agent struct {
	id         int64
	attributes map[string]any
}

// New constructs an Agent with a freshly allocated, process-unique id.
func New() *Agent {
	return &Agent{
		id:         idCounter.Add(1) - 1,
		attributes: make(map[string]any),
	}
}

// ID returns the agent's process-unique identifier.
func (a *Agent) ID() int64 {
	return a.id
}

// Attributes returns a shallow copy of the agent's attribute map, for
// snapshotting. Mutating the returned map does not affect the agent.
func (a *Agent) Attributes() map[string]any {
	cp := make(map[string]any, len(a.attributes))
	for k, v := range a.attributes {
		cp[k] = v
	}
	return cp
}

// Restore reconstructs an Agent with a known id and attribute set,
// bypassing id allocation. Used when restoring a snapshot: the restored
// agent keeps its original identity instead of drawing a fresh one.
func Restore(id int64, attributes map[string]any) *Agent {
	return &Agent{id: id, attributes: attributes}
}

// HasAttribute reports whether the named attribute has been set.
func (a *Agent) HasAttribute(name string) bool {
	_, ok := a.attributes[name]
	return ok
}

// SetAttribute sets the value of the named attribute.
func (a *Agent) SetAttribute(name string, value any) {
	a.attributes[name] = value
}

// GetAttribute returns the value of the named attribute. It panics if the
// attribute was never set, mirroring the original's bare dict-index
// behavior: callers that can't guarantee the attribute exists should check
// HasAttribute first.
func (a *Agent) GetAttribute(name string) any {
	v, ok := a.attributes[name]
	if !ok {
		panic(fmt.Sprintf("agent: attribute %q not set on agent %d", name, a.id))
	}
	return v
}

// Clone returns a deep copy of the agent under a freshly allocated id. Used
// by cell division to produce a daughter agent from its mother's state.
func (a *Agent) Clone() *Agent {
	cloned := New()
	for k, v := range a.attributes {
		cloned.attributes[k] = deepCopyValue(v)
	}
	return cloned
}

func deepCopyValue(v any) any {
	switch tv := v.(type) {
	case map[string]SubstrateInfo:
		cp := make(map[string]SubstrateInfo, len(tv))
		for k, info := range tv {
			cp[k] = info
		}
		return cp
	case [2]int:
		return tv
	case []int:
		cp := make([]int, len(tv))
		copy(cp, tv)
		return cp
	case []float64:
		cp := make([]float64, len(tv))
		copy(cp, tv)
		return cp
	default:
		return v
	}
}
