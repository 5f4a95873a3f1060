package space

import (
	"log/slog"

	"github.com/lattics/lattics/pkg/agent"
	"github.com/lattics/lattics/pkg/clock"
	"github.com/lattics/lattics/pkg/substrate"
)

// HomogeneousSpace is a perfectly mixed domain with no spatial structure:
// every agent has equal probability of interacting with any other, and
// agents are stored in a flat list with an optional total-volume capacity.
type HomogeneousSpace struct {
	sim SimulationCallback

	volume        float64
	hasCapacity   bool
	agents        []*agent.Agent
	substrates    map[string]substrate.Field
	hasFreeVolume bool

	agentClock     *clock.UpdateClock
	substrateClock *clock.UpdateClock
}

// NewHomogeneousSpace constructs a HomogeneousSpace. volume is the total
// agent-volume capacity; hasCapacity=false means unlimited population
// (the original's volume=None).
func NewHomogeneousSpace(sim SimulationCallback, volume float64, hasCapacity bool, dtAgentMs, dtSubstrateMs int64) *HomogeneousSpace {
	return &HomogeneousSpace{
		sim:            sim,
		volume:         volume,
		hasCapacity:    hasCapacity,
		substrates:     make(map[string]substrate.Field),
		hasFreeVolume:  true,
		agentClock:     newUpdateClock(dtAgentMs),
		substrateClock: newUpdateClock(dtSubstrateMs),
	}
}

// AddAgent appends agent a to the population, warning if doing so exceeds
// the configured volume capacity.
func (s *HomogeneousSpace) AddAgent(a *agent.Agent, volume float64) {
	if s.hasCapacity {
		sumVolumes := s.totalAgentVolume()
		if s.volume < sumVolumes+volume {
			slog.Warn("agent volume exceeds domain capacity", "requested_volume", volume, "used_volume", sumVolumes, "capacity", s.volume)
		}
	}
	s.agents = append(s.agents, a)
	initializeCommonAttributes(a, volume)
}

// RemoveAgent removes agent a from the population.
func (s *HomogeneousSpace) RemoveAgent(a *agent.Agent) {
	s.agents = removeAgent(s.agents, a)
	if s.hasCapacity && s.totalAgentVolume() <= s.volume {
		s.hasFreeVolume = true
	}
}

// AddAgentParams adapts the generic Simulation.AddAgent(a, params) call
// into AddAgent's native-typed signature, satisfying the interface the
// simulation package delegates through.
func (s *HomogeneousSpace) AddAgentParams(a *agent.Agent, params map[string]any) error {
	p := ParamsFromMap(params)
	s.AddAgent(a, p.Volume)
	return nil
}

// AddSubstrate registers a new homogeneous substrate field under name.
func (s *HomogeneousSpace) AddSubstrate(name string, diffusionCoefficient, decayCoefficient float64) {
	s.substrates[name] = substrate.NewHomogeneousField(name, diffusionCoefficient, decayCoefficient, s.volume)
}

// Update advances the domain by dt milliseconds, processing pending
// divisions/removals once the agent-update clock is due, and the
// substrate fields once the substrate-update clock is due.
func (s *HomogeneousSpace) Update(dt int64) {
	// Unlike the model-clock law (due-check, then reset, then increase),
	// the space's own agent/substrate clocks increase first and then
	// check due, matching the reference Space implementation.
	s.agentClock.Increase(dt)
	s.substrateClock.Increase(dt)

	agentDue := s.agentClock.Due()
	substrateDue := s.substrateClock.Due()

	if agentDue {
		clearDynamicNodes(s.substrates)
		for _, a := range append([]*agent.Agent{}, s.agents...) {
			if a.GetAttribute(agent.AttrDivisionPending).(bool) {
				s.processAgentDivision(a)
			}
			if a.GetAttribute(attrRemovePending).(bool) {
				if err := s.sim.RemoveAgent(a); err != nil {
					slog.Error("failed to remove agent", "agent_id", a.ID(), "error", err)
				}
			}
			if a.HasAttribute(agent.AttrSubstrateInfo) {
				info := a.GetAttribute(agent.AttrSubstrateInfo).(map[string]agent.SubstrateInfo)
				for name := range info {
					if f, ok := s.substrates[name]; ok {
						f.AddDynamicNode(substrate.AgentNode{Agent: a})
					}
				}
			}
		}
		s.agentClock.Reset()
	}

	if substrateDue {
		elapsed := s.substrateClock.Elapsed()
		for _, f := range s.substrates {
			f.Update(elapsed)
		}
		s.substrateClock.Reset()
	}
}

func (s *HomogeneousSpace) processAgentDivision(a *agent.Agent) {
	if s.hasCapacity && !s.hasFreeVolume {
		return
	}
	agentVolume := a.GetAttribute(agent.AttrVolume).(float64)
	if s.hasCapacity {
		sumVolumes := s.totalAgentVolume()
		if sumVolumes+agentVolume > s.volume {
			s.hasFreeVolume = false
			return
		}
	}
	a.SetAttribute(agent.AttrDivisionPending, false)
	a.SetAttribute(agent.AttrDivisionCompleted, true)
	clone := a.Clone()
	if err := s.sim.AddAgent(clone, nil); err != nil {
		slog.Error("failed to add cloned agent", "parent_id", a.ID(), "error", err)
	}
}

func (s *HomogeneousSpace) totalAgentVolume() float64 {
	total := 0.0
	for _, a := range s.agents {
		total += a.GetAttribute(agent.AttrVolume).(float64)
	}
	return total
}

func removeAgent(agents []*agent.Agent, target *agent.Agent) []*agent.Agent {
	for i, a := range agents {
		if a == target {
			return append(agents[:i], agents[i+1:]...)
		}
	}
	return agents
}
