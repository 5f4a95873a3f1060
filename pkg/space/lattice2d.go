package space

import (
	"fmt"
	"log/slog"

	"github.com/lattics/lattics/pkg/agent"
	"github.com/lattics/lattics/pkg/clock"
	"github.com/lattics/lattics/pkg/lattice"
	"github.com/lattics/lattics/pkg/rng"
	"github.com/lattics/lattics/pkg/substrate"
)

// PositionError reports an add_agent call at an invalid or occupied
// lattice position.
type PositionError struct {
	Position lattice.Point
	Reason   string
}

func (e *PositionError) Error() string {
	return fmt.Sprintf("space: position %v %s", e.Position, e.Reason)
}

// Lattice2DSpace is a 2D on-lattice domain with Monte Carlo displacement
// mechanics, distance-transform-driven cell division, and lattice-resolved
// substrate fields.
type Lattice2DSpace struct {
	sim SimulationCallback

	width, height int
	gridSpacing   float64

	agents []*agent.Agent
	layer  *lattice.OccupancyGrid
	// layer's occupant indices are indices into agents; a removal compacts
	// agents and rebuilds layer so the two stay in step.
	substrates map[string]substrate.Field

	agentClock     *clock.UpdateClock
	substrateClock *clock.UpdateClock

	rng *rng.Stream
}

// NewLattice2DSpace constructs a Lattice2DSpace of the given width x
// height, with uniform grid spacing gridSpacing (used both as the
// substrate cell length and the displacement-trial length scale).
func NewLattice2DSpace(sim SimulationCallback, width, height int, gridSpacing float64, dtAgentMs, dtSubstrateMs int64, stream *rng.Stream) *Lattice2DSpace {
	return &Lattice2DSpace{
		sim:            sim,
		width:          width,
		height:         height,
		gridSpacing:    gridSpacing,
		layer:          lattice.NewOccupancyGrid(width, height),
		substrates:     make(map[string]substrate.Field),
		agentClock:     newUpdateClock(dtAgentMs),
		substrateClock: newUpdateClock(dtSubstrateMs),
		rng:            stream,
	}
}

// IsValidPosition reports whether p lies within the lattice bounds.
func (s *Lattice2DSpace) IsValidPosition(p lattice.Point) bool {
	return s.layer.InBounds(p)
}

// IsEmptyPosition reports whether p holds no agent. p must be valid.
func (s *Lattice2DSpace) IsEmptyPosition(p lattice.Point) bool {
	return s.layer.Get(p) == -1
}

// GetRemainingVolume returns dx^2 minus the occupant's volume at p, or the
// full dx^2 if p is empty.
func (s *Lattice2DSpace) GetRemainingVolume(p lattice.Point) float64 {
	capacity := s.gridSpacing * s.gridSpacing
	if s.IsEmptyPosition(p) {
		return capacity
	}
	idx := s.layer.Get(p)
	return capacity - s.agents[idx].GetAttribute(agent.AttrVolume).(float64)
}

// AddAgent places a at position, failing if the position is invalid or
// already occupied.
func (s *Lattice2DSpace) AddAgent(a *agent.Agent, position lattice.Point, params Params) error {
	if !s.IsValidPosition(position) {
		return &PositionError{Position: position, Reason: "is out of the bounds of the domain"}
	}
	if !s.IsEmptyPosition(position) {
		return &PositionError{Position: position, Reason: "is already occupied"}
	}
	if s.GetRemainingVolume(position) < params.Volume {
		slog.Warn("agent volume exceeds domain chunk volume", "position", position, "volume", params.Volume)
	}

	idx := len(s.agents)
	s.agents = append(s.agents, a)
	s.layer.Set(position, idx)
	s.initializeAgentAttributes(a, position, params)
	return nil
}

func (s *Lattice2DSpace) initializeAgentAttributes(a *agent.Agent, position lattice.Point, params Params) {
	initializeCommonAttributes(a, params.Volume)
	if !a.HasAttribute(agent.AttrPosition) {
		a.SetAttribute(agent.AttrPosition, position)
	}
	if !a.HasAttribute(agent.AttrMotility) {
		a.SetAttribute(agent.AttrMotility, params.Motility)
	}
	if !a.HasAttribute(agent.AttrBindingAffinity) {
		a.SetAttribute(agent.AttrBindingAffinity, params.BindingAffinity)
	}
	if !a.HasAttribute(attrDisplacementLimit) {
		limit := params.DisplacementLimit
		if limit == 0 {
			limit = 1
		}
		a.SetAttribute(attrDisplacementLimit, limit)
	}
}

// AddAgentParams adapts the generic Simulation.AddAgent(a, params) call
// into AddAgent's native-typed signature. params must carry a "position"
// key holding a lattice.Point; this mirrors the original's position being
// a required positional argument even though it travels through **params
// at the Simulation layer.
func (s *Lattice2DSpace) AddAgentParams(a *agent.Agent, params map[string]any) error {
	pos, ok := params["position"].(lattice.Point)
	if !ok {
		return fmt.Errorf("space: lattice2d add_agent requires a \"position\" parameter")
	}
	return s.AddAgent(a, pos, ParamsFromMap(params))
}

// RemoveAgent removes a from the population, compacting the internal
// index and rebuilding the layer's occupant indices.
func (s *Lattice2DSpace) RemoveAgent(a *agent.Agent) {
	pos := a.GetAttribute(agent.AttrPosition).(lattice.Point)
	s.layer.Set(pos, -1)

	idx := -1
	for i, cur := range s.agents {
		if cur == a {
			idx = i
			break
		}
	}
	if idx == -1 {
		return
	}
	s.agents = append(s.agents[:idx], s.agents[idx+1:]...)
	s.reindexLayer()
}

func (s *Lattice2DSpace) reindexLayer() {
	s.layer = lattice.NewOccupancyGrid(s.width, s.height)
	for i, a := range s.agents {
		pos := a.GetAttribute(agent.AttrPosition).(lattice.Point)
		s.layer.Set(pos, i)
	}
}

// AddSubstrate registers a new lattice-resolved substrate field under name.
func (s *Lattice2DSpace) AddSubstrate(name string, diffusionCoefficient, decayCoefficient float64) {
	s.substrates[name] = substrate.NewLattice2DField(name, diffusionCoefficient, decayCoefficient, s.width, s.height, s.gridSpacing)
}

// Update advances the domain by dt milliseconds: displacement, division,
// and removal trials once the agent clock is due, then substrate field
// updates once the substrate clock is due. Clocks follow the same
// increase-then-check order as HomogeneousSpace.
func (s *Lattice2DSpace) Update(dt int64) {
	s.agentClock.Increase(dt)
	s.substrateClock.Increase(dt)

	if s.agentClock.Due() {
		elapsed := s.agentClock.Elapsed()
		s.displacementTrials(elapsed)
		s.cellDivisionTrials()
		s.cellRemovalTrials()

		clearDynamicNodes(s.substrates)
		for _, a := range s.agents {
			if !a.HasAttribute(agent.AttrSubstrateInfo) {
				continue
			}
			info := a.GetAttribute(agent.AttrSubstrateInfo).(map[string]agent.SubstrateInfo)
			for name := range info {
				if f, ok := s.substrates[name]; ok {
					f.AddDynamicNode(substrate.AgentNode{Agent: a})
				}
			}
		}
		s.agentClock.Reset()
	}

	if s.substrateClock.Due() {
		elapsed := s.substrateClock.Elapsed()
		for _, f := range s.substrates {
			f.Update(elapsed)
		}
		s.substrateClock.Reset()
	}
}

func (s *Lattice2DSpace) displacementTrials(dt int64) {
	n := len(s.agents)
	if n == 0 {
		return
	}

	order := s.rng.Permutation(n)
	positions := make([]lattice.Point, n)
	bindingAffs := make([]float64, n)
	dispProbs := make([]float64, n)
	// trialGrid maps trial-local index -> agent, kept separate from the
	// stable s.agents/s.layer indexing so a trial permutation never
	// disturbs agent identity between ticks.
	trialGrid := lattice.NewOccupancyGrid(s.width, s.height)
	trialAgents := make([]*agent.Agent, n)

	for trialIdx, agentIdx := range order {
		a := s.agents[agentIdx]
		pos := a.GetAttribute(agent.AttrPosition).(lattice.Point)
		positions[trialIdx] = pos
		bindingAffs[trialIdx] = a.GetAttribute(agent.AttrBindingAffinity).(float64)
		motility := a.GetAttribute(agent.AttrMotility).(float64)
		dispProbs[trialIdx] = motility * float64(dt) / s.gridSpacing
		trialGrid.Set(pos, trialIdx)
		trialAgents[trialIdx] = a
	}

	changed := make([]bool, n)
	for i, prob := range dispProbs {
		if s.rng.Float64() < prob {
			changed[i] = lattice.DisplacementTrial(i, positions, bindingAffs, trialGrid, s.rng)
		}
	}

	for i, didChange := range changed {
		if !didChange {
			continue
		}
		a := trialAgents[i]
		oldPos := a.GetAttribute(agent.AttrPosition).(lattice.Point)
		newPos := positions[i]
		s.layer.Set(oldPos, -1)
		s.layer.Set(newPos, s.agentIndex(a))
		a.SetAttribute(agent.AttrPosition, newPos)
	}
}

func (s *Lattice2DSpace) agentIndex(target *agent.Agent) int {
	for i, a := range s.agents {
		if a == target {
			return i
		}
	}
	return -1
}

func (s *Lattice2DSpace) cellRemovalTrials() {
	order := s.rng.Permutation(len(s.agents))
	snapshot := append([]*agent.Agent{}, s.agents...)
	for _, idx := range order {
		a := snapshot[idx]
		if a.HasAttribute(attrRemovePending) && a.GetAttribute(attrRemovePending).(bool) {
			if err := s.sim.RemoveAgent(a); err != nil {
				slog.Error("failed to remove agent", "agent_id", a.ID(), "error", err)
			}
		}
	}
}

func (s *Lattice2DSpace) cellDivisionTrials() {
	order := s.rng.Permutation(len(s.agents))
	snapshot := append([]*agent.Agent{}, s.agents...)
	for _, idx := range order {
		a := snapshot[idx]
		if a.GetAttribute(agent.AttrDivisionPending).(bool) {
			s.performCellDivision(a)
		}
	}
}

func (s *Lattice2DSpace) performCellDivision(a *agent.Agent) {
	currentPos := a.GetAttribute(agent.AttrPosition).(lattice.Point)
	displacementLimit := a.GetAttribute(attrDisplacementLimit).(float64)

	minDistance, candidates := lattice.DistanceTransform(currentPos, s.width, s.height, func(p lattice.Point) bool {
		return s.layer.Get(p) != -1
	})
	if len(candidates) == 0 || minDistance > displacementLimit {
		return
	}

	target := candidates[s.rng.Intn(len(candidates))]
	path := lattice.Bresenham2D(currentPos.X, currentPos.Y, target.X, target.Y)
	if len(path) <= 2 {
		// Adjacent target: nothing to push, the clone simply takes the
		// target cell (path[1]) below.
		s.finishDivision(a, path)
		return
	}

	for i := len(path) - 2; i >= 1; i-- {
		oldPos := path[i]
		newPos := path[i+1]
		movingIdx := s.layer.Get(oldPos)
		if movingIdx == -1 {
			continue
		}
		s.layer.Set(oldPos, -1)
		s.layer.Set(newPos, movingIdx)
		s.agents[movingIdx].SetAttribute(agent.AttrPosition, newPos)
	}
	s.finishDivision(a, path)
}

func (s *Lattice2DSpace) finishDivision(a *agent.Agent, path []lattice.Point) {
	clonePosition := path[1]
	s.layer.Set(clonePosition, -1)
	a.SetAttribute(agent.AttrDivisionPending, false)
	a.SetAttribute(agent.AttrDivisionCompleted, true)

	clone := a.Clone()
	clone.SetAttribute(agent.AttrPosition, clonePosition)
	if err := s.sim.AddAgent(clone, map[string]any{"position": clonePosition}); err != nil {
		slog.Error("failed to add daughter agent", "parent_id", a.ID(), "error", err)
	}
}
