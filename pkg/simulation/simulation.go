// Package simulation implements the scheduler that drives the fixed-dt
// simulation loop: events, models, the space, and history snapshots, in
// that order, every tick.
package simulation

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/lattics/lattics/pkg/agent"
	"github.com/lattics/lattics/pkg/event"
	"github.com/lattics/lattics/pkg/model"
	"github.com/lattics/lattics/pkg/units"
)

// Space is the interface a Simulation delegates agent placement, removal,
// and per-tick domain mechanics to. *space.HomogeneousSpace and
// *space.Lattice2DSpace both satisfy it via their AddAgentParams/
// RemoveAgent/AddSubstrate/Update methods.
type Space interface {
	AddAgentParams(a *agent.Agent, params map[string]any) error
	RemoveAgent(a *agent.Agent)
	AddSubstrate(name string, diffusionCoefficient, decayCoefficient float64)
	Update(dt int64)
}

// SaveMode selects how often Simulation flushes its history sequence to
// disk during Run.
type SaveMode string

const (
	// SaveAlways flushes the full history to the snapshot file after every
	// history entry is recorded.
	SaveAlways SaveMode = "always"
	// SaveOnCompletion flushes once, after Run finishes.
	SaveOnCompletion SaveMode = "on_completion"
)

// Simulation is the top-level scheduler: it owns the agent population, an
// optional Space, registered Models, pending Events, and a history of
// snapshots. Apart from AddAgent storing unclaimed params as attributes, it
// never mutates agent attributes or the space layer itself; it only
// orchestrates calls into those subsystems in a fixed order.
type Simulation struct {
	id     string
	agents []*agent.Agent
	space  Space
	events []*event.Event
	models []model.Model
	time   int64

	history         [][]byte
	snapshotFactory func(*Simulation) ([]byte, error)
}

// New constructs a Simulation. If id is empty, a random UUID is generated.
func New(id string) *Simulation {
	if id == "" {
		id = uuid.NewString()
	}
	return &Simulation{id: id}
}

// ID returns the simulation's identifier.
func (s *Simulation) ID() string { return s.id }

// Time returns the simulation's current internal clock, in milliseconds.
func (s *Simulation) Time() int64 { return s.time }

// Agents returns the live agent population in insertion order. The
// returned slice must not be mutated by callers.
func (s *Simulation) Agents() []*agent.Agent { return s.agents }

// AddAgent appends agent to the population, places it in the space (if
// one is configured), initializes every registered model's attributes on
// it, and stores any param not claimed by the space or a model as a plain
// agent attribute.
func (s *Simulation) AddAgent(a *agent.Agent, params map[string]any) error {
	s.agents = append(s.agents, a)

	if s.space != nil {
		if err := s.space.AddAgentParams(a, params); err != nil {
			return err
		}
	} else {
		slog.Warn("agent added with no simulation space configured; proceeding without one may lead to unexpected behavior", "agent_id", a.ID())
	}

	for _, m := range s.models {
		if err := m.InitializeAttributes(a); err != nil {
			return err
		}
	}

	for name, value := range params {
		if !a.HasAttribute(name) {
			a.SetAttribute(name, value)
		}
	}
	return nil
}

// AddSpace sets the simulation's space. It may be called at most once.
func (s *Simulation) AddSpace(sp Space) error {
	if s.space != nil {
		return errAlreadySet("space")
	}
	s.space = sp
	return nil
}

// AddEvent schedules a one-shot Event.
func (s *Simulation) AddEvent(e *event.Event) {
	s.events = append(s.events, e)
}

// AddModel registers a Model. Models run in registration order every
// tick their own clock is due.
func (s *Simulation) AddModel(m model.Model) {
	s.models = append(s.models, m)
}

// AddSubstrate adds a substrate field to the configured space.
func (s *Simulation) AddSubstrate(name string, diffusionCoefficient, decayCoefficient float64) error {
	if s.space == nil {
		return errNoSpace("add substrates")
	}
	s.space.AddSubstrate(name, diffusionCoefficient, decayCoefficient)
	return nil
}

// RemoveAgent removes agent from the population and, if a space is
// configured, from the space as well.
func (s *Simulation) RemoveAgent(a *agent.Agent) error {
	s.agents = removeAgentFromSlice(s.agents, a)
	if s.space != nil {
		s.space.RemoveAgent(a)
	}
	return nil
}

func removeAgentFromSlice(agents []*agent.Agent, target *agent.Agent) []*agent.Agent {
	for i, a := range agents {
		if a == target {
			return append(agents[:i], agents[i+1:]...)
		}
	}
	return agents
}

// RunOptions configures a call to Run.
type RunOptions struct {
	// Time is the total duration to simulate, as a (value, unit) pair.
	TimeValue float64
	TimeUnit  units.Unit
	// Dt is the fixed tick size, as a (value, unit) pair.
	DtValue float64
	DtUnit  units.Unit
	// DtHistory, if non-zero, enables periodic snapshotting at this
	// interval.
	DtHistoryValue float64
	DtHistoryUnit  units.Unit
	SaveMode       SaveMode
}

// Run executes the fixed-dt simulation loop for ceil(time/dt) ticks, plus
// one terminal pass that only drains events due at the final time reached.
// Each tick: due events fire and are removed, due models run over every
// agent in insertion order, the space (if any) advances by dt, and — if
// history is enabled — a snapshot is recorded once the history clock is
// due. Global time advances by dt unconditionally on every tick, so Run
// finishes with time == ceil(time/dt)*dt, which equals timeMs when dt
// divides it.
func (s *Simulation) Run(opts RunOptions) error {
	timeMs, err := units.Millis(opts.TimeValue, opts.TimeUnit)
	if err != nil {
		return err
	}
	dtMs, err := units.Millis(opts.DtValue, opts.DtUnit)
	if err != nil {
		return err
	}

	historyEnabled := opts.DtHistoryValue != 0
	var historyIntervalMs int64
	if historyEnabled {
		historyIntervalMs, err = units.Millis(opts.DtHistoryValue, opts.DtHistoryUnit)
		if err != nil {
			return err
		}
		if err := s.makeHistoryEntry(opts.SaveMode); err != nil {
			return err
		}
	}

	// ticks is ceil(time/dt): the number of full model/space/history passes
	// that actually advance time. The loop runs one further, terminal pass
	// (the "+1" of ceil(time/dt)+1) that only drains events due at the final
	// time reached — it must not re-run models or space.Update, since both
	// are driven by their own clocks and would otherwise double-process
	// whatever was already due on the last real tick (re-firing a pending
	// division, double-stepping substrate decay, ...).
	ticks := int(ceilDiv(timeMs, dtMs))
	var historyElapsed int64

	for i := 0; i < ticks; i++ {
		s.updateEvents(s.time)
		s.updateModels(dtMs)
		if s.space != nil {
			s.space.Update(dtMs)
		}
		if historyEnabled {
			if historyElapsed >= historyIntervalMs {
				if err := s.makeHistoryEntry(opts.SaveMode); err != nil {
					return err
				}
				historyElapsed = 0
			}
			historyElapsed += dtMs
		}
		s.time += dtMs
	}
	s.updateEvents(s.time)

	if opts.SaveMode == SaveOnCompletion {
		if err := s.saveHistory(); err != nil {
			return err
		}
	}
	return nil
}

func ceilDiv(a, b int64) int64 {
	if a%b == 0 {
		return a / b
	}
	return a/b + 1
}

func (s *Simulation) updateEvents(now int64) {
	remaining := s.events[:0]
	for _, e := range s.events {
		if e.IsReady(now) {
			e.Execute()
		} else {
			remaining = append(remaining, e)
		}
	}
	s.events = remaining
}

func (s *Simulation) updateModels(dt int64) {
	for _, m := range s.models {
		clk := m.UpdateClock()
		if clk.Due() {
			for _, a := range s.agents {
				m.UpdateAttributes(a)
			}
			clk.Reset()
		}
		clk.Increase(dt)
	}
}
