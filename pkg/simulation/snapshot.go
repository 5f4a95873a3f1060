package simulation

import (
	"bytes"
	"encoding/gob"
	"os"

	"github.com/lattics/lattics/pkg/agent"
	"github.com/lattics/lattics/pkg/lattice"
)

func init() {
	gob.Register(lattice.Point{})
	gob.Register(agent.SubstrateInfo{})
	gob.Register(map[string]agent.SubstrateInfo{})
}

// agentSnapshot is the serializable form of an Agent: identity plus its
// attribute map.
type agentSnapshot struct {
	ID         int64
	Attributes map[string]any
}

// stateSnapshot is the serializable form of a Simulation: its id, time, and
// agents (ids and attributes). The space, its substrate fields, and the
// live events, models, and history lists are not captured.
type stateSnapshot struct {
	ID     string
	Time   int64
	Agents []agentSnapshot
}

// Snapshot serializes the simulation's current state (id, time, and
// agent population) into an opaque byte blob, excluding pending events,
// registered models, and the history sequence itself.
func (s *Simulation) Snapshot() ([]byte, error) {
	state := stateSnapshot{
		ID:   s.id,
		Time: s.time,
	}
	for _, a := range s.agents {
		state.Agents = append(state.Agents, agentSnapshot{ID: a.ID(), Attributes: a.Attributes()})
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(state); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Restore reconstructs a Simulation from a blob produced by Snapshot.
// The returned Simulation has empty event, model, and history lists,
// matching the reference __setstate__ behavior; callers must re-register
// models, events, and a space before calling Run again.
func Restore(blob []byte) (*Simulation, error) {
	var state stateSnapshot
	if err := gob.NewDecoder(bytes.NewReader(blob)).Decode(&state); err != nil {
		return nil, err
	}

	sim := &Simulation{id: state.ID, time: state.Time}
	for _, as := range state.Agents {
		sim.agents = append(sim.agents, agent.Restore(as.ID, as.Attributes))
	}
	return sim, nil
}

func (s *Simulation) makeHistoryEntry(saveMode SaveMode) error {
	blob, err := s.Snapshot()
	if err != nil {
		return err
	}
	s.history = append(s.history, blob)
	if saveMode == SaveAlways {
		return s.saveHistory()
	}
	return nil
}

// saveHistory flushes the full history sequence to a single file named
// "<id>.lsd" in the current working directory.
func (s *Simulation) saveHistory() error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s.history); err != nil {
		return err
	}
	return os.WriteFile(s.id+".lsd", buf.Bytes(), 0o644)
}
