package runmanager

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lattics/lattics/pkg/simulation"
	"github.com/lattics/lattics/pkg/storage"
	"github.com/lattics/lattics/pkg/units"
)

// Manager tracks in-flight and completed simulation runs in memory,
// persisting run records (creation and completion) through an optional
// storage.Client. History snapshots are not written to the store.
type Manager struct {
	runs  map[string]*Run
	mu    sync.RWMutex
	store *storage.Client
}

// NewManager creates a Manager. store may be nil, in which case run
// records are kept in memory only.
func NewManager(store *storage.Client) *Manager {
	return &Manager{
		runs:  make(map[string]*Run),
		store: store,
	}
}

// Start registers a new Run and launches sim.Run(opts) in a goroutine,
// returning immediately with the tracked Run record.
func (m *Manager) Start(sim *simulation.Simulation, opts simulation.RunOptions) (*Run, error) {
	id := sim.ID()
	if id == "" {
		id = uuid.New().String()
	}
	now := time.Now()
	run := &Run{ID: id, Status: StatusPending, CreatedAt: now, UpdatedAt: now}

	m.mu.Lock()
	m.runs[id] = run
	m.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	run.SetCancelFunc(cancel)

	if m.store != nil {
		timeMs, err := units.Millis(opts.TimeValue, opts.TimeUnit)
		if err != nil {
			run.SetError(err.Error())
			return run, err
		}
		dtMs, err := units.Millis(opts.DtValue, opts.DtUnit)
		if err != nil {
			run.SetError(err.Error())
			return run, err
		}
		if err := m.store.CreateRun(ctx, id, timeMs, dtMs, string(opts.SaveMode)); err != nil {
			run.SetError(err.Error())
			return run, err
		}
	}

	go m.runOne(ctx, run, sim, opts)
	return run, nil
}

func (m *Manager) runOne(ctx context.Context, run *Run, sim *simulation.Simulation, opts simulation.RunOptions) {
	run.SetStatus(StatusRunning)

	done := make(chan error, 1)
	go func() { done <- sim.Run(opts) }()

	select {
	case <-ctx.Done():
		return
	case err := <-done:
		if err != nil {
			run.SetError(err.Error())
			return
		}
		run.SetStatus(StatusCompleted)
		if m.store != nil {
			if err := m.store.CompleteRun(context.Background(), run.ID); err != nil {
				run.SetError(err.Error())
			}
		}
	}
}

// Get retrieves a run by id.
func (m *Manager) Get(id string) (*Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	run, ok := m.runs[id]
	if !ok {
		return nil, fmt.Errorf("run not found: %s", id)
	}
	return run, nil
}

// List returns a snapshot of every tracked run.
func (m *Manager) List() []Run {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Run, 0, len(m.runs))
	for _, r := range m.runs {
		out = append(out, r.Clone())
	}
	return out
}

// Cancel requests cancellation of a tracked run.
func (m *Manager) Cancel(id string) error {
	run, err := m.Get(id)
	if err != nil {
		return err
	}
	if !run.Cancel() {
		return fmt.Errorf("run %s is not cancellable", id)
	}
	return nil
}
