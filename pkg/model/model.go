// Package model defines the pluggable per-agent attribute updater interface
// and the update-interval gating every concrete model shares.
package model

import (
	"fmt"

	"github.com/lattics/lattics/pkg/agent"
	"github.com/lattics/lattics/pkg/clock"
	"github.com/lattics/lattics/pkg/units"
)

// Model mutates an Agent's attributes on a schedule of its own. The
// simulation scheduler calls UpdateClock once per tick to decide whether
// this tick's call to UpdateAttributes should happen, and calls
// InitializeAttributes once for every agent added to a simulation this
// model is registered with.
type Model interface {
	// InitializeAttributes seeds any attributes this model requires,
	// validating that required attributes are already present and filling
	// in defaults for optional ones.
	InitializeAttributes(a *agent.Agent) error

	// UpdateAttributes runs this model's per-tick logic against a.
	UpdateAttributes(a *agent.Agent)

	// UpdateClock exposes the model's interval timer so the simulation
	// scheduler can gate calls to UpdateAttributes.
	UpdateClock() *clock.UpdateClock
}

// RequiredAttributeError reports that an agent is missing an attribute a
// model needs before it can operate on that agent.
type RequiredAttributeError struct {
	Model     string
	Attribute string
}

func (e *RequiredAttributeError) Error() string {
	return fmt.Sprintf("model %s: required attribute %q not set", e.Model, e.Attribute)
}

// Base provides the shared UpdateClock plumbing every concrete model
// embeds, mirroring the original's BaseModel.update_info field.
type Base struct {
	clock *clock.UpdateClock
}

// NewBase constructs a Base whose update interval is given as (value, unit);
// a nil interval (value == 0 and unit == "") means "due every tick".
func NewBase(intervalValue float64, intervalUnit units.Unit) (Base, error) {
	if intervalValue == 0 && intervalUnit == "" {
		return Base{clock: clock.New(0)}, nil
	}
	ms, err := units.Millis(intervalValue, intervalUnit)
	if err != nil {
		return Base{}, err
	}
	return Base{clock: clock.New(ms)}, nil
}

// UpdateClock implements Model.
func (b Base) UpdateClock() *clock.UpdateClock {
	return b.clock
}
