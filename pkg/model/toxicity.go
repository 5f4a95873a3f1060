package model

import (
	"math"

	"github.com/lattics/lattics/pkg/agent"
	"github.com/lattics/lattics/pkg/rng"
	"github.com/lattics/lattics/pkg/units"
)

// ConcentrationDependentToxicityModel converts a substrate's local
// concentration into a per-tick necrosis probability via a Michaelis-Menten
// saturation curve, transitioning the agent to a terminal necrotic state
// (motility and binding affinity zeroed, cell cycle deactivated) on a
// probabilistic draw.
type ConcentrationDependentToxicityModel struct {
	Base

	substrateName         string
	maxRatePerMs          float64
	medianEffectiveConc   float64
	rng                   *rng.Stream
}

// NewConcentrationDependentToxicityModel constructs the model. maxRate is
// expressed as a per-day rate and internally converted to per-millisecond,
// matching the reference implementation.
func NewConcentrationDependentToxicityModel(
	intervalValue float64,
	intervalUnit units.Unit,
	substrateName string,
	maxRate float64,
	medianEffectiveConcentration float64,
	stream *rng.Stream,
) (*ConcentrationDependentToxicityModel, error) {
	base, err := NewBase(intervalValue, intervalUnit)
	if err != nil {
		return nil, err
	}
	perDayToMs, err := units.Convert(1, units.Day, units.Millisecond)
	if err != nil {
		return nil, err
	}
	return &ConcentrationDependentToxicityModel{
		Base:                base,
		substrateName:       substrateName,
		maxRatePerMs:        maxRate / perDayToMs,
		medianEffectiveConc: medianEffectiveConcentration,
		rng:                 stream,
	}, nil
}

// InitializeAttributes implements Model.
func (m *ConcentrationDependentToxicityModel) InitializeAttributes(a *agent.Agent) error {
	if !a.HasAttribute(agent.AttrSubstrateInfo) {
		return &RequiredAttributeError{Model: "ConcentrationDependentToxicityModel", Attribute: agent.AttrSubstrateInfo}
	}
	return nil
}

// UpdateAttributes implements Model.
func (m *ConcentrationDependentToxicityModel) UpdateAttributes(a *agent.Agent) {
	substrateInfo := a.GetAttribute(agent.AttrSubstrateInfo).(map[string]agent.SubstrateInfo)
	concentration := substrateInfo[m.substrateName].Concentration

	rate := m.michaelisMenten(concentration)
	dt := float64(m.UpdateClock().Elapsed())
	prob := 1 - math.Exp(-rate*dt)

	if m.rng.Float64() < prob {
		a.SetAttribute(agent.AttrState, agent.StateNecrotic)
		a.SetAttribute(agent.AttrCellCycleIsActive, false)
		a.SetAttribute(agent.AttrDivisionPending, false)
		a.SetAttribute(agent.AttrMotility, 0.0)
		a.SetAttribute(agent.AttrBindingAffinity, 0.0)
	}
}

func (m *ConcentrationDependentToxicityModel) michaelisMenten(concentration float64) float64 {
	return m.maxRatePerMs * (concentration / (m.medianEffectiveConc + concentration))
}
