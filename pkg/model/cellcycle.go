package model

import (
	"github.com/lattics/lattics/pkg/agent"
	"github.com/lattics/lattics/pkg/rng"
	"github.com/lattics/lattics/pkg/units"
)

// CellCycleDistribution selects how a cell-cycle length is sampled around
// its configured mean.
type CellCycleDistribution string

const (
	// DistributionFixed always returns the mean length unchanged.
	DistributionFixed CellCycleDistribution = "fixed"
	// DistributionErlang samples length ~ Gamma(shape, mean/shape), an
	// Erlang distribution when shape is a positive integer.
	DistributionErlang CellCycleDistribution = "erlang"
	// DistributionNormal samples length ~ Normal(mean, param).
	DistributionNormal CellCycleDistribution = "normal"
)

// FixedIncrementCellCycleModel advances each agent's cell-cycle clock by
// the elapsed time since its last update, flagging division_pending once
// the clock reaches a length sampled from the configured distribution.
type FixedIncrementCellCycleModel struct {
	Base

	distribution      CellCycleDistribution
	distributionParam float64
	rng               *rng.Stream
}

// NewFixedIncrementCellCycleModel constructs the model. intervalValue/Unit
// of 0/"" means "update every tick". distributionParam is the Erlang shape
// or the Normal standard deviation; it is ignored for DistributionFixed.
func NewFixedIncrementCellCycleModel(
	intervalValue float64,
	intervalUnit units.Unit,
	distribution CellCycleDistribution,
	distributionParam float64,
	stream *rng.Stream,
) (*FixedIncrementCellCycleModel, error) {
	base, err := NewBase(intervalValue, intervalUnit)
	if err != nil {
		return nil, err
	}
	return &FixedIncrementCellCycleModel{
		Base:              base,
		distribution:      distribution,
		distributionParam: distributionParam,
		rng:               stream,
	}, nil
}

// InitializeAttributes implements Model.
func (m *FixedIncrementCellCycleModel) InitializeAttributes(a *agent.Agent) error {
	if !a.HasAttribute(agent.AttrCellCycleMeanLength) {
		return &RequiredAttributeError{Model: "FixedIncrementCellCycleModel", Attribute: agent.AttrCellCycleMeanLength}
	}

	length := m.sampleLength(a)
	a.SetAttribute(agent.AttrCellCycleLength, length)

	if !a.HasAttribute(agent.AttrCellCycleIsActive) {
		a.SetAttribute(agent.AttrCellCycleIsActive, true)
	}
	if !a.HasAttribute(agent.AttrCellCycleCurrentTime) {
		a.SetAttribute(agent.AttrCellCycleCurrentTime, 0.0)
	}
	if !a.HasAttribute(agent.AttrDivisionPending) {
		a.SetAttribute(agent.AttrDivisionPending, false)
	}
	if !a.HasAttribute(agent.AttrDivisionCompleted) {
		a.SetAttribute(agent.AttrDivisionCompleted, false)
	}

	if a.HasAttribute(agent.AttrCellCycleRandomInitial) && a.GetAttribute(agent.AttrCellCycleRandomInitial).(bool) {
		a.SetAttribute(agent.AttrCellCycleCurrentTime, m.rng.Float64()*length)
	}
	return nil
}

// ResetAttributes re-arms the cell cycle for another round, sampling a
// fresh length. Called once division_completed is observed true.
func (m *FixedIncrementCellCycleModel) ResetAttributes(a *agent.Agent) {
	a.SetAttribute(agent.AttrCellCycleIsActive, true)
	a.SetAttribute(agent.AttrCellCycleCurrentTime, 0.0)
	a.SetAttribute(agent.AttrDivisionPending, false)
	a.SetAttribute(agent.AttrDivisionCompleted, false)
	a.SetAttribute(agent.AttrCellCycleLength, m.sampleLength(a))
}

// UpdateAttributes implements Model.
func (m *FixedIncrementCellCycleModel) UpdateAttributes(a *agent.Agent) {
	if a.HasAttribute(agent.AttrDivisionCompleted) && a.GetAttribute(agent.AttrDivisionCompleted).(bool) {
		m.ResetAttributes(a)
	}
	if !a.GetAttribute(agent.AttrCellCycleIsActive).(bool) {
		return
	}

	currentTime := a.GetAttribute(agent.AttrCellCycleCurrentTime).(float64)
	elapsed := float64(m.UpdateClock().Elapsed())
	updated := currentTime + elapsed
	a.SetAttribute(agent.AttrCellCycleCurrentTime, updated)

	length := a.GetAttribute(agent.AttrCellCycleLength).(float64)
	if length <= updated {
		a.SetAttribute(agent.AttrDivisionPending, true)
	}
}

func (m *FixedIncrementCellCycleModel) sampleLength(a *agent.Agent) float64 {
	meanAttr := a.GetAttribute(agent.AttrCellCycleMeanLength).([2]any)
	meanValue := meanAttr[0].(float64)
	meanUnit := meanAttr[1].(units.Unit)
	meanMs, err := units.Convert(meanValue, meanUnit, units.Millisecond)
	if err != nil {
		panic(err)
	}

	switch m.distribution {
	case DistributionFixed:
		return meanMs
	case DistributionErlang:
		shape := m.distributionParam
		scale := meanMs / shape
		return m.rng.Gamma(shape, scale)
	case DistributionNormal:
		return m.rng.NormFloat64(meanMs, m.distributionParam)
	default:
		return meanMs
	}
}
