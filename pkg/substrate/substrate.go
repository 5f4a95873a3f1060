// Package substrate implements reaction-diffusion chemical fields coupled
// to point-source nodes contributed by agents or fixed infrastructure.
package substrate

import (
	"math"

	"github.com/lattics/lattics/pkg/agent"
	"github.com/lattics/lattics/pkg/lattice"
)

// NodeType selects how a Node participates in the field's per-tick update.
const (
	NodeTypeFlux  = "flux"
	NodeTypeFixed = "fixed"
)

// Node is a point source or sink the field reads from and writes back to
// each tick. Agents act as dynamic nodes (see the AgentNode adapter);
// static infrastructure nodes are plain StaticNode values.
type Node interface {
	Position() lattice.Point
	Volume() float64
	SubstrateInfo(substrateName string) agent.SubstrateInfo
	SetSubstrateInfo(substrateName string, info agent.SubstrateInfo)
}

// StaticNode is a fixed point source/sink not tied to any agent, e.g. a
// vascular point or an externally imposed boundary condition.
type StaticNode struct {
	Pos    lattice.Point
	Vol    float64
	Infos  map[string]agent.SubstrateInfo
}

// NewStaticNode constructs a StaticNode at pos with the given volume.
func NewStaticNode(pos lattice.Point, volume float64) *StaticNode {
	return &StaticNode{Pos: pos, Vol: volume, Infos: make(map[string]agent.SubstrateInfo)}
}

func (n *StaticNode) Position() lattice.Point { return n.Pos }
func (n *StaticNode) Volume() float64         { return n.Vol }

func (n *StaticNode) SubstrateInfo(substrateName string) agent.SubstrateInfo {
	return n.Infos[substrateName]
}

func (n *StaticNode) SetSubstrateInfo(substrateName string, info agent.SubstrateInfo) {
	n.Infos[substrateName] = info
}

// AgentNode adapts an *agent.Agent into a Node, reading/writing its
// substrate_info attribute. Agents that carry substrate_info for a field's
// substrate name are registered as that field's dynamic nodes each tick
// (the "dynamic-node rebuild" step run by the owning Space after
// mechanics).
type AgentNode struct {
	Agent *agent.Agent
}

func (n AgentNode) Position() lattice.Point {
	pos := n.Agent.GetAttribute(agent.AttrPosition).(lattice.Point)
	return pos
}

func (n AgentNode) Volume() float64 {
	return n.Agent.GetAttribute(agent.AttrVolume).(float64)
}

func (n AgentNode) SubstrateInfo(substrateName string) agent.SubstrateInfo {
	infos := n.Agent.GetAttribute(agent.AttrSubstrateInfo).(map[string]agent.SubstrateInfo)
	return infos[substrateName]
}

func (n AgentNode) SetSubstrateInfo(substrateName string, info agent.SubstrateInfo) {
	infos := n.Agent.GetAttribute(agent.AttrSubstrateInfo).(map[string]agent.SubstrateInfo)
	infos[substrateName] = info
}

// Field is the common interface shared by HomogeneousField and
// Lattice2DField.
type Field interface {
	SubstrateName() string
	Update(dt int64)
	AddStaticNode(n Node)
	AddDynamicNode(n Node)
	ClearDynamicNodes()
}

func allNodes(static, dynamic []Node) []Node {
	out := make([]Node, 0, len(static)+len(dynamic))
	out = append(out, static...)
	out = append(out, dynamic...)
	return out
}

// HomogeneousField is a single well-mixed scalar concentration shared by
// the whole compartment.
type HomogeneousField struct {
	substrateName            string
	diffusionCoeff, decayCoeff float64
	volume                    float64
	concentration             float64
	staticNodes, dynamicNodes []Node
}

// NewHomogeneousField constructs a field over a compartment of the given
// volume.
func NewHomogeneousField(substrateName string, diffusionCoeff, decayCoeff, volume float64) *HomogeneousField {
	return &HomogeneousField{
		substrateName:  substrateName,
		diffusionCoeff: diffusionCoeff,
		decayCoeff:     decayCoeff,
		volume:         volume,
	}
}

func (f *HomogeneousField) SubstrateName() string { return f.substrateName }

// Concentration returns the field's current scalar value.
func (f *HomogeneousField) Concentration() float64 { return f.concentration }

func (f *HomogeneousField) AddStaticNode(n Node)  { f.staticNodes = append(f.staticNodes, n) }
func (f *HomogeneousField) AddDynamicNode(n Node) { f.dynamicNodes = append(f.dynamicNodes, n) }
func (f *HomogeneousField) ClearDynamicNodes()    { f.dynamicNodes = f.dynamicNodes[:0] }

// Update runs one tick: node flux/fixed application, then exponential decay.
func (f *HomogeneousField) Update(dt int64) {
	f.updateNodes(dt)
	f.diffusionDecay(dt)
}

func (f *HomogeneousField) updateNodes(dt int64) {
	dtf := float64(dt)
	countFixed := 0
	sumFixed := 0.0

	for _, n := range allNodes(f.staticNodes, f.dynamicNodes) {
		info := n.SubstrateInfo(f.substrateName)
		switch info.Type {
		case NodeTypeFlux:
			cN := info.Concentration
			vN := n.Volume()
			cF := f.concentration
			dn := (info.PassiveRate*(cF-cN) + info.UptakeRate*cF - info.ReleaseRate*cN) * dtf
			info.Concentration = cN + dn/vN
			n.SetSubstrateInfo(f.substrateName, info)
			f.concentration = cF - dn/f.volume
		case NodeTypeFixed:
			sumFixed += info.Concentration
			countFixed++
		}
	}
	if countFixed > 0 {
		f.concentration = sumFixed / float64(countFixed)
	}
}

func (f *HomogeneousField) diffusionDecay(dt int64) {
	f.concentration = f.concentration * math.Exp(-f.decayCoeff*float64(dt))
}

// Lattice2DField is a spatially resolved concentration grid with
// operator-split reaction-diffusion dynamics.
type Lattice2DField struct {
	substrateName             string
	diffusionCoeff, decayCoeff float64
	width, height             int
	dx                        float64
	concentration             []float64 // row-major, width*height
	staticNodes, dynamicNodes []Node
}

// NewLattice2DField constructs a field over a width x height grid with the
// given cell spacing dx.
func NewLattice2DField(substrateName string, diffusionCoeff, decayCoeff float64, width, height int, dx float64) *Lattice2DField {
	return &Lattice2DField{
		substrateName:  substrateName,
		diffusionCoeff: diffusionCoeff,
		decayCoeff:     decayCoeff,
		width:          width,
		height:         height,
		dx:             dx,
		concentration:  make([]float64, width*height),
	}
}

func (f *Lattice2DField) SubstrateName() string { return f.substrateName }

func (f *Lattice2DField) index(p lattice.Point) int { return p.Y*f.width + p.X }

// Concentration returns the field's value at p.
func (f *Lattice2DField) Concentration(p lattice.Point) float64 {
	return f.concentration[f.index(p)]
}

func (f *Lattice2DField) AddStaticNode(n Node)  { f.staticNodes = append(f.staticNodes, n) }
func (f *Lattice2DField) AddDynamicNode(n Node) { f.dynamicNodes = append(f.dynamicNodes, n) }
func (f *Lattice2DField) ClearDynamicNodes()    { f.dynamicNodes = f.dynamicNodes[:0] }

// Update runs one tick: node flux/fixed application at each node's cell,
// then LOD diffusion-decay over the whole grid.
func (f *Lattice2DField) Update(dt int64) {
	f.updateNodes(dt)
	f.diffusionDecay(dt)
}

func (f *Lattice2DField) updateNodes(dt int64) {
	dtf := float64(dt)
	vf := f.dx * f.dx

	for _, n := range allNodes(f.staticNodes, f.dynamicNodes) {
		info := n.SubstrateInfo(f.substrateName)
		idx := f.index(n.Position())
		switch info.Type {
		case NodeTypeFlux:
			cN := info.Concentration
			vN := n.Volume()
			cF := f.concentration[idx]
			dn := (info.PassiveRate*(cF-cN) + info.UptakeRate*cF - info.ReleaseRate*cN) * dtf
			info.Concentration = cN + dn/vN
			n.SetSubstrateInfo(f.substrateName, info)
			f.concentration[idx] = cF - dn/vf
		case NodeTypeFixed:
			f.concentration[idx] = info.Concentration
		}
	}
}

// diffusionDecay advances the grid by dt using a locally-one-dimensional
// (LOD) split: an implicit Crank-Nicolson tridiagonal solve along rows over
// dt/2, then along columns over dt/2, each with zero-flux (Neumann)
// boundaries, followed by a single multiplicative decay factor over the
// full dt. Concentrations are clamped to zero afterward to absorb small
// negative excursions from the discretization.
func (f *Lattice2DField) diffusionDecay(dt int64) {
	halfDt := float64(dt) / 2

	f.implicitSweepRows(halfDt)
	f.implicitSweepCols(halfDt)

	decay := math.Exp(-f.decayCoeff * float64(dt))
	for i := range f.concentration {
		c := f.concentration[i] * decay
		if c < 0 {
			c = 0
		}
		f.concentration[i] = c
	}
}

func (f *Lattice2DField) implicitSweepRows(halfDt float64) {
	r := f.diffusionCoeff * halfDt / (f.dx * f.dx)
	next := make([]float64, len(f.concentration))
	for y := 0; y < f.height; y++ {
		row := make([]float64, f.width)
		for x := 0; x < f.width; x++ {
			row[x] = f.concentration[y*f.width+x]
		}
		solved := crankNicolson1D(row, r)
		copy(next[y*f.width:(y+1)*f.width], solved)
	}
	f.concentration = next
}

func (f *Lattice2DField) implicitSweepCols(halfDt float64) {
	r := f.diffusionCoeff * halfDt / (f.dx * f.dx)
	next := make([]float64, len(f.concentration))
	for x := 0; x < f.width; x++ {
		col := make([]float64, f.height)
		for y := 0; y < f.height; y++ {
			col[y] = f.concentration[y*f.width+x]
		}
		solved := crankNicolson1D(col, r)
		for y := 0; y < f.height; y++ {
			next[y*f.width+x] = solved[y]
		}
	}
	f.concentration = next
}

// crankNicolson1D solves one half-step of the 1D diffusion equation along a
// line of n cells with diffusion number r = D*halfDt/dx^2, using zero-flux
// (Neumann) boundaries: the outermost cells see only their single interior
// neighbor, which is equivalent to mirroring a ghost cell equal to the
// boundary cell itself.
func crankNicolson1D(c []float64, r float64) []float64 {
	n := len(c)
	sub := make([]float64, n)
	diag := make([]float64, n)
	sup := make([]float64, n)
	d := make([]float64, n)

	for i := 0; i < n; i++ {
		switch i {
		case 0:
			diag[i] = 1 + r/2
			sup[i] = -r / 2
			d[i] = (1-r/2)*c[i] + (r/2)*c[i+1]
		case n - 1:
			diag[i] = 1 + r/2
			sub[i] = -r / 2
			d[i] = (r/2)*c[i-1] + (1-r/2)*c[i]
		default:
			sub[i] = -r / 2
			diag[i] = 1 + r
			sup[i] = -r / 2
			d[i] = (r/2)*c[i-1] + (1-r)*c[i] + (r/2)*c[i+1]
		}
	}

	return lattice.TDMASolve(sub, diag, sup, d)
}
