// Package lattice implements the numerical kernels driving on-lattice
// mechanics: neighborhood tables, Bresenham path tracing, pairwise binding
// energy, the Metropolis displacement trial, and an Euclidean distance
// transform used by cell division.
package lattice

import (
	"math"

	"github.com/lattics/lattics/pkg/rng"
)

// Point is an integer 2D lattice coordinate.
type Point struct {
	X, Y int
}

// NeighborhoodKind selects which offset table Neighborhood returns.
type NeighborhoodKind string

const (
	VonNeumann NeighborhoodKind = "von_neumann"
	Moore      NeighborhoodKind = "moore"
)

var vonNeumannOffsets = []Point{
	{-1, 0}, {1, 0}, {0, -1}, {0, 1},
}

var mooreOffsets = []Point{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// Neighborhood returns the fixed offset table for kind. It panics on an
// unrecognized kind, matching the reference implementation's ValueError.
func Neighborhood(kind NeighborhoodKind) []Point {
	switch kind {
	case VonNeumann:
		return vonNeumannOffsets
	case Moore:
		return mooreOffsets
	default:
		panic("lattice: neighborhood kind must be von_neumann or moore")
	}
}

// Bresenham2D traces an integer grid path from (x1,y1) to (x2,y2)
// inclusive of both endpoints, using the same two-error-term variant as
// the reference kernel (not the textbook single-error-term Bresenham).
func Bresenham2D(x1, y1, x2, y2 int) []Point {
	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	size := dx
	if dy > size {
		size = dy
	}
	size++

	path := make([]Point, 0, size)
	path = append(path, Point{x1, y1})

	xs := -1
	if x2 > x1 {
		xs = 1
	}
	ys := -1
	if y2 > y1 {
		ys = 1
	}
	dy = -dy
	errTerm := dx + dy

	for x1 != x2 || y1 != y2 {
		e := 2 * errTerm
		if e >= dy {
			if x1 != x2 {
				errTerm += dy
				x1 += xs
			}
		}
		if e <= dx {
			if y1 != y2 {
				errTerm += dx
				y1 += ys
			}
		}
		path = append(path, Point{x1, y1})
	}
	return path
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// PairwiseInteractionEnergy2D computes the binding-affinity interaction
// energy between two agents at the given positions. Positions at Manhattan
// distance 0 (identical cell) carry +Inf energy, distance-1 neighbors
// carry -sqrt(a1*a2), and every other pair (including Moore-adjacent
// diagonals, which sit at Manhattan distance 2) carries zero.
func PairwiseInteractionEnergy2D(posOne Point, bindingOne float64, posTwo Point, bindingTwo float64) float64 {
	distance := abs(posOne.X-posTwo.X) + abs(posOne.Y-posTwo.Y)
	switch distance {
	case 0:
		return math.Inf(1)
	case 1:
		return -math.Sqrt(bindingOne * bindingTwo)
	default:
		return 0
	}
}

// OccupancyGrid maps lattice positions to an occupant index, or -1 for an
// empty cell. It backs both the displacement trial and the division
// distance transform.
type OccupancyGrid struct {
	width, height int
	cells         []int
}

// NewOccupancyGrid constructs an empty (all -1) grid of the given size.
func NewOccupancyGrid(width, height int) *OccupancyGrid {
	cells := make([]int, width*height)
	for i := range cells {
		cells[i] = -1
	}
	return &OccupancyGrid{width: width, height: height, cells: cells}
}

func (g *OccupancyGrid) index(p Point) int {
	return p.Y*g.width + p.X
}

// InBounds reports whether p lies within the grid.
func (g *OccupancyGrid) InBounds(p Point) bool {
	return p.X >= 0 && p.X < g.width && p.Y >= 0 && p.Y < g.height
}

// Get returns the occupant index at p, or -1 if empty. p must be in bounds.
func (g *OccupancyGrid) Get(p Point) int {
	return g.cells[g.index(p)]
}

// Set assigns the occupant index at p (use -1 to clear).
func (g *OccupancyGrid) Set(p Point, idx int) {
	g.cells[g.index(p)] = idx
}

// Width returns the grid's x extent.
func (g *OccupancyGrid) Width() int { return g.width }

// Height returns the grid's y extent.
func (g *OccupancyGrid) Height() int { return g.height }

// TotalInteractionEnergy sums the pairwise interaction energy between the
// agent at idx (with position pos and binding affinity binding) and every
// occupied Moore neighbor on grid, reading neighbor binding affinities from
// bindingAffs indexed by occupant index.
func TotalInteractionEnergy(pos Point, binding float64, grid *OccupancyGrid, bindingAffs []float64) float64 {
	energy := 0.0
	for _, off := range mooreOffsets {
		neighbor := Point{pos.X + off.X, pos.Y + off.Y}
		if !grid.InBounds(neighbor) {
			continue
		}
		nidx := grid.Get(neighbor)
		if nidx == -1 {
			continue
		}
		energy += PairwiseInteractionEnergy2D(pos, binding, neighbor, bindingAffs[nidx])
	}
	return energy
}

// DisplacementTrial attempts a single Metropolis move of the agent at idx:
// a uniformly random von Neumann neighbor is proposed, rejected outright if
// out of bounds or occupied, otherwise tentatively taken and accepted with
// probability min(1, exp(-(targetEnergy-currentEnergy))), reverting the
// tentative move on rejection. positions is mutated in place on acceptance;
// it reports whether the move was accepted.
func DisplacementTrial(idx int, positions []Point, bindingAffs []float64, grid *OccupancyGrid, stream *rng.Stream) bool {
	currentPos := positions[idx]
	currentEnergy := TotalInteractionEnergy(currentPos, bindingAffs[idx], grid, bindingAffs)

	off := vonNeumannOffsets[stream.Intn(len(vonNeumannOffsets))]
	target := Point{currentPos.X + off.X, currentPos.Y + off.Y}

	if !grid.InBounds(target) {
		return false
	}
	if grid.Get(target) != -1 {
		return false
	}

	displace(positions, idx, target, grid)
	targetEnergy := TotalInteractionEnergy(target, bindingAffs[idx], grid, bindingAffs)

	if stream.Float64() < math.Exp(-(targetEnergy - currentEnergy)) {
		return true
	}
	displace(positions, idx, currentPos, grid)
	return false
}

func displace(positions []Point, idx int, newPos Point, grid *OccupancyGrid) {
	oldPos := positions[idx]
	grid.Set(oldPos, -1)
	grid.Set(newPos, idx)
	positions[idx] = newPos
}

// DistanceTransform computes, for every cell of an (width x height) grid, the
// Euclidean distance from source to that cell, with occupied cells (per
// occupied) forced to +Inf. It returns the minimum finite distance found and
// every cell attaining it; if no empty cell exists, min is +Inf and cells is
// empty. This is a direct (O(n) over the grid) distance transform, not the
// two-pass algorithm scipy uses internally, since cell lattices in this
// engine are small enough that brute force is cheap and exact.
func DistanceTransform(source Point, width, height int, occupied func(Point) bool) (min float64, cells []Point) {
	min = math.Inf(1)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			p := Point{x, y}
			if occupied(p) {
				continue
			}
			dx := float64(p.X - source.X)
			dy := float64(p.Y - source.Y)
			d := math.Sqrt(dx*dx + dy*dy)
			switch {
			case d < min:
				min = d
				cells = cells[:0]
				cells = append(cells, p)
			case d == min:
				cells = append(cells, p)
			}
		}
	}
	return min, cells
}
