package lattice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTDMASolve_IdentitySystem(t *testing.T) {
	// diag-only system (sub/sup all zero) is just d itself.
	sub := []float64{0, 0, 0}
	diag := []float64{2, 2, 2}
	sup := []float64{0, 0, 0}
	d := []float64{4, 6, 8}

	sol := TDMASolve(sub, diag, sup, d)
	assert.InDeltaSlice(t, []float64{2, 3, 4}, sol, 1e-9)
}

func TestTDMASolve_KnownTridiagonalSystem(t *testing.T) {
	// [[2,-1,0],[-1,2,-1],[0,-1,2]] x = [1,0,1] -> x = [1,1,1]
	sub := []float64{0, -1, -1}
	diag := []float64{2, 2, 2}
	sup := []float64{-1, -1, 0}
	d := []float64{1, 0, 1}

	sol := TDMASolve(sub, diag, sup, d)
	assert.InDeltaSlice(t, []float64{1, 1, 1}, sol, 1e-9)
}
