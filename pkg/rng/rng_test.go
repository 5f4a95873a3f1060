package rng

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStream_DeterministicForFixedSeed(t *testing.T) {
	a := New(42)
	b := New(42)

	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
	}
}

func TestStream_GammaPositiveAndFinite(t *testing.T) {
	s := New(7)
	for i := 0; i < 100; i++ {
		v := s.Gamma(4, 2.5)
		assert.Greater(t, v, 0.0)
	}
}

func TestStream_PermutationCoversAllIndices(t *testing.T) {
	s := New(1)
	perm := s.Permutation(5)
	seen := make(map[int]bool)
	for _, v := range perm {
		seen[v] = true
	}
	assert.Len(t, seen, 5)
}
