// Package rng provides the single seeded pseudo-random stream threaded
// through the engine: event/model/agent iteration order is stable and
// insertion-based, but every random draw (displacement trials, division
// target selection, cell-cycle length sampling, toxicity death draws) pulls
// from one Stream so a run is reproducible given a fixed seed.
package rng

import (
	"math"
	"math/rand"
)

// Stream wraps *rand.Rand with the handful of distributions the engine's
// models and space mechanics need. Callers may construct independent
// Streams per subsystem (the reference semantics only require that, for a
// fixed seed, the sequence of draws within each subsystem is stable across
// runs) but a single shared Stream is the simplest way to get a fully
// reproducible whole-simulation trace.
type Stream struct {
	r *rand.Rand
}

// New constructs a Stream seeded deterministically from seed.
func New(seed int64) *Stream {
	return &Stream{r: rand.New(rand.NewSource(seed))}
}

// Float64 returns a pseudo-random number in [0.0, 1.0).
func (s *Stream) Float64() float64 {
	return s.r.Float64()
}

// Intn returns a pseudo-random number in [0, n).
func (s *Stream) Intn(n int) int {
	return s.r.Intn(n)
}

// Shuffle pseudo-randomly permutes n elements via swap, using the
// Fisher-Yates algorithm (the same one math/rand uses internally).
func (s *Stream) Shuffle(n int, swap func(i, j int)) {
	s.r.Shuffle(n, swap)
}

// Permutation returns a fresh random permutation of [0, n).
func (s *Stream) Permutation(n int) []int {
	return s.r.Perm(n)
}

// NormFloat64 draws from a normal distribution with the given mean and
// standard deviation.
func (s *Stream) NormFloat64(mean, stddev float64) float64 {
	return s.r.NormFloat64()*stddev + mean
}

// Gamma draws from a Gamma(shape, scale) distribution using the
// Marsaglia-Tsang method. shape must be > 0.
func (s *Stream) Gamma(shape, scale float64) float64 {
	if shape < 1 {
		// Boost shape by 1 and correct with a uniform draw, per
		// Marsaglia & Tsang (2000).
		u := s.r.Float64()
		return s.Gamma(shape+1, scale) * math.Pow(u, 1/shape)
	}

	d := shape - 1.0/3.0
	c := 1.0 / math.Sqrt(9*d)
	for {
		var x, v float64
		for {
			x = s.r.NormFloat64()
			v = 1 + c*x
			if v > 0 {
				break
			}
		}
		v = v * v * v
		u := s.r.Float64()
		x2 := x * x
		if u < 1-0.0331*x2*x2 {
			return d * v * scale
		}
		if math.Log(u) < 0.5*x2+d*(1-v+math.Log(v)) {
			return d * v * scale
		}
	}
}
