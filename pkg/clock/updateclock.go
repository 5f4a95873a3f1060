// Package clock implements cooperative per-subsystem interval timers used to
// gate how often a Space, SubstrateField, or Model runs its update logic
// relative to the simulation's base tick.
package clock

// UpdateClock tracks elapsed time against a fixed interval. Callers check
// Due before doing work, then call Increase to advance the clock regardless of
// whether the work ran. Due, Reset, and Increase never run implicitly from
// inside each other: the caller is responsible for sequencing them in the
// order Due -> (conditionally: work, Reset) -> Increase.
type UpdateClock struct {
	interval int64
	elapsed  int64
}

// New constructs an UpdateClock with the given interval in milliseconds. An
// interval of 0 means "due every tick".
func New(interval int64) *UpdateClock {
	return &UpdateClock{interval: interval}
}

// Interval returns the configured interval in milliseconds.
func (c *UpdateClock) Interval() int64 {
	return c.interval
}

// Elapsed returns the time accumulated since the last reset, in milliseconds.
func (c *UpdateClock) Elapsed() int64 {
	return c.elapsed
}

// Due reports whether elapsed time has reached the interval. Must be
// checked before running gated work for this tick.
func (c *UpdateClock) Due() bool {
	return c.elapsed >= c.interval
}

// Reset zeroes elapsed time. Call only after Due reported true and the
// gated work for this tick has run.
func (c *UpdateClock) Reset() {
	c.elapsed = 0
}

// Increase advances elapsed time by dt milliseconds. Called unconditionally
// once per tick, whether or not the clock was due this tick.
func (c *UpdateClock) Increase(dt int64) {
	c.elapsed += dt
}

// Advance runs the full per-tick sequence: it reports whether the clock was
// due, resets elapsed time if so, and unconditionally increases elapsed
// time by dt. Callers that don't need to interleave other work between the
// due-check and the reset can use this instead of calling Due/Reset/Increase
// by hand.
func (c *UpdateClock) Advance(dt int64) bool {
	due := c.Due()
	if due {
		c.Reset()
	}
	c.Increase(dt)
	return due
}
