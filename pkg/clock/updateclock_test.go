package clock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpdateClock_DueAfterInterval(t *testing.T) {
	c := New(100)
	assert.False(t, c.Due())

	c.Increase(60)
	assert.False(t, c.Due())

	c.Increase(40)
	assert.True(t, c.Due())
}

func TestUpdateClock_ResetZeroesElapsed(t *testing.T) {
	c := New(100)
	c.Increase(150)
	assert.True(t, c.Due())

	c.Reset()
	assert.Equal(t, int64(0), c.Elapsed())
	assert.False(t, c.Due())
}

func TestUpdateClock_IncreaseIsUnconditional(t *testing.T) {
	c := New(50)

	due := c.Advance(10)
	assert.False(t, due)
	assert.Equal(t, int64(10), c.Elapsed())

	due = c.Advance(10)
	assert.False(t, due)
	assert.Equal(t, int64(20), c.Elapsed())

	// Due is checked before dt is added: 20 < 50, so not due yet.
	due = c.Advance(40)
	assert.False(t, due)
	assert.Equal(t, int64(60), c.Elapsed())

	due = c.Advance(40)
	assert.True(t, due)
	// Advance resets elapsed to 0 then unconditionally adds dt again.
	assert.Equal(t, int64(40), c.Elapsed())
}

func TestUpdateClock_ZeroIntervalAlwaysDue(t *testing.T) {
	c := New(0)
	assert.True(t, c.Due())
}
