package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvent_IsReadyAndExecute(t *testing.T) {
	fired := false
	var seenParams map[string]any

	e := New(1000, func(params map[string]any) {
		fired = true
		seenParams = params
	}, map[string]any{"agent_id": 7})

	assert.False(t, e.IsReady(500))
	assert.True(t, e.IsReady(1000))
	assert.True(t, e.IsReady(1500))

	e.Execute()
	assert.True(t, fired)
	assert.Equal(t, 7, seenParams["agent_id"])
	assert.True(t, e.Executed())
}

func TestEvent_ExecuteIsIdempotent(t *testing.T) {
	calls := 0
	e := New(0, func(map[string]any) { calls++ }, nil)

	e.Execute()
	e.Execute()

	assert.Equal(t, 1, calls)
}

func TestEvent_NotReadyOnceExecuted(t *testing.T) {
	e := New(0, func(map[string]any) {}, nil)
	e.Execute()
	assert.False(t, e.IsReady(100))
}
