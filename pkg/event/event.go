// Package event implements one-shot, timed callbacks scheduled into a
// Simulation's run loop.
package event

// Handler is invoked when an Event fires. params is passed through verbatim
// from the Event's construction.
type Handler func(params map[string]any)

// Event is a single callback due to run once the simulation clock reaches
// Time (in milliseconds).
type Event struct {
	Time    int64
	Handler Handler
	Params  map[string]any

	executed bool
}

// New constructs an Event due at time (ms), invoking handler with params
// when executed.
func New(time int64, handler Handler, params map[string]any) *Event {
	return &Event{
		Time:    time,
		Handler: handler,
		Params:  params,
	}
}

// IsReady reports whether the event is due at the given simulation time and
// has not already executed.
func (e *Event) IsReady(now int64) bool {
	return !e.executed && now >= e.Time
}

// Executed reports whether Execute has already run for this event.
func (e *Event) Executed() bool {
	return e.executed
}

// Execute runs the event's handler and marks it executed. Calling Execute
// more than once is a no-op after the first call.
func (e *Event) Execute() {
	if e.executed {
		return
	}
	e.Handler(e.Params)
	e.executed = true
}
