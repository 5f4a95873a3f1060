package simulation

import "fmt"

// StateError reports an operation attempted against the Simulation in a
// state that forbids it, e.g. setting a space a second time.
type StateError struct {
	Op     string
	Reason string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("simulation: %s: %s", e.Op, e.Reason)
}

func errAlreadySet(what string) error {
	return &StateError{Op: "add_" + what, Reason: what + " is already set and cannot be modified"}
}

func errNoSpace(op string) error {
	return &StateError{Op: op, Reason: "a simulation space must be configured first"}
}
