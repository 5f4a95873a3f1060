// Package units converts (value, unit) time expressions into the engine's
// canonical internal unit: integer milliseconds.
package units

import "fmt"

// Unit is a supported time unit for (value, unit) expressions passed at the
// API boundary (Simulation.Run, Event, UpdateClock, cell-cycle lengths, ...).
type Unit string

const (
	Millisecond Unit = "ms"
	Second      Unit = "sec"
	Minute      Unit = "min"
	Hour        Unit = "hour"
	Day         Unit = "day"
	Week        Unit = "week"
)

var millisPerUnit = map[Unit]float64{
	Millisecond: 1,
	Second:      1000,
	Minute:      60 * 1000,
	Hour:        60 * 60 * 1000,
	Day:         24 * 60 * 60 * 1000,
	Week:        7 * 24 * 60 * 60 * 1000,
}

// UnitError reports an unrecognized time unit string.
type UnitError struct {
	Unit string
}

func (e *UnitError) Error() string {
	return fmt.Sprintf("units: invalid time unit %q, supported units are ms, sec, min, hour, day, week", e.Unit)
}

// Convert maps value expressed in fromUnit into toUnit.
func Convert(value float64, fromUnit, toUnit Unit) (float64, error) {
	fromScale, ok := millisPerUnit[fromUnit]
	if !ok {
		return 0, &UnitError{Unit: string(fromUnit)}
	}
	toScale, ok := millisPerUnit[toUnit]
	if !ok {
		return 0, &UnitError{Unit: string(toUnit)}
	}
	return value * fromScale / toScale, nil
}

// Millis converts a (value, unit) expression directly into integer
// milliseconds, rounding to the nearest millisecond. This is the canonical
// internal time representation used throughout the engine.
func Millis(value float64, unit Unit) (int64, error) {
	ms, err := Convert(value, unit, Millisecond)
	if err != nil {
		return 0, err
	}
	return int64(ms + 0.5), nil
}

// MustMillis is like Millis but panics on an invalid unit. Intended for use
// with compile-time-known unit constants (e.g. inside model implementations
// converting their own configuration), never with user-supplied strings.
func MustMillis(value float64, unit Unit) int64 {
	ms, err := Millis(value, unit)
	if err != nil {
		panic(err)
	}
	return ms
}
