// Package sensor provides the plate temperature reading.
//
// The production source is a thermocouple amplifier behind a small
// microcontroller that streams one Celsius reading per line over a serial
// port. A simulated plate is available for bench runs without hardware.
package sensor

import "errors"

// Sensor returns the latest plate temperature in Celsius.
type Sensor interface {
	Read() (float64, error)
}

var (
	// ErrNoReading is returned before the first valid line arrives.
	ErrNoReading = errors.New("sensor: no reading yet")

	// ErrStale is returned when the newest reading is too old.
	ErrStale = errors.New("sensor: reading is stale")

	// ErrOpenCircuit is reported by the bridge when no thermocouple is attached.
	ErrOpenCircuit = errors.New("sensor: thermocouple open circuit")
)
