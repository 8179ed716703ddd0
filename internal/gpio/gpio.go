// Package gpio provides the hotplate's button, heater output and rotary
// encoder with hardware abstraction.
// The real implementation uses Linux GPIO character device.
// The fake implementations allow testing without hardware.
package gpio

import "github.com/sweeney/reflow-hotplate/internal/logic"

// Button reads the push button level.
type Button interface {
	// Pressed returns true while the button is held.
	Pressed() (bool, error)
}

// Heater drives the solid state relay of the heating element.
type Heater interface {
	Set(on bool) error
}

// Encoder is a bounded rotary encoder that must be polled every tick.
type Encoder interface {
	logic.Encoder
	Poll() error
}

// Board bundles the hotplate I/O.
type Board interface {
	Button
	Heater
	Encoder
	Close() error
}

// Pins holds line offsets on the GPIO chip.
type Pins struct {
	Button   int
	Heater   int
	EncoderA int
	EncoderB int
}

// Default pin definitions (BCM numbering)
const (
	DefaultPinButton   = 17
	DefaultPinHeater   = 27
	DefaultPinEncoderA = 5
	DefaultPinEncoderB = 6
)

// DefaultPins returns the stock wiring.
func DefaultPins() Pins {
	return Pins{
		Button:   DefaultPinButton,
		Heater:   DefaultPinHeater,
		EncoderA: DefaultPinEncoderA,
		EncoderB: DefaultPinEncoderB,
	}
}
