//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealBoard drives the hotplate I/O through the Linux GPIO character device.
type RealBoard struct {
	*Quadrature

	chip   *gpiocdev.Chip
	button *gpiocdev.Line
	heater *gpiocdev.Line
	encA   *gpiocdev.Line
	encB   *gpiocdev.Line
}

// NewRealBoard opens chipName and requests the lines in pins.
// The heater line is requested as an output driven low.
func NewRealBoard(chipName string, pins Pins) (*RealBoard, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", chipName, err)
	}

	b := &RealBoard{Quadrature: NewQuadrature(), chip: chip}

	// Button pulls the line high when pressed.
	b.button, err = chip.RequestLine(pins.Button, gpiocdev.AsInput, gpiocdev.WithPullDown)
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("request button pin %d: %w", pins.Button, err)
	}

	b.heater, err = chip.RequestLine(pins.Heater, gpiocdev.AsOutput(0))
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("request heater pin %d: %w", pins.Heater, err)
	}

	// Encoder contacts switch to ground.
	b.encA, err = chip.RequestLine(pins.EncoderA, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("request encoder A pin %d: %w", pins.EncoderA, err)
	}
	b.encB, err = chip.RequestLine(pins.EncoderB, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("request encoder B pin %d: %w", pins.EncoderB, err)
	}

	return b, nil
}

// Pressed returns the button level.
func (b *RealBoard) Pressed() (bool, error) {
	v, err := b.button.Value()
	if err != nil {
		return false, fmt.Errorf("read button pin: %w", err)
	}
	return v == 1, nil
}

// Set drives the heater relay.
func (b *RealBoard) Set(on bool) error {
	v := 0
	if on {
		v = 1
	}
	if err := b.heater.SetValue(v); err != nil {
		return fmt.Errorf("write heater pin: %w", err)
	}
	return nil
}

// Poll samples both encoder channels and feeds the decoder.
func (b *RealBoard) Poll() error {
	a, err := b.encA.Value()
	if err != nil {
		return fmt.Errorf("read encoder A pin: %w", err)
	}
	bv, err := b.encB.Value()
	if err != nil {
		return fmt.Errorf("read encoder B pin: %w", err)
	}
	b.Update(a == 1, bv == 1)
	return nil
}

// Close drives the heater low and releases GPIO resources.
// Lines are reconfigured to input with pull-down (matching Pi boot defaults)
// before closing.
func (b *RealBoard) Close() error {
	var errs []error

	if b.heater != nil {
		if err := b.heater.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("heater off: %w", err))
		}
	}

	lines := []struct {
		name string
		line *gpiocdev.Line
	}{
		{"button", b.button},
		{"heater", b.heater},
		{"encoder A", b.encA},
		{"encoder B", b.encB},
	}
	for _, l := range lines {
		if l.line == nil {
			continue
		}
		if err := l.line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure %s pin: %w", l.name, err))
		}
		if err := l.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s pin: %w", l.name, err))
		}
	}
	if b.chip != nil {
		if err := b.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
