package config

import (
	"fmt"

	"github.com/sweeney/reflow-hotplate/internal/logger"
	"github.com/sweeney/reflow-hotplate/internal/store"
)

// Validate checks configuration correctness.
// It does not mutate the configuration.
func Validate(cfg *Config) error {
	c := cfg.Control
	if c.Tick <= 0 {
		return fmt.Errorf("control.tick must be positive, got %v", c.Tick)
	}
	if c.SampleInterval < c.Tick {
		return fmt.Errorf("control.sample_interval %v is shorter than control.tick %v", c.SampleInterval, c.Tick)
	}
	if c.MenuInterval < c.Tick {
		return fmt.Errorf("control.menu_interval %v is shorter than control.tick %v", c.MenuInterval, c.Tick)
	}
	if c.Hysteresis < 0 {
		return fmt.Errorf("control.hysteresis must not be negative, got %v", c.Hysteresis)
	}
	if c.Debounce < 0 {
		return fmt.Errorf("control.debounce must not be negative, got %v", c.Debounce)
	}
	if c.LongPress <= 0 || c.Cooldown <= 0 || c.AdjustIdle <= 0 {
		return fmt.Errorf("control.long_press, control.cooldown and control.adjust_idle must be positive")
	}

	pins := map[int]string{}
	for _, p := range []struct {
		name string
		pin  int
	}{
		{"button", cfg.GPIO.Button},
		{"heater", cfg.GPIO.Heater},
		{"encoder_a", cfg.GPIO.EncoderA},
		{"encoder_b", cfg.GPIO.EncoderB},
	} {
		if p.pin < 0 {
			return fmt.Errorf("gpio.%s: invalid pin %d", p.name, p.pin)
		}
		if prev, ok := pins[p.pin]; ok {
			return fmt.Errorf("gpio: pin %d used by both %s and %s", p.pin, prev, p.name)
		}
		pins[p.pin] = p.name
	}

	if cfg.Sensor.Baud <= 0 || cfg.Display.Baud <= 0 {
		return fmt.Errorf("sensor.baud and display.baud must be positive")
	}
	if !cfg.Sensor.Simulate && cfg.Sensor.Port == "" {
		return fmt.Errorf("sensor.port is required unless sensor.simulate is set")
	}

	if cfg.Store.Address < 0 || cfg.Store.Address+store.RecordSize > cfg.Store.Size {
		return fmt.Errorf("store: record at %d does not fit in %d bytes", cfg.Store.Address, cfg.Store.Size)
	}

	if cfg.MQTT.Heartbeat < 0 {
		return fmt.Errorf("mqtt.heartbeat must not be negative, got %v", cfg.MQTT.Heartbeat)
	}

	if !logger.Valid(cfg.Log.Level) {
		return fmt.Errorf("log.level: unknown level %q", cfg.Log.Level)
	}

	return nil
}
