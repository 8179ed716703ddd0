// Package config loads the daemon configuration from YAML.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sweeney/reflow-hotplate/internal/gpio"
	"github.com/sweeney/reflow-hotplate/internal/logic"
	"github.com/sweeney/reflow-hotplate/internal/store"
)

// DefaultPath is where the daemon looks for its configuration.
const DefaultPath = "/etc/hotplate/config.yaml"

// Config represents the daemon configuration.
type Config struct {
	GPIO    GPIOConfig    `yaml:"gpio"`
	Sensor  SensorConfig  `yaml:"sensor"`
	Display DisplayConfig `yaml:"display"`
	Control ControlConfig `yaml:"control"`
	Store   StoreConfig   `yaml:"store"`
	MQTT    MQTTConfig    `yaml:"mqtt"`
	HTTP    HTTPConfig    `yaml:"http"`
	Log     LogConfig     `yaml:"log"`
}

// GPIOConfig selects the chip and line offsets.
type GPIOConfig struct {
	Chip     string `yaml:"chip"`
	Button   int    `yaml:"button"`
	Heater   int    `yaml:"heater"`
	EncoderA int    `yaml:"encoder_a"`
	EncoderB int    `yaml:"encoder_b"`
}

// SensorConfig contains the thermocouple bridge settings.
type SensorConfig struct {
	Port       string        `yaml:"port"`
	Baud       int           `yaml:"baud"`
	StaleAfter time.Duration `yaml:"stale_after"`
	Simulate   bool          `yaml:"simulate"` // simulated plate replaces sensor and heater
}

// DisplayConfig selects where frames are written. Empty port means stdout.
type DisplayConfig struct {
	Port string `yaml:"port"`
	Baud int    `yaml:"baud"`
}

// ControlConfig contains control loop timing.
type ControlConfig struct {
	Tick           time.Duration `yaml:"tick"`
	SampleInterval time.Duration `yaml:"sample_interval"`
	MenuInterval   time.Duration `yaml:"menu_interval"`
	Hysteresis     float64       `yaml:"hysteresis"` // half-width in Celsius, 0 = pure comparator
	Cooldown       time.Duration `yaml:"cooldown"`
	Debounce       time.Duration `yaml:"debounce"`
	LongPress      time.Duration `yaml:"long_press"`
	AdjustIdle     time.Duration `yaml:"adjust_idle"`
}

// StoreConfig locates the persisted configuration record.
type StoreConfig struct {
	Path    string `yaml:"path"`
	Size    int    `yaml:"size"`
	Address int    `yaml:"address"`
}

// MQTTConfig contains telemetry settings. Empty broker disables MQTT.
type MQTTConfig struct {
	Broker    string        `yaml:"broker"`
	Heartbeat time.Duration `yaml:"heartbeat"`
}

// HTTPConfig contains the status server address. Empty disables it.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// LogConfig contains the log level.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns a default configuration.
func Default() *Config {
	t := logic.DefaultTiming()
	return &Config{
		GPIO: GPIOConfig{
			Chip:     "gpiochip0",
			Button:   gpio.DefaultPinButton,
			Heater:   gpio.DefaultPinHeater,
			EncoderA: gpio.DefaultPinEncoderA,
			EncoderB: gpio.DefaultPinEncoderB,
		},
		Sensor: SensorConfig{
			Port:       "/dev/ttyACM0",
			Baud:       115200,
			StaleAfter: 2 * time.Second,
		},
		Display: DisplayConfig{
			Baud: 115200,
		},
		Control: ControlConfig{
			Tick:           10 * time.Millisecond,
			SampleInterval: t.SampleInterval,
			MenuInterval:   t.MenuInterval,
			Cooldown:       t.Cooldown,
			Debounce:       t.Debounce,
			LongPress:      t.LongPress,
			AdjustIdle:     t.AdjustIdle,
		},
		Store: StoreConfig{
			Path: "/var/lib/hotplate/eeprom.bin",
			Size: store.DefaultSize,
		},
		MQTT: MQTTConfig{
			Broker:    "tcp://localhost:1883",
			Heartbeat: 15 * time.Minute,
		},
		HTTP: HTTPConfig{
			Addr: ":8080",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	cfg.ensureDefaults()

	return cfg, nil
}

// Marshal returns the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}

// Settings returns the controller settings.
func (c *Config) Settings() logic.Settings {
	return logic.Settings{
		Timing: logic.Timing{
			SampleInterval: c.Control.SampleInterval,
			MenuInterval:   c.Control.MenuInterval,
			Debounce:       c.Control.Debounce,
			LongPress:      c.Control.LongPress,
			Cooldown:       c.Control.Cooldown,
			AdjustIdle:     c.Control.AdjustIdle,
		},
		Hysteresis: c.Control.Hysteresis,
	}
}

// Pins returns the GPIO line offsets.
func (c *Config) Pins() gpio.Pins {
	return gpio.Pins{
		Button:   c.GPIO.Button,
		Heater:   c.GPIO.Heater,
		EncoderA: c.GPIO.EncoderA,
		EncoderB: c.GPIO.EncoderB,
	}
}

// ensureDefaults fills zero-valued fields. Fields whose zero value is
// meaningful (hysteresis, debounce, store address, empty broker/addr) are kept.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.GPIO.Chip == "" {
		c.GPIO.Chip = def.GPIO.Chip
	}

	if c.Sensor.Port == "" {
		c.Sensor.Port = def.Sensor.Port
	}
	if c.Sensor.Baud == 0 {
		c.Sensor.Baud = def.Sensor.Baud
	}
	if c.Sensor.StaleAfter == 0 {
		c.Sensor.StaleAfter = def.Sensor.StaleAfter
	}

	if c.Display.Baud == 0 {
		c.Display.Baud = def.Display.Baud
	}

	if c.Control.Tick == 0 {
		c.Control.Tick = def.Control.Tick
	}
	if c.Control.SampleInterval == 0 {
		c.Control.SampleInterval = def.Control.SampleInterval
	}
	if c.Control.MenuInterval == 0 {
		c.Control.MenuInterval = def.Control.MenuInterval
	}
	if c.Control.Cooldown == 0 {
		c.Control.Cooldown = def.Control.Cooldown
	}
	if c.Control.LongPress == 0 {
		c.Control.LongPress = def.Control.LongPress
	}
	if c.Control.AdjustIdle == 0 {
		c.Control.AdjustIdle = def.Control.AdjustIdle
	}

	if c.Store.Path == "" {
		c.Store.Path = def.Store.Path
	}
	if c.Store.Size == 0 {
		c.Store.Size = def.Store.Size
	}

	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
}
