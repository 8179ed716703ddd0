// Package logic contains the control logic for the reflow hotplate: the mode
// state machine, the configuration menu, the bang-bang regulator and the
// button classifier.
// This package has NO external dependencies (no GPIO, MQTT, OS, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import "time"

// Temperature limits in degrees Celsius.
const (
	PreheatMin = 100
	PreheatMax = 200
	ReflowMax  = 270
)

// Encoder step sizes. The encoder produces ClicksPerStep quadrature counts per
// detent; menus navigate at CoarseSteps and values edit at FineSteps.
const (
	ClicksPerStep = 4
	FineSteps     = 1 * ClicksPerStep
	CoarseSteps   = 2 * ClicksPerStep
)

// Config is the persisted operator configuration.
// Invariant: PreheatMin <= PreheatTarget <= ReflowTarget <= ReflowMax.
type Config struct {
	PreheatTarget int
	ReflowTarget  int
}

// DefaultConfig returns the configuration used at first boot.
func DefaultConfig() Config {
	return Config{
		PreheatTarget: PreheatMin,
		ReflowTarget:  PreheatMax,
	}
}

// Timing holds the fixed windows used by the control loop.
type Timing struct {
	// SampleInterval is how often the sensor is read outside the menu.
	SampleInterval time.Duration
	// MenuInterval is the menu polling cadence while in CONFIG.
	MenuInterval time.Duration
	// Debounce is the delay after a press edge before release is recognised.
	Debounce time.Duration
	// LongPress is the hold time after Debounce that makes a long press.
	LongPress time.Duration
	// Cooldown is how long COOLING lasts before returning to OFF.
	Cooldown time.Duration
	// AdjustIdle closes the reflow live-adjust window after no encoder change.
	AdjustIdle time.Duration
}

// DefaultTiming returns the stock timing windows.
func DefaultTiming() Timing {
	return Timing{
		SampleInterval: 250 * time.Millisecond,
		MenuInterval:   200 * time.Millisecond,
		Debounce:       100 * time.Millisecond,
		LongPress:      1500 * time.Millisecond,
		Cooldown:       60 * time.Second,
		AdjustIdle:     2 * time.Second,
	}
}

// Settings configures a Controller.
type Settings struct {
	Timing Timing
	// Hysteresis is the regulator dead-zone half-width in degrees Celsius.
	Hysteresis float64
}

// DefaultSettings returns DefaultTiming with no hysteresis.
func DefaultSettings() Settings {
	return Settings{Timing: DefaultTiming()}
}

// Input is a single control tick.
type Input struct {
	Time    time.Time
	Pressed bool // raw button level
	// Sampled is set when the sensor was read on this tick.
	Sampled     bool
	Temperature float64
	// SensorFault marks a failed read; Temperature is ignored.
	SensorFault bool
}

// Output is the result of a control tick.
type Output struct {
	Heater    bool
	Mode      Mode
	Setpoint  int
	Countdown int
	View      View
	// Save is set when the operator confirmed a save in the menu.
	Save   *Config
	Events []Event
}

// EventType identifies a controller event.
type EventType string

const (
	EventModeChanged      EventType = "MODE_CHANGED"
	EventSetpointAdjusted EventType = "SETPOINT_ADJUSTED"
)

// Reason explains a mode change.
type Reason string

const (
	ReasonButton          Reason = "BUTTON"
	ReasonLongPress       Reason = "LONG_PRESS"
	ReasonSetpointReached Reason = "SETPOINT_REACHED"
	ReasonCooldownElapsed Reason = "COOLDOWN_ELAPSED"
	ReasonMenuExit        Reason = "MENU_EXIT"
)

// Event is emitted on mode changes and committed setpoint adjustments.
type Event struct {
	Timestamp   time.Time
	Type        EventType
	From        Mode
	To          Mode
	Reason      Reason
	Setpoint    int
	Temperature float64
}

// Counts tracks controller activity since startup.
type Counts struct {
	Transitions  int
	ReflowCycles int
	Saves        int
}

// HeartbeatData contains information for a heartbeat event.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	Counts    Counts
}
