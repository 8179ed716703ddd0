package logic

import (
	"math"
	"strconv"
	"time"
)

// Controller is the top-level mode state machine. It owns the active
// setpoint, the operator configuration while editing, and every timer the
// control loop needs. All state lives here; Step is the only mutator.
type Controller struct {
	settings  Settings
	enc       Encoder
	button    *Button
	menu      *Menu
	regulator *Regulator

	cfg         Config
	mode        Mode
	setpoint    int
	temperature float64
	sensorFault bool
	heater      bool

	cooldownStart time.Time
	countdown     int

	// reflow live-adjust window
	lastReflow  int
	adjusting   bool
	adjustSince time.Time

	// transient label shown while a long press is held
	label string

	events        []Event
	counts        Counts
	startTime     time.Time
	lastHeartbeat time.Time
}

// NewController creates a Controller in OFF with the loaded configuration.
// The encoder is set up for live reflow adjustment.
func NewController(settings Settings, cfg Config, enc Encoder, startTime time.Time) *Controller {
	c := &Controller{
		settings:      settings,
		enc:           enc,
		button:        NewButton(settings.Timing.Debounce, settings.Timing.LongPress),
		menu:          NewMenu(settings.Timing.MenuInterval),
		regulator:     NewRegulator(settings.Hysteresis),
		cfg:           cfg,
		mode:          ModeOff,
		startTime:     startTime,
		lastHeartbeat: startTime,
	}
	c.armReflowAdjust()
	return c
}

// Step runs one control tick.
func (c *Controller) Step(in Input) Output {
	now := in.Time
	var out Output

	if in.Sampled {
		if in.SensorFault || math.IsNaN(in.Temperature) || math.IsInf(in.Temperature, 0) {
			c.sensorFault = true
		} else {
			c.sensorFault = false
			c.temperature = in.Temperature
		}
	}

	press := c.button.Update(in.Pressed, now)
	switch press {
	case PressLongHeld:
		if c.mode == ModeOff {
			c.label = ModeConfig.String()
		} else {
			c.label = ModeOff.String()
		}
	case PressLong:
		c.label = ""
		if c.mode == ModeOff {
			c.transition(now, ModeConfig, ReasonLongPress)
		} else {
			c.transition(now, ModeOff, ReasonLongPress)
		}
	case PressShort:
		if c.mode != ModeConfig {
			c.transition(now, c.mode.Next(), ReasonButton)
		}
	}

	var menuView View
	if c.mode == ModeConfig {
		res := c.menu.Step(now, press == PressShort, &c.cfg, c.enc)
		menuView = res.View
		if res.Save {
			saved := c.cfg
			out.Save = &saved
			c.counts.Saves++
		}
		if res.Exit {
			c.transition(now, ModeOff, ReasonMenuExit)
		}
	}

	if c.mode == ModeReflow {
		c.stepReflowAdjust(now)
	}

	if c.mode == ModeReflow && !c.adjusting && c.temperature >= float64(c.setpoint) {
		c.counts.ReflowCycles++
		c.transition(now, ModeCooling, ReasonSetpointReached)
	}
	if c.mode == ModeCooling {
		if Elapsed(now, c.cooldownStart, c.settings.Timing.Cooldown) {
			c.transition(now, ModeOff, ReasonCooldownElapsed)
		} else {
			remaining := c.cooldownStart.Add(c.settings.Timing.Cooldown).Sub(now)
			c.countdown = int(remaining / time.Second)
		}
	}
	if !c.mode.Heating() {
		if c.mode != ModeCooling {
			c.countdown = 0
		}
		c.setpoint = 0
	}

	c.heater = c.regulator.Update(c.temperature, c.setpoint)
	if c.sensorFault {
		c.regulator.Reset()
		c.heater = false
	}

	out.Heater = c.heater
	out.Mode = c.mode
	out.Setpoint = c.setpoint
	out.Countdown = c.countdown
	out.View = c.view(menuView)
	out.Events = c.events
	c.events = nil
	return out
}

// transition runs exit and entry actions and records a mode change event.
func (c *Controller) transition(now time.Time, to Mode, reason Reason) {
	from := c.mode

	switch from {
	case ModeConfig:
		if to != ModeConfig {
			c.armReflowAdjust()
		}
	case ModeReflow:
		c.adjusting = false
	}

	c.mode = to
	switch to {
	case ModePreheat:
		c.setpoint = c.cfg.PreheatTarget
	case ModeReflow:
		c.setpoint = c.cfg.ReflowTarget
		c.enc.ResetPosition(c.cfg.ReflowTarget)
		c.lastReflow = c.cfg.ReflowTarget
	case ModeOff, ModeCooling:
		c.setpoint = 0
		c.countdown = 0
		c.cooldownStart = now
	case ModeConfig:
		c.menu.Enter()
	}

	c.counts.Transitions++
	c.events = append(c.events, Event{
		Timestamp:   now,
		Type:        EventModeChanged,
		From:        from,
		To:          to,
		Reason:      reason,
		Setpoint:    c.setpoint,
		Temperature: c.temperature,
	})
}

// armReflowAdjust bounds the encoder to the reflow range at single-unit steps.
func (c *Controller) armReflowAdjust() {
	c.lastReflow = c.cfg.ReflowTarget
	configureEncoder(c.enc, FineSteps, c.cfg.PreheatTarget, ReflowMax, c.cfg.ReflowTarget)
}

// stepReflowAdjust tracks the encoder while in REFLOW. Any movement opens an
// adjustment window; the candidate value becomes the setpoint once the
// encoder has been idle for AdjustIdle.
func (c *Controller) stepReflowAdjust(now time.Time) {
	pos := c.enc.Position()
	if !c.adjusting {
		if pos == c.lastReflow {
			return
		}
		c.adjusting = true
		c.adjustSince = now
	}

	c.cfg.ReflowTarget = pos
	if pos != c.lastReflow {
		c.lastReflow = pos
		c.adjustSince = now
	}

	if Elapsed(now, c.adjustSince, c.settings.Timing.AdjustIdle) {
		c.adjusting = false
		c.setpoint = c.cfg.ReflowTarget
		c.events = append(c.events, Event{
			Timestamp:   now,
			Type:        EventSetpointAdjusted,
			From:        c.mode,
			To:          c.mode,
			Setpoint:    c.setpoint,
			Temperature: c.temperature,
		})
	}
}

func (c *Controller) view(menuView View) View {
	if c.label != "" {
		return splashView("", c.label)
	}
	if c.mode == ModeConfig {
		return menuView
	}
	if c.adjusting {
		return splashView(ModeReflow.String(), strconv.Itoa(c.cfg.ReflowTarget))
	}

	v := View{
		Screen:      ScreenMain,
		Mode:        c.mode,
		Setpoint:    c.setpoint,
		Temperature: int(c.temperature),
		SensorFault: c.sensorFault,
		Countdown:   c.countdown,
	}
	if c.mode.Heating() && c.setpoint > 0 {
		v.ShowPercent = true
		v.Percent = int(c.temperature / float64(c.setpoint) * 100)
	}
	return v
}

// Mode returns the current operating mode.
func (c *Controller) Mode() Mode {
	return c.mode
}

// Setpoint returns the active setpoint (0 means heater forced off).
func (c *Controller) Setpoint() int {
	return c.setpoint
}

// Config returns a copy of the working configuration.
func (c *Controller) Config() Config {
	return c.cfg
}

// Temperature returns the last good sensor reading.
func (c *Controller) Temperature() float64 {
	return c.temperature
}

// SensorFault reports whether the latest sample failed.
func (c *Controller) SensorFault() bool {
	return c.sensorFault
}

// Heater returns the last regulator output.
func (c *Controller) Heater() bool {
	return c.heater
}

// Countdown returns the remaining COOLING seconds.
func (c *Controller) Countdown() int {
	return c.countdown
}

// MenuState returns the CONFIG sub-state.
func (c *Controller) MenuState() MenuState {
	return c.menu.State()
}

// Adjusting reports whether a reflow live-adjust window is open.
func (c *Controller) Adjusting() bool {
	return c.adjusting
}

// CountsSnapshot returns a copy of the activity counters.
func (c *Controller) CountsSnapshot() Counts {
	return c.counts
}

// CheckHeartbeat returns heartbeat data if the interval has elapsed since the
// last heartbeat (or startup). Returns nil if the interval has not elapsed,
// or if interval is <= 0 (disabled).
func (c *Controller) CheckHeartbeat(now time.Time, interval time.Duration) *HeartbeatData {
	if interval <= 0 {
		return nil
	}

	if !Elapsed(now, c.lastHeartbeat, interval) {
		return nil
	}

	c.lastHeartbeat = now
	return &HeartbeatData{
		Timestamp: now,
		Uptime:    max(now.Sub(c.startTime), 0),
		Counts:    c.counts,
	}
}
