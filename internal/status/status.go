// Package status provides a thread-safe status tracker for the hotplate daemon.
// It is read by the HTTP handlers and used to build MQTT system payloads.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/reflow-hotplate/internal/logic"
)

// NetworkInfo contains network state. This is a local copy to avoid
// importing internal/mqtt from status.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains daemon configuration for display.
type Config struct {
	TickMs      int64
	SampleMs    int64
	CooldownMs  int64
	HeartbeatMs int64
	Hysteresis  float64
	Broker      string
	HTTPAddr    string
	Simulated   bool
}

// Control is the controller state copied in on every tick.
type Control struct {
	Mode        logic.Mode
	MenuState   logic.MenuState
	Setpoint    int
	Temperature float64
	Heater      bool
	Countdown   int
	SensorFault bool
	Adjusting   bool
	Targets     logic.Config
	Counts      logic.Counts
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	Control
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Network       *NetworkInfo
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update replaces the controller state.
// Called from runLoop on every tick.
func (t *Tracker) Update(c Control) {
	t.mu.Lock()
	t.snap.Control = c
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetNetwork sets the network info.
func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
