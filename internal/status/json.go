package status

import (
	"encoding/json"
	"math"
	"time"

	"github.com/sweeney/reflow-hotplate/internal/logic"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string       `json:"event,omitempty"`
	Reason        string       `json:"reason,omitempty"`
	Mode          string       `json:"mode"`
	Menu          string       `json:"menu,omitempty"`
	Setpoint      int          `json:"setpoint"`
	Temperature   float64      `json:"temperature"`
	Heater        bool         `json:"heater"`
	Countdown     int          `json:"countdown_seconds"`
	SensorFault   bool         `json:"sensor_fault"`
	Adjusting     bool         `json:"adjusting"`
	Targets       TargetsJSON  `json:"targets"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	MQTT          MQTTStatus   `json:"mqtt"`
	Counts        CountsJSON   `json:"counts"`
	Network       *NetworkJSON `json:"network,omitempty"`
	Config        ConfigJSON   `json:"config"`
}

// TargetsJSON is the working configuration record.
type TargetsJSON struct {
	Preheat int `json:"preheat"`
	Reflow  int `json:"reflow"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of activity counts.
type CountsJSON struct {
	Transitions  int `json:"transitions"`
	ReflowCycles int `json:"reflow_cycles"`
	Saves        int `json:"saves"`
}

// NetworkJSON is the JSON representation of network info.
type NetworkJSON struct {
	Type       string `json:"type"`
	IP         string `json:"ip"`
	Status     string `json:"status"`
	Gateway    string `json:"gateway"`
	WifiStatus string `json:"wifi_status"`
	SSID       string `json:"ssid"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	TickMs      int64   `json:"tick_ms"`
	SampleMs    int64   `json:"sample_ms"`
	CooldownMs  int64   `json:"cooldown_ms"`
	HeartbeatMs int64   `json:"heartbeat_ms"`
	Hysteresis  float64 `json:"hysteresis"`
	Broker      string  `json:"broker"`
	HTTPAddr    string  `json:"http_addr"`
	Simulated   bool    `json:"simulated,omitempty"`
}

func buildInner(snap Snapshot) StatusInner {
	inner := StatusInner{
		Mode:          snap.Mode.String(),
		Setpoint:      snap.Setpoint,
		Temperature:   math.Round(snap.Temperature*10) / 10,
		Heater:        snap.Heater,
		Countdown:     snap.Countdown,
		SensorFault:   snap.SensorFault,
		Adjusting:     snap.Adjusting,
		Targets:       TargetsJSON{Preheat: snap.Targets.PreheatTarget, Reflow: snap.Targets.ReflowTarget},
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Transitions:  snap.Counts.Transitions,
			ReflowCycles: snap.Counts.ReflowCycles,
			Saves:        snap.Counts.Saves,
		},
		Config: ConfigJSON{
			TickMs:      snap.Config.TickMs,
			SampleMs:    snap.Config.SampleMs,
			CooldownMs:  snap.Config.CooldownMs,
			HeartbeatMs: snap.Config.HeartbeatMs,
			Hysteresis:  snap.Config.Hysteresis,
			Broker:      snap.Config.Broker,
			HTTPAddr:    snap.Config.HTTPAddr,
			Simulated:   snap.Config.Simulated,
		},
	}
	if snap.Mode == logic.ModeConfig {
		inner.Menu = snap.MenuState.String()
	}
	return inner
}

func buildNetwork(snap Snapshot, inner *StatusInner) {
	if snap.Network != nil {
		inner.Network = &NetworkJSON{
			Type:       snap.Network.Type,
			IP:         snap.Network.IP,
			Status:     snap.Network.Status,
			Gateway:    snap.Network.Gateway,
			WifiStatus: snap.Network.WifiStatus,
			SSID:       snap.Network.SSID,
		}
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	inner := buildInner(snap)
	buildNetwork(snap, &inner)

	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	buildNetwork(snap, &inner)

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
