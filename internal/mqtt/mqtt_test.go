package mqtt

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sweeney/reflow-hotplate/internal/logic"
)

func TestFormatPayload(t *testing.T) {
	event := logic.Event{
		Timestamp:   time.Date(2026, 2, 2, 22, 18, 12, 0, time.UTC),
		Type:        logic.EventModeChanged,
		From:        logic.ModeReflow,
		To:          logic.ModeCooling,
		Reason:      logic.ReasonSetpointReached,
		Setpoint:    0,
		Temperature: 200.04,
	}

	payload, err := FormatPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `{"hotplate":{"timestamp":"2026-02-02T22:18:12Z","event":"MODE_CHANGED","from":"REFLOW","to":"COOLING","reason":"SETPOINT_REACHED","setpoint":0,"temperature":200}}`
	if string(payload) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", string(payload), expected)
	}
}

func TestFormatPayloadEvents(t *testing.T) {
	tests := []struct {
		name       string
		event      logic.Event
		wantEvent  string
		wantFrom   string
		wantTo     string
		wantReason string
	}{
		{
			name:       "button",
			event:      logic.Event{Type: logic.EventModeChanged, From: logic.ModeOff, To: logic.ModePreheat, Reason: logic.ReasonButton, Setpoint: 100},
			wantEvent:  "MODE_CHANGED",
			wantFrom:   "OFF",
			wantTo:     "PREHEAT",
			wantReason: "BUTTON",
		},
		{
			name:       "long press",
			event:      logic.Event{Type: logic.EventModeChanged, From: logic.ModeOff, To: logic.ModeConfig, Reason: logic.ReasonLongPress},
			wantEvent:  "MODE_CHANGED",
			wantFrom:   "OFF",
			wantTo:     "CONFIG",
			wantReason: "LONG_PRESS",
		},
		{
			name:      "setpoint adjusted",
			event:     logic.Event{Type: logic.EventSetpointAdjusted, From: logic.ModeReflow, To: logic.ModeReflow, Setpoint: 235},
			wantEvent: "SETPOINT_ADJUSTED",
			wantFrom:  "REFLOW",
			wantTo:    "REFLOW",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.event.Timestamp = time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)
			payload, err := FormatPayload(tt.event)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			var parsed Payload
			if err := json.Unmarshal(payload, &parsed); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}

			if parsed.Hotplate.Event != tt.wantEvent {
				t.Errorf("event: got %q, want %q", parsed.Hotplate.Event, tt.wantEvent)
			}
			if parsed.Hotplate.From != tt.wantFrom {
				t.Errorf("from: got %q, want %q", parsed.Hotplate.From, tt.wantFrom)
			}
			if parsed.Hotplate.To != tt.wantTo {
				t.Errorf("to: got %q, want %q", parsed.Hotplate.To, tt.wantTo)
			}
			if parsed.Hotplate.Reason != tt.wantReason {
				t.Errorf("reason: got %q, want %q", parsed.Hotplate.Reason, tt.wantReason)
			}
			if parsed.Hotplate.Setpoint != tt.event.Setpoint {
				t.Errorf("setpoint: got %d, want %d", parsed.Hotplate.Setpoint, tt.event.Setpoint)
			}
		})
	}
}

func TestFormatPayloadTimezoneConversion(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	event := logic.Event{
		Timestamp: time.Date(2026, 2, 2, 23, 0, 0, 0, loc),
		Type:      logic.EventModeChanged,
	}

	payload, _ := FormatPayload(event)

	var parsed Payload
	json.Unmarshal(payload, &parsed)
	if parsed.Hotplate.Timestamp != "2026-02-02T22:00:00Z" {
		t.Errorf("timestamp: got %s, want UTC", parsed.Hotplate.Timestamp)
	}
}

func TestTopics(t *testing.T) {
	if Topic != "hotplate/controller/events" {
		t.Errorf("unexpected topic: %s", Topic)
	}
	if TopicSystem != "hotplate/controller/system" {
		t.Errorf("unexpected system topic: %s", TopicSystem)
	}
}

func TestFormatSystemPayload(t *testing.T) {
	tests := []struct {
		event SystemEvent
		want  string
	}{
		{
			SystemEvent{Timestamp: time.Date(2026, 2, 10, 8, 30, 0, 0, time.UTC), Event: "SHUTDOWN", Reason: "MQTT_DISCONNECT"},
			`{"system":{"timestamp":"2026-02-10T08:30:00Z","event":"SHUTDOWN","reason":"MQTT_DISCONNECT"}}`,
		},
		{
			SystemEvent{Timestamp: time.Date(2026, 2, 10, 14, 30, 0, 0, time.UTC), Event: "RECONNECTED"},
			`{"system":{"timestamp":"2026-02-10T14:30:00Z","event":"RECONNECTED"}}`,
		},
		{
			SystemEvent{Timestamp: time.Now(), Event: "HEARTBEAT", RawPayload: []byte(`{"status":{"mode":"OFF"}}`)},
			`{"status":{"mode":"OFF"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.event.Event, func(t *testing.T) {
			payload, err := FormatSystemPayload(tt.event)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(payload) != tt.want {
				t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", string(payload), tt.want)
			}
		})
	}
}

func TestFakePublisher(t *testing.T) {
	f := NewFakePublisher()

	event := logic.Event{Type: logic.EventModeChanged, From: logic.ModeOff, To: logic.ModePreheat}
	if err := f.Publish(event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.PublishSystem(SystemEvent{Event: "STARTUP", Retained: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.Events) != 1 || f.Events[0].To != logic.ModePreheat {
		t.Errorf("Events: got %+v", f.Events)
	}
	if len(f.Payloads) != 1 {
		t.Errorf("Payloads: got %d, want 1", len(f.Payloads))
	}
	if len(f.SystemEvents) != 1 || !f.SystemEvents[0].Retained {
		t.Errorf("SystemEvents: got %+v", f.SystemEvents)
	}
	want := []string{Topic, TopicSystem}
	if len(f.Topics) != 2 || f.Topics[0] != want[0] || f.Topics[1] != want[1] {
		t.Errorf("Topics: got %v, want %v", f.Topics, want)
	}
}

func TestFakePublisherErrors(t *testing.T) {
	f := NewFakePublisher()
	f.PublishError = errors.New("broker down")
	f.PublishSystemError = errors.New("broker down")

	if err := f.Publish(logic.Event{}); err == nil {
		t.Error("expected Publish error")
	}
	if err := f.PublishSystem(SystemEvent{}); err == nil {
		t.Error("expected PublishSystem error")
	}
	if len(f.Events) != 0 || len(f.SystemEvents) != 0 {
		t.Error("failed publishes should not be recorded")
	}
}

func TestFakePublisherReset(t *testing.T) {
	f := NewFakePublisher()
	f.Publish(logic.Event{})
	f.PublishSystem(SystemEvent{Event: "HEARTBEAT"})
	f.Close()
	f.Connected = true

	f.Reset()

	if f.Events != nil || f.SystemEvents != nil || f.Topics != nil {
		t.Error("Reset should clear recorded events")
	}
	if f.Closed || f.Connected {
		t.Error("Reset should clear flags")
	}

	f.Publish(logic.Event{})
	if len(f.Events) != 1 {
		t.Errorf("publisher should be reusable after reset, got %d events", len(f.Events))
	}
}

func TestFakePublisherImplementsInterfaces(t *testing.T) {
	var _ Publisher = NewFakePublisher()
	var _ ConnectionStatus = NewFakePublisher()
	var _ Publisher = (*RealPublisher)(nil)
	var _ ConnectionStatus = (*RealPublisher)(nil)
}

func TestDiscard(t *testing.T) {
	var d Discard
	var _ Publisher = d
	var _ ConnectionStatus = d

	if err := d.Publish(logic.Event{Type: logic.EventModeChanged}); err != nil {
		t.Errorf("Publish: %v", err)
	}
	if err := d.PublishSystem(SystemEvent{Event: "STARTUP"}); err != nil {
		t.Errorf("PublishSystem: %v", err)
	}
	if d.IsConnected() {
		t.Error("Discard should never report connected")
	}
}
