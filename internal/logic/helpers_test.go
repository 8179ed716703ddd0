package logic

import (
	"math"
	"testing"
	"time"
)

// testEncoder is a bounded position counter standing in for the hardware encoder.
type testEncoder struct {
	pos, lo, hi, steps int
	resets             int
}

func newTestEncoder() *testEncoder {
	return &testEncoder{lo: math.MinInt, hi: math.MaxInt, steps: 1}
}

func (e *testEncoder) Position() int          { return e.pos }
func (e *testEncoder) SetLowerBound(v int)    { e.lo = v }
func (e *testEncoder) SetUpperBound(v int)    { e.hi = v }
func (e *testEncoder) SetStepsPerClick(n int) { e.steps = n }
func (e *testEncoder) ResetPosition(v int) {
	e.resets++
	e.pos = clamp(v, e.lo, e.hi)
}

// turn moves the encoder by n detents, respecting the bounds.
func (e *testEncoder) turn(n int) {
	e.pos = clamp(e.pos+n, e.lo, e.hi)
}

const tick = 10 * time.Millisecond

// harness drives a Controller with 10ms ticks and a scripted temperature.
type harness struct {
	t      *testing.T
	c      *Controller
	enc    *testEncoder
	now    time.Time
	temp   float64
	out    Output
	events []Event
}

func newHarness(t *testing.T, cfg Config) *harness {
	t.Helper()
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	enc := newTestEncoder()
	return &harness{
		t:    t,
		c:    NewController(DefaultSettings(), cfg, enc, start),
		enc:  enc,
		now:  start,
		temp: 20,
	}
}

func (h *harness) step(pressed bool) Output {
	h.now = h.now.Add(tick)
	h.out = h.c.Step(Input{Time: h.now, Pressed: pressed, Sampled: true, Temperature: h.temp})
	h.events = append(h.events, h.out.Events...)
	return h.out
}

func (h *harness) advance(d time.Duration) {
	for end := h.now.Add(d); h.now.Before(end); {
		h.step(false)
	}
}

func (h *harness) shortPress() {
	for i := 0; i < 15; i++ {
		h.step(true)
	}
	h.step(false)
}

func (h *harness) longPress() {
	for i := 0; i < 200; i++ {
		h.step(true)
	}
	h.step(false)
}

// menuPress presses the button and waits for the menu tick that consumes
// the press and the one after it that enters the new sub-state.
func (h *harness) menuPress() {
	h.shortPress()
	h.advance(2 * DefaultTiming().MenuInterval)
}

func (h *harness) takeEvents() []Event {
	ev := h.events
	h.events = nil
	return ev
}

func (h *harness) wantMode(want Mode) {
	h.t.Helper()
	if got := h.c.Mode(); got != want {
		h.t.Fatalf("mode: got %s, want %s", got, want)
	}
}
