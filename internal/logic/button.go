package logic

import "time"

// Press is a classified button event.
type Press int

const (
	PressNone Press = iota
	// PressShort is a release before the long-press threshold.
	PressShort
	// PressLongHeld fires once when a held button crosses the long-press threshold.
	PressLongHeld
	// PressLong is the release that follows PressLongHeld.
	PressLong
)

func (p Press) String() string {
	switch p {
	case PressShort:
		return "SHORT"
	case PressLongHeld:
		return "LONG_HELD"
	case PressLong:
		return "LONG"
	default:
		return "NONE"
	}
}

// Button classifies raw button levels into short and long presses.
// After a press edge the level is ignored for the debounce delay; a press
// still held debounce+longPress after the edge is long.
type Button struct {
	debounce  time.Duration
	longPress time.Duration

	down  bool
	since time.Time
	long  bool
}

// NewButton creates a Button classifier.
func NewButton(debounce, longPress time.Duration) *Button {
	return &Button{debounce: debounce, longPress: longPress}
}

// Update takes the raw level for this tick and returns the classified event.
func (b *Button) Update(pressed bool, now time.Time) Press {
	if !b.down {
		if pressed {
			b.down = true
			b.since = now
			b.long = false
		}
		return PressNone
	}

	if !Elapsed(now, b.since, b.debounce) {
		return PressNone
	}

	if pressed {
		if !b.long && Elapsed(now, b.since, b.debounce+b.longPress) {
			b.long = true
			return PressLongHeld
		}
		return PressNone
	}

	b.down = false
	if b.long {
		return PressLong
	}
	return PressShort
}

// Held reports whether a press is in progress.
func (b *Button) Held() bool {
	return b.down
}
