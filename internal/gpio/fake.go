package gpio

import "errors"

// FakeButton is a test double that returns scripted button levels.
type FakeButton struct {
	// Levels contains scripted levels to return.
	// Each call to Pressed() consumes the next level.
	Levels []bool

	// index tracks current position in Levels
	index int

	// ReadError, if set, will be returned by Pressed()
	ReadError error
}

// NewFakeButton creates a FakeButton with the given levels.
func NewFakeButton(levels ...bool) *FakeButton {
	return &FakeButton{Levels: levels}
}

// Pressed returns the next scripted level.
// If levels are exhausted, returns the last level repeatedly.
func (f *FakeButton) Pressed() (bool, error) {
	if f.ReadError != nil {
		return false, f.ReadError
	}

	if len(f.Levels) == 0 {
		return false, errors.New("no levels configured")
	}

	level := f.Levels[f.index]
	if f.index < len(f.Levels)-1 {
		f.index++
	}

	return level, nil
}

// Hold appends n pressed levels followed by one released level.
func (f *FakeButton) Hold(n int) {
	for i := 0; i < n; i++ {
		f.Levels = append(f.Levels, true)
	}
	f.Levels = append(f.Levels, false)
}

// FakeHeater records heater output changes.
type FakeHeater struct {
	// On is the current output.
	On bool

	// Changes lists every output that differed from the previous one.
	Changes []bool

	// Writes counts Set calls, including repeats and failures.
	Writes int

	// SetError, if set, will be returned by Set.
	SetError error
}

// NewFakeHeater creates a FakeHeater that starts off.
func NewFakeHeater() *FakeHeater {
	return &FakeHeater{}
}

// Set records the output.
func (f *FakeHeater) Set(on bool) error {
	f.Writes++
	if f.SetError != nil {
		return f.SetError
	}
	if on != f.On {
		f.Changes = append(f.Changes, on)
	}
	f.On = on
	return nil
}

// FakeEncoder is an encoder turned by tests in whole detents.
type FakeEncoder struct {
	*Counter

	// Polls counts Poll calls.
	Polls int

	// PollError, if set, will be returned by Poll.
	PollError error
}

// NewFakeEncoder creates a FakeEncoder at position 0.
func NewFakeEncoder() *FakeEncoder {
	return &FakeEncoder{Counter: NewCounter()}
}

// Turn moves the encoder by n detents at the current step size.
func (f *FakeEncoder) Turn(n int) {
	f.Add(n * f.steps)
}

// Poll counts the call.
func (f *FakeEncoder) Poll() error {
	f.Polls++
	return f.PollError
}

// FakeBoard combines the fakes into a Board.
type FakeBoard struct {
	*FakeButton
	*FakeHeater
	*FakeEncoder

	// Closed tracks if Close was called
	Closed bool
}

// NewFakeBoard creates a FakeBoard with a released button.
func NewFakeBoard() *FakeBoard {
	return &FakeBoard{
		FakeButton:  NewFakeButton(false),
		FakeHeater:  NewFakeHeater(),
		FakeEncoder: NewFakeEncoder(),
	}
}

// Close marks the board as closed and the heater off.
func (f *FakeBoard) Close() error {
	f.FakeHeater.On = false
	f.Closed = true
	return nil
}
