package display

import "fmt"

// Recorder is a Display that records every command.
type Recorder struct {
	// Ops holds commands since the last Clear, e.g. "cursor 0,0".
	Ops []string

	// Prints holds texts printed since the last Clear.
	Prints []string

	// Frames counts Flush calls.
	Frames int

	// FlushError, if set, will be returned by Flush.
	FlushError error
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Clear starts a new frame.
func (r *Recorder) Clear() {
	r.Ops = []string{"clear"}
	r.Prints = nil
}

// SetCursor records the cursor move.
func (r *Recorder) SetCursor(x, y int) {
	r.Ops = append(r.Ops, fmt.Sprintf("cursor %d,%d", x, y))
}

// SetTextScale records the scale.
func (r *Recorder) SetTextScale(scale int) {
	r.Ops = append(r.Ops, fmt.Sprintf("scale %d", scale))
}

// Print records the text.
func (r *Recorder) Print(text string) {
	r.Ops = append(r.Ops, "print "+text)
	r.Prints = append(r.Prints, text)
}

// Flush counts the frame.
func (r *Recorder) Flush() error {
	if r.FlushError != nil {
		return r.FlushError
	}
	r.Frames++
	return nil
}
