package sensor

import "errors"

// Fake is a test double that returns scripted temperatures.
type Fake struct {
	// Values contains scripted readings.
	// Each call to Read() consumes the next value.
	Values []float64

	// index tracks current position in Values
	index int

	// ReadError, if set, will be returned by Read()
	ReadError error

	// Reads counts Read calls.
	Reads int
}

// NewFake creates a Fake with the given readings.
func NewFake(values ...float64) *Fake {
	return &Fake{Values: values}
}

// Read returns the next scripted value.
// If values are exhausted, returns the last value repeatedly.
func (f *Fake) Read() (float64, error) {
	f.Reads++
	if f.ReadError != nil {
		return 0, f.ReadError
	}
	if len(f.Values) == 0 {
		return 0, errors.New("no values configured")
	}

	v := f.Values[f.index]
	if f.index < len(f.Values)-1 {
		f.index++
	}
	return v, nil
}
