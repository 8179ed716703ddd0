package logic

// Regulator is a bang-bang heater controller with an optional dead zone.
//
// The heater is switched off once the temperature reaches setpoint+H and on
// once it falls to setpoint-H; between the two the previous output is held.
// With H == 0 it is a plain comparator. A setpoint of 0 or less always means off.
type Regulator struct {
	hysteresis float64
	on         bool
}

// NewRegulator creates a Regulator with dead-zone half-width h.
func NewRegulator(h float64) *Regulator {
	if h < 0 {
		h = 0
	}
	return &Regulator{hysteresis: h}
}

// Update returns the heater output for the measured temperature.
func (r *Regulator) Update(measured float64, setpoint int) bool {
	if setpoint <= 0 {
		r.on = false
		return false
	}

	sp := float64(setpoint)
	switch {
	case measured >= sp+r.hysteresis:
		r.on = false
	case measured <= sp-r.hysteresis:
		r.on = true
	}
	return r.on
}

// Reset forces the held output off.
func (r *Regulator) Reset() {
	r.on = false
}

// On returns the last output.
func (r *Regulator) On() bool {
	return r.on
}
