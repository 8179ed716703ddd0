package logic

// Mode is the top-level operating state.
type Mode int

const (
	ModeOff Mode = iota
	ModePreheat
	ModeReflow
	ModeCooling
	ModeConfig
)

func (m Mode) String() string {
	switch m {
	case ModeOff:
		return "OFF"
	case ModePreheat:
		return "PREHEAT"
	case ModeReflow:
		return "REFLOW"
	case ModeCooling:
		return "COOLING"
	case ModeConfig:
		return "CONFIG"
	default:
		return "UNKNOWN"
	}
}

// Next returns the mode a short press advances to.
// The cycle is OFF -> PREHEAT -> REFLOW -> COOLING -> OFF.
func (m Mode) Next() Mode {
	switch m {
	case ModeOff:
		return ModePreheat
	case ModePreheat:
		return ModeReflow
	case ModeReflow:
		return ModeCooling
	default:
		return ModeOff
	}
}

// Heating reports whether the mode drives the plate towards a setpoint.
func (m Mode) Heating() bool {
	return m == ModePreheat || m == ModeReflow
}
