package logic

// Encoder is the bounded rotary encoder the state machines drive.
type Encoder interface {
	Position() int
	SetLowerBound(v int)
	SetUpperBound(v int)
	SetStepsPerClick(n int)
	ResetPosition(v int)
}

// configureEncoder sets the encoder step size and range and moves it to pos.
func configureEncoder(enc Encoder, steps, lower, upper, pos int) {
	enc.SetStepsPerClick(steps)
	enc.SetUpperBound(upper)
	enc.SetLowerBound(lower)
	enc.ResetPosition(pos)
}
