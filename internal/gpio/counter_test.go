package gpio

import "testing"

func TestCounterSteps(t *testing.T) {
	c := NewCounter()
	c.SetStepsPerClick(4)
	c.ResetPosition(10)

	c.Add(3)
	if got := c.Position(); got != 10 {
		t.Errorf("after 3 counts: got %d, want 10", got)
	}
	c.Add(1)
	if got := c.Position(); got != 11 {
		t.Errorf("after 4 counts: got %d, want 11", got)
	}
	c.Add(-8)
	if got := c.Position(); got != 9 {
		t.Errorf("after -8 counts: got %d, want 9", got)
	}
}

func TestCounterBounds(t *testing.T) {
	c := NewCounter()
	c.SetStepsPerClick(1)
	c.SetLowerBound(100)
	c.SetUpperBound(200)

	c.ResetPosition(50)
	if got := c.Position(); got != 100 {
		t.Errorf("reset below lower: got %d, want 100", got)
	}
	c.ResetPosition(199)
	c.Add(5)
	if got := c.Position(); got != 200 {
		t.Errorf("add past upper: got %d, want 200", got)
	}
	// Turning back moves off the bound immediately.
	c.Add(-1)
	if got := c.Position(); got != 199 {
		t.Errorf("turn back: got %d, want 199", got)
	}
}

func TestCounterStepsPerClickDropsPartial(t *testing.T) {
	c := NewCounter()
	c.SetStepsPerClick(4)
	c.Add(3)
	c.SetStepsPerClick(4)
	c.Add(3)
	if got := c.Position(); got != 0 {
		t.Errorf("got %d, want 0", got)
	}

	c.SetStepsPerClick(0)
	c.Add(1)
	if got := c.Position(); got != 1 {
		t.Errorf("steps clamped to 1: got %d, want 1", got)
	}
}

// Full quadrature cycles starting from A=0, B=0.
var (
	clockwise        = [][2]bool{{true, false}, {true, true}, {false, true}, {false, false}}
	counterClockwise = [][2]bool{{false, true}, {true, true}, {true, false}, {false, false}}
)

func TestQuadratureDirection(t *testing.T) {
	tests := []struct {
		name  string
		cycle [][2]bool
		want  int
	}{
		{"clockwise", clockwise, 1},
		{"counter-clockwise", counterClockwise, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewQuadrature()
			q.SetStepsPerClick(4)
			q.Update(false, false)
			for _, s := range tt.cycle {
				q.Update(s[0], s[1])
			}
			if got := q.Position(); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestQuadratureIgnoresInvalidJump(t *testing.T) {
	q := NewQuadrature()
	q.SetStepsPerClick(1)
	q.Update(false, false)
	q.Update(true, true)
	if got := q.Position(); got != 0 {
		t.Errorf("double transition: got %d, want 0", got)
	}
}

func TestQuadratureFirstSamplePrimes(t *testing.T) {
	q := NewQuadrature()
	q.SetStepsPerClick(1)
	q.Update(true, false)
	if got := q.Position(); got != 0 {
		t.Errorf("first sample: got %d, want 0", got)
	}
}
