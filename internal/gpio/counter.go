package gpio

import (
	"math"

	"github.com/sweeney/reflow-hotplate/internal/logic"
)

// Counter is a bounded position fed with raw quadrature counts.
// The position moves by one for every stepsPerClick counts in the same
// direction and is clamped to [lower, upper].
type Counter struct {
	pos   int
	lower int
	upper int
	steps int
	acc   int
}

// NewCounter creates an unbounded Counter at 0 with one position per detent.
func NewCounter() *Counter {
	return &Counter{
		lower: math.MinInt32,
		upper: math.MaxInt32,
		steps: logic.ClicksPerStep,
	}
}

// Position returns the current bounded position.
func (c *Counter) Position() int {
	return c.pos
}

// SetLowerBound sets the minimum position.
func (c *Counter) SetLowerBound(v int) {
	c.lower = v
}

// SetUpperBound sets the maximum position.
func (c *Counter) SetUpperBound(v int) {
	c.upper = v
}

// SetStepsPerClick sets how many raw counts move the position by one.
func (c *Counter) SetStepsPerClick(n int) {
	if n < 1 {
		n = 1
	}
	c.steps = n
	c.acc = 0
}

// ResetPosition moves to v, clamped to the bounds, and drops partial counts.
func (c *Counter) ResetPosition(v int) {
	c.pos = c.clamp(v)
	c.acc = 0
}

// Add feeds raw counts; positive is clockwise.
func (c *Counter) Add(counts int) {
	c.acc += counts
	for c.acc >= c.steps {
		c.acc -= c.steps
		c.pos = c.clamp(c.pos + 1)
	}
	for c.acc <= -c.steps {
		c.acc += c.steps
		c.pos = c.clamp(c.pos - 1)
	}
}

func (c *Counter) clamp(v int) int {
	if v < c.lower {
		return c.lower
	}
	if v > c.upper {
		return c.upper
	}
	return v
}

// quadTable maps (previous AB << 2 | current AB) to a count delta.
// Invalid double transitions count as zero.
var quadTable = [16]int{0, -1, 1, 0, 1, 0, 0, -1, -1, 0, 0, 1, 0, 1, -1, 0}

// Quadrature decodes A/B channel levels into Counter counts.
type Quadrature struct {
	*Counter
	state  int
	primed bool
}

// NewQuadrature creates a decoder over a fresh Counter.
func NewQuadrature() *Quadrature {
	return &Quadrature{Counter: NewCounter()}
}

// Update takes the current channel levels.
func (q *Quadrature) Update(a, b bool) {
	cur := 0
	if a {
		cur |= 2
	}
	if b {
		cur |= 1
	}
	if !q.primed {
		q.state = cur
		q.primed = true
		return
	}
	q.Add(quadTable[q.state<<2|cur])
	q.state = cur
}
