package sensor

import (
	"math"
	"sync"
	"time"
)

// Plate model defaults.
const (
	DefaultAmbient = 22.0
	// DefaultHeatRate is the temperature rise per second at full power from ambient.
	DefaultHeatRate = 3.0
	// DefaultLoss is the Newtonian cooling coefficient per second.
	DefaultLoss = 0.008
)

// Plate is a first-order thermal model of the hotplate. It serves as both
// the sensor and the heater output when running without hardware.
type Plate struct {
	mu       sync.Mutex
	now      func() time.Time
	ambient  float64
	heatRate float64
	loss     float64

	temp float64
	on   bool
	last time.Time
}

// NewPlate creates a plate at ambient temperature.
// now defaults to time.Now when nil.
func NewPlate(ambient float64, now func() time.Time) *Plate {
	if now == nil {
		now = time.Now
	}
	return &Plate{
		now:      now,
		ambient:  ambient,
		heatRate: DefaultHeatRate,
		loss:     DefaultLoss,
		temp:     ambient,
		last:     now(),
	}
}

// Read advances the model and returns the plate temperature.
func (p *Plate) Read() (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.advance()
	return p.temp, nil
}

// Set switches the element, advancing the model first.
func (p *Plate) Set(on bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.advance()
	p.on = on
	return nil
}

// Heating reports the element state.
func (p *Plate) Heating() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.on
}

// advance integrates dT/dt = P - k(T - ambient) exactly over the elapsed time.
func (p *Plate) advance() {
	now := p.now()
	dt := now.Sub(p.last).Seconds()
	p.last = now
	if dt <= 0 {
		return
	}

	target := p.ambient
	if p.on {
		target += p.heatRate / p.loss
	}
	p.temp = target + (p.temp-target)*math.Exp(-p.loss*dt)
}
