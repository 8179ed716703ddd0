package logic

import "time"

// Elapsed reports whether d has passed since ref.
// A clock reading earlier than ref (counter rollover) counts as elapsed.
func Elapsed(now, ref time.Time, d time.Duration) bool {
	return now.Before(ref) || now.Sub(ref) >= d
}

// Interval fires at most once per period.
type Interval struct {
	period  time.Duration
	last    time.Time
	started bool
}

// NewInterval creates an Interval that is due on its first check.
func NewInterval(period time.Duration) *Interval {
	return &Interval{period: period}
}

// Due reports whether the period has elapsed and, if so, restarts it at now.
func (i *Interval) Due(now time.Time) bool {
	if i.started && !Elapsed(now, i.last, i.period) {
		return false
	}
	i.started = true
	i.last = now
	return true
}
