package driver

import "time"

// DefaultGravityInterval is how often the active piece falls on its own.
const DefaultGravityInterval = 250 * time.Millisecond

// Gate turns a monotonic clock into a per-frame "gravity due" flag.
type Gate struct {
	interval time.Duration
	now      func() time.Time
	last     time.Time
}

// NewGate returns a gate that opens once every interval. now defaults to
// time.Now, whose readings carry a monotonic component.
func NewGate(interval time.Duration, now func() time.Time) *Gate {
	if now == nil {
		now = time.Now
	}
	return &Gate{
		interval: interval,
		now:      now,
		last:     now(),
	}
}

// Due reports whether more than the interval has passed since the gate last
// opened, and restarts the interval if so.
func (g *Gate) Due() bool {
	t := g.now()
	if t.Sub(g.last) <= g.interval {
		return false
	}
	g.last = t
	return true
}

// Reset restarts the interval from now without opening the gate.
func (g *Gate) Reset() {
	g.last = g.now()
}

// Interval returns the configured interval.
func (g *Gate) Interval() time.Duration {
	return g.interval
}
