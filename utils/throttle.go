package utils

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// Throttle lets an action through at most once per interval, e.g. to keep a per sample log line from
// flooding the output.
type Throttle struct {
	clock    clock.Clock
	interval time.Duration

	mu   sync.Mutex
	last time.Time
}

// NewThrottle returns a throttle measuring time with the given clock.
func NewThrottle(clk clock.Clock, interval time.Duration) *Throttle {
	return &Throttle{clock: clk, interval: interval}
}

// Allow reports whether the action may happen now, and if so starts a new interval.
func (t *Throttle) Allow() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.clock.Now()
	if !t.last.IsZero() && now.Sub(t.last) < t.interval {
		return false
	}
	t.last = now
	return true
}
