package clock

import (
	"sync"
	"time"
)

// FixedClock is a CalendarClock whose "now" is set manually. Used by tests
// and replay tooling so calendar math stays real while time stands still.
type FixedClock struct {
	*CalendarClock
	mu  sync.RWMutex
	now time.Time
}

// NewFixed creates a FixedClock over the given calendar configuration
func NewFixed(cfg Config, now time.Time) (*FixedClock, error) {
	base, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return &FixedClock{CalendarClock: base, now: now.In(base.location)}, nil
}

// Now returns the manually set instant
func (c *FixedClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

// Set moves the clock to the given instant
func (c *FixedClock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now.In(c.location)
}

// Advance moves the clock forward by d
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
