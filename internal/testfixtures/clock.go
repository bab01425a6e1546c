package testfixtures

import (
	"sync"
	"time"
)

// Clock is a hand-set time source. Availability, schedule grids and check-in
// expiry all hinge on the evaluation instant, so tests pin it to a known
// teaching-day moment instead of reading the wall clock.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock returns a clock pinned to start. A zero start pins it to
// ReferenceTime, mid-afternoon on a teaching Tuesday.
func NewClock(start time.Time) *Clock {
	if start.IsZero() {
		start = ReferenceTime()
	}
	return &Clock{now: start}
}

// Now reports the pinned instant.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// NowFunc adapts the clock to the now dependency the services take. A nil
// clock falls back to the wall clock.
func (c *Clock) NowFunc() func() time.Time {
	if c == nil {
		return time.Now
	}
	return c.Now
}

// Set repins the clock to an absolute instant.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

// Advance moves the pinned instant forward, e.g. past a check-in's expiry or
// into the next pattern slot, and returns the new time.
func (c *Clock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	c.now = c.now.Add(d)
	moved := c.now
	c.mu.Unlock()
	return moved
}
