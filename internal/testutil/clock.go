package testutil

import (
	"sync"
	"time"
)

// Epoch is the default start of a test Clock: 2024-01-01T00:00:00Z.
var Epoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// Clock is a deterministic wall clock for tests.
//
// Every Now() returns the current instant and then moves it forward by the
// step, so consecutive journal entries get distinct, reproducible timestamps.
// A zero step freezes time.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type Clock struct {
	mu    sync.Mutex
	start time.Time
	now   time.Time
	step  time.Duration
}

// NewClock creates a clock starting at Epoch that advances one second per read.
func NewClock() *Clock {
	return NewSteppingClock(Epoch, time.Second)
}

// NewSteppingClock creates a clock starting at start that advances by step per read.
func NewSteppingClock(start time.Time, step time.Duration) *Clock {
	return &Clock{start: start, now: start, step: step}
}

// Now returns the current instant and advances the clock.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

// Peek returns the current instant without advancing.
func (c *Clock) Peek() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Reset moves the clock back to its start.
//
// Used for test reuse. After Reset(), the next Now() returns the start instant.
func (c *Clock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.start
}
