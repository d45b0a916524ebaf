package messageboard

import "time"

// Clock supplies the current time to the scheduling logic.
// Abstracting the clock keeps activation decisions deterministic in tests.
type Clock interface {
	// Now returns the current wall-clock time.
	Now() time.Time
}

// SystemClock is the production Clock backed by time.Now.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock is a Clock pinned to a settable instant. Intended for tests
// and simulations; Set is not safe for concurrent use with Now.
type FixedClock struct {
	Time time.Time
}

// Now returns the pinned instant.
func (c *FixedClock) Now() time.Time { return c.Time }

// Set moves the pinned instant.
func (c *FixedClock) Set(t time.Time) { c.Time = t }

// Advance moves the pinned instant forward by d.
func (c *FixedClock) Advance(d time.Duration) { c.Time = c.Time.Add(d) }
