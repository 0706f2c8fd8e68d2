// Package clock provides time utilities for the combat engine
package clock

import "time"

// Clock provides time functionality
type Clock interface {
	Now() time.Time
}

// Real implements Clock using actual system time
type Real struct{}

// Now returns the current time
func (c *Real) Now() time.Time {
	return time.Now()
}

// New returns a new real clock
func New() Clock {
	return &Real{}
}

// Fixed implements Clock with a manually controlled time, for tests
type Fixed struct {
	t time.Time
}

// NewFixed returns a clock pinned to the given time
func NewFixed(t time.Time) *Fixed {
	return &Fixed{t: t}
}

// Now returns the pinned time
func (c *Fixed) Now() time.Time {
	return c.t
}

// Advance moves the pinned time forward by d
func (c *Fixed) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}
