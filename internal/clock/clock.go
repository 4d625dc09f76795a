// ABOUTME: Monotonic microsecond clock for stream timestamps
// ABOUTME: Anchored to a fixed start instant so timestamps never jump with wall time
package clock

import "time"

// Clock produces monotonic microsecond timestamps relative to its creation.
type Clock struct {
	start time.Time
}

// New creates a clock anchored at the current instant.
func New() *Clock {
	return &Clock{start: time.Now()}
}

// Micros returns microseconds elapsed since the clock was created.
func (c *Clock) Micros() int64 {
	return time.Since(c.start).Microseconds()
}
