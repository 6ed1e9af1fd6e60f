package clock

import "time"

// Clock supplies the current time, used as the default end of a window query
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock
type RealClock struct{}

// New creates a new RealClock
func New() *RealClock {
	return &RealClock{}
}

// Now returns the current time in UTC, matching archive end times
func (c *RealClock) Now() time.Time {
	return time.Now().UTC()
}
