package circuitbreaker

import "time"

// Clock provides time abstraction for the circuit breaker.
// Production code uses SystemClock; tests substitute a controlled clock to
// exercise the open-to-half-open transition without real delays.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// SystemClock is a Clock implementation that uses the system time.
type SystemClock struct{}

// Now returns the current system time.
func (c *SystemClock) Now() time.Time {
	return time.Now()
}
