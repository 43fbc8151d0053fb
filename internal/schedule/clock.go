package schedule

import "time"

// Clock supplies the current time. Derived statuses and expiry depend on
// wall-clock time relative to slot boundaries, so everything time-sensitive
// takes a Clock instead of calling time.Now directly.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock backed by time.Now.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock pins Now to a single instant. Used by tests.
type FixedClock struct {
	Instant time.Time
}

func (c FixedClock) Now() time.Time {
	return c.Instant
}
