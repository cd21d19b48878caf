package shared

import "time"

// Clock provides the current time. Domain and application code depend on
// this interface instead of calling time.Now() directly, so posting and
// reversal timestamps are deterministic in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock returns the actual system time. Use at application entry
// points (cmd/*) only.
type SystemClock struct{}

// Now returns the current system time
func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock always returns the same time. For tests.
type FixedClock struct {
	T time.Time
}

// Now returns the fixed time
func (c FixedClock) Now() time.Time {
	return c.T
}
