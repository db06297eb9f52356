package scheduler

import "time"

// Clock abstracts time observation so triggers can be driven by a fake
// clock in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real wall clock
type SystemClock struct{}

// Now returns the current time
func (SystemClock) Now() time.Time {
	return time.Now()
}
