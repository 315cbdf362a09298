// Package clock provides the wall-clock source the scheduler and store
// express all timestamps against: a floating-point POSIX timestamp in
// seconds with sub-second precision.
package clock

import "time"

// Clock returns the current time as a POSIX timestamp in seconds.
type Clock interface {
	Now() float64
}

// System is the real wall-clock source.
type System struct{}

// Now returns time.Now() as fractional POSIX seconds.
func (System) Now() float64 {
	return float64(time.Now().UnixNano()) / 1e9
}

// Fixed is a Clock that always returns the same instant — used by tests
// that need scheduling outcomes to be reproducible.
type Fixed float64

// Now returns the fixed instant.
func (f Fixed) Now() float64 { return float64(f) }
