package onboarding

import "time"

// Timer is a pending scheduled call.
type Timer interface {
	// Stop cancels the call. It returns false if the call already ran or was
	// already stopped.
	Stop() bool
}

// Scheduler runs f once after d. Tests inject a manual implementation.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// SystemScheduler schedules on the runtime timer.
type SystemScheduler struct{}

// AfterFunc wraps time.AfterFunc.
func (SystemScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
