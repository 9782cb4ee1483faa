package chat

import "time"

// Timer is a handle on a scheduled callback.
type Timer interface {
	// Stop cancels the callback and reports whether it was still pending.
	Stop() bool
}

// Scheduler runs fn once after d has elapsed. Implementations must not invoke
// fn synchronously from Schedule.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) Timer
}

// ClockScheduler schedules callbacks on the runtime timer.
type ClockScheduler struct{}

// Schedule implements Scheduler.
func (ClockScheduler) Schedule(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}
