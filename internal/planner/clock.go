package planner

import "time"

// Timer is a scheduled callback that can be cancelled.
type Timer interface {
	// Stop prevents the callback from running. It reports false if the
	// callback already ran or was stopped.
	Stop() bool
}

// Scheduler creates timers. Every delay in the planner goes through it so
// timer-driven behaviour can be driven by a manual clock in tests.
type Scheduler interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// SystemScheduler schedules on the wall clock.
type SystemScheduler struct{}

var _ Scheduler = SystemScheduler{}

func (SystemScheduler) Now() time.Time {
	return time.Now()
}

func (SystemScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
