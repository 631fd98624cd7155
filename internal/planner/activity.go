package planner

import (
	"sync"
	"time"
)

// Activity is the shared "user is editing" flag. Touch sets it and restarts a
// quiet-period timer; the flag clears when the timer expires.
type Activity struct {
	mu       sync.Mutex
	sched    Scheduler
	quiet    time.Duration
	active   bool
	timer    Timer
	gen      uint64
	onChange func(active bool)
}

// NewActivity creates an inactive flag. onChange may be nil.
func NewActivity(sched Scheduler, quiet time.Duration, onChange func(active bool)) *Activity {
	return &Activity{
		sched:    sched,
		quiet:    quiet,
		onChange: onChange,
	}
}

// Touch records user activity.
func (a *Activity) Touch() {
	a.mu.Lock()
	wasActive := a.active
	a.active = true
	if a.timer != nil {
		a.timer.Stop()
	}
	a.gen++
	gen := a.gen
	a.timer = a.sched.AfterFunc(a.quiet, func() { a.expire(gen) })
	a.mu.Unlock()

	if !wasActive {
		a.notify(true)
	}
}

// Reset clears the flag and cancels the quiet-period timer.
func (a *Activity) Reset() {
	a.mu.Lock()
	wasActive := a.active
	a.active = false
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.gen++
	a.mu.Unlock()

	if wasActive {
		a.notify(false)
	}
}

// Active reports whether the user edited within the quiet period.
func (a *Activity) Active() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.active
}

func (a *Activity) expire(gen uint64) {
	a.mu.Lock()
	if gen != a.gen || !a.active {
		a.mu.Unlock()
		return
	}
	a.active = false
	a.timer = nil
	a.mu.Unlock()

	a.notify(false)
}

func (a *Activity) notify(active bool) {
	if a.onChange != nil {
		a.onChange(active)
	}
}
