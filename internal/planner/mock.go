package planner

import (
	"slices"
	"sync"
	"time"
)

// ManualScheduler is a Scheduler whose clock only moves when Advance is
// called. Due callbacks run synchronously on the caller's goroutine in due
// order, so timer-driven behaviour is deterministic in tests.
type ManualScheduler struct {
	mu     sync.Mutex
	now    time.Time
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	s    *ManualScheduler
	at   time.Time
	seq  int
	fn   func()
	done bool
}

var _ Scheduler = (*ManualScheduler)(nil)

// NewManualScheduler creates a scheduler starting at start.
func NewManualScheduler(start time.Time) *ManualScheduler {
	return &ManualScheduler{now: start}
}

func (s *ManualScheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &manualTimer{s: s, at: s.now.Add(d), seq: s.seq, fn: f}
	s.timers = append(s.timers, t)
	return t
}

// Advance moves the clock forward by d, running every callback that becomes
// due, including callbacks scheduled by other callbacks.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now.Add(d)
	s.mu.Unlock()

	for {
		s.mu.Lock()
		next := s.nextDueLocked(target)
		if next == nil {
			s.now = target
			s.mu.Unlock()
			return
		}
		s.now = next.at
		next.done = true
		s.removeLocked(next)
		s.mu.Unlock()

		next.fn()
	}
}

// Pending returns the number of scheduled callbacks that have not run.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

func (s *ManualScheduler) nextDueLocked(target time.Time) *manualTimer {
	var next *manualTimer
	for _, t := range s.timers {
		if t.at.After(target) {
			continue
		}
		if next == nil || t.at.Before(next.at) || (t.at.Equal(next.at) && t.seq < next.seq) {
			next = t
		}
	}
	return next
}

func (s *ManualScheduler) removeLocked(t *manualTimer) {
	s.timers = slices.DeleteFunc(s.timers, func(o *manualTimer) bool { return o == t })
}

func (t *manualTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	t.s.removeLocked(t)
	return true
}
