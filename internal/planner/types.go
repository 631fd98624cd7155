package planner

import "time"

const (
	DefaultDebounce     = 300 * time.Millisecond
	DefaultFollowUp     = 100 * time.Millisecond
	DefaultQuietPeriod  = 2 * time.Second
	DefaultPollInterval = 5 * time.Second
	// DefaultMaxAttempts is how often a failed write is sent in total before
	// the cell is left pending.
	DefaultMaxAttempts = 3
)

// Key identifies one grid cell of a day.
type Key struct {
	PlayerID string
	Hour     string
}

// Options tunes the timings of a Planner. Zero fields take the defaults.
type Options struct {
	Debounce     time.Duration
	FollowUp     time.Duration
	QuietPeriod  time.Duration
	PollInterval time.Duration
	MaxAttempts  int
}

func (o Options) withDefaults() Options {
	if o.Debounce <= 0 {
		o.Debounce = DefaultDebounce
	}
	if o.FollowUp <= 0 {
		o.FollowUp = DefaultFollowUp
	}
	if o.QuietPeriod <= 0 {
		o.QuietPeriod = DefaultQuietPeriod
	}
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	return o
}
