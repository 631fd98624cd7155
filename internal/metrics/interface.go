package metrics

import "context"

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncWrites(kind WriteKind)
	IncWriteFailures(kind WriteKind)
	IncFlushes()
	ObserveFlushDuration(seconds float64)
	IncPolls()
	IncPollsSkipped()
	IncDayWipes()
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(seconds float64)
}

// MetricsStore keeps usage counters that survive restarts.
type MetricsStore interface {
	Increment(ctx context.Context, key string)
	GetAll(ctx context.Context) (map[string]int, error)
}
