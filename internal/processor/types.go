package processor

import "github.com/mauv0809/team-planner/internal/metrics"

// Processor turns availability events into team announcements.
type Processor struct {
	store    Store
	notifier Notifier
	usage    metrics.MetricsStore
}

// Outcome says what handling an availability change did.
type Outcome string

const (
	OutcomeAnnounced Outcome = "announced"
	OutcomeUnchanged Outcome = "unchanged"
	OutcomeWithdrawn Outcome = "withdrawn"
	OutcomeDryRun    Outcome = "dry-run"
)
