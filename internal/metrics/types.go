package metrics

import "github.com/prometheus/client_golang/prometheus"

// WriteKind labels availability writes.
type WriteKind string

const (
	WriteIndividual WriteKind = "individual"
	WriteBulk       WriteKind = "bulk"
	WriteDay        WriteKind = "day"
	WriteDelete     WriteKind = "delete"
)

// Persistent usage counter keys.
const (
	KeyPlayersAdded   = "players_added"
	KeyPlayersDeleted = "players_deleted"
	KeyDaysDeleted    = "days_deleted"
	KeyAnnouncements  = "announcements_sent"
)

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	Writes             *prometheus.CounterVec
	WriteFailures      *prometheus.CounterVec
	Flushes            prometheus.Counter
	FlushDuration      prometheus.Histogram
	Polls              prometheus.Counter
	PollsSkipped       prometheus.Counter
	DayWipes           prometheus.Counter
	SlackNotifSent     prometheus.Counter
	SlackNotifFailed   prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}
