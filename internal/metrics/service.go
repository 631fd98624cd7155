package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		Writes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "planner_availability_writes_total",
			Help: "The total number of availability writes that succeeded, by kind.",
		}, []string{"kind"}),
		WriteFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "planner_availability_write_failures_total",
			Help: "The total number of availability writes that failed, by kind.",
		}, []string{"kind"}),
		Flushes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "planner_queue_flushes_total",
			Help: "The total number of update queue flushes.",
		}),
		FlushDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "planner_queue_flush_duration_seconds",
			Help:    "The duration of update queue flushes.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		Polls: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "planner_polls_total",
			Help: "The total number of availability refreshes.",
		}),
		PollsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "planner_polls_skipped_total",
			Help: "The total number of refreshes skipped while the user was editing.",
		}),
		DayWipes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "planner_day_wipes_total",
			Help: "The total number of times local edits were discarded because the day was deleted elsewhere.",
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "planner_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "planner_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "planner_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.Writes,
		s.WriteFailures,
		s.Flushes,
		s.FlushDuration,
		s.Polls,
		s.PollsSkipped,
		s.DayWipes,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncWrites(kind WriteKind) {
	s.Writes.WithLabelValues(string(kind)).Inc()
}

func (s *Service) IncWriteFailures(kind WriteKind) {
	s.WriteFailures.WithLabelValues(string(kind)).Inc()
}

func (s *Service) IncFlushes() {
	s.Flushes.Inc()
}

func (s *Service) ObserveFlushDuration(seconds float64) {
	s.FlushDuration.Observe(seconds)
}

func (s *Service) IncPolls() {
	s.Polls.Inc()
}

func (s *Service) IncPollsSkipped() {
	s.PollsSkipped.Inc()
}

func (s *Service) IncDayWipes() {
	s.DayWipes.Inc()
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(seconds float64) {
	s.StartupTimeSeconds.Set(seconds)
}
