package http

import (
	"net/http"
	"time"

	"github.com/mauv0809/team-planner/internal/availability"
	"github.com/mauv0809/team-planner/internal/config"
	"github.com/mauv0809/team-planner/internal/metrics"
	"github.com/mauv0809/team-planner/internal/processor"
	"github.com/mauv0809/team-planner/internal/pubsub"
	"github.com/mauv0809/team-planner/internal/roster"
)

type Server struct {
	Roster         roster.RosterStore
	Availability   availability.AvailabilityStore
	Usage          metrics.MetricsStore
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Processor      *processor.Processor
	Router         *http.ServeMux
	pubsub         pubsub.PubSubClient
	now            func() time.Time
}
