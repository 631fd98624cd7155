package http

import (
	"net/http"
	"time"

	"github.com/mauv0809/team-planner/internal/availability"
	"github.com/mauv0809/team-planner/internal/config"
	"github.com/mauv0809/team-planner/internal/http/handlers"
	"github.com/mauv0809/team-planner/internal/metrics"
	"github.com/mauv0809/team-planner/internal/processor"
	"github.com/mauv0809/team-planner/internal/pubsub"
	"github.com/mauv0809/team-planner/internal/roster"
)

func NewServer(rosterStore roster.RosterStore, availabilityStore availability.AvailabilityStore, usage metrics.MetricsStore, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config, processor *processor.Processor, pubsub pubsub.PubSubClient) *Server {
	server := &Server{
		Roster:         rosterStore,
		Availability:   availabilityStore,
		Usage:          usage,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Processor:      processor,
		Router:         http.NewServeMux(),
		pubsub:         pubsub,
		now:            time.Now,
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// Everything a browser user touches sits behind the shared password.
	auth := authMiddleware(s.Cfg.AppPassword)

	s.Router.Handle("GET /metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(handlers.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("POST /auth", Chain(handlers.LoginHandler(s.Cfg.AppPassword), paramsMiddleware))

	s.Router.Handle("GET /players", Chain(handlers.ListPlayersHandler(s.Roster), paramsMiddleware, auth))
	s.Router.Handle("POST /players", Chain(handlers.AddPlayerHandler(s.Roster, s.Usage), paramsMiddleware, auth))
	s.Router.Handle("PUT /players/order", Chain(handlers.ReorderPlayersHandler(s.Roster), paramsMiddleware, auth))
	s.Router.Handle("PUT /players/{id}", Chain(handlers.UpdatePlayerHandler(s.Roster), paramsMiddleware, auth))
	s.Router.Handle("POST /players/{id}/active", Chain(handlers.SetActiveHandler(s.Roster), paramsMiddleware, auth))
	s.Router.Handle("DELETE /players/{id}", Chain(handlers.DeletePlayerHandler(s.Roster, s.Usage), paramsMiddleware, auth))

	s.Router.Handle("GET /window", Chain(handlers.WindowHandler(s.Availability, s.now), paramsMiddleware, auth))
	s.Router.Handle("GET /availability/{date}", Chain(handlers.GetDayHandler(s.Availability), paramsMiddleware, auth))
	s.Router.Handle("PUT /availability/{date}", Chain(handlers.SetDayStatusHandler(s.Availability, s.Metrics, s.pubsub), paramsMiddleware, auth))
	s.Router.Handle("DELETE /availability/{date}", Chain(handlers.DeleteDayHandler(s.Availability, s.Metrics, s.pubsub, s.Usage), paramsMiddleware, auth))
	s.Router.Handle("GET /availability/{date}/opportunities", Chain(handlers.OpportunitiesHandler(s.Availability), paramsMiddleware, auth))
	s.Router.Handle("PUT /availability/{date}/players/{id}", Chain(handlers.UpdatePlayerDayHandler(s.Roster, s.Availability, s.Metrics, s.pubsub), paramsMiddleware, auth))
	s.Router.Handle("PUT /availability/{date}/players/{id}/hours/{hour}", Chain(handlers.UpdateCellHandler(s.Roster, s.Availability, s.Metrics, s.pubsub), paramsMiddleware, auth))

	s.Router.Handle("POST /pubsub/availability-changed", Chain(handlers.AvailabilityChangedHandler(s.Processor, s.pubsub), paramsMiddleware))
	s.Router.Handle("POST /pubsub/day-deleted", Chain(handlers.DayDeletedHandler(s.Processor, s.pubsub), paramsMiddleware))

	s.Router.Handle("GET /stats", Chain(handlers.StatsHandler(s.Usage), paramsMiddleware, auth))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
