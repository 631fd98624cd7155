package planner

import (
	"context"

	"github.com/mauv0809/team-planner/internal/availability"
	"github.com/mauv0809/team-planner/internal/roster"
)

// Backend receives the writes the update queue flushes.
type Backend interface {
	UpdateIndividualStatus(ctx context.Context, playerID, date, hour string, status availability.Status) error
	UpdateBulkStatus(ctx context.Context, playerID, date string, hours []string, status availability.Status) error
}

// Source is everything a Planner needs from the persistence boundary.
type Source interface {
	Backend
	GetPlayers(ctx context.Context, activeOnly bool) ([]roster.Player, error)
	GetAvailabilityForDate(ctx context.Context, date string) ([]availability.PlayerAvailability, error)
}
