package processor

import (
	"context"

	"github.com/mauv0809/team-planner/internal/availability"
	"github.com/mauv0809/team-planner/internal/notifier"
)

// Store defines the database operations required by the processor.
type Store interface {
	GetAvailabilityForDate(ctx context.Context, date string) ([]availability.PlayerAvailability, error)
	LastAnnouncement(ctx context.Context, date string) (string, error)
	RecordAnnouncement(ctx context.Context, date, signature string) error
	ForgetAnnouncement(ctx context.Context, date string) error
}

// Notifier defines the notification operations required by the processor.
// This is now an alias for the main notifier interface for decoupling.
type Notifier interface {
	notifier.Notifier
}
