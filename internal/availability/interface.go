package availability

import "context"

// AvailabilityStore defines the persistence boundary for per-day availability.
type AvailabilityStore interface {
	// GetAvailabilityForDate returns every active player, in roster order, with their hours for date.
	GetAvailabilityForDate(ctx context.Context, date string) ([]PlayerAvailability, error)
	GetAvailabilityForDates(ctx context.Context, dates []string) (map[string][]PlayerAvailability, error)
	UpdateIndividualStatus(ctx context.Context, playerID, date, hour string, status Status) error
	UpdateBulkStatus(ctx context.Context, playerID, date string, hours []string, status Status) error
	// SetDayStatus sets hours to status for every active player on date.
	SetDayStatus(ctx context.Context, date string, hours []string, status Status) error
	// DeleteDay removes all availability rows for date and returns how many were deleted.
	DeleteDay(ctx context.Context, date string) (int64, error)

	LastAnnouncement(ctx context.Context, date string) (string, error)
	RecordAnnouncement(ctx context.Context, date, signature string) error
	ForgetAnnouncement(ctx context.Context, date string) error
}
