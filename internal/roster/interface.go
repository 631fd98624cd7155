package roster

import "context"

// RosterStore defines the interface for managing the team roster.
type RosterStore interface {
	GetPlayers(ctx context.Context, activeOnly bool) ([]Player, error)
	GetPlayer(ctx context.Context, playerID string) (*Player, error)
	AddPlayer(ctx context.Context, name string, role Role) (*Player, error)
	UpdatePlayer(ctx context.Context, playerID, name string, role Role) error
	SetActive(ctx context.Context, playerID string, active bool) error
	DeletePlayer(ctx context.Context, playerID string) error
	Reorder(ctx context.Context, playerIDs []string) error
	SeedIfEmpty(ctx context.Context, names []string) (int, error)
}
