package roster

import (
	"context"
	"sync"
)

// Mock is a mock implementation of the RosterStore interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	GetPlayersFunc   func(ctx context.Context, activeOnly bool) ([]Player, error)
	GetPlayerFunc    func(ctx context.Context, playerID string) (*Player, error)
	AddPlayerFunc    func(ctx context.Context, name string, role Role) (*Player, error)
	UpdatePlayerFunc func(ctx context.Context, playerID, name string, role Role) error
	SetActiveFunc    func(ctx context.Context, playerID string, active bool) error
	DeletePlayerFunc func(ctx context.Context, playerID string) error
	ReorderFunc      func(ctx context.Context, playerIDs []string) error
	SeedIfEmptyFunc  func(ctx context.Context, names []string) (int, error)

	SetActiveCalls []SetActiveCall
	ReorderCalls   [][]string
	DeleteCalls    []string
}

// SetActiveCall holds the arguments for a call to SetActive.
type SetActiveCall struct {
	PlayerID string
	Active   bool
}

var _ RosterStore = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) GetPlayers(ctx context.Context, activeOnly bool) ([]Player, error) {
	if m.GetPlayersFunc != nil {
		return m.GetPlayersFunc(ctx, activeOnly)
	}
	return []Player{}, nil
}

func (m *Mock) GetPlayer(ctx context.Context, playerID string) (*Player, error) {
	if m.GetPlayerFunc != nil {
		return m.GetPlayerFunc(ctx, playerID)
	}
	return nil, ErrPlayerNotFound
}

func (m *Mock) AddPlayer(ctx context.Context, name string, role Role) (*Player, error) {
	if m.AddPlayerFunc != nil {
		return m.AddPlayerFunc(ctx, name, role)
	}
	return &Player{ID: "mock-" + name, Name: name, Role: role}, nil
}

func (m *Mock) UpdatePlayer(ctx context.Context, playerID, name string, role Role) error {
	if m.UpdatePlayerFunc != nil {
		return m.UpdatePlayerFunc(ctx, playerID, name, role)
	}
	return nil
}

func (m *Mock) SetActive(ctx context.Context, playerID string, active bool) error {
	m.mu.Lock()
	m.SetActiveCalls = append(m.SetActiveCalls, SetActiveCall{PlayerID: playerID, Active: active})
	m.mu.Unlock()
	if m.SetActiveFunc != nil {
		return m.SetActiveFunc(ctx, playerID, active)
	}
	return nil
}

func (m *Mock) DeletePlayer(ctx context.Context, playerID string) error {
	m.mu.Lock()
	m.DeleteCalls = append(m.DeleteCalls, playerID)
	m.mu.Unlock()
	if m.DeletePlayerFunc != nil {
		return m.DeletePlayerFunc(ctx, playerID)
	}
	return nil
}

func (m *Mock) Reorder(ctx context.Context, playerIDs []string) error {
	m.mu.Lock()
	m.ReorderCalls = append(m.ReorderCalls, playerIDs)
	m.mu.Unlock()
	if m.ReorderFunc != nil {
		return m.ReorderFunc(ctx, playerIDs)
	}
	return nil
}

func (m *Mock) SeedIfEmpty(ctx context.Context, names []string) (int, error) {
	if m.SeedIfEmptyFunc != nil {
		return m.SeedIfEmptyFunc(ctx, names)
	}
	return 0, nil
}
