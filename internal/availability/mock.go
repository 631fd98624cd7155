package availability

import (
	"context"
	"sync"
)

// Mock is a mock implementation of the AvailabilityStore interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	GetAvailabilityForDateFunc func(ctx context.Context, date string) ([]PlayerAvailability, error)
	UpdateIndividualStatusFunc func(ctx context.Context, playerID, date, hour string, status Status) error
	UpdateBulkStatusFunc       func(ctx context.Context, playerID, date string, hours []string, status Status) error
	SetDayStatusFunc           func(ctx context.Context, date string, hours []string, status Status) error
	DeleteDayFunc              func(ctx context.Context, date string) (int64, error)

	announcements map[string]string

	UpdateIndividualStatusCalls []IndividualCall
	UpdateBulkStatusCalls       []BulkCall
	DeleteDayCalls              []string
	RecordAnnouncementCalls     []string
}

// IndividualCall holds the arguments for a call to UpdateIndividualStatus.
type IndividualCall struct {
	PlayerID, Date, Hour string
	Status               Status
}

// BulkCall holds the arguments for a call to UpdateBulkStatus.
type BulkCall struct {
	PlayerID, Date string
	Hours          []string
	Status         Status
}

var _ AvailabilityStore = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{announcements: make(map[string]string)}
}

func (m *Mock) GetAvailabilityForDate(ctx context.Context, date string) ([]PlayerAvailability, error) {
	if m.GetAvailabilityForDateFunc != nil {
		return m.GetAvailabilityForDateFunc(ctx, date)
	}
	return []PlayerAvailability{}, nil
}

func (m *Mock) GetAvailabilityForDates(ctx context.Context, dates []string) (map[string][]PlayerAvailability, error) {
	result := make(map[string][]PlayerAvailability, len(dates))
	for _, d := range dates {
		matrix, err := m.GetAvailabilityForDate(ctx, d)
		if err != nil {
			return nil, err
		}
		result[d] = matrix
	}
	return result, nil
}

func (m *Mock) UpdateIndividualStatus(ctx context.Context, playerID, date, hour string, status Status) error {
	m.mu.Lock()
	m.UpdateIndividualStatusCalls = append(m.UpdateIndividualStatusCalls, IndividualCall{playerID, date, hour, status})
	m.mu.Unlock()
	if m.UpdateIndividualStatusFunc != nil {
		return m.UpdateIndividualStatusFunc(ctx, playerID, date, hour, status)
	}
	return nil
}

func (m *Mock) UpdateBulkStatus(ctx context.Context, playerID, date string, hours []string, status Status) error {
	m.mu.Lock()
	m.UpdateBulkStatusCalls = append(m.UpdateBulkStatusCalls, BulkCall{playerID, date, hours, status})
	m.mu.Unlock()
	if m.UpdateBulkStatusFunc != nil {
		return m.UpdateBulkStatusFunc(ctx, playerID, date, hours, status)
	}
	return nil
}

func (m *Mock) SetDayStatus(ctx context.Context, date string, hours []string, status Status) error {
	if m.SetDayStatusFunc != nil {
		return m.SetDayStatusFunc(ctx, date, hours, status)
	}
	return nil
}

func (m *Mock) DeleteDay(ctx context.Context, date string) (int64, error) {
	m.mu.Lock()
	m.DeleteDayCalls = append(m.DeleteDayCalls, date)
	m.mu.Unlock()
	if m.DeleteDayFunc != nil {
		return m.DeleteDayFunc(ctx, date)
	}
	return 0, nil
}

func (m *Mock) LastAnnouncement(ctx context.Context, date string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.announcements[date], nil
}

func (m *Mock) RecordAnnouncement(ctx context.Context, date, signature string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.announcements[date] = signature
	m.RecordAnnouncementCalls = append(m.RecordAnnouncementCalls, date)
	return nil
}

func (m *Mock) ForgetAnnouncement(ctx context.Context, date string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.announcements, date)
	return nil
}
