package notifier

import (
	"context"
	"sync"

	"github.com/mauv0809/team-planner/internal/opportunity"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	SendOpportunitiesFunc func(ctx context.Context, date string, opps []opportunity.Opportunity, dryRun bool) error
	SendDayClearedFunc    func(ctx context.Context, date string, dryRun bool) error

	SendOpportunitiesCalls []OpportunitiesCall
	SendDayClearedCalls    []string
}

// OpportunitiesCall holds the arguments for a call to SendOpportunities.
type OpportunitiesCall struct {
	Date   string
	Opps   []opportunity.Opportunity
	DryRun bool
}

var _ Notifier = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendOpportunitiesCalls = nil
	m.SendDayClearedCalls = nil
}

func (m *Mock) SendOpportunities(ctx context.Context, date string, opps []opportunity.Opportunity, dryRun bool) error {
	m.mu.Lock()
	m.SendOpportunitiesCalls = append(m.SendOpportunitiesCalls, OpportunitiesCall{Date: date, Opps: opps, DryRun: dryRun})
	m.mu.Unlock()
	if m.SendOpportunitiesFunc != nil {
		return m.SendOpportunitiesFunc(ctx, date, opps, dryRun)
	}
	return nil
}

func (m *Mock) SendDayCleared(ctx context.Context, date string, dryRun bool) error {
	m.mu.Lock()
	m.SendDayClearedCalls = append(m.SendDayClearedCalls, date)
	m.mu.Unlock()
	if m.SendDayClearedFunc != nil {
		return m.SendDayClearedFunc(ctx, date, dryRun)
	}
	return nil
}
