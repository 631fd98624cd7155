package planner

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/mauv0809/team-planner/internal/availability"
	"github.com/mauv0809/team-planner/internal/metrics"
	"github.com/mauv0809/team-planner/internal/roster"
)

const testDate = "2026-10-23"

var epoch = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func testPlayers(n int) []roster.Player {
	names := []string{"Mirko", "Toby", "Tom", "Denis", "Josh", "Jannis"}
	players := make([]roster.Player, 0, n)
	for i := 0; i < n; i++ {
		players = append(players, roster.Player{
			ID:        fmt.Sprintf("p%d", i+1),
			Name:      names[i],
			Role:      roster.RolePlayer,
			SortOrder: i,
			IsActive:  true,
		})
	}
	return players
}

// matrix builds authoritative data; cells maps player ID to hour -> status.
func matrix(players []roster.Player, cells map[string]map[string]availability.Status) []availability.PlayerAvailability {
	data := availability.Empty(players)
	for i := range data {
		for h, s := range cells[data[i].Player.ID] {
			data[i].Hours[h] = s
		}
	}
	return data
}

type sessionFixture struct {
	sched   *ManualScheduler
	backend *availability.Mock
	metrics *metrics.Mock
	bus     *Bus
	events  *[]Event
	session *Session
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()

	sched := NewManualScheduler(epoch)
	backend := availability.NewMock()
	m := metrics.NewMock()
	bus := NewBus()
	events := &[]Event{}
	bus.Subscribe(func(e Event) { *events = append(*events, e) })
	activity := NewActivity(sched, DefaultQuietPeriod, func(active bool) {
		bus.Publish(Event{Kind: EventActivityChanged, Active: active})
	})
	s := NewSession(testDate, backend, sched, activity, bus, m, Options{})
	t.Cleanup(func() { s.Close(context.Background()) })

	return &sessionFixture{
		sched:   sched,
		backend: backend,
		metrics: m,
		bus:     bus,
		events:  events,
		session: s,
	}
}

func (f *sessionFixture) kinds() []EventKind {
	kinds := make([]EventKind, 0, len(*f.events))
	for _, e := range *f.events {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}
