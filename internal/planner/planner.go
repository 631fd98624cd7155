package planner

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/team-planner/internal/availability"
	"github.com/mauv0809/team-planner/internal/metrics"
	"github.com/mauv0809/team-planner/internal/roster"
)

// Planner keeps one Session per day of the visible window. All sessions
// share one activity flag and one event bus.
type Planner struct {
	mu sync.RWMutex

	source   Source
	sched    Scheduler
	metrics  metrics.Metrics
	opts     Options
	bus      *Bus
	activity *Activity

	players  []roster.Player
	dates    []string
	sessions map[string]*Session
}

// New creates a planner for dates. Nothing is fetched until Refresh.
func New(source Source, sched Scheduler, m metrics.Metrics, dates []string, opts Options) *Planner {
	opts = opts.withDefaults()
	bus := NewBus()
	p := &Planner{
		source:   source,
		sched:    sched,
		metrics:  m,
		opts:     opts,
		bus:      bus,
		sessions: make(map[string]*Session),
	}
	p.activity = NewActivity(sched, opts.QuietPeriod, func(active bool) {
		bus.Publish(Event{Kind: EventActivityChanged, Active: active})
	})
	p.SetWindow(dates)
	return p
}

// Bus returns the planner's event bus.
func (p *Planner) Bus() *Bus {
	return p.bus
}

// Activity returns the shared user-activity flag.
func (p *Planner) Activity() *Activity {
	return p.activity
}

// Dates returns the window in order.
func (p *Planner) Dates() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Clone(p.dates)
}

// Players returns the active players of the last successful fetch.
func (p *Planner) Players() []roster.Player {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Clone(p.players)
}

// Session returns the session of date.
func (p *Planner) Session(date string) (*Session, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s, ok := p.sessions[date]
	return s, ok
}

// SetWindow moves the window to dates. Sessions of dates that stay are kept;
// sessions of dates that leave are stopped after their queued writes.
func (p *Planner) SetWindow(dates []string) {
	p.mu.Lock()
	var dropped []*Session
	next := make(map[string]*Session, len(dates))
	for _, d := range dates {
		if s, ok := p.sessions[d]; ok {
			next[d] = s
			continue
		}
		next[d] = NewSession(d, p.source, p.sched, p.activity, p.bus, p.metrics, p.opts)
	}
	for d, s := range p.sessions {
		if _, ok := next[d]; !ok {
			dropped = append(dropped, s)
		}
	}
	p.sessions = next
	p.dates = slices.Clone(dates)
	p.mu.Unlock()

	for _, s := range dropped {
		s.Close(context.Background())
	}
}

// Refresh fetches the roster and every day of the window. A day that cannot
// be fetched is shown as all-unknown if nothing is known about it yet.
func (p *Planner) Refresh(ctx context.Context) error {
	var errs []error

	players, err := p.source.GetPlayers(ctx, true)
	if err != nil {
		log.Warn("Failed to fetch players, keeping the last known roster", "error", err)
		errs = append(errs, fmt.Errorf("failed to fetch players: %w", err))
	}

	p.mu.Lock()
	if err == nil {
		p.players = players
	}
	players = slices.Clone(p.players)
	dates := slices.Clone(p.dates)
	p.mu.Unlock()

	for _, date := range dates {
		s, ok := p.Session(date)
		if !ok {
			continue
		}
		data, err := p.source.GetAvailabilityForDate(ctx, date)
		if err != nil {
			log.Warn("Failed to fetch availability", "date", date, "error", err)
			errs = append(errs, fmt.Errorf("failed to fetch availability for %s: %w", date, err))
			s.Fallback(players)
			continue
		}
		s.Refresh(data)
	}
	return errors.Join(errs...)
}

// Close writes everything still queued and stops all timers.
func (p *Planner) Close(ctx context.Context) {
	p.mu.RLock()
	sessions := make([]*Session, 0, len(p.sessions))
	for _, s := range p.sessions {
		sessions = append(sessions, s)
	}
	p.mu.RUnlock()

	for _, s := range sessions {
		s.Close(ctx)
	}
	p.activity.Reset()
}

// StoreSource reads and writes through the stores directly, for processes
// that own the database.
type StoreSource struct {
	Roster       roster.RosterStore
	Availability availability.AvailabilityStore
}

var _ Source = StoreSource{}

func (s StoreSource) GetPlayers(ctx context.Context, activeOnly bool) ([]roster.Player, error) {
	return s.Roster.GetPlayers(ctx, activeOnly)
}

func (s StoreSource) GetAvailabilityForDate(ctx context.Context, date string) ([]availability.PlayerAvailability, error) {
	return s.Availability.GetAvailabilityForDate(ctx, date)
}

func (s StoreSource) UpdateIndividualStatus(ctx context.Context, playerID, date, hour string, status availability.Status) error {
	return s.Availability.UpdateIndividualStatus(ctx, playerID, date, hour, status)
}

func (s StoreSource) UpdateBulkStatus(ctx context.Context, playerID, date string, hours []string, status availability.Status) error {
	return s.Availability.UpdateBulkStatus(ctx, playerID, date, hours, status)
}
