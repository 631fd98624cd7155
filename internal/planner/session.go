package planner

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/team-planner/internal/availability"
	"github.com/mauv0809/team-planner/internal/metrics"
	"github.com/mauv0809/team-planner/internal/opportunity"
	"github.com/mauv0809/team-planner/internal/roster"
)

// Session is the editing state of one day: authoritative data, overrides,
// the write queue and the early hours the user opened.
//
// Lock order is session, then queue or activity. Neither calls back into a
// session, and events are published after the session lock is released.
type Session struct {
	mu sync.Mutex

	date       string
	tracker    *Tracker
	queue      *Queue
	activity   *Activity
	bus        *Bus
	metrics    metrics.Metrics
	extraHours []string
}

// NewSession creates the session of date. The activity flag and bus are
// shared with the other sessions of a planner.
func NewSession(date string, backend Backend, sched Scheduler, activity *Activity, bus *Bus, m metrics.Metrics, opts Options) *Session {
	s := &Session{
		date:     date,
		tracker:  NewTracker(),
		activity: activity,
		bus:      bus,
		metrics:  m,
	}
	s.queue = NewQueue(backend, sched, m, opts, func() {
		bus.Publish(Event{Kind: EventFlushSettled, Date: date})
	})
	return s
}

// Date returns the day this session edits.
func (s *Session) Date() string {
	return s.date
}

// ToggleCell advances one cell along the status cycle and returns the new status.
// An invalid hour label is rejected before anything is queued.
func (s *Session) ToggleCell(playerID, hour string) (availability.Status, error) {
	if err := availability.ValidateHour(hour); err != nil {
		return "", err
	}
	s.mu.Lock()
	next := availability.NextStatus(s.tracker.EffectiveStatus(playerID, hour))
	s.setCellLocked(playerID, hour, next)
	s.mu.Unlock()

	s.edited()
	return next, nil
}

// SetCell sets one cell to status.
func (s *Session) SetCell(playerID, hour string, status availability.Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", availability.ErrInvalidStatus, status)
	}
	if err := availability.ValidateHour(hour); err != nil {
		return err
	}
	s.mu.Lock()
	s.setCellLocked(playerID, hour, status)
	s.mu.Unlock()

	s.edited()
	return nil
}

func (s *Session) setCellLocked(playerID, hour string, status availability.Status) {
	s.tracker.Apply(Key{PlayerID: playerID, Hour: hour}, status)
	s.queue.QueueIndividual(playerID, s.date, hour, status)
}

// ToggleBulk advances the player's most common status over the displayed
// hours and sets every displayed hour to the result.
func (s *Session) ToggleBulk(playerID string) availability.Status {
	s.mu.Lock()
	hours := s.hoursLocked()
	next := availability.NextStatus(s.tracker.BulkStatus(playerID, hours))
	s.tracker.ApplyBulk(playerID, hours, next)
	s.queue.QueueBulk(playerID, s.date, hours, next)
	s.mu.Unlock()

	s.edited()
	return next
}

func (s *Session) edited() {
	s.activity.Touch()
	s.bus.Publish(Event{Kind: EventOverridesChanged, Date: s.date})
}

// AddEarlyHour opens the next early hour column, latest first. It reports
// false when every early hour is already shown.
func (s *Session) AddEarlyHour() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hour, ok := availability.NextEarlyHour(s.hoursLocked())
	if !ok {
		return "", false
	}
	s.extraHours = append(s.extraHours, hour)
	return hour, true
}

// Hours returns the displayed hours in ascending order.
func (s *Session) Hours() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hoursLocked()
}

func (s *Session) hoursLocked() []string {
	hours := availability.AllHours(s.extraHours, s.tracker.Data())
	for key := range s.tracker.overrides {
		if !slices.Contains(hours, key.Hour) {
			hours = append(hours, key.Hour)
		}
	}
	availability.SortHours(hours)
	return hours
}

// Players returns the players shown for this day.
func (s *Session) Players() []roster.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracker.Players()
}

// EffectiveStatus is the status a cell is displayed with.
func (s *Session) EffectiveStatus(playerID, hour string) availability.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracker.EffectiveStatus(playerID, hour)
}

// BulkStatus is the player's most common status over the displayed hours.
func (s *Session) BulkStatus(playerID string) availability.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracker.BulkStatus(playerID, s.hoursLocked())
}

// IsPending reports whether the cell has a write that has not succeeded yet.
func (s *Session) IsPending(playerID, hour string) bool {
	return s.queue.IsPending(Key{PlayerID: playerID, Hour: hour})
}

// IsBulkPending reports whether the player has a bulk write that has not succeeded yet.
func (s *Session) IsBulkPending(playerID string) bool {
	return s.queue.IsBulkPending(playerID)
}

// View returns the matrix as displayed: every player with the effective
// status of every displayed hour.
func (s *Session) View() []availability.PlayerAvailability {
	s.mu.Lock()
	defer s.mu.Unlock()

	hours := s.hoursLocked()
	view := make([]availability.PlayerAvailability, 0, len(s.tracker.Data()))
	for _, p := range s.tracker.Players() {
		cells := make(map[string]availability.Status, len(hours))
		for _, h := range hours {
			cells[h] = s.tracker.EffectiveStatus(p.ID, h)
		}
		view = append(view, availability.PlayerAvailability{Player: p, Hours: cells})
	}
	return view
}

// Opportunities scans the displayed matrix, local edits included.
func (s *Session) Opportunities() []opportunity.Opportunity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return opportunity.Find(s.tracker.Players(), s.hoursLocked(), s.tracker.EffectiveStatus)
}

// Refresh replaces the authoritative data, reconciles overrides and discards
// local state if the day was deleted elsewhere.
func (s *Session) Refresh(data []availability.PlayerAvailability) {
	if data == nil {
		data = []availability.PlayerAvailability{}
	}

	s.mu.Lock()
	s.tracker.SetData(data)
	removed := s.tracker.Reconcile(s.queue.IsPending)
	wipe := s.tracker.ShouldWipe(s.queue.HasPending(), s.activity.Active())
	if wipe {
		s.tracker.ClearOverrides()
		s.queue.Clear()
		s.extraHours = nil
	}
	s.mu.Unlock()

	if wipe {
		s.activity.Reset()
		s.metrics.IncDayWipes()
		log.Info("Day was deleted elsewhere, discarded local edits", "date", s.date)
		s.bus.Publish(Event{Kind: EventDayWiped, Date: s.date})
	} else if removed > 0 {
		s.bus.Publish(Event{Kind: EventOverridesChanged, Date: s.date})
	}
	s.bus.Publish(Event{Kind: EventRefreshed, Date: s.date})
}

// Fallback shows an all-unknown grid for players when the day could not be
// fetched. It only applies before the first successful fetch; afterwards the
// last known data is kept.
func (s *Session) Fallback(players []roster.Player) {
	s.mu.Lock()
	applied := !s.tracker.HasData()
	if applied {
		s.tracker.SetData(availability.Empty(players))
	}
	s.mu.Unlock()

	if applied {
		s.bus.Publish(Event{Kind: EventRefreshed, Date: s.date})
	}
}

// Flush writes queued edits now instead of waiting for the debounce timer.
func (s *Session) Flush(ctx context.Context) {
	s.queue.Flush(ctx)
}

// HasPending reports whether any edit of the day has not been written yet.
func (s *Session) HasPending() bool {
	return s.queue.HasPending()
}

// Close writes what is still queued and stops the session's timers.
func (s *Session) Close(ctx context.Context) {
	s.queue.Flush(ctx)
	s.queue.Stop()
}
