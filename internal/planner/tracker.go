package planner

import (
	"github.com/mauv0809/team-planner/internal/availability"
	"github.com/mauv0809/team-planner/internal/roster"
)

// Tracker holds the authoritative matrix of one day and the local overrides
// layered on top of it. It is not safe for concurrent use; Session guards it.
type Tracker struct {
	data      []availability.PlayerAvailability
	byPlayer  map[string]map[string]availability.Status
	overrides map[Key]availability.Status
	// wipeHandled is set once a deletion of the day has been acted on and
	// cleared again when the day shows data. It starts set so a day that has
	// never had data is not mistaken for a deleted one.
	wipeHandled bool
}

// NewTracker creates a tracker without authoritative data.
func NewTracker() *Tracker {
	return &Tracker{
		byPlayer:    make(map[string]map[string]availability.Status),
		overrides:   make(map[Key]availability.Status),
		wipeHandled: true,
	}
}

// SetData replaces the authoritative matrix wholesale.
func (t *Tracker) SetData(data []availability.PlayerAvailability) {
	t.data = data
	t.byPlayer = make(map[string]map[string]availability.Status, len(data))
	for _, pa := range data {
		t.byPlayer[pa.Player.ID] = pa.Hours
	}
	if availability.HasData(data) {
		t.wipeHandled = false
	}
}

// Data returns the authoritative matrix.
func (t *Tracker) Data() []availability.PlayerAvailability {
	return t.data
}

// HasData reports whether authoritative data was ever set.
func (t *Tracker) HasData() bool {
	return t.data != nil
}

// Players returns the players of the authoritative matrix in order.
func (t *Tracker) Players() []roster.Player {
	players := make([]roster.Player, 0, len(t.data))
	for _, pa := range t.data {
		players = append(players, pa.Player)
	}
	return players
}

// Apply overrides one cell.
func (t *Tracker) Apply(key Key, status availability.Status) {
	t.overrides[key] = status
}

// ApplyBulk overrides several hours of a player with one status.
func (t *Tracker) ApplyBulk(playerID string, hours []string, status availability.Status) {
	for _, h := range hours {
		t.overrides[Key{PlayerID: playerID, Hour: h}] = status
	}
}

// Override returns the local override for key, if any.
func (t *Tracker) Override(key Key) (availability.Status, bool) {
	s, ok := t.overrides[key]
	return s, ok
}

// Overrides returns the number of overrides held.
func (t *Tracker) Overrides() int {
	return len(t.overrides)
}

// Authoritative returns the stored status of a cell, unknown when absent.
func (t *Tracker) Authoritative(key Key) availability.Status {
	if s, ok := t.byPlayer[key.PlayerID][key.Hour]; ok && s != "" {
		return s
	}
	return availability.StatusUnknown
}

// EffectiveStatus is the override, else the authoritative status, else unknown.
func (t *Tracker) EffectiveStatus(playerID, hour string) availability.Status {
	key := Key{PlayerID: playerID, Hour: hour}
	if s, ok := t.overrides[key]; ok {
		return s
	}
	return t.Authoritative(key)
}

// Reconcile drops overrides the server has caught up with, and overrides of
// players no longer in the authoritative matrix. Pending overrides are kept.
// It returns how many overrides were removed.
func (t *Tracker) Reconcile(isPending func(Key) bool) int {
	removed := 0
	for key, status := range t.overrides {
		if isPending(key) {
			continue
		}
		_, present := t.byPlayer[key.PlayerID]
		if !present || t.Authoritative(key) == status {
			delete(t.overrides, key)
			removed++
		}
	}
	return removed
}

// BulkStatus is the most common effective status of the player over hours.
// Ties go to the status listed first in availability.Statuses.
func (t *Tracker) BulkStatus(playerID string, hours []string) availability.Status {
	if len(hours) == 0 {
		return availability.StatusUnknown
	}
	counts := make(map[availability.Status]int, len(availability.Statuses))
	for _, h := range hours {
		counts[t.EffectiveStatus(playerID, h)]++
	}
	best, bestCount := availability.StatusUnknown, 0
	for _, s := range availability.Statuses {
		if counts[s] > bestCount {
			best, bestCount = s, counts[s]
		}
	}
	return best
}

// ShouldWipe reports whether local state must be discarded because the day
// was deleted elsewhere: the day had data and is now empty, the user is not
// editing, and there is local state to lose. A deletion is acted on once;
// edits made on the empty day afterwards are kept.
func (t *Tracker) ShouldWipe(hasPending, userActive bool) bool {
	if t.wipeHandled || userActive || availability.HasData(t.data) {
		return false
	}
	t.wipeHandled = true
	return len(t.overrides) > 0 || hasPending
}

// ClearOverrides drops every override.
func (t *Tracker) ClearOverrides() {
	t.overrides = make(map[Key]availability.Status)
}
