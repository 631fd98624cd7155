package availability

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mauv0809/team-planner/internal/roster"
)

var (
	ErrInvalidStatus = errors.New("invalid availability status")
	ErrInvalidDate   = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidHour   = errors.New("invalid hour label")
)

// Status is a player's availability for one hour slot.
type Status string

const (
	StatusReady     Status = "ready"
	StatusUncertain Status = "uncertain"
	StatusUnready   Status = "unready"
	StatusUnknown   Status = "unknown"
)

// Statuses is the fixed enumeration order. It breaks ties wherever statuses are counted.
var Statuses = []Status{StatusReady, StatusUncertain, StatusUnready, StatusUnknown}

// Valid reports whether s is one of the four statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusReady, StatusUncertain, StatusUnready, StatusUnknown:
		return true
	}
	return false
}

// Available reports whether the player can play in this slot.
func (s Status) Available() bool {
	return s == StatusReady || s == StatusUncertain
}

// NextStatus advances along unknown -> ready -> uncertain -> unready -> unknown.
func NextStatus(s Status) Status {
	switch s {
	case StatusUnknown:
		return StatusReady
	case StatusReady:
		return StatusUncertain
	case StatusUncertain:
		return StatusUnready
	default:
		return StatusUnknown
	}
}

// ParseStatus validates a raw status string.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return s, nil
}

// PlayerAvailability is one grid column: a player and their hour -> status map.
// A missing hour means StatusUnknown.
type PlayerAvailability struct {
	Player roster.Player     `json:"player" msgpack:"player"`
	Hours  map[string]Status `json:"availability" msgpack:"availability"`
}

// StatusAt returns the stored status for hour, or StatusUnknown.
func (pa PlayerAvailability) StatusAt(hour string) Status {
	if s, ok := pa.Hours[hour]; ok && s != "" {
		return s
	}
	return StatusUnknown
}

// HasData reports whether any player in the matrix has at least one stored hour.
func HasData(matrix []PlayerAvailability) bool {
	for _, pa := range matrix {
		if len(pa.Hours) > 0 {
			return true
		}
	}
	return false
}

// Empty builds an all-unknown matrix for the given players.
func Empty(players []roster.Player) []PlayerAvailability {
	matrix := make([]PlayerAvailability, 0, len(players))
	for _, p := range players {
		matrix = append(matrix, PlayerAvailability{Player: p, Hours: map[string]Status{}})
	}
	return matrix
}

// store handles all database operations for availability records.
type store struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}
