package roster

import (
	"database/sql"
	"errors"
	"sync"
	"time"
)

// MaxActivePlayers is the number of seats in the schedule grid.
const MaxActivePlayers = 6

var (
	ErrPlayerNotFound = errors.New("player not found")
	ErrTooManyActive  = errors.New("maximum of 6 active players allowed")
	ErrInvalidRole    = errors.New("invalid role")
	ErrEmptyName      = errors.New("player name must not be empty")
)

// Role distinguishes players from coaches in the grid.
type Role string

const (
	RolePlayer Role = "player"
	RoleCoach  Role = "coach"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RolePlayer || r == RoleCoach
}

// Player is a member of the team roster.
type Player struct {
	ID        string    `json:"id" msgpack:"id"`
	Name      string    `json:"name" msgpack:"name"`
	Role      Role      `json:"role" msgpack:"role"`
	SortOrder int       `json:"sort_order" msgpack:"sort_order"`
	IsActive  bool      `json:"is_active" msgpack:"is_active"`
	CreatedAt time.Time `json:"created_at" msgpack:"created_at"`
}

// DefaultPlayers seeds an empty roster.
var DefaultPlayers = []string{"Mirko", "Toby", "Tom", "Denis", "Josh", "Jannis"}

// store handles all database operations for the roster.
type store struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}
