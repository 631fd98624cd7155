package roster

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// New creates a new RosterStore.
func New(db *sql.DB) RosterStore {
	return &store{
		db:  db,
		now: time.Now,
	}
}

const selectPlayers = `SELECT id, name, role, sort_order, is_active, created_at FROM players`

// GetPlayers returns the roster in grid order. With activeOnly set only the
// players counted against the active cap are returned.
func (s *store) GetPlayers(ctx context.Context, activeOnly bool) ([]Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := selectPlayers
	if activeOnly {
		query += " WHERE is_active = 1"
	}
	query += " ORDER BY sort_order ASC, name ASC"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	players := make([]Player, 0)
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player row: %w", err)
		}
		players = append(players, *player)
	}
	return players, rows.Err()
}

func (s *store) GetPlayer(ctx context.Context, playerID string) (*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, selectPlayers+" WHERE id = ?", playerID)
	player, err := scanPlayer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return player, nil
}

// AddPlayer appends a new, inactive player to the end of the roster.
func (s *store) AddPlayer(ctx context.Context, name string, role Role) (*Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var maxOrder sql.NullInt64
	if err := s.db.QueryRowContext(ctx, "SELECT MAX(sort_order) FROM players").Scan(&maxOrder); err != nil {
		return nil, fmt.Errorf("failed to read sort order: %w", err)
	}
	sortOrder := 0
	if maxOrder.Valid {
		sortOrder = int(maxOrder.Int64) + 1
	}

	player := &Player{
		ID:        uuid.New().String(),
		Name:      name,
		Role:      role,
		SortOrder: sortOrder,
		IsActive:  false,
		CreatedAt: s.now().Truncate(time.Second),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO players (id, name, role, sort_order, is_active, created_at) VALUES (?, ?, ?, ?, 0, ?)`,
		player.ID, player.Name, string(player.Role), player.SortOrder, player.CreatedAt.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	log.Info("Added player", "id", player.ID, "name", player.Name, "role", player.Role)
	return player, nil
}

func (s *store) UpdatePlayer(ctx context.Context, playerID, name string, role Role) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if !role.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "UPDATE players SET name = ?, role = ? WHERE id = ?", name, string(role), playerID)
	if err != nil {
		return fmt.Errorf("failed to update player: %w", err)
	}
	return requireAffected(res, playerID)
}

// SetActive toggles the active flag. Activating a player while MaxActivePlayers
// are already active fails with ErrTooManyActive.
func (s *store) SetActive(ctx context.Context, playerID string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var current bool
	err = tx.QueryRowContext(ctx, "SELECT is_active FROM players WHERE id = ?", playerID).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}
	if err != nil {
		return fmt.Errorf("failed to read player: %w", err)
	}
	if current == active {
		return nil
	}

	if active {
		var activeCount int
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM players WHERE is_active = 1").Scan(&activeCount); err != nil {
			return fmt.Errorf("failed to count active players: %w", err)
		}
		if activeCount >= MaxActivePlayers {
			return ErrTooManyActive
		}
	}

	if _, err := tx.ExecContext(ctx, "UPDATE players SET is_active = ? WHERE id = ?", active, playerID); err != nil {
		return fmt.Errorf("failed to update active status: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit active status: %w", err)
	}

	log.Info("Changed player active status", "id", playerID, "active", active)
	return nil
}

// DeletePlayer removes the player; availability rows cascade.
func (s *store) DeletePlayer(ctx context.Context, playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM players WHERE id = ?", playerID)
	if err != nil {
		return fmt.Errorf("failed to delete player: %w", err)
	}
	if err := requireAffected(res, playerID); err != nil {
		return err
	}
	log.Info("Deleted player", "id", playerID)
	return nil
}

// Reorder assigns sort_order by position in playerIDs. Players not listed keep
// their order but move behind the listed ones.
func (s *store) Reorder(ctx context.Context, playerIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	offset := len(playerIDs)
	if _, err := tx.ExecContext(ctx, "UPDATE players SET sort_order = sort_order + ?", offset); err != nil {
		return fmt.Errorf("failed to shift sort order: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, "UPDATE players SET sort_order = ? WHERE id = ?")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, id := range playerIDs {
		res, err := stmt.ExecContext(ctx, i, id)
		if err != nil {
			return fmt.Errorf("failed to set sort order for %s: %w", id, err)
		}
		if err := requireAffected(res, id); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reorder: %w", err)
	}
	log.Info("Reordered players", "count", len(playerIDs))
	return nil
}

// SeedIfEmpty adds the given players as active members when the roster is empty.
// It returns the number of players created.
func (s *store) SeedIfEmpty(ctx context.Context, names []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM players").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count players: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := s.now().Unix()
	for i, name := range names {
		active := i < MaxActivePlayers
		_, err := tx.ExecContext(ctx,
			`INSERT INTO players (id, name, role, sort_order, is_active, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
			uuid.New().String(), name, string(RolePlayer), i, active, now,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to seed player %s: %w", name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit seed: %w", err)
	}

	log.Info("Seeded database with default players", "count", len(names))
	return len(names), nil
}

// scanPlayer is a helper function to scan a single player row.
func scanPlayer(scanner interface{ Scan(...any) error }) (*Player, error) {
	var (
		player    Player
		role      string
		createdAt int64
	)
	if err := scanner.Scan(&player.ID, &player.Name, &role, &player.SortOrder, &player.IsActive, &createdAt); err != nil {
		return nil, err
	}
	player.Role = Role(role)
	player.CreatedAt = time.Unix(createdAt, 0)
	return &player, nil
}

func requireAffected(res sql.Result, playerID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}
	return nil
}
