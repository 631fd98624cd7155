package availability

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/team-planner/internal/roster"
)

// New creates a new AvailabilityStore.
func New(db *sql.DB) AvailabilityStore {
	return &store{
		db:  db,
		now: time.Now,
	}
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *store) GetAvailabilityForDate(ctx context.Context, date string) ([]PlayerAvailability, error) {
	if err := ValidateDate(date); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.name, p.role, p.sort_order, p.is_active, p.created_at, a.hours
		FROM players p
		LEFT JOIN availability a ON a.player_id = p.id AND a.date = ?
		WHERE p.is_active = 1
		ORDER BY p.sort_order ASC, p.name ASC
	`, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query availability: %w", err)
	}
	defer rows.Close()

	matrix := make([]PlayerAvailability, 0, roster.MaxActivePlayers)
	for rows.Next() {
		var (
			pa        PlayerAvailability
			role      string
			createdAt int64
			hoursJSON sql.NullString
		)
		err := rows.Scan(&pa.Player.ID, &pa.Player.Name, &role, &pa.Player.SortOrder, &pa.Player.IsActive, &createdAt, &hoursJSON)
		if err != nil {
			return nil, fmt.Errorf("failed to scan availability row: %w", err)
		}
		pa.Player.Role = roster.Role(role)
		pa.Player.CreatedAt = time.Unix(createdAt, 0)
		pa.Hours, err = decodeHours(hoursJSON.String)
		if err != nil {
			log.Error("Failed to unmarshal hours", "error", err, "playerID", pa.Player.ID, "date", date)
			pa.Hours = map[string]Status{}
		}
		matrix = append(matrix, pa)
	}
	return matrix, rows.Err()
}

func (s *store) GetAvailabilityForDates(ctx context.Context, dates []string) (map[string][]PlayerAvailability, error) {
	result := make(map[string][]PlayerAvailability, len(dates))
	for _, date := range dates {
		matrix, err := s.GetAvailabilityForDate(ctx, date)
		if err != nil {
			return nil, fmt.Errorf("failed to get availability for %s: %w", date, err)
		}
		result[date] = matrix
	}
	return result, nil
}

func (s *store) UpdateIndividualStatus(ctx context.Context, playerID, date, hour string, status Status) error {
	if err := validateWrite(date, []string{hour}, status); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.setHours(ctx, s.db, playerID, date, []string{hour}, status); err != nil {
		return err
	}
	log.Debug("Updated availability", "playerID", playerID, "date", date, "hour", hour, "status", status)
	return nil
}

func (s *store) UpdateBulkStatus(ctx context.Context, playerID, date string, hours []string, status Status) error {
	if err := validateWrite(date, hours, status); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.setHours(ctx, tx, playerID, date, hours, status); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit bulk availability: %w", err)
	}
	log.Info("Updated bulk availability", "playerID", playerID, "date", date, "hours", hours, "status", status)
	return nil
}

func (s *store) SetDayStatus(ctx context.Context, date string, hours []string, status Status) error {
	if err := validateWrite(date, hours, status); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, "SELECT id FROM players WHERE is_active = 1")
	if err != nil {
		return fmt.Errorf("failed to query active players: %w", err)
	}
	var playerIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan player id: %w", err)
		}
		playerIDs = append(playerIDs, id)
	}
	rows.Close()

	for _, id := range playerIDs {
		if err := s.setHours(ctx, tx, id, date, hours, status); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit day status: %w", err)
	}
	log.Info("Set day status", "date", date, "players", len(playerIDs), "hours", hours, "status", status)
	return nil
}

func (s *store) DeleteDay(ctx context.Context, date string) (int64, error) {
	if err := ValidateDate(date); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM availability WHERE date = ?", date)
	if err != nil {
		return 0, fmt.Errorf("failed to delete day: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	log.Info("Deleted day data", "date", date, "rows", n)
	return n, nil
}

// LastAnnouncement returns the signature of the opportunities last announced for date,
// or "" when nothing was announced.
func (s *store) LastAnnouncement(ctx context.Context, date string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var signature string
	err := s.db.QueryRowContext(ctx, "SELECT signature FROM announcements WHERE date = ?", date).Scan(&signature)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get announcement: %w", err)
	}
	return signature, nil
}

func (s *store) RecordAnnouncement(ctx context.Context, date, signature string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO announcements (date, signature, announced_at) VALUES (?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET signature = excluded.signature, announced_at = excluded.announced_at
	`, date, signature, s.now().Unix())
	if err != nil {
		return fmt.Errorf("failed to record announcement: %w", err)
	}
	return nil
}

func (s *store) ForgetAnnouncement(ctx context.Context, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, "DELETE FROM announcements WHERE date = ?", date); err != nil {
		return fmt.Errorf("failed to forget announcement: %w", err)
	}
	return nil
}

// setHours merges hours -> status into the (player, date) record, creating it on first edit.
// Callers hold s.mu.
func (s *store) setHours(ctx context.Context, q execer, playerID, date string, hours []string, status Status) error {
	var raw sql.NullString
	err := q.QueryRowContext(ctx, "SELECT hours FROM availability WHERE player_id = ? AND date = ?", playerID, date).Scan(&raw)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to read availability: %w", err)
	}

	current, err := decodeHours(raw.String)
	if err != nil {
		log.Warn("Discarding unreadable hours", "error", err, "playerID", playerID, "date", date)
		current = map[string]Status{}
	}
	for _, h := range hours {
		current[h] = status
	}
	encoded, err := json.Marshal(current)
	if err != nil {
		return err
	}

	_, err = q.ExecContext(ctx, `
		INSERT INTO availability (player_id, date, hours, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(player_id, date) DO UPDATE SET hours = excluded.hours, updated_at = excluded.updated_at
	`, playerID, date, string(encoded), s.now().Unix())
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: %s", roster.ErrPlayerNotFound, playerID)
		}
		return fmt.Errorf("failed to update availability status: %w", err)
	}
	return nil
}

func decodeHours(raw string) (map[string]Status, error) {
	hours := map[string]Status{}
	if raw == "" {
		return hours, nil
	}
	if err := json.Unmarshal([]byte(raw), &hours); err != nil {
		return map[string]Status{}, err
	}
	return hours, nil
}

func validateWrite(date string, hours []string, status Status) error {
	if err := ValidateDate(date); err != nil {
		return err
	}
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if len(hours) == 0 {
		return fmt.Errorf("%w: no hours given", ErrInvalidHour)
	}
	for _, h := range hours {
		if err := ValidateHour(h); err != nil {
			return err
		}
	}
	return nil
}

func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
