package roster_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/mauv0809/team-planner/internal/database"
	"github.com/mauv0809/team-planner/internal/roster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) (roster.RosterStore, *sql.DB) {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "", "")
	require.NoError(t, err)
	t.Cleanup(teardown)

	return roster.New(db), db
}

func addActive(t *testing.T, store roster.RosterStore, name string) *roster.Player {
	t.Helper()
	ctx := context.Background()
	p, err := store.AddPlayer(ctx, name, roster.RolePlayer)
	require.NoError(t, err)
	require.NoError(t, store.SetActive(ctx, p.ID, true))
	return p
}

func TestAddPlayer(t *testing.T) {
	store, _ := setupTestDB(t)
	ctx := context.Background()

	first, err := store.AddPlayer(ctx, "  Mirko ", roster.RolePlayer)
	require.NoError(t, err)
	second, err := store.AddPlayer(ctx, "Coach Carter", roster.RoleCoach)
	require.NoError(t, err)

	assert.Equal(t, "Mirko", first.Name)
	assert.False(t, first.IsActive, "new players start inactive")
	assert.Equal(t, 0, first.SortOrder)
	assert.Equal(t, 1, second.SortOrder)
	assert.NotEqual(t, first.ID, second.ID)

	got, err := store.GetPlayer(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, roster.RoleCoach, got.Role)
}

func TestAddPlayer_Validation(t *testing.T) {
	store, _ := setupTestDB(t)
	ctx := context.Background()

	_, err := store.AddPlayer(ctx, "   ", roster.RolePlayer)
	assert.ErrorIs(t, err, roster.ErrEmptyName)

	_, err = store.AddPlayer(ctx, "Tom", roster.Role("goalie"))
	assert.ErrorIs(t, err, roster.ErrInvalidRole)
}

func TestGetPlayers_ActiveOnlyAndOrder(t *testing.T) {
	store, _ := setupTestDB(t)
	ctx := context.Background()

	a := addActive(t, store, "Toby")
	_, err := store.AddPlayer(ctx, "Bench", roster.RolePlayer)
	require.NoError(t, err)
	c := addActive(t, store, "Denis")

	all, err := store.GetPlayers(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	active, err := store.GetPlayers(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, a.ID, active[0].ID)
	assert.Equal(t, c.ID, active[1].ID)
}

func TestSetActive_EnforcesCap(t *testing.T) {
	store, _ := setupTestDB(t)
	ctx := context.Background()

	for _, name := range []string{"A", "B", "C", "D", "E", "F"} {
		addActive(t, store, name)
	}
	seventh, err := store.AddPlayer(ctx, "G", roster.RolePlayer)
	require.NoError(t, err)

	err = store.SetActive(ctx, seventh.ID, true)
	assert.ErrorIs(t, err, roster.ErrTooManyActive)

	active, err := store.GetPlayers(ctx, true)
	require.NoError(t, err)
	assert.Len(t, active, roster.MaxActivePlayers)

	// Deactivating frees a seat.
	require.NoError(t, store.SetActive(ctx, active[0].ID, false))
	assert.NoError(t, store.SetActive(ctx, seventh.ID, true))
}

func TestSetActive_UnknownPlayer(t *testing.T) {
	store, _ := setupTestDB(t)
	err := store.SetActive(context.Background(), "missing", true)
	assert.ErrorIs(t, err, roster.ErrPlayerNotFound)
}

func TestUpdatePlayer(t *testing.T) {
	store, _ := setupTestDB(t)
	ctx := context.Background()

	p := addActive(t, store, "Josh")
	require.NoError(t, store.UpdatePlayer(ctx, p.ID, "Joshua", roster.RoleCoach))

	got, err := store.GetPlayer(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Joshua", got.Name)
	assert.Equal(t, roster.RoleCoach, got.Role)
	assert.True(t, got.IsActive)

	err = store.UpdatePlayer(ctx, "missing", "X", roster.RolePlayer)
	assert.ErrorIs(t, err, roster.ErrPlayerNotFound)
}

func TestDeletePlayer_CascadesAvailability(t *testing.T) {
	store, db := setupTestDB(t)
	ctx := context.Background()

	p := addActive(t, store, "Jannis")
	_, err := db.Exec(`INSERT INTO availability (player_id, date, hours, updated_at) VALUES (?, '2026-10-23', '{"19":"ready"}', 0)`, p.ID)
	require.NoError(t, err)

	require.NoError(t, store.DeletePlayer(ctx, p.ID))

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM availability WHERE player_id = ?", p.ID).Scan(&count))
	assert.Equal(t, 0, count)

	assert.ErrorIs(t, store.DeletePlayer(ctx, p.ID), roster.ErrPlayerNotFound)
}

func TestReorder(t *testing.T) {
	store, _ := setupTestDB(t)
	ctx := context.Background()

	a := addActive(t, store, "A")
	b := addActive(t, store, "B")
	c := addActive(t, store, "C")

	require.NoError(t, store.Reorder(ctx, []string{c.ID, a.ID}))

	players, err := store.GetPlayers(ctx, false)
	require.NoError(t, err)
	require.Len(t, players, 3)
	assert.Equal(t, []string{c.ID, a.ID, b.ID}, []string{players[0].ID, players[1].ID, players[2].ID})

	err = store.Reorder(ctx, []string{b.ID, "missing"})
	assert.ErrorIs(t, err, roster.ErrPlayerNotFound)

	// A failed reorder leaves the previous order in place.
	players, err = store.GetPlayers(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, c.ID, players[0].ID)
}

func TestSeedIfEmpty(t *testing.T) {
	store, _ := setupTestDB(t)
	ctx := context.Background()

	n, err := store.SeedIfEmpty(ctx, roster.DefaultPlayers)
	require.NoError(t, err)
	assert.Equal(t, len(roster.DefaultPlayers), n)

	n, err = store.SeedIfEmpty(ctx, roster.DefaultPlayers)
	require.NoError(t, err)
	assert.Zero(t, n, "a populated roster is left alone")

	active, err := store.GetPlayers(ctx, true)
	require.NoError(t, err)
	assert.Len(t, active, roster.MaxActivePlayers)
	assert.Equal(t, "Mirko", active[0].Name)
}
