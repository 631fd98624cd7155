package availability_test

import (
	"context"
	"testing"

	"github.com/mauv0809/team-planner/internal/availability"
	"github.com/mauv0809/team-planner/internal/database"
	"github.com/mauv0809/team-planner/internal/roster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const day = "2026-10-23"

type fixture struct {
	store   availability.AvailabilityStore
	roster  roster.RosterStore
	players []roster.Player
}

// setupTestDB creates an in-memory database with three active players and one inactive.
func setupTestDB(t *testing.T) fixture {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "", "")
	require.NoError(t, err)
	t.Cleanup(teardown)

	ctx := context.Background()
	rs := roster.New(db)
	var players []roster.Player
	for _, name := range []string{"Mirko", "Toby", "Tom"} {
		p, err := rs.AddPlayer(ctx, name, roster.RolePlayer)
		require.NoError(t, err)
		require.NoError(t, rs.SetActive(ctx, p.ID, true))
		players = append(players, *p)
	}
	_, err = rs.AddPlayer(ctx, "Bench", roster.RolePlayer)
	require.NoError(t, err)

	return fixture{store: availability.New(db), roster: rs, players: players}
}

func TestGetAvailabilityForDate_ActivePlayersWithEmptyHours(t *testing.T) {
	f := setupTestDB(t)

	matrix, err := f.store.GetAvailabilityForDate(context.Background(), day)
	require.NoError(t, err)
	require.Len(t, matrix, 3, "inactive players are not part of the grid")
	for i, pa := range matrix {
		assert.Equal(t, f.players[i].ID, pa.Player.ID)
		assert.NotNil(t, pa.Hours)
		assert.Empty(t, pa.Hours)
	}
	assert.False(t, availability.HasData(matrix))
}

func TestUpdateIndividualStatus_CreatesAndMerges(t *testing.T) {
	f := setupTestDB(t)
	ctx := context.Background()
	p := f.players[0].ID

	require.NoError(t, f.store.UpdateIndividualStatus(ctx, p, day, "19", availability.StatusReady))
	require.NoError(t, f.store.UpdateIndividualStatus(ctx, p, day, "20", availability.StatusUncertain))
	require.NoError(t, f.store.UpdateIndividualStatus(ctx, p, day, "19", availability.StatusUnready))

	matrix, err := f.store.GetAvailabilityForDate(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, map[string]availability.Status{
		"19": availability.StatusUnready,
		"20": availability.StatusUncertain,
	}, matrix[0].Hours)
	assert.Empty(t, matrix[1].Hours)

	other, err := f.store.GetAvailabilityForDate(ctx, "2026-10-24")
	require.NoError(t, err)
	assert.False(t, availability.HasData(other), "records are per date")
}

func TestUpdateIndividualStatus_Validation(t *testing.T) {
	f := setupTestDB(t)
	ctx := context.Background()
	p := f.players[0].ID

	assert.ErrorIs(t, f.store.UpdateIndividualStatus(ctx, p, "tomorrow", "19", availability.StatusReady), availability.ErrInvalidDate)
	assert.ErrorIs(t, f.store.UpdateIndividualStatus(ctx, p, day, "25", availability.StatusReady), availability.ErrInvalidHour)
	assert.ErrorIs(t, f.store.UpdateIndividualStatus(ctx, p, day, "19", availability.Status("maybe")), availability.ErrInvalidStatus)
	assert.ErrorIs(t, f.store.UpdateIndividualStatus(ctx, "ghost", day, "19", availability.StatusReady), roster.ErrPlayerNotFound)
}

func TestUpdateBulkStatus(t *testing.T) {
	f := setupTestDB(t)
	ctx := context.Background()
	p := f.players[1].ID

	require.NoError(t, f.store.UpdateIndividualStatus(ctx, p, day, "18", availability.StatusUnready))
	require.NoError(t, f.store.UpdateBulkStatus(ctx, p, day, []string{"19", "20", "21"}, availability.StatusReady))

	matrix, err := f.store.GetAvailabilityForDate(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, map[string]availability.Status{
		"18": availability.StatusUnready,
		"19": availability.StatusReady,
		"20": availability.StatusReady,
		"21": availability.StatusReady,
	}, matrix[1].Hours)
}

func TestSetDayStatusAndDeleteDay(t *testing.T) {
	f := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, f.store.SetDayStatus(ctx, day, availability.DefaultHours, availability.StatusUncertain))
	require.NoError(t, f.store.UpdateIndividualStatus(ctx, f.players[0].ID, "2026-10-24", "19", availability.StatusReady))

	matrix, err := f.store.GetAvailabilityForDate(ctx, day)
	require.NoError(t, err)
	for _, pa := range matrix {
		assert.Len(t, pa.Hours, len(availability.DefaultHours))
		assert.Equal(t, availability.StatusUncertain, pa.StatusAt("22"))
	}

	n, err := f.store.DeleteDay(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	matrix, err = f.store.GetAvailabilityForDate(ctx, day)
	require.NoError(t, err)
	assert.False(t, availability.HasData(matrix))

	next, err := f.store.GetAvailabilityForDate(ctx, "2026-10-24")
	require.NoError(t, err)
	assert.True(t, availability.HasData(next), "other days are untouched")
}

func TestGetAvailabilityForDates(t *testing.T) {
	f := setupTestDB(t)
	ctx := context.Background()
	require.NoError(t, f.store.UpdateIndividualStatus(ctx, f.players[2].ID, "2026-10-24", "21", availability.StatusReady))

	window, err := f.store.GetAvailabilityForDates(ctx, []string{day, "2026-10-24"})
	require.NoError(t, err)
	assert.Len(t, window, 2)
	assert.False(t, availability.HasData(window[day]))
	assert.Equal(t, availability.StatusReady, window["2026-10-24"][2].StatusAt("21"))
}

func TestAnnouncements(t *testing.T) {
	f := setupTestDB(t)
	ctx := context.Background()

	sig, err := f.store.LastAnnouncement(ctx, day)
	require.NoError(t, err)
	assert.Empty(t, sig)

	require.NoError(t, f.store.RecordAnnouncement(ctx, day, "19-20:a,b"))
	require.NoError(t, f.store.RecordAnnouncement(ctx, day, "20-21:a,b"))
	sig, err = f.store.LastAnnouncement(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, "20-21:a,b", sig)

	require.NoError(t, f.store.ForgetAnnouncement(ctx, day))
	sig, err = f.store.LastAnnouncement(ctx, day)
	require.NoError(t, err)
	assert.Empty(t, sig)
}
