package metrics

import (
	"context"
	"testing"

	"github.com/mauv0809/team-planner/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) MetricsStore {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "", "")
	require.NoError(t, err)
	t.Cleanup(teardown)

	return New(db)
}

func TestIncrementAndGetAll(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	counters, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, counters)

	store.Increment(ctx, KeyDaysDeleted)
	store.Increment(ctx, KeyDaysDeleted)
	store.Increment(ctx, KeyPlayersAdded)

	counters, err = store.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		KeyDaysDeleted:  2,
		KeyPlayersAdded: 1,
	}, counters)
}
