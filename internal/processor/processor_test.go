package processor

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/mauv0809/team-planner/internal/availability"
	"github.com/mauv0809/team-planner/internal/metrics"
	"github.com/mauv0809/team-planner/internal/notifier"
	"github.com/mauv0809/team-planner/internal/opportunity"
	"github.com/mauv0809/team-planner/internal/roster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const date = "2026-10-23"

// usageRecorder is an in-memory metrics.MetricsStore.
type usageRecorder struct {
	counts map[string]int
}

func (u *usageRecorder) Increment(ctx context.Context, key string) {
	u.counts[key]++
}

func (u *usageRecorder) GetAll(ctx context.Context) (map[string]int, error) {
	return u.counts, nil
}

// day builds a matrix where the first ready players are ready for hours.
func day(ready int, hours ...string) []availability.PlayerAvailability {
	names := []string{"Mirko", "Toby", "Tom", "Denis", "Josh", "Jannis"}
	data := make([]availability.PlayerAvailability, 0, len(names))
	for i, n := range names {
		pa := availability.PlayerAvailability{
			Player: roster.Player{ID: fmt.Sprintf("p%d", i+1), Name: n, IsActive: true},
			Hours:  map[string]availability.Status{},
		}
		if i < ready {
			for _, h := range hours {
				pa.Hours[h] = availability.StatusReady
			}
		}
		data = append(data, pa)
	}
	return data
}

func setup(data *[]availability.PlayerAvailability) (*Processor, *availability.Mock, *notifier.Mock, *usageRecorder) {
	store := availability.NewMock()
	store.GetAvailabilityForDateFunc = func(ctx context.Context, d string) ([]availability.PlayerAvailability, error) {
		return *data, nil
	}
	notif := notifier.NewMock()
	usage := &usageRecorder{counts: map[string]int{}}
	return New(store, notif, usage), store, notif, usage
}

func TestProcessor_HandleAvailabilityChanged(t *testing.T) {
	ctx := context.Background()

	t.Run("announces new windows once", func(t *testing.T) {
		data := day(5, "19", "20")
		p, store, notif, usage := setup(&data)

		outcome, err := p.HandleAvailabilityChanged(ctx, date, false)
		require.NoError(t, err)
		assert.Equal(t, OutcomeAnnounced, outcome)
		require.Len(t, notif.SendOpportunitiesCalls, 1)
		assert.Equal(t, 19, notif.SendOpportunitiesCalls[0].Opps[0].StartHour)
		assert.Equal(t, 1, usage.counts[metrics.KeyAnnouncements])

		outcome, err = p.HandleAvailabilityChanged(ctx, date, false)
		require.NoError(t, err)
		assert.Equal(t, OutcomeUnchanged, outcome)
		assert.Len(t, notif.SendOpportunitiesCalls, 1, "the same windows are not announced twice")
		assert.Len(t, store.RecordAnnouncementCalls, 1)
	})

	t.Run("changed windows are announced again", func(t *testing.T) {
		data := day(5, "19", "20")
		p, _, notif, _ := setup(&data)
		_, err := p.HandleAvailabilityChanged(ctx, date, false)
		require.NoError(t, err)

		data = day(6, "19", "20", "21")
		outcome, err := p.HandleAvailabilityChanged(ctx, date, false)
		require.NoError(t, err)
		assert.Equal(t, OutcomeAnnounced, outcome)
		assert.Len(t, notif.SendOpportunitiesCalls, 2)
	})

	t.Run("windows that vanish are forgotten without a message", func(t *testing.T) {
		data := day(5, "19", "20")
		p, store, notif, _ := setup(&data)
		_, err := p.HandleAvailabilityChanged(ctx, date, false)
		require.NoError(t, err)

		data = day(4, "19", "20")
		outcome, err := p.HandleAvailabilityChanged(ctx, date, false)
		require.NoError(t, err)
		assert.Equal(t, OutcomeWithdrawn, outcome)
		assert.Len(t, notif.SendOpportunitiesCalls, 1)
		last, _ := store.LastAnnouncement(ctx, date)
		assert.Empty(t, last)
	})

	t.Run("no windows and nothing announced", func(t *testing.T) {
		data := day(3, "19", "20")
		p, _, notif, _ := setup(&data)

		outcome, err := p.HandleAvailabilityChanged(ctx, date, false)
		require.NoError(t, err)
		assert.Equal(t, OutcomeUnchanged, outcome)
		assert.Empty(t, notif.SendOpportunitiesCalls)
	})

	t.Run("dry run sends without recording", func(t *testing.T) {
		data := day(5, "21", "22")
		p, store, notif, _ := setup(&data)

		outcome, err := p.HandleAvailabilityChanged(ctx, date, true)
		require.NoError(t, err)
		assert.Equal(t, OutcomeDryRun, outcome)
		require.Len(t, notif.SendOpportunitiesCalls, 1)
		assert.True(t, notif.SendOpportunitiesCalls[0].DryRun)
		assert.Empty(t, store.RecordAnnouncementCalls)
	})

	t.Run("failed notification is not recorded", func(t *testing.T) {
		data := day(5, "19", "20")
		p, store, notif, _ := setup(&data)
		notif.SendOpportunitiesFunc = func(ctx context.Context, date string, opps []opportunity.Opportunity, dryRun bool) error {
			return errors.New("slack down")
		}

		_, err := p.HandleAvailabilityChanged(ctx, date, false)
		require.Error(t, err)
		assert.Empty(t, store.RecordAnnouncementCalls)
	})
}

func TestProcessor_HandleDayDeleted(t *testing.T) {
	ctx := context.Background()
	data := day(5, "19", "20")
	p, store, notif, _ := setup(&data)
	_, err := p.HandleAvailabilityChanged(ctx, date, false)
	require.NoError(t, err)

	require.NoError(t, p.HandleDayDeleted(ctx, date, false))

	assert.Equal(t, []string{date}, notif.SendDayClearedCalls)
	last, _ := store.LastAnnouncement(ctx, date)
	assert.Empty(t, last)

	outcome, err := p.HandleAvailabilityChanged(ctx, date, false)
	require.NoError(t, err)
	assert.Equal(t, OutcomeAnnounced, outcome, "windows found after a clear are announced again")
}

func TestProcessor_HandleDayDeletedRejectsInvalidDate(t *testing.T) {
	data := day(0)
	p, store, notif, _ := setup(&data)

	err := p.HandleDayDeleted(context.Background(), "", false)

	assert.ErrorIs(t, err, availability.ErrInvalidDate)
	assert.Empty(t, notif.SendDayClearedCalls)
	assert.Empty(t, store.RecordAnnouncementCalls)
}
