package planner

import (
	"context"
	"testing"
	"time"

	"github.com/mauv0809/team-planner/internal/availability"
	"github.com/mauv0809/team-planner/internal/metrics"
	"github.com/mauv0809/team-planner/internal/roster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoller_SkipsTicksWhileUserIsActive(t *testing.T) {
	rosterMock := roster.NewMock()
	availMock := availability.NewMock()
	fetches := 0
	availMock.GetAvailabilityForDateFunc = func(ctx context.Context, date string) ([]availability.PlayerAvailability, error) {
		fetches++
		return []availability.PlayerAvailability{}, nil
	}
	sched := NewManualScheduler(epoch)
	m := metrics.NewMock()
	p := New(StoreSource{Roster: rosterMock, Availability: availMock}, sched, m, testWindow[:1], Options{})
	poller := NewPoller(p, sched, DefaultPollInterval, m)

	poller.Start(context.Background())
	t.Cleanup(poller.Stop)
	assert.Equal(t, 1, fetches, "refreshes immediately on start")
	assert.Equal(t, 1, m.Polls())

	sched.Advance(DefaultPollInterval)
	assert.Equal(t, 2, fetches)

	sched.Advance(4 * time.Second)
	s, _ := p.Session(testWindow[0])
	s.ToggleCell("p1", "19")
	sched.Advance(time.Second)
	assert.Equal(t, 2, fetches, "no refresh while editing")
	assert.Equal(t, 1, m.PollsSkipped())

	sched.Advance(DefaultPollInterval)
	assert.Equal(t, 3, fetches)
	assert.Equal(t, 3, m.Polls())
}

func TestPoller_StopCancelsTicks(t *testing.T) {
	sched := NewManualScheduler(epoch)
	m := metrics.NewMock()
	p := New(StoreSource{Roster: roster.NewMock(), Availability: availability.NewMock()}, sched, m, testWindow, Options{})
	poller := NewPoller(p, sched, 0, m)

	poller.Start(context.Background())
	poller.Start(context.Background())
	require.Equal(t, 1, m.Polls(), "a second Start is a no-op")

	poller.Stop()
	sched.Advance(time.Minute)
	assert.Equal(t, 1, m.Polls())
	assert.Zero(t, sched.Pending())
}
