package planner

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mauv0809/team-planner/internal/availability"
	"github.com/mauv0809/team-planner/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestQueue(backend Backend, onSettled func()) (*Queue, *ManualScheduler, *metrics.Mock) {
	sched := NewManualScheduler(epoch)
	m := metrics.NewMock()
	return NewQueue(backend, sched, m, Options{}, onSettled), sched, m
}

func TestQueue_CoalescesEditsWithinDebounce(t *testing.T) {
	backend := availability.NewMock()
	q, sched, m := newTestQueue(backend, nil)

	q.QueueIndividual("p1", testDate, "19", availability.StatusReady)
	sched.Advance(100 * time.Millisecond)
	q.QueueIndividual("p1", testDate, "19", availability.StatusUncertain)
	sched.Advance(100 * time.Millisecond)
	q.QueueIndividual("p1", testDate, "19", availability.StatusUnready)

	sched.Advance(299 * time.Millisecond)
	assert.Empty(t, backend.UpdateIndividualStatusCalls, "debounce restarts on every edit")
	assert.True(t, q.IsPending(Key{"p1", "19"}))

	sched.Advance(time.Millisecond)
	require.Len(t, backend.UpdateIndividualStatusCalls, 1)
	assert.Equal(t, availability.IndividualCall{PlayerID: "p1", Date: testDate, Hour: "19", Status: availability.StatusUnready}, backend.UpdateIndividualStatusCalls[0])
	assert.False(t, q.IsPending(Key{"p1", "19"}))
	assert.False(t, q.HasPending())
	assert.Equal(t, 1, m.Flushes())
	assert.Equal(t, 1, m.Writes(metrics.WriteIndividual))
}

func TestQueue_OneWritePerCellInOneFlush(t *testing.T) {
	backend := availability.NewMock()
	q, sched, _ := newTestQueue(backend, nil)

	q.QueueIndividual("p1", testDate, "19", availability.StatusReady)
	q.QueueIndividual("p1", testDate, "20", availability.StatusReady)
	q.QueueIndividual("p2", testDate, "19", availability.StatusUnready)
	sched.Advance(DefaultDebounce)

	assert.Len(t, backend.UpdateIndividualStatusCalls, 3)
	assert.Equal(t, FlushIdle, q.State())
}

func TestQueue_BulkMarksEveryHourPending(t *testing.T) {
	backend := availability.NewMock()
	q, sched, m := newTestQueue(backend, nil)

	q.QueueBulk("p1", testDate, []string{"19", "20"}, availability.StatusReady)
	assert.True(t, q.IsBulkPending("p1"))
	assert.True(t, q.IsPending(Key{"p1", "19"}))
	assert.True(t, q.IsPending(Key{"p1", "20"}))

	q.QueueBulk("p1", testDate, []string{"19", "20", "21"}, availability.StatusUncertain)
	sched.Advance(DefaultDebounce)

	require.Len(t, backend.UpdateBulkStatusCalls, 1)
	assert.Equal(t, []string{"19", "20", "21"}, backend.UpdateBulkStatusCalls[0].Hours)
	assert.Equal(t, availability.StatusUncertain, backend.UpdateBulkStatusCalls[0].Status)
	assert.False(t, q.IsBulkPending("p1"))
	assert.False(t, q.IsPending(Key{"p1", "21"}))
	assert.Equal(t, 1, m.Writes(metrics.WriteBulk))
}

func TestQueue_IndividualEditAfterBulkIsNotOverwritten(t *testing.T) {
	backend := availability.NewMock()
	q, _, _ := newTestQueue(backend, nil)

	q.QueueBulk("p1", testDate, []string{"19", "20", "21"}, availability.StatusReady)
	q.QueueIndividual("p1", testDate, "20", availability.StatusUnready)
	q.Flush(context.Background())

	require.Len(t, backend.UpdateBulkStatusCalls, 1)
	assert.Equal(t, []string{"19", "21"}, backend.UpdateBulkStatusCalls[0].Hours)
	require.Len(t, backend.UpdateIndividualStatusCalls, 1)
	assert.Equal(t, availability.StatusUnready, backend.UpdateIndividualStatusCalls[0].Status)
	assert.False(t, q.HasPending())
}

func TestQueue_BulkReplacesQueuedIndividualEdits(t *testing.T) {
	backend := availability.NewMock()
	q, _, _ := newTestQueue(backend, nil)

	q.QueueIndividual("p1", testDate, "19", availability.StatusUnready)
	q.QueueBulk("p1", testDate, []string{"19", "20"}, availability.StatusReady)
	q.Flush(context.Background())

	assert.Empty(t, backend.UpdateIndividualStatusCalls)
	assert.Len(t, backend.UpdateBulkStatusCalls, 1)
}

func TestQueue_FailedWriteIsRetriedThenStaysPending(t *testing.T) {
	backend := availability.NewMock()
	backend.UpdateIndividualStatusFunc = func(ctx context.Context, playerID, date, hour string, status availability.Status) error {
		return errors.New("connection refused")
	}
	q, sched, m := newTestQueue(backend, nil)

	q.QueueIndividual("p1", testDate, "19", availability.StatusReady)
	sched.Advance(DefaultDebounce)
	assert.Len(t, backend.UpdateIndividualStatusCalls, 1)

	sched.Advance(DefaultFollowUp)
	assert.Len(t, backend.UpdateIndividualStatusCalls, 2)

	sched.Advance(DefaultFollowUp)
	assert.Len(t, backend.UpdateIndividualStatusCalls, DefaultMaxAttempts)

	sched.Advance(time.Minute)
	assert.Len(t, backend.UpdateIndividualStatusCalls, DefaultMaxAttempts, "no retries after the last attempt")
	assert.True(t, q.IsPending(Key{"p1", "19"}), "a failed write leaves the cell pending")
	assert.Equal(t, DefaultMaxAttempts, m.WriteFailures(metrics.WriteIndividual))
	assert.Zero(t, sched.Pending())
}

func TestQueue_SupersededFailureIsNotRetried(t *testing.T) {
	backend := availability.NewMock()
	var q *Queue
	var calls atomic.Int32
	backend.UpdateIndividualStatusFunc = func(ctx context.Context, playerID, date, hour string, status availability.Status) error {
		if calls.Add(1) == 1 {
			q.QueueIndividual(playerID, date, hour, availability.StatusUncertain)
			return errors.New("timeout")
		}
		return nil
	}
	q, sched, _ := newTestQueue(backend, nil)

	q.QueueIndividual("p1", testDate, "19", availability.StatusReady)
	sched.Advance(DefaultDebounce)
	assert.True(t, q.IsPending(Key{"p1", "19"}))

	sched.Advance(DefaultFollowUp)
	require.Len(t, backend.UpdateIndividualStatusCalls, 2)
	assert.Equal(t, availability.StatusReady, backend.UpdateIndividualStatusCalls[0].Status)
	assert.Equal(t, availability.StatusUncertain, backend.UpdateIndividualStatusCalls[1].Status)
	assert.False(t, q.IsPending(Key{"p1", "19"}))
}

func TestQueue_EditDuringFlushRunsInFollowUp(t *testing.T) {
	backend := availability.NewMock()
	var q *Queue
	var calls atomic.Int32
	backend.UpdateIndividualStatusFunc = func(ctx context.Context, playerID, date, hour string, status availability.Status) error {
		if calls.Add(1) == 1 {
			q.QueueIndividual(playerID, date, hour, availability.StatusUnready)
		}
		return nil
	}
	q, sched, m := newTestQueue(backend, nil)

	q.QueueIndividual("p1", testDate, "19", availability.StatusReady)
	sched.Advance(DefaultDebounce)

	require.Len(t, backend.UpdateIndividualStatusCalls, 1)
	assert.True(t, q.IsPending(Key{"p1", "19"}), "the older write must not clear the newer edit")

	sched.Advance(DefaultFollowUp - time.Millisecond)
	assert.Len(t, backend.UpdateIndividualStatusCalls, 1)

	sched.Advance(time.Millisecond)
	require.Len(t, backend.UpdateIndividualStatusCalls, 2)
	assert.Equal(t, availability.StatusUnready, backend.UpdateIndividualStatusCalls[1].Status)
	assert.False(t, q.IsPending(Key{"p1", "19"}))
	assert.Equal(t, 2, m.Flushes())
}

func TestQueue_FlushIsNotReentrant(t *testing.T) {
	backend := availability.NewMock()
	var q *Queue
	var stateDuringWrite FlushState
	backend.UpdateIndividualStatusFunc = func(ctx context.Context, playerID, date, hour string, status availability.Status) error {
		stateDuringWrite = q.State()
		q.Flush(ctx)
		return nil
	}
	q, _, m := newTestQueue(backend, nil)

	q.QueueIndividual("p1", testDate, "19", availability.StatusReady)
	q.Flush(context.Background())

	assert.Equal(t, FlushFlushing, stateDuringWrite)
	assert.Len(t, backend.UpdateIndividualStatusCalls, 1)
	assert.Equal(t, 1, m.Flushes())
	assert.Equal(t, FlushIdle, q.State())
}

func TestQueue_ClearDropsQueuedWrites(t *testing.T) {
	backend := availability.NewMock()
	q, sched, _ := newTestQueue(backend, nil)

	q.QueueIndividual("p1", testDate, "19", availability.StatusReady)
	q.QueueBulk("p2", testDate, []string{"19"}, availability.StatusReady)
	q.Clear()
	sched.Advance(time.Second)

	assert.Empty(t, backend.UpdateIndividualStatusCalls)
	assert.Empty(t, backend.UpdateBulkStatusCalls)
	assert.False(t, q.HasPending())
}

func TestQueue_OnSettledAfterEveryFlush(t *testing.T) {
	backend := availability.NewMock()
	settled := 0
	q, sched, _ := newTestQueue(backend, func() { settled++ })

	q.Flush(context.Background())
	assert.Zero(t, settled, "an empty flush settles nothing")

	q.QueueIndividual("p1", testDate, "19", availability.StatusReady)
	sched.Advance(DefaultDebounce)
	assert.Equal(t, 1, settled)
}
