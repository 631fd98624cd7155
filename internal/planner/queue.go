package planner

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/team-planner/internal/availability"
	"github.com/mauv0809/team-planner/internal/metrics"
)

// FlushState is the reentrancy state of a Queue.
type FlushState int

const (
	FlushIdle FlushState = iota
	FlushFlushing
)

func (s FlushState) String() string {
	if s == FlushFlushing {
		return "flushing"
	}
	return "idle"
}

type individualEntry struct {
	key     Key
	date    string
	status  availability.Status
	seq     uint64
	attempt int
}

type bulkEntry struct {
	playerID string
	date     string
	hours    []string
	status   availability.Status
	seq      uint64
	attempt  int
}

// Queue buffers edits of one day and writes them to a Backend in debounced,
// coalesced batches.
//
// Every queued edit gets a sequence number. A cell stays pending until the
// write carrying its latest sequence number succeeds, so an older write that
// lands late never clears the indicator of a newer edit.
type Queue struct {
	mu sync.Mutex

	backend     Backend
	sched       Scheduler
	metrics     metrics.Metrics
	debounce    time.Duration
	followUp    time.Duration
	maxAttempts int
	onSettled   func()

	state       FlushState
	seq         uint64
	individual  map[Key]individualEntry
	bulk        map[string]bulkEntry
	pending     map[Key]uint64
	bulkPending map[string]uint64
	timer       Timer
}

// NewQueue creates an idle queue. onSettled, if set, is called after every
// flush once all of its writes have completed.
func NewQueue(backend Backend, sched Scheduler, m metrics.Metrics, opts Options, onSettled func()) *Queue {
	opts = opts.withDefaults()
	return &Queue{
		backend:     backend,
		sched:       sched,
		metrics:     m,
		debounce:    opts.Debounce,
		followUp:    opts.FollowUp,
		maxAttempts: opts.MaxAttempts,
		onSettled:   onSettled,
		individual:  make(map[Key]individualEntry),
		bulk:        make(map[string]bulkEntry),
		pending:     make(map[Key]uint64),
		bulkPending: make(map[string]uint64),
	}
}

// QueueIndividual queues status for one cell, replacing any queued value.
func (q *Queue) QueueIndividual(playerID, date, hour string, status availability.Status) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.seq++
	key := Key{PlayerID: playerID, Hour: hour}
	q.individual[key] = individualEntry{key: key, date: date, status: status, seq: q.seq, attempt: 1}
	q.pending[key] = q.seq

	// A queued bulk write for the player must not race this newer value.
	if b, ok := q.bulk[playerID]; ok {
		b.hours = slices.DeleteFunc(slices.Clone(b.hours), func(h string) bool { return h == hour })
		if len(b.hours) == 0 {
			delete(q.bulk, playerID)
		} else {
			q.bulk[playerID] = b
		}
	}
	q.armLocked(q.debounce)
}

// QueueBulk queues one status for several hours of a player, replacing any
// queued bulk write for that player.
func (q *Queue) QueueBulk(playerID, date string, hours []string, status availability.Status) {
	if len(hours) == 0 {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()

	q.seq++
	q.bulk[playerID] = bulkEntry{
		playerID: playerID,
		date:     date,
		hours:    slices.Clone(hours),
		status:   status,
		seq:      q.seq,
		attempt:  1,
	}
	q.bulkPending[playerID] = q.seq
	for _, h := range hours {
		key := Key{PlayerID: playerID, Hour: h}
		q.pending[key] = q.seq
		delete(q.individual, key)
	}
	q.armLocked(q.debounce)
}

// Flush drains the queue and writes every entry concurrently, returning once
// all writes completed. A flush started while another is running is a no-op;
// the running flush schedules a follow-up for whatever is left.
func (q *Queue) Flush(ctx context.Context) {
	q.mu.Lock()
	if q.state == FlushFlushing {
		q.mu.Unlock()
		return
	}
	q.stopTimerLocked()
	if len(q.individual) == 0 && len(q.bulk) == 0 {
		q.mu.Unlock()
		return
	}
	q.state = FlushFlushing
	individual, bulk := q.individual, q.bulk
	q.individual = make(map[Key]individualEntry)
	q.bulk = make(map[string]bulkEntry)
	q.mu.Unlock()

	start := time.Now()
	var wg sync.WaitGroup
	for _, e := range individual {
		wg.Add(1)
		go func(e individualEntry) {
			defer wg.Done()
			err := q.backend.UpdateIndividualStatus(ctx, e.key.PlayerID, e.date, e.key.Hour, e.status)
			q.settleIndividual(e, err)
		}(e)
	}
	for _, e := range bulk {
		wg.Add(1)
		go func(e bulkEntry) {
			defer wg.Done()
			err := q.backend.UpdateBulkStatus(ctx, e.playerID, e.date, e.hours, e.status)
			q.settleBulk(e, err)
		}(e)
	}
	wg.Wait()

	q.metrics.IncFlushes()
	q.metrics.ObserveFlushDuration(time.Since(start).Seconds())
	log.Debug("Flushed availability writes", "individual", len(individual), "bulk", len(bulk))

	q.mu.Lock()
	q.state = FlushIdle
	if len(q.individual) > 0 || len(q.bulk) > 0 {
		q.armLocked(q.followUp)
	}
	onSettled := q.onSettled
	q.mu.Unlock()

	if onSettled != nil {
		onSettled()
	}
}

func (q *Queue) settleIndividual(e individualEntry, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	current := q.pending[e.key] == e.seq
	if err == nil {
		q.metrics.IncWrites(metrics.WriteIndividual)
		if current {
			delete(q.pending, e.key)
		}
		return
	}

	q.metrics.IncWriteFailures(metrics.WriteIndividual)
	log.Error("Failed to write availability", "player", e.key.PlayerID, "date", e.date, "hour", e.key.Hour, "status", e.status, "attempt", e.attempt, "error", err)
	if !current {
		return
	}
	if _, queued := q.individual[e.key]; queued {
		return
	}
	if e.attempt >= q.maxAttempts {
		log.Warn("Giving up on availability write, cell stays pending", "player", e.key.PlayerID, "date", e.date, "hour", e.key.Hour)
		return
	}
	e.attempt++
	q.individual[e.key] = e
}

func (q *Queue) settleBulk(e bulkEntry, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if err == nil {
		q.metrics.IncWrites(metrics.WriteBulk)
		for _, h := range e.hours {
			key := Key{PlayerID: e.playerID, Hour: h}
			if q.pending[key] == e.seq {
				delete(q.pending, key)
			}
		}
		if q.bulkPending[e.playerID] == e.seq {
			delete(q.bulkPending, e.playerID)
		}
		return
	}

	q.metrics.IncWriteFailures(metrics.WriteBulk)
	log.Error("Failed to write bulk availability", "player", e.playerID, "date", e.date, "hours", e.hours, "status", e.status, "attempt", e.attempt, "error", err)
	if q.bulkPending[e.playerID] != e.seq {
		return
	}
	if _, queued := q.bulk[e.playerID]; queued {
		return
	}
	if e.attempt >= q.maxAttempts {
		log.Warn("Giving up on bulk availability write, cells stay pending", "player", e.playerID, "date", e.date)
		return
	}
	// Hours edited individually since then are carried by their own writes.
	e.hours = slices.DeleteFunc(slices.Clone(e.hours), func(h string) bool {
		return q.pending[Key{PlayerID: e.playerID, Hour: h}] != e.seq
	})
	if len(e.hours) == 0 {
		return
	}
	e.attempt++
	q.bulk[e.playerID] = e
}

// Clear drops queued writes and pending markers and stops the debounce timer.
// Writes already in flight still complete but no longer touch any marker.
func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.stopTimerLocked()
	q.individual = make(map[Key]individualEntry)
	q.bulk = make(map[string]bulkEntry)
	q.pending = make(map[Key]uint64)
	q.bulkPending = make(map[string]uint64)
}

// Stop cancels the debounce timer without dropping queued writes.
func (q *Queue) Stop() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.stopTimerLocked()
}

// IsPending reports whether a write for key has not yet succeeded.
func (q *Queue) IsPending(key Key) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	_, ok := q.pending[key]
	return ok
}

// IsBulkPending reports whether a bulk write for the player has not yet succeeded.
func (q *Queue) IsBulkPending(playerID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	_, ok := q.bulkPending[playerID]
	return ok
}

// HasPending reports whether any write is queued, in flight or stuck.
func (q *Queue) HasPending() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending) > 0 || len(q.bulkPending) > 0 || len(q.individual) > 0 || len(q.bulk) > 0
}

// Queued returns the number of entries waiting for the next flush.
func (q *Queue) Queued() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.individual) + len(q.bulk)
}

// State returns the current flush state.
func (q *Queue) State() FlushState {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state
}

func (q *Queue) armLocked(d time.Duration) {
	q.stopTimerLocked()
	q.timer = q.sched.AfterFunc(d, func() { q.Flush(context.Background()) })
}

func (q *Queue) stopTimerLocked() {
	if q.timer != nil {
		q.timer.Stop()
		q.timer = nil
	}
}
