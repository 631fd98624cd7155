package planner

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/team-planner/internal/metrics"
)

// Poller refreshes a Planner on a fixed interval. Ticks are skipped while
// the user is editing so fresh snapshots do not fight local edits.
type Poller struct {
	planner  *Planner
	sched    Scheduler
	interval time.Duration
	metrics  metrics.Metrics

	mu      sync.Mutex
	running bool
	timer   Timer
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewPoller creates a stopped poller.
func NewPoller(p *Planner, sched Scheduler, interval time.Duration, m metrics.Metrics) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		planner:  p,
		sched:    sched,
		interval: interval,
		metrics:  m,
	}
}

// Start refreshes once right away, then on every interval until Stop or ctx
// is done.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}
	p.running = true
	p.ctx, p.cancel = context.WithCancel(ctx)
	p.mu.Unlock()

	log.Info("Starting availability poller", "interval", p.interval)
	p.refresh()
	p.scheduleNext()
}

// Stop cancels the next tick and any refresh in flight.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return
	}
	p.running = false
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.cancel()
	log.Info("Stopped availability poller")
}

func (p *Poller) tick() {
	if p.planner.Activity().Active() {
		p.metrics.IncPollsSkipped()
		log.Debug("Skipping refresh while the user is editing")
	} else {
		p.refresh()
	}
	p.scheduleNext()
}

func (p *Poller) refresh() {
	p.mu.Lock()
	ctx := p.ctx
	p.mu.Unlock()
	if ctx.Err() != nil {
		return
	}

	p.metrics.IncPolls()
	if err := p.planner.Refresh(ctx); err != nil {
		log.Warn("Refresh finished with errors", "error", err)
	}
}

func (p *Poller) scheduleNext() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running || p.ctx.Err() != nil {
		return
	}
	p.timer = p.sched.AfterFunc(p.interval, p.tick)
}
