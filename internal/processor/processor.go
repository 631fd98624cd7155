package processor

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/team-planner/internal/availability"
	"github.com/mauv0809/team-planner/internal/metrics"
	"github.com/mauv0809/team-planner/internal/opportunity"
)

// New creates a new Processor.
func New(store Store, notifier Notifier, usage metrics.MetricsStore) *Processor {
	return &Processor{
		store:    store,
		notifier: notifier,
		usage:    usage,
	}
}

// HandleAvailabilityChanged recomputes the practice windows of date from
// stored data and announces them when they differ from the last
// announcement. A day that lost all its windows is forgotten silently so the
// next window found is announced again.
func (p *Processor) HandleAvailabilityChanged(ctx context.Context, date string, dryRun bool) (Outcome, error) {
	data, err := p.store.GetAvailabilityForDate(ctx, date)
	if err != nil {
		return "", fmt.Errorf("failed to load availability for %s: %w", date, err)
	}
	opps := opportunity.FindInMatrix(data)
	signature := opportunity.Signature(opps)

	last, err := p.store.LastAnnouncement(ctx, date)
	if err != nil {
		return "", fmt.Errorf("failed to load last announcement for %s: %w", date, err)
	}
	if signature == last {
		log.Debug("Practice windows unchanged", "date", date, "windows", len(opps))
		return OutcomeUnchanged, nil
	}

	if len(opps) == 0 {
		log.Info("Practice windows gone", "date", date)
		if dryRun {
			return OutcomeDryRun, nil
		}
		if err := p.store.ForgetAnnouncement(ctx, date); err != nil {
			return "", fmt.Errorf("failed to forget announcement for %s: %w", date, err)
		}
		return OutcomeWithdrawn, nil
	}

	log.Info("Announcing practice windows", "date", date, "windows", len(opps), "dryRun", dryRun)
	if err := p.notifier.SendOpportunities(ctx, date, opps, dryRun); err != nil {
		return "", fmt.Errorf("failed to announce practice windows for %s: %w", date, err)
	}
	if dryRun {
		return OutcomeDryRun, nil
	}
	if err := p.store.RecordAnnouncement(ctx, date, signature); err != nil {
		return "", fmt.Errorf("failed to record announcement for %s: %w", date, err)
	}
	p.usage.Increment(ctx, metrics.KeyAnnouncements)
	return OutcomeAnnounced, nil
}

// HandleDayDeleted tells the team a day was cleared and forgets its announcement.
func (p *Processor) HandleDayDeleted(ctx context.Context, date string, dryRun bool) error {
	if err := availability.ValidateDate(date); err != nil {
		return err
	}
	log.Info("Announcing cleared day", "date", date, "dryRun", dryRun)
	if err := p.notifier.SendDayCleared(ctx, date, dryRun); err != nil {
		return fmt.Errorf("failed to announce cleared day %s: %w", date, err)
	}
	if dryRun {
		return nil
	}
	if err := p.store.ForgetAnnouncement(ctx, date); err != nil {
		return fmt.Errorf("failed to forget announcement for %s: %w", date, err)
	}
	return nil
}
