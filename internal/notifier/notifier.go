package notifier

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/team-planner/internal/opportunity"
)

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// SendOpportunities announces the practice windows of a day.
	SendOpportunities(ctx context.Context, date string, opps []opportunity.Opportunity, dryRun bool) error
	// SendDayCleared tells the team a day's availability was wiped.
	SendDayCleared(ctx context.Context, date string, dryRun bool) error
}

// LogNotifier only logs. It is used when no chat integration is configured.
type LogNotifier struct{}

var _ Notifier = LogNotifier{}

func (LogNotifier) SendOpportunities(ctx context.Context, date string, opps []opportunity.Opportunity, dryRun bool) error {
	labels := make([]string, 0, len(opps))
	for _, o := range opps {
		labels = append(labels, o.Label())
	}
	log.Info("Practice windows found", "date", date, "windows", labels)
	return nil
}

func (LogNotifier) SendDayCleared(ctx context.Context, date string, dryRun bool) error {
	log.Info("Day cleared", "date", date)
	return nil
}
