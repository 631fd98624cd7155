package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/team-planner/internal/calendar"
	"github.com/mauv0809/team-planner/internal/metrics"
	"github.com/mauv0809/team-planner/internal/notifier"
	"github.com/mauv0809/team-planner/internal/opportunity"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	return NewNotifierWithAPI(slack.New(token), channelID, metrics)
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(ctx context.Context, message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)
	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

func (s *Notifier) SendOpportunities(ctx context.Context, date string, opps []opportunity.Opportunity, dryRun bool) error {
	_, _, err := s.sendMessage(ctx, formatOpportunities(date, opps), dryRun)
	return err
}

func (s *Notifier) SendDayCleared(ctx context.Context, date string, dryRun bool) error {
	_, _, err := s.sendMessage(ctx, formatDayCleared(date), dryRun)
	return err
}

// formatOpportunities lists every practice window of the day, one section each.
func formatOpportunities(date string, opps []opportunity.Opportunity) slack.Message {
	blocks := make([]slack.Block, 0, len(opps)+3)

	headerText := slack.NewTextBlockObject("plain_text", fmt.Sprintf("🏐 Practice possible on %s", calendar.Display(date)), true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	for _, o := range opps {
		text := fmt.Sprintf("*%s* (%d players)\n%s", o.Label(), o.PlayerCount, strings.Join(o.Players, ", "))
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject("mrkdwn", text, false, false),
			nil, nil,
		))
	}

	blocks = append(blocks, slack.NewDividerBlock())
	blocks = append(blocks, slack.NewContextBlock(
		"",
		slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("Based on availability for %s. Uncertain players are counted.", date), false, false),
	))

	return slack.NewBlockMessage(blocks...)
}

func formatDayCleared(date string) slack.Message {
	text := slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("🧹 Availability for *%s* was cleared.", calendar.Display(date)), false, false)
	return slack.NewBlockMessage(slack.NewSectionBlock(text, nil, nil))
}
