package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/worldcup-sim/internal/metrics"
	"github.com/mauv0809/worldcup-sim/internal/notifier"
	"github.com/mauv0809/worldcup-sim/internal/tournament"
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
	store     metrics.MetricsStore
}

// NewNotifier creates a new Notifier. store may be nil.
func NewNotifier(token, channelID string, metrics metrics.Metrics, store metrics.MetricsStore) *Notifier {
	return NewNotifierWithAPI(slack.New(token), channelID, metrics, store)
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics, store metrics.MetricsStore) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
		store:     store,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
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
	if s.store != nil {
		s.store.Increment(metrics.KeySlackNotificationsOK)
	}
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

// SendForecast posts the top champions of a run.
func (s *Notifier) SendForecast(summary *tournament.Summary, top int, dryRun bool) error {
	_, _, err := s.sendMessage(s.formatForecast(summary, top), dryRun)
	return err
}

// SendFixtureOdds posts the outcome distribution of a single fixture.
func (s *Notifier) SendFixtureOdds(odds *tournament.FixtureOdds, dryRun bool) error {
	_, _, err := s.sendMessage(s.formatFixtureOdds(odds), dryRun)
	return err
}

// FormatForecastResponse formats a forecast for an HTTP or slash command response.
func (s *Notifier) FormatForecastResponse(summary *tournament.Summary, top int) (any, error) {
	return s.formatForecast(summary, top), nil
}

func (s *Notifier) formatForecast(summary *tournament.Summary, top int) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", fmt.Sprintf("🏆 %s forecast 🏆", summary.Tournament), true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	shares := summary.Shares()
	if top > 0 && len(shares) > top {
		shares = shares[:top]
	}
	var lines []string
	for i, share := range shares {
		lines = append(lines, fmt.Sprintf("%d. *%s* %.1f%%", i+1, displayName(share.Team), share.Share*100))
	}
	if len(lines) == 0 {
		lines = append(lines, "_No champions recorded._")
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", strings.Join(lines, "\n"), false, false), nil, nil))

	if summary.FocusTeam != "" {
		var focus []string
		for _, stat := range tournament.FocusStatNames {
			focus = append(focus, fmt.Sprintf("• %s: %.1f%%", strings.ReplaceAll(stat, "_", " "), summary.FocusShare(stat)*100))
		}
		text := fmt.Sprintf("*%s*\n%s", displayName(summary.FocusTeam), strings.Join(focus, "\n"))
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil))
	}

	contextText := fmt.Sprintf("%d trials · group draw rate %.1f%% · seed %d", summary.Iterations, summary.DrawRate()*100, summary.Seed)
	blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", contextText, true, false)))

	return slack.NewBlockMessage(blocks...)
}

func (s *Notifier) formatFixtureOdds(odds *tournament.FixtureOdds) slack.Message {
	home, away, draw := odds.Shares()
	headerText := slack.NewTextBlockObject("plain_text", fmt.Sprintf("%s vs %s", displayName(odds.Home), displayName(odds.Away)), true, false)

	lines := []string{
		fmt.Sprintf("%s win: %.1f%%", displayName(odds.Home), home*100),
		fmt.Sprintf("%s win: %.1f%%", displayName(odds.Away), away*100),
	}
	if odds.Stage.AllowsDraw() {
		lines = append(lines, fmt.Sprintf("Draw: %.1f%%", draw*100))
	}
	return slack.NewBlockMessage(
		slack.NewHeaderBlock(headerText),
		slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", strings.Join(lines, "\n"), true, false), nil, nil),
		slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", fmt.Sprintf("%s · %d trials", odds.Stage, odds.Iterations), true, false)),
	)
}

// displayName turns "saudi_arabia" into "Saudi Arabia".
func displayName(team string) string {
	words := strings.Fields(strings.ReplaceAll(team, "_", " "))
	for i, w := range words {
		if w == "usa" {
			words[i] = "USA"
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
