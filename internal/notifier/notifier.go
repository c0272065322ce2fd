package notifier

import "github.com/mauv0809/worldcup-sim/internal/tournament"

// Notifier sends simulation outcomes to people.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	SendForecast(summary *tournament.Summary, top int, dryRun bool) error
	SendFixtureOdds(odds *tournament.FixtureOdds, dryRun bool) error

	// For returning the same content as a response body
	FormatForecastResponse(summary *tournament.Summary, top int) (any, error)
}
