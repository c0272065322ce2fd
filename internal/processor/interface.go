package processor

import (
	"github.com/mauv0809/worldcup-sim/internal/notifier"
	"github.com/mauv0809/worldcup-sim/internal/results"
	"github.com/mauv0809/worldcup-sim/internal/tournament"
)

// Store defines the database operations required by the processor.
type Store interface {
	SaveRun(summary *tournament.Summary, withTrialMatches bool) error
	GetKnownResults() ([]results.Result, error)
}

// Notifier defines the notification operations required by the processor.
type Notifier interface {
	notifier.Notifier
}
