package runs

import (
	"github.com/mauv0809/worldcup-sim/internal/results"
	"github.com/mauv0809/worldcup-sim/internal/tournament"
)

// RunStore persists simulation runs and the results known before a run starts.
type RunStore interface {
	SaveRun(summary *tournament.Summary, withTrialMatches bool) error
	GetRuns(limit int) ([]RunInfo, error)
	GetRun(runID string) (*RunInfo, error)
	GetWinShares(runID string) ([]tournament.Share, error)
	GetFocusStats(runID string) (map[string]int, error)
	GetTrialMatches(runID string, trial int) ([]results.Row, error)
	UpsertKnownResult(result results.Result) error
	GetKnownResults() ([]results.Result, error)
	ClearKnownResults() error
}
