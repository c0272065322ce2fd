package processor

import (
	"sync"

	"github.com/mauv0809/worldcup-sim/internal/elo"
	"github.com/mauv0809/worldcup-sim/internal/metrics"
	"github.com/mauv0809/worldcup-sim/internal/pubsub"
	"github.com/mauv0809/worldcup-sim/internal/results"
	"github.com/mauv0809/worldcup-sim/internal/tournament"
)

var ErrSameTeam = tournament.ErrSameTeam

// Processor runs simulations and fans the outcome out to storage, Slack and Pub/Sub.
// Runs are serialized.
type Processor struct {
	mu       sync.Mutex
	store    Store
	counters metrics.MetricsStore
	pubsub   pubsub.PubSubClient
	notifier Notifier
	metrics  metrics.Metrics
}

// Request describes one simulation run.
type Request struct {
	Iterations       int     `json:"iterations"`
	Seed             int64   `json:"seed"`
	RandomizeGroups  bool    `json:"randomize_groups"`
	FocusTeam        string  `json:"focus_team"`
	HostBonus        float64 `json:"host_bonus"`
	KFactor          float64 `json:"k_factor"`
	RatingsFile      string  `json:"-"`
	BaselineFile     string  `json:"-"`
	StrictResults    bool    `json:"strict_results"`
	KeepTrialMatches bool    `json:"keep_trial_matches"`
	Notify           bool    `json:"notify"`
	Top              int     `json:"top"`
}

// DefaultRequest is a 10,000 trial run of the fixed draw.
func DefaultRequest() Request {
	return Request{
		Iterations: 10000,
		HostBonus:  elo.DefaultHostBonus,
		KFactor:    elo.DefaultKFactor,
		Top:        10,
	}
}

// FixtureRequest describes a repeated single fixture.
type FixtureRequest struct {
	Home        string        `json:"home"`
	Away        string        `json:"away"`
	Stage       results.Stage `json:"stage"`
	Iterations  int           `json:"iterations"`
	Seed        int64         `json:"seed"`
	KFactor     float64       `json:"k_factor"`
	RatingsFile string        `json:"-"`
	Notify      bool          `json:"notify"`
}
