package processor

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/worldcup-sim/internal/elo"
	"github.com/mauv0809/worldcup-sim/internal/metrics"
	"github.com/mauv0809/worldcup-sim/internal/pubsub"
	"github.com/mauv0809/worldcup-sim/internal/ratings"
	"github.com/mauv0809/worldcup-sim/internal/results"
	"github.com/mauv0809/worldcup-sim/internal/tournament"
)

// New creates a new Processor. counters, notifier and pubsub may be nil.
func New(store Store, counters metrics.MetricsStore, notifier Notifier, metrics metrics.Metrics, pubsub pubsub.PubSubClient) *Processor {
	return &Processor{
		store:    store,
		counters: counters,
		pubsub:   pubsub,
		notifier: notifier,
		metrics:  metrics,
	}
}

// ProcessRun simulates the tournament as described by req. Outside a dry run the
// summary is stored and published; the forecast is posted when req.Notify is set.
// Storage, Slack and Pub/Sub failures after the run are logged, not returned.
func (p *Processor) ProcessRun(ctx context.Context, req Request, dryRun bool) (*tournament.Summary, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	layout := tournament.WorldCup2022()
	table, err := loadTable(req.RatingsFile)
	if err != nil {
		return nil, err
	}
	if req.HostBonus != 0 {
		if table, err = table.WithHostBonus(layout.Host, req.HostBonus); err != nil {
			return nil, fmt.Errorf("failed to apply host bonus: %w", err)
		}
	}

	baseline, err := p.baseline(req)
	if err != nil {
		return nil, err
	}

	runner, err := tournament.NewRunner(layout, table, baseline,
		tournament.WithSeed(req.Seed),
		tournament.WithModel(elo.NewModel(req.KFactor)),
		tournament.WithFocusTeam(req.FocusTeam),
		tournament.WithMetrics(p.metrics),
		tournament.WithRowExport(req.KeepTrialMatches),
	)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	summary, err := runner.Run(ctx, req.Iterations, req.RandomizeGroups)
	if err != nil {
		return nil, err
	}
	p.metrics.IncRuns()
	p.metrics.ObserveRunDuration(time.Since(start).Seconds())
	if p.counters != nil {
		p.counters.Increment(metrics.KeyRunsCompleted)
		p.counters.Add(metrics.KeyTrialsCompleted, summary.Iterations)
	}

	if dryRun {
		log.Info("[Dry Run] Skipping storage and publishing", "run_id", summary.RunID)
	} else {
		if err := p.store.SaveRun(summary, req.KeepTrialMatches); err != nil {
			log.Error("Failed to store run", "error", err, "run_id", summary.RunID)
		}
		if p.pubsub != nil {
			if err := p.pubsub.SendMessage(ctx, pubsub.EventSimulationCompleted, pubsub.NewSimulationCompleted(summary)); err != nil {
				log.Error("Failed to publish run", "error", err, "run_id", summary.RunID)
			}
		}
	}

	if req.Notify && p.notifier != nil {
		if err := p.notifier.SendForecast(summary, req.Top, dryRun); err != nil {
			log.Error("Failed to send forecast", "error", err, "run_id", summary.RunID)
		}
	}
	return summary, nil
}

// ProcessFixture estimates the outcome distribution of one fixture. Known
// results are not applied, so the odds reflect the ratings alone.
func (p *Processor) ProcessFixture(ctx context.Context, req FixtureRequest, dryRun bool) (*tournament.FixtureOdds, error) {
	if ratings.Normalize(req.Home) == ratings.Normalize(req.Away) {
		return nil, fmt.Errorf("%w: %s", ErrSameTeam, req.Home)
	}
	if !req.Stage.Valid() {
		return nil, fmt.Errorf("%w: %q", results.ErrInvalidStage, req.Stage)
	}
	table, err := loadTable(req.RatingsFile)
	if err != nil {
		return nil, err
	}

	runner, err := tournament.NewRunner(tournament.WorldCup2022(), table, nil,
		tournament.WithSeed(req.Seed),
		tournament.WithModel(elo.NewModel(req.KFactor)),
	)
	if err != nil {
		return nil, err
	}
	odds, err := runner.RunFixture(ctx, req.Home, req.Away, req.Stage, req.Iterations)
	if err != nil {
		return nil, err
	}

	if req.Notify && p.notifier != nil {
		if err := p.notifier.SendFixtureOdds(odds, dryRun); err != nil {
			log.Error("Failed to send fixture odds", "error", err)
		}
	}
	return odds, nil
}

// baseline merges the known results file with the results stored in the
// database, the database winning on conflicts.
func (p *Processor) baseline(req Request) (*results.Cache, error) {
	baseline := results.New()
	if req.BaselineFile != "" {
		fromFile, err := results.LoadFile(req.BaselineFile, req.StrictResults)
		if err != nil {
			return nil, err
		}
		baseline = fromFile
	}

	if p.store == nil {
		return baseline, nil
	}
	known, err := p.store.GetKnownResults()
	if err != nil {
		return nil, fmt.Errorf("failed to get known results: %w", err)
	}
	fromDB, err := results.FromResults(known, req.StrictResults)
	if err != nil {
		return nil, err
	}
	if err := baseline.Merge(fromDB); err != nil {
		return nil, err
	}
	log.Debug("Built baseline", "known_results", baseline.Len())
	return baseline, nil
}

func loadTable(path string) (ratings.Table, error) {
	if path == "" {
		return ratings.Default2022(), nil
	}
	return ratings.LoadFile(path)
}
