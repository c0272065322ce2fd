package tournament

import (
	"fmt"
	"math/rand"

	"github.com/mauv0809/worldcup-sim/internal/elo"
	"github.com/mauv0809/worldcup-sim/internal/ratings"
	"github.com/mauv0809/worldcup-sim/internal/results"
)

// Trial is one simulated tournament. It owns a fork of the baseline results,
// the random stream every fixture draws from, and the group-stage tally.
type Trial struct {
	Index int
	Cache *results.Cache
	Tally Tally

	model   elo.Model
	rng     *rand.Rand
	metrics Metrics
}

// NewTrial forks baseline for trial index.
func NewTrial(index int, baseline *results.Cache, model elo.Model, rng *rand.Rand, metrics Metrics) *Trial {
	cache := baseline.Fork()
	cache.SetIteration(index)
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Trial{
		Index:   index,
		Cache:   cache,
		model:   model,
		rng:     rng,
		metrics: metrics,
	}
}

// NewEntrant creates the trial's copy of name, rated from table. The tie-break
// number is drawn here and stays fixed for the whole trial.
func (t *Trial) NewEntrant(name string, table ratings.Table) (*Entrant, error) {
	rating, err := table.Rating(name)
	if err != nil {
		return nil, err
	}
	return &Entrant{
		Name:     ratings.Normalize(name),
		Rating:   rating,
		TieBreak: t.rng.Float64(),
	}, nil
}

// Play plays home against away once. A result already in the trial's cache is
// taken as given; otherwise the outcome is drawn from the model. Either way both
// ratings are updated and the result is recorded into the cache.
func (t *Trial) Play(home, away *Entrant, stage results.Stage, detail string) (*Match, error) {
	if home == nil || away == nil {
		return nil, fmt.Errorf("%w: %s %s", ErrMissingEntrant, stage, detail)
	}

	m := &Match{
		Home:      home,
		Away:      away,
		Stage:     stage,
		Detail:    detail,
		Simulated: true,
	}

	known := elo.Unknown
	if t.Cache.Exists(home.Name, away.Name, stage) {
		winner, err := t.Cache.Lookup(home.Name, away.Name, stage)
		if err != nil {
			return nil, err
		}
		m.Simulated = false
		switch winner {
		case home.Name:
			known = elo.HomeWin
		case away.Name:
			known = elo.AwayWin
		case results.Draw:
			known = elo.Draw
		}
	}

	drawStrength := 0.0
	if stage.AllowsDraw() {
		drawStrength = t.model.DrawStrength
		t.Tally.GroupMatches++
	}

	// Drawn for cached fixtures too, so the stream does not depend on what is known.
	r := t.rng.Float64()
	res, err := t.model.Play(home.Rating, away.Rating, drawStrength, r, known, stage.AllowsDraw())
	if err != nil {
		return nil, fmt.Errorf("%s vs %s (%s %s): %w", home.Name, away.Name, stage, detail, err)
	}
	home.Rating, away.Rating = res.RatingA, res.RatingB
	m.Outcome = res.Outcome

	winnerName := results.Draw
	switch res.Outcome {
	case elo.HomeWin:
		m.Winner = home
		winnerName = home.Name
		if stage == results.StageGroup {
			home.Points += 3
			home.Won++
			away.Lost++
		}
	case elo.AwayWin:
		m.Winner = away
		winnerName = away.Name
		if stage == results.StageGroup {
			away.Points += 3
			away.Won++
			home.Lost++
		}
	case elo.Draw:
		home.Points++
		away.Points++
		home.Drawn++
		away.Drawn++
		t.Tally.GroupDraws++
		t.metrics.IncGroupDraws()
	}

	if err := t.Cache.Record(home.Name, away.Name, winnerName, stage, detail, m.Simulated); err != nil {
		return nil, err
	}

	if m.Simulated {
		t.metrics.IncMatchesSimulated()
	} else {
		t.metrics.IncMatchesFromCache()
	}
	return m, nil
}
