package tournament

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/worldcup-sim/internal/elo"
	"github.com/mauv0809/worldcup-sim/internal/ratings"
	"github.com/mauv0809/worldcup-sim/internal/results"
)

// Runner plays the tournament many times over and aggregates the outcomes.
// It is not safe for concurrent use; trials run one after another.
type Runner struct {
	layout   Layout
	table    ratings.Table
	baseline *results.Cache
	model    elo.Model
	seed     int64
	rng      *rand.Rand
	focus    string
	metrics  Metrics
	keepRows bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithSeed fixes the random stream. A zero seed is replaced by a time-based one.
func WithSeed(seed int64) Option {
	return func(r *Runner) {
		r.seed = seed
	}
}

// WithModel overrides the default outcome model.
func WithModel(m elo.Model) Option {
	return func(r *Runner) {
		r.model = m
	}
}

// WithFocusTeam records group and bracket statistics for team.
func WithFocusTeam(team string) Option {
	return func(r *Runner) {
		r.focus = ratings.Normalize(team)
	}
}

// WithRowExport controls whether every trial's fixtures are collected into
// Summary.Rows. Rows are collected unless disabled.
func WithRowExport(keep bool) Option {
	return func(r *Runner) {
		r.keepRows = keep
	}
}

// WithMetrics reports simulation events to m.
func WithMetrics(m Metrics) Option {
	return func(r *Runner) {
		if m != nil {
			r.metrics = m
		}
	}
}

// NewRunner creates a Runner for layout. table must already include any host
// bonus. A nil baseline means no results are known in advance.
func NewRunner(layout Layout, table ratings.Table, baseline *results.Cache, opts ...Option) (*Runner, error) {
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("invalid layout: %w", err)
	}
	if baseline == nil {
		baseline = results.New()
	}
	r := &Runner{
		layout:   layout,
		table:    table,
		baseline: baseline,
		model:    elo.NewModel(elo.DefaultKFactor),
		metrics:  nopMetrics{},
		keepRows: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.seed == 0 {
		r.seed = time.Now().UnixNano()
		log.Info("No seed given, using time-based seed", "seed", r.seed)
	}
	r.rng = rand.New(rand.NewSource(r.seed))
	return r, nil
}

// Seed returns the seed of the runner's random stream.
func (r *Runner) Seed() int64 {
	return r.seed
}

// Run plays iterations trials. With randomizeGroups set, every trial redraws
// the groups from the seeding pots; otherwise the layout's groups are used.
func (r *Runner) Run(ctx context.Context, iterations int, randomizeGroups bool) (*Summary, error) {
	if iterations <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidIterations, iterations)
	}
	if err := r.table.Require(r.layout.Teams()...); err != nil {
		return nil, err
	}
	if r.focus != "" && r.layout.GroupOf(r.focus) < 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFocusTeam, r.focus)
	}

	s := &Summary{
		RunID:            uuid.New().String(),
		Tournament:       r.layout.Name,
		Seed:             r.seed,
		Iterations:       iterations,
		RandomizedGroups: randomizeGroups,
		Wins:             make(map[string]int),
		FocusTeam:        r.focus,
		FocusStats:       make(map[string]int),
		StartedAt:        time.Now(),
	}
	log.Info("Starting simulation", "run_id", s.RunID, "iterations", iterations, "randomize_groups", randomizeGroups, "seed", r.seed)

	progressEvery := iterations / 10
	for i := 0; i < iterations; i++ {
		if err := ctx.Err(); err != nil {
			log.Warn("Simulation cancelled", "run_id", s.RunID, "completed", i)
			return nil, err
		}

		start := time.Now()
		trial, err := r.playTrial(i, randomizeGroups)
		if err != nil {
			return nil, fmt.Errorf("trial %d: %w", i, err)
		}
		r.record(s, trial)
		r.metrics.IncTrials()
		r.metrics.ObserveTrialDuration(time.Since(start).Seconds())

		if progressEvery > 0 && (i+1)%progressEvery == 0 {
			log.Debug("Simulation progress", "run_id", s.RunID, "completed", i+1, "of", iterations)
		}
	}

	s.Duration = time.Since(s.StartedAt)
	log.Info("Simulation finished", "run_id", s.RunID, "duration_ms", s.Duration.Milliseconds(), "group_draw_rate", s.DrawRate())
	return s, nil
}

// trialResult is everything a trial produces that the summary needs.
type trialResult struct {
	trial     *Trial
	groups    [numGroups]*Group
	roundOf16 [8]*Match
	quarters  [4]*Match
	semis     [2]*Match
	final     *Match
}

func (r *Runner) playTrial(index int, randomizeGroups bool) (*trialResult, error) {
	t := NewTrial(index, r.baseline, r.model, r.rng, r.metrics)

	// Entrants are built in layout order before any draw so the random stream
	// is consumed the same way whether or not the groups are redrawn.
	entrants := make(map[string]*Entrant, numGroups*teamsInGroup)
	for _, name := range r.layout.Teams() {
		e, err := t.NewEntrant(name, r.table)
		if err != nil {
			return nil, err
		}
		entrants[e.Name] = e
	}

	draw := r.layout.Groups
	if randomizeGroups {
		draw = r.drawGroups()
	}

	res := &trialResult{trial: t}
	for g, names := range draw {
		var members [teamsInGroup]*Entrant
		for i, name := range names {
			members[i] = entrants[ratings.Normalize(name)]
		}
		group, err := PlayGroup(t, r.layout.GroupNames[g], members)
		if err != nil {
			return nil, err
		}
		res.groups[g] = group
	}

	for i, p := range RoundOf16 {
		m, err := t.Play(res.groups[p.Winner].Winner, res.groups[p.RunnerUp].RunnerUp, results.StageRoundOf16, p.Detail)
		if err != nil {
			return nil, err
		}
		res.roundOf16[i] = m
	}
	for i, tie := range Quarterfinals {
		m, err := t.Play(res.roundOf16[tie.Home].Winner, res.roundOf16[tie.Away].Winner, results.StageQuarterfinal, tie.Detail)
		if err != nil {
			return nil, err
		}
		res.quarters[i] = m
	}
	for i, tie := range Semifinals {
		m, err := t.Play(res.quarters[tie.Home].Winner, res.quarters[tie.Away].Winner, results.StageSemifinal, tie.Detail)
		if err != nil {
			return nil, err
		}
		res.semis[i] = m
	}
	final, err := t.Play(res.semis[0].Winner, res.semis[1].Winner, results.StageFinal, "")
	if err != nil {
		return nil, err
	}
	res.final = final
	return res, nil
}

// drawGroups puts one team from each seeding pot into every group, each pot
// shuffled independently.
func (r *Runner) drawGroups() [numGroups][teamsInGroup]string {
	var draw [numGroups][teamsInGroup]string
	for p, pot := range r.layout.Pots {
		perm := r.rng.Perm(numGroups)
		for g := range draw {
			draw[g][p] = pot[perm[g]]
		}
	}
	return draw
}

func (r *Runner) record(s *Summary, res *trialResult) {
	s.Wins[res.final.Winner.Name]++
	s.Tally.Add(res.trial.Tally)
	if r.keepRows {
		s.Rows = append(s.Rows, res.trial.Cache.Export()...)
	}

	if r.focus == "" {
		return
	}
	for _, g := range res.groups {
		switch r.focus {
		case g.Winner.Name:
			s.FocusStats[StatWinsGroup]++
		case g.RunnerUp.Name:
			s.FocusStats[StatRunnerUp]++
		}
	}
	for _, m := range res.roundOf16 {
		if m.Winner.Name != r.focus {
			continue
		}
		if m.Home.Name == r.focus {
			s.FocusStats[StatWinsR16AsWinner]++
		} else {
			s.FocusStats[StatWinsR16AsRunnerUp]++
		}
	}
	for _, m := range res.semis {
		if m.Home.Name == r.focus || m.Away.Name == r.focus {
			s.FocusStats[StatReachesSemifinal]++
		}
	}
	if res.final.Home.Name == r.focus || res.final.Away.Name == r.focus {
		s.FocusStats[StatReachesFinal]++
	}
	if res.final.Winner.Name == r.focus {
		s.FocusStats[StatChampion]++
	}
}

// RunFixture plays home against away iterations times, each time in a fresh
// trial forked from the baseline, and counts the outcomes.
func (r *Runner) RunFixture(ctx context.Context, home, away string, stage results.Stage, iterations int) (*FixtureOdds, error) {
	if iterations <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidIterations, iterations)
	}
	if ratings.Normalize(home) == ratings.Normalize(away) {
		return nil, fmt.Errorf("%w: %s", ErrSameTeam, home)
	}
	odds := &FixtureOdds{
		Home:       ratings.Normalize(home),
		Away:       ratings.Normalize(away),
		Stage:      stage,
		Iterations: iterations,
	}
	for i := 0; i < iterations; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		t := NewTrial(i, r.baseline, r.model, r.rng, r.metrics)
		a, err := t.NewEntrant(home, r.table)
		if err != nil {
			return nil, err
		}
		b, err := t.NewEntrant(away, r.table)
		if err != nil {
			return nil, err
		}
		m, err := t.Play(a, b, stage, "")
		if err != nil {
			return nil, err
		}
		switch m.Outcome {
		case elo.HomeWin:
			odds.HomeWins++
		case elo.AwayWin:
			odds.AwayWins++
		case elo.Draw:
			odds.Draws++
		}
	}
	return odds, nil
}
