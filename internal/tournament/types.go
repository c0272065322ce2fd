package tournament

import (
	"errors"
	"sort"
	"time"

	"github.com/mauv0809/worldcup-sim/internal/elo"
	"github.com/mauv0809/worldcup-sim/internal/results"
)

var (
	ErrMissingEntrant    = errors.New("fixture is missing an entrant")
	ErrInvalidIterations = errors.New("iterations must be positive")
	ErrUnknownFocusTeam  = errors.New("focus team is not in the tournament")
	ErrSameTeam          = errors.New("a team cannot play itself")
)

// Entrant is a team as it stands within one trial. Its rating drifts match by
// match; the group tallies are reset when its group starts.
type Entrant struct {
	Name     string
	Rating   float64
	Points   int
	Won      int
	Lost     int
	Drawn    int
	TieBreak float64
}

// Match is a played fixture. Winner is nil for a drawn group match.
type Match struct {
	Home      *Entrant
	Away      *Entrant
	Stage     results.Stage
	Detail    string
	Outcome   elo.Outcome
	Winner    *Entrant
	Simulated bool
}

// Group is a finished round robin of four entrants.
type Group struct {
	Name     string
	Entrants [teamsInGroup]*Entrant
	Winner   *Entrant
	RunnerUp *Entrant
}

// Tally counts group-stage fixtures and how many of them were drawn.
type Tally struct {
	GroupMatches int `json:"group_matches"`
	GroupDraws   int `json:"group_draws"`
}

// Add accumulates o into t.
func (t *Tally) Add(o Tally) {
	t.GroupMatches += o.GroupMatches
	t.GroupDraws += o.GroupDraws
}

// DrawRate is the share of group fixtures that ended level.
func (t Tally) DrawRate() float64 {
	if t.GroupMatches == 0 {
		return 0
	}
	return float64(t.GroupDraws) / float64(t.GroupMatches)
}

// Focus statistics recorded for the focus team.
const (
	StatWinsGroup         = "wins_group"
	StatRunnerUp          = "runner_up"
	StatWinsR16AsWinner   = "wins_r16_as_winner"
	StatWinsR16AsRunnerUp = "wins_r16_as_runner_up"
	StatReachesSemifinal  = "reaches_semifinal"
	StatReachesFinal      = "reaches_final"
	StatChampion          = "champion"
)

// FocusStatNames lists the focus statistics in reporting order.
var FocusStatNames = []string{
	StatWinsGroup,
	StatRunnerUp,
	StatWinsR16AsWinner,
	StatWinsR16AsRunnerUp,
	StatReachesSemifinal,
	StatReachesFinal,
	StatChampion,
}

// Share is a team's tournament wins over a run.
type Share struct {
	Team  string  `json:"team"`
	Wins  int     `json:"wins"`
	Share float64 `json:"share"`
}

// Summary aggregates a run of trials.
type Summary struct {
	RunID            string         `json:"run_id"`
	Tournament       string         `json:"tournament"`
	Seed             int64          `json:"seed"`
	Iterations       int            `json:"iterations"`
	RandomizedGroups bool           `json:"randomized_groups"`
	Wins             map[string]int `json:"wins"`
	Tally            Tally          `json:"tally"`
	FocusTeam        string         `json:"focus_team,omitempty"`
	FocusStats       map[string]int `json:"focus_stats,omitempty"`
	Rows             []results.Row  `json:"-"`
	StartedAt        time.Time      `json:"started_at"`
	Duration         time.Duration  `json:"duration"`
}

// Shares returns every champion's share of the trials, most frequent first.
func (s *Summary) Shares() []Share {
	shares := make([]Share, 0, len(s.Wins))
	for team, wins := range s.Wins {
		share := 0.0
		if s.Iterations > 0 {
			share = float64(wins) / float64(s.Iterations)
		}
		shares = append(shares, Share{Team: team, Wins: wins, Share: share})
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Wins != shares[j].Wins {
			return shares[i].Wins > shares[j].Wins
		}
		return shares[i].Team < shares[j].Team
	})
	return shares
}

// DrawRate is the realized share of drawn group fixtures.
func (s *Summary) DrawRate() float64 {
	return s.Tally.DrawRate()
}

// FocusShare returns the share of trials in which the focus team achieved stat.
func (s *Summary) FocusShare(stat string) float64 {
	if s.Iterations == 0 {
		return 0
	}
	return float64(s.FocusStats[stat]) / float64(s.Iterations)
}

// FixtureOdds is the empirical outcome distribution of a repeated fixture.
type FixtureOdds struct {
	Home       string        `json:"home"`
	Away       string        `json:"away"`
	Stage      results.Stage `json:"stage"`
	Iterations int           `json:"iterations"`
	HomeWins   int           `json:"home_wins"`
	AwayWins   int           `json:"away_wins"`
	Draws      int           `json:"draws"`
}

// Shares returns the home win, away win and draw shares.
func (f FixtureOdds) Shares() (home, away, draw float64) {
	if f.Iterations == 0 {
		return 0, 0, 0
	}
	n := float64(f.Iterations)
	return float64(f.HomeWins) / n, float64(f.AwayWins) / n, float64(f.Draws) / n
}
