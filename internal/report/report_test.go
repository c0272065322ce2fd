package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/mauv0809/worldcup-sim/internal/results"
	"github.com/mauv0809/worldcup-sim/internal/runs"
	"github.com/mauv0809/worldcup-sim/internal/tournament"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	s := &tournament.Summary{
		Tournament: "FIFA World Cup 2022",
		Seed:       1,
		Iterations: 200,
		Wins:       map[string]int{"brazil": 50, "argentina": 40, "france": 30, "qatar": 2},
		Tally:      tournament.Tally{GroupMatches: 9600, GroupDraws: 1632},
		FocusTeam:  "denmark",
		FocusStats: map[string]int{tournament.StatWinsGroup: 50, tournament.StatReachesFinal: 10},
	}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, s, 3))
	out := buf.String()

	assert.Contains(t, out, "FIFA World Cup 2022: 200 trials (seed 1)")
	assert.Contains(t, out, "brazil")
	assert.Contains(t, out, "25.0%")
	assert.Contains(t, out, "france")
	assert.NotContains(t, out, "qatar", "only the top three are listed")
	assert.Contains(t, out, "Group draws: 1632/9600 (17.0%), 2018 benchmark 8/48 (16.7%)")
	assert.Contains(t, out, "wins group")
	assert.Contains(t, out, "reaches final")
}

func TestRender_NoFocus(t *testing.T) {
	s := &tournament.Summary{Tournament: "x", Iterations: 1, Wins: map[string]int{"brazil": 1}}
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, s, 0))
	assert.NotContains(t, buf.String(), "wins group")
}

func TestRenderOdds(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderOdds(&buf, &tournament.FixtureOdds{
		Home: "brazil", Away: "serbia", Stage: results.StageGroup, Iterations: 10, HomeWins: 6, AwayWins: 2, Draws: 2,
	}))
	out := buf.String()
	assert.Contains(t, out, "brazil vs serbia")
	assert.Contains(t, out, "60.0%")
	assert.Contains(t, out, "20.0%")
	assert.Contains(t, out, "group, 10 trials")
}

func TestRenderRuns(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderRuns(&buf, nil))
	assert.Contains(t, buf.String(), "No runs stored.")

	buf.Reset()
	require.NoError(t, RenderRuns(&buf, []runs.RunInfo{{
		ID: "run-1", StartedAt: time.Date(2022, 11, 20, 16, 0, 0, 0, time.UTC), Iterations: 10000, Seed: 4, GroupMatches: 100, GroupDraws: 18,
	}}))
	out := buf.String()
	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "2022-11-20 16:00")
	assert.Contains(t, out, "18.0%")
}

func TestRenderCounters(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderCounters(&buf, map[string]int{"trials_completed": 10, "runs_completed": 1}))
	out := buf.String()
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("runs_completed")), bytes.Index(buf.Bytes(), []byte("trials_completed")))
	assert.Contains(t, out, "10")
}
