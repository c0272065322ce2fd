package processor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mauv0809/worldcup-sim/internal/metrics"
	"github.com/mauv0809/worldcup-sim/internal/notifier"
	"github.com/mauv0809/worldcup-sim/internal/pubsub"
	"github.com/mauv0809/worldcup-sim/internal/results"
	"github.com/mauv0809/worldcup-sim/internal/runs"
	"github.com/mauv0809/worldcup-sim/internal/tournament"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallRequest() Request {
	req := DefaultRequest()
	req.Iterations = 5
	req.Seed = 2022
	return req
}

func TestProcessor_ProcessRun(t *testing.T) {
	t.Run("stores, publishes and notifies a finished run", func(t *testing.T) {
		store := runs.NewMock()
		notif := notifier.NewMock()
		metr := metrics.NewMock()
		counters := metrics.NewStoreMock()
		ps := pubsub.NewMock()
		p := New(store, counters, notif, metr, ps)

		req := smallRequest()
		req.Notify = true
		req.KeepTrialMatches = true
		summary, err := p.ProcessRun(context.Background(), req, false)
		require.NoError(t, err)

		require.Len(t, store.SaveRunCalls, 1)
		assert.Same(t, summary, store.SaveRunCalls[0].Summary)
		assert.True(t, store.SaveRunCalls[0].WithTrialMatches)

		require.Len(t, ps.SendMessageCalls, 1)
		assert.Equal(t, pubsub.EventSimulationCompleted, ps.SendMessageCalls[0].Topic)
		var ev pubsub.SimulationCompleted
		require.NoError(t, ps.ProcessMessage(ps.SendMessageCalls[0].Payload, &ev))
		assert.Equal(t, summary.RunID, ev.RunID)

		require.Len(t, notif.SendForecastCalls, 1)
		assert.Equal(t, 10, notif.SendForecastCalls[0].Top)
		assert.False(t, notif.SendForecastCalls[0].DryRun)

		assert.Equal(t, 1, metr.Runs())
		assert.Equal(t, 5, metr.Trials())
		assert.Equal(t, 5*63, metr.MatchesSimulated()+metr.MatchesFromCache())

		counts, err := counters.GetAll()
		require.NoError(t, err)
		assert.Equal(t, 1, counts[metrics.KeyRunsCompleted])
		assert.Equal(t, 5, counts[metrics.KeyTrialsCompleted])
	})

	t.Run("dry run skips storage and publishing", func(t *testing.T) {
		store := runs.NewMock()
		notif := notifier.NewMock()
		ps := pubsub.NewMock()
		p := New(store, nil, notif, metrics.NewMock(), ps)

		req := smallRequest()
		req.Notify = true
		_, err := p.ProcessRun(context.Background(), req, true)
		require.NoError(t, err)

		assert.Empty(t, store.SaveRunCalls)
		assert.Empty(t, ps.SendMessageCalls)
		require.Len(t, notif.SendForecastCalls, 1)
		assert.True(t, notif.SendForecastCalls[0].DryRun)
	})

	t.Run("failures after the run are not fatal", func(t *testing.T) {
		store := runs.NewMock()
		store.SaveRunFunc = func(*tournament.Summary, bool) error { return errors.New("disk full") }
		notif := notifier.NewMock()
		notif.SendForecastFunc = func(*tournament.Summary, int, bool) error { return errors.New("slack down") }
		ps := pubsub.NewMock()
		ps.SendMessageFunc = func(pubsub.EventType, any) error { return errors.New("pubsub down") }
		p := New(store, nil, notif, metrics.NewMock(), ps)

		req := smallRequest()
		req.Notify = true
		summary, err := p.ProcessRun(context.Background(), req, false)
		require.NoError(t, err)
		assert.NotNil(t, summary)
	})

	t.Run("known results from the store are applied", func(t *testing.T) {
		store := runs.NewMock()
		store.GetKnownResultsFunc = func() ([]results.Result, error) {
			return []results.Result{{Team1: "argentina", Team2: "saudi_arabia", Winner: "saudi_arabia", Stage: results.StageGroup}}, nil
		}
		metr := metrics.NewMock()
		p := New(store, nil, nil, metr, nil)

		req := smallRequest()
		req.KeepTrialMatches = true
		summary, err := p.ProcessRun(context.Background(), req, true)
		require.NoError(t, err)
		assert.Equal(t, 5, metr.MatchesFromCache())
		require.Len(t, summary.Rows, 5*63)
		for _, row := range summary.Rows {
			if row.Key() == results.NewKey("argentina", "saudi_arabia", results.StageGroup) {
				assert.False(t, row.Simulated)
				assert.Equal(t, "saudi_arabia", row.Winner)
			}
		}
	})

	t.Run("trial rows are only collected when kept", func(t *testing.T) {
		p := New(runs.NewMock(), nil, nil, metrics.NewMock(), nil)

		summary, err := p.ProcessRun(context.Background(), smallRequest(), true)
		require.NoError(t, err)
		assert.Empty(t, summary.Rows)
		assert.Equal(t, 5*48, summary.Tally.GroupMatches)
	})

	t.Run("invalid stored result fails a strict run", func(t *testing.T) {
		store := runs.NewMock()
		store.GetKnownResultsFunc = func() ([]results.Result, error) {
			return []results.Result{{Team1: "argentina", Team2: "france", Winner: "brazil", Stage: results.StageFinal}}, nil
		}
		p := New(store, nil, nil, metrics.NewMock(), nil)

		req := smallRequest()
		req.StrictResults = true
		_, err := p.ProcessRun(context.Background(), req, true)
		assert.ErrorIs(t, err, results.ErrInvalidWinner)

		req.StrictResults = false
		_, err = p.ProcessRun(context.Background(), req, true)
		assert.NoError(t, err)
	})

	t.Run("baseline file and ratings file", func(t *testing.T) {
		dir := t.TempDir()
		baselinePath := filepath.Join(dir, "known.yaml")
		require.NoError(t, os.WriteFile(baselinePath, []byte("- team1: Qatar\n  team2: Ecuador\n  winner: Ecuador\n  stage: group\n"), 0o600))

		metr := metrics.NewMock()
		p := New(runs.NewMock(), nil, nil, metr, nil)
		req := smallRequest()
		req.BaselineFile = baselinePath
		_, err := p.ProcessRun(context.Background(), req, true)
		require.NoError(t, err)
		assert.Equal(t, 5, metr.MatchesFromCache())

		req.RatingsFile = filepath.Join(dir, "missing.yaml")
		_, err = p.ProcessRun(context.Background(), req, true)
		assert.Error(t, err)
	})
}

func TestProcessor_ProcessFixture(t *testing.T) {
	notif := notifier.NewMock()
	p := New(runs.NewMock(), nil, notif, metrics.NewMock(), nil)

	odds, err := p.ProcessFixture(context.Background(), FixtureRequest{
		Home: "Brazil", Away: "Cameroun", Stage: results.StageGroup, Iterations: 2000, Seed: 9, Notify: true,
	}, true)
	require.NoError(t, err)
	assert.Equal(t, "brazil", odds.Home)
	home, away, draw := odds.Shares()
	assert.Greater(t, home, away)
	assert.Greater(t, draw, 0.0)
	require.Len(t, notif.SendFixtureOddsCalls, 1)

	_, err = p.ProcessFixture(context.Background(), FixtureRequest{Home: "brazil", Away: "BRAZIL", Stage: results.StageFinal, Iterations: 1}, true)
	assert.ErrorIs(t, err, ErrSameTeam)

	_, err = p.ProcessFixture(context.Background(), FixtureRequest{Home: "brazil", Away: "france", Stage: "friendly", Iterations: 1}, true)
	assert.ErrorIs(t, err, results.ErrInvalidStage)
}
