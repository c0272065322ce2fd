package results_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mauv0809/worldcup-sim/internal/results"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func TestCache_RecordAndLookup(t *testing.T) {
	c := results.New()
	require.NoError(t, c.Record("argentina", "saudi_arabia", "saudi_arabia", results.StageGroup, "", false))

	assert.True(t, c.Exists("argentina", "saudi_arabia", results.StageGroup))
	assert.True(t, c.Exists("saudi_arabia", "argentina", results.StageGroup), "pair order must not matter")
	assert.False(t, c.Exists("argentina", "saudi_arabia", results.StageFinal), "stage is part of the key")

	winner, err := c.Lookup("saudi_arabia", "argentina", results.StageGroup)
	require.NoError(t, err)
	assert.Equal(t, "saudi_arabia", winner)
}

func TestCache_LookupMiss(t *testing.T) {
	c := results.New()
	_, err := c.Lookup("a", "b", results.StageGroup)
	assert.ErrorIs(t, err, results.ErrNotFound)
}

func TestCache_RecordOverwrites(t *testing.T) {
	c := results.New()
	require.NoError(t, c.Record("a", "b", "a", results.StageGroup, "", true))
	require.NoError(t, c.Record("b", "a", results.Draw, results.StageGroup, "replay", false))

	assert.Equal(t, 1, c.Len())
	winner, err := c.Lookup("a", "b", results.StageGroup)
	require.NoError(t, err)
	assert.Equal(t, results.Draw, winner)

	rows := c.Export()
	require.Len(t, rows, 1)
	assert.Equal(t, "replay", rows[0].Detail)
	assert.False(t, rows[0].Simulated)
}

func TestCache_RecordValidation(t *testing.T) {
	tests := []struct {
		name    string
		winner  string
		stage   results.Stage
		wantErr error
	}{
		{"winner is not a team", "c", results.StageGroup, results.ErrInvalidWinner},
		{"unknown stage", "a", results.Stage("playoff"), results.ErrInvalidStage},
		{"draw in a knockout", results.Draw, results.StageSemifinal, results.ErrKnockoutDraw},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := results.New()
			err := c.Record("a", "b", tt.winner, tt.stage, "", false)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var verr *results.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.winner, verr.Winner)
			assert.Zero(t, c.Len(), "invalid results are not stored")
		})
	}
}

func TestCache_ForkIsolation(t *testing.T) {
	baseline := results.New()
	require.NoError(t, baseline.Record("qatar", "ecuador", "ecuador", results.StageGroup, "", false))

	trial := baseline.Fork()
	trial.SetIteration(3)
	require.NoError(t, trial.Record("senegal", "netherlands", "netherlands", results.StageGroup, "", true))
	require.NoError(t, trial.Record("ecuador", "qatar", "ecuador", results.StageGroup, "", false))

	assert.True(t, trial.Exists("qatar", "ecuador", results.StageGroup))
	assert.True(t, trial.Exists("senegal", "netherlands", results.StageGroup))
	assert.False(t, baseline.Exists("senegal", "netherlands", results.StageGroup), "trial writes must not leak into the baseline")
	assert.Equal(t, 1, baseline.Len())

	other := baseline.Fork()
	assert.False(t, other.Exists("senegal", "netherlands", results.StageGroup), "trial writes must not leak into sibling trials")

	rows := trial.Export()
	require.Len(t, rows, 2)
	assert.Equal(t, results.NewKey("qatar", "ecuador", results.StageGroup), rows[0].Key(), "baseline rows keep their position")
	assert.Equal(t, "ecuador", rows[0].Team1, "overlay replaces the baseline row")
	assert.Equal(t, "senegal", rows[1].Team1)
	for _, r := range rows {
		assert.Equal(t, 3, r.Trial)
	}
}

func TestCache_BinaryRoundTrip(t *testing.T) {
	c := results.New()
	require.NoError(t, c.Record("england", "iran", "england", results.StageGroup, "", false))
	require.NoError(t, c.Record("usa", "wales", results.Draw, results.StageGroup, "", false))

	data, err := c.MarshalBinary()
	require.NoError(t, err)

	decoded := results.New()
	require.NoError(t, decoded.UnmarshalBinary(data))
	assert.Equal(t, c.Results(), decoded.Results())
}

func TestLoadFile_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "known.yaml")
	content := `
- team1: Argentina
  team2: Saudi_Arabia
  winner: saudi_arabia
  stage: group
- team1: denmark
  team2: tunisia
  winner: draw
  stage: group
- team1: france
  team2: poland
  winner: brazil
  stage: 8th
- team1: spain
  team2: morocco
  winner: morocco
  stage: playoff
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	c, err := results.LoadFile(path, false)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len(), "invalid rows are skipped in lenient mode")

	winner, err := c.Lookup("saudi_arabia", "argentina", results.StageGroup)
	require.NoError(t, err)
	assert.Equal(t, "saudi_arabia", winner)

	_, err = results.LoadFile(path, true)
	var verr *results.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestLoadFile_JSONAndUnsupported(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "known.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"team1":"morocco","team2":"spain","winner":"morocco","stage":"8th","detail":"8th7"}]`), 0o644))

	c, err := results.LoadFile(path, true)
	require.NoError(t, err)
	assert.True(t, c.Exists("spain", "morocco", results.StageRoundOf16))

	bad := filepath.Join(dir, "known.txt")
	require.NoError(t, os.WriteFile(bad, []byte("x"), 0o644))
	_, err = results.LoadFile(bad, false)
	assert.Error(t, err)
}

func TestLoadFile_MessagePack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "known.msgpack")
	data, err := msgpack.Marshal([]results.Result{
		{Team1: "Argentina", Team2: "Saudi_Arabia", Winner: "Saudi_Arabia", Stage: results.StageGroup},
		{Team1: "c", Team2: "d", Winner: "zzz", Stage: results.StageGroup},
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	c, err := results.LoadFile(path, false)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len(), "invalid rows are skipped in lenient mode")
	winner, err := c.Lookup("argentina", "saudi_arabia", results.StageGroup)
	require.NoError(t, err)
	assert.Equal(t, "saudi_arabia", winner)

	_, err = results.LoadFile(path, true)
	assert.ErrorIs(t, err, results.ErrInvalidWinner)
}

func TestParseStage(t *testing.T) {
	for in, want := range map[string]results.Stage{
		"group":   results.StageGroup,
		"8th":     results.StageRoundOf16,
		"Quarter": results.StageQuarterfinal,
		"semi":    results.StageSemifinal,
		"final":   results.StageFinal,
	} {
		got, err := results.ParseStage(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := results.ParseStage("third-place")
	assert.ErrorIs(t, err, results.ErrInvalidStage)
}
