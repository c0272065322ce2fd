package ratings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRating_IgnoresCase(t *testing.T) {
	table := Default2022()
	r, err := table.Rating("Denmark")
	require.NoError(t, err)
	assert.Equal(t, 1971.0, r)

	_, err = table.Rating("italy")
	assert.ErrorIs(t, err, ErrUnknownTeam)
}

func TestWithHostBonus(t *testing.T) {
	table := Default2022()
	boosted, err := table.WithHostBonus("Qatar", 100)
	require.NoError(t, err)

	r, err := boosted.Rating("qatar")
	require.NoError(t, err)
	assert.Equal(t, 1780.0, r)
	assert.Equal(t, 1680.0, table["qatar"], "the source table is not modified")

	_, err = table.WithHostBonus("italy", 100)
	assert.ErrorIs(t, err, ErrUnknownTeam)
}

func TestRequire(t *testing.T) {
	table := Table{"a": 2000, "b": 1000}
	assert.NoError(t, table.Require("a", "B"))

	err := table.Require("a", "c", "d")
	assert.ErrorIs(t, err, ErrUnknownTeam)
	assert.Contains(t, err.Error(), `"c"`)
	assert.Contains(t, err.Error(), `"d"`)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "elo.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("Brazil: 2169\nGhana: 1540\n"), 0o644))
	table, err := LoadFile(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, Table{"brazil": 2169, "ghana": 1540}, table)

	jsonPath := filepath.Join(dir, "elo.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"Wales": 1790}`), 0o644))
	table, err = LoadFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, Table{"wales": 1790}, table)

	emptyPath := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(emptyPath, []byte(`{}`), 0o644))
	_, err = LoadFile(emptyPath)
	assert.Error(t, err)

	_, err = LoadFile(filepath.Join(dir, "elo.csv"))
	assert.Error(t, err)
}
