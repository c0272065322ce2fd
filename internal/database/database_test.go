package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDB_CreatesTables(t *testing.T) {
	db, teardown, err := InitDB(":memory:", "", "")
	require.NoError(t, err, "InitDB should not return an error")
	defer teardown()

	for _, table := range []string{"runs", "run_win_shares", "run_focus_stats", "trial_matches", "known_results", "metrics"} {
		var name string
		err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, "Querying for %s table should not produce an error", table)
		assert.Equal(t, table, name)
	}
}

func TestInitDB_IsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.db")

	db, teardown, err := InitDB(path, "", "")
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO metrics (key, value) VALUES ('runs_completed', 3)")
	require.NoError(t, err)
	teardown()

	db, teardown, err = InitDB(path, "", "")
	require.NoError(t, err)
	defer teardown()

	var value int
	require.NoError(t, db.QueryRow("SELECT value FROM metrics WHERE key = 'runs_completed'").Scan(&value))
	assert.Equal(t, 3, value)
}

func TestInitDB_ForeignKeysEnforced(t *testing.T) {
	db, teardown, err := InitDB(":memory:", "", "")
	require.NoError(t, err)
	defer teardown()

	_, err = db.Exec("INSERT INTO run_win_shares (run_id, team, wins) VALUES ('missing', 'brazil', 1)")
	assert.Error(t, err)
}
