package metrics

import (
	"testing"

	"github.com/mauv0809/worldcup-sim/internal/database"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) (MetricsStore, func()) {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)

	return New(db), teardown
}

func TestIncrementAndGetAll(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()

	metrics, err := store.GetAll()
	require.NoError(t, err)
	assert.Empty(t, metrics)

	store.Increment(KeyRunsCompleted)
	metrics, err = store.GetAll()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{KeyRunsCompleted: 1}, metrics)

	store.Increment(KeyRunsCompleted)
	store.Add(KeyTrialsCompleted, 10000)
	store.Add(KeyTrialsCompleted, 500)
	metrics, err = store.GetAll()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		KeyRunsCompleted:   2,
		KeyTrialsCompleted: 10500,
	}, metrics)
}

func TestService_RegistersOnGivenRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewService(reg)

	s.IncTrials()
	s.IncTrials()
	s.IncMatchesSimulated()
	s.IncGroupDraws()
	s.ObserveTrialDuration(0.001)
	s.SetStartupTime(1.5)

	assert.Equal(t, 2.0, testutil.ToFloat64(s.Trials))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.MatchesSimulated))
	assert.Equal(t, 0.0, testutil.ToFloat64(s.MatchesFromCache))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.GroupDraws))
	assert.Equal(t, 1.5, testutil.ToFloat64(s.StartupTimeSeconds))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 10)

	// A second service on a fresh registry must not collide.
	assert.NotPanics(t, func() { NewService(prometheus.NewRegistry()) })
}
