package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(lookupFrom(nil))
	require.NoError(t, err)

	assert.Equal(t, "worldcup.db", cfg.DBName)
	assert.Equal(t, "8080", cfg.Port)
	assert.False(t, cfg.Slack.Enabled())
	assert.Equal(t, 10000, cfg.Sim.Iterations)
	assert.Zero(t, cfg.Sim.Seed)
	assert.Equal(t, 100.0, cfg.Sim.HostBonus)
	assert.Equal(t, 40.0, cfg.Sim.KFactor)
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(lookupFrom(map[string]string{
		"PORT":                 "9000",
		"SLACK_BOT_TOKEN":      "xoxb-1",
		"SLACK_CHANNEL_ID":     "C1",
		"SIM_ITERATIONS":       "500",
		"SIM_SEED":             "90686",
		"SIM_RANDOMIZE_GROUPS": "true",
		"SIM_FOCUS_TEAM":       "denmark",
		"SIM_HOST_BONUS":       "0",
		"SIM_STRICT_RESULTS":   "1",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.True(t, cfg.Slack.Enabled())
	assert.Equal(t, 500, cfg.Sim.Iterations)
	assert.Equal(t, int64(90686), cfg.Sim.Seed)
	assert.True(t, cfg.Sim.RandomizeGroups)
	assert.Equal(t, "denmark", cfg.Sim.FocusTeam)
	assert.Zero(t, cfg.Sim.HostBonus)
	assert.True(t, cfg.Sim.StrictResults)
}

func TestFromEnv_Malformed(t *testing.T) {
	_, err := FromEnv(lookupFrom(map[string]string{
		"SIM_ITERATIONS": "many",
		"SIM_K_FACTOR":   "forty",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SIM_ITERATIONS")
	assert.Contains(t, err.Error(), "SIM_K_FACTOR")

	_, err = FromEnv(lookupFrom(map[string]string{"SIM_ITERATIONS": "-5"}))
	assert.Error(t, err)
}
