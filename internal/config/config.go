package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/mauv0809/worldcup-sim/internal/elo"
)

// Load reads configuration from environment variables and .env file.
// A malformed value is fatal.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	cfg, err := FromEnv(os.LookupEnv)
	if err != nil {
		log.Fatal("Invalid configuration", "error", err)
	}
	return cfg
}

// FromEnv builds a Config from lookup. Every key has a default.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	getEnv := func(key, fallback string) string {
		if value, ok := lookup(key); ok && value != "" {
			return value
		}
		return fallback
	}

	var errs []error
	getInt := func(key string, fallback int64) int64 {
		raw := getEnv(key, "")
		if raw == "" {
			return fallback
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return fallback
		}
		return v
	}
	getFloat := func(key string, fallback float64) float64 {
		raw := getEnv(key, "")
		if raw == "" {
			return fallback
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return fallback
		}
		return v
	}
	getBool := func(key string) bool {
		raw := getEnv(key, "")
		if raw == "" {
			return false
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
		return v
	}

	cfg := Config{
		DBName: getEnv("DB_NAME", "worldcup.db"),
		Port:   getEnv("PORT", "8080"),
		Slack: SlackConfig{
			Token:     getEnv("SLACK_BOT_TOKEN", ""),
			ChannelID: getEnv("SLACK_CHANNEL_ID", ""),
		},
		Turso: TursoConfig{
			PrimaryURL: getEnv("TURSO_PRIMARY_URL", ""),
			AuthToken:  getEnv("TURSO_AUTH_TOKEN", ""),
		},
		ProjectID: getEnv("GCP_PROJECT", ""),
		Sim: SimConfig{
			Iterations:      int(getInt("SIM_ITERATIONS", 10000)),
			Seed:            getInt("SIM_SEED", 0),
			RandomizeGroups: getBool("SIM_RANDOMIZE_GROUPS"),
			FocusTeam:       getEnv("SIM_FOCUS_TEAM", ""),
			HostBonus:       getFloat("SIM_HOST_BONUS", elo.DefaultHostBonus),
			KFactor:         getFloat("SIM_K_FACTOR", elo.DefaultKFactor),
			RatingsFile:     getEnv("SIM_RATINGS_FILE", ""),
			BaselineFile:    getEnv("SIM_BASELINE_FILE", ""),
			StrictResults:   getBool("SIM_STRICT_RESULTS"),
		},
	}
	if cfg.Sim.Iterations <= 0 {
		errs = append(errs, fmt.Errorf("SIM_ITERATIONS must be positive, got %d", cfg.Sim.Iterations))
	}
	return cfg, errors.Join(errs...)
}
