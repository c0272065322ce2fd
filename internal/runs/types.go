package runs

import (
	"database/sql"
	"errors"
	"sync"
	"time"
)

var ErrRunNotFound = errors.New("run not found")

// store handles all database operations for simulation runs.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// RunInfo is the stored header of a run.
type RunInfo struct {
	ID               string        `json:"id"`
	Tournament       string        `json:"tournament"`
	Seed             int64         `json:"seed"`
	Iterations       int           `json:"iterations"`
	RandomizedGroups bool          `json:"randomized_groups"`
	FocusTeam        string        `json:"focus_team,omitempty"`
	GroupMatches     int           `json:"group_matches"`
	GroupDraws       int           `json:"group_draws"`
	StartedAt        time.Time     `json:"started_at"`
	Duration         time.Duration `json:"duration"`
}

// DrawRate is the share of group fixtures in the run that were drawn.
func (r RunInfo) DrawRate() float64 {
	if r.GroupMatches == 0 {
		return 0
	}
	return float64(r.GroupDraws) / float64(r.GroupMatches)
}
