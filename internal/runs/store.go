package runs

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/worldcup-sim/internal/results"
	"github.com/mauv0809/worldcup-sim/internal/tournament"
)

// New creates a new RunStore.
func New(db *sql.DB) RunStore {
	return &store{
		db: db,
	}
}

// SaveRun stores the run header, its win shares and focus statistics in one
// transaction. Per-trial fixtures are written too when withTrialMatches is set.
func (s *store) SaveRun(summary *tournament.Summary, withTrialMatches bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var focus sql.NullString
	if summary.FocusTeam != "" {
		focus = sql.NullString{String: summary.FocusTeam, Valid: true}
	}
	_, err = tx.Exec(`
		INSERT INTO runs (id, tournament, seed, iterations, randomized_groups, focus_team, group_matches, group_draws, started_at, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, summary.RunID, summary.Tournament, summary.Seed, summary.Iterations, summary.RandomizedGroups, focus,
		summary.Tally.GroupMatches, summary.Tally.GroupDraws, summary.StartedAt.Unix(), summary.Duration.Milliseconds())
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", summary.RunID, err)
	}

	shareStmt, err := tx.Prepare("INSERT INTO run_win_shares (run_id, team, wins) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer shareStmt.Close()
	for team, wins := range summary.Wins {
		if _, err := shareStmt.Exec(summary.RunID, team, wins); err != nil {
			return fmt.Errorf("failed to insert win share for %s: %w", team, err)
		}
	}

	statStmt, err := tx.Prepare("INSERT INTO run_focus_stats (run_id, stat, value) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer statStmt.Close()
	for stat, value := range summary.FocusStats {
		if _, err := statStmt.Exec(summary.RunID, stat, value); err != nil {
			return fmt.Errorf("failed to insert focus stat %s: %w", stat, err)
		}
	}

	if withTrialMatches {
		matchStmt, err := tx.Prepare(`
			INSERT INTO trial_matches (run_id, trial, seq, team1, team2, winner, stage, detail, simulated)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer matchStmt.Close()

		seq, trial := 0, -1
		for _, row := range summary.Rows {
			if row.Trial != trial {
				trial, seq = row.Trial, 0
			}
			if _, err := matchStmt.Exec(summary.RunID, row.Trial, seq, row.Team1, row.Team2, row.Winner, row.Stage, row.Detail, row.Simulated); err != nil {
				return fmt.Errorf("failed to insert trial match: %w", err)
			}
			seq++
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	log.Debug("Saved run", "run_id", summary.RunID, "teams", len(summary.Wins), "trial_matches", withTrialMatches)
	return nil
}

// GetRuns returns the most recent runs first. A limit of zero or less returns all runs.
func (s *store) GetRuns(limit int) ([]RunInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(`
		SELECT id, tournament, seed, iterations, randomized_groups, focus_team, group_matches, group_draws, started_at, duration_ms
		FROM runs
		ORDER BY started_at DESC, id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []RunInfo
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			log.Error("Failed to scan run row", "error", err)
			continue
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// GetRun returns a single run, or ErrRunNotFound.
func (s *store) GetRun(runID string) (*RunInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT id, tournament, seed, iterations, randomized_groups, focus_team, group_matches, group_draws, started_at, duration_ms
		FROM runs
		WHERE id = ?
	`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return run, err
}

func scanRun(scanner interface{ Scan(...any) error }) (*RunInfo, error) {
	var (
		run        RunInfo
		focus      sql.NullString
		startedAt  int64
		durationMs int64
	)
	err := scanner.Scan(&run.ID, &run.Tournament, &run.Seed, &run.Iterations, &run.RandomizedGroups, &focus,
		&run.GroupMatches, &run.GroupDraws, &startedAt, &durationMs)
	if err != nil {
		return nil, err
	}
	run.FocusTeam = focus.String
	run.StartedAt = time.Unix(startedAt, 0)
	run.Duration = time.Duration(durationMs) * time.Millisecond
	return &run, nil
}

// GetWinShares returns the champions of a run, most frequent first.
func (s *store) GetWinShares(runID string) ([]tournament.Share, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT w.team, w.wins, CAST(w.wins AS REAL) / r.iterations
		FROM run_win_shares w
		JOIN runs r ON r.id = w.run_id
		WHERE w.run_id = ?
		ORDER BY w.wins DESC, w.team
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shares []tournament.Share
	for rows.Next() {
		var share tournament.Share
		if err := rows.Scan(&share.Team, &share.Wins, &share.Share); err != nil {
			return nil, err
		}
		shares = append(shares, share)
	}
	return shares, rows.Err()
}

// GetFocusStats returns the focus team statistics of a run.
func (s *store) GetFocusStats(runID string) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT stat, value FROM run_focus_stats WHERE run_id = ?", runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := make(map[string]int)
	for rows.Next() {
		var stat string
		var value int
		if err := rows.Scan(&stat, &value); err != nil {
			return nil, err
		}
		stats[stat] = value
	}
	return stats, rows.Err()
}

// GetTrialMatches returns the fixtures of one trial in the order they were exported.
func (s *store) GetTrialMatches(runID string, trial int) ([]results.Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT team1, team2, winner, stage, detail, simulated, trial
		FROM trial_matches
		WHERE run_id = ? AND trial = ?
		ORDER BY seq
	`, runID, trial)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []results.Row
	for rows.Next() {
		var row results.Row
		if err := rows.Scan(&row.Team1, &row.Team2, &row.Winner, &row.Stage, &row.Detail, &row.Simulated, &row.Trial); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// UpsertKnownResult validates and stores a known result. A result for the same
// pair and stage, in either order, is replaced.
func (s *store) UpsertKnownResult(result results.Result) error {
	if err := results.Validate(result.Team1, result.Team2, result.Winner, result.Stage); err != nil {
		return err
	}
	if result.Detail == "" {
		result.Detail = results.DefaultDetail
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := result.Key()
	_, err := s.db.Exec(`
		INSERT INTO known_results (team_low, team_high, stage, team1, team2, winner, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(team_low, team_high, stage) DO UPDATE SET
			team1 = excluded.team1,
			team2 = excluded.team2,
			winner = excluded.winner,
			detail = excluded.detail;
	`, key.Low, key.High, key.Stage, result.Team1, result.Team2, result.Winner, result.Detail)
	return err
}

// GetKnownResults returns every stored known result.
func (s *store) GetKnownResults() ([]results.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT team1, team2, winner, stage, detail FROM known_results ORDER BY rowid")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []results.Result
	for rows.Next() {
		var r results.Result
		if err := rows.Scan(&r.Team1, &r.Team2, &r.Winner, &r.Stage, &r.Detail); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ClearKnownResults deletes every known result.
func (s *store) ClearKnownResults() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("DELETE FROM known_results")
	if err != nil {
		log.Error("Failed to clear known results", "error", err)
	}
	return err
}
