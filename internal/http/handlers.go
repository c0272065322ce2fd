package http

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/worldcup-sim/internal/processor"
	"github.com/mauv0809/worldcup-sim/internal/pubsub"
	"github.com/mauv0809/worldcup-sim/internal/ratings"
	"github.com/mauv0809/worldcup-sim/internal/results"
	"github.com/mauv0809/worldcup-sim/internal/runs"
	"github.com/mauv0809/worldcup-sim/internal/tournament"
)

// maxIterations bounds a single HTTP-triggered run.
const maxIterations = 100000

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

// SimulateHandler runs a simulation. Parameters come from the query string and
// override the configured defaults.
func (s *Server) SimulateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		req, err := s.simulationRequest(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		summary, err := s.Processor.ProcessRun(r.Context(), req, isDryRunFromContext(r))
		if err != nil {
			log.Error("Simulation failed", "error", err)
			http.Error(w, "Simulation failed: "+err.Error(), statusFor(err))
			return
		}
		respondWithJSON(w, http.StatusOK, struct {
			*tournament.Summary
			Shares   []tournament.Share `json:"shares"`
			DrawRate float64            `json:"group_draw_rate"`
		}{summary, summary.Shares(), summary.DrawRate()})
	}
}

func (s *Server) simulationRequest(r *http.Request) (processor.Request, error) {
	q := r.URL.Query()
	sim := s.Cfg.Sim
	req := processor.DefaultRequest()
	req.Iterations = sim.Iterations
	req.Seed = sim.Seed
	req.RandomizeGroups = sim.RandomizeGroups
	req.FocusTeam = sim.FocusTeam
	req.HostBonus = sim.HostBonus
	req.KFactor = sim.KFactor
	req.RatingsFile = sim.RatingsFile
	req.BaselineFile = sim.BaselineFile
	req.StrictResults = sim.StrictResults

	var err error
	if v := q.Get("iterations"); v != "" {
		if req.Iterations, err = strconv.Atoi(v); err != nil || req.Iterations <= 0 || req.Iterations > maxIterations {
			return req, fmt.Errorf("iterations must be between 1 and %d", maxIterations)
		}
	}
	if v := q.Get("seed"); v != "" {
		if req.Seed, err = strconv.ParseInt(v, 10, 64); err != nil {
			return req, fmt.Errorf("invalid seed %q", v)
		}
	}
	if v := q.Get("top"); v != "" {
		if req.Top, err = strconv.Atoi(v); err != nil {
			return req, fmt.Errorf("invalid top %q", v)
		}
	}
	if v := q.Get("focus"); v != "" {
		req.FocusTeam = v
	}
	if q.Has("randomize") {
		req.RandomizeGroups = q.Get("randomize") == "true"
	}
	req.Notify = q.Get("notify") == "true"
	req.KeepTrialMatches = q.Get("keep_trials") == "true"
	return req, nil
}

// OddsHandler estimates a single fixture, e.g. /odds?home=brazil&away=serbia&stage=group.
func (s *Server) OddsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		stage := results.StageGroup
		if v := q.Get("stage"); v != "" {
			parsed, err := results.ParseStage(v)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			stage = parsed
		}
		iterations := 10000
		if v := q.Get("iterations"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 || n > maxIterations {
				http.Error(w, fmt.Sprintf("iterations must be between 1 and %d", maxIterations), http.StatusBadRequest)
				return
			}
			iterations = n
		}

		odds, err := s.Processor.ProcessFixture(r.Context(), processor.FixtureRequest{
			Home:        q.Get("home"),
			Away:        q.Get("away"),
			Stage:       stage,
			Iterations:  iterations,
			Seed:        s.Cfg.Sim.Seed,
			KFactor:     s.Cfg.Sim.KFactor,
			RatingsFile: s.Cfg.Sim.RatingsFile,
			Notify:      q.Get("notify") == "true",
		}, isDryRunFromContext(r))
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		home, away, draw := odds.Shares()
		respondWithJSON(w, http.StatusOK, struct {
			*tournament.FixtureOdds
			HomeShare float64 `json:"home_share"`
			AwayShare float64 `json:"away_share"`
			DrawShare float64 `json:"draw_share"`
		}{odds, home, away, draw})
	}
}

func (s *Server) ListRunsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 20
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				http.Error(w, "Invalid limit", http.StatusBadRequest)
				return
			}
			limit = n
		}
		list, err := s.Runs.GetRuns(limit)
		if err != nil {
			log.Error("Failed to get runs from store", "error", err)
			http.Error(w, "Failed to get runs", http.StatusInternalServerError)
			return
		}
		if list == nil {
			list = []runs.RunInfo{}
		}
		respondWithJSON(w, http.StatusOK, list)
	}
}

func (s *Server) RunSharesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		runID := r.URL.Query().Get("id")
		if runID == "" {
			http.Error(w, "Missing id", http.StatusBadRequest)
			return
		}
		run, err := s.Runs.GetRun(runID)
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		shares, err := s.Runs.GetWinShares(runID)
		if err != nil {
			log.Error("Failed to get win shares", "error", err, "run_id", runID)
			http.Error(w, "Failed to get win shares", http.StatusInternalServerError)
			return
		}
		stats, err := s.Runs.GetFocusStats(runID)
		if err != nil {
			log.Error("Failed to get focus stats", "error", err, "run_id", runID)
			http.Error(w, "Failed to get focus stats", http.StatusInternalServerError)
			return
		}
		respondWithJSON(w, http.StatusOK, runDetail{Run: run, Shares: shares, FocusStats: stats})
	}
}

func (s *Server) TrialMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		runID := q.Get("id")
		trial, err := strconv.Atoi(q.Get("trial"))
		if runID == "" || err != nil || trial < 0 {
			http.Error(w, "Missing id or invalid trial", http.StatusBadRequest)
			return
		}
		rows, err := s.Runs.GetTrialMatches(runID, trial)
		if err != nil {
			log.Error("Failed to get trial matches", "error", err, "run_id", runID)
			http.Error(w, "Failed to get trial matches", http.StatusInternalServerError)
			return
		}
		if rows == nil {
			rows = []results.Row{}
		}
		respondWithJSON(w, http.StatusOK, rows)
	}
}

// KnownResultsHandler lists (GET), adds (POST) or clears (DELETE) known results.
func (s *Server) KnownResultsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			known, err := s.Runs.GetKnownResults()
			if err != nil {
				log.Error("Failed to get known results", "error", err)
				http.Error(w, "Failed to get known results", http.StatusInternalServerError)
				return
			}
			if known == nil {
				known = []results.Result{}
			}
			respondWithJSON(w, http.StatusOK, known)

		case http.MethodPost:
			var body struct {
				Team1  string `json:"team1"`
				Team2  string `json:"team2"`
				Winner string `json:"winner"`
				Stage  string `json:"stage"`
				Detail string `json:"detail"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				http.Error(w, "Invalid JSON body", http.StatusBadRequest)
				return
			}
			stage, err := results.ParseStage(body.Stage)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			result := results.Result{
				Team1:  ratings.Normalize(body.Team1),
				Team2:  ratings.Normalize(body.Team2),
				Winner: ratings.Normalize(body.Winner),
				Stage:  stage,
				Detail: body.Detail,
			}
			if isDryRunFromContext(r) {
				if err := results.Validate(result.Team1, result.Team2, result.Winner, result.Stage); err != nil {
					http.Error(w, err.Error(), http.StatusBadRequest)
					return
				}
				log.Info("[Dry Run] Would store known result", "team1", result.Team1, "team2", result.Team2, "winner", result.Winner)
				respondWithJSON(w, http.StatusOK, result)
				return
			}
			if err := s.Runs.UpsertKnownResult(result); err != nil {
				http.Error(w, err.Error(), statusFor(err))
				return
			}
			respondWithJSON(w, http.StatusCreated, result)

		case http.MethodDelete:
			if isDryRunFromContext(r) {
				log.Info("[Dry Run] Would clear known results")
			} else if err := s.Runs.ClearKnownResults(); err != nil {
				http.Error(w, "Failed to clear known results", http.StatusInternalServerError)
				return
			}
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, "Known results cleared!")

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func (s *Server) CountersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counters, err := s.Counters.GetAll()
		if err != nil {
			log.Error("Failed to get counters", "error", err)
			http.Error(w, "Failed to get counters", http.StatusInternalServerError)
			return
		}
		respondWithJSON(w, http.StatusOK, counters)
	}
}

// SimulationCompletedHandler receives the simulation-completed event from a
// Pub/Sub push subscription and posts the stored forecast to Slack.
func (s *Server) SimulationCompletedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.pubsub == nil {
			http.Error(w, "Pub/Sub is not configured", http.StatusServiceUnavailable)
			return
		}
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read body", http.StatusBadRequest)
			return
		}
		var msg pushMessage
		if err := json.Unmarshal(bodyBytes, &msg); err != nil {
			log.Error("Failed to unmarshal push message", "error", err)
			http.Error(w, "Invalid push message", http.StatusBadRequest)
			return
		}
		data, err := base64.StdEncoding.DecodeString(msg.Message.Data)
		if err != nil {
			http.Error(w, "Invalid message data", http.StatusBadRequest)
			return
		}
		var ev pubsub.SimulationCompleted
		if err := s.pubsub.ProcessMessage(data, &ev); err != nil {
			http.Error(w, "Invalid event payload", http.StatusBadRequest)
			return
		}
		log.Info("Received simulation-completed event", "run_id", ev.RunID, "favourite", ev.Favourite)
		if s.Notifier == nil {
			log.Warn("Slack is not configured, dropping event", "run_id", ev.RunID)
			w.WriteHeader(http.StatusOK)
			return
		}

		summary, err := s.storedSummary(ev.RunID)
		if err != nil {
			// Acknowledge anyway; a redelivery would not find the run either.
			log.Error("Failed to load run for event", "error", err, "run_id", ev.RunID)
			w.WriteHeader(http.StatusOK)
			return
		}
		if err := s.Notifier.SendForecast(summary, 10, isDryRunFromContext(r)); err != nil {
			http.Error(w, "Failed to send forecast", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

// storedSummary rebuilds the parts of a summary the notifier needs from the store.
func (s *Server) storedSummary(runID string) (*tournament.Summary, error) {
	run, err := s.Runs.GetRun(runID)
	if err != nil {
		return nil, err
	}
	shares, err := s.Runs.GetWinShares(runID)
	if err != nil {
		return nil, err
	}
	stats, err := s.Runs.GetFocusStats(runID)
	if err != nil {
		return nil, err
	}
	wins := make(map[string]int, len(shares))
	for _, share := range shares {
		wins[share.Team] = share.Wins
	}
	return &tournament.Summary{
		RunID:            run.ID,
		Tournament:       run.Tournament,
		Seed:             run.Seed,
		Iterations:       run.Iterations,
		RandomizedGroups: run.RandomizedGroups,
		Wins:             wins,
		Tally:            tournament.Tally{GroupMatches: run.GroupMatches, GroupDraws: run.GroupDraws},
		FocusTeam:        run.FocusTeam,
		FocusStats:       stats,
		StartedAt:        run.StartedAt,
		Duration:         run.Duration,
	}, nil
}
