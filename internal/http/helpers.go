package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/worldcup-sim/internal/processor"
	"github.com/mauv0809/worldcup-sim/internal/ratings"
	"github.com/mauv0809/worldcup-sim/internal/results"
	"github.com/mauv0809/worldcup-sim/internal/runs"
	"github.com/mauv0809/worldcup-sim/internal/tournament"
)

func respondWithJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	var verr *results.ValidationError
	switch {
	case errors.Is(err, runs.ErrRunNotFound):
		return http.StatusNotFound
	case errors.As(err, &verr),
		errors.Is(err, ratings.ErrUnknownTeam),
		errors.Is(err, results.ErrInvalidStage),
		errors.Is(err, processor.ErrSameTeam),
		errors.Is(err, tournament.ErrInvalidIterations),
		errors.Is(err, tournament.ErrUnknownFocusTeam):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}
