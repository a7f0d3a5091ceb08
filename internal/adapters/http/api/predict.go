// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/hoopcast/hoopcast/internal/domain/features"
	"github.com/hoopcast/hoopcast/internal/domain/model"
)

// handlePrediction handles GET /players/{id}/prediction requests.
//
// Query parameters: date (YYYY-MM-DD, required), opponent (required),
// is_home (true/false, default false), level (0..1, default configured).
func handlePrediction(w http.ResponseWriter, r *http.Request, deps Dependencies, playerID string) {
	const op = "api.get_prediction"

	q := r.URL.Query()

	dateStr := q.Get("date")
	if dateStr == "" {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: missing date", op, ErrBadRequest))
		return
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: invalid date; must be YYYY-MM-DD", op, ErrBadRequest))
		return
	}

	opponent := q.Get("opponent")
	if opponent == "" {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: missing opponent", op, ErrBadRequest))
		return
	}

	isHome := false
	if v := q.Get("is_home"); v != "" {
		isHome, err = strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: invalid is_home", op, ErrBadRequest))
			return
		}
	}

	level := 0.0
	if v := q.Get("level"); v != "" {
		level, err = strconv.ParseFloat(v, 64)
		if err != nil || level <= 0 || level >= 1 {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: level must be in (0,1)", op, ErrBadRequest))
			return
		}
	}

	pred, err := deps.Predict(r.Context(), playerID, model.GameContext{
		Date:     date,
		IsHome:   isHome,
		Opponent: opponent,
	}, level)
	if err != nil {
		switch {
		case isNotFound(err):
			writeError(w, http.StatusNotFound, "not_found", err)
		case errors.Is(err, features.ErrInsufficientHistory):
			writeError(w, http.StatusUnprocessableEntity, "insufficient_history", err)
		case errors.Is(err, features.ErrMissingReferenceData):
			writeError(w, http.StatusUnprocessableEntity, "missing_reference_data", err)
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, pred)
}
