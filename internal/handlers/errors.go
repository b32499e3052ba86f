package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"zahlentrainer/internal/models"
	"zahlentrainer/internal/numwords"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondWithJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", ContentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", slog.Any("error", err))
	}
}

func respondWithError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		level := slog.LevelWarn
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		slog.Log(context.Background(), level, logMsg, slog.Int("status", status), slog.Any("error", err))
	}

	respondWithJSON(w, status, errorResponse{Error: userMsg})
}

// respondWithServiceError maps domain errors to HTTP statuses. Client errors
// carry the error text; anything else is reported as a generic failure.
func respondWithServiceError(w http.ResponseWriter, logMsg string, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidSettings),
		errors.Is(err, models.ErrInvalidInput),
		errors.Is(err, numwords.ErrOutOfRange),
		errors.Is(err, numwords.ErrTooPrecise):
		respondWithError(w, http.StatusBadRequest, err.Error(), logMsg, err)
	case errors.Is(err, models.ErrNotFound):
		respondWithError(w, http.StatusNotFound, ErrNotFound, logMsg, err)
	default:
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, logMsg, err)
	}
}
