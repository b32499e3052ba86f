package handlers

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"
)

const healthPingTimeout = 2 * time.Second

// Pinger is satisfied by *database.DB
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler reports whether the server is ready and its database reachable
type HealthHandler struct {
	db    Pinger
	ready atomic.Bool
}

type healthResponse struct {
	Status string `json:"status"`
}

// NewHealthHandler creates a health handler that reports "starting" until MarkReady is called
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// MarkReady flags the server as initialized
func (h *HealthHandler) MarkReady() {
	h.ready.Store(true)
}

// Health answers GET /api/health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if !h.ready.Load() {
		respondWithJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "starting"})
		return
	}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			respondWithError(w, http.StatusServiceUnavailable, "Database unavailable", "Health check failed", err)
			return
		}
	}

	respondWithJSON(w, http.StatusOK, healthResponse{Status: "OK"})
}
