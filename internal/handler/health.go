package handler

import (
	"net/http"

	"github.com/pantrybox/pantrybox/internal/store"
)

// HealthHandler manages the health check endpoint.
type HealthHandler struct {
	creds    *store.Credentials
	sessions *store.Sessions
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(creds *store.Credentials, sessions *store.Sessions) *HealthHandler {
	return &HealthHandler{
		creds:    creds,
		sessions: sessions,
	}
}

// HealthResponse represents the health check response.
// Counts only; no account data leaves this endpoint.
type HealthResponse struct {
	Status   string `json:"status"`
	Users    int    `json:"users"`
	Sessions int    `json:"sessions"`
}

// Health reports liveness and store record counts.
//
// GET /api/health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:   "ok",
		Users:    h.creds.Count(),
		Sessions: h.sessions.Count(),
	}
	writeJSON(w, http.StatusOK, response)
}
