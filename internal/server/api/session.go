package api

import (
	"encoding/json"
	"net/http"
	"time"
)

// SessionHandler exposes the de-duplication session.
type SessionHandler struct {
	pipeline Pipeline
}

// NewSessionHandler creates a SessionHandler.
func NewSessionHandler(p Pipeline) *SessionHandler {
	return &SessionHandler{pipeline: p}
}

type sessionResponse struct {
	ID        string `json:"id"`
	StartedAt string `json:"started_at"`
	Last      string `json:"last"`
	Display   string `json:"display"`
	Enabled   bool   `json:"enabled"`
}

type updateSessionRequest struct {
	Enabled *bool `json:"enabled"`
}

// ServeHTTP handles GET, PATCH and DELETE on /api/session.
// PATCH toggles detection; DELETE starts a new session.
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w)
	case http.MethodPatch:
		h.update(w, r)
	case http.MethodDelete:
		h.pipeline.ResetSession()
		h.get(w)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *SessionHandler) get(w http.ResponseWriter) {
	s := h.pipeline.Session()
	writeJSON(w, http.StatusOK, sessionResponse{
		ID:        s.ID(),
		StartedAt: s.StartedAt().Format(time.RFC3339),
		Last:      string(s.Last()),
		Display:   s.Display(),
		Enabled:   h.pipeline.IsEnabled(),
	})
}

func (h *SessionHandler) update(w http.ResponseWriter, r *http.Request) {
	var req updateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Enabled == nil {
		writeError(w, http.StatusBadRequest, "enabled is required")
		return
	}

	h.pipeline.SetEnabled(*req.Enabled)
	h.get(w)
}
