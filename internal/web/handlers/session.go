package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/face-attendance/internal/engine"
)

// SessionHandler exposes session lifecycle control and monitoring.
type SessionHandler struct {
	engine *engine.Engine
}

// NewSessionHandler creates a session handler.
func NewSessionHandler(eng *engine.Engine) *SessionHandler {
	return &SessionHandler{engine: eng}
}

// Start activates a new tracking session, resetting all person state.
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	id := h.engine.StartSession()
	respondJSON(w, http.StatusOK, map[string]string{"session_id": id})
}

// End deactivates the current session and clears pending announcements.
func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	h.engine.EndSession()
	respondJSON(w, http.StatusOK, map[string]string{"status": "ended"})
}

// Info returns the monitoring snapshot: active flag, person count, queue
// depth, and per-person states.
func (h *SessionHandler) Info(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.engine.Info())
}

// PersonState returns the tracking state of a single person.
func (h *SessionHandler) PersonState(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "missing person ID")
		return
	}

	state, ok := h.engine.PersonStatus(id)
	if !ok {
		respondError(w, http.StatusNotFound, "person not tracked")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"person_id": id,
		"state":     state,
	})
}
