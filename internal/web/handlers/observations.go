package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/kozaktomas/face-attendance/internal/engine"
	"github.com/kozaktomas/face-attendance/internal/store"
)

// ObservationsHandler is the ingest boundary for the external face
// recognizer: one POST per detected face per processed frame.
type ObservationsHandler struct {
	engine *engine.Engine
	store  store.Store
}

// NewObservationsHandler creates an observations handler.
func NewObservationsHandler(eng *engine.Engine, st store.Store) *ObservationsHandler {
	return &ObservationsHandler{engine: eng, store: st}
}

// observationRequest is one reported sighting.
type observationRequest struct {
	PersonID   string  `json:"person_id"`
	Name       string  `json:"name"`
	Recognized bool    `json:"recognized"`
	Confidence float64 `json:"confidence,omitempty"`
}

// observationResponse reports what the sighting did.
type observationResponse struct {
	Processed bool               `json:"processed"`
	MarkedNow bool               `json:"marked_now"`
	State     engine.PersonState `json:"state,omitempty"`
	Reason    string             `json:"reason,omitempty"`
}

// Ingest records attendance for a recognized person and feeds the sighting
// to the engine. Store failures are logged and treated as not-marked; they
// never block state processing.
func (h *ObservationsHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	var req observationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if req.PersonID == "" {
		respondError(w, http.StatusBadRequest, "missing person_id")
		return
	}

	if !h.engine.Info().Active {
		respondJSON(w, http.StatusAccepted, observationResponse{
			Processed: false,
			Reason:    "no active session",
		})
		return
	}

	if !req.Recognized {
		// Contractually a no-op: no record, no attendance.
		respondJSON(w, http.StatusAccepted, observationResponse{Processed: true})
		return
	}

	markedNow, err := h.store.RecordAttendance(r.Context(), req.PersonID, time.Now())
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		log.Printf("attendance store error for %s: %v", sanitizeForLog(req.PersonID), err)
	}

	h.engine.Observe(engine.Observation{
		PersonID:         req.PersonID,
		Name:             req.Name,
		Recognized:       true,
		AttendanceMarked: markedNow,
	})

	state, _ := h.engine.PersonStatus(req.PersonID)
	respondJSON(w, http.StatusAccepted, observationResponse{
		Processed: true,
		MarkedNow: markedNow,
		State:     state,
	})
}
