package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/kozaktomas/face-attendance/internal/engine"
)

// EventsHandler streams engine events (transitions, playbacks, session
// boundaries) over Server-Sent Events.
type EventsHandler struct {
	engine *engine.Engine
}

// NewEventsHandler creates an events handler.
func NewEventsHandler(eng *engine.Engine) *EventsHandler {
	return &EventsHandler{engine: eng}
}

// sendSSEEvent writes a single SSE frame and flushes.
func sendSSEEvent(w http.ResponseWriter, flusher http.Flusher, eventType string, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", eventType, payload)
	flusher.Flush()
}

// Stream subscribes the client to engine events until it disconnects or the
// engine shuts down (listener channel closed).
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	events := h.engine.AddListener()
	defer h.engine.RemoveListener(events)

	// Initial snapshot so clients don't start blind.
	sendSSEEvent(w, flusher, "status", h.engine.Info())

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, open := <-events:
			if !open {
				return
			}
			sendSSEEvent(w, flusher, string(ev.Type), ev)
		}
	}
}
