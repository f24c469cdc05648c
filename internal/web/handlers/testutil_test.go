package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/face-attendance/internal/config"
	"github.com/kozaktomas/face-attendance/internal/engine"
	"github.com/kozaktomas/face-attendance/internal/speech"
	"github.com/kozaktomas/face-attendance/internal/store"
	"github.com/kozaktomas/face-attendance/internal/store/mock"
)

// newTestEngine creates an engine without background workers; handler tests
// drive it synchronously.
func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	return engine.New(config.Load(), &speech.PrintSpeaker{Out: io.Discard})
}

// seededStore returns a mock store with one registered student.
func seededStore(t *testing.T) *mock.Mock {
	t.Helper()
	m := mock.New()
	err := m.AddStudent(context.Background(), store.Student{
		ID:           "24054-EC-001",
		Name:         "Alice",
		RegisteredAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("failed to seed store: %v", err)
	}
	return m
}

// requestWithChiParams creates a request with chi URL parameters
func requestWithChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// parseJSONResponse parses a JSON response body into the target type
func parseJSONResponse(t *testing.T, recorder *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), target); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nBody: %s", err, recorder.Body.String())
	}
}

// assertStatusCode checks if the response has the expected status code
func assertStatusCode(t *testing.T, recorder *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if recorder.Code != expected {
		t.Fatalf("expected status %d, got %d\nBody: %s", expected, recorder.Code, recorder.Body.String())
	}
}
