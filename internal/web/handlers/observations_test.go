package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kozaktomas/face-attendance/internal/engine"
)

func postObservation(t *testing.T, h *ObservationsHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/v1/observations", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Ingest(rec, req)
	return rec
}

func TestIngest_InactiveSession(t *testing.T) {
	eng := newTestEngine(t)
	h := NewObservationsHandler(eng, seededStore(t))

	rec := postObservation(t, h, `{"person_id":"24054-EC-001","name":"Alice","recognized":true}`)
	assertStatusCode(t, rec, 202)

	var resp observationResponse
	parseJSONResponse(t, rec, &resp)
	if resp.Processed {
		t.Error("expected observation rejected without active session")
	}
	if resp.Reason == "" {
		t.Error("expected a reason for rejection")
	}
}

func TestIngest_RecognizedMarksAndTransitions(t *testing.T) {
	eng := newTestEngine(t)
	eng.StartSession()
	h := NewObservationsHandler(eng, seededStore(t))

	rec := postObservation(t, h, `{"person_id":"24054-EC-001","name":"Alice","recognized":true}`)
	assertStatusCode(t, rec, 202)

	var resp observationResponse
	parseJSONResponse(t, rec, &resp)
	if !resp.Processed {
		t.Error("expected observation processed")
	}
	if !resp.MarkedNow {
		t.Error("expected first sighting to mark attendance")
	}
	if resp.State != engine.StateMarking {
		t.Errorf("expected state MARKING, got %s", resp.State)
	}

	// Second frame on the same day: store returns marked_now=false.
	rec = postObservation(t, h, `{"person_id":"24054-EC-001","name":"Alice","recognized":true}`)
	parseJSONResponse(t, rec, &resp)
	if resp.MarkedNow {
		t.Error("expected same-day repeat not to mark again")
	}
}

func TestIngest_UnrecognizedIsNoop(t *testing.T) {
	eng := newTestEngine(t)
	eng.StartSession()
	h := NewObservationsHandler(eng, seededStore(t))

	rec := postObservation(t, h, `{"person_id":"24054-EC-001","name":"Alice","recognized":false}`)
	assertStatusCode(t, rec, 202)

	if _, tracked := eng.PersonStatus("24054-EC-001"); tracked {
		t.Error("unrecognized observation must not create person state")
	}
}

func TestIngest_UnknownStudentStillTracked(t *testing.T) {
	eng := newTestEngine(t)
	eng.StartSession()
	h := NewObservationsHandler(eng, seededStore(t))

	// A face the recognizer knows but the roster doesn't: attendance can't
	// be marked, state machine still tracks the person.
	rec := postObservation(t, h, `{"person_id":"99999-XX-999","name":"Ghost","recognized":true}`)
	assertStatusCode(t, rec, 202)

	var resp observationResponse
	parseJSONResponse(t, rec, &resp)
	if resp.MarkedNow {
		t.Error("unknown student must not be marked")
	}
	if resp.State != engine.StateMarking {
		t.Errorf("expected state MARKING, got %s", resp.State)
	}
}

func TestIngest_BadRequest(t *testing.T) {
	eng := newTestEngine(t)
	h := NewObservationsHandler(eng, seededStore(t))

	rec := postObservation(t, h, `{not json`)
	assertStatusCode(t, rec, 400)

	rec = postObservation(t, h, `{"name":"Alice","recognized":true}`)
	assertStatusCode(t, rec, 400)
}
