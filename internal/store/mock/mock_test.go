package mock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kozaktomas/face-attendance/internal/store"
)

func seedStudent(t *testing.T, m *Mock, id, name string) {
	t.Helper()
	err := m.AddStudent(context.Background(), store.Student{ID: id, Name: name, RegisteredAt: time.Now()})
	if err != nil {
		t.Fatalf("failed to seed student %s: %v", id, err)
	}
}

func TestRecordAttendance_OncePerDay(t *testing.T) {
	m := New()
	ctx := context.Background()
	seedStudent(t, m, "24054-EC-001", "Alice")

	day := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

	marked, err := m.RecordAttendance(ctx, "24054-EC-001", day)
	if err != nil || !marked {
		t.Fatalf("expected first mark to succeed, got marked=%v err=%v", marked, err)
	}

	marked, err = m.RecordAttendance(ctx, "24054-EC-001", day.Add(2*time.Hour))
	if err != nil || marked {
		t.Fatalf("expected same-day repeat to return false, got marked=%v err=%v", marked, err)
	}

	// Next day marks again.
	marked, err = m.RecordAttendance(ctx, "24054-EC-001", day.Add(24*time.Hour))
	if err != nil || !marked {
		t.Fatalf("expected next-day mark to succeed, got marked=%v err=%v", marked, err)
	}
}

func TestRecordAttendance_UnknownStudent(t *testing.T) {
	m := New()
	_, err := m.RecordAttendance(context.Background(), "24054-EC-001", time.Now())
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAddStudent_ValidatesAndRejectsDuplicates(t *testing.T) {
	m := New()
	ctx := context.Background()

	err := m.AddStudent(ctx, store.Student{ID: "bad-id", Name: "X"})
	if !errors.Is(err, store.ErrInvalidStudentID) {
		t.Errorf("expected ErrInvalidStudentID, got %v", err)
	}

	seedStudent(t, m, "24054-EC-001", "Alice")
	err = m.AddStudent(ctx, store.Student{ID: "24054-EC-001", Name: "Alice again"})
	if !errors.Is(err, store.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func TestCountAttendance(t *testing.T) {
	m := New()
	ctx := context.Background()
	seedStudent(t, m, "24054-EC-001", "Alice")
	seedStudent(t, m, "24054-EC-002", "Bob")

	day := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	m.RecordAttendance(ctx, "24054-EC-001", day)
	m.RecordAttendance(ctx, "24054-EC-002", day)

	n, err := m.CountAttendance(ctx, day.Add(5*time.Hour))
	if err != nil || n != 2 {
		t.Errorf("expected count 2, got %d (err=%v)", n, err)
	}

	n, _ = m.CountAttendance(ctx, day.Add(24*time.Hour))
	if n != 0 {
		t.Errorf("expected count 0 on the next day, got %d", n)
	}
}

func TestDeleteStudent(t *testing.T) {
	m := New()
	ctx := context.Background()
	seedStudent(t, m, "24054-EC-001", "Alice")

	if err := m.DeleteStudent(ctx, "24054-EC-001"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := m.GetStudent(ctx, "24054-EC-001"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestErrorInjection(t *testing.T) {
	m := New()
	m.RecordError = errors.New("boom")

	if _, err := m.RecordAttendance(context.Background(), "24054-EC-001", time.Now()); err == nil {
		t.Error("expected injected error")
	}
}
