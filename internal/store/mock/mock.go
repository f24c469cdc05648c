// Package mock provides an in-memory store implementation for testing and
// simulated attendance runs.
package mock

import (
	"context"
	"sync"
	"time"

	"github.com/kozaktomas/face-attendance/internal/store"
)

// Mock is an in-memory store.Store. Zero value is not usable; call New.
type Mock struct {
	mu         sync.RWMutex
	students   map[string]store.Student
	attendance map[string]map[string]bool // day -> student ID set

	// Error injection
	RecordError error
	AddError    error
	GetError    error
	ListError   error
	DeleteError error
	CountError  error
}

// New creates an empty mock store.
func New() *Mock {
	return &Mock{
		students:   make(map[string]store.Student),
		attendance: make(map[string]map[string]bool),
	}
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// RecordAttendance marks a student present, once per day.
func (m *Mock) RecordAttendance(ctx context.Context, studentID string, now time.Time) (bool, error) {
	if m.RecordError != nil {
		return false, m.RecordError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.students[studentID]; !ok {
		return false, store.ErrNotFound
	}

	day := dayKey(now)
	if m.attendance[day] == nil {
		m.attendance[day] = make(map[string]bool)
	}
	if m.attendance[day][studentID] {
		return false, nil
	}
	m.attendance[day][studentID] = true
	return true, nil
}

func (m *Mock) AddStudent(ctx context.Context, student store.Student) error {
	if m.AddError != nil {
		return m.AddError
	}
	if err := store.ValidateStudentID(student.ID); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.students[student.ID]; ok {
		return store.ErrDuplicate
	}
	m.students[student.ID] = student
	return nil
}

func (m *Mock) GetStudent(ctx context.Context, id string) (*store.Student, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.students[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &s, nil
}

func (m *Mock) ListStudents(ctx context.Context) ([]store.Student, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]store.Student, 0, len(m.students))
	for _, s := range m.students {
		out = append(out, s)
	}
	return out, nil
}

func (m *Mock) DeleteStudent(ctx context.Context, id string) error {
	if m.DeleteError != nil {
		return m.DeleteError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.students[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.students, id)
	return nil
}

func (m *Mock) CountAttendance(ctx context.Context, day time.Time) (int, error) {
	if m.CountError != nil {
		return 0, m.CountError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.attendance[dayKey(day)]), nil
}
