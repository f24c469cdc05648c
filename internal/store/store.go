// Package store defines the attendance store contract: the external
// collaborator that records who was present. The engine only ever sees the
// marked-now boolean; everything else here serves the roster CLI and the
// web surface.
package store

import (
	"context"
	"errors"
	"regexp"
	"time"
)

var (
	// ErrInvalidStudentID means the ID does not match the roster format.
	ErrInvalidStudentID = errors.New("invalid student ID format, expected e.g. 24054-EC-001")
	// ErrNotFound means no student with that ID is registered.
	ErrNotFound = errors.New("student not found")
	// ErrDuplicate means a student with that ID already exists.
	ErrDuplicate = errors.New("student already registered")
)

// studentIDPattern matches IDs like 24054-EC-001.
var studentIDPattern = regexp.MustCompile(`^\d{5}-[A-Z]{2}-\d{3}$`)

// ValidateStudentID checks the roster ID format.
func ValidateStudentID(id string) error {
	if !studentIDPattern.MatchString(id) {
		return ErrInvalidStudentID
	}
	return nil
}

// Student is one roster entry.
type Student struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	RegisteredAt time.Time `json:"registered_at"`
}

// AttendanceRecord is one marked attendance.
type AttendanceRecord struct {
	StudentID string    `json:"student_id"`
	MarkedAt  time.Time `json:"marked_at"`
}

// Store is the attendance persistence contract.
type Store interface {
	// RecordAttendance marks the student present for the day of now.
	// Returns true only when this call created the record; repeated calls
	// on the same day return false. Unknown students yield ErrNotFound.
	RecordAttendance(ctx context.Context, studentID string, now time.Time) (bool, error)

	AddStudent(ctx context.Context, student Student) error
	GetStudent(ctx context.Context, id string) (*Student, error)
	ListStudents(ctx context.Context) ([]Student, error)
	DeleteStudent(ctx context.Context, id string) error

	// CountAttendance returns how many students were marked on the day of
	// the given time.
	CountAttendance(ctx context.Context, day time.Time) (int, error)
}
