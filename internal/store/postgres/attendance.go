package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kozaktomas/face-attendance/internal/store"
	"github.com/lib/pq"
)

// foreignKeyViolation is the PostgreSQL error code for FK violations.
const foreignKeyViolation = "23503"

// Repository implements store.Store on PostgreSQL.
type Repository struct {
	pool *Pool
}

// NewRepository creates a PostgreSQL-backed attendance store.
func NewRepository(pool *Pool) *Repository {
	return &Repository{pool: pool}
}

// RecordAttendance marks a student present for the day of now. The unique
// (student_id, day) key makes the mark one-shot per day; repeated calls
// return false without error.
func (r *Repository) RecordAttendance(ctx context.Context, studentID string, now time.Time) (bool, error) {
	result, err := r.pool.db.ExecContext(ctx, `
		INSERT INTO attendance (student_id, day, marked_at)
		VALUES ($1, $2::date, $3)
		ON CONFLICT (student_id, day) DO NOTHING
	`, studentID, now, now)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation {
			return false, store.ErrNotFound
		}
		return false, fmt.Errorf("record attendance: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("record attendance rows affected: %w", err)
	}
	return rows > 0, nil
}

func (r *Repository) AddStudent(ctx context.Context, student store.Student) error {
	if err := store.ValidateStudentID(student.ID); err != nil {
		return err
	}
	registeredAt := student.RegisteredAt
	if registeredAt.IsZero() {
		registeredAt = time.Now()
	}

	result, err := r.pool.db.ExecContext(ctx, `
		INSERT INTO students (id, name, registered_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO NOTHING
	`, student.ID, student.Name, registeredAt)
	if err != nil {
		return fmt.Errorf("add student: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("add student rows affected: %w", err)
	}
	if rows == 0 {
		return store.ErrDuplicate
	}
	return nil
}

func (r *Repository) GetStudent(ctx context.Context, id string) (*store.Student, error) {
	var s store.Student
	err := r.pool.db.QueryRowContext(ctx, `
		SELECT id, name, registered_at FROM students WHERE id = $1
	`, id).Scan(&s.ID, &s.Name, &s.RegisteredAt)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}
	return &s, nil
}

func (r *Repository) ListStudents(ctx context.Context) ([]store.Student, error) {
	rows, err := r.pool.db.QueryContext(ctx, `
		SELECT id, name, registered_at FROM students ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	defer rows.Close()

	var students []store.Student
	for rows.Next() {
		var s store.Student
		if err := rows.Scan(&s.ID, &s.Name, &s.RegisteredAt); err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate students: %w", err)
	}
	return students, nil
}

func (r *Repository) DeleteStudent(ctx context.Context, id string) error {
	result, err := r.pool.db.ExecContext(ctx, "DELETE FROM students WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete student rows affected: %w", err)
	}
	if rows == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *Repository) CountAttendance(ctx context.Context, day time.Time) (int, error) {
	var n int
	err := r.pool.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM attendance WHERE day = $1::date
	`, day).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count attendance: %w", err)
	}
	return n, nil
}
