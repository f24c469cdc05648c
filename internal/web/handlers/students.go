package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/face-attendance/internal/store"
)

// StudentsHandler exposes the roster behind the attendance store.
type StudentsHandler struct {
	store store.Store
}

// NewStudentsHandler creates a students handler.
func NewStudentsHandler(st store.Store) *StudentsHandler {
	return &StudentsHandler{store: st}
}

// List returns all registered students.
func (h *StudentsHandler) List(w http.ResponseWriter, r *http.Request) {
	students, err := h.store.ListStudents(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list students")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"students": students,
		"count":    len(students),
	})
}

// Create registers a new student.
func (h *StudentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "missing name")
		return
	}

	err := h.store.AddStudent(r.Context(), store.Student{
		ID:           req.ID,
		Name:         req.Name,
		RegisteredAt: time.Now(),
	})
	switch {
	case errors.Is(err, store.ErrInvalidStudentID):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrDuplicate):
		respondError(w, http.StatusConflict, err.Error())
	case err != nil:
		respondError(w, http.StatusInternalServerError, "failed to add student")
	default:
		respondJSON(w, http.StatusCreated, map[string]string{"id": req.ID})
	}
}

// Get returns one student by ID.
func (h *StudentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	student, err := h.store.GetStudent(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "student not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to get student")
		return
	}
	respondJSON(w, http.StatusOK, student)
}

// Delete removes a student and their attendance records.
func (h *StudentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := h.store.DeleteStudent(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "student not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete student")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
