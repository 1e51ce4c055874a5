package web

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/conorfennell/vocabtrack/internal/lessons"
)

func (s *Server) handleListLessons() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := s.lessons.List(r.Context())
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		respondJSON(w, list, http.StatusOK)
	}
}

func (s *Server) handleCreateLesson() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in lessons.CreateLessonInput
		if err := decodeJSON(w, r, &in); err != nil {
			respondError(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		lesson, err := s.lessons.Create(r.Context(), in)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		respondJSON(w, lesson, http.StatusCreated)
	}
}

func (s *Server) handleGetLesson() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lesson, err := s.lessons.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		if lesson == nil {
			respondError(w, "lesson not found", http.StatusNotFound)
			return
		}
		respondJSON(w, lesson, http.StatusOK)
	}
}

func (s *Server) handleDeleteLesson() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.lessons.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			respondServiceError(w, r, err)
			return
		}
		respondSuccess(w)
	}
}

// handleCompleteLesson accepts an optional {"score": n} body.
func (s *Server) handleCompleteLesson() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in lessons.CompleteLessonInput
		if err := decodeJSON(w, r, &in); err != nil && !errors.Is(err, io.EOF) {
			respondError(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		lesson, err := s.lessons.Complete(r.Context(), chi.URLParam(r, "id"), in)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		respondJSON(w, lesson, http.StatusOK)
	}
}
