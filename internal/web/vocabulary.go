package web

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/conorfennell/vocabtrack/internal/vocabulary"
)

func (s *Server) handleListWords() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		words, err := s.vocabulary.List(r.Context())
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		respondJSON(w, words, http.StatusOK)
	}
}

func (s *Server) handleCreateWord() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in vocabulary.CreateWordInput
		if err := decodeJSON(w, r, &in); err != nil {
			respondError(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		word, err := s.vocabulary.Create(r.Context(), in)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		respondJSON(w, word, http.StatusCreated)
	}
}

func (s *Server) handleGetWord() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		word, err := s.vocabulary.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		if word == nil {
			respondError(w, "word not found", http.StatusNotFound)
			return
		}
		respondJSON(w, word, http.StatusOK)
	}
}

func (s *Server) handleUpdateWord() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in vocabulary.UpdateWordInput
		if err := decodeJSON(w, r, &in); err != nil {
			respondError(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		word, err := s.vocabulary.Update(r.Context(), chi.URLParam(r, "id"), in)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		respondJSON(w, word, http.StatusOK)
	}
}

func (s *Server) handleDeleteWord() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.vocabulary.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			respondServiceError(w, r, err)
			return
		}
		respondSuccess(w)
	}
}

func (s *Server) handleMarkLearned() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		word, err := s.vocabulary.MarkLearned(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		respondJSON(w, word, http.StatusOK)
	}
}

// handleRecordPractice accepts an optional {"minutes": n} body.
func (s *Server) handleRecordPractice() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in vocabulary.PracticeInput
		if err := decodeJSON(w, r, &in); err != nil && !errors.Is(err, io.EOF) {
			respondError(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		word, err := s.vocabulary.RecordPractice(r.Context(), chi.URLParam(r, "id"), in)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		respondJSON(w, word, http.StatusOK)
	}
}

func (s *Server) handleWordsNeedingPractice() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var days *int
		if raw := r.URL.Query().Get("days"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				respondError(w, "days must be an integer", http.StatusBadRequest)
				return
			}
			days = &n
		}
		words, err := s.vocabulary.NeedingPractice(r.Context(), days)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		respondJSON(w, words, http.StatusOK)
	}
}
