package web

import (
	"net/http"

	"github.com/conorfennell/vocabtrack/internal/progress"
)

func (s *Server) handleListActivities() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		activities, err := s.progress.Activities(r.Context())
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		respondJSON(w, activities, http.StatusOK)
	}
}

func (s *Server) handleLogActivity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in progress.LogInput
		if err := decodeJSON(w, r, &in); err != nil {
			respondError(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		activity, err := s.progress.Log(r.Context(), in)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		respondJSON(w, activity, http.StatusOK)
	}
}

func (s *Server) handleStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := s.progress.Stats(r.Context())
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		respondJSON(w, stats, http.StatusOK)
	}
}

func (s *Server) handleDashboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dashboard, err := s.progress.Dashboard(r.Context())
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		respondJSON(w, dashboard, http.StatusOK)
	}
}
