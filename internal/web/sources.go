package web

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleListSources() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sources, err := s.importer.Sources(r.Context())
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		respondJSON(w, sources, http.StatusOK)
	}
}

// handleAddSource registers a local directory or git URL given as {"path": ...}.
func (s *Server) handleAddSource() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Path string `json:"path"`
		}
		if err := decodeJSON(w, r, &req); err != nil {
			respondError(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		source, err := s.importer.AddSource(r.Context(), req.Path)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		respondJSON(w, source, http.StatusCreated)
	}
}

func (s *Server) handleDeleteSource() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			respondError(w, "invalid source id", http.StatusBadRequest)
			return
		}
		if err := s.importer.RemoveSource(r.Context(), id); err != nil {
			respondServiceError(w, r, err)
			return
		}
		respondSuccess(w)
	}
}

// handleSync runs a sync in the foreground and returns its report.
func (s *Server) handleSync() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := s.importer.Run(r.Context())
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		respondJSON(w, report, http.StatusOK)
	}
}
