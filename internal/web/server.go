package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/conorfennell/vocabtrack/internal/importer"
	"github.com/conorfennell/vocabtrack/internal/lessons"
	"github.com/conorfennell/vocabtrack/internal/progress"
	"github.com/conorfennell/vocabtrack/internal/vocabulary"
)

// Options controls CORS. Outside production every origin is allowed.
type Options struct {
	Production     bool
	AllowedOrigins []string
}

// Server holds the dependencies for the HTTP server.
type Server struct {
	router     chi.Router
	vocabulary *vocabulary.Service
	lessons    *lessons.Service
	progress   *progress.Service
	importer   *importer.Importer
	opts       Options
}

// NewServer creates and configures a new server.
func NewServer(vocab *vocabulary.Service, lessonSvc *lessons.Service, progressSvc *progress.Service, im *importer.Importer, opts Options) *Server {
	s := &Server{
		router:     chi.NewRouter(),
		vocabulary: vocab,
		lessons:    lessonSvc,
		progress:   progressSvc,
		importer:   im,
		opts:       opts,
	}
	s.routes()
	return s
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) corsOptions() cors.Options {
	origins := []string{"*"}
	if s.opts.Production {
		origins = s.opts.AllowedOrigins
	}
	return cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         int((12 * time.Hour).Seconds()),
	}
}

// routes sets up the routing for the server.
func (s *Server) routes() {
	r := s.router
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(s.corsOptions()))

	r.Get("/healthz", s.handleHealth())

	r.Route("/vocabulary", func(r chi.Router) {
		r.Get("/", s.handleListWords())
		r.Post("/", s.handleCreateWord())
		r.Get("/needing-practice", s.handleWordsNeedingPractice())
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetWord())
			r.Patch("/", s.handleUpdateWord())
			r.Delete("/", s.handleDeleteWord())
			r.Post("/learned", s.handleMarkLearned())
			r.Post("/practice", s.handleRecordPractice())
		})
	})

	r.Route("/lessons", func(r chi.Router) {
		r.Get("/", s.handleListLessons())
		r.Post("/", s.handleCreateLesson())
		r.Get("/{id}", s.handleGetLesson())
		r.Delete("/{id}", s.handleDeleteLesson())
		r.Post("/{id}/complete", s.handleCompleteLesson())
	})

	r.Get("/activities", s.handleListActivities())
	r.Post("/activities", s.handleLogActivity())
	r.Get("/stats", s.handleStats())
	r.Get("/stats/dashboard", s.handleDashboard())

	// Source management routes
	r.Get("/sources", s.handleListSources())
	r.Post("/sources", s.handleAddSource())
	r.Delete("/sources/{id}", s.handleDeleteSource())
	r.Post("/sync", s.handleSync())
}

func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
	}
}
