package lessons

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/conorfennell/vocabtrack/internal/domain"
	"github.com/conorfennell/vocabtrack/internal/stats"
)

// ErrLessonNotFound is returned for operations on an unknown lesson ID.
var ErrLessonNotFound = fmt.Errorf("lesson %w", domain.ErrNotFound)

// Store is the persistence the service needs.
type Store interface {
	InsertLesson(ctx context.Context, l domain.Lesson) error
	FindLessonByID(ctx context.Context, id string) (*domain.Lesson, error)
	ListLessons(ctx context.Context) ([]domain.Lesson, error)
	UpdateLesson(ctx context.Context, l domain.Lesson) error
	DeleteLesson(ctx context.Context, id string) error
	// UpdateLessonWithActivity saves l and adds a to its day atomically.
	UpdateLessonWithActivity(ctx context.Context, l domain.Lesson, a domain.DailyActivity) error
}

// CreateLessonInput is the body of a new lesson.
type CreateLessonInput struct {
	Title string `json:"title" validate:"required"`
}

// CompleteLessonInput carries an optional score out of 100.
type CompleteLessonInput struct {
	Score *int `json:"score,omitempty"`
}

// Service manages lessons and counts their completions.
type Service struct {
	store    Store
	clock    stats.Clock
	validate *validator.Validate
	policy   *bluemonday.Policy
}

// NewService creates a lesson service reading time from clock.
func NewService(store Store, clock stats.Clock) *Service {
	if clock == nil {
		clock = stats.SystemClock
	}
	return &Service{
		store:    store,
		clock:    clock,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		policy:   bluemonday.StrictPolicy(),
	}
}

// Create adds a new, incomplete lesson with a sanitized title.
func (s *Service) Create(ctx context.Context, in CreateLessonInput) (*domain.Lesson, error) {
	in.Title = strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(in.Title)))
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	l := domain.Lesson{ID: uuid.NewString(), Title: in.Title}
	if err := s.store.InsertLesson(ctx, l); err != nil {
		return nil, err
	}
	return &l, nil
}

// Get returns the lesson or nil when there is none.
func (s *Service) Get(ctx context.Context, id string) (*domain.Lesson, error) {
	return s.store.FindLessonByID(ctx, id)
}

// List returns all lessons.
func (s *Service) List(ctx context.Context) ([]domain.Lesson, error) {
	return s.store.ListLessons(ctx)
}

// Delete removes a lesson.
func (s *Service) Delete(ctx context.Context, id string) error {
	l, err := s.store.FindLessonByID(ctx, id)
	if err != nil {
		return err
	}
	if l == nil {
		return fmt.Errorf("%w: %s", ErrLessonNotFound, id)
	}
	return s.store.DeleteLesson(ctx, id)
}

// Complete marks a lesson done. Only the first completion stamps CompletedAt
// and counts toward today's activity; a later call may still change the score.
func (s *Service) Complete(ctx context.Context, id string, in CompleteLessonInput) (*domain.Lesson, error) {
	if in.Score != nil {
		if err := s.validate.Var(*in.Score, "gte=0,lte=100"); err != nil {
			return nil, fmt.Errorf("%w: score: %w", domain.ErrInvalidInput, err)
		}
	}

	l, err := s.store.FindLessonByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, fmt.Errorf("%w: %s", ErrLessonNotFound, id)
	}

	first := !l.Completed
	if first {
		now := s.clock.Now()
		l.Completed = true
		l.CompletedAt = &now
	}
	if in.Score != nil {
		score := *in.Score
		l.Score = &score
	}

	if first {
		activity := domain.DailyActivity{Date: domain.DateOf(*l.CompletedAt), LessonsCompleted: 1}
		err = s.store.UpdateLessonWithActivity(ctx, *l, activity)
	} else {
		err = s.store.UpdateLesson(ctx, *l)
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}
