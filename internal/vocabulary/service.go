package vocabulary

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

// ErrWordNotFound is returned for operations on an unknown word ID.
var ErrWordNotFound = fmt.Errorf("word %w", domain.ErrNotFound)

// Store is the persistence the service needs.
type Store interface {
	InsertWord(ctx context.Context, w domain.Word) error
	FindWordByID(ctx context.Context, id string) (*domain.Word, error)
	ListWords(ctx context.Context) ([]domain.Word, error)
	UpdateWord(ctx context.Context, w domain.Word) error
	DeleteWord(ctx context.Context, id string) error
	// UpdateWordWithActivity saves w and adds a to its day atomically.
	UpdateWordWithActivity(ctx context.Context, w domain.Word, a domain.DailyActivity) error
}

// CreateWordInput is the body of a new word.
type CreateWordInput struct {
	Word       string `json:"word" validate:"required"`
	Definition string `json:"definition" validate:"required"`
}

// UpdateWordInput changes only the fields that are set.
type UpdateWordInput struct {
	Word       *string `json:"word,omitempty"`
	Definition *string `json:"definition,omitempty"`
	Learned    *bool   `json:"learned,omitempty"`
}

// PracticeInput describes one practice session of a word.
type PracticeInput struct {
	Minutes int `json:"minutes" validate:"gte=0"`
}

// Service manages words and records the learning events that touch them.
type Service struct {
	store        Store
	clock        stats.Clock
	engine       *stats.Engine
	validate     *validator.Validate
	policy       *bluemonday.Policy
	practiceDays int
}

// NewService creates a vocabulary service. practiceDays is the default
// threshold for NeedingPractice.
func NewService(store Store, clock stats.Clock, practiceDays int) *Service {
	if clock == nil {
		clock = stats.SystemClock
	}
	return &Service{
		store:        store,
		clock:        clock,
		engine:       stats.New(clock),
		validate:     validator.New(validator.WithRequiredStructEnabled()),
		policy:       bluemonday.StrictPolicy(),
		practiceDays: practiceDays,
	}
}

// sanitize strips any markup from user text.
func (s *Service) sanitize(input string) string {
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(input)))
}

// Create adds a new, unlearned word.
func (s *Service) Create(ctx context.Context, in CreateWordInput) (*domain.Word, error) {
	in.Word = s.sanitize(in.Word)
	in.Definition = s.sanitize(in.Definition)
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	w := domain.Word{
		ID:         uuid.NewString(),
		Word:       in.Word,
		Definition: in.Definition,
	}
	if err := s.store.InsertWord(ctx, w); err != nil {
		return nil, err
	}
	return &w, nil
}

// Get returns the word or nil when there is none.
func (s *Service) Get(ctx context.Context, id string) (*domain.Word, error) {
	return s.store.FindWordByID(ctx, id)
}

// List returns all words.
func (s *Service) List(ctx context.Context) ([]domain.Word, error) {
	return s.store.ListWords(ctx)
}

func (s *Service) mustFind(ctx context.Context, id string) (*domain.Word, error) {
	w, err := s.store.FindWordByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, fmt.Errorf("%w: %s", ErrWordNotFound, id)
	}
	return w, nil
}

// Update edits a word. Setting learned goes through the same bookkeeping as
// MarkLearned.
func (s *Service) Update(ctx context.Context, id string, in UpdateWordInput) (*domain.Word, error) {
	w, err := s.mustFind(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Word != nil {
		word := s.sanitize(*in.Word)
		if err := s.validate.Var(word, "required"); err != nil {
			return nil, fmt.Errorf("%w: word: %w", domain.ErrInvalidInput, err)
		}
		w.Word = word
	}
	if in.Definition != nil {
		definition := s.sanitize(*in.Definition)
		if err := s.validate.Var(definition, "required"); err != nil {
			return nil, fmt.Errorf("%w: definition: %w", domain.ErrInvalidInput, err)
		}
		w.Definition = definition
	}

	newlyLearned := false
	if in.Learned != nil {
		newlyLearned = *in.Learned && !w.Learned
		w.Learned = *in.Learned
		if newlyLearned {
			now := s.clock.Now()
			w.LearnedAt = &now
		}
	}

	if err := s.save(ctx, *w, newlyLearned, learnedActivity(*w)); err != nil {
		return nil, err
	}
	return w, nil
}

// Delete removes a word.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.mustFind(ctx, id); err != nil {
		return err
	}
	return s.store.DeleteWord(ctx, id)
}

// MarkLearned flags a word as learned. The first time it also stamps
// LearnedAt and counts the word in today's activity; later calls change
// nothing.
func (s *Service) MarkLearned(ctx context.Context, id string) (*domain.Word, error) {
	w, err := s.mustFind(ctx, id)
	if err != nil {
		return nil, err
	}
	if w.Learned {
		return w, nil
	}

	now := s.clock.Now()
	w.Learned = true
	w.LearnedAt = &now
	if err := s.save(ctx, *w, true, learnedActivity(*w)); err != nil {
		return nil, err
	}
	return w, nil
}

// save writes w, together with activity when record is set, so a word is
// never learned or practised without its day being counted.
func (s *Service) save(ctx context.Context, w domain.Word, record bool, activity domain.DailyActivity) error {
	if record {
		return s.store.UpdateWordWithActivity(ctx, w, activity)
	}
	return s.store.UpdateWord(ctx, w)
}

func learnedActivity(w domain.Word) domain.DailyActivity {
	if w.LearnedAt == nil {
		return domain.DailyActivity{}
	}
	return domain.DailyActivity{Date: domain.DateOf(*w.LearnedAt), WordsLearned: 1}
}

// RecordPractice counts one practice of a word and adds its minutes to
// today's practice time.
func (s *Service) RecordPractice(ctx context.Context, id string, in PracticeInput) (*domain.Word, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	w, err := s.mustFind(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	w.TimesPracticed++
	w.LastPracticedAt = &now
	activity := domain.DailyActivity{Date: domain.DateOf(now), PracticeTime: in.Minutes}
	if err := s.save(ctx, *w, in.Minutes > 0, activity); err != nil {
		return nil, err
	}
	return w, nil
}

// NeedingPractice returns learned words due for practice. A nil days uses the
// service default.
func (s *Service) NeedingPractice(ctx context.Context, days *int) ([]domain.Word, error) {
	threshold := s.practiceDays
	if days != nil {
		threshold = *days
	}
	words, err := s.store.ListWords(ctx)
	if err != nil {
		return nil, err
	}
	return s.engine.WordsNeedingPractice(words, threshold), nil
}
