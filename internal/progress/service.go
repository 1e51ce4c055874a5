package progress

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/conorfennell/vocabtrack/internal/domain"
	"github.com/conorfennell/vocabtrack/internal/stats"
)

// Store is the persistence the service needs.
type Store interface {
	ListLessons(ctx context.Context) ([]domain.Lesson, error)
	ListWords(ctx context.Context) ([]domain.Word, error)
	ListActivities(ctx context.Context) ([]domain.DailyActivity, error)
	AddActivity(ctx context.Context, a domain.DailyActivity) error
}

// LogInput adds to a day's counters. An empty Date means today.
type LogInput struct {
	Date             string `json:"date"`
	LessonsCompleted int    `json:"lessonsCompleted" validate:"gte=0"`
	WordsLearned     int    `json:"wordsLearned" validate:"gte=0"`
	PracticeTime     int    `json:"practiceTime" validate:"gte=0"`
}

// Dashboard is everything a progress overview shows.
type Dashboard struct {
	Stats                domain.LearningStats `json:"stats"`
	LessonProgress       int                  `json:"lessonProgress"`
	AverageScore         int                  `json:"averageScore"`
	WordsNeedingPractice int                  `json:"wordsNeedingPractice"`
	TotalLessons         int                  `json:"totalLessons"`
	TotalWords           int                  `json:"totalWords"`
}

// Service logs daily activity and derives statistics from the store.
type Service struct {
	store        Store
	clock        stats.Clock
	engine       *stats.Engine
	validate     *validator.Validate
	practiceDays int
}

// NewService creates a progress service. practiceDays is the threshold the
// dashboard uses for words needing practice.
func NewService(store Store, clock stats.Clock, practiceDays int) *Service {
	if clock == nil {
		clock = stats.SystemClock
	}
	return &Service{
		store:        store,
		clock:        clock,
		engine:       stats.New(clock),
		validate:     validator.New(validator.WithRequiredStructEnabled()),
		practiceDays: practiceDays,
	}
}

// Log records activity for a day and returns what was added.
func (s *Service) Log(ctx context.Context, in LogInput) (*domain.DailyActivity, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	date := domain.DateOf(s.clock.Now())
	if in.Date != "" {
		parsed, err := domain.ParseDate(in.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		}
		date = parsed
	}

	a := domain.DailyActivity{
		Date:             date,
		LessonsCompleted: in.LessonsCompleted,
		WordsLearned:     in.WordsLearned,
		PracticeTime:     in.PracticeTime,
	}
	if err := s.store.AddActivity(ctx, a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Activities returns every daily record, oldest first.
func (s *Service) Activities(ctx context.Context) ([]domain.DailyActivity, error) {
	return s.store.ListActivities(ctx)
}

type snapshot struct {
	lessons    []domain.Lesson
	words      []domain.Word
	activities []domain.DailyActivity
}

func (s *Service) load(ctx context.Context) (snapshot, error) {
	var snap snapshot
	var err error
	if snap.lessons, err = s.store.ListLessons(ctx); err != nil {
		return snap, err
	}
	if snap.words, err = s.store.ListWords(ctx); err != nil {
		return snap, err
	}
	if snap.activities, err = s.store.ListActivities(ctx); err != nil {
		return snap, err
	}
	return snap, nil
}

// Stats computes the learning statistics from freshly loaded data.
func (s *Service) Stats(ctx context.Context) (domain.LearningStats, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return domain.LearningStats{}, err
	}
	return s.engine.Stats(snap.lessons, snap.words, snap.activities), nil
}

// Dashboard combines the statistics with lesson progress, the average score
// and the number of words due for practice.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return &Dashboard{
		Stats:                s.engine.Stats(snap.lessons, snap.words, snap.activities),
		LessonProgress:       stats.LessonProgress(snap.lessons),
		AverageScore:         stats.AverageScore(snap.lessons),
		WordsNeedingPractice: len(s.engine.WordsNeedingPractice(snap.words, s.practiceDays)),
		TotalLessons:         len(snap.lessons),
		TotalWords:           len(snap.words),
	}, nil
}
