package stats

import (
	"math"
	"time"

	"github.com/conorfennell/vocabtrack/internal/domain"
)

// DefaultPracticeDays is how long a learned word may go unpractised before it
// is due again.
const DefaultPracticeDays = 7

// Clock supplies the current instant. Its location decides what "today" is.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a plain function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock in local time.
var SystemClock Clock = ClockFunc(time.Now)

// Engine computes learning statistics. It holds no state besides its clock
// and is safe for concurrent use.
type Engine struct {
	clock Clock
}

// New returns an Engine reading time from clock, or the system clock if nil.
func New(clock Clock) *Engine {
	if clock == nil {
		clock = SystemClock
	}
	return &Engine{clock: clock}
}

// Stats aggregates completed lessons, learned words, total practice time and
// the current streak.
func (e *Engine) Stats(lessons []domain.Lesson, words []domain.Word, activities []domain.DailyActivity) domain.LearningStats {
	var stats domain.LearningStats
	for _, lesson := range lessons {
		if lesson.Completed {
			stats.LessonsCompleted++
		}
	}
	for _, word := range words {
		if word.Learned {
			stats.WordsLearned++
		}
	}
	for _, activity := range activities {
		stats.TotalPracticeTime += activity.PracticeTime
	}
	stats.Streak = e.Streak(activities)
	return stats
}

// Streak counts consecutive days with activity, walking backward from today,
// or from yesterday when today has nothing yet. The first missing or empty day
// ends the streak.
func (e *Engine) Streak(activities []domain.DailyActivity) int {
	if len(activities) == 0 {
		return 0
	}

	today := domain.DateOf(e.clock.Now())
	yesterday := today.AddDays(-1)

	var cursor domain.Date
	switch {
	case anyActiveOn(activities, today):
		cursor = today
	case anyActiveOn(activities, yesterday):
		cursor = yesterday
	default:
		return 0
	}

	streak := 0
	for activeOn(activities, cursor) {
		streak++
		cursor = cursor.AddDays(-1)
	}
	return streak
}

// anyActiveOn decides the anchor: any record for date may qualify it.
func anyActiveOn(activities []domain.DailyActivity, date domain.Date) bool {
	for _, activity := range activities {
		if activity.Date == date && activity.HasActivity() {
			return true
		}
	}
	return false
}

// activeOn drives the walk and looks at the first record for date only, so a
// later duplicate does not rescue an empty first one.
func activeOn(activities []domain.DailyActivity, date domain.Date) bool {
	activity, ok := findByDate(activities, date)
	return ok && activity.HasActivity()
}

func findByDate(activities []domain.DailyActivity, date domain.Date) (domain.DailyActivity, bool) {
	for _, activity := range activities {
		if activity.Date == date {
			return activity, true
		}
	}
	return domain.DailyActivity{}, false
}

// LessonProgress returns the completed share of lessons as a whole percentage.
func LessonProgress(lessons []domain.Lesson) int {
	if len(lessons) == 0 {
		return 0
	}
	completed := 0
	for _, lesson := range lessons {
		if lesson.Completed {
			completed++
		}
	}
	return int(math.Round(float64(completed) / float64(len(lessons)) * 100))
}

// AverageScore is the rounded mean score of completed lessons that have one.
// Completed lessons without a score do not count as zero.
func AverageScore(lessons []domain.Lesson) int {
	total, count := 0, 0
	for _, lesson := range lessons {
		if !lesson.Completed || lesson.Score == nil {
			continue
		}
		total += *lesson.Score
		count++
	}
	if count == 0 {
		return 0
	}
	return int(math.Round(float64(total) / float64(count)))
}

// WordsNeedingPractice keeps, in order, the learned words that were never
// practised or were last practised before now minus days.
func (e *Engine) WordsNeedingPractice(words []domain.Word, days int) []domain.Word {
	cutoff := e.clock.Now().AddDate(0, 0, -days)

	due := []domain.Word{}
	for _, word := range words {
		if !word.Learned {
			continue
		}
		if word.LastPracticedAt == nil || word.LastPracticedAt.Before(cutoff) {
			due = append(due, word)
		}
	}
	return due
}
