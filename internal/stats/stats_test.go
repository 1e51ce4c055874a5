package stats

import (
	"reflect"
	"testing"
	"time"

	"github.com/conorfennell/vocabtrack/internal/domain"
)

var fixedNow = time.Date(2024, time.March, 10, 15, 30, 0, 0, time.UTC)

func fixedEngine() *Engine {
	return New(ClockFunc(func() time.Time { return fixedNow }))
}

func day(offset int) domain.Date {
	return domain.DateOf(fixedNow).AddDays(offset)
}

func intPtr(v int) *int { return &v }

func timePtr(t time.Time) *time.Time { return &t }

func TestStats(t *testing.T) {
	engine := fixedEngine()

	t.Run("empty inputs", func(t *testing.T) {
		got := engine.Stats(nil, nil, nil)
		if got != (domain.LearningStats{}) {
			t.Errorf("Expected zero stats, but got %+v", got)
		}
	})

	t.Run("lessons and words", func(t *testing.T) {
		lessons := []domain.Lesson{
			{ID: "1", Title: "Lesson 1", Completed: true},
			{ID: "2", Title: "Lesson 2", Completed: false},
			{ID: "3", Title: "Lesson 3", Completed: true},
		}
		words := []domain.Word{
			{ID: "1", Word: "hello", Definition: "greeting", Learned: true},
			{ID: "2", Word: "world", Definition: "planet", Learned: true},
			{ID: "3", Word: "test", Definition: "exam", Learned: false},
		}

		got := engine.Stats(lessons, words, nil)
		if got.LessonsCompleted != 2 {
			t.Errorf("Expected 2 lessons completed, but got %d", got.LessonsCompleted)
		}
		if got.WordsLearned != 2 {
			t.Errorf("Expected 2 words learned, but got %d", got.WordsLearned)
		}
	})

	t.Run("practice time from activities", func(t *testing.T) {
		activities := []domain.DailyActivity{
			{Date: domain.MustParseDate("2024-01-01"), LessonsCompleted: 1, WordsLearned: 5, PracticeTime: 30},
			{Date: domain.MustParseDate("2024-01-02"), LessonsCompleted: 2, WordsLearned: 3, PracticeTime: 45},
		}
		got := engine.Stats(nil, nil, activities)
		if got.TotalPracticeTime != 75 {
			t.Errorf("Expected total practice time 75, but got %d", got.TotalPracticeTime)
		}
		if got.Streak != 0 {
			t.Errorf("Expected old activities to give no streak, but got %d", got.Streak)
		}
	})

	t.Run("streak included", func(t *testing.T) {
		activities := []domain.DailyActivity{
			{Date: day(0), PracticeTime: 10},
			{Date: day(-1), PracticeTime: 5},
		}
		got := engine.Stats(nil, nil, activities)
		if got.Streak != 2 {
			t.Errorf("Expected streak 2, but got %d", got.Streak)
		}
	})
}

func TestStreak(t *testing.T) {
	engine := fixedEngine()

	testCases := []struct {
		name       string
		activities []domain.DailyActivity
		expected   int
	}{
		{
			name:     "no activities",
			expected: 0,
		},
		{
			name: "only today",
			activities: []domain.DailyActivity{
				{Date: day(0), LessonsCompleted: 1, WordsLearned: 5, PracticeTime: 30},
			},
			expected: 1,
		},
		{
			name: "three consecutive days",
			activities: []domain.DailyActivity{
				{Date: day(0), LessonsCompleted: 1, PracticeTime: 10},
				{Date: day(-1), LessonsCompleted: 1, PracticeTime: 15},
				{Date: day(-2), LessonsCompleted: 1, PracticeTime: 20},
			},
			expected: 3,
		},
		{
			name: "gap breaks the streak",
			activities: []domain.DailyActivity{
				{Date: day(0), LessonsCompleted: 1, PracticeTime: 10},
				{Date: day(-3), LessonsCompleted: 1, PracticeTime: 15},
			},
			expected: 1,
		},
		{
			name: "anchored on yesterday",
			activities: []domain.DailyActivity{
				{Date: day(-1), WordsLearned: 2},
				{Date: day(-2), WordsLearned: 1},
			},
			expected: 2,
		},
		{
			name: "nothing today or yesterday",
			activities: []domain.DailyActivity{
				{Date: day(-2), WordsLearned: 2},
				{Date: day(-3), WordsLearned: 1},
			},
			expected: 0,
		},
		{
			name: "empty record counts as a gap",
			activities: []domain.DailyActivity{
				{Date: day(0), PracticeTime: 5},
				{Date: day(-1)},
				{Date: day(-2), PracticeTime: 5},
			},
			expected: 1,
		},
		{
			name: "empty today falls back to yesterday",
			activities: []domain.DailyActivity{
				{Date: day(0)},
				{Date: day(-1), PracticeTime: 5},
			},
			expected: 1,
		},
		{
			name: "unsorted input",
			activities: []domain.DailyActivity{
				{Date: day(-2), LessonsCompleted: 1},
				{Date: day(0), LessonsCompleted: 1},
				{Date: day(-10), LessonsCompleted: 1},
				{Date: day(-1), LessonsCompleted: 1},
			},
			expected: 3,
		},
		{
			name: "future records are ignored",
			activities: []domain.DailyActivity{
				{Date: day(1), LessonsCompleted: 1},
				{Date: day(0), LessonsCompleted: 1},
			},
			expected: 1,
		},
		{
			name: "duplicate dates use the first record",
			activities: []domain.DailyActivity{
				{Date: day(0), PracticeTime: 5},
				{Date: day(-1)},
				{Date: day(-1), PracticeTime: 5},
			},
			expected: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := engine.Streak(tc.activities)
			if got != tc.expected {
				t.Errorf("Expected streak %d, but got %d", tc.expected, got)
			}
		})
	}
}

func TestStreakAcrossMonthBoundary(t *testing.T) {
	now := time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC)
	engine := New(ClockFunc(func() time.Time { return now }))

	activities := []domain.DailyActivity{
		{Date: domain.MustParseDate("2024-03-01"), PracticeTime: 1},
		{Date: domain.MustParseDate("2024-02-29"), PracticeTime: 1},
		{Date: domain.MustParseDate("2024-02-28"), PracticeTime: 1},
	}
	if got := engine.Streak(activities); got != 3 {
		t.Errorf("Expected streak 3, but got %d", got)
	}
}

func TestStreakUsesClockLocation(t *testing.T) {
	// 23:30 UTC on the 9th is already the 10th in Tokyo.
	instant := time.Date(2024, time.March, 9, 23, 30, 0, 0, time.UTC)
	tokyo := time.FixedZone("JST", 9*60*60)
	activities := []domain.DailyActivity{
		{Date: domain.MustParseDate("2024-03-10"), PracticeTime: 5},
	}

	utc := New(ClockFunc(func() time.Time { return instant }))
	if got := utc.Streak(activities); got != 0 {
		t.Errorf("Expected streak 0 in UTC, but got %d", got)
	}

	jst := New(ClockFunc(func() time.Time { return instant.In(tokyo) }))
	if got := jst.Streak(activities); got != 1 {
		t.Errorf("Expected streak 1 in JST, but got %d", got)
	}
}

func TestLessonProgress(t *testing.T) {
	testCases := []struct {
		name      string
		completed []bool
		expected  int
	}{
		{name: "empty", completed: nil, expected: 0},
		{name: "all completed", completed: []bool{true, true}, expected: 100},
		{name: "half completed", completed: []bool{true, false}, expected: 50},
		{name: "one of three", completed: []bool{true, false, false}, expected: 33},
		{name: "two of three", completed: []bool{true, true, false}, expected: 67},
		{name: "one of eight rounds half up", completed: []bool{true, false, false, false, false, false, false, false}, expected: 13},
		{name: "none completed", completed: []bool{false, false}, expected: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var lessons []domain.Lesson
			for i, c := range tc.completed {
				lessons = append(lessons, domain.Lesson{ID: string(rune('a' + i)), Completed: c})
			}
			if got := LessonProgress(lessons); got != tc.expected {
				t.Errorf("Expected progress %d, but got %d", tc.expected, got)
			}
		})
	}
}

func TestAverageScore(t *testing.T) {
	testCases := []struct {
		name     string
		lessons  []domain.Lesson
		expected int
	}{
		{
			name:     "empty",
			expected: 0,
		},
		{
			name:     "no completed lessons",
			lessons:  []domain.Lesson{{ID: "1", Completed: false}},
			expected: 0,
		},
		{
			name: "average of completed",
			lessons: []domain.Lesson{
				{ID: "1", Completed: true, Score: intPtr(80)},
				{ID: "2", Completed: true, Score: intPtr(90)},
				{ID: "3", Completed: true, Score: intPtr(70)},
				{ID: "4", Completed: false},
			},
			expected: 80,
		},
		{
			name: "completed without score is excluded",
			lessons: []domain.Lesson{
				{ID: "1", Completed: true, Score: intPtr(80)},
				{ID: "2", Completed: true},
				{ID: "3", Completed: true, Score: intPtr(100)},
			},
			expected: 90,
		},
		{
			name: "score on an incomplete lesson is ignored",
			lessons: []domain.Lesson{
				{ID: "1", Completed: true, Score: intPtr(60)},
				{ID: "2", Completed: false, Score: intPtr(100)},
			},
			expected: 60,
		},
		{
			name: "rounds to nearest",
			lessons: []domain.Lesson{
				{ID: "1", Completed: true, Score: intPtr(80)},
				{ID: "2", Completed: true, Score: intPtr(81)},
			},
			expected: 81,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := AverageScore(tc.lessons); got != tc.expected {
				t.Errorf("Expected average %d, but got %d", tc.expected, got)
			}
		})
	}
}

func TestWordsNeedingPractice(t *testing.T) {
	engine := fixedEngine()

	t.Run("no words", func(t *testing.T) {
		got := engine.WordsNeedingPractice(nil, DefaultPracticeDays)
		if got == nil || len(got) != 0 {
			t.Errorf("Expected an empty, non-nil slice, but got %#v", got)
		}
	})

	t.Run("learned but never practised", func(t *testing.T) {
		words := []domain.Word{
			{ID: "1", Word: "hello", Definition: "greeting", Learned: true},
			{ID: "2", Word: "world", Definition: "planet", Learned: false},
		}
		got := engine.WordsNeedingPractice(words, DefaultPracticeDays)
		if len(got) != 1 || got[0].ID != "1" {
			t.Errorf("Expected only word 1, but got %+v", got)
		}
	})

	t.Run("not practised recently", func(t *testing.T) {
		words := []domain.Word{
			{ID: "1", Learned: true, TimesPracticed: 5, LastPracticedAt: timePtr(fixedNow.AddDate(0, 0, -10))},
			{ID: "2", Learned: true, TimesPracticed: 3, LastPracticedAt: timePtr(fixedNow)},
		}
		got := engine.WordsNeedingPractice(words, 7)
		if len(got) != 1 || got[0].ID != "1" {
			t.Errorf("Expected only word 1, but got %+v", got)
		}
	})

	t.Run("practised two days ago", func(t *testing.T) {
		words := []domain.Word{
			{ID: "1", Learned: true, TimesPracticed: 5, LastPracticedAt: timePtr(fixedNow.AddDate(0, 0, -2))},
		}
		if got := engine.WordsNeedingPractice(words, 7); len(got) != 0 {
			t.Errorf("Expected no words, but got %+v", got)
		}
	})

	t.Run("unlearned words are never due", func(t *testing.T) {
		words := []domain.Word{
			{ID: "1", Learned: false, LastPracticedAt: timePtr(fixedNow.AddDate(-1, 0, 0))},
		}
		if got := engine.WordsNeedingPractice(words, 7); len(got) != 0 {
			t.Errorf("Expected no words, but got %+v", got)
		}
	})

	t.Run("cutoff is strict", func(t *testing.T) {
		words := []domain.Word{
			{ID: "1", Learned: true, LastPracticedAt: timePtr(fixedNow.AddDate(0, 0, -7))},
			{ID: "2", Learned: true, LastPracticedAt: timePtr(fixedNow.AddDate(0, 0, -7).Add(-time.Second))},
		}
		got := engine.WordsNeedingPractice(words, 7)
		if len(got) != 1 || got[0].ID != "2" {
			t.Errorf("Expected only word 2, but got %+v", got)
		}
	})

	t.Run("zero days makes any past practice due", func(t *testing.T) {
		words := []domain.Word{
			{ID: "1", Learned: true, LastPracticedAt: timePtr(fixedNow.Add(-time.Minute))},
			{ID: "2", Learned: true, LastPracticedAt: timePtr(fixedNow)},
		}
		got := engine.WordsNeedingPractice(words, 0)
		if len(got) != 1 || got[0].ID != "1" {
			t.Errorf("Expected only word 1, but got %+v", got)
		}
	})

	t.Run("preserves order", func(t *testing.T) {
		words := []domain.Word{
			{ID: "c", Learned: true},
			{ID: "a", Learned: true},
			{ID: "b", Learned: true},
		}
		got := engine.WordsNeedingPractice(words, 7)
		if !reflect.DeepEqual(got, words) {
			t.Errorf("Expected %+v, but got %+v", words, got)
		}
	})
}

func TestIdempotent(t *testing.T) {
	engine := fixedEngine()
	lessons := []domain.Lesson{{ID: "1", Completed: true, Score: intPtr(75)}}
	words := []domain.Word{{ID: "1", Learned: true}}
	activities := []domain.DailyActivity{{Date: day(-1), PracticeTime: 3}, {Date: day(0), PracticeTime: 4}}

	original := append([]domain.DailyActivity(nil), activities...)

	first := engine.Stats(lessons, words, activities)
	second := engine.Stats(lessons, words, activities)
	if first != second {
		t.Errorf("Expected identical results, but got %+v and %+v", first, second)
	}
	if !reflect.DeepEqual(activities, original) {
		t.Errorf("Expected activities to be left untouched, but got %+v", activities)
	}
	if AverageScore(lessons) != AverageScore(lessons) || LessonProgress(lessons) != LessonProgress(lessons) {
		t.Error("Expected lesson functions to be deterministic")
	}
	if !reflect.DeepEqual(engine.WordsNeedingPractice(words, 7), engine.WordsNeedingPractice(words, 7)) {
		t.Error("Expected WordsNeedingPractice to be deterministic")
	}
}

func TestNewDefaultsToSystemClock(t *testing.T) {
	engine := New(nil)
	activities := []domain.DailyActivity{{Date: domain.DateOf(time.Now()), PracticeTime: 1}}
	// Run close to midnight this may see yesterday as today; either way the
	// record is today or yesterday, so the streak is 1.
	if got := engine.Streak(activities); got != 1 {
		t.Errorf("Expected streak 1 with the system clock, but got %d", got)
	}
}
