package domain

// DailyActivity summarises one calendar day of study.
type DailyActivity struct {
	Date             Date `json:"date"`
	LessonsCompleted int  `json:"lessonsCompleted"`
	WordsLearned     int  `json:"wordsLearned"`
	PracticeTime     int  `json:"practiceTime"` // minutes
}

// HasActivity reports whether any counter of the day is positive.
func (a DailyActivity) HasActivity() bool {
	return a.LessonsCompleted > 0 || a.WordsLearned > 0 || a.PracticeTime > 0
}

// LearningStats is derived on every request and never stored.
type LearningStats struct {
	Streak            int `json:"streak"`
	WordsLearned      int `json:"wordsLearned"`
	LessonsCompleted  int `json:"lessonsCompleted"`
	TotalPracticeTime int `json:"totalPracticeTime"` // minutes
}
