package domain

import "time"

// Word is a vocabulary entry.
// TimesPracticed and LastPracticedAt only change through recorded practice.
type Word struct {
	ID              string     `json:"id"`
	Word            string     `json:"word"`
	Definition      string     `json:"definition"`
	Learned         bool       `json:"learned"`
	LearnedAt       *time.Time `json:"learnedAt,omitempty"`
	TimesPracticed  int        `json:"timesPracticed"`
	LastPracticedAt *time.Time `json:"lastPracticedAt,omitempty"`
}

// Lesson is a unit of study. Score is only meaningful once completed.
type Lesson struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Score       *int       `json:"score,omitempty"`
}
