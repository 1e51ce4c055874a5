package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/conorfennell/vocabtrack/internal/domain"
)

type activityRow struct {
	Date             domain.Date `db:"date"`
	LessonsCompleted int         `db:"lessons_completed"`
	WordsLearned     int         `db:"words_learned"`
	PracticeTime     int         `db:"practice_time"`
}

// AddActivity adds the counters of a to the row for a.Date, creating it if
// needed. The table therefore never holds two rows for one day.
func (db *DB) AddActivity(ctx context.Context, a domain.DailyActivity) error {
	return addActivity(ctx, db.conn, a)
}

func addActivity(ctx context.Context, ex sqlx.ExecerContext, a domain.DailyActivity) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO activities (date, lessons_completed, words_learned, practice_time)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			lessons_completed = lessons_completed + excluded.lessons_completed,
			words_learned = words_learned + excluded.words_learned,
			practice_time = practice_time + excluded.practice_time
	`, a.Date, a.LessonsCompleted, a.WordsLearned, a.PracticeTime)
	if err != nil {
		return fmt.Errorf("failed to record activity for %s: %w", a.Date, err)
	}
	return nil
}

// ListActivities returns every daily record, oldest first.
func (db *DB) ListActivities(ctx context.Context) ([]domain.DailyActivity, error) {
	var rows []activityRow
	err := db.conn.SelectContext(ctx, &rows, `
		SELECT date, lessons_completed, words_learned, practice_time
		FROM activities ORDER BY date
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	activities := make([]domain.DailyActivity, 0, len(rows))
	for _, row := range rows {
		activities = append(activities, domain.DailyActivity(row))
	}
	return activities, nil
}
