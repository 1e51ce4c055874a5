package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/conorfennell/vocabtrack/internal/domain"
)

type lessonRow struct {
	ID          string        `db:"id"`
	Title       string        `db:"title"`
	Completed   bool          `db:"completed"`
	CompletedAt sql.NullTime  `db:"completed_at"`
	Score       sql.NullInt64 `db:"score"`
}

func (r lessonRow) toDomain() domain.Lesson {
	l := domain.Lesson{
		ID:          r.ID,
		Title:       r.Title,
		Completed:   r.Completed,
		CompletedAt: timePtr(r.CompletedAt),
	}
	if r.Score.Valid {
		score := int(r.Score.Int64)
		l.Score = &score
	}
	return l
}

func nullScore(score *int) sql.NullInt64 {
	if score == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*score), Valid: true}
}

// InsertLesson inserts a new lesson.
func (db *DB) InsertLesson(ctx context.Context, l domain.Lesson) error {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO lessons (id, title, completed, completed_at, score)
		VALUES (?, ?, ?, ?, ?)
	`, l.ID, l.Title, l.Completed, nullTime(l.CompletedAt), nullScore(l.Score))
	if err != nil {
		return fmt.Errorf("failed to insert lesson %s: %w", l.ID, err)
	}
	return nil
}

// FindLessonByID retrieves a lesson by its ID. A missing lesson is nil, nil.
func (db *DB) FindLessonByID(ctx context.Context, id string) (*domain.Lesson, error) {
	var row lessonRow
	err := db.conn.GetContext(ctx, &row, `
		SELECT id, title, completed, completed_at, score
		FROM lessons WHERE id = ?
	`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find lesson %s: %w", id, err)
	}
	l := row.toDomain()
	return &l, nil
}

// ListLessons returns every lesson in insertion order.
func (db *DB) ListLessons(ctx context.Context) ([]domain.Lesson, error) {
	var rows []lessonRow
	err := db.conn.SelectContext(ctx, &rows, `
		SELECT id, title, completed, completed_at, score
		FROM lessons ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list lessons: %w", err)
	}
	lessons := make([]domain.Lesson, 0, len(rows))
	for _, row := range rows {
		lessons = append(lessons, row.toDomain())
	}
	return lessons, nil
}

// UpdateLesson overwrites the mutable fields of a lesson.
func (db *DB) UpdateLesson(ctx context.Context, l domain.Lesson) error {
	return updateLesson(ctx, db.conn, l)
}

// UpdateLessonWithActivity saves a lesson and adds a to the day's counters in
// one transaction.
func (db *DB) UpdateLessonWithActivity(ctx context.Context, l domain.Lesson, a domain.DailyActivity) error {
	return db.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := updateLesson(ctx, tx, l); err != nil {
			return err
		}
		return addActivity(ctx, tx, a)
	})
}

func updateLesson(ctx context.Context, ex sqlx.ExecerContext, l domain.Lesson) error {
	_, err := ex.ExecContext(ctx, `
		UPDATE lessons
		SET title = ?, completed = ?, completed_at = ?, score = ?
		WHERE id = ?
	`, l.Title, l.Completed, nullTime(l.CompletedAt), nullScore(l.Score), l.ID)
	if err != nil {
		return fmt.Errorf("failed to update lesson %s: %w", l.ID, err)
	}
	return nil
}

// DeleteLesson removes a lesson by its ID.
func (db *DB) DeleteLesson(ctx context.Context, id string) error {
	if _, err := db.conn.ExecContext(ctx, `DELETE FROM lessons WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete lesson %s: %w", id, err)
	}
	return nil
}
