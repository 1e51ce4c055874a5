package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/conorfennell/vocabtrack/internal/domain"
)

type wordRow struct {
	ID              string         `db:"id"`
	Word            string         `db:"word"`
	Definition      string         `db:"definition"`
	Learned         bool           `db:"learned"`
	LearnedAt       sql.NullTime   `db:"learned_at"`
	TimesPracticed  int            `db:"times_practiced"`
	LastPracticedAt sql.NullTime   `db:"last_practiced_at"`
	SourceID        sql.NullInt64  `db:"source_id"`
	Hash            sql.NullString `db:"hash"`
}

const wordColumns = `id, word, definition, learned, learned_at, times_practiced, last_practiced_at, source_id, hash`

func (r wordRow) toDomain() domain.Word {
	return domain.Word{
		ID:              r.ID,
		Word:            r.Word,
		Definition:      r.Definition,
		Learned:         r.Learned,
		LearnedAt:       timePtr(r.LearnedAt),
		TimesPracticed:  r.TimesPracticed,
		LastPracticedAt: timePtr(r.LastPracticedAt),
	}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// InsertWord inserts a word entered by hand.
func (db *DB) InsertWord(ctx context.Context, w domain.Word) error {
	return db.insertWord(ctx, w, sql.NullInt64{}, sql.NullString{})
}

// InsertSourceWord inserts a word imported from a source, remembering its
// content hash for the next sync.
func (db *DB) InsertSourceWord(ctx context.Context, w domain.Word, sourceID int64, hash string) error {
	return db.insertWord(ctx, w,
		sql.NullInt64{Int64: sourceID, Valid: true},
		sql.NullString{String: hash, Valid: true},
	)
}

func (db *DB) insertWord(ctx context.Context, w domain.Word, sourceID sql.NullInt64, hash sql.NullString) error {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO words (`+wordColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		w.ID,
		w.Word,
		w.Definition,
		w.Learned,
		nullTime(w.LearnedAt),
		w.TimesPracticed,
		nullTime(w.LastPracticedAt),
		sourceID,
		hash,
	)
	if err != nil {
		return fmt.Errorf("failed to insert word %s: %w", w.ID, err)
	}
	return nil
}

// FindWordByID retrieves a word by its ID. A missing word is nil, nil.
func (db *DB) FindWordByID(ctx context.Context, id string) (*domain.Word, error) {
	var row wordRow
	err := db.conn.GetContext(ctx, &row, `SELECT `+wordColumns+` FROM words WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Word not found
		}
		return nil, fmt.Errorf("failed to find word %s: %w", id, err)
	}
	w := row.toDomain()
	return &w, nil
}

// ListWords returns every word in insertion order.
func (db *DB) ListWords(ctx context.Context) ([]domain.Word, error) {
	var rows []wordRow
	if err := db.conn.SelectContext(ctx, &rows, `SELECT `+wordColumns+` FROM words ORDER BY rowid`); err != nil {
		return nil, fmt.Errorf("failed to list words: %w", err)
	}
	words := make([]domain.Word, 0, len(rows))
	for _, row := range rows {
		words = append(words, row.toDomain())
	}
	return words, nil
}

// UpdateWord overwrites the mutable fields of a word.
func (db *DB) UpdateWord(ctx context.Context, w domain.Word) error {
	return updateWord(ctx, db.conn, w)
}

// UpdateWordWithActivity saves a word and adds a to the day's counters in one
// transaction. Either both land or neither does.
func (db *DB) UpdateWordWithActivity(ctx context.Context, w domain.Word, a domain.DailyActivity) error {
	return db.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := updateWord(ctx, tx, w); err != nil {
			return err
		}
		return addActivity(ctx, tx, a)
	})
}

func updateWord(ctx context.Context, ex sqlx.ExecerContext, w domain.Word) error {
	_, err := ex.ExecContext(ctx, `
		UPDATE words
		SET word = ?, definition = ?, learned = ?, learned_at = ?, times_practiced = ?, last_practiced_at = ?
		WHERE id = ?
	`,
		w.Word,
		w.Definition,
		w.Learned,
		nullTime(w.LearnedAt),
		w.TimesPracticed,
		nullTime(w.LastPracticedAt),
		w.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update word %s: %w", w.ID, err)
	}
	return nil
}

// DeleteWord removes a word by its ID.
func (db *DB) DeleteWord(ctx context.Context, id string) error {
	if _, err := db.conn.ExecContext(ctx, `DELETE FROM words WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete word %s: %w", id, err)
	}
	return nil
}

// SourceWordHashes maps content hash to word ID for every word imported from
// the given source.
func (db *DB) SourceWordHashes(ctx context.Context, sourceID int64) (map[string]string, error) {
	var rows []wordRow
	err := db.conn.SelectContext(ctx, &rows, `SELECT `+wordColumns+` FROM words WHERE source_id = ?`, sourceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get words for source ID %d: %w", sourceID, err)
	}
	hashes := make(map[string]string, len(rows))
	for _, row := range rows {
		if row.Hash.Valid {
			hashes[row.Hash.String] = row.ID
		}
	}
	return hashes, nil
}
