package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Source types.
const (
	SourceLocal = "local"
	SourceGit   = "git"
)

// Source is a place word lists are imported from, either a local path or a
// Git URL.
type Source struct {
	ID          int64      `json:"id"`
	Path        string     `json:"path"`
	Type        string     `json:"type"`
	LastScanned *time.Time `json:"lastScanned,omitempty"`
}

type sourceRow struct {
	ID          int64        `db:"id"`
	Path        string       `db:"path"`
	Type        string       `db:"type"`
	LastScanned sql.NullTime `db:"last_scanned"`
}

func (r sourceRow) toSource() Source {
	return Source{ID: r.ID, Path: r.Path, Type: r.Type, LastScanned: timePtr(r.LastScanned)}
}

// InsertSource inserts a new source path into the database and returns its ID.
func (db *DB) InsertSource(ctx context.Context, path, sourceType string) (int64, error) {
	res, err := db.conn.ExecContext(ctx, `
		INSERT INTO sources (path, type)
		VALUES (?, ?)
	`, path, sourceType)
	if err != nil {
		return 0, fmt.Errorf("failed to insert source %s: %w", path, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for source %s: %w", path, err)
	}
	return id, nil
}

// FindSourceByPath retrieves a source from the database by its path.
func (db *DB) FindSourceByPath(ctx context.Context, path string) (*Source, error) {
	return db.findSource(ctx, `SELECT id, path, type, last_scanned FROM sources WHERE path = ?`, path)
}

// FindSourceByID retrieves a source from the database by its ID.
func (db *DB) FindSourceByID(ctx context.Context, id int64) (*Source, error) {
	return db.findSource(ctx, `SELECT id, path, type, last_scanned FROM sources WHERE id = ?`, id)
}

func (db *DB) findSource(ctx context.Context, query string, arg any) (*Source, error) {
	var row sourceRow
	if err := db.conn.GetContext(ctx, &row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Source not found
		}
		return nil, fmt.Errorf("failed to find source %v: %w", arg, err)
	}
	s := row.toSource()
	return &s, nil
}

// ListSources retrieves all stored sources from the database.
func (db *DB) ListSources(ctx context.Context) ([]Source, error) {
	var rows []sourceRow
	if err := db.conn.SelectContext(ctx, &rows, `SELECT id, path, type, last_scanned FROM sources ORDER BY id`); err != nil {
		return nil, fmt.Errorf("failed to get all sources: %w", err)
	}
	sources := make([]Source, 0, len(rows))
	for _, row := range rows {
		sources = append(sources, row.toSource())
	}
	return sources, nil
}

// DeleteSource removes a source together with the words imported from it.
func (db *DB) DeleteSource(ctx context.Context, id int64) error {
	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin delete of source %d: %w", id, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM words WHERE source_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete words of source %d: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sources WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete source %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete of source %d: %w", id, err)
	}
	return nil
}

// UpdateSourceLastScanned updates the last_scanned timestamp for a source.
func (db *DB) UpdateSourceLastScanned(ctx context.Context, sourceID int64, at time.Time) error {
	_, err := db.conn.ExecContext(ctx, `
		UPDATE sources
		SET last_scanned = ?
		WHERE id = ?
	`, at, sourceID)
	if err != nil {
		return fmt.Errorf("failed to update last scanned for source ID %d: %w", sourceID, err)
	}
	return nil
}
