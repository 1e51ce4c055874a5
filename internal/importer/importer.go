package importer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/conorfennell/vocabtrack/internal/domain"
	"github.com/conorfennell/vocabtrack/internal/fingerprint"
	"github.com/conorfennell/vocabtrack/internal/gitsource"
	"github.com/conorfennell/vocabtrack/internal/parser"
	"github.com/conorfennell/vocabtrack/internal/stats"
	"github.com/conorfennell/vocabtrack/internal/storage"
)

// ErrSourceNotFound is returned for operations on an unknown source ID.
var ErrSourceNotFound = fmt.Errorf("source %w", domain.ErrNotFound)

// Report summarises one sync run.
type Report struct {
	Sources []SourceReport `json:"sources"`
	Added   int            `json:"added"`
	Removed int            `json:"removed"`
}

// SourceReport is the outcome for a single source.
type SourceReport struct {
	SourceID int64    `json:"sourceId"`
	Path     string   `json:"path"`
	Added    int      `json:"added"`
	Removed  int      `json:"removed"`
	Errors   []string `json:"errors,omitempty"`
}

// Importer keeps the words of every registered source in step with the files
// behind it.
type Importer struct {
	db       *storage.DB
	reposDir string
	clock    stats.Clock

	// one sync at a time, whether scheduled or requested
	mu sync.Mutex
}

func New(db *storage.DB, reposDir string, clock stats.Clock) *Importer {
	if clock == nil {
		clock = stats.SystemClock
	}
	return &Importer{db: db, reposDir: reposDir, clock: clock}
}

// AddSource registers a local directory or git URL. Local directories must
// exist.
func (im *Importer) AddSource(ctx context.Context, path string) (*storage.Source, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("%w: path cannot be empty", domain.ErrInvalidInput)
	}

	sourceType := storage.SourceLocal
	if gitsource.IsGitURL(path) {
		sourceType = storage.SourceGit
		if _, err := gitsource.LocalPath(im.reposDir, path); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		}
	} else {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		}
		info, err := os.Stat(abs)
		if err != nil || !info.IsDir() {
			return nil, fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidInput, path)
		}
		path = abs
	}

	existing, err := im.db.FindSourceByPath(ctx, path)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: source %s already exists", domain.ErrInvalidInput, path)
	}

	id, err := im.db.InsertSource(ctx, path, sourceType)
	if err != nil {
		return nil, err
	}
	slog.Info("Source added", "id", id, "type", sourceType, "path", path)
	return &storage.Source{ID: id, Path: path, Type: sourceType}, nil
}

func (im *Importer) Sources(ctx context.Context) ([]storage.Source, error) {
	return im.db.ListSources(ctx)
}

// RemoveSource deletes a source and every word imported from it.
func (im *Importer) RemoveSource(ctx context.Context, id int64) error {
	src, err := im.db.FindSourceByID(ctx, id)
	if err != nil {
		return err
	}
	if src == nil {
		return fmt.Errorf("%w: %d", ErrSourceNotFound, id)
	}
	return im.db.DeleteSource(ctx, id)
}

// Run iterates over all sources and reconciles them. A failing source is
// logged and reported; the others still sync.
func (im *Importer) Run(ctx context.Context) (*Report, error) {
	im.mu.Lock()
	defer im.mu.Unlock()

	slog.Info("Starting sync process for all sources...")
	sources, err := im.db.ListSources(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get sources: %w", err)
	}

	report := &Report{Sources: []SourceReport{}}
	if len(sources) == 0 {
		slog.Info("No sources configured. Add one with --add-source <path/or/url.git>")
		return report, nil
	}

	for _, source := range sources {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		slog.Info("Syncing source", "id", source.ID, "type", source.Type, "path", source.Path)

		sr := SourceReport{SourceID: source.ID, Path: source.Path}
		dir := source.Path
		if source.Type == storage.SourceGit {
			localRepoPath, err := gitsource.LocalPath(im.reposDir, source.Path)
			if err == nil {
				err = gitsource.Sync(ctx, source.Path, localRepoPath)
			}
			if err != nil {
				slog.Error("Error syncing git repo", "url", source.Path, "error", err)
				sr.Errors = append(sr.Errors, err.Error())
				report.Sources = append(report.Sources, sr)
				continue
			}
			dir = localRepoPath
		}

		im.reconcile(ctx, source.ID, dir, &sr)
		report.Added += sr.Added
		report.Removed += sr.Removed
		report.Sources = append(report.Sources, sr)
	}
	slog.Info("Sync process complete.", "added", report.Added, "removed", report.Removed)
	return report, nil
}

func (im *Importer) reconcile(ctx context.Context, sourceID int64, dir string, sr *SourceReport) {
	known, err := im.db.SourceWordHashes(ctx, sourceID)
	if err != nil {
		slog.Error("Error getting words for source", "source_id", sourceID, "error", err)
		sr.Errors = append(sr.Errors, err.Error())
		return
	}

	found := make(map[string]bool)
	parsed := 0
	parseFailed := false

	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !parser.Supported(path) {
			return nil
		}

		entries, parseErr := parser.ParseFile(path)
		if parseErr != nil {
			slog.Error("Error parsing file", "path", path, "error", parseErr)
			sr.Errors = append(sr.Errors, fmt.Sprintf("parsing %s: %v", path, parseErr))
			parseFailed = true
		}
		for _, entry := range entries {
			parsed++
			hash := fingerprint.Of(entry.Word, entry.Definition)
			if found[hash] {
				continue
			}
			found[hash] = true
			if _, ok := known[hash]; ok {
				continue
			}

			slog.Debug("New word found, inserting...", "word", entry.Word, "hash", hash)
			w := domain.Word{ID: uuid.NewString(), Word: entry.Word, Definition: entry.Definition}
			if err := im.db.InsertSourceWord(ctx, w, sourceID, hash); err != nil {
				sr.Errors = append(sr.Errors, fmt.Sprintf("db insert for %s: %v", hash, err))
				continue
			}
			sr.Added++
		}
		return nil
	})

	if walkErr != nil {
		// Leave existing words alone rather than treat an unreadable tree as empty.
		slog.Error("Error walking directory", "path", dir, "error", walkErr)
		sr.Errors = append(sr.Errors, walkErr.Error())
		return
	}

	// Words of a file that failed to parse were not seen, not removed.
	if parseFailed {
		slog.Warn("Skipping orphan cleanup after parse errors", "path", dir)
		known = nil
	}
	for hash, id := range known {
		if found[hash] {
			continue
		}
		slog.Info("Orphaned word, deleting", "id", id, "hash", hash)
		if err := im.db.DeleteWord(ctx, id); err != nil {
			slog.Warn("Failed to delete orphaned word", "id", id, "error", err)
			sr.Errors = append(sr.Errors, err.Error())
			continue
		}
		sr.Removed++
	}

	if err := im.db.UpdateSourceLastScanned(ctx, sourceID, im.clock.Now()); err != nil {
		slog.Warn("Failed to update last scanned for source", "source_id", sourceID, "error", err)
	}

	slog.Info("reconciliation complete",
		"path", dir,
		"parsed_words", parsed,
		"added", sr.Added,
		"orphaned_deleted", sr.Removed,
		"errors", len(sr.Errors),
	)
}

// Errors reports whether any source in the run had a problem.
func (r *Report) Errors() error {
	var errs []error
	for _, sr := range r.Sources {
		for _, msg := range sr.Errors {
			errs = append(errs, fmt.Errorf("source %d: %s", sr.SourceID, msg))
		}
	}
	return errors.Join(errs...)
}
