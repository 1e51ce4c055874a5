package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/conorfennell/vocabtrack/internal/config"
	"github.com/conorfennell/vocabtrack/internal/importer"
	"github.com/conorfennell/vocabtrack/internal/lessons"
	"github.com/conorfennell/vocabtrack/internal/progress"
	"github.com/conorfennell/vocabtrack/internal/scheduler"
	"github.com/conorfennell/vocabtrack/internal/stats"
	"github.com/conorfennell/vocabtrack/internal/storage"
	"github.com/conorfennell/vocabtrack/internal/vocabulary"
	"github.com/conorfennell/vocabtrack/internal/web"
)

func main() {
	if err := run(); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		slog.Error("vocabtrack exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is normal outside development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()
	slog.Info("Database opened successfully", "path", cfg.DBPath)

	clock := stats.SystemClock
	im := importer.New(db, cfg.ReposDir, clock)

	if cfg.AddSource != "" {
		if _, err := im.AddSource(ctx, cfg.AddSource); err != nil {
			return fmt.Errorf("failed to add source: %w", err)
		}
	}

	if cfg.SyncOnce {
		report, err := im.Run(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Synced %d sources: %d words added, %d removed.\n", len(report.Sources), report.Added, report.Removed)
		return report.Errors()
	}

	if cfg.SyncInterval > 0 {
		sched := scheduler.New(im, cfg.SyncInterval)
		if err := sched.Start(); err != nil {
			return err
		}
		defer sched.Stop()
	}

	server := web.NewServer(
		vocabulary.NewService(db, clock, cfg.PracticeDays),
		lessons.NewService(db, clock),
		progress.NewService(db, clock, cfg.PracticeDays),
		im,
		web.Options{Production: cfg.Production(), AllowedOrigins: cfg.AllowedOrigins},
	)

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "addr", cfg.Addr, "env", cfg.Env)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
