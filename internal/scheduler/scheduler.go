package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/conorfennell/vocabtrack/internal/importer"
)

// Syncer is the work the scheduler repeats.
type Syncer interface {
	Run(ctx context.Context) (*importer.Report, error)
}

// Scheduler runs source syncs on a fixed interval in the background.
type Scheduler struct {
	scheduler *gocron.Scheduler
	syncer    Syncer
	interval  time.Duration

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a scheduler. Nothing runs until Start.
func New(syncer Syncer, interval time.Duration) *Scheduler {
	s := gocron.NewScheduler(time.Local)
	// An overlong sync is not stacked behind itself.
	s.SingletonModeAll()
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		scheduler: s,
		syncer:    syncer,
		interval:  interval,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start schedules the sync job and begins running it without blocking. The
// first run happens immediately.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		return fmt.Errorf("sync interval must be positive, got %s", s.interval)
	}
	if _, err := s.scheduler.Every(s.interval).Do(s.sync); err != nil {
		return fmt.Errorf("failed to schedule sync: %w", err)
	}
	s.scheduler.StartAsync()
	slog.Info("Sync scheduler started", "interval", s.interval)
	return nil
}

// Stop cancels a running sync and terminates all scheduled tasks.
func (s *Scheduler) Stop() {
	s.cancel()
	s.scheduler.Stop()
}

func (s *Scheduler) sync() {
	report, err := s.syncer.Run(s.ctx)
	if err != nil {
		slog.Error("Scheduled sync failed", "error", err)
		return
	}
	if err := report.Errors(); err != nil {
		slog.Warn("Scheduled sync finished with errors", "error", err)
	}
}
