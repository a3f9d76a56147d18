package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/i474232898/angin-nusantara/internal/cities"
)

// Refresher re-fetches the weather of the signed-in user's saved cities.
type Refresher interface {
	RefreshAll(ctx context.Context) (int, error)
}

// jobTimeout bounds a single refresh run.
const jobTimeout = 2 * time.Minute

// Scheduler periodically refreshes saved-city weather.
type Scheduler struct {
	scheduler *gocron.Scheduler
	refresher Refresher
	interval  time.Duration
	log       *zap.Logger
}

// New creates a new Scheduler. An interval <= 0 disables it.
func New(interval time.Duration, refresher Refresher, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		refresher: refresher,
		interval:  interval,
		log:       log.Named("scheduler"),
	}
}

// Start schedules the refresh job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		s.log.Info("auto refresh disabled")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).WaitForSchedule().Do(s.run)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.log.Info("auto refresh scheduled", zap.Duration("interval", s.interval))
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

// Jobs reports how many jobs are scheduled.
func (s *Scheduler) Jobs() int {
	return s.scheduler.Len()
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	n, err := s.refresher.RefreshAll(ctx)
	switch {
	case errors.Is(err, cities.ErrNotAuthenticated):
		s.log.Debug("nobody signed in; skipping refresh")
	case err != nil:
		s.log.Warn("refresh run failed", zap.Int("refreshed", n), zap.Error(err))
	default:
		s.log.Info("refresh run completed", zap.Int("refreshed", n), zap.Duration("took", time.Since(start)))
	}
}
