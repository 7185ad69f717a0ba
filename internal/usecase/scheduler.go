package usecase

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"PinFlow/internal/ports"
)

// Scheduler runs the posting pipeline on the driver's triggers. A trigger
// that arrives while a run is still in flight is dropped rather than
// stacked; the workflow is not reentrant.
type Scheduler struct {
	driver   ports.Scheduler
	pipeline *Pipeline
	log      *slog.Logger
	running  atomic.Bool
}

// NewScheduler binds the time driver to the pipeline.
func NewScheduler(driver ports.Scheduler, pipeline *Pipeline, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{driver: driver, pipeline: pipeline, log: logger}
}

// Start registers the pipeline run as the driver's job.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.pipeline == nil {
		return nil
	}

	return s.driver.Start(ctx, func(fired time.Time) {
		if !s.running.CompareAndSwap(false, true) {
			s.log.Warn("previous run still active, skipping trigger", "fired", fired)
			return
		}
		defer s.running.Store(false)

		s.log.Info("scheduled run triggered", "fired", fired)
		if err := s.pipeline.RunDaily(ctx); err != nil {
			s.log.Error("scheduled run failed", "error", err)
		}
	})
}

// Stop tears down the underlying driver.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}
	return s.driver.Stop(ctx)
}
