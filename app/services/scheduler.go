package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	refreshTimeout = 2 * time.Minute
	sweepSchedule  = "@every 1m"
)

// Refresher is satisfied by AttendanceService.
type Refresher interface {
	Refresh(ctx context.Context) (Snapshot, error)
}

// Sweeper drops expired sessions.
type Sweeper interface {
	Sweep(now time.Time) int
}

// Scheduler runs the background jobs.
type Scheduler struct {
	logger *zap.Logger
	cron   *cron.Cron
}

// StartScheduler refreshes attendance on refreshSpec and sweeps sessions
// every minute. Overlapping runs of the same job are skipped.
func StartScheduler(refreshSpec string, refresher Refresher, sweeper Sweeper, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Scheduler{
		logger: logger.Named("scheduler"),
		cron:   cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
	}

	if _, err := s.cron.AddFunc(refreshSpec, func() { s.refresh(refresher) }); err != nil {
		return nil, fmt.Errorf("schedule refresh %q: %w", refreshSpec, err)
	}
	if sweeper != nil {
		if _, err := s.cron.AddFunc(sweepSchedule, func() { s.sweep(sweeper) }); err != nil {
			return nil, fmt.Errorf("schedule session sweep: %w", err)
		}
	}

	s.cron.Start()
	s.logger.Info("scheduler started", zap.String("refresh", refreshSpec))
	return s, nil
}

func (s *Scheduler) refresh(r Refresher) {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()
	if _, err := r.Refresh(ctx); err != nil {
		s.logger.Warn("scheduled refresh failed", zap.Error(err))
	}
}

func (s *Scheduler) sweep(sw Sweeper) {
	if n := sw.Sweep(time.Now()); n > 0 {
		s.logger.Info("expired sessions removed", zap.Int("count", n))
	}
}

// Stop halts the schedule and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}
