// Package scheduler manages the background cache refresh jobs.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/gameline/internal/service"
)

// Scheduler keeps each configured sport's game set warm in the cache by
// running the pipeline on a cron cadence.
type Scheduler struct {
	cron       *cron.Cron
	pipeline   *service.Pipeline
	sports     []string
	jobTimeout time.Duration
	logger     *logrus.Logger
	mu         sync.RWMutex
	isRunning  bool
	jobIDs     []cron.EntryID
}

// NewScheduler creates a new refresh scheduler
func NewScheduler(pipeline *service.Pipeline, sports []string, jobTimeout time.Duration, logger *logrus.Logger) *Scheduler {
	if jobTimeout <= 0 {
		jobTimeout = 30 * time.Second
	}
	return &Scheduler{
		cron:       cron.New(cron.WithLocation(time.UTC)),
		pipeline:   pipeline,
		sports:     sports,
		jobTimeout: jobTimeout,
		logger:     logger,
		jobIDs:     make([]cron.EntryID, 0),
	}
}

// ScheduleRefresh registers the refresh job under a cron expression.
func (s *Scheduler) ScheduleRefresh(cronExpression string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	entryID, err := s.cron.AddFunc(cronExpression, s.refreshAll)
	if err != nil {
		return fmt.Errorf("failed to add refresh job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("cron", cronExpression).Info("Scheduled game set refresh")

	return nil
}

// refreshAll runs the pipeline once per sport. Failures are logged and
// skipped; the pipeline's own fallback chain already guarantees a result,
// so an error here means misconfiguration.
func (s *Scheduler) refreshAll() {
	for _, sport := range s.sports {
		ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)

		set, err := s.pipeline.GameSet(ctx, sport)
		if err != nil {
			s.logger.WithError(err).WithField("sport", sport).Error("Scheduled refresh failed")
		} else {
			s.logger.WithFields(logrus.Fields{
				"sport":  sport,
				"games":  set.TotalGames,
				"source": set.Source,
			}).Debug("Scheduled refresh completed")
		}

		cancel()
	}
}

// Start begins executing scheduled jobs and runs one refresh immediately so
// the cache is warm before the first cron tick.
func (s *Scheduler) Start() {
	s.mu.Lock()
	s.isRunning = true
	s.mu.Unlock()

	go s.refreshAll()
	s.cron.Start()
	s.logger.Info("Refresh scheduler started")
}

// Stop halts the scheduler, waiting for in-flight jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()

	s.mu.Lock()
	s.isRunning = false
	s.mu.Unlock()

	s.logger.Info("Refresh scheduler stopped")
}

// IsRunning reports whether the scheduler is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}
