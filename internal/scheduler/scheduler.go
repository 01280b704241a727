// Package scheduler runs the recurring picks digest.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/clever-picks/internal/logger"
	"github.com/yourusername/clever-picks/internal/metrics"
	"github.com/yourusername/clever-picks/internal/service"
)

// Digest outcomes recorded per run
const (
	OutcomeSuccess = "success"
	OutcomeStale   = "stale"
	OutcomeEmpty   = "empty"
	OutcomeError   = "error"
)

// DigestSource produces the ranked picks for a digest run.
type DigestSource interface {
	DataDrivenPicks(ctx context.Context, count int) (service.PicksReport, error)
}

// Scheduler manages scheduled digest jobs
type Scheduler struct {
	cron            *cron.Cron
	picks           DigestSource
	logger          *logrus.Entry
	picksLog        *logger.PicksLogger
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	gracefulTimeout time.Duration
	runTimeout      time.Duration
}

// NewScheduler creates a new scheduler. Schedules are evaluated in UTC.
func NewScheduler(picks DigestSource, log *logrus.Logger) *Scheduler {
	if log == nil {
		log = logrus.New()
	}
	return &Scheduler{
		cron:            cron.New(cron.WithLocation(time.UTC)),
		picks:           picks,
		logger:          log.WithField("component", "scheduler"),
		picksLog:        logger.NewPicksLogger(log),
		jobIDs:          make([]cron.EntryID, 0),
		gracefulTimeout: 30 * time.Second,
		runTimeout:      2 * time.Minute,
	}
}

// ScheduleDigest schedules a data-driven picks digest on a standard
// five-field cron expression.
func (s *Scheduler) ScheduleDigest(cronExpression string, count int) (cron.EntryID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return 0, fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.runTimeout)
		defer cancel()

		// errors are logged and counted inside RunDigest
		_, _ = s.RunDigest(ctx, count)
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return 0, fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithFields(logrus.Fields{
		"schedule": cronExpression,
		"count":    count,
	}).Info("Scheduled picks digest")

	return entryID, nil
}

// RunDigest computes one digest immediately.
func (s *Scheduler) RunDigest(ctx context.Context, count int) (service.PicksReport, error) {
	start := time.Now()

	report, err := s.picks.DataDrivenPicks(ctx, count)
	if err != nil {
		metrics.RecordDigestRun(OutcomeError)
		s.logger.WithError(err).WithField("run_id", report.RunID).Error("Digest run failed")
		return report, err
	}

	outcome := OutcomeSuccess
	switch {
	case report.Empty() || len(report.Recommendations) == 0:
		outcome = OutcomeEmpty
	case report.Stale():
		outcome = OutcomeStale
	}
	metrics.RecordDigestRun(outcome)
	s.picksLog.LogDigestRun(report.RunID, len(report.Recommendations), report.Stale(), time.Since(start))

	return report, nil
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop stops the scheduler, waiting up to the graceful timeout for a
// running digest to finish.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.gracefulTimeout)
	defer cancel()

	s.isRunning = false
	select {
	case <-s.cron.Stop().Done():
		s.logger.Info("Scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler stop timed out after %s", s.gracefulTimeout)
	}
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns the time of the next scheduled digest, or the zero time
// when the scheduler is stopped.
func (s *Scheduler) NextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			nextTime := entry.Next
			if nextRun.IsZero() || nextTime.Before(nextRun) {
				nextRun = nextTime
			}
		}
	}

	return nextRun
}

// Entries returns information about scheduled entries
func (s *Scheduler) Entries() []cron.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]cron.Entry, 0, len(s.jobIDs))
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			entries = append(entries, entry)
		}
	}

	return entries
}

// RemoveJob removes a scheduled job
func (s *Scheduler) RemoveJob(jobID cron.EntryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot remove job while scheduler is running")
	}

	s.cron.Remove(jobID)
	for i, id := range s.jobIDs {
		if id == jobID {
			s.jobIDs = append(s.jobIDs[:i], s.jobIDs[i+1:]...)
			break
		}
	}
	s.logger.WithField("job_id", jobID).Info("Removed job")

	return nil
}
