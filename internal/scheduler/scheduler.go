// Package scheduler runs the prediction pipeline on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-edge/internal/config"
	"github.com/yourusername/gridiron-edge/internal/pipeline"
)

// Runner executes one pipeline cycle.
type Runner interface {
	Run(ctx context.Context) (*pipeline.Report, error)
}

// ReportHandler receives the report of every successful scheduled run.
type ReportHandler func(*pipeline.Report)

// Scheduler manages the scheduled pipeline cycle
type Scheduler struct {
	cron            *cron.Cron
	runner          Runner
	onReport        ReportHandler
	logger          *logrus.Logger
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	runTimeout      time.Duration
	gracefulTimeout time.Duration

	lastReport *pipeline.Report
	lastErr    error
}

// NewScheduler creates a new scheduler. Cron specs use a leading seconds
// field.
func NewScheduler(runner Runner, onReport ReportHandler, logger *logrus.Logger) *Scheduler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Scheduler{
		cron:            cron.New(cron.WithLocation(time.UTC), cron.WithParser(cron.NewParser(config.CronFields))),
		runner:          runner,
		onReport:        onReport,
		logger:          logger,
		jobIDs:          make([]cron.EntryID, 0),
		runTimeout:      30 * time.Minute,
		gracefulTimeout: 30 * time.Second,
	}
}

// SchedulePipeline schedules the pipeline cycle
func (s *Scheduler) SchedulePipeline(cronExpression string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	entryID, err := s.cron.AddFunc(cronExpression, s.RunOnce)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("cron", cronExpression).Info("Scheduled pipeline job")

	return nil
}

// RunOnce executes one cycle now and records its outcome.
func (s *Scheduler) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.runTimeout)
	defer cancel()

	s.logger.Info("Starting scheduled pipeline run")
	report, err := s.runner.Run(ctx)

	s.mu.Lock()
	s.lastErr = err
	if err == nil {
		s.lastReport = report
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.WithError(err).Error("Scheduled pipeline run failed")
		return
	}
	s.logger.WithFields(logrus.Fields{
		"run_id": report.RunID.String(),
		"games":  len(report.Games),
		"bets":   len(report.Bets()),
	}).Info("Scheduled pipeline run completed")

	if s.onReport != nil {
		s.onReport(report)
	}
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

// Stop gracefully stops the scheduler, waiting for a running cycle up to
// the graceful timeout.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	// The lock is released so a running cycle can record its result.
	select {
	case <-s.cron.Stop().Done():
	case <-time.After(s.gracefulTimeout):
		return fmt.Errorf("scheduler stop timed out after %s", s.gracefulTimeout)
	}
	s.logger.Info("Scheduler stopped")

	return nil
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// LastResult returns the latest successful report and the latest error.
func (s *Scheduler) LastResult() (*pipeline.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastReport, s.lastErr
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
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
