// Package scheduler runs the background sweeps: expiring overdue job
// requests and purging trash past its retention window.
package scheduler

import (
	"context"
	"time"

	"crewdispatch/domain/interfaces"
	"crewdispatch/infrastructure/metrics"
	"github.com/robfig/cron/v3"
)

// sweepTimeout bounds one sweep run.
const sweepTimeout = 5 * time.Minute

// Scheduler owns the cron runner.
type Scheduler struct {
	cron              *cron.Cron
	jobRequestUseCase interfaces.JobRequestUseCase
	trashUseCase      interfaces.TrashUseCase
	metrics           *metrics.Metrics
	logger            interfaces.Logger
}

// New creates a scheduler with both sweeps registered on the given cron
// expressions.
func New(
	requestExpirySchedule string,
	trashPurgeSchedule string,
	jobRequestUseCase interfaces.JobRequestUseCase,
	trashUseCase interfaces.TrashUseCase,
	m *metrics.Metrics,
	logger interfaces.Logger,
) (*Scheduler, error) {
	s := &Scheduler{
		cron:              cron.New(),
		jobRequestUseCase: jobRequestUseCase,
		trashUseCase:      trashUseCase,
		metrics:           m,
		logger:            logger,
	}

	if _, err := s.cron.AddFunc(requestExpirySchedule, s.expireRequests); err != nil {
		return nil, err
	}
	if _, err := s.cron.AddFunc(trashPurgeSchedule, s.purgeTrash); err != nil {
		return nil, err
	}

	return s, nil
}

// Start begins running the sweeps in the background.
func (s *Scheduler) Start() {
	s.logger.Info("Starting background sweeps")
	s.cron.Start()
}

// Stop stops the cron runner and waits for in-flight sweeps.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Background sweeps stopped")
}

func (s *Scheduler) expireRequests() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	count, err := s.jobRequestUseCase.ExpireOverdue(ctx)
	if err != nil {
		s.logger.Error("Request expiry sweep failed", "error", err)
		return
	}
	if count > 0 && s.metrics != nil {
		s.metrics.RecordRequestsExpired(count)
	}
}

func (s *Scheduler) purgeTrash() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	count, err := s.trashUseCase.PurgeExpired(ctx)
	if err != nil {
		s.logger.Error("Trash purge sweep failed", "error", err)
		return
	}
	if count > 0 && s.metrics != nil {
		s.metrics.RecordPurged("all", count)
	}
}
