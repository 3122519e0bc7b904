package usecases

import (
	"context"
	"fmt"
	"time"

	"crewdispatch/domain/entities"
	"crewdispatch/domain/errors"
	"crewdispatch/domain/interfaces"
)

// workerAdvance lists the transitions a worker may make on a job assigned
// to them. Pool entry and exit go through claim/assign/return, and invoiced
// is set by invoice preparation, so none of those appear here.
var workerAdvance = map[entities.JobStatus][]entities.JobStatus{
	entities.JobStatusAssigned:   {entities.JobStatusInProgress},
	entities.JobStatusInProgress: {entities.JobStatusPaused, entities.JobStatusCompleted},
	entities.JobStatusPaused:     {entities.JobStatusInProgress, entities.JobStatusCompleted},
}

// updateJobStatusUseCase implements the UpdateJobStatusUseCase interface.
type updateJobStatusUseCase struct {
	jobRepository interfaces.JobRepository
	uowFactory    interfaces.UnitOfWorkFactory
	notifier      interfaces.Notifier
	logger        interfaces.Logger
}

// NewUpdateJobStatusUseCase creates a new update job status use case.
func NewUpdateJobStatusUseCase(
	jobRepository interfaces.JobRepository,
	uowFactory interfaces.UnitOfWorkFactory,
	notifier interfaces.Notifier,
	logger interfaces.Logger,
) interfaces.UpdateJobStatusUseCase {
	return &updateJobStatusUseCase{
		jobRepository: jobRepository,
		uowFactory:    uowFactory,
		notifier:      notifier,
		logger:        logger,
	}
}

// Execute advances a job through its lifecycle. The transition is applied
// as a compare-and-set against the status the guard was evaluated on, so a
// concurrent mutation rejects the whole attempt with no partial change.
func (uc *updateJobStatusUseCase) Execute(
	ctx context.Context,
	params interfaces.UpdateJobStatusParams,
) (*entities.Job, error) {
	if err := uc.validateParams(params); err != nil {
		return nil, err
	}

	job, err := uc.jobRepository.FindByID(ctx, params.JobID)
	if err != nil {
		return nil, err
	}

	if err := uc.checkGuard(job, params); err != nil {
		return nil, err
	}

	from := job.Status
	now := time.Now().UTC()
	action := entities.AuditActionStatus
	if params.Target == entities.JobStatusCancelled {
		action = entities.AuditActionCancel
	}

	uow := uc.uowFactory.New()
	if err := uow.Begin(); err != nil {
		return nil, err
	}

	ok, err := uow.Jobs().CompareAndSetStatus(ctx, job.ID, from, params.Target)
	if err != nil {
		_ = uow.Rollback()
		return nil, err
	}
	if !ok {
		_ = uow.Rollback()
		return nil, errors.NewConflictError(
			fmt.Sprintf("job %d is no longer in status %s", job.ID, from))
	}

	entry := &entities.AssignmentAudit{
		JobID:      job.ID,
		ActorID:    params.Actor.ID,
		Action:     action,
		FromStatus: from,
		ToStatus:   params.Target,
		WorkerID:   job.AssignedWorkerID,
		CreatedAt:  now,
	}
	if err := uow.Audits().Create(ctx, entry); err != nil {
		_ = uow.Rollback()
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	uc.logger.Info("Job status updated",
		"job", job.ID,
		"from", from,
		"to", params.Target,
		"actor", params.Actor.ID)

	publishTransition(ctx, uc.notifier, uc.logger, interfaces.TransitionEvent{
		JobID:      job.ID,
		Action:     action,
		FromStatus: from,
		ToStatus:   params.Target,
		ActorID:    params.Actor.ID,
		WorkerID:   job.AssignedWorkerID,
		OccurredAt: now,
	})

	job.Status = params.Target
	job.UpdatedAt = now
	return job, nil
}

// checkGuard enforces the state machine rules for the requested transition.
func (uc *updateJobStatusUseCase) checkGuard(
	job *entities.Job,
	params interfaces.UpdateJobStatusParams,
) error {
	if job.Status.IsTerminal() {
		return errors.NewConflictError("job is cancelled")
	}

	switch params.Target {
	case entities.JobStatusCancelled:
		if !params.Actor.IsAdmin() {
			return errors.NewForbiddenError("only admins may cancel jobs")
		}
		if job.Status == entities.JobStatusInvoiced {
			return errors.NewConflictError("invoiced jobs cannot be cancelled")
		}
		return nil

	case entities.JobStatusApproved:
		if !params.Actor.IsAdmin() {
			return errors.NewForbiddenError("only admins may approve jobs")
		}
		if job.Status != entities.JobStatusCompleted {
			return errors.NewConflictError("only completed jobs can be approved")
		}
		return nil

	case entities.JobStatusInProgress, entities.JobStatusPaused, entities.JobStatusCompleted:
		if !params.Actor.IsAdmin() {
			if job.AssignedWorkerID == nil || *job.AssignedWorkerID != params.Actor.ID {
				return errors.NewForbiddenError("job is not assigned to this worker")
			}
		}
		for _, next := range workerAdvance[job.Status] {
			if next == params.Target {
				return nil
			}
		}
		return errors.NewConflictError(
			fmt.Sprintf("cannot move job from %s to %s", job.Status, params.Target))

	default:
		// pool, assigned, and invoiced are reached through their dedicated
		// operations, never by a direct status update.
		validationErr := &errors.ValidationError{}
		validationErr.AddFieldError("status",
			fmt.Sprintf("status %q is not a valid direct transition target", params.Target))
		return validationErr
	}
}

// validateParams validates the status update parameters.
func (uc *updateJobStatusUseCase) validateParams(params interfaces.UpdateJobStatusParams) error {
	validationErr := &errors.ValidationError{}

	if params.JobID <= 0 {
		validationErr.AddFieldError("job_id", "job id must be positive")
	}
	if params.Actor.ID <= 0 {
		validationErr.AddFieldError("actor_id", "actor id must be positive")
	}

	switch params.Target {
	case entities.JobStatusPool, entities.JobStatusAssigned, entities.JobStatusInProgress,
		entities.JobStatusPaused, entities.JobStatusCompleted, entities.JobStatusApproved,
		entities.JobStatusInvoiced, entities.JobStatusCancelled:
	default:
		validationErr.AddFieldError("status", fmt.Sprintf("unknown status %q", params.Target))
	}

	if validationErr.HasErrors() {
		return validationErr
	}
	return nil
}
