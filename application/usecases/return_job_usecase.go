package usecases

import (
	"context"
	"time"

	"crewdispatch/domain/entities"
	"crewdispatch/domain/errors"
	"crewdispatch/domain/interfaces"
)

// returnJobUseCase implements the ReturnJobUseCase interface.
type returnJobUseCase struct {
	jobRepository interfaces.JobRepository
	uowFactory    interfaces.UnitOfWorkFactory
	notifier      interfaces.Notifier
	logger        interfaces.Logger
}

// NewReturnJobUseCase creates a new return job use case.
func NewReturnJobUseCase(
	jobRepository interfaces.JobRepository,
	uowFactory interfaces.UnitOfWorkFactory,
	notifier interfaces.Notifier,
	logger interfaces.Logger,
) interfaces.ReturnJobUseCase {
	return &returnJobUseCase{
		jobRepository: jobRepository,
		uowFactory:    uowFactory,
		notifier:      notifier,
		logger:        logger,
	}
}

// Execute gives an assigned job back to the pool with a reason code. Field
// devices retry on flaky connections, so returning an already-pooled job is
// a no-op success rather than an error.
func (uc *returnJobUseCase) Execute(
	ctx context.Context,
	params interfaces.ReturnJobParams,
) (*entities.Job, error) {
	if err := uc.validateParams(params); err != nil {
		return nil, err
	}

	job, err := uc.jobRepository.FindByID(ctx, params.JobID)
	if err != nil {
		return nil, err
	}

	// Idempotent retry: the job is already back in the pool.
	if job.Status == entities.JobStatusPool {
		return job, nil
	}

	if !params.Actor.IsAdmin() {
		if job.AssignedWorkerID == nil || *job.AssignedWorkerID != params.Actor.ID {
			return nil, errors.NewForbiddenError("job is not assigned to this worker")
		}
	}

	now := time.Now().UTC()
	fromStatus := job.Status
	returnedWorker := job.AssignedWorkerID

	uow := uc.uowFactory.New()
	if err := uow.Begin(); err != nil {
		return nil, err
	}

	updated, changed, err := uow.Jobs().ReturnToPool(ctx, job.ID)
	if err != nil {
		_ = uow.Rollback()
		return nil, err
	}

	if !changed {
		_ = uow.Rollback()
		// Lost a race. If the job landed in the pool anyway the retry
		// semantics still hold; any other state is a real conflict.
		if updated.Status == entities.JobStatusPool {
			return updated, nil
		}
		return nil, errors.NewConflictError("job is no longer in a returnable state")
	}

	entry := &entities.AssignmentAudit{
		JobID:        updated.ID,
		ActorID:      params.Actor.ID,
		Action:       entities.AuditActionReturn,
		FromStatus:   fromStatus,
		ToStatus:     entities.JobStatusPool,
		WorkerID:     returnedWorker,
		ReturnReason: &params.Reason,
		Note:         params.ReasonText,
		CreatedAt:    now,
	}
	if err := uow.Audits().Create(ctx, entry); err != nil {
		_ = uow.Rollback()
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	uc.logger.Info("Job returned to pool",
		"job", updated.ID,
		"actor", params.Actor.ID,
		"reason", params.Reason)

	publishTransition(ctx, uc.notifier, uc.logger, interfaces.TransitionEvent{
		JobID:      updated.ID,
		Action:     entities.AuditActionReturn,
		FromStatus: fromStatus,
		ToStatus:   entities.JobStatusPool,
		ActorID:    params.Actor.ID,
		WorkerID:   returnedWorker,
		Reason:     string(params.Reason),
		OccurredAt: now,
	})

	return updated, nil
}

// validateParams validates the return parameters.
func (uc *returnJobUseCase) validateParams(params interfaces.ReturnJobParams) error {
	validationErr := &errors.ValidationError{}

	if params.JobID <= 0 {
		validationErr.AddFieldError("job_id", "job id must be positive")
	}
	if params.Actor.ID <= 0 {
		validationErr.AddFieldError("actor_id", "actor id must be positive")
	}
	if !params.Reason.Valid() {
		validationErr.AddFieldError("reason", "unknown return reason code")
	}

	if validationErr.HasErrors() {
		return validationErr
	}
	return nil
}
