package usecases

import (
	"context"
	"time"

	"crewdispatch/domain/entities"
	"crewdispatch/domain/errors"
	"crewdispatch/domain/interfaces"
)

// claimJobUseCase implements the ClaimJobUseCase interface.
type claimJobUseCase struct {
	uowFactory interfaces.UnitOfWorkFactory
	notifier   interfaces.Notifier
	logger     interfaces.Logger
}

// NewClaimJobUseCase creates a new claim job use case.
func NewClaimJobUseCase(
	uowFactory interfaces.UnitOfWorkFactory,
	notifier interfaces.Notifier,
	logger interfaces.Logger,
) interfaces.ClaimJobUseCase {
	return &claimJobUseCase{
		uowFactory: uowFactory,
		notifier:   notifier,
		logger:     logger,
	}
}

// Execute claims a pool job for a worker. The claim is a single conditional
// update in the store: under concurrent claims for the same job exactly one
// caller succeeds and the rest receive ErrConflict.
func (uc *claimJobUseCase) Execute(
	ctx context.Context,
	params interfaces.ClaimJobParams,
) (*entities.Job, error) {
	if err := uc.validateParams(params); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	uow := uc.uowFactory.New()
	if err := uow.Begin(); err != nil {
		return nil, err
	}

	job, err := uow.Jobs().Claim(ctx, params.JobID, params.WorkerID, now)
	if err != nil {
		_ = uow.Rollback()
		uc.logger.Info("Claim rejected",
			"job", params.JobID,
			"worker", params.WorkerID,
			"error", err)
		return nil, err
	}

	entry := &entities.AssignmentAudit{
		JobID:      job.ID,
		ActorID:    params.WorkerID,
		Action:     entities.AuditActionClaim,
		FromStatus: entities.JobStatusPool,
		ToStatus:   entities.JobStatusAssigned,
		WorkerID:   &params.WorkerID,
		CreatedAt:  now,
	}
	if err := uow.Audits().Create(ctx, entry); err != nil {
		_ = uow.Rollback()
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	uc.logger.Info("Job claimed",
		"job", job.ID,
		"worker", params.WorkerID)

	publishTransition(ctx, uc.notifier, uc.logger, interfaces.TransitionEvent{
		JobID:      job.ID,
		Action:     entities.AuditActionClaim,
		FromStatus: entities.JobStatusPool,
		ToStatus:   entities.JobStatusAssigned,
		ActorID:    params.WorkerID,
		WorkerID:   &params.WorkerID,
		OccurredAt: now,
	})

	return job, nil
}

// validateParams validates the claim parameters.
func (uc *claimJobUseCase) validateParams(params interfaces.ClaimJobParams) error {
	validationErr := &errors.ValidationError{}

	if params.JobID <= 0 {
		validationErr.AddFieldError("job_id", "job id must be positive")
	}
	if params.WorkerID <= 0 {
		validationErr.AddFieldError("worker_id", "worker id must be positive")
	}

	if validationErr.HasErrors() {
		return validationErr
	}
	return nil
}

// publishTransition delivers a transition event to the activity feed after
// the transaction has committed. Delivery failures are logged and dropped;
// they never fail the operation that already committed.
func publishTransition(
	ctx context.Context,
	notifier interfaces.Notifier,
	logger interfaces.Logger,
	event interfaces.TransitionEvent,
) {
	if notifier == nil || !notifier.IsConfigured() {
		return
	}
	if err := notifier.PublishTransition(ctx, event); err != nil {
		logger.Warn("Failed to publish transition event",
			"job", event.JobID,
			"action", event.Action,
			"error", err)
	}
}
