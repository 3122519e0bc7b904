package usecases

import (
	"context"
	"time"

	"crewdispatch/application/services"
	"crewdispatch/domain/entities"
	"crewdispatch/domain/errors"
	"crewdispatch/domain/interfaces"
	"github.com/google/uuid"
)

// defaultRequestTTL is how long a request stays open when the admin does
// not pick an expiry.
const defaultRequestTTL = 24 * time.Hour

// jobRequestUseCase implements the JobRequestUseCase interface.
type jobRequestUseCase struct {
	jobRepository        interfaces.JobRepository
	jobRequestRepository interfaces.JobRequestRepository
	staffRepository      interfaces.StaffRepository
	catalogRepository    interfaces.CatalogRepository
	uowFactory           interfaces.UnitOfWorkFactory
	notifier             interfaces.Notifier
	logger               interfaces.Logger
}

// NewJobRequestUseCase creates a new job request use case.
func NewJobRequestUseCase(
	jobRepository interfaces.JobRepository,
	jobRequestRepository interfaces.JobRequestRepository,
	staffRepository interfaces.StaffRepository,
	catalogRepository interfaces.CatalogRepository,
	uowFactory interfaces.UnitOfWorkFactory,
	notifier interfaces.Notifier,
	logger interfaces.Logger,
) interfaces.JobRequestUseCase {
	return &jobRequestUseCase{
		jobRepository:        jobRepository,
		jobRequestRepository: jobRequestRepository,
		staffRepository:      staffRepository,
		catalogRepository:    catalogRepository,
		uowFactory:           uowFactory,
		notifier:             notifier,
		logger:               logger,
	}
}

// Create offers a job to one staff member. The job's pool visibility is
// untouched: a request and pool exposure can coexist.
func (uc *jobRequestUseCase) Create(
	ctx context.Context,
	params interfaces.CreateJobRequestParams,
) (*entities.JobRequest, error) {
	if err := uc.validateCreateParams(params); err != nil {
		return nil, err
	}
	if !params.Actor.IsAdmin() {
		return nil, errors.NewForbiddenError("only admins may create job requests")
	}

	job, err := uc.jobRepository.FindByID(ctx, params.JobID)
	if err != nil {
		return nil, err
	}
	if job.Status != entities.JobStatusPool {
		return nil, errors.NewConflictError("job is no longer open for offers")
	}

	staff, err := uc.staffRepository.FindByID(ctx, params.StaffID)
	if err != nil {
		return nil, err
	}
	if !staff.Active {
		return nil, errors.NewConflictError("staff member is not active")
	}

	now := time.Now().UTC()
	expiresAt := params.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = now.Add(defaultRequestTTL)
	}

	request := &entities.JobRequest{
		ExternalID:  uuid.New(),
		JobID:       job.ID,
		StaffID:     staff.ID,
		RequesterID: params.Actor.ID,
		Message:     params.Message,
		Status:      entities.JobRequestStatusPending,
		ExpiresAt:   expiresAt,
		CreatedAt:   now,
	}

	if err := uc.jobRequestRepository.Create(ctx, request); err != nil {
		return nil, err
	}

	uc.logger.Info("Job request created",
		"request", request.ID,
		"job", job.ID,
		"staff", staff.ID,
		"expiresAt", expiresAt)

	return request, nil
}

// Respond records a worker's accept or decline. Accepting performs the same
// guarded claim as the pool path inside one transaction, so a job that was
// claimed elsewhere in the meantime fails the acceptance with a conflict
// instead of silently double-assigning. Accepting also expires the job's
// other pending requests: once claimed, a job has no actionable offers left.
func (uc *jobRequestUseCase) Respond(
	ctx context.Context,
	params interfaces.RespondJobRequestParams,
) (*entities.JobRequest, error) {
	if err := uc.validateRespondParams(params); err != nil {
		return nil, err
	}

	request, err := uc.jobRequestRepository.FindByID(ctx, params.RequestID)
	if err != nil {
		return nil, err
	}
	if request.StaffID != params.StaffID {
		return nil, errors.NewForbiddenError("request is addressed to another staff member")
	}
	if request.Status != entities.JobRequestStatusPending {
		return nil, errors.NewConflictError("request has already been responded to")
	}

	now := time.Now().UTC()

	// Lazy expiry: an overdue request is expired on read rather than by
	// waiting for the sweep.
	if request.ExpiredBy(now) {
		if _, err := uc.jobRequestRepository.MarkResponded(
			ctx, request.ID, entities.JobRequestStatusExpired, now); err != nil {
			return nil, err
		}
		return nil, errors.NewConflictError("request has expired")
	}

	if !params.Accept {
		return uc.decline(ctx, request, now)
	}
	return uc.accept(ctx, request, now)
}

func (uc *jobRequestUseCase) decline(
	ctx context.Context,
	request *entities.JobRequest,
	now time.Time,
) (*entities.JobRequest, error) {
	ok, err := uc.jobRequestRepository.MarkResponded(
		ctx, request.ID, entities.JobRequestStatusDeclined, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.NewConflictError("request has already been responded to")
	}

	uc.logger.Info("Job request declined",
		"request", request.ID,
		"staff", request.StaffID)

	request.Status = entities.JobRequestStatusDeclined
	request.RespondedAt = &now
	return request, nil
}

func (uc *jobRequestUseCase) accept(
	ctx context.Context,
	request *entities.JobRequest,
	now time.Time,
) (*entities.JobRequest, error) {
	uow := uc.uowFactory.New()
	if err := uow.Begin(); err != nil {
		return nil, err
	}

	ok, err := uow.JobRequests().MarkResponded(
		ctx, request.ID, entities.JobRequestStatusAccepted, now)
	if err != nil {
		_ = uow.Rollback()
		return nil, err
	}
	if !ok {
		_ = uow.Rollback()
		return nil, errors.NewConflictError("request has already been responded to")
	}

	job, err := uow.Jobs().Claim(ctx, request.JobID, request.StaffID, now)
	if err != nil {
		_ = uow.Rollback()
		uc.logger.Info("Acceptance rejected, job no longer claimable",
			"request", request.ID,
			"job", request.JobID,
			"error", err)
		return nil, err
	}

	expired, err := uow.JobRequests().ExpireSiblings(ctx, request.JobID, request.ID, now)
	if err != nil {
		_ = uow.Rollback()
		return nil, err
	}

	entry := &entities.AssignmentAudit{
		JobID:      job.ID,
		ActorID:    request.StaffID,
		Action:     entities.AuditActionClaim,
		FromStatus: entities.JobStatusPool,
		ToStatus:   entities.JobStatusAssigned,
		WorkerID:   &request.StaffID,
		Note:       "accepted job request",
		CreatedAt:  now,
	}
	if err := uow.Audits().Create(ctx, entry); err != nil {
		_ = uow.Rollback()
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	uc.logger.Info("Job request accepted",
		"request", request.ID,
		"job", job.ID,
		"staff", request.StaffID,
		"supersededSiblings", expired)

	publishTransition(ctx, uc.notifier, uc.logger, interfaces.TransitionEvent{
		JobID:      job.ID,
		Action:     entities.AuditActionClaim,
		FromStatus: entities.JobStatusPool,
		ToStatus:   entities.JobStatusAssigned,
		ActorID:    request.StaffID,
		WorkerID:   &request.StaffID,
		Reason:     "job request accepted",
		OccurredAt: now,
	})

	request.Status = entities.JobRequestStatusAccepted
	request.RespondedAt = &now
	return request, nil
}

// Candidates lists active staff with a skill-match report against the
// job's service. Under-qualified candidates are reported, not filtered:
// the admin decides.
func (uc *jobRequestUseCase) Candidates(
	ctx context.Context,
	jobID int64,
) ([]interfaces.JobRequestCandidate, error) {
	job, err := uc.jobRepository.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	staff, err := uc.staffRepository.FindActive(ctx)
	if err != nil {
		return nil, err
	}

	var mandatory, preferred []entities.Skill
	if job.ServiceID != nil {
		mandatory, preferred, err = uc.catalogRepository.RequiredSkillsFor(ctx, *job.ServiceID)
		if err != nil {
			return nil, err
		}
	}

	candidates := make([]interfaces.JobRequestCandidate, 0, len(staff))
	for _, member := range staff {
		report := entities.SkillMatchReport{StaffID: member.ID}
		if job.ServiceID != nil {
			memberSkills, err := uc.staffRepository.SkillsFor(ctx, member.ID)
			if err != nil {
				return nil, err
			}
			report = services.BuildMatchReport(
				member.ID, *job.ServiceID, memberSkills, mandatory, preferred)
		}
		candidates = append(candidates, interfaces.JobRequestCandidate{
			Staff: member,
			Match: report,
		})
	}

	return candidates, nil
}

// ExpireOverdue expires every pending request past its expiry. Called by
// the cron sweep; the lazy check in Respond covers reads in between.
func (uc *jobRequestUseCase) ExpireOverdue(ctx context.Context) (int64, error) {
	count, err := uc.jobRequestRepository.ExpireOverdue(ctx, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	if count > 0 {
		uc.logger.Info("Expired overdue job requests", "count", count)
	}
	return count, nil
}

// validateCreateParams validates the creation parameters.
func (uc *jobRequestUseCase) validateCreateParams(params interfaces.CreateJobRequestParams) error {
	validationErr := &errors.ValidationError{}

	if params.JobID <= 0 {
		validationErr.AddFieldError("job_id", "job id must be positive")
	}
	if params.StaffID <= 0 {
		validationErr.AddFieldError("staff_id", "staff id must be positive")
	}
	if params.Actor.ID <= 0 {
		validationErr.AddFieldError("actor_id", "actor id must be positive")
	}
	if !params.ExpiresAt.IsZero() && params.ExpiresAt.Before(time.Now()) {
		validationErr.AddFieldError("expires_at", "expiry must be in the future")
	}

	if validationErr.HasErrors() {
		return validationErr
	}
	return nil
}

// validateRespondParams validates the response parameters.
func (uc *jobRequestUseCase) validateRespondParams(params interfaces.RespondJobRequestParams) error {
	validationErr := &errors.ValidationError{}

	if params.RequestID <= 0 {
		validationErr.AddFieldError("request_id", "request id must be positive")
	}
	if params.StaffID <= 0 {
		validationErr.AddFieldError("staff_id", "staff id must be positive")
	}

	if validationErr.HasErrors() {
		return validationErr
	}
	return nil
}
