package usecases

import (
	"context"
	"fmt"
	"time"

	"crewdispatch/application/services"
	"crewdispatch/domain/entities"
	"crewdispatch/domain/errors"
	"crewdispatch/domain/interfaces"
)

// assignJobUseCase implements the AssignJobUseCase interface.
type assignJobUseCase struct {
	jobRepository     interfaces.JobRepository
	staffRepository   interfaces.StaffRepository
	catalogRepository interfaces.CatalogRepository
	uowFactory        interfaces.UnitOfWorkFactory
	notifier          interfaces.Notifier
	logger            interfaces.Logger
}

// NewAssignJobUseCase creates a new assign job use case.
func NewAssignJobUseCase(
	jobRepository interfaces.JobRepository,
	staffRepository interfaces.StaffRepository,
	catalogRepository interfaces.CatalogRepository,
	uowFactory interfaces.UnitOfWorkFactory,
	notifier interfaces.Notifier,
	logger interfaces.Logger,
) interfaces.AssignJobUseCase {
	return &assignJobUseCase{
		jobRepository:     jobRepository,
		staffRepository:   staffRepository,
		catalogRepository: catalogRepository,
		uowFactory:        uowFactory,
		notifier:          notifier,
		logger:            logger,
	}
}

// Execute assigns a pool job to a worker on behalf of an admin. The
// assignment shares the claim's atomicity guarantee and additionally records
// whether the worker's skills match the job's service. A mismatch is
// permitted but flagged in the audit trail, never silently.
func (uc *assignJobUseCase) Execute(
	ctx context.Context,
	params interfaces.AssignJobParams,
) (*interfaces.AssignJobResult, error) {
	if err := uc.validateParams(params); err != nil {
		return nil, err
	}
	if !params.Actor.IsAdmin() {
		return nil, errors.NewForbiddenError("only admins may assign jobs")
	}

	job, err := uc.jobRepository.FindByID(ctx, params.JobID)
	if err != nil {
		return nil, err
	}

	worker, err := uc.staffRepository.FindByID(ctx, params.WorkerID)
	if err != nil {
		return nil, err
	}

	skillMatch, err := uc.checkSkillMatch(ctx, job, worker.ID)
	if err != nil {
		return nil, err
	}
	if !skillMatch {
		uc.logger.Warn("Assigning under-qualified worker",
			"job", job.ID,
			"service", uc.serviceName(ctx, job.ServiceID),
			"worker", worker.ID,
			"admin", params.Actor.ID)
	}

	now := time.Now().UTC()

	uow := uc.uowFactory.New()
	if err := uow.Begin(); err != nil {
		return nil, err
	}

	updated, err := uow.Jobs().Claim(ctx, job.ID, worker.ID, now)
	if err != nil {
		_ = uow.Rollback()
		return nil, err
	}

	entry := &entities.AssignmentAudit{
		JobID:      updated.ID,
		ActorID:    params.Actor.ID,
		Action:     entities.AuditActionAssign,
		FromStatus: entities.JobStatusPool,
		ToStatus:   entities.JobStatusAssigned,
		WorkerID:   &worker.ID,
		SkillMatch: &skillMatch,
		CreatedAt:  now,
	}
	if err := uow.Audits().Create(ctx, entry); err != nil {
		_ = uow.Rollback()
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	uc.logger.Info("Job assigned",
		"job", updated.ID,
		"worker", worker.ID,
		"admin", params.Actor.ID,
		"skillMatch", skillMatch)

	publishTransition(ctx, uc.notifier, uc.logger, interfaces.TransitionEvent{
		JobID:      updated.ID,
		Action:     entities.AuditActionAssign,
		FromStatus: entities.JobStatusPool,
		ToStatus:   entities.JobStatusAssigned,
		ActorID:    params.Actor.ID,
		WorkerID:   &worker.ID,
		OccurredAt: now,
	})

	return &interfaces.AssignJobResult{Job: updated, SkillMatch: skillMatch}, nil
}

// checkSkillMatch reports whether the worker holds every mandatory skill of
// the job's service. Jobs without a service key match any worker.
func (uc *assignJobUseCase) checkSkillMatch(
	ctx context.Context,
	job *entities.Job,
	workerID int64,
) (bool, error) {
	if job.ServiceID == nil {
		return true, nil
	}

	mandatory, preferred, err := uc.catalogRepository.RequiredSkillsFor(ctx, *job.ServiceID)
	if err != nil {
		return false, err
	}

	workerSkills, err := uc.staffRepository.SkillsFor(ctx, workerID)
	if err != nil {
		return false, err
	}

	report := services.BuildMatchReport(workerID, *job.ServiceID, workerSkills, mandatory, preferred)
	return report.FullyQualified(), nil
}

// serviceName resolves a service id to its name for log context. The lookup
// is advisory and must not fail the assignment.
func (uc *assignJobUseCase) serviceName(ctx context.Context, serviceID *int64) string {
	if serviceID == nil {
		return ""
	}
	service, err := uc.catalogRepository.FindServiceByID(ctx, *serviceID)
	if err != nil {
		return fmt.Sprintf("service %d", *serviceID)
	}
	return service.Name
}

// validateParams validates the assignment parameters.
func (uc *assignJobUseCase) validateParams(params interfaces.AssignJobParams) error {
	validationErr := &errors.ValidationError{}

	if params.JobID <= 0 {
		validationErr.AddFieldError("job_id", "job id must be positive")
	}
	if params.WorkerID <= 0 {
		validationErr.AddFieldError("worker_id", "worker id must be positive")
	}
	if params.Actor.ID <= 0 {
		validationErr.AddFieldError("actor_id", fmt.Sprintf("invalid actor id %d", params.Actor.ID))
	}

	if validationErr.HasErrors() {
		return validationErr
	}
	return nil
}
