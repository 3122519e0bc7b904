package usecases

import (
	"context"
	"time"

	"crewdispatch/domain/entities"
	"crewdispatch/domain/errors"
	"crewdispatch/domain/interfaces"
)

// workLogUseCase implements the WorkLogUseCase interface.
type workLogUseCase struct {
	jobRepository     interfaces.JobRepository
	workLogRepository interfaces.WorkLogRepository
	logger            interfaces.Logger
}

// NewWorkLogUseCase creates a new work log use case.
func NewWorkLogUseCase(
	jobRepository interfaces.JobRepository,
	workLogRepository interfaces.WorkLogRepository,
	logger interfaces.Logger,
) interfaces.WorkLogUseCase {
	return &workLogUseCase{
		jobRepository:     jobRepository,
		workLogRepository: workLogRepository,
		logger:            logger,
	}
}

// CreateTimeEntry appends a time log to a job held by the worker. Either a
// start/end pair or a manual hour count must be given; both at once is
// accepted with manual hours taking precedence at invoicing.
func (uc *workLogUseCase) CreateTimeEntry(
	ctx context.Context,
	params interfaces.CreateTimeEntryParams,
) (*entities.TimeLog, error) {
	if err := uc.validateTimeParams(params); err != nil {
		return nil, err
	}
	if err := uc.checkLoggable(ctx, params.JobID, params.WorkerID); err != nil {
		return nil, err
	}

	log := &entities.TimeLog{
		JobID:       params.JobID,
		WorkerID:    params.WorkerID,
		StartedAt:   params.StartedAt,
		EndedAt:     params.EndedAt,
		ManualHours: params.ManualHours,
		Note:        params.Note,
		CreatedAt:   time.Now().UTC(),
	}
	if err := uc.workLogRepository.CreateTimeLog(ctx, log); err != nil {
		return nil, err
	}

	uc.logger.Debug("Time entry created",
		"job", params.JobID,
		"worker", params.WorkerID,
		"hours", log.Hours())

	return log, nil
}

// CreateMaterialEntry appends a material log to a job held by the worker.
func (uc *workLogUseCase) CreateMaterialEntry(
	ctx context.Context,
	params interfaces.CreateMaterialEntryParams,
) (*entities.MaterialLog, error) {
	if err := uc.validateMaterialParams(params); err != nil {
		return nil, err
	}
	if err := uc.checkLoggable(ctx, params.JobID, params.WorkerID); err != nil {
		return nil, err
	}

	log := &entities.MaterialLog{
		JobID:          params.JobID,
		WorkerID:       params.WorkerID,
		Name:           params.Name,
		Quantity:       params.Quantity,
		UnitPriceCents: params.UnitPriceCents,
		CreatedAt:      time.Now().UTC(),
	}
	if err := uc.workLogRepository.CreateMaterialLog(ctx, log); err != nil {
		return nil, err
	}

	return log, nil
}

// CreateExpenseEntry appends an expense log to a job held by the worker.
func (uc *workLogUseCase) CreateExpenseEntry(
	ctx context.Context,
	params interfaces.CreateExpenseEntryParams,
) (*entities.ExpenseLog, error) {
	if err := uc.validateExpenseParams(params); err != nil {
		return nil, err
	}
	if err := uc.checkLoggable(ctx, params.JobID, params.WorkerID); err != nil {
		return nil, err
	}

	log := &entities.ExpenseLog{
		JobID:       params.JobID,
		WorkerID:    params.WorkerID,
		Description: params.Description,
		AmountCents: params.AmountCents,
		CreatedAt:   time.Now().UTC(),
	}
	if err := uc.workLogRepository.CreateExpenseLog(ctx, log); err != nil {
		return nil, err
	}

	return log, nil
}

// checkLoggable verifies the job exists, is held by the worker, and is in a
// state that still accumulates logs. Logs freeze once the job is approved
// for invoicing.
func (uc *workLogUseCase) checkLoggable(ctx context.Context, jobID, workerID int64) error {
	job, err := uc.jobRepository.FindByID(ctx, jobID)
	if err != nil {
		return err
	}

	if job.AssignedWorkerID == nil || *job.AssignedWorkerID != workerID {
		return errors.NewForbiddenError("job is not assigned to this worker")
	}

	if !job.Status.IsExecution() && job.Status != entities.JobStatusCompleted {
		return errors.NewConflictError("job no longer accepts work logs")
	}

	return nil
}

// validateTimeParams validates a time entry.
func (uc *workLogUseCase) validateTimeParams(params interfaces.CreateTimeEntryParams) error {
	validationErr := &errors.ValidationError{}

	if params.JobID <= 0 {
		validationErr.AddFieldError("job_id", "job id must be positive")
	}
	if params.WorkerID <= 0 {
		validationErr.AddFieldError("worker_id", "worker id must be positive")
	}

	hasPair := params.StartedAt != nil && params.EndedAt != nil
	hasManual := params.ManualHours != nil
	if !hasPair && !hasManual {
		validationErr.AddFieldError("time", "either a start/end pair or manual hours is required")
	}
	if hasPair && !params.EndedAt.After(*params.StartedAt) {
		validationErr.AddFieldError("time", "end must be after start")
	}
	if hasManual && *params.ManualHours <= 0 {
		validationErr.AddFieldError("manual_hours", "manual hours must be positive")
	}

	if validationErr.HasErrors() {
		return validationErr
	}
	return nil
}

// validateMaterialParams validates a material entry.
func (uc *workLogUseCase) validateMaterialParams(params interfaces.CreateMaterialEntryParams) error {
	validationErr := &errors.ValidationError{}

	if params.JobID <= 0 {
		validationErr.AddFieldError("job_id", "job id must be positive")
	}
	if params.WorkerID <= 0 {
		validationErr.AddFieldError("worker_id", "worker id must be positive")
	}
	if params.Name == "" {
		validationErr.AddFieldError("name", "material name is required")
	}
	if params.Quantity <= 0 {
		validationErr.AddFieldError("quantity", "quantity must be positive")
	}
	if params.UnitPriceCents < 0 {
		validationErr.AddFieldError("unit_price_cents", "unit price cannot be negative")
	}

	if validationErr.HasErrors() {
		return validationErr
	}
	return nil
}

// validateExpenseParams validates an expense entry.
func (uc *workLogUseCase) validateExpenseParams(params interfaces.CreateExpenseEntryParams) error {
	validationErr := &errors.ValidationError{}

	if params.JobID <= 0 {
		validationErr.AddFieldError("job_id", "job id must be positive")
	}
	if params.WorkerID <= 0 {
		validationErr.AddFieldError("worker_id", "worker id must be positive")
	}
	if params.Description == "" {
		validationErr.AddFieldError("description", "description is required")
	}
	if params.AmountCents <= 0 {
		validationErr.AddFieldError("amount_cents", "amount must be positive")
	}

	if validationErr.HasErrors() {
		return validationErr
	}
	return nil
}
