package usecases

import (
	"context"
	"time"

	"crewdispatch/domain/entities"
	"crewdispatch/domain/errors"
	"crewdispatch/domain/interfaces"
)

// invoiceUseCase implements the InvoiceUseCase interface.
type invoiceUseCase struct {
	jobRepository     interfaces.JobRepository
	workLogRepository interfaces.WorkLogRepository
	uowFactory        interfaces.UnitOfWorkFactory
	notifier          interfaces.Notifier
	logger            interfaces.Logger
}

// NewInvoiceUseCase creates a new invoice use case.
func NewInvoiceUseCase(
	jobRepository interfaces.JobRepository,
	workLogRepository interfaces.WorkLogRepository,
	uowFactory interfaces.UnitOfWorkFactory,
	notifier interfaces.Notifier,
	logger interfaces.Logger,
) interfaces.InvoiceUseCase {
	return &invoiceUseCase{
		jobRepository:     jobRepository,
		workLogRepository: workLogRepository,
		uowFactory:        uowFactory,
		notifier:          notifier,
		logger:            logger,
	}
}

// PrepareFromJob aggregates an approved job's logs into a draft payload for
// the external invoicing subsystem and marks the job invoiced. The logs are
// read before the status flips, which is safe because they are frozen from
// approval on; the approved-to-invoiced move is then a compare-and-set
// inside one unit of work together with its audit entry, so a failure
// anywhere leaves the job approved and retryable, and only one draft is
// ever produced per job.
func (uc *invoiceUseCase) PrepareFromJob(
	ctx context.Context,
	jobID int64,
) (*entities.InvoiceDraft, error) {
	if jobID <= 0 {
		validationErr := &errors.ValidationError{}
		validationErr.AddFieldError("job_id", "job id must be positive")
		return nil, validationErr
	}

	job, err := uc.jobRepository.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != entities.JobStatusApproved {
		return nil, errors.NewConflictError("only approved jobs can be invoiced")
	}

	timeLogs, materialLogs, expenseLogs, err := uc.workLogRepository.FindByJob(ctx, job.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	draft := uc.buildDraft(job, timeLogs, materialLogs, expenseLogs, now)

	uow := uc.uowFactory.New()
	if err := uow.Begin(); err != nil {
		return nil, err
	}

	ok, err := uow.Jobs().CompareAndSetStatus(
		ctx, job.ID, entities.JobStatusApproved, entities.JobStatusInvoiced)
	if err != nil {
		_ = uow.Rollback()
		return nil, err
	}
	if !ok {
		_ = uow.Rollback()
		return nil, errors.NewConflictError("job was invoiced or changed concurrently")
	}

	entry := &entities.AssignmentAudit{
		JobID:      job.ID,
		Action:     entities.AuditActionStatus,
		FromStatus: entities.JobStatusApproved,
		ToStatus:   entities.JobStatusInvoiced,
		WorkerID:   job.AssignedWorkerID,
		Note:       "invoice draft prepared",
		CreatedAt:  now,
	}
	if err := uow.Audits().Create(ctx, entry); err != nil {
		_ = uow.Rollback()
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	uc.logger.Info("Invoice draft prepared",
		"job", job.ID,
		"totalCents", draft.TotalCents,
		"timeLines", len(draft.TimeLines),
		"materialLines", len(draft.MaterialLines),
		"expenseLines", len(draft.ExpenseLines))

	publishTransition(ctx, uc.notifier, uc.logger, interfaces.TransitionEvent{
		JobID:      job.ID,
		Action:     entities.AuditActionStatus,
		FromStatus: entities.JobStatusApproved,
		ToStatus:   entities.JobStatusInvoiced,
		ActorID:    0,
		WorkerID:   job.AssignedWorkerID,
		Reason:     "invoice prepared",
		OccurredAt: now,
	})

	return draft, nil
}

// buildDraft prices the accumulated logs. Hourly jobs bill logged hours at
// the job rate; fixed jobs bill the fixed (or overridden) price and carry
// time lines unpriced for reference. An admin override replaces the labor
// total in either mode.
func (uc *invoiceUseCase) buildDraft(
	job *entities.Job,
	timeLogs []entities.TimeLog,
	materialLogs []entities.MaterialLog,
	expenseLogs []entities.ExpenseLog,
	now time.Time,
) *entities.InvoiceDraft {
	draft := &entities.InvoiceDraft{
		JobID:        job.ID,
		SourceType:   job.SourceType,
		SourceID:     job.SourceID,
		Title:        job.Title,
		CustomerCity: job.City,
		PricingMode:  job.PricingMode,
		BonusCents:   job.BonusCents,
		GeneratedAt:  now,
	}

	rate := int64(0)
	if job.PricingMode == entities.PricingModeHourly {
		rate = job.HourlyRateCents
	}
	for _, l := range timeLogs {
		hours := l.Hours()
		line := entities.InvoiceTimeLine{
			WorkerID:   l.WorkerID,
			Hours:      hours,
			RateCents:  rate,
			TotalCents: int64(hours*float64(rate) + 0.5),
			Note:       l.Note,
		}
		draft.TimeLines = append(draft.TimeLines, line)
		draft.LaborCents += line.TotalCents
	}

	if job.PricingMode == entities.PricingModeFixed {
		draft.LaborCents = job.EffectivePriceCents()
	} else if job.OverridePriceCents != nil {
		draft.LaborCents = *job.OverridePriceCents
	}

	for _, l := range materialLogs {
		line := entities.InvoiceMaterialLine{
			Name:           l.Name,
			Quantity:       l.Quantity,
			UnitPriceCents: l.UnitPriceCents,
			TotalCents:     l.TotalCents(),
		}
		draft.MaterialLines = append(draft.MaterialLines, line)
		draft.MaterialCents += line.TotalCents
	}

	for _, l := range expenseLogs {
		draft.ExpenseLines = append(draft.ExpenseLines, entities.InvoiceExpenseLine{
			Description: l.Description,
			AmountCents: l.AmountCents,
		})
		draft.ExpenseCents += l.AmountCents
	}

	draft.TotalCents = draft.LaborCents + draft.MaterialCents + draft.ExpenseCents + draft.BonusCents
	return draft
}
