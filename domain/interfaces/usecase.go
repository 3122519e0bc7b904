package interfaces

import (
	"context"
	"time"

	"crewdispatch/domain/entities"
)

// Role identifies the kind of caller performing an operation. Identity
// itself is resolved by the external auth collaborator; operations receive
// it as an explicit actor.
type Role string

// Role constants.
const (
	RoleWorker Role = "worker"
	RoleAdmin  Role = "admin"
)

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID   int64
	Role Role
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// PoolJobsUseCase lists the pool jobs a worker is eligible to claim.
type PoolJobsUseCase interface {
	// Execute returns the eligible pool jobs, newest first.
	Execute(ctx context.Context, params PoolJobsParams) (*PoolJobsResult, error)
}

// PoolJobsParams represents parameters for listing pool jobs.
type PoolJobsParams struct {
	WorkerID int64
}

// PoolJobsResult represents the result of listing pool jobs.
type PoolJobsResult struct {
	Jobs []entities.Job

	// MatchedAll is set when the worker has no registered skills and the
	// full pool was returned as a fallback.
	MatchedAll bool
}

// ClaimJobUseCase performs the worker-initiated atomic claim of a pool job.
type ClaimJobUseCase interface {
	// Execute claims the job for the worker.
	Execute(ctx context.Context, params ClaimJobParams) (*entities.Job, error)
}

// ClaimJobParams represents parameters for claiming a job.
type ClaimJobParams struct {
	JobID    int64
	WorkerID int64
}

// AssignJobUseCase performs the admin-initiated assignment of a job,
// recording whether the worker's skills match the job's service.
type AssignJobUseCase interface {
	// Execute assigns the job to the worker.
	Execute(ctx context.Context, params AssignJobParams) (*AssignJobResult, error)
}

// AssignJobParams represents parameters for assigning a job.
type AssignJobParams struct {
	JobID    int64
	WorkerID int64
	Actor    Actor
}

// AssignJobResult represents the result of an assignment.
type AssignJobResult struct {
	Job *entities.Job

	// SkillMatch is false when the worker lacks a mandatory skill of the
	// job's service. The assignment still succeeds; the flag is audited.
	SkillMatch bool
}

// ReturnJobUseCase gives an assigned job back to the pool.
type ReturnJobUseCase interface {
	// Execute returns the job to the pool. Idempotent: returning an
	// already-pooled job is a no-op success.
	Execute(ctx context.Context, params ReturnJobParams) (*entities.Job, error)
}

// ReturnJobParams represents parameters for returning a job to the pool.
type ReturnJobParams struct {
	JobID      int64
	Actor      Actor
	Reason     entities.ReturnReason
	ReasonText string
}

// UpdateJobStatusUseCase advances a job through its lifecycle under the
// state machine guards.
type UpdateJobStatusUseCase interface {
	// Execute transitions the job to the target status.
	Execute(ctx context.Context, params UpdateJobStatusParams) (*entities.Job, error)
}

// UpdateJobStatusParams represents parameters for a status transition.
type UpdateJobStatusParams struct {
	JobID  int64
	Actor  Actor
	Target entities.JobStatus
}

// CreateJobUseCase materializes jobs from accepted bookings and quotes.
type CreateJobUseCase interface {
	// CreateFromBooking creates an hourly pool job from a booking.
	CreateFromBooking(ctx context.Context, bookingID int64) (*entities.Job, error)

	// CreateFromQuote creates a fixed-price pool job from a quote.
	CreateFromQuote(ctx context.Context, quoteID int64) (*entities.Job, error)
}

// JobRequestUseCase runs the offer/accept/decline workflow.
type JobRequestUseCase interface {
	// Create sends a pending request offering the job to the staff member.
	Create(ctx context.Context, params CreateJobRequestParams) (*entities.JobRequest, error)

	// Respond accepts or declines a pending request. Accepting delegates to
	// the claim path, so a job already claimed elsewhere fails the
	// acceptance with a conflict.
	Respond(ctx context.Context, params RespondJobRequestParams) (*entities.JobRequest, error)

	// Candidates lists active staff with their skill-match report against
	// the job's service.
	Candidates(ctx context.Context, jobID int64) ([]JobRequestCandidate, error)

	// ExpireOverdue expires pending requests past their expiry, returning
	// the number expired.
	ExpireOverdue(ctx context.Context) (int64, error)
}

// CreateJobRequestParams represents parameters for creating a job request.
type CreateJobRequestParams struct {
	JobID     int64
	StaffID   int64
	Actor     Actor
	Message   string
	ExpiresAt time.Time
}

// RespondJobRequestParams represents a worker's response to a request.
type RespondJobRequestParams struct {
	RequestID int64
	StaffID   int64
	Accept    bool
}

// JobRequestCandidate pairs a staff member with their match report.
type JobRequestCandidate struct {
	Staff entities.Staff
	Match entities.SkillMatchReport
}

// WorkLogUseCase appends time, material, and expense entries to a job.
type WorkLogUseCase interface {
	// CreateTimeEntry appends a time log.
	CreateTimeEntry(ctx context.Context, params CreateTimeEntryParams) (*entities.TimeLog, error)

	// CreateMaterialEntry appends a material log.
	CreateMaterialEntry(ctx context.Context, params CreateMaterialEntryParams) (*entities.MaterialLog, error)

	// CreateExpenseEntry appends an expense log.
	CreateExpenseEntry(ctx context.Context, params CreateExpenseEntryParams) (*entities.ExpenseLog, error)
}

// CreateTimeEntryParams represents parameters for a time log entry.
type CreateTimeEntryParams struct {
	JobID       int64
	WorkerID    int64
	StartedAt   *time.Time
	EndedAt     *time.Time
	ManualHours *float64
	Note        string
}

// CreateMaterialEntryParams represents parameters for a material log entry.
type CreateMaterialEntryParams struct {
	JobID          int64
	WorkerID       int64
	Name           string
	Quantity       float64
	UnitPriceCents int64
}

// CreateExpenseEntryParams represents parameters for an expense log entry.
type CreateExpenseEntryParams struct {
	JobID       int64
	WorkerID    int64
	Description string
	AmountCents int64
}

// InvoiceUseCase prepares invoice drafts from completed jobs.
type InvoiceUseCase interface {
	// PrepareFromJob aggregates an approved job's logs into a draft and
	// marks the job invoiced. After this the logs are frozen.
	PrepareFromJob(ctx context.Context, jobID int64) (*entities.InvoiceDraft, error)
}

// TrashUseCase runs the generic soft-delete lifecycle.
type TrashUseCase interface {
	// SoftDelete moves the record to the trash.
	SoftDelete(ctx context.Context, entityType TrashEntityType, id int64) error

	// Restore brings a trashed record back.
	Restore(ctx context.Context, entityType TrashEntityType, id int64) error

	// PermanentlyDelete purges a trashed record and its owned children.
	PermanentlyDelete(ctx context.Context, entityType TrashEntityType, id int64) error

	// EmptyTrash purges every trashed record of the kind.
	EmptyTrash(ctx context.Context, entityType TrashEntityType) (int64, error)

	// ListTrash lists trashed records of the kind with purge countdowns.
	ListTrash(ctx context.Context, entityType TrashEntityType) ([]TrashListing, error)

	// PurgeExpired purges records trashed longer than the retention window.
	PurgeExpired(ctx context.Context) (int64, error)
}

// TrashListing is a trash item with its purge countdown.
type TrashListing struct {
	Item           TrashItem
	DaysUntilPurge int
}
