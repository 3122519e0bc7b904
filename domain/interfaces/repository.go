package interfaces

import (
	"context"
	"time"

	"crewdispatch/domain/entities"
	"github.com/google/uuid"
)

// JobRepository handles job persistence. All writes to a job's status and
// assignment fields go through the conditional methods here; no other code
// path touches them.
type JobRepository interface {
	// Create persists a new job
	Create(ctx context.Context, job *entities.Job) error

	// FindByID finds a job by its ID
	FindByID(ctx context.Context, id int64) (*entities.Job, error)

	// FindByExternalID finds a job by its external UUID
	FindByExternalID(ctx context.Context, externalID uuid.UUID) (*entities.Job, error)

	// FindByFilter finds jobs matching the given filter, newest first
	FindByFilter(ctx context.Context, filter entities.JobFilter) ([]entities.Job, error)

	// FindPoolJobs returns every claimable pool job, newest first
	FindPoolJobs(ctx context.Context) ([]entities.Job, error)

	// FindPoolJobsByServices returns claimable pool jobs whose service is in
	// serviceIDs, plus jobs with no service at all, newest first
	FindPoolJobsByServices(ctx context.Context, serviceIDs []int64) ([]entities.Job, error)

	// Claim atomically moves a pool job to assigned for the given worker.
	// Exactly one concurrent caller can succeed; the rest get ErrConflict.
	Claim(ctx context.Context, jobID, workerID int64, at time.Time) (*entities.Job, error)

	// ReturnToPool atomically clears the assignment of an execution-state
	// job and re-enables pool visibility. Returning an already-pooled job
	// reports changed=false with no error.
	ReturnToPool(ctx context.Context, jobID int64) (job *entities.Job, changed bool, err error)

	// CompareAndSetStatus transitions jobID from exactly the from status to
	// the to status. It reports whether a row was updated.
	CompareAndSetStatus(ctx context.Context, jobID int64, from, to entities.JobStatus) (bool, error)
}

// JobRequestRepository handles targeted job offer persistence.
type JobRequestRepository interface {
	// Create persists a new pending request; a second active request for
	// the same (job, staff) pair fails with ErrConflict
	Create(ctx context.Context, request *entities.JobRequest) error

	// FindByID finds a request by its ID
	FindByID(ctx context.Context, id int64) (*entities.JobRequest, error)

	// FindByStaff returns a staff member's requests, newest first
	FindByStaff(ctx context.Context, staffID int64) ([]entities.JobRequest, error)

	// FindPendingByJob returns the pending requests for a job
	FindPendingByJob(ctx context.Context, jobID int64) ([]entities.JobRequest, error)

	// MarkResponded transitions a pending request to the given terminal
	// status. It reports whether the request was still pending.
	MarkResponded(ctx context.Context, id int64, status entities.JobRequestStatus, at time.Time) (bool, error)

	// ExpireSiblings expires every pending request for the job except the
	// given one, returning the number expired
	ExpireSiblings(ctx context.Context, jobID, exceptID int64, at time.Time) (int64, error)

	// ExpireOverdue expires every pending request past its expiry,
	// returning the number expired
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
}

// StaffRepository handles worker identity persistence.
type StaffRepository interface {
	// FindByID finds a staff member by ID
	FindByID(ctx context.Context, id int64) (*entities.Staff, error)

	// FindActive returns all active staff members
	FindActive(ctx context.Context) ([]entities.Staff, error)

	// SkillsFor returns the skills registered for a staff member
	SkillsFor(ctx context.Context, staffID int64) ([]entities.Skill, error)
}

// CatalogRepository handles the skill and service taxonomies.
type CatalogRepository interface {
	// FindServiceByID finds a service by ID
	FindServiceByID(ctx context.Context, id int64) (*entities.Service, error)

	// FindServicesByCategories returns the services in any of the given
	// categories
	FindServicesByCategories(ctx context.Context, categories []string) ([]entities.Service, error)

	// RequiredSkillsFor returns the skills a service declares, keyed by the
	// mandatory flag
	RequiredSkillsFor(ctx context.Context, serviceID int64) (mandatory, preferred []entities.Skill, err error)
}

// WorkLogRepository handles the append-only time, material, and expense logs.
type WorkLogRepository interface {
	CreateTimeLog(ctx context.Context, log *entities.TimeLog) error
	CreateMaterialLog(ctx context.Context, log *entities.MaterialLog) error
	CreateExpenseLog(ctx context.Context, log *entities.ExpenseLog) error

	// FindByJob returns all logs accumulated on a job
	FindByJob(ctx context.Context, jobID int64) ([]entities.TimeLog, []entities.MaterialLog, []entities.ExpenseLog, error)
}

// SourceRepository reads the booking/quote records jobs are materialized from.
type SourceRepository interface {
	// FindBookingByID finds a booking by ID
	FindBookingByID(ctx context.Context, id int64) (*entities.Booking, error)

	// FindQuoteByID finds a quote by ID
	FindQuoteByID(ctx context.Context, id int64) (*entities.Quote, error)
}

// AuditRepository handles the append-only assignment audit trail.
type AuditRepository interface {
	// Create persists an audit entry
	Create(ctx context.Context, entry *entities.AssignmentAudit) error

	// FindByJob returns a job's audit trail, oldest first
	FindByJob(ctx context.Context, jobID int64) ([]entities.AssignmentAudit, error)
}

// TrashEntityType names a soft-deletable entity kind.
type TrashEntityType string

// Soft-deletable entity kinds.
const (
	TrashEntityJob          TrashEntityType = "job"
	TrashEntityBooking      TrashEntityType = "booking"
	TrashEntityQuote        TrashEntityType = "quote"
	TrashEntityQuoteRequest TrashEntityType = "quote_request"
	TrashEntityJobRequest   TrashEntityType = "job_request"
	TrashEntityProject      TrashEntityType = "project"
)

// TrashItem is a trashed record as shown in trash listings.
type TrashItem struct {
	EntityType TrashEntityType
	ID         int64
	Label      string
	DeletedAt  time.Time
}

// TrashRepository implements the soft-delete lifecycle once for every
// deletable entity kind.
type TrashRepository interface {
	// SoftDelete marks the record deleted
	SoftDelete(ctx context.Context, entityType TrashEntityType, id int64) error

	// Restore clears the deletion mark; purged records yield ErrNotFound
	Restore(ctx context.Context, entityType TrashEntityType, id int64) error

	// PermanentlyDelete irreversibly removes a trashed record and its owned
	// children; live records yield ErrConflict
	PermanentlyDelete(ctx context.Context, entityType TrashEntityType, id int64) error

	// EmptyTrash permanently deletes every trashed record of the kind,
	// returning the count removed
	EmptyTrash(ctx context.Context, entityType TrashEntityType) (int64, error)

	// ListTrash returns the trashed records of the kind, newest deletion first
	ListTrash(ctx context.Context, entityType TrashEntityType) ([]TrashItem, error)

	// PurgeExpired permanently deletes trashed records of the kind whose
	// deletion is older than the cutoff, returning the count removed
	PurgeExpired(ctx context.Context, entityType TrashEntityType, cutoff time.Time) (int64, error)
}

// UnitOfWorkFactory creates one UnitOfWork per operation. Units of work are
// stateful (they hold an open transaction) and must never be shared between
// concurrent operations.
type UnitOfWorkFactory interface {
	// New creates a fresh unit of work
	New() UnitOfWork
}

// UnitOfWork represents a unit of work pattern for transactions
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin() error

	// Jobs returns the job repository bound to the transaction
	Jobs() JobRepository

	// JobRequests returns the job request repository bound to the transaction
	JobRequests() JobRequestRepository

	// Audits returns the audit repository bound to the transaction
	Audits() AuditRepository

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error
}
