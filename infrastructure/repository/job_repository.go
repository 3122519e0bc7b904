// Package repository contains the gorm-backed persistence layer. All
// cross-client invariants (single claim, single active assignment) are
// enforced here with conditional updates checked by affected-row count,
// never with read-then-write sequences.
package repository

import (
	"context"
	"fmt"
	"time"

	"crewdispatch/domain/entities"
	"crewdispatch/domain/errors"
	"crewdispatch/domain/interfaces"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// executionStatuses are the states a worker can hold a job in.
var executionStatuses = []entities.JobStatus{
	entities.JobStatusAssigned,
	entities.JobStatusInProgress,
	entities.JobStatusPaused,
}

// jobRepository implements the JobRepository interface.
type jobRepository struct {
	db *gorm.DB
}

// NewJobRepository creates a new job repository.
func NewJobRepository(db *gorm.DB) interfaces.JobRepository {
	return &jobRepository{db: db}
}

// Create persists a new job.
func (r *jobRepository) Create(ctx context.Context, job *entities.Job) error {
	if err := r.db.WithContext(ctx).Create(job).Error; err != nil {
		return &errors.RepositoryError{
			Operation: "Create",
			Entity:    "Job",
			Err:       err,
		}
	}
	return nil
}

// FindByID finds a job by its ID.
func (r *jobRepository) FindByID(ctx context.Context, id int64) (*entities.Job, error) {
	var job entities.Job

	err := r.db.WithContext(ctx).First(&job, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError(fmt.Sprintf("job with id %d not found", id))
		}
		return nil, &errors.RepositoryError{
			Operation: "FindByID",
			Entity:    "Job",
			Err:       err,
		}
	}

	return &job, nil
}

// FindByExternalID finds a job by its external UUID.
func (r *jobRepository) FindByExternalID(ctx context.Context, externalID uuid.UUID) (*entities.Job, error) {
	var job entities.Job

	err := r.db.WithContext(ctx).Where("external_id = ?", externalID).First(&job).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError(fmt.Sprintf("job %s not found", externalID))
		}
		return nil, &errors.RepositoryError{
			Operation: "FindByExternalID",
			Entity:    "Job",
			Err:       err,
		}
	}

	return &job, nil
}

// FindByFilter finds jobs matching the given filter, newest first.
func (r *jobRepository) FindByFilter(
	ctx context.Context,
	filter entities.JobFilter,
) ([]entities.Job, error) {
	query := r.db.WithContext(ctx).Model(&entities.Job{})

	if filter.Trashed {
		query = query.Unscoped().Where("jobs.deleted_at IS NOT NULL")
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.AssignedWorkerID != nil {
		query = query.Where("assigned_worker_id = ?", *filter.AssignedWorkerID)
	}
	if filter.ServiceID != nil {
		query = query.Where("service_id = ?", *filter.ServiceID)
	}
	if filter.SourceType != nil {
		query = query.Where("source_type = ?", *filter.SourceType)
	}

	var jobs []entities.Job
	err := query.Order("created_at DESC, id DESC").Find(&jobs).Error
	if err != nil {
		return nil, &errors.RepositoryError{
			Operation: "FindByFilter",
			Entity:    "Job",
			Err:       err,
		}
	}

	return jobs, nil
}

// FindPoolJobs returns every claimable pool job, newest first.
func (r *jobRepository) FindPoolJobs(ctx context.Context) ([]entities.Job, error) {
	var jobs []entities.Job

	err := r.db.WithContext(ctx).
		Where("status = ? AND pool_enabled = ? AND assigned_worker_id IS NULL",
			entities.JobStatusPool, true).
		Order("created_at DESC, id DESC").
		Find(&jobs).Error
	if err != nil {
		return nil, &errors.RepositoryError{
			Operation: "FindPoolJobs",
			Entity:    "Job",
			Err:       err,
		}
	}

	return jobs, nil
}

// FindPoolJobsByServices returns claimable pool jobs for the given services.
// Jobs without a service key predate skill matching and are always included.
func (r *jobRepository) FindPoolJobsByServices(
	ctx context.Context,
	serviceIDs []int64,
) ([]entities.Job, error) {
	query := r.db.WithContext(ctx).
		Where("status = ? AND pool_enabled = ? AND assigned_worker_id IS NULL",
			entities.JobStatusPool, true)

	if len(serviceIDs) > 0 {
		query = query.Where("service_id IN ? OR service_id IS NULL", serviceIDs)
	} else {
		query = query.Where("service_id IS NULL")
	}

	var jobs []entities.Job
	err := query.Order("created_at DESC, id DESC").Find(&jobs).Error
	if err != nil {
		return nil, &errors.RepositoryError{
			Operation: "FindPoolJobsByServices",
			Entity:    "Job",
			Err:       err,
		}
	}

	return jobs, nil
}

// Claim atomically moves a pool job to assigned for the given worker. The
// claim is a single conditional update; with zero rows affected the current
// row is re-read only to tell a missing job from a lost race.
func (r *jobRepository) Claim(
	ctx context.Context,
	jobID, workerID int64,
	at time.Time,
) (*entities.Job, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.Job{}).
		Where("id = ? AND status = ? AND assigned_worker_id IS NULL AND pool_enabled = ?",
			jobID, entities.JobStatusPool, true).
		Updates(map[string]interface{}{
			"status":             entities.JobStatusAssigned,
			"assigned_worker_id": workerID,
			"assigned_at":        at,
			"updated_at":         at,
		})
	if result.Error != nil {
		return nil, &errors.RepositoryError{
			Operation: "Claim",
			Entity:    "Job",
			Err:       result.Error,
		}
	}

	if result.RowsAffected == 0 {
		var job entities.Job
		err := r.db.WithContext(ctx).First(&job, jobID).Error
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError(fmt.Sprintf("job with id %d not found", jobID))
		}
		if err != nil {
			return nil, &errors.RepositoryError{
				Operation: "Claim",
				Entity:    "Job",
				Err:       err,
			}
		}
		return nil, errors.NewConflictError("job already claimed").
			WithDetails("job_id", jobID).
			WithDetails("status", string(job.Status))
	}

	var job entities.Job
	if err := r.db.WithContext(ctx).First(&job, jobID).Error; err != nil {
		return nil, &errors.RepositoryError{
			Operation: "Claim",
			Entity:    "Job",
			Err:       err,
		}
	}

	return &job, nil
}

// ReturnToPool atomically clears the assignment of an execution-state job.
func (r *jobRepository) ReturnToPool(
	ctx context.Context,
	jobID int64,
) (*entities.Job, bool, error) {
	now := time.Now().UTC()

	result := r.db.WithContext(ctx).
		Model(&entities.Job{}).
		Where("id = ? AND status IN ?", jobID, executionStatuses).
		Updates(map[string]interface{}{
			"status":             entities.JobStatusPool,
			"assigned_worker_id": nil,
			"assigned_at":        nil,
			"pool_enabled":       true,
			"updated_at":         now,
		})
	if result.Error != nil {
		return nil, false, &errors.RepositoryError{
			Operation: "ReturnToPool",
			Entity:    "Job",
			Err:       result.Error,
		}
	}

	var job entities.Job
	err := r.db.WithContext(ctx).First(&job, jobID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, false, errors.NewNotFoundError(fmt.Sprintf("job with id %d not found", jobID))
	}
	if err != nil {
		return nil, false, &errors.RepositoryError{
			Operation: "ReturnToPool",
			Entity:    "Job",
			Err:       err,
		}
	}

	return &job, result.RowsAffected > 0, nil
}

// CompareAndSetStatus transitions jobID from exactly the from status to the
// to status, reporting whether a row was updated.
func (r *jobRepository) CompareAndSetStatus(
	ctx context.Context,
	jobID int64,
	from, to entities.JobStatus,
) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.Job{}).
		Where("id = ? AND status = ?", jobID, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return false, &errors.RepositoryError{
			Operation: "CompareAndSetStatus",
			Entity:    "Job",
			Err:       result.Error,
		}
	}

	return result.RowsAffected > 0, nil
}
