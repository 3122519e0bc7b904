package repository

import (
	"context"
	"fmt"
	"time"

	"crewdispatch/domain/entities"
	"crewdispatch/domain/errors"
	"crewdispatch/domain/interfaces"
	"gorm.io/gorm"
)

// jobRequestRepository implements the JobRequestRepository interface.
type jobRequestRepository struct {
	db *gorm.DB
}

// NewJobRequestRepository creates a new job request repository.
func NewJobRequestRepository(db *gorm.DB) interfaces.JobRequestRepository {
	return &jobRequestRepository{db: db}
}

// Create persists a new pending request. The partial unique index on
// (job_id, staff_id) rejects a second active request for the same pair.
func (r *jobRequestRepository) Create(ctx context.Context, request *entities.JobRequest) error {
	err := r.db.WithContext(ctx).Create(request).Error
	if err != nil {
		if err == gorm.ErrDuplicatedKey {
			return errors.NewConflictError("an active request for this job and staff member already exists")
		}
		return &errors.RepositoryError{
			Operation: "Create",
			Entity:    "JobRequest",
			Err:       err,
		}
	}
	return nil
}

// FindByID finds a request by its ID.
func (r *jobRequestRepository) FindByID(ctx context.Context, id int64) (*entities.JobRequest, error) {
	var request entities.JobRequest

	err := r.db.WithContext(ctx).First(&request, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError(fmt.Sprintf("job request with id %d not found", id))
		}
		return nil, &errors.RepositoryError{
			Operation: "FindByID",
			Entity:    "JobRequest",
			Err:       err,
		}
	}

	return &request, nil
}

// FindByStaff returns a staff member's requests, newest first.
func (r *jobRequestRepository) FindByStaff(ctx context.Context, staffID int64) ([]entities.JobRequest, error) {
	var requests []entities.JobRequest

	err := r.db.WithContext(ctx).
		Where("staff_id = ?", staffID).
		Order("created_at DESC, id DESC").
		Find(&requests).Error
	if err != nil {
		return nil, &errors.RepositoryError{
			Operation: "FindByStaff",
			Entity:    "JobRequest",
			Err:       err,
		}
	}

	return requests, nil
}

// FindPendingByJob returns the pending requests for a job.
func (r *jobRequestRepository) FindPendingByJob(ctx context.Context, jobID int64) ([]entities.JobRequest, error) {
	var requests []entities.JobRequest

	err := r.db.WithContext(ctx).
		Where("job_id = ? AND status = ?", jobID, entities.JobRequestStatusPending).
		Order("created_at ASC, id ASC").
		Find(&requests).Error
	if err != nil {
		return nil, &errors.RepositoryError{
			Operation: "FindPendingByJob",
			Entity:    "JobRequest",
			Err:       err,
		}
	}

	return requests, nil
}

// MarkResponded transitions a pending request to the given terminal status.
func (r *jobRequestRepository) MarkResponded(
	ctx context.Context,
	id int64,
	status entities.JobRequestStatus,
	at time.Time,
) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.JobRequest{}).
		Where("id = ? AND status = ?", id, entities.JobRequestStatusPending).
		Updates(map[string]interface{}{
			"status":       status,
			"responded_at": at,
		})
	if result.Error != nil {
		return false, &errors.RepositoryError{
			Operation: "MarkResponded",
			Entity:    "JobRequest",
			Err:       result.Error,
		}
	}

	return result.RowsAffected > 0, nil
}

// ExpireSiblings expires every pending request for the job except the given one.
func (r *jobRequestRepository) ExpireSiblings(
	ctx context.Context,
	jobID, exceptID int64,
	at time.Time,
) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.JobRequest{}).
		Where("job_id = ? AND id <> ? AND status = ?",
			jobID, exceptID, entities.JobRequestStatusPending).
		Updates(map[string]interface{}{
			"status":       entities.JobRequestStatusExpired,
			"responded_at": at,
		})
	if result.Error != nil {
		return 0, &errors.RepositoryError{
			Operation: "ExpireSiblings",
			Entity:    "JobRequest",
			Err:       result.Error,
		}
	}

	return result.RowsAffected, nil
}

// ExpireOverdue expires every pending request past its expiry.
func (r *jobRequestRepository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.JobRequest{}).
		Where("status = ? AND expires_at < ?", entities.JobRequestStatusPending, now).
		Updates(map[string]interface{}{
			"status":       entities.JobRequestStatusExpired,
			"responded_at": now,
		})
	if result.Error != nil {
		return 0, &errors.RepositoryError{
			Operation: "ExpireOverdue",
			Entity:    "JobRequest",
			Err:       result.Error,
		}
	}

	return result.RowsAffected, nil
}
