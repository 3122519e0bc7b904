package repository

import (
	"context"

	"crewdispatch/domain/entities"
	"crewdispatch/domain/errors"
	"crewdispatch/domain/interfaces"
	"gorm.io/gorm"
)

// auditRepository implements the AuditRepository interface.
type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new audit repository.
func NewAuditRepository(db *gorm.DB) interfaces.AuditRepository {
	return &auditRepository{db: db}
}

// Create persists an audit entry.
func (r *auditRepository) Create(ctx context.Context, entry *entities.AssignmentAudit) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return &errors.RepositoryError{
			Operation: "Create",
			Entity:    "AssignmentAudit",
			Err:       err,
		}
	}
	return nil
}

// FindByJob returns a job's audit trail, oldest first.
func (r *auditRepository) FindByJob(ctx context.Context, jobID int64) ([]entities.AssignmentAudit, error) {
	var entries []entities.AssignmentAudit

	err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, &errors.RepositoryError{
			Operation: "FindByJob",
			Entity:    "AssignmentAudit",
			Err:       err,
		}
	}

	return entries, nil
}
