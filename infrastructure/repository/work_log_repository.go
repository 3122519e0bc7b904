package repository

import (
	"context"

	"crewdispatch/domain/entities"
	"crewdispatch/domain/errors"
	"crewdispatch/domain/interfaces"
	"gorm.io/gorm"
)

// workLogRepository implements the WorkLogRepository interface.
type workLogRepository struct {
	db *gorm.DB
}

// NewWorkLogRepository creates a new work log repository.
func NewWorkLogRepository(db *gorm.DB) interfaces.WorkLogRepository {
	return &workLogRepository{db: db}
}

// CreateTimeLog persists a time log.
func (r *workLogRepository) CreateTimeLog(ctx context.Context, log *entities.TimeLog) error {
	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		return &errors.RepositoryError{
			Operation: "CreateTimeLog",
			Entity:    "TimeLog",
			Err:       err,
		}
	}
	return nil
}

// CreateMaterialLog persists a material log.
func (r *workLogRepository) CreateMaterialLog(ctx context.Context, log *entities.MaterialLog) error {
	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		return &errors.RepositoryError{
			Operation: "CreateMaterialLog",
			Entity:    "MaterialLog",
			Err:       err,
		}
	}
	return nil
}

// CreateExpenseLog persists an expense log.
func (r *workLogRepository) CreateExpenseLog(ctx context.Context, log *entities.ExpenseLog) error {
	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		return &errors.RepositoryError{
			Operation: "CreateExpenseLog",
			Entity:    "ExpenseLog",
			Err:       err,
		}
	}
	return nil
}

// FindByJob returns all logs accumulated on a job, oldest first.
func (r *workLogRepository) FindByJob(
	ctx context.Context,
	jobID int64,
) ([]entities.TimeLog, []entities.MaterialLog, []entities.ExpenseLog, error) {
	var timeLogs []entities.TimeLog
	err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("id ASC").
		Find(&timeLogs).Error
	if err != nil {
		return nil, nil, nil, &errors.RepositoryError{
			Operation: "FindByJob",
			Entity:    "TimeLog",
			Err:       err,
		}
	}

	var materialLogs []entities.MaterialLog
	err = r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("id ASC").
		Find(&materialLogs).Error
	if err != nil {
		return nil, nil, nil, &errors.RepositoryError{
			Operation: "FindByJob",
			Entity:    "MaterialLog",
			Err:       err,
		}
	}

	var expenseLogs []entities.ExpenseLog
	err = r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("id ASC").
		Find(&expenseLogs).Error
	if err != nil {
		return nil, nil, nil, &errors.RepositoryError{
			Operation: "FindByJob",
			Entity:    "ExpenseLog",
			Err:       err,
		}
	}

	return timeLogs, materialLogs, expenseLogs, nil
}
