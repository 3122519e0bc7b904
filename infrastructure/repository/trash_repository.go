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

// trashTarget describes one soft-deletable entity kind: the model gorm
// operates on, the column used as the human-readable label in listings, and
// an optional cascade run inside the purge transaction to remove owned
// children that have no soft-delete of their own.
type trashTarget struct {
	model       interface{}
	labelColumn string
	cascade     func(tx *gorm.DB, id int64) error
}

// trashTargets is the registry the whole lifecycle is parameterized by.
// Adding a kind here is all it takes to put an entity under trash control.
var trashTargets = map[interfaces.TrashEntityType]trashTarget{
	interfaces.TrashEntityJob: {
		model:       &entities.Job{},
		labelColumn: "title",
		cascade:     cascadeJobChildren,
	},
	interfaces.TrashEntityBooking: {
		model:       &entities.Booking{},
		labelColumn: "title",
	},
	interfaces.TrashEntityQuote: {
		model:       &entities.Quote{},
		labelColumn: "title",
	},
	interfaces.TrashEntityQuoteRequest: {
		model:       &entities.QuoteRequest{},
		labelColumn: "customer_name",
	},
	interfaces.TrashEntityJobRequest: {
		model:       &entities.JobRequest{},
		labelColumn: "message",
	},
	interfaces.TrashEntityProject: {
		model:       &entities.Project{},
		labelColumn: "name",
	},
}

// cascadeJobChildren removes the records a job owns outright. Work logs and
// audit entries have no independent lifecycle, so they go with the job.
func cascadeJobChildren(tx *gorm.DB, jobID int64) error {
	if err := tx.Where("job_id = ?", jobID).Delete(&entities.TimeLog{}).Error; err != nil {
		return err
	}
	if err := tx.Where("job_id = ?", jobID).Delete(&entities.MaterialLog{}).Error; err != nil {
		return err
	}
	if err := tx.Where("job_id = ?", jobID).Delete(&entities.ExpenseLog{}).Error; err != nil {
		return err
	}
	if err := tx.Where("job_id = ?", jobID).Delete(&entities.AssignmentAudit{}).Error; err != nil {
		return err
	}
	return tx.Unscoped().Where("job_id = ?", jobID).Delete(&entities.JobRequest{}).Error
}

// trashRepository implements the TrashRepository interface.
type trashRepository struct {
	db *gorm.DB
}

// NewTrashRepository creates a new trash repository.
func NewTrashRepository(db *gorm.DB) interfaces.TrashRepository {
	return &trashRepository{db: db}
}

func (r *trashRepository) target(entityType interfaces.TrashEntityType) (trashTarget, error) {
	t, ok := trashTargets[entityType]
	if !ok {
		validationErr := &errors.ValidationError{}
		validationErr.AddFieldError("entity_type", fmt.Sprintf("unknown entity type %q", entityType))
		return trashTarget{}, validationErr
	}
	return t, nil
}

// SoftDelete marks the record deleted.
func (r *trashRepository) SoftDelete(
	ctx context.Context,
	entityType interfaces.TrashEntityType,
	id int64,
) error {
	t, err := r.target(entityType)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(t.model)
	if result.Error != nil {
		return &errors.RepositoryError{
			Operation: "SoftDelete",
			Entity:    string(entityType),
			Err:       result.Error,
		}
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("%s with id %d not found", entityType, id))
	}

	return nil
}

// Restore clears the deletion mark. A record already purged is gone and
// yields ErrNotFound.
func (r *trashRepository) Restore(
	ctx context.Context,
	entityType interfaces.TrashEntityType,
	id int64,
) error {
	t, err := r.target(entityType)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Unscoped().
		Model(t.model).
		Where("id = ? AND deleted_at IS NOT NULL", id).
		Update("deleted_at", nil)
	if result.Error != nil {
		return &errors.RepositoryError{
			Operation: "Restore",
			Entity:    string(entityType),
			Err:       result.Error,
		}
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("%s with id %d not found in trash", entityType, id))
	}

	return nil
}

// PermanentlyDelete irreversibly removes one trashed record and its owned
// children. Live records are refused.
func (r *trashRepository) PermanentlyDelete(
	ctx context.Context,
	entityType interfaces.TrashEntityType,
	id int64,
) error {
	t, err := r.target(entityType)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Unscoped().
			Where("id = ? AND deleted_at IS NOT NULL", id).
			Delete(t.model)
		if result.Error != nil {
			return &errors.RepositoryError{
				Operation: "PermanentlyDelete",
				Entity:    string(entityType),
				Err:       result.Error,
			}
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(t.model).Where("id = ?", id).Count(&count).Error; err != nil {
				return &errors.RepositoryError{
					Operation: "PermanentlyDelete",
					Entity:    string(entityType),
					Err:       err,
				}
			}
			if count > 0 {
				return errors.NewConflictError("record is not in the trash")
			}
			return errors.NewNotFoundError(fmt.Sprintf("%s with id %d not found", entityType, id))
		}

		if t.cascade != nil {
			if err := t.cascade(tx, id); err != nil {
				return &errors.RepositoryError{
					Operation: "PermanentlyDelete",
					Entity:    string(entityType),
					Err:       err,
				}
			}
		}
		return nil
	})
}

// EmptyTrash permanently deletes every trashed record of the kind.
func (r *trashRepository) EmptyTrash(
	ctx context.Context,
	entityType interfaces.TrashEntityType,
) (int64, error) {
	return r.purgeWhere(ctx, entityType, "deleted_at IS NOT NULL")
}

// PurgeExpired permanently deletes trashed records older than the cutoff.
func (r *trashRepository) PurgeExpired(
	ctx context.Context,
	entityType interfaces.TrashEntityType,
	cutoff time.Time,
) (int64, error) {
	return r.purgeWhere(ctx, entityType, "deleted_at IS NOT NULL AND deleted_at < ?", cutoff)
}

// purgeWhere bulk-purges the matching trashed records, running the cascade
// per record so owned children never outlive their parent.
func (r *trashRepository) purgeWhere(
	ctx context.Context,
	entityType interfaces.TrashEntityType,
	condition string,
	args ...interface{},
) (int64, error) {
	t, err := r.target(entityType)
	if err != nil {
		return 0, err
	}

	var purged int64
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []int64
		if err := tx.Unscoped().
			Model(t.model).
			Where(condition, args...).
			Pluck("id", &ids).Error; err != nil {
			return err
		}

		for _, id := range ids {
			if t.cascade != nil {
				if err := t.cascade(tx, id); err != nil {
					return err
				}
			}
		}

		if len(ids) > 0 {
			result := tx.Unscoped().Where("id IN ?", ids).Delete(t.model)
			if result.Error != nil {
				return result.Error
			}
			purged = result.RowsAffected
		}
		return nil
	})
	if err != nil {
		return 0, &errors.RepositoryError{
			Operation: "Purge",
			Entity:    string(entityType),
			Err:       err,
		}
	}

	return purged, nil
}

// ListTrash returns the trashed records of the kind, newest deletion first.
func (r *trashRepository) ListTrash(
	ctx context.Context,
	entityType interfaces.TrashEntityType,
) ([]interfaces.TrashItem, error) {
	t, err := r.target(entityType)
	if err != nil {
		return nil, err
	}

	type trashRow struct {
		ID        int64
		Label     string
		DeletedAt time.Time
	}

	var rows []trashRow
	err = r.db.WithContext(ctx).
		Unscoped().
		Model(t.model).
		Select(fmt.Sprintf("id, %s AS label, deleted_at", t.labelColumn)).
		Where("deleted_at IS NOT NULL").
		Order("deleted_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, &errors.RepositoryError{
			Operation: "ListTrash",
			Entity:    string(entityType),
			Err:       err,
		}
	}

	items := make([]interfaces.TrashItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, interfaces.TrashItem{
			EntityType: entityType,
			ID:         row.ID,
			Label:      row.Label,
			DeletedAt:  row.DeletedAt,
		})
	}
	return items, nil
}
