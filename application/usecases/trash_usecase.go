package usecases

import (
	"context"
	"time"

	"crewdispatch/domain/errors"
	"crewdispatch/domain/interfaces"
)

// RetentionDays is how long a trashed record is kept before it becomes
// eligible for purging.
const RetentionDays = 30

// DaysUntilPurge returns how many whole days remain before a record trashed
// at deletedAt becomes purge-eligible. Zero or negative means eligible now.
// Purging is still an explicit or scheduled action, never automatic-on-read.
func DaysUntilPurge(deletedAt, now time.Time) int {
	elapsed := int(now.Sub(deletedAt).Hours() / 24)
	return RetentionDays - elapsed
}

// trashUseCase implements the TrashUseCase interface.
type trashUseCase struct {
	trashRepository interfaces.TrashRepository
	logger          interfaces.Logger
}

// NewTrashUseCase creates a new trash use case.
func NewTrashUseCase(
	trashRepository interfaces.TrashRepository,
	logger interfaces.Logger,
) interfaces.TrashUseCase {
	return &trashUseCase{
		trashRepository: trashRepository,
		logger:          logger,
	}
}

// allTrashEntityTypes lists every kind the lifecycle applies to.
var allTrashEntityTypes = []interfaces.TrashEntityType{
	interfaces.TrashEntityJob,
	interfaces.TrashEntityBooking,
	interfaces.TrashEntityQuote,
	interfaces.TrashEntityQuoteRequest,
	interfaces.TrashEntityJobRequest,
	interfaces.TrashEntityProject,
}

func validEntityType(entityType interfaces.TrashEntityType) bool {
	for _, t := range allTrashEntityTypes {
		if t == entityType {
			return true
		}
	}
	return false
}

// SoftDelete moves the record to the trash.
func (uc *trashUseCase) SoftDelete(
	ctx context.Context,
	entityType interfaces.TrashEntityType,
	id int64,
) error {
	if err := uc.validate(entityType, id); err != nil {
		return err
	}
	if err := uc.trashRepository.SoftDelete(ctx, entityType, id); err != nil {
		return err
	}
	uc.logger.Info("Record trashed", "entityType", entityType, "id", id)
	return nil
}

// Restore brings a trashed record back. A record that was already purged is
// gone for good and yields ErrNotFound.
func (uc *trashUseCase) Restore(
	ctx context.Context,
	entityType interfaces.TrashEntityType,
	id int64,
) error {
	if err := uc.validate(entityType, id); err != nil {
		return err
	}
	if err := uc.trashRepository.Restore(ctx, entityType, id); err != nil {
		return err
	}
	uc.logger.Info("Record restored", "entityType", entityType, "id", id)
	return nil
}

// PermanentlyDelete purges one trashed record and its owned children.
// Refusing live records guards against accidental hard deletion.
func (uc *trashUseCase) PermanentlyDelete(
	ctx context.Context,
	entityType interfaces.TrashEntityType,
	id int64,
) error {
	if err := uc.validate(entityType, id); err != nil {
		return err
	}
	if err := uc.trashRepository.PermanentlyDelete(ctx, entityType, id); err != nil {
		return err
	}
	uc.logger.Info("Record purged", "entityType", entityType, "id", id)
	return nil
}

// EmptyTrash purges every trashed record of the kind.
func (uc *trashUseCase) EmptyTrash(
	ctx context.Context,
	entityType interfaces.TrashEntityType,
) (int64, error) {
	if err := uc.validate(entityType, 1); err != nil {
		return 0, err
	}
	count, err := uc.trashRepository.EmptyTrash(ctx, entityType)
	if err != nil {
		return 0, err
	}
	uc.logger.Info("Trash emptied", "entityType", entityType, "purged", count)
	return count, nil
}

// ListTrash lists the trashed records of the kind with purge countdowns.
func (uc *trashUseCase) ListTrash(
	ctx context.Context,
	entityType interfaces.TrashEntityType,
) ([]interfaces.TrashListing, error) {
	if err := uc.validate(entityType, 1); err != nil {
		return nil, err
	}

	items, err := uc.trashRepository.ListTrash(ctx, entityType)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	listings := make([]interfaces.TrashListing, 0, len(items))
	for _, item := range items {
		listings = append(listings, interfaces.TrashListing{
			Item:           item,
			DaysUntilPurge: DaysUntilPurge(item.DeletedAt, now),
		})
	}
	return listings, nil
}

// PurgeExpired purges records of every kind trashed longer than the
// retention window. Called by the cron sweep or the trash CLI.
func (uc *trashUseCase) PurgeExpired(ctx context.Context) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -RetentionDays)

	var total int64
	for _, entityType := range allTrashEntityTypes {
		count, err := uc.trashRepository.PurgeExpired(ctx, entityType, cutoff)
		if err != nil {
			return total, err
		}
		total += count
	}

	if total > 0 {
		uc.logger.Info("Purged expired trash", "purged", total)
	}
	return total, nil
}

// validate checks the entity kind and id.
func (uc *trashUseCase) validate(entityType interfaces.TrashEntityType, id int64) error {
	validationErr := &errors.ValidationError{}

	if !validEntityType(entityType) {
		validationErr.AddFieldError("entity_type", "unknown entity type")
	}
	if id <= 0 {
		validationErr.AddFieldError("id", "id must be positive")
	}

	if validationErr.HasErrors() {
		return validationErr
	}
	return nil
}
