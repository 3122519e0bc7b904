package repository

import (
	"context"
	"fmt"

	"crewdispatch/domain/entities"
	"crewdispatch/domain/errors"
	"crewdispatch/domain/interfaces"
	"gorm.io/gorm"
)

// sourceRepository implements the SourceRepository interface.
type sourceRepository struct {
	db *gorm.DB
}

// NewSourceRepository creates a new source repository.
func NewSourceRepository(db *gorm.DB) interfaces.SourceRepository {
	return &sourceRepository{db: db}
}

// FindBookingByID finds a booking by ID.
func (r *sourceRepository) FindBookingByID(ctx context.Context, id int64) (*entities.Booking, error) {
	var booking entities.Booking

	err := r.db.WithContext(ctx).First(&booking, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError(fmt.Sprintf("booking with id %d not found", id))
		}
		return nil, &errors.RepositoryError{
			Operation: "FindBookingByID",
			Entity:    "Booking",
			Err:       err,
		}
	}

	return &booking, nil
}

// FindQuoteByID finds a quote by ID.
func (r *sourceRepository) FindQuoteByID(ctx context.Context, id int64) (*entities.Quote, error) {
	var quote entities.Quote

	err := r.db.WithContext(ctx).First(&quote, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError(fmt.Sprintf("quote with id %d not found", id))
		}
		return nil, &errors.RepositoryError{
			Operation: "FindQuoteByID",
			Entity:    "Quote",
			Err:       err,
		}
	}

	return &quote, nil
}
