package usecases

import (
	"context"
	"time"

	"crewdispatch/domain/entities"
	"crewdispatch/domain/errors"
	"crewdispatch/domain/interfaces"
	"github.com/google/uuid"
)

// createJobUseCase implements the CreateJobUseCase interface.
type createJobUseCase struct {
	jobRepository    interfaces.JobRepository
	sourceRepository interfaces.SourceRepository
	logger           interfaces.Logger
}

// NewCreateJobUseCase creates a new create job use case.
func NewCreateJobUseCase(
	jobRepository interfaces.JobRepository,
	sourceRepository interfaces.SourceRepository,
	logger interfaces.Logger,
) interfaces.CreateJobUseCase {
	return &createJobUseCase{
		jobRepository:    jobRepository,
		sourceRepository: sourceRepository,
		logger:           logger,
	}
}

// CreateFromBooking materializes an hourly pool job from an accepted
// booking. The booking is referenced, never owned: purging the job later
// does not touch it.
func (uc *createJobUseCase) CreateFromBooking(
	ctx context.Context,
	bookingID int64,
) (*entities.Job, error) {
	if bookingID <= 0 {
		validationErr := &errors.ValidationError{}
		validationErr.AddFieldError("booking_id", "booking id must be positive")
		return nil, validationErr
	}

	booking, err := uc.sourceRepository.FindBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	job := &entities.Job{
		ExternalID:      uuid.New(),
		SourceType:      entities.SourceTypeBooking,
		SourceID:        booking.ID,
		Title:           booking.Title,
		Description:     booking.Description,
		Street:          booking.Street,
		PostalCode:      booking.PostalCode,
		City:            booking.City,
		ServiceID:       booking.ServiceID,
		PricingMode:     entities.PricingModeHourly,
		HourlyRateCents: booking.HourlyRateCents,
		Status:          entities.JobStatusPool,
		PoolEnabled:     true,
		CreatedAt:       time.Now().UTC(),
	}

	if err := uc.jobRepository.Create(ctx, job); err != nil {
		return nil, err
	}

	uc.logger.Info("Job created from booking",
		"job", job.ID,
		"booking", booking.ID)

	return job, nil
}

// CreateFromQuote materializes a fixed-price pool job from an accepted quote.
func (uc *createJobUseCase) CreateFromQuote(
	ctx context.Context,
	quoteID int64,
) (*entities.Job, error) {
	if quoteID <= 0 {
		validationErr := &errors.ValidationError{}
		validationErr.AddFieldError("quote_id", "quote id must be positive")
		return nil, validationErr
	}

	quote, err := uc.sourceRepository.FindQuoteByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}

	job := &entities.Job{
		ExternalID:      uuid.New(),
		SourceType:      entities.SourceTypeQuote,
		SourceID:        quote.ID,
		Title:           quote.Title,
		Description:     quote.Description,
		Street:          quote.Street,
		PostalCode:      quote.PostalCode,
		City:            quote.City,
		ServiceID:       quote.ServiceID,
		PricingMode:     entities.PricingModeFixed,
		FixedPriceCents: quote.FixedPriceCents,
		Status:          entities.JobStatusPool,
		PoolEnabled:     true,
		CreatedAt:       time.Now().UTC(),
	}

	if err := uc.jobRepository.Create(ctx, job); err != nil {
		return nil, err
	}

	uc.logger.Info("Job created from quote",
		"job", job.ID,
		"quote", quote.ID)

	return job, nil
}
