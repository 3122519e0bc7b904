package usecases

import (
	"testing"
	"time"

	"crewdispatch/domain/entities"
	"crewdispatch/domain/errors"
	"crewdispatch/test/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateJobUseCase(t *testing.T) {
	ctx := helpers.TestContext(t)
	ctrl := newController(t)

	serviceID := int64(10)

	t.Run("creates an hourly pool job from a booking", func(t *testing.T) {
		store := newFakeStore()
		store.bookings[1] = &entities.Booking{
			ID:              1,
			CustomerName:    "J. Smith",
			Street:          "Elm St 4",
			City:            "Springfield",
			ServiceID:       &serviceID,
			Title:           "Leaky faucet",
			HourlyRateCents: 5500,
			CreatedAt:       time.Now().UTC(),
		}

		uc := NewCreateJobUseCase(
			&fakeJobRepository{store: store},
			&fakeSourceRepository{store: store},
			testLogger(ctrl),
		)

		job, err := uc.CreateFromBooking(ctx, 1)
		require.NoError(t, err)
		assert.NotZero(t, job.ID)
		assert.NotEqual(t, "", job.ExternalID.String())
		assert.Equal(t, entities.SourceTypeBooking, job.SourceType)
		assert.Equal(t, int64(1), job.SourceID)
		assert.Equal(t, entities.PricingModeHourly, job.PricingMode)
		assert.Equal(t, int64(5500), job.HourlyRateCents)
		assert.Equal(t, entities.JobStatusPool, job.Status)
		assert.True(t, job.PoolEnabled)
		assert.Nil(t, job.AssignedWorkerID)
		require.NotNil(t, job.ServiceID)
		assert.Equal(t, serviceID, *job.ServiceID)
	})

	t.Run("creates a fixed-price pool job from a quote", func(t *testing.T) {
		store := newFakeStore()
		store.quotes[2] = &entities.Quote{
			ID:              2,
			CustomerName:    "A. Jones",
			City:            "Springfield",
			Title:           "Fence repair",
			FixedPriceCents: 45000,
			CreatedAt:       time.Now().UTC(),
		}

		uc := NewCreateJobUseCase(
			&fakeJobRepository{store: store},
			&fakeSourceRepository{store: store},
			testLogger(ctrl),
		)

		job, err := uc.CreateFromQuote(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, entities.SourceTypeQuote, job.SourceType)
		assert.Equal(t, entities.PricingModeFixed, job.PricingMode)
		assert.Equal(t, int64(45000), job.FixedPriceCents)
		assert.Equal(t, entities.JobStatusPool, job.Status)
		assert.Nil(t, job.ServiceID)
	})

	t.Run("missing sources are not found", func(t *testing.T) {
		uc := NewCreateJobUseCase(
			&fakeJobRepository{store: newFakeStore()},
			&fakeSourceRepository{store: newFakeStore()},
			testLogger(ctrl),
		)

		_, err := uc.CreateFromBooking(ctx, 404)
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrNotFound)

		_, err = uc.CreateFromQuote(ctx, 404)
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrNotFound)
	})

	t.Run("rejects non-positive source ids", func(t *testing.T) {
		uc := NewCreateJobUseCase(
			&fakeJobRepository{store: newFakeStore()},
			&fakeSourceRepository{store: newFakeStore()},
			testLogger(ctrl),
		)

		_, err := uc.CreateFromBooking(ctx, 0)
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrInvalidInput)
	})
}
