package usecases

import (
	"sync"
	"testing"

	"crewdispatch/domain/entities"
	"crewdispatch/domain/errors"
	"crewdispatch/domain/interfaces"
	"crewdispatch/test/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaimJobUseCase_Execute(t *testing.T) {
	ctx := helpers.TestContext(t)
	ctrl := newController(t)

	t.Run("claims a pool job", func(t *testing.T) {
		store := newFakeStore()
		store.putJob(helpers.PoolJob(1))
		audits := &fakeAuditRepository{store: store}

		uc := NewClaimJobUseCase(
			&fakeUnitOfWorkFactory{store: store},
			silentNotifier(ctrl),
			testLogger(ctrl),
		)

		job, err := uc.Execute(ctx, interfaces.ClaimJobParams{JobID: 1, WorkerID: 7})
		require.NoError(t, err)
		assert.Equal(t, entities.JobStatusAssigned, job.Status)
		require.NotNil(t, job.AssignedWorkerID)
		assert.Equal(t, int64(7), *job.AssignedWorkerID)
		assert.NotNil(t, job.AssignedAt)

		entries := audits.entries()
		require.Len(t, entries, 1)
		assert.Equal(t, entities.AuditActionClaim, entries[0].Action)
		assert.Equal(t, entities.JobStatusPool, entries[0].FromStatus)
		assert.Equal(t, entities.JobStatusAssigned, entries[0].ToStatus)
	})

	t.Run("publishes the transition after commit", func(t *testing.T) {
		store := newFakeStore()
		store.putJob(helpers.PoolJob(1))

		notifier := configuredNotifier(ctrl)
		uc := NewClaimJobUseCase(
			&fakeUnitOfWorkFactory{store: store},
			notifier.mock,
			testLogger(ctrl),
		)

		_, err := uc.Execute(ctx, interfaces.ClaimJobParams{JobID: 1, WorkerID: 7})
		require.NoError(t, err)

		require.Len(t, notifier.events(), 1)
		event := notifier.events()[0]
		assert.Equal(t, int64(1), event.JobID)
		assert.Equal(t, entities.AuditActionClaim, event.Action)
		assert.Equal(t, entities.JobStatusAssigned, event.ToStatus)
	})

	t.Run("rejects a claim on an assigned job", func(t *testing.T) {
		store := newFakeStore()
		store.putJob(helpers.AssignedJob(1, 9))

		uc := NewClaimJobUseCase(
			&fakeUnitOfWorkFactory{store: store},
			silentNotifier(ctrl),
			testLogger(ctrl),
		)

		_, err := uc.Execute(ctx, interfaces.ClaimJobParams{JobID: 1, WorkerID: 7})
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrConflict)
	})

	t.Run("reports a missing job as not found", func(t *testing.T) {
		store := newFakeStore()

		uc := NewClaimJobUseCase(
			&fakeUnitOfWorkFactory{store: store},
			silentNotifier(ctrl),
			testLogger(ctrl),
		)

		_, err := uc.Execute(ctx, interfaces.ClaimJobParams{JobID: 404, WorkerID: 7})
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrNotFound)
	})

	t.Run("rejects invalid parameters", func(t *testing.T) {
		uc := NewClaimJobUseCase(
			&fakeUnitOfWorkFactory{store: newFakeStore()},
			silentNotifier(ctrl),
			testLogger(ctrl),
		)

		_, err := uc.Execute(ctx, interfaces.ClaimJobParams{JobID: 0, WorkerID: 0})
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrInvalidInput)
	})
}

func TestClaimJobUseCase_ConcurrentClaims(t *testing.T) {
	ctx := helpers.TestContext(t)
	ctrl := newController(t)

	store := newFakeStore()
	store.putJob(helpers.PoolJob(1))

	uc := NewClaimJobUseCase(
		&fakeUnitOfWorkFactory{store: store},
		silentNotifier(ctrl),
		testLogger(ctrl),
	)

	const workers = 16

	var wg sync.WaitGroup
	results := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := uc.Execute(ctx, interfaces.ClaimJobParams{
				JobID:    1,
				WorkerID: int64(i + 1),
			})
			results[i] = err
		}(i)
	}
	wg.Wait()

	var winners, conflicts int
	for _, err := range results {
		switch {
		case err == nil:
			winners++
		case assert.ErrorIs(t, err, errors.ErrConflict):
			conflicts++
		}
	}

	assert.Equal(t, 1, winners, "exactly one concurrent claim must win")
	assert.Equal(t, workers-1, conflicts)

	job := store.jobByID(1)
	assert.Equal(t, entities.JobStatusAssigned, job.Status)
	assert.NotNil(t, job.AssignedWorkerID)
}
