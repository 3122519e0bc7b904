package usecases

import (
	"testing"
	"time"

	"crewdispatch/domain/entities"
	"crewdispatch/domain/errors"
	"crewdispatch/domain/interfaces"
	"crewdispatch/test/helpers"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingRequest(id, jobID, staffID int64, expiresAt time.Time) *entities.JobRequest {
	return &entities.JobRequest{
		ID:          id,
		ExternalID:  uuid.New(),
		JobID:       jobID,
		StaffID:     staffID,
		RequesterID: 99,
		Status:      entities.JobRequestStatusPending,
		ExpiresAt:   expiresAt,
		CreatedAt:   time.Now().UTC(),
	}
}

func TestJobRequestUseCase_Create(t *testing.T) {
	ctx := helpers.TestContext(t)
	ctrl := newController(t)
	admin := interfaces.Actor{ID: 99, Role: interfaces.RoleAdmin}

	newUseCase := func(store *fakeStore) interfaces.JobRequestUseCase {
		return NewJobRequestUseCase(
			&fakeJobRepository{store: store},
			&fakeJobRequestRepository{store: store},
			&fakeStaffRepository{store: store},
			&fakeCatalogRepository{store: store},
			&fakeUnitOfWorkFactory{store: store},
			silentNotifier(ctrl),
			testLogger(ctrl),
		)
	}

	seed := func() *fakeStore {
		store := newFakeStore()
		store.putJob(helpers.PoolJob(1))
		store.staff[7] = helpers.ActiveStaff(7, "Alex")
		return store
	}

	t.Run("creates a pending request with the default expiry", func(t *testing.T) {
		store := seed()

		request, err := newUseCase(store).Create(ctx, interfaces.CreateJobRequestParams{
			JobID: 1, StaffID: 7, Actor: admin, Message: "morning slot free?",
		})
		require.NoError(t, err)
		assert.Equal(t, entities.JobRequestStatusPending, request.Status)
		assert.Equal(t, int64(1), request.JobID)
		assert.Equal(t, int64(7), request.StaffID)
		assert.WithinDuration(t, time.Now().UTC().Add(defaultRequestTTL), request.ExpiresAt, time.Minute)
	})

	t.Run("rejects a second pending request for the same pair", func(t *testing.T) {
		store := seed()
		uc := newUseCase(store)

		_, err := uc.Create(ctx, interfaces.CreateJobRequestParams{JobID: 1, StaffID: 7, Actor: admin})
		require.NoError(t, err)

		_, err = uc.Create(ctx, interfaces.CreateJobRequestParams{JobID: 1, StaffID: 7, Actor: admin})
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrConflict)
	})

	t.Run("rejects offers on a job that left the pool", func(t *testing.T) {
		store := seed()
		store.putJob(helpers.AssignedJob(1, 5))

		_, err := newUseCase(store).Create(ctx, interfaces.CreateJobRequestParams{
			JobID: 1, StaffID: 7, Actor: admin,
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrConflict)
	})

	t.Run("rejects inactive staff", func(t *testing.T) {
		store := seed()
		inactive := helpers.ActiveStaff(8, "Sam")
		inactive.Active = false
		store.staff[8] = inactive

		_, err := newUseCase(store).Create(ctx, interfaces.CreateJobRequestParams{
			JobID: 1, StaffID: 8, Actor: admin,
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrConflict)
	})

	t.Run("rejects non-admin callers", func(t *testing.T) {
		store := seed()

		_, err := newUseCase(store).Create(ctx, interfaces.CreateJobRequestParams{
			JobID: 1, StaffID: 7,
			Actor: interfaces.Actor{ID: 7, Role: interfaces.RoleWorker},
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrForbidden)
	})

	t.Run("rejects an expiry in the past", func(t *testing.T) {
		store := seed()

		_, err := newUseCase(store).Create(ctx, interfaces.CreateJobRequestParams{
			JobID: 1, StaffID: 7, Actor: admin,
			ExpiresAt: time.Now().Add(-time.Hour),
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrInvalidInput)
	})
}

func TestJobRequestUseCase_Respond(t *testing.T) {
	ctx := helpers.TestContext(t)
	ctrl := newController(t)

	newUseCase := func(store *fakeStore) interfaces.JobRequestUseCase {
		return NewJobRequestUseCase(
			&fakeJobRepository{store: store},
			&fakeJobRequestRepository{store: store},
			&fakeStaffRepository{store: store},
			&fakeCatalogRepository{store: store},
			&fakeUnitOfWorkFactory{store: store},
			silentNotifier(ctrl),
			testLogger(ctrl),
		)
	}

	future := time.Now().UTC().Add(time.Hour)

	t.Run("accepting claims the job and expires siblings", func(t *testing.T) {
		store := newFakeStore()
		store.putJob(helpers.PoolJob(1))
		store.putRequest(pendingRequest(100, 1, 7, future))
		store.putRequest(pendingRequest(101, 1, 8, future))

		request, err := newUseCase(store).Respond(ctx, interfaces.RespondJobRequestParams{
			RequestID: 100, StaffID: 7, Accept: true,
		})
		require.NoError(t, err)
		assert.Equal(t, entities.JobRequestStatusAccepted, request.Status)
		require.NotNil(t, request.RespondedAt)

		job := store.jobByID(1)
		assert.Equal(t, entities.JobStatusAssigned, job.Status)
		require.NotNil(t, job.AssignedWorkerID)
		assert.Equal(t, int64(7), *job.AssignedWorkerID)

		sibling := store.requestByID(101)
		assert.Equal(t, entities.JobRequestStatusExpired, sibling.Status)

		entries := (&fakeAuditRepository{store: store}).entries()
		require.Len(t, entries, 1)
		assert.Equal(t, entities.AuditActionClaim, entries[0].Action)
	})

	t.Run("declining leaves the job in the pool", func(t *testing.T) {
		store := newFakeStore()
		store.putJob(helpers.PoolJob(1))
		store.putRequest(pendingRequest(100, 1, 7, future))

		request, err := newUseCase(store).Respond(ctx, interfaces.RespondJobRequestParams{
			RequestID: 100, StaffID: 7, Accept: false,
		})
		require.NoError(t, err)
		assert.Equal(t, entities.JobRequestStatusDeclined, request.Status)

		job := store.jobByID(1)
		assert.Equal(t, entities.JobStatusPool, job.Status)
	})

	t.Run("accepting a claimed job fails with a conflict", func(t *testing.T) {
		store := newFakeStore()
		store.putJob(helpers.AssignedJob(1, 5))
		store.putRequest(pendingRequest(100, 1, 7, future))

		_, err := newUseCase(store).Respond(ctx, interfaces.RespondJobRequestParams{
			RequestID: 100, StaffID: 7, Accept: true,
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrConflict)
	})

	t.Run("overdue requests expire on read", func(t *testing.T) {
		store := newFakeStore()
		store.putJob(helpers.PoolJob(1))
		store.putRequest(pendingRequest(100, 1, 7, time.Now().UTC().Add(-time.Minute)))

		_, err := newUseCase(store).Respond(ctx, interfaces.RespondJobRequestParams{
			RequestID: 100, StaffID: 7, Accept: true,
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrConflict)
		assert.Equal(t, entities.JobRequestStatusExpired, store.requestByID(100).Status)
	})

	t.Run("rejects a response from the wrong staff member", func(t *testing.T) {
		store := newFakeStore()
		store.putJob(helpers.PoolJob(1))
		store.putRequest(pendingRequest(100, 1, 7, future))

		_, err := newUseCase(store).Respond(ctx, interfaces.RespondJobRequestParams{
			RequestID: 100, StaffID: 8, Accept: true,
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrForbidden)
	})

	t.Run("rejects a double response", func(t *testing.T) {
		store := newFakeStore()
		store.putJob(helpers.PoolJob(1))
		request := pendingRequest(100, 1, 7, future)
		request.Status = entities.JobRequestStatusDeclined
		store.putRequest(request)

		_, err := newUseCase(store).Respond(ctx, interfaces.RespondJobRequestParams{
			RequestID: 100, StaffID: 7, Accept: true,
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrConflict)
	})
}

func TestJobRequestUseCase_Candidates(t *testing.T) {
	ctx := helpers.TestContext(t)
	ctrl := newController(t)

	store := newFakeStore()
	serviceID := int64(10)
	job := helpers.PoolJob(1)
	job.ServiceID = &serviceID
	store.putJob(job)

	wiring := entities.Skill{ID: 1, Name: "wiring", Category: "electrical"}
	store.services[serviceID] = entities.Service{ID: serviceID, Name: "rewiring", Category: "electrical"}
	store.required[serviceID] = [2][]entities.Skill{{wiring}, nil}

	store.staff[7] = helpers.ActiveStaff(7, "Alex")
	store.skills[7] = []entities.Skill{wiring}
	store.staff[8] = helpers.ActiveStaff(8, "Sam")

	uc := NewJobRequestUseCase(
		&fakeJobRepository{store: store},
		&fakeJobRequestRepository{store: store},
		&fakeStaffRepository{store: store},
		&fakeCatalogRepository{store: store},
		&fakeUnitOfWorkFactory{store: store},
		silentNotifier(ctrl),
		testLogger(ctrl),
	)

	candidates, err := uc.Candidates(ctx, 1)
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	byStaff := make(map[int64]interfaces.JobRequestCandidate, len(candidates))
	for _, c := range candidates {
		byStaff[c.Staff.ID] = c
	}

	qualified := byStaff[7].Match
	unskilled := byStaff[8].Match
	assert.True(t, qualified.FullyQualified(), "qualified worker")
	assert.False(t, unskilled.FullyQualified(), "unskilled worker is reported, not filtered")
	assert.Len(t, unskilled.MissingSkills, 1)
}

func TestJobRequestUseCase_ExpireOverdue(t *testing.T) {
	ctx := helpers.TestContext(t)
	ctrl := newController(t)

	store := newFakeStore()
	store.putRequest(pendingRequest(100, 1, 7, time.Now().UTC().Add(-time.Hour)))
	store.putRequest(pendingRequest(101, 1, 8, time.Now().UTC().Add(time.Hour)))

	uc := NewJobRequestUseCase(
		&fakeJobRepository{store: store},
		&fakeJobRequestRepository{store: store},
		&fakeStaffRepository{store: store},
		&fakeCatalogRepository{store: store},
		&fakeUnitOfWorkFactory{store: store},
		silentNotifier(ctrl),
		testLogger(ctrl),
	)

	count, err := uc.ExpireOverdue(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, entities.JobRequestStatusExpired, store.requestByID(100).Status)
	assert.Equal(t, entities.JobRequestStatusPending, store.requestByID(101).Status)
}
