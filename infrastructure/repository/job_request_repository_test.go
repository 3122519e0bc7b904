package repository

import (
	"testing"
	"time"

	"crewdispatch/domain/entities"
	"crewdispatch/domain/errors"
	"crewdispatch/test/helpers"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestJobRequestRepository_Create(t *testing.T) {
	ctx := helpers.TestContext(t)
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewJobRequestRepository(db)

	newRequest := func() *entities.JobRequest {
		return &entities.JobRequest{
			ExternalID:  uuid.New(),
			JobID:       1,
			StaffID:     7,
			RequesterID: 99,
			Status:      entities.JobRequestStatusPending,
			ExpiresAt:   time.Now().UTC().Add(24 * time.Hour),
			CreatedAt:   time.Now().UTC(),
		}
	}

	t.Run("success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO "job_requests"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(100))
		mock.ExpectCommit()

		request := newRequest()
		err := repo.Create(ctx, request)
		require.NoError(t, err)
		assert.Equal(t, int64(100), request.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate pending pair conflicts", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO "job_requests"`).
			WillReturnError(gorm.ErrDuplicatedKey)
		mock.ExpectRollback()

		err := repo.Create(ctx, newRequest())
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestJobRequestRepository_MarkResponded(t *testing.T) {
	ctx := helpers.TestContext(t)
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewJobRequestRepository(db)

	t.Run("pending request transitions", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "job_requests" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		ok, err := repo.MarkResponded(ctx, 100,
			entities.JobRequestStatusAccepted, time.Now().UTC())
		require.NoError(t, err)
		assert.True(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already responded request reports false", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "job_requests" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		ok, err := repo.MarkResponded(ctx, 100,
			entities.JobRequestStatusDeclined, time.Now().UTC())
		require.NoError(t, err)
		assert.False(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestJobRequestRepository_ExpireSiblings(t *testing.T) {
	ctx := helpers.TestContext(t)
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewJobRequestRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "job_requests" SET`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	count, err := repo.ExpireSiblings(ctx, 1, 100, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJobRequestRepository_ExpireOverdue(t *testing.T) {
	ctx := helpers.TestContext(t)
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewJobRequestRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "job_requests" SET`).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	count, err := repo.ExpireOverdue(ctx, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
