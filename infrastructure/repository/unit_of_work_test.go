package repository

import (
	"testing"
	"time"

	"crewdispatch/domain/entities"
	"crewdispatch/domain/errors"
	"crewdispatch/test/helpers"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The acceptance path stages a request response and a job claim in one
// transaction. These tests pin the transactional envelope: both writes run
// on the open transaction, and a lost claim race discards the staged
// response via ROLLBACK instead of leaving it behind.

func TestUnitOfWork_RollbackDiscardsStagedWrites(t *testing.T) {
	ctx := helpers.TestContext(t)
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	now := time.Now().UTC()
	uow := NewUnitOfWorkFactory(db).New()

	mock.ExpectBegin()

	// The response lands first and affects a row. Inside the open
	// transaction gorm must not nest another BEGIN/COMMIT around it.
	mock.ExpectExec(`UPDATE "job_requests" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// The claim loses the race; the re-read shows the job held by
	// another worker.
	mock.ExpectExec(`UPDATE "jobs" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT .* FROM "jobs"`).
		WillReturnRows(assignedJobRow(1, 9))

	mock.ExpectRollback()

	require.NoError(t, uow.Begin())

	responded, err := uow.JobRequests().MarkResponded(ctx, 100, entities.JobRequestStatusAccepted, now)
	require.NoError(t, err)
	require.True(t, responded)

	_, err = uow.Jobs().Claim(ctx, 1, 7, now)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrConflict)

	require.NoError(t, uow.Rollback())

	// ROLLBACK was issued and no COMMIT ever ran, so the staged response
	// dies with the transaction.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitOfWork_CommitPublishesStagedWrites(t *testing.T) {
	ctx := helpers.TestContext(t)
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	now := time.Now().UTC()
	uow := NewUnitOfWorkFactory(db).New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "job_requests" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "jobs" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT .* FROM "jobs"`).
		WillReturnRows(assignedJobRow(1, 7))
	mock.ExpectCommit()

	require.NoError(t, uow.Begin())

	responded, err := uow.JobRequests().MarkResponded(ctx, 100, entities.JobRequestStatusAccepted, now)
	require.NoError(t, err)
	require.True(t, responded)

	job, err := uow.Jobs().Claim(ctx, 1, 7, now)
	require.NoError(t, err)
	assert.Equal(t, entities.JobStatusAssigned, job.Status)

	require.NoError(t, uow.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitOfWork_DoubleBegin(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectRollback()

	uow := NewUnitOfWorkFactory(db).New()
	require.NoError(t, uow.Begin())
	require.Error(t, uow.Begin())

	require.NoError(t, uow.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}
