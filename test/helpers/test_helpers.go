package helpers

import (
	"context"
	"testing"
	"time"

	"crewdispatch/domain/entities"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// TestContext creates a test context with timeout
func TestContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// PoolJob builds a claimable pool job for tests.
func PoolJob(id int64) *entities.Job {
	return &entities.Job{
		ID:          id,
		ExternalID:  uuid.New(),
		SourceType:  entities.SourceTypeBooking,
		SourceID:    id,
		Title:       "Test job",
		City:        "Springfield",
		PricingMode: entities.PricingModeHourly,
		Status:      entities.JobStatusPool,
		PoolEnabled: true,
		CreatedAt:   time.Now().UTC(),
	}
}

// AssignedJob builds a job held by the given worker.
func AssignedJob(id, workerID int64) *entities.Job {
	job := PoolJob(id)
	now := time.Now().UTC()
	job.Status = entities.JobStatusAssigned
	job.AssignedWorkerID = &workerID
	job.AssignedAt = &now
	return job
}

// ActiveStaff builds an active staff member.
func ActiveStaff(id int64, name string) entities.Staff {
	return entities.Staff{
		ID:        id,
		Name:      name,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
}

// AssertEventually asserts that a condition is met within a timeout
func AssertEventually(t *testing.T, condition func() bool, timeout time.Duration, message string) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(100 * time.Millisecond)
	}
	require.Fail(t, message)
}

// SkipIfShort skips the test if running in short mode
func SkipIfShort(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping test in short mode")
	}
}
