package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JobRequestStatus represents the state of a targeted job offer.
type JobRequestStatus string

const (
	JobRequestStatusPending  JobRequestStatus = "pending"
	JobRequestStatusAccepted JobRequestStatus = "accepted"
	JobRequestStatusDeclined JobRequestStatus = "declined"
	JobRequestStatusExpired  JobRequestStatus = "expired"
)

// JobRequest is an admin-initiated offer of one job to one staff member,
// distinct from pool visibility. At most one pending, non-deleted request
// may exist per (job, staff) pair.
type JobRequest struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	ExternalID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`

	JobID       int64  `gorm:"not null;index;index:idx_job_requests_active,unique,where:status = 'pending' AND deleted_at IS NULL"`
	StaffID     int64  `gorm:"not null;index;index:idx_job_requests_active,unique,where:status = 'pending' AND deleted_at IS NULL"`
	RequesterID int64  `gorm:"not null"`
	Message     string `gorm:"type:text"`

	Status      JobRequestStatus `gorm:"type:varchar(16);not null;index"`
	ExpiresAt   time.Time        `gorm:"not null"`
	RespondedAt *time.Time

	CreatedAt time.Time `gorm:"not null"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName overrides the default table name.
func (JobRequest) TableName() string {
	return "job_requests"
}

// ExpiredBy reports whether a still-pending request has passed its expiry.
func (r *JobRequest) ExpiredBy(now time.Time) bool {
	return r.Status == JobRequestStatusPending && now.After(r.ExpiresAt)
}
