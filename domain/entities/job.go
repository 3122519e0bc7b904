// Package entities contains the core domain entities for the crew dispatch application.
// It defines structures for jobs, work logs, staff, skills, and job requests.
package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JobStatus represents the lifecycle state of a job.
type JobStatus string

// Job lifecycle states.
const (
	JobStatusPool       JobStatus = "pool"
	JobStatusAssigned   JobStatus = "assigned"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusPaused     JobStatus = "paused"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusApproved   JobStatus = "approved"
	JobStatusInvoiced   JobStatus = "invoiced"
	JobStatusCancelled  JobStatus = "cancelled"
)

// IsTerminal reports whether no further transitions are permitted.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCancelled
}

// IsExecution reports whether the job is in an active execution state,
// i.e. a worker holds it and may append work logs.
func (s JobStatus) IsExecution() bool {
	return s == JobStatusAssigned || s == JobStatusInProgress || s == JobStatusPaused
}

// PricingMode determines how a job is billed.
type PricingMode string

const (
	PricingModeHourly PricingMode = "hourly"
	PricingModeFixed  PricingMode = "fixed"
)

// SourceType identifies the record a job was materialized from.
type SourceType string

const (
	SourceTypeBooking SourceType = "booking"
	SourceTypeQuote   SourceType = "quote"
)

// ReturnReason classifies why a worker gave a job back to the pool.
type ReturnReason string

const (
	ReturnReasonTooDifficult     ReturnReason = "too_difficult"
	ReturnReasonTimeConflict     ReturnReason = "time_conflict"
	ReturnReasonEquipmentMissing ReturnReason = "equipment_missing"
	ReturnReasonCustomerRequest  ReturnReason = "customer_request"
	ReturnReasonOther            ReturnReason = "other"
)

// Valid reports whether the reason is one of the known codes.
func (r ReturnReason) Valid() bool {
	switch r {
	case ReturnReasonTooDifficult, ReturnReasonTimeConflict,
		ReturnReasonEquipmentMissing, ReturnReasonCustomerRequest, ReturnReasonOther:
		return true
	}
	return false
}

// Job represents a dispatchable unit of work materialized from a booking or quote.
//
// Invariant: AssignedWorkerID is non-nil exactly when Status is neither
// pool nor cancelled. A job in pool status never carries a worker.
type Job struct {
	ID         int64      `gorm:"primaryKey;autoIncrement"`
	ExternalID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	SourceType SourceType `gorm:"type:varchar(16);not null"`
	SourceID   int64      `gorm:"not null;index"`

	Title       string `gorm:"type:varchar(255);not null"`
	Description string `gorm:"type:text"`
	Street      string `gorm:"type:varchar(255)"`
	PostalCode  string `gorm:"type:varchar(16)"`
	City        string `gorm:"type:varchar(128)"`

	// ServiceID is the skill-matching key. Jobs created before skill
	// matching existed have none and stay visible to every worker.
	ServiceID *int64 `gorm:"index"`

	PricingMode        PricingMode `gorm:"type:varchar(16);not null"`
	HourlyRateCents    int64       `gorm:"not null;default:0"`
	FixedPriceCents    int64       `gorm:"not null;default:0"`
	OverridePriceCents *int64
	BonusCents         int64 `gorm:"not null;default:0"`

	Status           JobStatus `gorm:"type:varchar(24);not null;index"`
	PoolEnabled      bool      `gorm:"not null;default:true"`
	AssignedWorkerID *int64    `gorm:"index"`
	AssignedAt       *time.Time

	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName overrides the default table name.
func (Job) TableName() string {
	return "jobs"
}

// EffectivePriceCents returns the fixed price the customer is charged for a
// fixed-mode job, honoring the admin override when set.
func (j *Job) EffectivePriceCents() int64 {
	if j.OverridePriceCents != nil {
		return *j.OverridePriceCents
	}
	return j.FixedPriceCents
}

// JobFilter represents filters for querying jobs.
type JobFilter struct {
	Status           *JobStatus
	AssignedWorkerID *int64
	ServiceID        *int64
	SourceType       *SourceType
	Trashed          bool
}
