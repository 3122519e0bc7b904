package entities

import "time"

// AuditAction classifies an assignment audit entry.
type AuditAction string

const (
	AuditActionClaim  AuditAction = "claim"
	AuditActionAssign AuditAction = "assign"
	AuditActionReturn AuditAction = "return"
	AuditActionStatus AuditAction = "status"
	AuditActionCancel AuditAction = "cancel"
)

// AssignmentAudit is an append-only record of a job state transition: who
// moved the job, from and to which status, and why. Admin assigns carry the
// skill-match flag so mismatched assignments are visible, not blocked.
type AssignmentAudit struct {
	ID      int64       `gorm:"primaryKey;autoIncrement"`
	JobID   int64       `gorm:"not null;index"`
	ActorID int64       `gorm:"not null"`
	Action  AuditAction `gorm:"type:varchar(16);not null"`

	FromStatus JobStatus `gorm:"type:varchar(24);not null"`
	ToStatus   JobStatus `gorm:"type:varchar(24);not null"`

	WorkerID     *int64
	SkillMatch   *bool
	ReturnReason *ReturnReason `gorm:"type:varchar(32)"`
	Note         string        `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null;index"`
}

// TableName overrides the default table name.
func (AssignmentAudit) TableName() string {
	return "assignment_audits"
}
