package entities

import "time"

// TimeLog records time worked on a job, either as a start/end pair or as a
// manually entered hour count. Rows are append-only.
type TimeLog struct {
	ID       int64 `gorm:"primaryKey;autoIncrement"`
	JobID    int64 `gorm:"not null;index"`
	WorkerID int64 `gorm:"not null;index"`

	StartedAt   *time.Time
	EndedAt     *time.Time
	ManualHours *float64

	Note      string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName overrides the default table name.
func (TimeLog) TableName() string {
	return "time_logs"
}

// Hours returns the billable hours for the entry. Manual hours win when
// present; otherwise the start/end pair is used.
func (l *TimeLog) Hours() float64 {
	if l.ManualHours != nil {
		return *l.ManualHours
	}
	if l.StartedAt != nil && l.EndedAt != nil {
		return l.EndedAt.Sub(*l.StartedAt).Hours()
	}
	return 0
}

// MaterialLog records material used on a job, billed as quantity times unit price.
type MaterialLog struct {
	ID       int64 `gorm:"primaryKey;autoIncrement"`
	JobID    int64 `gorm:"not null;index"`
	WorkerID int64 `gorm:"not null;index"`

	Name           string  `gorm:"type:varchar(255);not null"`
	Quantity       float64 `gorm:"not null"`
	UnitPriceCents int64   `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
}

// TableName overrides the default table name.
func (MaterialLog) TableName() string {
	return "material_logs"
}

// TotalCents returns quantity times unit price, rounded to whole cents.
func (l *MaterialLog) TotalCents() int64 {
	return int64(l.Quantity*float64(l.UnitPriceCents) + 0.5)
}

// ExpenseLog records a flat expense incurred on a job.
type ExpenseLog struct {
	ID       int64 `gorm:"primaryKey;autoIncrement"`
	JobID    int64 `gorm:"not null;index"`
	WorkerID int64 `gorm:"not null;index"`

	Description string `gorm:"type:varchar(255);not null"`
	AmountCents int64  `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
}

// TableName overrides the default table name.
func (ExpenseLog) TableName() string {
	return "expense_logs"
}
