package entities

import "time"

// Staff represents a field worker identity.
type Staff struct {
	ID     int64  `gorm:"primaryKey;autoIncrement"`
	Name   string `gorm:"type:varchar(255);not null"`
	Email  string `gorm:"type:varchar(255);uniqueIndex"`
	Phone  string `gorm:"type:varchar(32)"`
	Active bool   `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time
}

// TableName overrides the default table name.
func (Staff) TableName() string {
	return "staff"
}

// StaffSkill associates a staff member with a skill at a proficiency level (1-5).
type StaffSkill struct {
	ID          int64 `gorm:"primaryKey;autoIncrement"`
	StaffID     int64 `gorm:"not null;index:idx_staff_skill,unique"`
	SkillID     int64 `gorm:"not null;index:idx_staff_skill,unique"`
	Proficiency int   `gorm:"not null;default:1;check:proficiency BETWEEN 1 AND 5"`

	CreatedAt time.Time `gorm:"not null"`
}

// TableName overrides the default table name.
func (StaffSkill) TableName() string {
	return "staff_skills"
}
