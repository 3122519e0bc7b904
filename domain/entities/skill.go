package entities

import "time"

// Skill is a named capability with a category tag, e.g. "pipe fitting" in
// category "plumbing". Workers are matched against jobs via the category,
// never against individual skills.
type Skill struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	Name     string `gorm:"type:varchar(128);not null"`
	Category string `gorm:"type:varchar(64);not null;index"`

	CreatedAt time.Time `gorm:"not null"`
}

// TableName overrides the default table name.
func (Skill) TableName() string {
	return "skills"
}

// Service is a sellable service offering, e.g. "plumbing-install".
type Service struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	Name     string `gorm:"type:varchar(128);not null"`
	Category string `gorm:"type:varchar(64);not null;index"`

	CreatedAt time.Time `gorm:"not null"`
}

// TableName overrides the default table name.
func (Service) TableName() string {
	return "services"
}

// ServiceSkillRequirement declares a skill a service calls for. Mandatory
// requirements drive the mismatch flag on admin assigns; preferred ones are
// informational.
type ServiceSkillRequirement struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	ServiceID int64 `gorm:"not null;index:idx_service_skill,unique"`
	SkillID   int64 `gorm:"not null;index:idx_service_skill,unique"`
	Mandatory bool  `gorm:"not null;default:false"`
}

// TableName overrides the default table name.
func (ServiceSkillRequirement) TableName() string {
	return "service_skill_requirements"
}

// SkillMatchReport describes, for one candidate worker against one service,
// which required skills they hold and which they lack. It is presentation
// data: an under-qualified candidate may still be selected.
type SkillMatchReport struct {
	StaffID       int64
	ServiceID     int64
	MatchedSkills []Skill
	MissingSkills []Skill
}

// FullyQualified reports whether every mandatory skill is covered.
func (r *SkillMatchReport) FullyQualified() bool {
	return len(r.MissingSkills) == 0
}
