package repository

import (
	"context"
	"fmt"

	"crewdispatch/domain/entities"
	"crewdispatch/domain/errors"
	"crewdispatch/domain/interfaces"
	"gorm.io/gorm"
)

// staffRepository implements the StaffRepository interface.
type staffRepository struct {
	db *gorm.DB
}

// NewStaffRepository creates a new staff repository.
func NewStaffRepository(db *gorm.DB) interfaces.StaffRepository {
	return &staffRepository{db: db}
}

// FindByID finds a staff member by ID.
func (r *staffRepository) FindByID(ctx context.Context, id int64) (*entities.Staff, error) {
	var staff entities.Staff

	err := r.db.WithContext(ctx).First(&staff, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError(fmt.Sprintf("staff member with id %d not found", id))
		}
		return nil, &errors.RepositoryError{
			Operation: "FindByID",
			Entity:    "Staff",
			Err:       err,
		}
	}

	return &staff, nil
}

// FindActive returns all active staff members.
func (r *staffRepository) FindActive(ctx context.Context) ([]entities.Staff, error) {
	var staff []entities.Staff

	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("name ASC, id ASC").
		Find(&staff).Error
	if err != nil {
		return nil, &errors.RepositoryError{
			Operation: "FindActive",
			Entity:    "Staff",
			Err:       err,
		}
	}

	return staff, nil
}

// SkillsFor returns the skills registered for a staff member.
func (r *staffRepository) SkillsFor(ctx context.Context, staffID int64) ([]entities.Skill, error) {
	var skills []entities.Skill

	err := r.db.WithContext(ctx).
		Joins("JOIN staff_skills ON staff_skills.skill_id = skills.id").
		Where("staff_skills.staff_id = ?", staffID).
		Order("skills.id ASC").
		Find(&skills).Error
	if err != nil {
		return nil, &errors.RepositoryError{
			Operation: "SkillsFor",
			Entity:    "Staff",
			Err:       err,
		}
	}

	return skills, nil
}
