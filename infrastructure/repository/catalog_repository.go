package repository

import (
	"context"
	"fmt"

	"crewdispatch/domain/entities"
	"crewdispatch/domain/errors"
	"crewdispatch/domain/interfaces"
	"gorm.io/gorm"
)

// catalogRepository implements the CatalogRepository interface.
type catalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository creates a new catalog repository.
func NewCatalogRepository(db *gorm.DB) interfaces.CatalogRepository {
	return &catalogRepository{db: db}
}

// FindServiceByID finds a service by ID.
func (r *catalogRepository) FindServiceByID(ctx context.Context, id int64) (*entities.Service, error) {
	var service entities.Service

	err := r.db.WithContext(ctx).First(&service, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError(fmt.Sprintf("service with id %d not found", id))
		}
		return nil, &errors.RepositoryError{
			Operation: "FindServiceByID",
			Entity:    "Service",
			Err:       err,
		}
	}

	return &service, nil
}

// FindServicesByCategories returns the services in any of the given categories.
func (r *catalogRepository) FindServicesByCategories(
	ctx context.Context,
	categories []string,
) ([]entities.Service, error) {
	if len(categories) == 0 {
		return nil, nil
	}

	var services []entities.Service
	err := r.db.WithContext(ctx).
		Where("category IN ?", categories).
		Order("id ASC").
		Find(&services).Error
	if err != nil {
		return nil, &errors.RepositoryError{
			Operation: "FindServicesByCategories",
			Entity:    "Service",
			Err:       err,
		}
	}

	return services, nil
}

// RequiredSkillsFor returns the skills a service declares, split by the
// mandatory flag.
func (r *catalogRepository) RequiredSkillsFor(
	ctx context.Context,
	serviceID int64,
) (mandatory, preferred []entities.Skill, err error) {
	type requiredSkill struct {
		entities.Skill
		Mandatory bool
	}

	var rows []requiredSkill
	err = r.db.WithContext(ctx).
		Model(&entities.Skill{}).
		Select("skills.*, service_skill_requirements.mandatory").
		Joins("JOIN service_skill_requirements ON service_skill_requirements.skill_id = skills.id").
		Where("service_skill_requirements.service_id = ?", serviceID).
		Order("skills.id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, nil, &errors.RepositoryError{
			Operation: "RequiredSkillsFor",
			Entity:    "Service",
			Err:       err,
		}
	}

	for _, row := range rows {
		if row.Mandatory {
			mandatory = append(mandatory, row.Skill)
		} else {
			preferred = append(preferred, row.Skill)
		}
	}

	return mandatory, preferred, nil
}
