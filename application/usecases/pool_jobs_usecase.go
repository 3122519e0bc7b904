// Package usecases contains application use cases that orchestrate business logic.
// It implements the pool, claim/assign, job request, work log, invoice, and
// trash operations of the dispatch engine.
package usecases

import (
	"context"

	"crewdispatch/application/services"
	"crewdispatch/domain/errors"
	"crewdispatch/domain/interfaces"
)

// poolJobsUseCase implements the PoolJobsUseCase interface.
type poolJobsUseCase struct {
	jobRepository     interfaces.JobRepository
	staffRepository   interfaces.StaffRepository
	catalogRepository interfaces.CatalogRepository
	logger            interfaces.Logger
}

// NewPoolJobsUseCase creates a new pool jobs use case.
func NewPoolJobsUseCase(
	jobRepository interfaces.JobRepository,
	staffRepository interfaces.StaffRepository,
	catalogRepository interfaces.CatalogRepository,
	logger interfaces.Logger,
) interfaces.PoolJobsUseCase {
	return &poolJobsUseCase{
		jobRepository:     jobRepository,
		staffRepository:   staffRepository,
		catalogRepository: catalogRepository,
		logger:            logger,
	}
}

// Execute returns the pool jobs the worker is eligible to claim, newest first.
func (uc *poolJobsUseCase) Execute(
	ctx context.Context,
	params interfaces.PoolJobsParams,
) (*interfaces.PoolJobsResult, error) {
	if params.WorkerID <= 0 {
		validationErr := &errors.ValidationError{}
		validationErr.AddFieldError("worker_id", "worker id must be positive")
		return nil, validationErr
	}

	staff, err := uc.staffRepository.FindByID(ctx, params.WorkerID)
	if err != nil {
		return nil, err
	}

	skills, err := uc.staffRepository.SkillsFor(ctx, staff.ID)
	if err != nil {
		return nil, err
	}

	// Workers without registered skills see the whole pool. Absence of
	// skill data must never hide work.
	if len(skills) == 0 {
		jobs, err := uc.jobRepository.FindPoolJobs(ctx)
		if err != nil {
			return nil, err
		}
		uc.logger.Debug("Pool listing without skill filter",
			"worker", staff.ID,
			"jobs", len(jobs))
		return &interfaces.PoolJobsResult{Jobs: jobs, MatchedAll: true}, nil
	}

	categories := make([]string, 0, len(skills))
	seen := make(map[string]struct{})
	for _, s := range skills {
		if _, ok := seen[s.Category]; ok {
			continue
		}
		seen[s.Category] = struct{}{}
		categories = append(categories, s.Category)
	}

	serviceCategories := services.MapSkillCategoriesToServiceCategories(categories)

	eligible, err := uc.catalogRepository.FindServicesByCategories(ctx, serviceCategories)
	if err != nil {
		return nil, err
	}

	serviceIDs := make([]int64, 0, len(eligible))
	for _, svc := range eligible {
		serviceIDs = append(serviceIDs, svc.ID)
	}

	// Jobs with no service key predate skill matching and stay visible to
	// everyone; the repository includes them alongside the eligible set.
	jobs, err := uc.jobRepository.FindPoolJobsByServices(ctx, serviceIDs)
	if err != nil {
		return nil, err
	}

	uc.logger.Debug("Pool listing with skill filter",
		"worker", staff.ID,
		"skillCategories", len(categories),
		"eligibleServices", len(serviceIDs),
		"jobs", len(jobs))

	return &interfaces.PoolJobsResult{Jobs: jobs}, nil
}
