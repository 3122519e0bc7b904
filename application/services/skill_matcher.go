// Package services contains pure domain services used by the use cases.
package services

import (
	"sort"

	"crewdispatch/domain/entities"
)

// skillToServiceCategories widens a worker's raw skill categories into the
// service categories they qualify for. The two taxonomies are parallel but
// not identical: one trade can cover several service lines.
var skillToServiceCategories = map[string][]string{
	"electrical": {"electrical", "smart_home"},
	"plumbing":   {"plumbing", "drainage"},
	"carpentry":  {"carpentry", "assembly"},
	"painting":   {"painting", "wallpapering"},
	"cleaning":   {"cleaning", "deep_cleaning"},
	"gardening":  {"gardening", "landscaping"},
	"hvac":       {"hvac"},
	"general":    {"assembly", "moving", "handyman"},
}

// MapSkillCategoriesToServiceCategories maps a set of skill categories to
// the set of service categories they qualify a worker for. Pure and total:
// unknown categories contribute nothing, and the result is sorted and
// deduplicated.
func MapSkillCategoriesToServiceCategories(categories []string) []string {
	seen := make(map[string]struct{})
	for _, c := range categories {
		for _, sc := range skillToServiceCategories[c] {
			seen[sc] = struct{}{}
		}
	}

	result := make([]string, 0, len(seen))
	for sc := range seen {
		result = append(result, sc)
	}
	sort.Strings(result)
	return result
}

// BuildMatchReport computes which of a service's required skills a staff
// member holds and which mandatory ones they lack. Preferred skills count
// toward the matched list but never toward the missing one: the report is a
// soft warning, not an enforcement gate.
func BuildMatchReport(
	staffID, serviceID int64,
	staffSkills []entities.Skill,
	mandatory, preferred []entities.Skill,
) entities.SkillMatchReport {
	held := make(map[int64]struct{}, len(staffSkills))
	for _, s := range staffSkills {
		held[s.ID] = struct{}{}
	}

	report := entities.SkillMatchReport{
		StaffID:   staffID,
		ServiceID: serviceID,
	}

	for _, s := range mandatory {
		if _, ok := held[s.ID]; ok {
			report.MatchedSkills = append(report.MatchedSkills, s)
		} else {
			report.MissingSkills = append(report.MissingSkills, s)
		}
	}
	for _, s := range preferred {
		if _, ok := held[s.ID]; ok {
			report.MatchedSkills = append(report.MatchedSkills, s)
		}
	}

	return report
}
