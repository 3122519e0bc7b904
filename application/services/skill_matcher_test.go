package services

import (
	"testing"

	"crewdispatch/domain/entities"
	"github.com/stretchr/testify/assert"
)

func TestMapSkillCategoriesToServiceCategories(t *testing.T) {
	t.Run("widens trades into their service lines", func(t *testing.T) {
		got := MapSkillCategoriesToServiceCategories([]string{"plumbing"})
		assert.Equal(t, []string{"drainage", "plumbing"}, got)
	})

	t.Run("merges and deduplicates across trades", func(t *testing.T) {
		got := MapSkillCategoriesToServiceCategories([]string{"carpentry", "general"})
		assert.Equal(t, []string{"assembly", "carpentry", "handyman", "moving"}, got)
	})

	t.Run("unknown categories contribute nothing", func(t *testing.T) {
		got := MapSkillCategoriesToServiceCategories([]string{"astrology"})
		assert.Empty(t, got)
	})

	t.Run("empty input yields empty output", func(t *testing.T) {
		assert.Empty(t, MapSkillCategoriesToServiceCategories(nil))
	})

	t.Run("duplicate input categories do not duplicate output", func(t *testing.T) {
		got := MapSkillCategoriesToServiceCategories([]string{"hvac", "hvac"})
		assert.Equal(t, []string{"hvac"}, got)
	})
}

func TestBuildMatchReport(t *testing.T) {
	wiring := entities.Skill{ID: 1, Name: "wiring", Category: "electrical"}
	fuseWork := entities.Skill{ID: 2, Name: "fuse boxes", Category: "electrical"}
	smartHome := entities.Skill{ID: 3, Name: "smart home setup", Category: "electrical"}

	t.Run("fully qualified worker", func(t *testing.T) {
		report := BuildMatchReport(7, 10,
			[]entities.Skill{wiring, fuseWork},
			[]entities.Skill{wiring, fuseWork},
			[]entities.Skill{smartHome})

		assert.Equal(t, int64(7), report.StaffID)
		assert.Equal(t, int64(10), report.ServiceID)
		assert.True(t, report.FullyQualified())
		assert.Len(t, report.MatchedSkills, 2)
		assert.Empty(t, report.MissingSkills)
	})

	t.Run("missing mandatory skill disqualifies", func(t *testing.T) {
		report := BuildMatchReport(7, 10,
			[]entities.Skill{wiring},
			[]entities.Skill{wiring, fuseWork},
			nil)

		assert.False(t, report.FullyQualified())
		assert.Len(t, report.MatchedSkills, 1)
		assert.Len(t, report.MissingSkills, 1)
		assert.Equal(t, fuseWork.ID, report.MissingSkills[0].ID)
	})

	t.Run("held preferred skills count as matched", func(t *testing.T) {
		report := BuildMatchReport(7, 10,
			[]entities.Skill{wiring, smartHome},
			[]entities.Skill{wiring},
			[]entities.Skill{smartHome})

		assert.True(t, report.FullyQualified())
		assert.Len(t, report.MatchedSkills, 2)
	})

	t.Run("missing preferred skills never disqualify", func(t *testing.T) {
		report := BuildMatchReport(7, 10,
			[]entities.Skill{wiring},
			[]entities.Skill{wiring},
			[]entities.Skill{smartHome})

		assert.True(t, report.FullyQualified())
		assert.Len(t, report.MatchedSkills, 1)
	})

	t.Run("service without requirements matches anyone", func(t *testing.T) {
		report := BuildMatchReport(7, 10, nil, nil, nil)
		assert.True(t, report.FullyQualified())
	})
}
