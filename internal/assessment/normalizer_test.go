package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assessment-workers/internal/models"
)

func TestNormalizeCandidate_Structured(t *testing.T) {
	candidate := &models.CandidateProfile{
		Kind: models.ProfileKindStructured,
		Education: []models.EducationEntry{
			{Level: "Bachelor", Degree: "BS Accountancy", School: "State University",
				Honors: "Cum Laude", YearGraduated: 2018},
		},
		Experience: []models.ExperienceEntry{
			{Position: "Budget Officer", Company: "Provincial Office", Grade: "SG-11",
				Description: "prepared annual budgets", DateFrom: "2019-01", DateTo: "2023-06"},
		},
		Training: []models.TrainingEntry{
			{Title: "Government Accounting Seminar", Type: "Technical", Conductor: "COA", Hours: 16},
		},
	}

	blocks := NormalizeCandidate(candidate)
	require.Len(t, blocks, 3)

	edu := blocks[models.CategoryEducation]
	assert.Contains(t, edu.Display, "BS Accountancy")
	assert.Contains(t, edu.Display, "State University")
	assert.Contains(t, edu.Display, "Cum Laude")
	assert.Contains(t, edu.Display, "2018")
	assert.Equal(t, models.CategoryEducation, edu.Category)

	exp := blocks[models.CategoryExperience]
	assert.Contains(t, exp.Display, "Budget Officer")
	assert.Contains(t, exp.Display, "Provincial Office")
	assert.Contains(t, exp.Display, "prepared annual budgets")

	tr := blocks[models.CategoryTraining]
	assert.Contains(t, tr.Display, "Government Accounting Seminar")
	assert.Contains(t, tr.Display, "COA")
}

func TestNormalizeCandidate_MatchIsLowercased(t *testing.T) {
	candidate := &models.CandidateProfile{
		Kind:      models.ProfileKindStructured,
		Education: []models.EducationEntry{{Level: "Bachelor", Degree: "BS NURSING", School: "University"}},
	}

	blocks := NormalizeCandidate(candidate)
	edu := blocks[models.CategoryEducation]

	assert.Contains(t, edu.Display, "BS NURSING")
	assert.Contains(t, edu.Match, "bs nursing")
	assert.NotContains(t, edu.Match, "NURSING")
}

func TestNormalizeCandidate_Legacy(t *testing.T) {
	raw := "Ten years clerical work, vocational diploma, first aid training"
	candidate := &models.CandidateProfile{Kind: models.ProfileKindLegacy, RawText: raw}

	blocks := NormalizeCandidate(candidate)
	require.Len(t, blocks, 3)

	// Every semantic category matches against the whole blob.
	for _, cat := range models.SemanticCategories {
		assert.Equal(t, raw, blocks[cat].Display, "category %s", cat)
	}
}

func TestNormalizeCandidate_MissingSections(t *testing.T) {
	blocks := NormalizeCandidate(&models.CandidateProfile{Kind: models.ProfileKindStructured})
	require.Len(t, blocks, 3)

	for _, cat := range models.SemanticCategories {
		b, ok := blocks[cat]
		require.True(t, ok, "missing sections still get a block")
		assert.Empty(t, b.Display)
		assert.Empty(t, b.Match)
	}
}

func TestNormalizeCandidate_Nil(t *testing.T) {
	blocks := NormalizeCandidate(nil)
	require.Len(t, blocks, 3)
	for _, cat := range models.SemanticCategories {
		assert.Empty(t, blocks[cat].Display)
	}
}

func TestNormalizeJob_Structured(t *testing.T) {
	job := &models.JobRequirement{
		Kind:        models.JobKindStructured,
		Title:       "Nurse II",
		Education:   "Bachelor of Science in Nursing",
		Experience:  "One year of relevant experience",
		Training:    "Four hours of relevant training",
		Description: "Provides nursing care in a provincial hospital",
	}

	blocks := NormalizeJob(job)
	require.Len(t, blocks, 3)

	assert.Contains(t, blocks[models.CategoryEducation].Display, "Nursing")
	assert.Contains(t, blocks[models.CategoryExperience].Display, "One year")
	assert.Contains(t, blocks[models.CategoryTraining].Display, "Four hours")

	// The title anchors every category block.
	for _, cat := range models.SemanticCategories {
		assert.Contains(t, blocks[cat].Display, "Nurse II")
	}
}

func TestNormalizeJob_Legacy(t *testing.T) {
	job := &models.JobRequirement{
		Kind:        models.JobKindLegacy,
		Title:       "Utility Worker",
		Description: "General maintenance and grounds keeping",
	}

	blocks := NormalizeJob(job)
	for _, cat := range models.SemanticCategories {
		assert.Contains(t, blocks[cat].Display, "Utility Worker")
		assert.Contains(t, blocks[cat].Display, "grounds keeping")
	}
}

func TestCombinedText(t *testing.T) {
	blocks := map[models.Category]models.TextBlock{
		models.CategoryEducation:  {Category: models.CategoryEducation, Display: "BS Biology"},
		models.CategoryExperience: {Category: models.CategoryExperience, Display: ""},
		models.CategoryTraining:   {Category: models.CategoryTraining, Display: "Lab Safety"},
	}

	combined := CombinedText(blocks)
	assert.Equal(t, "BS Biology | Lab Safety", combined)

	assert.Empty(t, CombinedText(map[models.Category]models.TextBlock{}))
}
