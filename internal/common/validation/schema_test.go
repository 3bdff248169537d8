package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"assessment-workers/internal/models"
)

func TestValidateCandidate_Structured(t *testing.T) {
	candidate := models.CandidateProfile{
		ID:   "c-1",
		Name: "Test Candidate",
		Kind: models.ProfileKindStructured,
		Education: []models.EducationEntry{
			{Level: "bachelor", Degree: "BS Office Administration", School: "State University"},
		},
		Experience: []models.ExperienceEntry{
			{Position: "Administrative Aide", Years: 3},
		},
	}

	assert.NoError(t, ValidateCandidate(candidate))
}

func TestValidateCandidate_LegacyProfileWithoutSections(t *testing.T) {
	// Legacy records carry only free text; every structured section is nil.
	// The schema must treat missing sections as absent, not malformed.
	candidate := models.CandidateProfile{
		ID:      "c-legacy",
		Kind:    models.ProfileKindLegacy,
		RawText: "Administrative assistant for six years, handled records and correspondence",
	}

	assert.NoError(t, ValidateCandidate(candidate))
}

func TestValidateCandidate_ExplicitNullSections(t *testing.T) {
	// Extraction collaborators may serialize absent sections as explicit
	// nulls rather than dropping the keys.
	payload := map[string]interface{}{
		"id":          "c-2",
		"kind":        "structured",
		"education":   nil,
		"experience":  nil,
		"training":    nil,
		"eligibility": nil,
	}

	assert.NoError(t, Validate(payload, CandidateProfileSchema))
}

func TestValidateCandidate_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p map[string]interface{})
	}{
		{
			name:   "missing id",
			mutate: func(p map[string]interface{}) { delete(p, "id") },
		},
		{
			name:   "empty id",
			mutate: func(p map[string]interface{}) { p["id"] = "" },
		},
		{
			name:   "unknown kind",
			mutate: func(p map[string]interface{}) { p["kind"] = "scanned" },
		},
		{
			name:   "education is not a list",
			mutate: func(p map[string]interface{}) { p["education"] = "BS Biology" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := map[string]interface{}{
				"id":   "c-1",
				"kind": "structured",
			}
			tt.mutate(payload)
			assert.Error(t, Validate(payload, CandidateProfileSchema))
		})
	}
}

func TestValidateJob_LegacyPostingWithoutKeywords(t *testing.T) {
	job := models.JobRequirement{
		ID:          "j-legacy",
		Title:       "Clerk II",
		Kind:        models.JobKindLegacy,
		Description: "General clerical work, records keeping and correspondence",
	}

	assert.NoError(t, ValidateJob(job))
}

func TestValidateJob_Invalid(t *testing.T) {
	assert.Error(t, Validate(map[string]interface{}{"title": "No ID"}, JobRequirementSchema))
	assert.Error(t, Validate(map[string]interface{}{
		"id":            "j-1",
		"requiredYears": -2,
	}, JobRequirementSchema))
}
