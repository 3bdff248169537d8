// internal/workers/assessment/compare-assessments/models.go
package compareassessments

import "assessment-workers/internal/models"

// Input either supplies two previously computed results, or a candidate and
// job to score under both methods before diffing.
type Input struct {
	ResultA *models.AssessmentResult `json:"resultA,omitempty"`
	ResultB *models.AssessmentResult `json:"resultB,omitempty"`

	Candidate *models.CandidateProfile `json:"candidate,omitempty"`
	Job       *models.JobRequirement   `json:"job,omitempty"`
}

type Output struct {
	Report *models.ComparisonReport `json:"comparisonReport"`

	TraditionalTotal float64 `json:"traditionalTotal"`
	HybridTotal      float64 `json:"hybridTotal"`

	// DifferenceCategory is lifted out of the report for process gateways.
	DifferenceCategory string `json:"differenceCategory"`
}
