// internal/workers/assessment/batch-assess-candidates/models.go
package batchassess

import "assessment-workers/internal/models"

type Input struct {
	Candidates []models.CandidateProfile `json:"candidates"`
	Job        models.JobRequirement     `json:"job"`
	Method     string                    `json:"method,omitempty"`
}

// ItemResult is one candidate's outcome inside a batch. Error and ErrorCode
// are set when that candidate failed; the rest of the batch is unaffected.
// ErrorCode uses the same taxonomy the single-assessment worker throws,
// PARSE_ERROR for a rejected payload, ASSESSMENT_FAILED otherwise.
type ItemResult struct {
	CandidateID        string                   `json:"candidateId"`
	Result             *models.AssessmentResult `json:"result,omitempty"`
	TotalScore         float64                  `json:"totalScore"`
	QualificationLevel string                   `json:"qualificationLevel,omitempty"`
	Error              string                   `json:"error,omitempty"`
	ErrorCode          string                   `json:"errorCode,omitempty"`
}

// Statistics summarizes a batch for ranking and reporting steps downstream.
type Statistics struct {
	Assessed int     `json:"assessed"`
	Failed   int     `json:"failed"`
	Mean     float64 `json:"mean"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`

	// Levels counts results per qualification level.
	Levels map[string]int `json:"levels"`
}

type Output struct {
	Results    []ItemResult `json:"results"`
	Statistics Statistics   `json:"statistics"`
}
