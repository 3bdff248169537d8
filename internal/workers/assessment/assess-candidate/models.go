// internal/workers/assessment/assess-candidate/models.go
package assesscandidate

import "assessment-workers/internal/models"

type Input struct {
	Candidate models.CandidateProfile `json:"candidate"`
	Job       models.JobRequirement   `json:"job"`

	// Method selects the aggregation strategy; empty means hybrid.
	Method string `json:"method,omitempty"`

	// Weights overrides the configured semantic weights for this run.
	Weights map[string]float64 `json:"weights,omitempty"`
}

// Output carries the full result plus the flat fields downstream process
// gateways branch on.
type Output struct {
	Result             *models.AssessmentResult `json:"assessmentResult"`
	TotalScore         float64                  `json:"totalScore"`
	QualificationLevel string                   `json:"qualificationLevel"`
	SemanticDegraded   bool                     `json:"semanticDegraded"`
}
