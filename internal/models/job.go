// internal/models/job.go
package models

// JobKind mirrors ProfileKind for job postings: structured postings carry
// per-category requirement blocks, legacy ones a single description blob.
type JobKind string

const (
	JobKindStructured JobKind = "structured"
	JobKindLegacy     JobKind = "legacy"
)

// JobRequirement describes the position a candidate is assessed against.
// Immutable once an assessment run starts; the engine only reads it.
type JobRequirement struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Department string  `json:"department,omitempty"`
	Kind       JobKind `json:"kind,omitempty"`

	// Free-text requirement blocks, one per semantic category.
	Education  string `json:"education,omitempty"`
	Experience string `json:"experience,omitempty"`
	Training   string `json:"training,omitempty"`

	// Description is the full posting text, the only requirement source for
	// legacy postings.
	Description string `json:"description,omitempty"`

	// RequiredLevel is the minimum degree level ("bachelor", "master",
	// "doctorate", ...) used by rule-based education scoring.
	RequiredLevel string `json:"requiredLevel,omitempty"`

	// RequiredYears of relevant experience for full experience credit.
	RequiredYears float64 `json:"requiredYears,omitempty"`

	// Keywords mark an experience or training entry as relevant to the role.
	Keywords []string `json:"keywords,omitempty"`

	// WeightOverrides replaces the configured semantic category weights for
	// this job. When present it must sum to 1.0 or assessment setup fails.
	WeightOverrides ScoringWeights `json:"weightOverrides,omitempty"`
}
