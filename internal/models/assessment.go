// internal/models/assessment.go
package models

import (
	"math"
	"time"
)

// Category names a scoring component. The rule-based scorer covers all six;
// the semantic path covers education, experience and training only.
type Category string

const (
	CategoryEducation   Category = "education"
	CategoryExperience  Category = "experience"
	CategoryTraining    Category = "training"
	CategoryEligibility Category = "eligibility"
	CategoryPotential   Category = "potential"
	CategoryPerformance Category = "performance"
)

// SemanticCategories are the categories with a free-text representation on
// both the candidate and the job side.
var SemanticCategories = []Category{CategoryEducation, CategoryExperience, CategoryTraining}

// ScoreSource tags which scoring path produced a component.
type ScoreSource string

const (
	SourceRule     ScoreSource = "rule"
	SourceSemantic ScoreSource = "semantic"
)

// Method selects the aggregation strategy for an assessment run.
type Method string

const (
	MethodTraditionalOnly Method = "traditional_only"
	MethodSemanticOnly    Method = "semantic_only"
	MethodHybrid          Method = "hybrid"
)

// TextBlock is a category-tagged slice of profile or requirement text.
// Display keeps the original casing; Match is the lower-cased form used for
// embedding and keyword comparison.
type TextBlock struct {
	Category Category `json:"category"`
	Display  string   `json:"display"`
	Match    string   `json:"match"`
}

// ComponentScore is one category's contribution to a result.
type ComponentScore struct {
	Category  Category    `json:"category"`
	Value     float64     `json:"value"`
	Max       float64     `json:"max"`
	Source    ScoreSource `json:"source"`
	Rationale string      `json:"rationale,omitempty"`
}

// AssessmentResult is the terminal value of one assessment run. A new run
// produces a new result; results are never mutated after creation.
type AssessmentResult struct {
	ID          string `json:"id"`
	CandidateID string `json:"candidateId"`
	JobID       string `json:"jobId"`
	Method      Method `json:"method"`

	Components       []ComponentScore `json:"components"`
	RuleSubtotal     float64          `json:"ruleSubtotal"`
	SemanticSubtotal float64          `json:"semanticSubtotal"`
	Total            float64          `json:"total"`

	QualificationLevel string `json:"qualificationLevel"`

	// SemanticDegraded is set when the semantic path failed entirely and the
	// result fell back to rule-based scoring. It distinguishes "semantic
	// unavailable" from a genuine semantic score of zero.
	SemanticDegraded  bool   `json:"semanticDegraded,omitempty"`
	DegradationReason string `json:"degradationReason,omitempty"`

	AssessedAt time.Time `json:"assessedAt"`
}

// Component returns the named component score, or nil when absent.
func (r *AssessmentResult) Component(c Category) *ComponentScore {
	for i := range r.Components {
		if r.Components[i].Category == c {
			return &r.Components[i]
		}
	}
	return nil
}

// ScoringWeights maps categories to weight fractions. Weights for a scoring
// method must sum to 1.0 within tolerance.
type ScoringWeights map[Category]float64

// Sum returns the total of all weight fractions.
func (w ScoringWeights) Sum() float64 {
	var total float64
	for _, v := range w {
		total += v
	}
	return total
}

// SumsToOne reports whether the weights total 1.0 within tolerance.
func (w ScoringWeights) SumsToOne(tolerance float64) bool {
	return math.Abs(w.Sum()-1.0) <= tolerance
}

// CategoryDelta is the per-category difference between two results,
// computed as B minus A.
type CategoryDelta struct {
	Category Category `json:"category"`
	ScoreA   float64  `json:"scoreA"`
	ScoreB   float64  `json:"scoreB"`
	Delta    float64  `json:"delta"`
}

// ComparisonReport diffs two assessment results for the same candidate and
// job computed under different methods.
type ComparisonReport struct {
	CandidateID string `json:"candidateId"`
	JobID       string `json:"jobId"`
	MethodA     Method `json:"methodA"`
	MethodB     Method `json:"methodB"`

	CategoryDeltas []CategoryDelta `json:"categoryDeltas"`
	TotalDelta     float64         `json:"totalDelta"`

	// DifferenceCategory labels the overall delta: "similar",
	// "semantic_higher", "traditional_higher" or "moderate_difference".
	DifferenceCategory string `json:"differenceCategory"`

	// Advantages lists categories where method B moved the score by at
	// least the materiality threshold.
	Advantages []string `json:"advantages,omitempty"`
}
