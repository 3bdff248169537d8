// internal/assessment/comparison.go
package assessment

import (
	"fmt"
	"math"

	"assessment-workers/internal/common/errors"
	"assessment-workers/internal/models"
)

// Difference category boundaries, in points of total score.
const (
	similarBand   = 5.0
	divergentBand = 10.0
)

// Compare diffs two assessment results for the same candidate and job, read
// as "B relative to A". It is a pure function of its inputs: no embedding
// work, no I/O. Category deltas are on the component scale, where a
// semantic component carries its category weight times the nominal maximum;
// the total delta stays on the total-score scale.
func Compare(a, b *models.AssessmentResult, materiality float64) (*models.ComparisonReport, error) {
	if a == nil || b == nil {
		return nil, errors.NewComparisonError("two results are required")
	}
	if a.CandidateID != b.CandidateID || a.JobID != b.JobID {
		return nil, errors.NewComparisonError(fmt.Sprintf(
			"results refer to different subjects: %s/%s vs %s/%s",
			a.CandidateID, a.JobID, b.CandidateID, b.JobID))
	}

	report := &models.ComparisonReport{
		CandidateID: a.CandidateID,
		JobID:       a.JobID,
		MethodA:     a.Method,
		MethodB:     b.Method,
		TotalDelta:  b.Total - a.Total,
	}

	for _, cat := range allCategories() {
		sa, oka := categoryScore(a, cat)
		sb, okb := categoryScore(b, cat)
		if !oka && !okb {
			continue
		}
		delta := models.CategoryDelta{
			Category: cat,
			ScoreA:   sa,
			ScoreB:   sb,
			Delta:    sb - sa,
		}
		report.CategoryDeltas = append(report.CategoryDeltas, delta)

		if delta.Delta >= materiality {
			report.Advantages = append(report.Advantages,
				fmt.Sprintf("%s: +%.1f under %s", cat, delta.Delta, b.Method))
		}
	}

	report.DifferenceCategory = classifyDifference(report.TotalDelta)
	return report, nil
}

func classifyDifference(totalDelta float64) string {
	switch {
	case math.Abs(totalDelta) < similarBand:
		return "similar"
	case totalDelta > divergentBand:
		return "semantic_higher"
	case totalDelta < -divergentBand:
		return "traditional_higher"
	default:
		return "moderate_difference"
	}
}

// categoryScore sums every component recorded for a category, rule and
// semantic alike. Rule components are identical across methods for the same
// inputs, so the per-category deltas between a traditional and a
// semantic-bearing run expose exactly where the semantic signal moved the
// assessment. The second value is false when neither source scored the
// category.
func categoryScore(r *models.AssessmentResult, cat models.Category) (float64, bool) {
	var sum float64
	found := false
	for i := range r.Components {
		if r.Components[i].Category == cat {
			sum += r.Components[i].Value
			found = true
		}
	}
	return sum, found
}

func allCategories() []models.Category {
	return []models.Category{
		models.CategoryEducation,
		models.CategoryExperience,
		models.CategoryTraining,
		models.CategoryEligibility,
		models.CategoryPotential,
		models.CategoryPerformance,
	}
}
