// internal/assessment/semantic.go
package assessment

import (
	"context"

	"assessment-workers/internal/common/logger"
	"assessment-workers/internal/embedding"
	"assessment-workers/internal/models"
)

// semanticSignals is the raw output of the semantic path before weighting:
// thresholded per-category similarities plus the whole-profile overall fit.
type semanticSignals struct {
	perCategory map[models.Category]float64
	overall     float64

	// failed lists categories whose embedding computation errored; their
	// similarity is zero but the zero is not a real signal.
	failed []models.Category

	// overallFailed marks an errored overall-fit comparison. It never
	// affects degradation on its own.
	overallFailed bool
}

// allFailed reports total semantic failure: every named category lost its
// signal. A surviving overall-fit comparison cannot keep the run semantic
// when no category has a usable similarity.
func (s semanticSignals) allFailed() bool {
	return len(s.failed) == len(models.SemanticCategories)
}

// scoreSemantic compares each candidate category block against the matching
// job requirement block. An encoding failure zeroes that category and is
// recorded; it never aborts the assessment.
func scoreSemantic(
	ctx context.Context,
	store *embedding.Store,
	candidateBlocks, jobBlocks map[models.Category]models.TextBlock,
	threshold float64,
	log logger.Logger,
) semanticSignals {
	signals := semanticSignals{perCategory: make(map[models.Category]float64, len(models.SemanticCategories))}

	for _, cat := range models.SemanticCategories {
		sim, err := blockSimilarity(ctx, store, candidateBlocks[cat], jobBlocks[cat])
		if err != nil {
			log.Warn("semantic scoring failed for category", map[string]interface{}{
				"category": cat,
				"error":    err,
			})
			signals.perCategory[cat] = 0
			signals.failed = append(signals.failed, cat)
			continue
		}
		signals.perCategory[cat] = ApplyThreshold(sim, threshold)
	}

	overall, err := textSimilarity(ctx, store, CombinedText(candidateBlocks), CombinedText(jobBlocks))
	if err != nil {
		log.Warn("overall-fit similarity failed", map[string]interface{}{"error": err})
		signals.overallFailed = true
	} else {
		signals.overall = ApplyThreshold(overall, threshold)
	}

	return signals
}

func blockSimilarity(ctx context.Context, store *embedding.Store, a, b models.TextBlock) (float64, error) {
	return textSimilarity(ctx, store, a.Match, b.Match)
}

func textSimilarity(ctx context.Context, store *embedding.Store, a, b string) (float64, error) {
	// Empty text on either side means no signal; skip the encoder entirely.
	if a == "" || b == "" {
		return 0, nil
	}

	va, err := store.Encode(ctx, a)
	if err != nil {
		return 0, err
	}
	vb, err := store.Encode(ctx, b)
	if err != nil {
		return 0, err
	}
	return Cosine(va, vb), nil
}

// composite folds the per-category similarities and the overall-fit bonus
// into one [0,1] value using the semantic weights.
func composite(signals semanticSignals, weights models.ScoringWeights, overallFitWeight float64) float64 {
	var sum float64
	for cat, w := range weights {
		sum += signals.perCategory[cat] * w
	}
	sum += signals.overall * overallFitWeight
	if sum > 1 {
		sum = 1
	}
	return sum
}
