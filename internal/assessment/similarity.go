// internal/assessment/similarity.go
package assessment

import (
	"math"

	"assessment-workers/internal/embedding"
)

// Cosine returns the cosine similarity of a and b clamped to [0,1]. A zero
// vector on either side (empty source text) yields 0 by definition, never
// NaN. Negative cosine is clamped to 0 rather than affine-mapped so that the
// zero-vector contract and self-similarity == 1 hold at the same time.
func Cosine(a, b embedding.Vector) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}

// ApplyThreshold floors similarities below the relevance threshold to
// exactly 0: weak matches are suppressed entirely instead of contributing
// small positive noise.
func ApplyThreshold(sim, threshold float64) float64 {
	if sim < threshold {
		return 0
	}
	return sim
}
