// internal/embedding/local.go
package embedding

import (
	"context"
	"hash/fnv"
	"strings"
)

const (
	// DefaultDimension matches the sentence-transformer family the scoring
	// thresholds were tuned against.
	DefaultDimension = 384

	localModelVersion = "local-hash-v1"

	// maxEncodeLength caps the text fed to an encoder; requirement and
	// profile blocks beyond this add no signal.
	maxEncodeLength = 4096
)

// LocalEncoder is a deterministic feature-hashing encoder: each token is
// hashed into a bucket with a sign, accumulated and L2-normalized. It needs
// no external model, produces bit-identical vectors for identical text, and
// gives overlapping texts a meaningfully positive cosine. It is both the
// default provider and the fallback when a remote model is unavailable.
type LocalEncoder struct {
	dimension int
}

func NewLocalEncoder(dimension int) *LocalEncoder {
	if dimension <= 0 {
		dimension = DefaultDimension
	}
	return &LocalEncoder{dimension: dimension}
}

func (e *LocalEncoder) ModelVersion() string { return localModelVersion }

func (e *LocalEncoder) Dimension() int { return e.dimension }

func (e *LocalEncoder) Encode(_ context.Context, text string) (Vector, error) {
	v := make(Vector, e.dimension)
	if len(text) > maxEncodeLength {
		text = text[:maxEncodeLength]
	}

	for _, token := range tokenize(text) {
		h := fnv.New64a()
		h.Write([]byte(token))
		sum := h.Sum64()

		bucket := int(sum % uint64(e.dimension))
		// One hash bit decides the sign, the rest the bucket. Keeps
		// collisions from always reinforcing each other.
		if sum&(1<<63) != 0 {
			v[bucket] -= 1
		} else {
			v[bucket] += 1
		}
	}

	v.normalize()
	return v, nil
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return false
		case r >= 'à' && r <= 'ÿ':
			return false
		}
		return true
	})
}
