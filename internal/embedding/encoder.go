// internal/embedding/encoder.go

// Package embedding turns normalized assessment text into fixed-dimension
// vectors and caches them content-addressed so identical text is never
// recomputed.
package embedding

import (
	"context"
	"math"
)

// Vector is a fixed-dimension embedding. Vectors handed out by the store are
// shared read-only between callers; never mutate one in place.
type Vector []float32

// IsZero reports whether every component is zero. Empty source text encodes
// to a zero vector by contract.
func (v Vector) IsZero() bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

// Norm returns the Euclidean length.
func (v Vector) Norm() float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// normalize scales v to unit length in place. Zero vectors stay zero.
func (v Vector) normalize() {
	n := v.Norm()
	if n == 0 {
		return
	}
	for i := range v {
		v[i] = float32(float64(v[i]) / n)
	}
}

// Encoder computes an embedding for one text. Implementations must be
// deterministic for a fixed ModelVersion: identical input text yields a
// bit-identical vector.
type Encoder interface {
	Encode(ctx context.Context, text string) (Vector, error)
	ModelVersion() string
	Dimension() int
}
