package textmetrics

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"semdrift/internal/errors"
)

// CosineDistance returns 1 minus the cosine similarity of two vectors.
// Ranges from 0 (identical direction) through 1 (orthogonal) to 2
// (opposite). Zero vectors have similarity 0, so the distance is 1.
func CosineDistance(vec1, vec2 []float64) (float64, error) {
	if len(vec1) != len(vec2) {
		return 0, errors.DimensionMismatch(
			fmt.Sprintf("vector dimensions mismatch: %d != %d", len(vec1), len(vec2)))
	}
	if len(vec1) == 0 {
		return 0, errors.InvalidInput("vectors must not be empty")
	}

	norm1 := floats.Norm(vec1, 2)
	norm2 := floats.Norm(vec2, 2)
	if norm1 == 0 || norm2 == 0 {
		return 1, nil
	}
	similarity := floats.Dot(vec1, vec2) / (norm1 * norm2)
	return 1 - similarity, nil
}

// SemanticDistance embeds two texts against each other and returns their
// cosine distance.
func (e *Embedder) SemanticDistance(text1, text2 string) (float64, error) {
	vectors, err := e.FitTransform([]string{text1, text2})
	if err != nil {
		return 0, errors.Wrap(err, "semantic distance embedding failed")
	}
	return CosineDistance(vectors[0], vectors[1])
}
