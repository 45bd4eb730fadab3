package textmetrics

import (
	"semdrift/domain/drift"
	"semdrift/internal/errors"
)

// Metric series names produced by the computer.
const (
	SeriesSemanticDistance = "semantic_distance"
	SeriesTextSimilarity   = "text_similarity"
	SeriesWordOverlap      = "word_overlap"
)

// Computer derives per-noise-level distance metrics for one experiment.
type Computer struct {
	embedder *Embedder
}

// NewComputer returns a computer backed by a fresh embedder.
func NewComputer() *Computer {
	return &Computer{embedder: NewEmbedder()}
}

// NewComputerWithEmbedder allows a caller-configured embedder.
func NewComputerWithEmbedder(e *Embedder) *Computer {
	return &Computer{embedder: e}
}

// MetricSet holds the three distance series for one experiment.
type MetricSet struct {
	SemanticDistance drift.MetricSeries `json:"semantic_distance"`
	TextSimilarity   drift.MetricSeries `json:"text_similarity"`
	WordOverlap      drift.MetricSeries `json:"word_overlap"`
}

// Compute builds the metric series for every noise level in the record.
// Precomputed values cached on the record are passed through unchanged;
// only missing levels are computed.
func (c *Computer) Compute(record *drift.ExperimentRecord) (*MetricSet, error) {
	if err := record.Validate(); err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, err)
	}

	levels := record.NoiseLevels()
	distances := make(map[int]float64, len(levels))
	similarities := make(map[int]float64, len(levels))
	overlaps := make(map[int]float64, len(levels))

	for _, level := range levels {
		output := record.FinalOutputs[level]

		if cached, ok := record.SemanticDistances[level]; ok {
			distances[level] = cached
		} else {
			d, err := c.embedder.SemanticDistance(record.OriginalSentence, output)
			if err != nil {
				return nil, errors.Wrapf(err, "semantic distance failed at noise level %d", level)
			}
			distances[level] = d
		}

		if cached, ok := record.TextSimilarities[level]; ok {
			similarities[level] = cached
		} else {
			similarities[level] = TextSimilarity(record.OriginalSentence, output)
		}

		if cached, ok := record.WordOverlaps[level]; ok {
			overlaps[level] = cached
		} else {
			overlaps[level] = WordOverlap(record.OriginalSentence, output)
		}
	}

	return &MetricSet{
		SemanticDistance: drift.NewMetricSeries(SeriesSemanticDistance, distances, levels),
		TextSimilarity:   drift.NewMetricSeries(SeriesTextSimilarity, similarities, levels),
		WordOverlap:      drift.NewMetricSeries(SeriesWordOverlap, overlaps, levels),
	}, nil
}
