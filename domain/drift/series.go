package drift

import (
	"fmt"
	"sort"

	"semdrift/domain/core"
)

// ExperimentRecord is the immutable input of every analysis: the original
// sentence and the round-tripped output text per injected noise level.
// Metric caches, when present, were produced by an earlier distance pass
// and are reused instead of recomputed.
type ExperimentRecord struct {
	ExperimentID     core.ExperimentID `json:"experiment_id,omitempty"`
	OriginalSentence string            `json:"original_sentence"`
	FinalOutputs     map[int]string    `json:"final_outputs"`

	// Optional precomputed metric caches keyed by noise level.
	SemanticDistances map[int]float64 `json:"semantic_distances,omitempty"`
	TextSimilarities  map[int]float64 `json:"text_similarities,omitempty"`
	WordOverlaps      map[int]float64 `json:"word_overlaps,omitempty"`
}

// NoiseLevels returns the observed noise levels in ascending order.
func (r *ExperimentRecord) NoiseLevels() []int {
	levels := make([]int, 0, len(r.FinalOutputs))
	for noise := range r.FinalOutputs {
		levels = append(levels, noise)
	}
	sort.Ints(levels)
	return levels
}

// Validate checks the structural invariants of an experiment record.
func (r *ExperimentRecord) Validate() error {
	if r.OriginalSentence == "" {
		return fmt.Errorf("original_sentence must not be empty")
	}
	if len(r.FinalOutputs) == 0 {
		return fmt.Errorf("final_outputs must contain at least one noise level")
	}
	for noise := range r.FinalOutputs {
		if noise < 0 || noise > 100 {
			return fmt.Errorf("noise level out of range [0,100]: %d", noise)
		}
	}
	return nil
}

// MetricSeries is an ordered mapping from noise level to a scalar metric.
// INVARIANTS:
// - Levels are unique and ascending
// - Every level has exactly one value; missing levels are reported, never interpolated
type MetricSeries struct {
	Name   string          `json:"name"`
	Levels []int           `json:"levels"`
	Values map[int]float64 `json:"values"`

	// MissingLevels lists levels present in the experiment but absent
	// from this metric.
	MissingLevels []int `json:"missing_levels,omitempty"`
}

// NewMetricSeries builds the series from a level->value mapping, ordering
// levels ascending. expected may be nil; when given, levels in expected
// but absent from values are recorded as missing.
func NewMetricSeries(name string, values map[int]float64, expected []int) MetricSeries {
	levels := make([]int, 0, len(values))
	for noise := range values {
		levels = append(levels, noise)
	}
	sort.Ints(levels)

	var missing []int
	for _, noise := range expected {
		if _, ok := values[noise]; !ok {
			missing = append(missing, noise)
		}
	}
	sort.Ints(missing)

	copied := make(map[int]float64, len(values))
	for noise, v := range values {
		copied[noise] = v
	}

	return MetricSeries{
		Name:          name,
		Levels:        levels,
		Values:        copied,
		MissingLevels: missing,
	}
}

// Len returns the number of observed levels.
func (s MetricSeries) Len() int {
	return len(s.Levels)
}

// Ordered returns the noise levels and values as two parallel slices in
// ascending noise order.
func (s MetricSeries) Ordered() ([]float64, []float64) {
	xs := make([]float64, len(s.Levels))
	ys := make([]float64, len(s.Levels))
	for i, noise := range s.Levels {
		xs[i] = float64(noise)
		ys[i] = s.Values[noise]
	}
	return xs, ys
}

// OrderedValues returns just the metric values in ascending noise order.
func (s MetricSeries) OrderedValues() []float64 {
	_, ys := s.Ordered()
	return ys
}

// At returns the value at a noise level.
func (s MetricSeries) At(noise int) (float64, bool) {
	v, ok := s.Values[noise]
	return v, ok
}
