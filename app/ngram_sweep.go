package app

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"semdrift/domain/drift"
	"semdrift/internal/textmetrics"
)

// ngramRanges swept by the sensitivity check.
var ngramRanges = [][2]int{{1, 1}, {1, 2}, {1, 3}, {2, 3}}

// NGramRangeResult holds the mean semantic distance under one n-gram range.
type NGramRangeResult struct {
	Range        string  `json:"range"`
	MeanDistance float64 `json:"mean_distance"`
	StdDistance  float64 `json:"std_distance"`
}

// NGramSensitivity reports how stable the distance metric is across
// embedder n-gram configurations. A small spread means the reported drift
// is not an artifact of the tokenization choice.
type NGramSensitivity struct {
	Ranges             []NGramRangeResult `json:"ranges"`
	SpreadAcrossRanges float64            `json:"spread_across_ranges"`
}

// ngramSensitivity recomputes the mean original-to-output distance under
// each n-gram range.
func (s *AnalysisService) ngramSensitivity(record *drift.ExperimentRecord) (*NGramSensitivity, error) {
	levels := record.NoiseLevels()

	out := &NGramSensitivity{Ranges: make([]NGramRangeResult, 0, len(ngramRanges))}
	var means []float64
	for _, r := range ngramRanges {
		embedder := textmetrics.NewEmbedder()
		embedder.MaxFeatures = s.cfg.Analysis.MaxFeatures
		embedder.NGramMin = r[0]
		embedder.NGramMax = r[1]

		distances := make([]float64, 0, len(levels))
		for _, level := range levels {
			d, err := embedder.SemanticDistance(record.OriginalSentence, record.FinalOutputs[level])
			if err != nil {
				return nil, err
			}
			distances = append(distances, d)
		}

		mean, _ := stats.Mean(distances)
		std := 0.0
		if len(distances) > 1 {
			std, _ = stats.StandardDeviation(distances)
		}
		means = append(means, mean)
		out.Ranges = append(out.Ranges, NGramRangeResult{
			Range:        fmt.Sprintf("(%d,%d)", r[0], r[1]),
			MeanDistance: mean,
			StdDistance:  std,
		})
	}

	spread := 0.0
	if len(means) > 1 {
		spread, _ = stats.StandardDeviation(means)
	}
	out.SpreadAcrossRanges = spread
	return out, nil
}
