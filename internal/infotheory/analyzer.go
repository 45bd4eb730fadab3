package infotheory

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"semdrift/domain/drift"
)

// NoiseLevelAnalysis bundles the information-theoretic metrics computed for
// every noise level of one experiment.
type NoiseLevelAnalysis struct {
	EntropyAnalysis   map[string]drift.EntropyResult           `json:"entropy_analysis"`
	MutualInformation map[string]drift.MutualInformationResult `json:"mutual_information"`
	KLDivergence      map[string]drift.KLDivergenceResult      `json:"kl_divergence"`
	Summary           NoiseLevelSummary                        `json:"summary"`
}

// NoiseLevelSummary aggregates across levels.
type NoiseLevelSummary struct {
	MeanNormalizedMI   float64 `json:"mean_normalized_mi"`
	StdNormalizedMI    float64 `json:"std_normalized_mi"`
	MeanJensenShannon  float64 `json:"mean_jensen_shannon"`
	StdJensenShannon   float64 `json:"std_jensen_shannon"`
	CorrelationNoiseMI float64 `json:"correlation_noise_mi"`
}

// AnalyzeNoiseLevels computes entropy, mutual information and divergence
// for the original sentence against each noise level's output, in ascending
// noise order.
func (e *Estimator) AnalyzeNoiseLevels(record *drift.ExperimentRecord) (*NoiseLevelAnalysis, error) {
	if err := record.Validate(); err != nil {
		return nil, err
	}

	analysis := &NoiseLevelAnalysis{
		EntropyAnalysis:   make(map[string]drift.EntropyResult),
		MutualInformation: make(map[string]drift.MutualInformationResult),
		KLDivergence:      make(map[string]drift.KLDivergenceResult),
	}

	analysis.EntropyAnalysis["original"] = e.Entropy(record.OriginalSentence, LevelWord)

	var miValues, jsValues []float64
	for _, level := range record.NoiseLevels() {
		key := fmt.Sprintf("noise_%d", level)
		output := record.FinalOutputs[level]

		analysis.EntropyAnalysis[key] = e.Entropy(output, LevelWord)

		mi := e.MutualInformation(record.OriginalSentence, output, "original", key)
		analysis.MutualInformation[key] = mi
		miValues = append(miValues, mi.NormalizedMI)

		kl := e.KLDivergence(record.OriginalSentence, output, "original", key)
		analysis.KLDivergence[key] = kl
		jsValues = append(jsValues, kl.JensenShannon)
	}

	analysis.Summary = summarize(miValues, jsValues)
	return analysis, nil
}

func summarize(miValues, jsValues []float64) NoiseLevelSummary {
	var s NoiseLevelSummary
	if len(miValues) > 0 {
		s.MeanNormalizedMI, _ = stats.Mean(miValues)
		s.StdNormalizedMI, _ = stats.StandardDeviation(miValues)
	}
	if len(jsValues) > 0 {
		s.MeanJensenShannon, _ = stats.Mean(jsValues)
		s.StdJensenShannon, _ = stats.StandardDeviation(jsValues)
	}
	if len(miValues) > 1 {
		index := make([]float64, len(miValues))
		for i := range index {
			index[i] = float64(i)
		}
		if r, err := stats.Pearson(index, miValues); err == nil {
			s.CorrelationNoiseMI = r
		}
	}
	return s
}
