package infotheory

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"semdrift/domain/drift"
)

// BottleneckAnalysis evaluates a translation chain as an information
// bottleneck: how aggressively intermediate representations compress the
// original, and how much relevant information survives to the final output.
func (e *Estimator) BottleneckAnalysis(original string, intermediates []string, final string) drift.InformationBottleneckResult {
	relevanceMI := e.MutualInformation(original, final, "original", "final").MutualInformation

	compressionMIs := make([]float64, 0, len(intermediates))
	for i, intermediate := range intermediates {
		mi := e.MutualInformation(original, intermediate, "original",
			fmt.Sprintf("intermediate_%d", i)).MutualInformation
		compressionMIs = append(compressionMIs, mi)
	}

	hX := e.Entropy(original, LevelWord).ShannonEntropy

	avgCompressionMI := 0.0
	if len(compressionMIs) > 0 {
		avgCompressionMI, _ = stats.Mean(compressionMIs)
	}

	compressionRate := 0.0
	if hX > 0 {
		compressionRate = 1 - avgCompressionMI/hX
	}
	compressionRate = clamp01(compressionRate)

	relevancePreserved := 0.0
	if hX > 0 {
		relevancePreserved = relevanceMI / hX
	}
	relevancePreserved = clamp01(relevancePreserved)

	quality := relevancePreserved * (1 - compressionRate*0.5)

	optimalBeta := math.Inf(1)
	if compressionRate > 0 {
		optimalBeta = relevancePreserved / compressionRate
	}

	return drift.InformationBottleneckResult{
		CompressionRate:    compressionRate,
		RelevancePreserved: relevancePreserved,
		BottleneckQuality:  quality,
		OptimalBeta:        math.Min(optimalBeta, 100),
		Interpretation:     interpretBottleneck(quality),
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func interpretBottleneck(quality float64) string {
	switch {
	case quality > 0.8:
		return "Excellent bottleneck: optimal compression with high relevance"
	case quality > 0.6:
		return "Good bottleneck: reasonable compression-relevance trade-off"
	case quality > 0.4:
		return "Moderate bottleneck: room for optimization"
	default:
		return "Poor bottleneck: excessive compression or low relevance"
	}
}
