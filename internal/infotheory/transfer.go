package infotheory

import (
	"math"

	"github.com/montanaflynn/stats"

	"semdrift/domain/drift"
)

// TransferEntropy estimates directed information flow from a source text
// series to a target text series. Each step's transfer is the mutual
// information between the target at time t and the source at t-1,
// discounted by half the target's self-information, floored at zero. The
// average is normalized by the source's mean word entropy and capped at 1.
func (e *Estimator) TransferEntropy(sourceTexts, targetTexts []string, sourceName, targetName string) drift.TransferEntropyResult {
	if len(sourceTexts) < 2 || len(targetTexts) < 2 {
		return drift.TransferEntropyResult{
			SourceName:        sourceName,
			TargetName:        targetName,
			TransferEntropy:   0,
			EffectiveTransfer: 0,
			CausalStrength:    drift.CausalInsufficientData,
			Interpretation:    "Need at least 2 time points for transfer entropy",
		}
	}

	steps := len(sourceTexts)
	if len(targetTexts) < steps {
		steps = len(targetTexts)
	}

	transfers := make([]float64, 0, steps-1)
	for t := 1; t < steps; t++ {
		miSource := e.MutualInformation(targetTexts[t], sourceTexts[t-1], "target", "source").MutualInformation
		miSelf := e.MutualInformation(targetTexts[t], targetTexts[t-1], "target", "target").MutualInformation
		transfers = append(transfers, math.Max(0, miSource-0.5*miSelf))
	}

	avgTE, _ := stats.Mean(transfers)

	entropies := make([]float64, len(sourceTexts))
	for i, txt := range sourceTexts {
		entropies[i] = e.Entropy(txt, LevelWord).ShannonEntropy
	}
	sourceEntropy, _ := stats.Mean(entropies)

	effective := 0.0
	if sourceEntropy > 0 {
		effective = math.Min(1, avgTE/sourceEntropy)
	}

	strength := drift.ClassifyCausalStrength(effective)

	return drift.TransferEntropyResult{
		SourceName:        sourceName,
		TargetName:        targetName,
		TransferEntropy:   avgTE,
		EffectiveTransfer: effective,
		CausalStrength:    strength,
		Interpretation:    interpretTransfer(strength, sourceName, targetName),
	}
}

func interpretTransfer(strength drift.CausalStrength, sourceName, targetName string) string {
	switch strength {
	case drift.CausalStrong:
		return "Strong causal flow from " + sourceName + " to " + targetName
	case drift.CausalModerate:
		return "Moderate causal influence from " + sourceName + " to " + targetName
	case drift.CausalWeak:
		return "Weak causal relationship detected"
	default:
		return "No significant causal flow detected"
	}
}
