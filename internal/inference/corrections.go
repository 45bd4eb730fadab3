package inference

import (
	"math"
	"sort"

	"semdrift/domain/drift"
	"semdrift/internal/errors"
)

// ApplyCorrection adjusts raw p-values for multiple comparisons.
// INVARIANTS:
// - output order matches input order
// - corrected p-values never fall below the raw values and never exceed 1
// - holm output is monotone in the sorted order; fdr_bh is monotone from
//   the largest p downward
func ApplyCorrection(pValues []float64, method drift.CorrectionMethod) ([]float64, error) {
	m := len(pValues)
	if m == 0 {
		return []float64{}, nil
	}

	switch method {
	case drift.CorrectionNone:
		out := make([]float64, m)
		copy(out, pValues)
		return out, nil

	case drift.CorrectionBonferroni:
		out := make([]float64, m)
		for i, p := range pValues {
			out[i] = math.Min(p*float64(m), 1)
		}
		return out, nil

	case drift.CorrectionHolm:
		order := sortOrder(pValues)
		correctedSorted := make([]float64, m)
		for i, idx := range order {
			correctedSorted[i] = math.Min(pValues[idx]*float64(m-i), 1)
		}
		for i := 1; i < m; i++ {
			correctedSorted[i] = math.Max(correctedSorted[i], correctedSorted[i-1])
		}
		return unsort(correctedSorted, order), nil

	case drift.CorrectionFDRBH:
		order := sortOrder(pValues)
		correctedSorted := make([]float64, m)
		for i, idx := range order {
			correctedSorted[i] = math.Min(pValues[idx]*float64(m)/float64(i+1), 1)
		}
		for i := m - 2; i >= 0; i-- {
			correctedSorted[i] = math.Min(correctedSorted[i], correctedSorted[i+1])
		}
		return unsort(correctedSorted, order), nil

	default:
		return nil, errors.InvalidInput("unknown correction method: " + string(method))
	}
}

func sortOrder(values []float64) []int {
	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return values[order[a]] < values[order[b]] })
	return order
}

func unsort(sortedValues []float64, order []int) []float64 {
	out := make([]float64, len(sortedValues))
	for i, idx := range order {
		out[idx] = sortedValues[i]
	}
	return out
}
