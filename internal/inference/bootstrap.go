package inference

import (
	"math"
	"math/rand"
	"sort"

	"github.com/montanaflynn/stats"

	"semdrift/domain/drift"
	"semdrift/internal/errors"
)

// Bootstrap resamples the metric values with replacement and reports
// percentile confidence bounds for the mean, along with bias and spread of
// the bootstrap distribution.
func (e *Engine) Bootstrap(metricName string, values []float64) (*drift.BootstrapResult, error) {
	if len(values) < 2 {
		return nil, errors.InsufficientData("bootstrap requires at least 2 observations")
	}

	observed, _ := stats.Mean(values)

	rng := rand.New(rand.NewSource(e.Seed))
	means := make([]float64, e.BootstrapIterations)
	resampled := make([]float64, len(values))
	for i := 0; i < e.BootstrapIterations; i++ {
		for j := range resampled {
			resampled[j] = values[rng.Intn(len(values))]
		}
		means[i], _ = stats.Mean(resampled)
	}

	bootstrapMean, _ := stats.Mean(means)
	bootstrapStd, _ := stats.StandardDeviationSample(means)

	alpha := 1 - e.ConfidenceLevel
	lower := percentile(means, 100*alpha/2)
	upper := percentile(means, 100*(1-alpha/2))

	interval, err := drift.NewConfidenceInterval(lower, upper, e.ConfidenceLevel, "percentile_bootstrap")
	if err != nil {
		return nil, errors.Wrap(err, "bootstrap interval construction failed")
	}

	return &drift.BootstrapResult{
		MetricName:    metricName,
		ObservedValue: observed,
		BootstrapMean: bootstrapMean,
		BootstrapStd:  bootstrapStd,
		Bias:          bootstrapMean - observed,
		Interval:      interval,
		NIterations:   e.BootstrapIterations,
		Seed:          e.Seed,
	}, nil
}

// percentile computes the q-th percentile (0..100) with linear
// interpolation between order statistics.
func percentile(data []float64, q float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	if q <= 0 {
		return sorted[0]
	}
	if q >= 100 {
		return sorted[len(sorted)-1]
	}
	pos := q / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
