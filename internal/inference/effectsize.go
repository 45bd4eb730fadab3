package inference

import (
	"math"

	"github.com/montanaflynn/stats"

	"semdrift/domain/drift"
	"semdrift/internal/errors"
)

// CohensD estimates the standardized mean difference of a metric between
// two noise levels. With one observation per level, the series' overall
// sample standard deviation stands in for the pooled spread.
func CohensD(series drift.MetricSeries, level1, level2 int) (float64, error) {
	val1, ok1 := series.At(level1)
	val2, ok2 := series.At(level2)
	if !ok1 || !ok2 {
		return 0, errors.InvalidInput("both noise levels must be present in the series")
	}

	_, values := series.Ordered()
	if len(values) < 2 {
		return 0, errors.InsufficientData("Cohen's d needs at least 2 observations for spread")
	}
	pooled, err := stats.StandardDeviationSample(values)
	if err != nil || pooled == 0 || math.IsNaN(pooled) {
		return 0, nil
	}
	return (val2 - val1) / pooled, nil
}
