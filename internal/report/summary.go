package report

import (
	"github.com/montanaflynn/stats"

	"semdrift/domain/drift"
	"semdrift/internal/errors"
)

// MetricSummary holds descriptive statistics for one metric series.
type MetricSummary struct {
	Metric string  `json:"metric"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// SummarizeSeries computes descriptive statistics for each series.
func SummarizeSeries(seriesSet map[string]drift.MetricSeries) (map[string]MetricSummary, error) {
	if len(seriesSet) == 0 {
		return nil, errors.InsufficientData("no metric series to summarize")
	}

	summaries := make(map[string]MetricSummary, len(seriesSet))
	for name, series := range seriesSet {
		_, values := series.Ordered()
		if len(values) == 0 {
			return nil, errors.InsufficientData("metric series " + name + " is empty")
		}
		mean, _ := stats.Mean(values)
		median, _ := stats.Median(values)
		min, _ := stats.Min(values)
		max, _ := stats.Max(values)
		std := 0.0
		if len(values) > 1 {
			std, _ = stats.StandardDeviationSample(values)
		}
		summaries[name] = MetricSummary{
			Metric: name,
			Count:  len(values),
			Mean:   mean,
			Median: median,
			Std:    std,
			Min:    min,
			Max:    max,
		}
	}
	return summaries, nil
}
