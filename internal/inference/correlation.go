package inference

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"

	"semdrift/domain/drift"
	"semdrift/internal/errors"
)

// Correlations tests the relationship between noise level and a metric with
// Pearson r, Spearman rho and Kendall tau-b, each with its own p-value.
// Pearson and Spearman carry Fisher-Z confidence intervals; Kendall has no
// standard closed-form interval, so its bounds are NaN.
func (e *Engine) Correlations(series drift.MetricSeries) ([]drift.CorrelationResult, error) {
	levels, values := series.Ordered()
	n := len(levels)
	if n < 2 {
		return nil, errors.InsufficientData("correlation requires at least 2 observations")
	}

	var results []drift.CorrelationResult

	rPearson, pPearson := pearsonTest(levels, values)
	results = append(results, drift.CorrelationResult{
		Variable1:      "noise_level",
		Variable2:      series.Name,
		Coefficient:    rPearson,
		PValue:         pPearson,
		TestName:       "Pearson r",
		NSamples:       n,
		Interval:       e.fisherZInterval(rPearson, n),
		Interpretation: interpretPearson(rPearson, pPearson, e.Alpha),
	})

	rhoSpearman, pSpearman := spearmanTest(levels, values)
	results = append(results, drift.CorrelationResult{
		Variable1:      "noise_level",
		Variable2:      series.Name,
		Coefficient:    rhoSpearman,
		PValue:         pSpearman,
		TestName:       "Spearman rho",
		NSamples:       n,
		Interval:       e.fisherZInterval(rhoSpearman, n),
		Interpretation: fmt.Sprintf("Monotonic relationship: rho=%.4f", rhoSpearman),
	})

	tau, pKendall := kendallTest(levels, values)
	results = append(results, drift.CorrelationResult{
		Variable1:      "noise_level",
		Variable2:      series.Name,
		Coefficient:    tau,
		PValue:         pKendall,
		TestName:       "Kendall tau",
		NSamples:       n,
		Interval:       drift.ConfidenceInterval{Lower: math.NaN(), Upper: math.NaN(), Level: e.ConfidenceLevel},
		Interpretation: fmt.Sprintf("Concordance: tau=%.4f", tau),
	})

	return results, nil
}

// pearsonTest returns r and its two-sided p-value from the t distribution
// with n-2 degrees of freedom.
func pearsonTest(x, y []float64) (r, p float64) {
	r, err := stats.Pearson(x, y)
	if err != nil {
		return math.NaN(), math.NaN()
	}
	return r, correlationPValue(r, len(x))
}

func spearmanTest(x, y []float64) (rho, p float64) {
	rx, _ := rankWithTies(x)
	ry, _ := rankWithTies(y)
	rho, err := stats.Pearson(rx, ry)
	if err != nil {
		return math.NaN(), math.NaN()
	}
	return rho, correlationPValue(rho, len(x))
}

func correlationPValue(r float64, n int) float64 {
	if n < 3 || math.IsNaN(r) {
		return math.NaN()
	}
	if math.Abs(r) >= 1 {
		return 0
	}
	t := r * math.Sqrt(float64(n-2)/(1-r*r))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 2)}
	return 2 * dist.Survival(math.Abs(t))
}

// kendallTest computes tau-b with the normal approximation for the p-value.
func kendallTest(x, y []float64) (tau, p float64) {
	n := len(x)
	if n < 2 {
		return math.NaN(), math.NaN()
	}

	var concordant, discordant float64
	var tiesX, tiesY float64
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dx := x[i] - x[j]
			dy := y[i] - y[j]
			switch {
			case dx == 0 && dy == 0:
				// joint tie contributes to neither denominator term
			case dx == 0:
				tiesX++
			case dy == 0:
				tiesY++
			case dx*dy > 0:
				concordant++
			default:
				discordant++
			}
		}
	}

	n0 := float64(n*(n-1)) / 2
	denom := math.Sqrt((n0 - tiesX) * (n0 - tiesY))
	if denom == 0 {
		return math.NaN(), math.NaN()
	}
	tau = (concordant - discordant) / denom

	if n < 3 {
		return tau, math.NaN()
	}
	z := 3 * tau * math.Sqrt(float64(n*(n-1))) / math.Sqrt(2*float64(2*n+5))
	p = 2 * distuv.UnitNormal.Survival(math.Abs(z))
	if p > 1 {
		p = 1
	}
	return tau, p
}

// fisherZInterval builds a confidence interval for a correlation via
// Fisher's Z transformation. Undefined (NaN bounds) when n < 3.
func (e *Engine) fisherZInterval(r float64, n int) drift.ConfidenceInterval {
	ci := drift.ConfidenceInterval{
		Lower:  math.NaN(),
		Upper:  math.NaN(),
		Level:  e.ConfidenceLevel,
		Method: "fisher_z",
	}
	if n < 3 || math.IsNaN(r) || math.Abs(r) >= 1 {
		return ci
	}

	z := 0.5 * math.Log((1+r)/(1-r))
	se := 1 / math.Sqrt(float64(n-3))
	zCrit := distuv.UnitNormal.Quantile(1 - (1-e.ConfidenceLevel)/2)

	zLower := z - zCrit*se
	zUpper := z + zCrit*se
	ci.Lower = (math.Exp(2*zLower) - 1) / (math.Exp(2*zLower) + 1)
	ci.Upper = (math.Exp(2*zUpper) - 1) / (math.Exp(2*zUpper) + 1)
	return ci
}

func interpretPearson(r, p, alpha float64) string {
	abs := math.Abs(r)
	var strength string
	switch {
	case abs >= 0.9:
		strength = "Very strong"
	case abs >= 0.7:
		strength = "Strong"
	case abs >= 0.5:
		strength = "Moderate"
	case abs >= 0.3:
		strength = "Weak"
	default:
		strength = "Negligible"
	}

	direction := "negative"
	if r > 0 {
		direction = "positive"
	}
	sig := "not significant"
	if p < alpha {
		sig = "significant"
	}
	return fmt.Sprintf("%s %s correlation (%s)", strength, direction, sig)
}
