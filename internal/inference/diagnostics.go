package inference

import (
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"semdrift/domain/drift"
	"semdrift/internal/errors"
)

// ============================================================================
// ASSUMPTION DIAGNOSTICS
// ============================================================================

// Diagnostics checks normality of each metric series and variance
// homogeneity across noise levels for the reference series. Variance tests
// run on synthetic per-level samples since each level carries one observed
// value.
func (e *Engine) Diagnostics(seriesSet map[string]drift.MetricSeries, reference string) (*drift.DiagnosticsResult, error) {
	refSeries, ok := seriesSet[reference]
	if !ok {
		return nil, errors.InvalidInput("reference series not present: " + reference)
	}

	result := &drift.DiagnosticsResult{
		Normality: make(map[string]drift.NormalityResult),
	}

	for name, series := range seriesSet {
		_, values := series.Ordered()
		w, p, err := ShapiroWilk(values)
		if err != nil {
			continue
		}
		normal := p > e.Alpha
		recommendation := "Use non-parametric tests (Mann-Whitney U, Kruskal-Wallis)"
		if normal {
			recommendation = "Use parametric tests (t-test, ANOVA)"
		}
		result.Normality[name] = drift.NormalityResult{
			Test:           "Shapiro-Wilk",
			Statistic:      w,
			PValue:         p,
			Normal:         normal,
			Recommendation: recommendation,
		}
	}

	rng := rand.New(rand.NewSource(e.Seed))
	_, refValues := refSeries.Ordered()
	groups := make([][]float64, len(refValues))
	for i, v := range refValues {
		groups[i] = syntheticSamples(rng, v, pairwiseSampleSize)
	}

	leveneStat, leveneP, err := Levene(groups)
	if err != nil {
		return nil, err
	}
	bartlettStat, bartlettP, err := Bartlett(groups)
	if err != nil {
		return nil, err
	}

	result.Levene = drift.VarianceTestResult{
		Statistic:     leveneStat,
		PValue:        leveneP,
		Homoscedastic: leveneP > e.Alpha,
	}
	result.Bartlett = drift.VarianceTestResult{
		Statistic:     bartlettStat,
		PValue:        bartlettP,
		Homoscedastic: bartlettP > e.Alpha,
	}

	if result.Levene.Homoscedastic {
		result.Recommendation = "Equal variances assumption satisfied"
	} else {
		result.Recommendation = "Consider using Welch's t-test or non-parametric alternatives"
	}
	return result, nil
}

// ShapiroWilk tests normality using the Royston approximation of the W
// statistic and its p-value. Valid for 3 <= n <= 5000.
func ShapiroWilk(data []float64) (w, pValue float64, err error) {
	n := len(data)
	if n < 3 {
		return 0, 0, errors.InsufficientData("Shapiro-Wilk requires at least 3 observations")
	}
	if n > 5000 {
		return 0, 0, errors.InvalidInput("Shapiro-Wilk approximation unreliable above 5000 observations")
	}

	x := make([]float64, n)
	copy(x, data)
	sort.Float64s(x)

	if x[0] == x[n-1] {
		return 0, 0, errors.InvalidInput("Shapiro-Wilk undefined for constant data")
	}

	// expected normal order statistics (Blom scores)
	m := make([]float64, n)
	var mSum float64
	for i := 0; i < n; i++ {
		m[i] = distuv.UnitNormal.Quantile((float64(i+1) - 0.375) / (float64(n) + 0.25))
		mSum += m[i] * m[i]
	}

	u := 1 / math.Sqrt(float64(n))
	a := make([]float64, n)
	rootM := math.Sqrt(mSum)

	cn := m[n-1] / rootM
	an := -2.706056*math.Pow(u, 5) + 4.434685*math.Pow(u, 4) -
		2.071190*math.Pow(u, 3) - 0.147981*u*u + 0.221157*u + cn

	var phi float64
	if n > 5 {
		cn1 := m[n-2] / rootM
		an1 := -3.582633*math.Pow(u, 5) + 5.682633*math.Pow(u, 4) -
			1.752461*math.Pow(u, 3) - 0.293762*u*u + 0.042981*u + cn1
		phi = (mSum - 2*m[n-1]*m[n-1] - 2*m[n-2]*m[n-2]) /
			(1 - 2*an*an - 2*an1*an1)
		a[n-1] = an
		a[n-2] = an1
		a[0] = -an
		a[1] = -an1
		for i := 2; i < n-2; i++ {
			a[i] = m[i] / math.Sqrt(phi)
		}
	} else {
		phi = (mSum - 2*m[n-1]*m[n-1]) / (1 - 2*an*an)
		a[n-1] = an
		a[0] = -an
		for i := 1; i < n-1; i++ {
			a[i] = m[i] / math.Sqrt(phi)
		}
	}

	var mean float64
	for _, v := range x {
		mean += v
	}
	mean /= float64(n)

	var numerator, denominator float64
	for i := 0; i < n; i++ {
		numerator += a[i] * x[i]
		denominator += (x[i] - mean) * (x[i] - mean)
	}
	w = numerator * numerator / denominator

	pValue = shapiroPValue(w, n)
	return w, pValue, nil
}

// shapiroPValue applies Royston's normalizing transformation of W.
func shapiroPValue(w float64, n int) float64 {
	if n == 3 {
		p := 6 / math.Pi * (math.Asin(math.Sqrt(w)) - math.Asin(math.Sqrt(0.75)))
		return math.Max(0, math.Min(1, p))
	}

	var z float64
	if n <= 11 {
		fn := float64(n)
		gamma := -2.273 + 0.459*fn
		wTrans := -math.Log(gamma - math.Log(1-w))
		mu := 0.5440 - 0.39978*fn + 0.025054*fn*fn - 0.0006714*fn*fn*fn
		sigma := math.Exp(1.3822 - 0.77857*fn + 0.062767*fn*fn - 0.0020322*fn*fn*fn)
		z = (wTrans - mu) / sigma
	} else {
		g := math.Log(float64(n))
		wTrans := math.Log(1 - w)
		mu := -1.5861 - 0.31082*g - 0.083751*g*g + 0.0038915*g*g*g
		sigma := math.Exp(-0.4803 - 0.082676*g + 0.0030302*g*g)
		z = (wTrans - mu) / sigma
	}
	return distuv.UnitNormal.Survival(z)
}

// Levene tests variance homogeneity with median centering, which keeps the
// test robust to non-normal groups.
func Levene(groups [][]float64) (statistic, pValue float64, err error) {
	k := len(groups)
	if k < 2 {
		return 0, 0, errors.InsufficientData("Levene test requires at least 2 groups")
	}

	total := 0
	deviations := make([][]float64, k)
	groupMeans := make([]float64, k)
	var grandSum float64
	for g, group := range groups {
		if len(group) == 0 {
			return 0, 0, errors.InsufficientData("Levene test group is empty")
		}
		total += len(group)
		center := median(group)
		deviations[g] = make([]float64, len(group))
		var sum float64
		for i, v := range group {
			deviations[g][i] = math.Abs(v - center)
			sum += deviations[g][i]
		}
		groupMeans[g] = sum / float64(len(group))
		grandSum += sum
	}
	grandMean := grandSum / float64(total)

	var ssBetween, ssWithin float64
	for g, devs := range deviations {
		diff := groupMeans[g] - grandMean
		ssBetween += float64(len(devs)) * diff * diff
		for _, d := range devs {
			ssWithin += (d - groupMeans[g]) * (d - groupMeans[g])
		}
	}

	dfBetween := float64(k - 1)
	dfWithin := float64(total - k)
	if ssWithin == 0 || dfWithin <= 0 {
		return math.Inf(1), 0, nil
	}
	statistic = (ssBetween / dfBetween) / (ssWithin / dfWithin)

	fDist := distuv.F{D1: dfBetween, D2: dfWithin}
	return statistic, fDist.Survival(statistic), nil
}

// Bartlett tests variance homogeneity assuming normal groups.
func Bartlett(groups [][]float64) (statistic, pValue float64, err error) {
	k := len(groups)
	if k < 2 {
		return 0, 0, errors.InsufficientData("Bartlett test requires at least 2 groups")
	}

	total := 0
	variances := make([]float64, k)
	for g, group := range groups {
		if len(group) < 2 {
			return 0, 0, errors.InsufficientData("Bartlett test groups need at least 2 observations")
		}
		total += len(group)
		variances[g] = sampleVariance(group)
	}

	nMinusK := float64(total - k)
	var pooled, logSum, invSum float64
	for g, group := range groups {
		ni := float64(len(group) - 1)
		pooled += ni * variances[g]
		logSum += ni * math.Log(variances[g])
		invSum += 1 / ni
	}
	pooled /= nMinusK

	numerator := nMinusK*math.Log(pooled) - logSum
	correction := 1 + (invSum-1/nMinusK)/(3*float64(k-1))
	statistic = numerator / correction

	chi := distuv.ChiSquared{K: float64(k - 1)}
	return statistic, chi.Survival(statistic), nil
}

func median(data []float64) float64 {
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func sampleVariance(data []float64) float64 {
	n := float64(len(data))
	var mean float64
	for _, v := range data {
		mean += v
	}
	mean /= n
	var ss float64
	for _, v := range data {
		ss += (v - mean) * (v - mean)
	}
	return ss / (n - 1)
}
