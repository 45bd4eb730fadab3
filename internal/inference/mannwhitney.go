package inference

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"semdrift/internal/errors"
)

// MannWhitneyU performs a two-sided Mann-Whitney U test with the normal
// approximation, tie correction and continuity correction. The returned
// statistic is U for the first sample.
func MannWhitneyU(x, y []float64) (statistic, pValue float64, err error) {
	n1, n2 := len(x), len(y)
	if n1 == 0 || n2 == 0 {
		return 0, 0, errors.InsufficientData("Mann-Whitney requires non-empty samples")
	}

	combined := make([]float64, 0, n1+n2)
	combined = append(combined, x...)
	combined = append(combined, y...)
	ranks, tieTerm := rankWithTies(combined)

	var r1 float64
	for i := 0; i < n1; i++ {
		r1 += ranks[i]
	}

	u1 := r1 - float64(n1)*float64(n1+1)/2
	fn1, fn2 := float64(n1), float64(n2)
	n := fn1 + fn2

	meanU := fn1 * fn2 / 2
	variance := fn1 * fn2 / 12 * ((n + 1) - tieTerm/(n*(n-1)))
	if variance <= 0 {
		// all observations tied
		return u1, 1, nil
	}

	// continuity correction toward the mean
	numerator := u1 - meanU
	switch {
	case numerator > 0:
		numerator -= 0.5
	case numerator < 0:
		numerator += 0.5
	}
	z := numerator / math.Sqrt(variance)

	p := 2 * distuv.UnitNormal.Survival(math.Abs(z))
	if p > 1 {
		p = 1
	}
	return u1, p, nil
}

// rankWithTies assigns average ranks (1-based) and returns the tie
// correction term sum(t^3 - t) over tie groups.
func rankWithTies(values []float64) (ranks []float64, tieTerm float64) {
	n := len(values)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return values[idx[a]] < values[idx[b]] })

	ranks = make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && values[idx[j+1]] == values[idx[i]] {
			j++
		}
		avgRank := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[idx[k]] = avgRank
		}
		if t := float64(j - i + 1); t > 1 {
			tieTerm += t*t*t - t
		}
		i = j + 1
	}
	return ranks, tieTerm
}

// CliffsDelta returns the dominance effect size in [-1, 1]: the difference
// between the fraction of pairs where x exceeds y and the fraction where y
// exceeds x.
func CliffsDelta(x, y []float64) float64 {
	if len(x) == 0 || len(y) == 0 {
		return 0
	}
	greater, less := 0, 0
	for _, xi := range x {
		for _, yj := range y {
			if xi > yj {
				greater++
			} else if xi < yj {
				less++
			}
		}
	}
	return float64(greater-less) / float64(len(x)*len(y))
}
