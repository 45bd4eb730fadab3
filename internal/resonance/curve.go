package resonance

import (
	"semdrift/domain/drift"
	"semdrift/internal/errors"
)

// savgolWindow coefficients for window 5, polynomial order 2.
var savgolKernel = [5]float64{-3.0 / 35, 12.0 / 35, 17.0 / 35, 12.0 / 35, -3.0 / 35}

// AnalyzeCurve characterizes the SNR-vs-noise curve: Savitzky-Golay
// smoothing, first and second derivatives on the actual (possibly
// non-uniform) noise grid, inflection points, and a shape classification.
func (d *Detector) AnalyzeCurve(series drift.MetricSeries) (*drift.SNRCurveResult, error) {
	noiseLevels, similarities := series.Ordered()
	n := len(noiseLevels)
	if n < 2 {
		return &drift.SNRCurveResult{
			NoiseLevels:      noiseLevels,
			SNRValues:        snrSeries(noiseLevels, similarities),
			SNRSmoothed:      snrSeries(noiseLevels, similarities),
			FirstDerivative:  make([]float64, n),
			SecondDerivative: make([]float64, n),
			InflectionPoints: []float64{},
			CurveType:        drift.CurveInsufficientData,
		}, nil
	}

	snrValues := snrSeries(noiseLevels, similarities)

	var smoothed []float64
	if n >= 5 {
		smoothed = savitzkyGolay(snrValues)
	} else {
		smoothed = append([]float64(nil), snrValues...)
	}

	firstDerivative := gradient(smoothed, noiseLevels)
	secondDerivative := make([]float64, n)
	if n >= 3 {
		secondDerivative = gradient(firstDerivative, noiseLevels)
	}

	inflections := []float64{}
	for i := 1; i < n; i++ {
		if secondDerivative[i-1]*secondDerivative[i] < 0 {
			span := noiseLevels[i] - noiseLevels[i-1]
			frac := -secondDerivative[i-1] / (secondDerivative[i] - secondDerivative[i-1])
			inflections = append(inflections, noiseLevels[i-1]+span*frac)
		}
	}

	maxIdx := argmax(snrValues)
	var curveType drift.CurveType
	switch {
	case maxIdx > 0 && maxIdx < n-1:
		curveType = drift.CurveResonant
	case maxIdx == 0:
		curveType = drift.CurveMonotonicDecreasing
	default:
		curveType = drift.CurveMonotonicIncreasing
	}

	result := &drift.SNRCurveResult{
		NoiseLevels:      noiseLevels,
		SNRValues:        snrValues,
		SNRSmoothed:      smoothed,
		FirstDerivative:  firstDerivative,
		SecondDerivative: secondDerivative,
		InflectionPoints: inflections,
		CurveType:        curveType,
	}
	if err := result.Validate(); err != nil {
		return nil, errors.Wrap(err, "curve analysis produced inconsistent slices")
	}
	return result, nil
}

// savitzkyGolay smooths with a quadratic filter of window 5. Interior
// points use the closed-form kernel; the two points at each edge evaluate a
// least-squares quadratic fitted to the outermost window.
func savitzkyGolay(values []float64) []float64 {
	n := len(values)
	out := make([]float64, n)

	for i := 2; i < n-2; i++ {
		var sum float64
		for k := -2; k <= 2; k++ {
			sum += savgolKernel[k+2] * values[i+k]
		}
		out[i] = sum
	}

	// index positions within the edge windows
	headX := []float64{0, 1, 2, 3, 4}
	head := values[:5]
	for i := 0; i < 2; i++ {
		out[i] = evalQuadraticFit(headX, head, float64(i))
	}
	tail := values[n-5:]
	for i := n - 2; i < n; i++ {
		out[i] = evalQuadraticFit(headX, tail, float64(i-(n-5)))
	}
	return out
}

// evalQuadraticFit fits a parabola to (x, y) and evaluates it at x0.
func evalQuadraticFit(x, y []float64, x0 float64) float64 {
	a, b, c, ok := quadraticFit(x, y)
	if !ok {
		return y[int(x0)]
	}
	return a + b*x0 + c*x0*x0
}

// gradient computes numerical derivatives on a non-uniform grid:
// second-order central differences inside, one-sided at the edges.
func gradient(values, x []float64) []float64 {
	n := len(values)
	out := make([]float64, n)
	if n < 2 {
		return out
	}

	out[0] = (values[1] - values[0]) / (x[1] - x[0])
	out[n-1] = (values[n-1] - values[n-2]) / (x[n-1] - x[n-2])

	for i := 1; i < n-1; i++ {
		dx1 := x[i] - x[i-1]
		dx2 := x[i+1] - x[i]
		a := -dx2 / (dx1 * (dx1 + dx2))
		b := (dx2 - dx1) / (dx1 * dx2)
		c := dx1 / (dx2 * (dx1 + dx2))
		out[i] = a*values[i-1] + b*values[i] + c*values[i+1]
	}
	return out
}
