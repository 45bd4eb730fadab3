package inference

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"semdrift/domain/drift"
	"semdrift/internal/errors"
)

// PolynomialRegression fits y = b0 + b1*x + ... + bk*x^k by least squares
// and reports fit quality with an overall F test.
func (e *Engine) PolynomialRegression(predictor, response string, x, y []float64, degree int) (*drift.RegressionResult, error) {
	n := len(x)
	if n != len(y) {
		return nil, errors.DimensionMismatch(
			fmt.Sprintf("predictor and response lengths differ: %d != %d", n, len(y)))
	}
	if degree < 1 {
		return nil, errors.InvalidInput("polynomial degree must be at least 1")
	}
	if n < degree+2 {
		return nil, errors.InsufficientData(
			fmt.Sprintf("degree %d fit needs at least %d observations, have %d", degree, degree+2, n))
	}

	coeffs, err := polyFit(x, y, degree)
	if err != nil {
		return nil, err
	}

	predictions := make([]float64, n)
	residuals := make([]float64, n)
	var ssRes, ssTot, yMean float64
	for _, v := range y {
		yMean += v
	}
	yMean /= float64(n)

	for i := range x {
		predictions[i] = evalPoly(coeffs, x[i])
		residuals[i] = y[i] - predictions[i]
		ssRes += residuals[i] * residuals[i]
		ssTot += (y[i] - yMean) * (y[i] - yMean)
	}

	rSquared := 1.0
	if ssTot > 0 {
		rSquared = 1 - ssRes/ssTot
	}
	k := float64(degree)
	adjusted := 1 - (1-rSquared)*float64(n-1)/(float64(n)-k-1)
	rmse := math.Sqrt(ssRes / float64(n))

	var fStat, pValue float64
	if rSquared < 1 {
		fStat = (rSquared / k) / ((1 - rSquared) / (float64(n) - k - 1))
		fDist := distuv.F{D1: k, D2: float64(n) - k - 1}
		pValue = fDist.Survival(fStat)
	} else {
		fStat = math.Inf(1)
		pValue = 0
	}

	return &drift.RegressionResult{
		Predictor:        predictor,
		Response:         response,
		ModelType:        fmt.Sprintf("Polynomial (degree %d)", degree),
		Coefficients:     coeffs,
		RSquared:         rSquared,
		AdjustedRSquared: adjusted,
		RMSE:             rmse,
		FStatistic:       fStat,
		PValue:           pValue,
		Predictions:      predictions,
		Residuals:        residuals,
		Interpretation:   interpretFit(rSquared, pValue, rmse, e.Alpha),
	}, nil
}

// polyFit solves the Vandermonde least-squares system via QR.
func polyFit(x, y []float64, degree int) ([]float64, error) {
	n := len(x)
	cols := degree + 1

	design := mat.NewDense(n, cols, nil)
	for i := 0; i < n; i++ {
		v := 1.0
		for j := 0; j < cols; j++ {
			design.Set(i, j, v)
			v *= x[i]
		}
	}

	var qr mat.QR
	qr.Factorize(design)
	var solution mat.Dense
	if err := qr.SolveTo(&solution, false, mat.NewDense(n, 1, y)); err != nil {
		return nil, errors.Wrap(err, "least squares solve failed")
	}

	coeffs := make([]float64, cols)
	for j := 0; j < cols; j++ {
		coeffs[j] = solution.At(j, 0)
	}
	return coeffs, nil
}

func evalPoly(coeffs []float64, x float64) float64 {
	y := 0.0
	for j := len(coeffs) - 1; j >= 0; j-- {
		y = y*x + coeffs[j]
	}
	return y
}

func interpretFit(rSquared, pValue, rmse, alpha float64) string {
	var quality string
	switch {
	case rSquared >= 0.9:
		quality = "Excellent"
	case rSquared >= 0.7:
		quality = "Good"
	case rSquared >= 0.5:
		quality = "Moderate"
	default:
		quality = "Poor"
	}
	sig := "not significant"
	if pValue < alpha {
		sig = "significant"
	}
	return fmt.Sprintf("%s fit (R²=%.4f, %s). RMSE=%.6f", quality, rSquared, sig, rmse)
}
