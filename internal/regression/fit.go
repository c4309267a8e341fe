// Package regression fits univariate linear models by ordinary least squares
// and computes analytic confidence bands around the fitted line.
package regression

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"

	"github.com/mwaskom/StatApps/internal/simerr"
)

// MinObservations is the smallest sample that leaves a positive number of
// residual degrees of freedom.
const MinObservations = 3

// Fit is a fitted line y = Intercept + Slope*x.
type Fit struct {
	Intercept float64 `json:"intercept" yaml:"intercept"`
	Slope     float64 `json:"slope" yaml:"slope"`
}

// Predict evaluates the line at x.
func (f Fit) Predict(x float64) float64 {
	return f.Intercept + f.Slope*x
}

// PredictAll evaluates the line at every point of xs.
func (f Fit) PredictAll(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = f.Predict(x)
	}
	return out
}

// OLS fits a degree-1 polynomial to (x, y) by ordinary least squares.
func OLS(x, y []float64) (Fit, error) {
	const op = "regression.OLS"
	if err := checkInput(op, x, y); err != nil {
		return Fit{}, err
	}

	alpha, beta := stat.LinearRegression(x, y, nil, false)
	if !finite(alpha) || !finite(beta) {
		return Fit{}, simerr.Unstable(op, "non-finite coefficients (intercept=%g, slope=%g)", alpha, beta)
	}
	return Fit{Intercept: alpha, Slope: beta}, nil
}

// Residuals returns y - f(x).
func Residuals(x, y []float64, f Fit) []float64 {
	res := make([]float64, len(x))
	for i := range x {
		res[i] = y[i] - f.Predict(x[i])
	}
	return res
}

// SSR returns the residual sum of squares of f on (x, y).
func SSR(x, y []float64, f Fit) float64 {
	var ss float64
	for i := range x {
		r := y[i] - f.Predict(x[i])
		ss += r * r
	}
	return ss
}

// FitNumeric minimises the residual sum of squares with Nelder-Mead.
// It returns the fit and the SSR reached. The closed form in OLS is exact;
// this exists to cross-check it.
func FitNumeric(x, y []float64) (Fit, float64, error) {
	const op = "regression.FitNumeric"
	if err := checkInput(op, x, y); err != nil {
		return Fit{}, 0, err
	}

	problem := optimize.Problem{
		Func: func(p []float64) float64 {
			return SSR(x, y, Fit{Intercept: p[0], Slope: p[1]})
		},
	}
	settings := &optimize.Settings{
		MajorIterations: 5000,
		FuncEvaluations: 5000,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-12,
			Relative:   1e-12,
			Iterations: 200,
		},
	}

	start := []float64{stat.Mean(y, nil), 0}
	result, err := optimize.Minimize(problem, start, settings, &optimize.NelderMead{})
	if err != nil {
		return Fit{}, 0, simerr.Unstable(op, "minimisation failed: %v", err)
	}

	f := Fit{Intercept: result.X[0], Slope: result.X[1]}
	return f, problem.Func(result.X), nil
}

// Linspace returns n evenly spaced points over [lo, hi].
func Linspace(lo, hi float64, n int) []float64 {
	return floats.Span(make([]float64, n), lo, hi)
}

func checkInput(op string, x, y []float64) error {
	if len(x) != len(y) {
		return simerr.Invalid(op, "x and y lengths differ: %d != %d", len(x), len(y))
	}
	if len(x) < MinObservations {
		return simerr.Degenerate(op, "need at least %d observations, got %d", MinObservations, len(x))
	}
	if !allFinite(x) || !allFinite(y) {
		return simerr.Invalid(op, "observations must be finite")
	}
	for _, v := range x[1:] {
		if v != x[0] {
			return nil
		}
	}
	return simerr.Degenerate(op, "all %d x values are identical", len(x))
}

// spreadX returns mean(x) and Sxx = sum((x - mean(x))^2).
func spreadX(op string, x []float64) (xbar, sxx float64, err error) {
	xbar = stat.Mean(x, nil)
	for _, v := range x {
		d := v - xbar
		sxx += d * d
	}
	if !(sxx > 0) || !finite(sxx) {
		return 0, 0, simerr.Unstable(op, "non-positive predictor sum of squares %g", sxx)
	}
	return xbar, sxx, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func allFinite(xs []float64) bool {
	for _, v := range xs {
		if !finite(v) {
			return false
		}
	}
	return true
}
