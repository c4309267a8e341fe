package regression

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/mwaskom/StatApps/internal/simerr"
)

// Band is the confidence band of a fitted line evaluated over a grid.
// Lower[i] <= YHat[i] <= Upper[i] for every i.
type Band struct {
	XX    []float64 `json:"xx" yaml:"xx"`
	YHat  []float64 `json:"yhat" yaml:"yhat"`
	Lower []float64 `json:"lower" yaml:"lower"`
	Upper []float64 `json:"upper" yaml:"upper"`
	// SE is the standard error of the fitted mean at each grid point.
	SE []float64 `json:"se" yaml:"se"`

	Fit        Fit     `json:"fit" yaml:"fit"`
	N          int     `json:"n" yaml:"n"`
	DOF        int     `json:"dof" yaml:"dof"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
	Critical   float64 `json:"critical" yaml:"critical"`
	ResidualSE float64 `json:"residual_se" yaml:"residual_se"`
	XBar       float64 `json:"xbar" yaml:"xbar"`
}

// ConfidenceBand computes the analytic confidence interval of the mean
// response of fit over the grid xx:
//
//	s     = sqrt(SSR / (n-2))
//	se(x) = s * sqrt(1/n + (x - xbar)^2 / Sxx)
//	band  = yhat ± t(n-2, (1+confidence)/2) * se
func ConfidenceBand(x, y []float64, fit Fit, xx []float64, confidence float64) (*Band, error) {
	const op = "regression.ConfidenceBand"
	if err := checkInput(op, x, y); err != nil {
		return nil, err
	}
	if !(confidence > 0 && confidence < 1) {
		return nil, simerr.Invalid(op, "confidence must be in (0, 1), got %g", confidence)
	}
	if !allFinite(xx) {
		return nil, simerr.Invalid(op, "evaluation grid must be finite")
	}

	n := len(x)
	dof := n - 2
	xbar, sxx, err := spreadX(op, x)
	if err != nil {
		return nil, err
	}
	ssr := SSR(x, y, fit)
	if !finite(ssr) {
		return nil, simerr.Unstable(op, "non-finite residual sum of squares")
	}
	s := math.Sqrt(ssr / float64(dof))

	t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(dof)}
	crit := t.Quantile((1 + confidence) / 2)

	b := &Band{
		XX:         append([]float64(nil), xx...),
		YHat:       fit.PredictAll(xx),
		Lower:      make([]float64, len(xx)),
		Upper:      make([]float64, len(xx)),
		SE:         make([]float64, len(xx)),
		Fit:        fit,
		N:          n,
		DOF:        dof,
		Confidence: confidence,
		Critical:   crit,
		ResidualSE: s,
		XBar:       xbar,
	}
	for i, x0 := range xx {
		d := x0 - xbar
		se := s * math.Sqrt(1/float64(n)+d*d/sxx)
		b.SE[i] = se
		b.Lower[i] = b.YHat[i] - crit*se
		b.Upper[i] = b.YHat[i] + crit*se
	}
	if !allFinite(b.Lower) || !allFinite(b.Upper) {
		return nil, simerr.Unstable(op, "non-finite band bounds")
	}
	return b, nil
}

// Len returns the number of grid points.
func (b *Band) Len() int {
	return len(b.XX)
}

// Width returns Upper[i] - Lower[i].
func (b *Band) Width(i int) float64 {
	return b.Upper[i] - b.Lower[i]
}

// ErrorDensity describes the sampling distribution of the fitted mean at grid
// point i: a t distribution with the band's degrees of freedom, centred on
// YHat[i] and scaled by SE[i]. It returns points ordinates spanning five
// standard errors either side and the density at each.
func (b *Band) ErrorDensity(i, points int) (ys, density []float64, err error) {
	const op = "regression.Band.ErrorDensity"
	if i < 0 || i >= b.Len() {
		return nil, nil, simerr.Invalid(op, "grid index %d out of range [0, %d)", i, b.Len())
	}
	if points < 2 {
		return nil, nil, simerr.Invalid(op, "need at least 2 points, got %d", points)
	}
	se := b.SE[i]
	if !(se > 0) {
		return nil, nil, simerr.Degenerate(op, "zero standard error at grid point %d", i)
	}

	loc := b.YHat[i]
	dist := distuv.StudentsT{Mu: loc, Sigma: se, Nu: float64(b.DOF)}
	ys = Linspace(loc-5*se, loc+5*se, points)
	density = make([]float64, points)
	for j, v := range ys {
		density[j] = dist.Prob(v)
	}
	return ys, density, nil
}
