package regression

import (
	"fmt"
	"math"
	"strings"
	"text/tabwriter"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/mwaskom/StatApps/internal/simerr"
)

// Coefficient is one row of the coefficient table.
type Coefficient struct {
	Name     string  `json:"name" yaml:"name"`
	Estimate float64 `json:"estimate" yaml:"estimate"`
	StdErr   float64 `json:"std_err" yaml:"std_err"`
	T        float64 `json:"t" yaml:"t"`
	P        float64 `json:"p" yaml:"p"`
	Lower    float64 `json:"lower" yaml:"lower"`
	Upper    float64 `json:"upper" yaml:"upper"`
}

// Summary is the full report of an OLS fit.
type Summary struct {
	N          int     `json:"n" yaml:"n"`
	DOF        int     `json:"dof" yaml:"dof"`
	Confidence float64 `json:"confidence" yaml:"confidence"`

	Intercept Coefficient `json:"intercept" yaml:"intercept"`
	Slope     Coefficient `json:"slope" yaml:"slope"`

	RSquared      float64 `json:"r_squared" yaml:"r_squared"`
	AdjRSquared   float64 `json:"adj_r_squared" yaml:"adj_r_squared"`
	FStatistic    float64 `json:"f_statistic" yaml:"f_statistic"`
	FPValue       float64 `json:"f_p_value" yaml:"f_p_value"`
	ResidualSE    float64 `json:"residual_se" yaml:"residual_se"`
	LogLikelihood float64 `json:"log_likelihood" yaml:"log_likelihood"`
	AIC           float64 `json:"aic" yaml:"aic"`
	BIC           float64 `json:"bic" yaml:"bic"`
}

// Fit returns the estimated line.
func (s *Summary) Fit() Fit {
	return Fit{Intercept: s.Intercept.Estimate, Slope: s.Slope.Estimate}
}

// Summarize fits (x, y) and computes coefficient inference and goodness of fit.
// A perfect fit has zero residual variance and leaves the test statistics
// undefined; it is reported as a numerical instability.
func Summarize(x, y []float64, confidence float64) (*Summary, error) {
	const op = "regression.Summarize"
	fit, err := OLS(x, y)
	if err != nil {
		return nil, err
	}
	if !(confidence > 0 && confidence < 1) {
		return nil, simerr.Invalid(op, "confidence must be in (0, 1), got %g", confidence)
	}
	xbar, sxx, err := spreadX(op, x)
	if err != nil {
		return nil, err
	}

	n := len(x)
	nf := float64(n)
	dof := n - 2
	ssr := SSR(x, y, fit)
	if !(ssr > 0) {
		return nil, simerr.Unstable(op, "residual sum of squares is %g; inference is undefined", ssr)
	}

	ybar := stat.Mean(y, nil)
	var sst float64
	for _, v := range y {
		d := v - ybar
		sst += d * d
	}

	s2 := ssr / float64(dof)
	tdist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(dof)}
	crit := tdist.Quantile((1 + confidence) / 2)

	coef := func(name string, est, se float64) Coefficient {
		t := est / se
		return Coefficient{
			Name:     name,
			Estimate: est,
			StdErr:   se,
			T:        t,
			P:        2 * tdist.Survival(math.Abs(t)),
			Lower:    est - crit*se,
			Upper:    est + crit*se,
		}
	}

	r2 := stat.RSquared(x, y, nil, fit.Intercept, fit.Slope)
	fstat := (sst - ssr) / s2
	fdist := distuv.F{D1: 1, D2: float64(dof)}
	llf := -nf / 2 * (math.Log(2*math.Pi) + math.Log(ssr/nf) + 1)

	sum := &Summary{
		N:             n,
		DOF:           dof,
		Confidence:    confidence,
		Intercept:     coef("const", fit.Intercept, math.Sqrt(s2*(1/nf+xbar*xbar/sxx))),
		Slope:         coef("x", fit.Slope, math.Sqrt(s2/sxx)),
		RSquared:      r2,
		AdjRSquared:   1 - (1-r2)*(nf-1)/float64(dof),
		FStatistic:    fstat,
		FPValue:       fdist.Survival(fstat),
		ResidualSE:    math.Sqrt(s2),
		LogLikelihood: llf,
		AIC:           -2*llf + 2*2,
		BIC:           -2*llf + 2*math.Log(nf),
	}
	for _, v := range []float64{sum.Intercept.T, sum.Slope.T, sum.FStatistic, sum.LogLikelihood} {
		if !finite(v) {
			return nil, simerr.Unstable(op, "non-finite statistic in summary")
		}
	}
	return sum, nil
}

// String renders the summary as a plain text table.
func (s *Summary) String() string {
	var sb strings.Builder
	fmt.Fprintln(&sb, "OLS Regression Results")
	fmt.Fprintln(&sb, strings.Repeat("=", 72))

	tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "No. Observations:\t%d\tR-squared:\t%.3f\n", s.N, s.RSquared)
	fmt.Fprintf(tw, "Df Residuals:\t%d\tAdj. R-squared:\t%.3f\n", s.DOF, s.AdjRSquared)
	fmt.Fprintf(tw, "Residual s.e.:\t%.4f\tF-statistic:\t%.2f\n", s.ResidualSE, s.FStatistic)
	fmt.Fprintf(tw, "Log-Likelihood:\t%.2f\tProb (F-statistic):\t%.3g\n", s.LogLikelihood, s.FPValue)
	fmt.Fprintf(tw, "AIC:\t%.2f\tBIC:\t%.2f\n", s.AIC, s.BIC)
	tw.Flush()

	fmt.Fprintln(&sb, strings.Repeat("=", 72))
	lo := (1 - s.Confidence) / 2
	tw = tabwriter.NewWriter(&sb, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "\tcoef\tstd err\tt\tP>|t|\t[%.3f\t%.3f]\t\n", lo, 1-lo)
	for _, c := range []Coefficient{s.Intercept, s.Slope} {
		fmt.Fprintf(tw, "%s\t%.4f\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\t\n", c.Name, c.Estimate, c.StdErr, c.T, c.P, c.Lower, c.Upper)
	}
	tw.Flush()
	fmt.Fprint(&sb, strings.Repeat("=", 72))
	return sb.String()
}
