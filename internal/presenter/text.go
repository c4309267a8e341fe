package presenter

import (
	"fmt"
	"io"
	"strings"

	"github.com/mwaskom/StatApps/internal/engine"
	"github.com/mwaskom/StatApps/internal/sampling"
	"github.com/mwaskom/StatApps/internal/ttest"
	"github.com/mwaskom/StatApps/pkg/histogram"
)

const barWidth = 40

// RegressionText describes the fit and a few points of its confidence band.
func RegressionText(res *engine.RegressionResult) func(io.Writer) error {
	return func(w io.Writer) error {
		b := res.Band
		fmt.Fprintf(w, "Confidence intervals on regression model (n = %d)\n", b.N)
		fmt.Fprintf(w, "fit: y = %.4f + %.4f x   residual s.e. = %.4f   t(%d) critical = %.4f\n",
			b.Fit.Intercept, b.Fit.Slope, b.ResidualSE, b.DOF, b.Critical)
		fmt.Fprintf(w, "%8s %10s %10s %10s %10s\n", "x", "yhat", "lower", "upper", "se")
		step := max(1, b.Len()/10)
		for i := 0; i < b.Len(); i += step {
			fmt.Fprintf(w, "%8.3f %10.4f %10.4f %10.4f %10.4f\n", b.XX[i], b.YHat[i], b.Lower[i], b.Upper[i], b.SE[i])
		}
		if res.ErrorAt >= 0 {
			fmt.Fprintf(w, "error distribution at x = %.3f: t(%d, loc=%.4f, scale=%.4f)\n",
				b.XX[res.ErrorAt], b.DOF, b.YHat[res.ErrorAt], b.SE[res.ErrorAt])
		}
		return nil
	}
}

// BootstrapText lists the bootstrap fits and the highlighted replicate.
func BootstrapText(res *engine.BootstrapResult) func(io.Writer) error {
	return func(w io.Writer) error {
		fmt.Fprintf(w, "Bootstrap ensemble: %d samples of %d observations\n", res.Ensemble.Len(), res.Ensemble.NumObs)
		fmt.Fprintf(w, "analytic fit:  y = %.4f + %.4f x\n", res.Band.Fit.Intercept, res.Band.Fit.Slope)
		fmt.Fprintf(w, "bootstrap mean y = %.4f + %.4f x\n", res.MeanFit.Intercept, res.MeanFit.Slope)
		for i, s := range res.Ensemble.Samples {
			mark := " "
			if i == res.Highlight {
				mark = "*"
			}
			if !s.OK() {
				fmt.Fprintf(w, "%s%3d  failed: %v\n", mark, i, s.Err)
				continue
			}
			idx, _ := s.Distinct()
			fmt.Fprintf(w, "%s%3d  intercept %8.4f  slope %8.4f  distinct obs %d\n", mark, i, s.Fit.Intercept, s.Fit.Slope, len(idx))
		}
		if res.Highlight >= 0 {
			fmt.Fprintf(w, "sample %d multiplicity: %s\n", res.Highlight, joinInts(res.Multiplicity))
		}
		return nil
	}
}

// ScoreText compares the chosen line with the reference and OLS lines.
func ScoreText(res *engine.ScoreResult) func(io.Writer) error {
	return func(w io.Writer) error {
		fmt.Fprintf(w, "Simple linear regression (n = %d)\n", res.Data.Len())
		fmt.Fprintf(w, "Intercept = %.1f\nSlope = %.1f\n", res.Candidate.Intercept, res.Candidate.Slope)
		fmt.Fprintf(w, "sum of squares of residuals: %.3f (true line %.3f, OLS %.3f)\n", res.SSR, res.ReferenceSSR, res.OLSSSR)
		if res.BestFit {
			fmt.Fprintln(w, "the chosen line is the true line")
		}
		h, err := histogram.New(-5, 5, .5)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "residuals:")
		return h.Fill(res.Residuals).Print(w, barWidth)
	}
}

// SamplingText reports the descriptive statistics and the distribution of means.
func SamplingText(res *sampling.Result) func(io.Writer) error {
	return func(w io.Writer) error {
		r := res.Request
		s := res.Summary
		fmt.Fprintf(w, "Sampling and standard error: population N(0, %.2f), N = %d\n", r.PopulationSD, r.SampleSize)
		fmt.Fprintf(w, "Pop. mean+/-s.d.:  [%.3f, %.3f]\n", res.PopulationRange.Low, res.PopulationRange.High)
		fmt.Fprintf(w, "Samp. mean+/-s.d.: [%.3f, %.3f]  (mean %.3f, sd %.3f)\n", res.SampleRange.Low, res.SampleRange.High, s.Mean, s.SD)
		fmt.Fprintf(w, "Samp. mean+/-s.e.: [%.3f, %.3f]  (sem %.3f)\n", res.MeanRange.Low, res.MeanRange.High, s.SEM)

		h, err := histogram.New(-9, 9, .2)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Distribution of means from %d samples:\n", r.NumSim)
		return h.Fill(res.SampleMeans).Print(w, barWidth)
	}
}

// TTestText reports power and the distribution of t statistics.
func TTestText(res *ttest.Result) func(io.Writer) error {
	return func(w io.Writer) error {
		r := res.Request
		fmt.Fprintf(w, "Simulating t-tests: effect size %.2f, sample size %d, %d experiments\n", r.EffectSize, r.SampleSize, r.NumSim)
		fmt.Fprintf(w, "critical t = %.3f (dof %d), critical p = %.3f\n", res.CriticalT, res.DOF, res.CriticalP)
		fmt.Fprintf(w, "Theoretical power: %s\n", res.Power)
		fmt.Fprintf(w, "Proportion rejected nulls: %.2f\n", res.RejectionRate)

		h, err := histogram.New(-10, 10, .5)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "t statistics:")
		return h.Fill(res.TStats).Print(w, barWidth)
	}
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = fmt.Sprint(x)
	}
	return strings.Join(parts, " ")
}
