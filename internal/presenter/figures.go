package presenter

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/mwaskom/StatApps/internal/engine"
	"github.com/mwaskom/StatApps/internal/regression"
	"github.com/mwaskom/StatApps/internal/sampling"
	"github.com/mwaskom/StatApps/internal/ttest"
	"github.com/mwaskom/StatApps/pkg/chart"
	"github.com/mwaskom/StatApps/pkg/histogram"
)

const (
	panelWidth  = 12 * vg.Centimeter
	panelHeight = 9 * vg.Centimeter
)

// Figure is a set of panels saved side by side.
type Figure struct {
	Panels []*plot.Plot
}

// Save writes the panels in one row.
func (f *Figure) Save(filename string) error {
	n := len(f.Panels)
	return chart.Save(filename, 1, n, vg.Length(n)*panelWidth, panelHeight, f.Panels...)
}

// RegressionFigure draws the data, the fitted line with its confidence band
// and, when requested, the error density at one grid point.
func RegressionFigure(res *engine.RegressionResult) (*Figure, error) {
	b := res.Band
	p := chart.New("Confidence intervals on regression model", "x", "y")
	if err := chart.AddBand(p, b.XX, b.Lower, b.Upper, chart.BandBlue); err != nil {
		return nil, err
	}
	if err := chart.AddLine(p, b.XX, b.YHat, chart.LineBlue, vg.Points(2)); err != nil {
		return nil, err
	}
	if err := chart.AddPoints(p, res.Data.X, res.Data.Y, nil); err != nil {
		return nil, err
	}
	if res.ErrorAt >= 0 && len(res.ErrorDensity) > 0 {
		// Плотность ошибки рисуется горизонтально от точки сетки
		x0 := b.XX[res.ErrorAt]
		peak := floats.Max(res.ErrorDensity)
		scale := (b.XX[len(b.XX)-1] - b.XX[0]) / 8 / peak
		xs := make([]float64, len(res.ErrorDensity))
		for i, d := range res.ErrorDensity {
			xs[i] = x0 + d*scale
		}
		if err := chart.AddLine(p, xs, res.ErrorY, chart.BootRed, vg.Points(1.5)); err != nil {
			return nil, err
		}
		lo, hi := floats.Min(res.ErrorY), floats.Max(res.ErrorY)
		if err := chart.AddVLine(p, x0, lo, hi); err != nil {
			return nil, err
		}
	}
	return &Figure{Panels: []*plot.Plot{p}}, nil
}

// BootstrapFigure overlays the bootstrap lines on the data. The highlighted
// replicate is drawn in red with point sizes scaled by multiplicity.
func BootstrapFigure(res *engine.BootstrapResult) (*Figure, error) {
	p := chart.New("Bootstrapping a regression model", "x", "y")
	xx := res.Band.XX
	if err := chart.AddBand(p, xx, res.Band.Lower, res.Band.Upper, chart.BandBlue); err != nil {
		return nil, err
	}
	for i, line := range res.Lines {
		if line == nil || i == res.Highlight {
			continue
		}
		if err := chart.AddLine(p, xx, line, chart.BootGray, vg.Points(0.5)); err != nil {
			return nil, err
		}
	}
	if res.Highlight >= 0 && res.Lines[res.Highlight] != nil {
		if err := chart.AddLine(p, xx, res.Lines[res.Highlight], chart.BootRed, vg.Points(2)); err != nil {
			return nil, err
		}
	}

	var style func(int) draw.GlyphStyle
	if res.Multiplicity != nil {
		style = func(i int) draw.GlyphStyle {
			g := draw.GlyphStyle{Color: chart.PointDark, Radius: vg.Points(3), Shape: draw.CircleGlyph{}}
			if n := res.Multiplicity[i]; n > 0 {
				g.Color = chart.BootRed
				g.Radius = vg.Points(3 * math.Sqrt(float64(n)))
			} else {
				g.Shape = draw.RingGlyph{}
			}
			return g
		}
	}
	if err := chart.AddPoints(p, res.Data.X, res.Data.Y, style); err != nil {
		return nil, err
	}
	return &Figure{Panels: []*plot.Plot{p}}, nil
}

// ScoreFigure shows the chosen line over the data and the histogram of its residuals.
func ScoreFigure(res *engine.ScoreResult) (*Figure, error) {
	fitPlot := chart.New("Simple linear regression", "x", "y")
	if err := chart.AddPoints(fitPlot, res.Data.X, res.Data.Y, nil); err != nil {
		return nil, err
	}
	lo, hi := floats.Min(res.Data.X), floats.Max(res.Data.X)
	xs := regression.Linspace(lo, hi, 2)
	c := chart.FitRed
	if res.BestFit {
		c = chart.FitBlue
	}
	if err := chart.AddLine(fitPlot, xs, res.Candidate.PredictAll(xs), c, vg.Points(2)); err != nil {
		return nil, err
	}

	h, err := histogram.New(-5, 5, .5)
	if err != nil {
		return nil, err
	}
	h.Fill(res.Residuals)
	resPlot := chart.New("Residuals", "residual", "count")
	chart.AddBars(resPlot, h.Bins, h.Counts, c)
	return &Figure{Panels: []*plot.Plot{fitPlot, resPlot}}, nil
}

// SamplingFigure draws the population density, one sample and the
// distribution of sample means.
func SamplingFigure(res *sampling.Result) (*Figure, error) {
	grid := regression.Linspace(-9, 9, 181)
	pop := chart.New("Population", "x", "density")
	if err := chart.AddLine(pop, grid, res.Density(grid), chart.LineBlue, vg.Points(2)); err != nil {
		return nil, err
	}

	one, err := histogram.New(-9, 9, 1)
	if err != nil {
		return nil, err
	}
	one.Fill(res.OneSample)
	samp := chart.New("One sample", "x", "count")
	chart.AddBars(samp, one.Bins, one.Counts, chart.BootGray)
	s := res.Summary
	if err := chart.AddVLine(samp, s.Mean, 0, float64(one.Max())); err != nil {
		return nil, err
	}

	means, err := histogram.New(-9, 9, .2)
	if err != nil {
		return nil, err
	}
	means.Fill(res.SampleMeans)
	dist := chart.New("Sampling distribution", "sample mean", "count")
	chart.AddBars(dist, means.Bins, means.Counts, chart.LineBlue)
	return &Figure{Panels: []*plot.Plot{pop, samp, dist}}, nil
}

// TTestFigure draws the distributions of t statistics and p values with the
// rejection thresholds.
func TTestFigure(res *ttest.Result) (*Figure, error) {
	th, err := histogram.New(-10, 10, .5)
	if err != nil {
		return nil, err
	}
	th.Fill(res.TStats)
	tp := chart.New("t statistics", "t", "count")
	chart.AddBars(tp, th.Bins, th.Counts, chart.LineBlue)
	if err := chart.AddVLine(tp, res.CriticalT, 0, float64(th.Max())); err != nil {
		return nil, err
	}

	ph, err := histogram.New(0, 1, .025)
	if err != nil {
		return nil, err
	}
	ph.Fill(res.PValues)
	pp := chart.New("p values", "p", "count")
	chart.AddBars(pp, ph.Bins, ph.Counts, chart.BootRed)
	if err := chart.AddVLine(pp, res.CriticalP, 0, float64(ph.Max())); err != nil {
		return nil, err
	}
	return &Figure{Panels: []*plot.Plot{tp, pp}}, nil
}
