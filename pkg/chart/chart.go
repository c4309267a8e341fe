// Package chart builds gonum/plot figures from plain numeric series.
package chart

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"
)

// Colours of the demo figures.
var (
	LineBlue  = color.RGBA{R: 0x22, G: 0x22, B: 0x99, A: 0xff}
	BandBlue  = color.RGBA{R: 0x22, G: 0x22, B: 0x99, A: 0x33}
	BootRed   = color.RGBA{R: 0xcc, G: 0x22, B: 0x22, A: 0xff}
	BootGray  = color.RGBA{R: 0x99, G: 0x99, B: 0x99, A: 0xff}
	PointDark = color.RGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xff}
	FitBlue   = color.RGBA{R: 0x63, G: 0x6e, B: 0xfa, A: 0xff}
	FitRed    = color.RGBA{R: 0xef, G: 0x55, B: 0x3b, A: 0xff}
)

// XYs zips two equal-length slices.
func XYs(x, y []float64) plotter.XYs {
	pts := make(plotter.XYs, len(x))
	for i := range x {
		pts[i] = plotter.XY{X: x[i], Y: y[i]}
	}
	return pts
}

// New returns a plot with a title and axis labels.
func New(title, xlabel, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	return p
}

// AddLine draws y over x.
func AddLine(p *plot.Plot, x, y []float64, c color.Color, width vg.Length) error {
	l, err := plotter.NewLine(XYs(x, y))
	if err != nil {
		return err
	}
	l.Color = c
	l.Width = width
	p.Add(l)
	return nil
}

// AddBand fills the area between lower and upper.
func AddBand(p *plot.Plot, x, lower, upper []float64, c color.Color) error {
	pts := make(plotter.XYs, 0, 2*len(x))
	pts = append(pts, XYs(x, lower)...)
	for i := len(x) - 1; i >= 0; i-- {
		pts = append(pts, plotter.XY{X: x[i], Y: upper[i]})
	}
	poly, err := plotter.NewPolygon(pts)
	if err != nil {
		return err
	}
	poly.Color = c
	poly.LineStyle.Width = 0
	p.Add(poly)
	return nil
}

// AddPoints draws a scatter. style, when not nil, sets the glyph of point i.
func AddPoints(p *plot.Plot, x, y []float64, style func(i int) draw.GlyphStyle) error {
	s, err := plotter.NewScatter(XYs(x, y))
	if err != nil {
		return err
	}
	s.GlyphStyle.Color = PointDark
	s.GlyphStyle.Radius = vg.Points(3)
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	if style != nil {
		s.GlyphStyleFunc = style
	}
	p.Add(s)
	return nil
}

// AddBars draws precomputed histogram bins: edges has one more entry than counts.
func AddBars(p *plot.Plot, edges []float64, counts []int, c color.Color) {
	bins := make([]plotter.HistogramBin, len(counts))
	for i, n := range counts {
		bins[i] = plotter.HistogramBin{Min: edges[i], Max: edges[i+1], Weight: float64(n)}
	}
	h := &plotter.Histogram{
		Bins:      bins,
		Width:     edges[len(edges)-1] - edges[0],
		FillColor: c,
		LineStyle: plotter.DefaultLineStyle,
	}
	h.LineStyle.Width = vg.Points(0.5)
	p.Add(h)
}

// AddVLine draws a dotted vertical line at x spanning [ymin, ymax].
func AddVLine(p *plot.Plot, x, ymin, ymax float64) error {
	if math.IsNaN(x) {
		return nil
	}
	l, err := plotter.NewLine(plotter.XYs{{X: x, Y: ymin}, {X: x, Y: ymax}})
	if err != nil {
		return err
	}
	l.Color = BootGray
	l.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
	p.Add(l)
	return nil
}

// Save lays plots out in a rows x cols grid and writes them to filename.
// The format follows the extension: .pdf or .png.
func Save(filename string, rows, cols int, width, height vg.Length, plots ...*plot.Plot) error {
	if len(plots) > rows*cols {
		return fmt.Errorf("chart: %d plots do not fit a %dx%d grid", len(plots), rows, cols)
	}
	grid := make([][]*plot.Plot, rows)
	for r := range grid {
		grid[r] = make([]*plot.Plot, cols)
		for c := range grid[r] {
			if i := r*cols + c; i < len(plots) {
				grid[r][c] = plots[i]
			}
		}
	}

	var (
		canvas vg.CanvasWriterTo
		dc     draw.Canvas
	)
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".pdf":
		c := vgpdf.New(width, height)
		canvas, dc = c, draw.New(c)
	case ".png":
		c := vgimg.New(width, height)
		canvas, dc = vgimg.PngCanvas{Canvas: c}, draw.New(c)
	default:
		return fmt.Errorf("chart: unsupported output format %q", ext)
	}

	tiles := draw.Tiles{
		Rows: rows, Cols: cols,
		PadX: vg.Millimeter, PadY: vg.Millimeter,
		PadTop: vg.Points(4), PadBottom: vg.Points(4),
		PadLeft: vg.Points(4), PadRight: vg.Points(4),
	}
	canvases := plot.Align(grid, tiles, dc)
	for r := range grid {
		for c, p := range grid[r] {
			if p != nil {
				p.Draw(canvases[r][c])
			}
		}
	}

	w, err := os.Create(filename)
	if err != nil {
		return err
	}
	if _, err = canvas.WriteTo(w); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
