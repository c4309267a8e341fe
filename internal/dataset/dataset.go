// Package dataset holds the fixed (x, y) observations the regression demos work on.
package dataset

import (
	"fmt"
	"math/rand/v2"

	"github.com/mwaskom/StatApps/internal/simerr"
	"github.com/mwaskom/StatApps/pkg/distrib"
	"github.com/mwaskom/StatApps/pkg/readmatrix"
)

// Dataset is an ordered set of paired observations.
type Dataset struct {
	X []float64 `json:"x" yaml:"x"`
	Y []float64 `json:"y" yaml:"y"`
}

// LinearTruth is the data generating process y = Intercept + Slope*x + N(0, NoiseSD).
type LinearTruth struct {
	Intercept float64 `json:"intercept" yaml:"intercept"`
	Slope     float64 `json:"slope" yaml:"slope"`
	NoiseSD   float64 `json:"noise_sd" yaml:"noise_sd"`
}

// Generate draws n observations: x from xdist, y from the linear truth.
func Generate(truth LinearTruth, xdist distrib.Sampler, n int, src rand.Source) (Dataset, error) {
	if n < 1 {
		return Dataset{}, simerr.Invalid("dataset.Generate", "n must be positive, got %d", n)
	}
	if err := xdist.Validate(); err != nil {
		return Dataset{}, simerr.Invalid("dataset.Generate", "x distribution: %v", err)
	}
	noise := distrib.NewNormalDistParams(0, truth.NoiseSD)
	if err := noise.Validate(); err != nil {
		return Dataset{}, simerr.Invalid("dataset.Generate", "noise: %v", err)
	}

	x := xdist.RandN(src, n)
	y := noise.RandN(src, n)
	for i := range y {
		y[i] += truth.Intercept + truth.Slope*x[i]
	}
	return Dataset{X: x, Y: y}, nil
}

// Load reads a dataset from a text table; the first two columns are x and y.
func Load(path string) (Dataset, error) {
	m, err := readmatrix.ReadMatrix(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("load dataset %s: %w", path, err)
	}
	r, c := m.Dims()
	if c < 2 {
		return Dataset{}, simerr.Invalid("dataset.Load", "%s: need 2 columns, got %d", path, c)
	}
	ds := Dataset{X: make([]float64, r), Y: make([]float64, r)}
	for i := range r {
		ds.X[i] = m.At(i, 0)
		ds.Y[i] = m.At(i, 1)
	}
	return ds, nil
}

// Len returns the number of observations.
func (d Dataset) Len() int {
	return len(d.X)
}

// Validate checks that x and y are paired.
func (d Dataset) Validate() error {
	if len(d.X) != len(d.Y) {
		return simerr.Invalid("dataset", "x and y lengths differ: %d != %d", len(d.X), len(d.Y))
	}
	return nil
}

// Select returns the observations at the given indices, in order.
// Indices may repeat.
func (d Dataset) Select(indices []int) Dataset {
	out := Dataset{X: make([]float64, len(indices)), Y: make([]float64, len(indices))}
	for i, j := range indices {
		out.X[i] = d.X[j]
		out.Y[i] = d.Y[j]
	}
	return out
}

// Clone returns a deep copy.
func (d Dataset) Clone() Dataset {
	return Dataset{X: append([]float64(nil), d.X...), Y: append([]float64(nil), d.Y...)}
}
