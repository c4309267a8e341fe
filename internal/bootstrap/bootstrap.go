// Package bootstrap resamples a regression dataset with replacement and refits
// the line on every resample.
package bootstrap

import (
	"math/rand/v2"
	"slices"

	"github.com/mwaskom/StatApps/internal/dataset"
	"github.com/mwaskom/StatApps/internal/regression"
	"github.com/mwaskom/StatApps/internal/simerr"
)

// Sample is one bootstrap replicate. Err is set when the resample could not
// be fitted (for example every drawn x is the same); Fit is then zero.
type Sample struct {
	Indices []int          `json:"indices" yaml:"indices"`
	Fit     regression.Fit `json:"fit" yaml:"fit"`
	Err     error          `json:"-" yaml:"-"`
}

// OK reports whether the replicate was fitted.
func (s Sample) OK() bool {
	return s.Err == nil
}

// Multiplicity returns how many times each of the n observations was drawn.
func (s Sample) Multiplicity(n int) []int {
	counts := make([]int, n)
	for _, i := range s.Indices {
		counts[i]++
	}
	return counts
}

// Included reports, for each of the n observations, whether it was drawn at least once.
func (s Sample) Included(n int) []bool {
	in := make([]bool, n)
	for _, i := range s.Indices {
		in[i] = true
	}
	return in
}

// Distinct returns the drawn indices in increasing order and how often each
// was drawn.
func (s Sample) Distinct() (indices, counts []int) {
	sorted := slices.Clone(s.Indices)
	slices.Sort(sorted)
	for _, i := range sorted {
		if k := len(indices); k > 0 && indices[k-1] == i {
			counts[k-1]++
			continue
		}
		indices = append(indices, i)
		counts = append(counts, 1)
	}
	return indices, counts
}

// Ensemble is an ordered collection of replicates; position i is replicate i.
type Ensemble struct {
	Samples []Sample `json:"samples" yaml:"samples"`
	NumObs  int      `json:"num_obs" yaml:"num_obs"`
}

// Resample draws nBoot resamples of ds, each of ds.Len() indices drawn
// uniformly with replacement, and fits each one.
func Resample(ds dataset.Dataset, nBoot int, src rand.Source) (*Ensemble, error) {
	const op = "bootstrap.Resample"
	if err := ds.Validate(); err != nil {
		return nil, simerr.Wrap(err, op)
	}
	n := ds.Len()
	if n < regression.MinObservations {
		return nil, simerr.Degenerate(op, "need at least %d observations, got %d", regression.MinObservations, n)
	}
	if nBoot < 1 {
		return nil, simerr.Invalid(op, "number of bootstrap samples must be positive, got %d", nBoot)
	}

	r := rand.New(src)
	e := &Ensemble{Samples: make([]Sample, nBoot), NumObs: n}
	for b := range nBoot {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = r.IntN(n)
		}
		sub := ds.Select(idx)
		fit, err := regression.OLS(sub.X, sub.Y)
		e.Samples[b] = Sample{Indices: idx, Fit: fit, Err: err}
	}
	return e, nil
}

// Len returns the number of replicates.
func (e *Ensemble) Len() int {
	return len(e.Samples)
}

// At returns replicate i.
func (e *Ensemble) At(i int) (Sample, error) {
	if i < 0 || i >= len(e.Samples) {
		return Sample{}, simerr.Invalid("bootstrap.Ensemble.At", "sample %d out of range [0, %d)", i, len(e.Samples))
	}
	return e.Samples[i], nil
}

// Lines evaluates each replicate's line over xx. Failed replicates get a nil row.
func (e *Ensemble) Lines(xx []float64) [][]float64 {
	lines := make([][]float64, len(e.Samples))
	for i, s := range e.Samples {
		if s.OK() {
			lines[i] = s.Fit.PredictAll(xx)
		}
	}
	return lines
}

// Fits returns the fits of the successful replicates in order.
func (e *Ensemble) Fits() []regression.Fit {
	fits := make([]regression.Fit, 0, len(e.Samples))
	for _, s := range e.Samples {
		if s.OK() {
			fits = append(fits, s.Fit)
		}
	}
	return fits
}

// Failed returns the positions of replicates that could not be fitted.
func (e *Ensemble) Failed() []int {
	var idx []int
	for i, s := range e.Samples {
		if !s.OK() {
			idx = append(idx, i)
		}
	}
	return idx
}

// MeanFit averages the coefficients of the successful replicates.
func (e *Ensemble) MeanFit() (regression.Fit, error) {
	fits := e.Fits()
	if len(fits) == 0 {
		return regression.Fit{}, simerr.Degenerate("bootstrap.Ensemble.MeanFit", "no replicate could be fitted")
	}
	var m regression.Fit
	for _, f := range fits {
		m.Intercept += f.Intercept
		m.Slope += f.Slope
	}
	m.Intercept /= float64(len(fits))
	m.Slope /= float64(len(fits))
	return m, nil
}
