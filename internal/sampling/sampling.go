// Package sampling simulates the sampling distribution of the mean of a
// normal population.
package sampling

import (
	"math"
	"math/rand/v2"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/mwaskom/StatApps/internal/simerr"
)

// Request holds the simulation parameters.
type Request struct {
	// PopulationSD is the standard deviation of the zero-mean normal population.
	PopulationSD float64 `json:"population_sd" yaml:"population_sd"`
	SampleSize   int     `json:"sample_size" yaml:"sample_size"`
	NumSim       int     `json:"num_sim" yaml:"num_sim"`
}

func (r Request) validate() error {
	const op = "sampling.Simulate"
	if !(r.PopulationSD > 0) || math.IsInf(r.PopulationSD, 0) {
		return simerr.Invalid(op, "population sd must be positive and finite, got %g", r.PopulationSD)
	}
	if r.SampleSize < 1 {
		return simerr.Degenerate(op, "sample size must be at least 1, got %d", r.SampleSize)
	}
	if r.NumSim < 1 {
		return simerr.Invalid(op, "number of simulations must be positive, got %d", r.NumSim)
	}
	return nil
}

// Summary describes one sample.
type Summary struct {
	Mean float64 `json:"mean" yaml:"mean"`
	SD   float64 `json:"sd" yaml:"sd"`
	// SEM is the standard error of the mean, SD / sqrt(n).
	SEM float64 `json:"sem" yaml:"sem"`
}

// Interval is a centre ± half-width range.
type Interval struct {
	Low  float64 `json:"low" yaml:"low"`
	High float64 `json:"high" yaml:"high"`
}

// Result is the outcome of one simulation.
type Result struct {
	Request    Request       `json:"request" yaml:"request"`
	Population distuv.Normal `json:"-" yaml:"-"`
	// OneSample holds SampleSize draws from the population.
	OneSample []float64 `json:"one_sample" yaml:"one_sample"`
	// SampleMeans holds the means of NumSim independent samples.
	SampleMeans []float64 `json:"sample_means" yaml:"sample_means"`
	Summary     Summary   `json:"summary" yaml:"summary"`

	// The three annotation ranges shown next to each panel.
	PopulationRange Interval `json:"population_range" yaml:"population_range"`
	SampleRange     Interval `json:"sample_range" yaml:"sample_range"`
	MeanRange       Interval `json:"mean_range" yaml:"mean_range"`
}

// Simulate draws one sample and NumSim samples from N(0, PopulationSD) and
// returns the single sample and the batch of sample means.
func Simulate(req Request, src rand.Source) (*Result, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	pop := distuv.Normal{Mu: 0, Sigma: req.PopulationSD, Src: src}
	one := make([]float64, req.SampleSize)
	for i := range one {
		one[i] = pop.Rand()
	}

	means := make([]float64, req.NumSim)
	for k := range means {
		var sum float64
		for range req.SampleSize {
			sum += pop.Rand()
		}
		means[k] = sum / float64(req.SampleSize)
	}

	summary, err := Describe(one)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Request:     req,
		Population:  distuv.Normal{Mu: 0, Sigma: req.PopulationSD},
		OneSample:   one,
		SampleMeans: means,
		Summary:     summary,

		PopulationRange: Interval{Low: -req.PopulationSD, High: req.PopulationSD},
		SampleRange:     Interval{Low: summary.Mean - summary.SD, High: summary.Mean + summary.SD},
		MeanRange:       Interval{Low: summary.Mean - summary.SEM, High: summary.Mean + summary.SEM},
	}
	return res, nil
}

// Density evaluates the population probability density over grid.
func (r *Result) Density(grid []float64) []float64 {
	return Density(r.Request.PopulationSD, grid)
}

// Density evaluates the N(0, sd) probability density over grid.
func Density(sd float64, grid []float64) []float64 {
	d := distuv.Normal{Mu: 0, Sigma: sd}
	out := make([]float64, len(grid))
	for i, x := range grid {
		out[i] = d.Prob(x)
	}
	return out
}

// Describe returns the mean, standard deviation and standard error of the
// mean of sample. The standard deviation divides by n, so a single
// observation has SD 0.
func Describe(sample []float64) (Summary, error) {
	const op = "sampling.Describe"
	if len(sample) == 0 {
		return Summary{}, simerr.Degenerate(op, "empty sample")
	}
	mean, err := stats.Mean(sample)
	if err != nil {
		return Summary{}, simerr.Degenerate(op, "mean: %v", err)
	}
	sd, err := stats.StandardDeviationPopulation(sample)
	if err != nil {
		return Summary{}, simerr.Degenerate(op, "standard deviation: %v", err)
	}
	if math.IsNaN(sd) || math.IsInf(sd, 0) || math.IsNaN(mean) {
		return Summary{}, simerr.Unstable(op, "non-finite summary (mean=%g, sd=%g)", mean, sd)
	}
	return Summary{
		Mean: mean,
		SD:   sd,
		SEM:  sd / math.Sqrt(float64(len(sample))),
	}, nil
}
