// Package distrib holds parametric distributions used to generate synthetic data.
package distrib

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Sampler draws n independent values from a distribution using src.
type Sampler interface {
	RandN(src rand.Source, n int) []float64
	Validate() error
}

// NormalDistParams represents the parameters for a normal distribution.
type NormalDistParams struct {
	Mean   float64 `json:"mean" yaml:"mean"`
	StdDev float64 `json:"std_dev" yaml:"std_dev"`
}

// NewNormalDistParams creates a new NormalDistParams instance with the given parameters.
func NewNormalDistParams(mean, stdDev float64) *NormalDistParams {
	return &NormalDistParams{
		Mean:   mean,
		StdDev: stdDev,
	}
}

// Validate checks if the parameters are valid.
func (p *NormalDistParams) Validate() error {
	if p.StdDev <= 0 {
		return fmt.Errorf("std_dev must be positive, got %g", p.StdDev)
	}
	return nil
}

// Dist returns the distuv distribution bound to src.
func (p *NormalDistParams) Dist(src rand.Source) distuv.Normal {
	return distuv.Normal{Mu: p.Mean, Sigma: p.StdDev, Src: src}
}

func (p *NormalDistParams) GenerateVector(src rand.Source, v []float64) {
	d := p.Dist(src)
	for i := range v {
		v[i] = d.Rand()
	}
}

func (p *NormalDistParams) RandN(src rand.Source, n int) []float64 {
	r := make([]float64, n)
	p.GenerateVector(src, r)
	return r
}

// UniDistParams represents a uniform distribution on [Low, High).
type UniDistParams struct {
	Low  float64 `json:"low" yaml:"low"`
	High float64 `json:"high" yaml:"high"`
}

func NewUniDistParams(low, high float64) *UniDistParams {
	return &UniDistParams{
		Low:  low,
		High: high,
	}
}

func (p *UniDistParams) Validate() error {
	if p.Low >= p.High {
		return fmt.Errorf("low must be less than high, got [%g, %g]", p.Low, p.High)
	}
	return nil
}

func (p *UniDistParams) Dist(src rand.Source) distuv.Uniform {
	return distuv.Uniform{Min: p.Low, Max: p.High, Src: src}
}

func (p *UniDistParams) GenerateVector(src rand.Source, v []float64) {
	d := p.Dist(src)
	for i := range v {
		v[i] = d.Rand()
	}
}

func (p *UniDistParams) RandN(src rand.Source, n int) []float64 {
	r := make([]float64, n)
	p.GenerateVector(src, r)
	return r
}

// NewDistribution returns a normal sampler when isNormal is set, a uniform one otherwise.
// The normal sampler ignores low/high, the uniform one ignores mean/stdDev.
func NewDistribution(isNormal bool, mean, stdDev, low, high float64) Sampler {
	if isNormal {
		return NewNormalDistParams(mean, stdDev)
	}
	return NewUniDistParams(low, high)
}
