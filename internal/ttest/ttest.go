// Package ttest simulates batches of one-sample t-tests to show power and
// type I error rates.
package ttest

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/mwaskom/StatApps/internal/simerr"
)

// DefaultAlpha is the conventional significance level.
const DefaultAlpha = 0.05

// Request holds the simulation parameters. Samples are drawn from
// N(EffectSize, 1) and tested against a null mean of zero.
type Request struct {
	EffectSize float64 `json:"effect_size" yaml:"effect_size"`
	SampleSize int     `json:"sample_size" yaml:"sample_size"`
	NumSim     int     `json:"num_sim" yaml:"num_sim"`
	Alpha      float64 `json:"alpha" yaml:"alpha"`
}

func (r Request) validate() error {
	const op = "ttest.Simulate"
	if math.IsNaN(r.EffectSize) || math.IsInf(r.EffectSize, 0) {
		return simerr.Invalid(op, "effect size must be finite, got %g", r.EffectSize)
	}
	if r.SampleSize < 2 {
		return simerr.Degenerate(op, "sample size must be at least 2, got %d", r.SampleSize)
	}
	if r.NumSim < 1 {
		return simerr.Invalid(op, "number of simulations must be positive, got %d", r.NumSim)
	}
	if !(r.Alpha > 0 && r.Alpha < 1) {
		return simerr.Invalid(op, "alpha must be in (0, 1), got %g", r.Alpha)
	}
	return nil
}

// Power is the theoretical power of the test. It is undefined when the
// effect size is zero, since every rejection is then a false positive.
type Power struct {
	Value   float64
	Defined bool
}

func (p Power) String() string {
	if !p.Defined {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", p.Value)
}

// MarshalJSON encodes an undefined power as null.
func (p Power) MarshalJSON() ([]byte, error) {
	if !p.Defined {
		return []byte("null"), nil
	}
	return json.Marshal(p.Value)
}

// MarshalYAML encodes an undefined power as "n/a".
func (p Power) MarshalYAML() (any, error) {
	if !p.Defined {
		return "n/a", nil
	}
	return p.Value, nil
}

// Result is the outcome of one batch of simulated experiments.
type Result struct {
	Request Request `json:"request" yaml:"request"`
	DOF     int     `json:"dof" yaml:"dof"`

	// TStats and PValues have one entry per simulated experiment.
	TStats  []float64 `json:"t_stats" yaml:"t_stats"`
	PValues []float64 `json:"p_values" yaml:"p_values"`

	CriticalT     float64 `json:"critical_t" yaml:"critical_t"`
	CriticalP     float64 `json:"critical_p" yaml:"critical_p"`
	Power         Power   `json:"power" yaml:"power"`
	RejectionRate float64 `json:"rejection_rate" yaml:"rejection_rate"`
}

// Simulate runs NumSim one-sample, one-tailed t-tests.
func Simulate(req Request, src rand.Source) (*Result, error) {
	const op = "ttest.Simulate"
	if err := req.validate(); err != nil {
		return nil, err
	}

	n := req.SampleSize
	dof := n - 1
	sqrtN := math.Sqrt(float64(n))
	null := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(dof)}
	gen := distuv.Normal{Mu: req.EffectSize, Sigma: 1, Src: src}

	res := &Result{
		Request:   req,
		DOF:       dof,
		TStats:    make([]float64, req.NumSim),
		PValues:   make([]float64, req.NumSim),
		CriticalT: null.Quantile(1 - req.Alpha),
		CriticalP: req.Alpha,
	}

	sample := make([]float64, n)
	rejected := 0
	for k := range req.NumSim {
		for i := range sample {
			sample[i] = gen.Rand()
		}
		mean, sd := stat.MeanStdDev(sample, nil)
		if !(sd > 0) {
			return nil, simerr.Unstable(op, "experiment %d has zero sample standard deviation", k)
		}
		t := mean / (sd / sqrtN)
		res.TStats[k] = t
		res.PValues[k] = null.Survival(t)
		if t > res.CriticalT {
			rejected++
		}
	}
	res.RejectionRate = float64(rejected) / float64(req.NumSim)

	if req.EffectSize != 0 {
		// t распределение, сдвинутое на d*sqrt(n)
		shifted := distuv.StudentsT{Mu: req.EffectSize * sqrtN, Sigma: 1, Nu: float64(dof)}
		res.Power = Power{Value: shifted.Survival(res.CriticalT), Defined: true}
	}
	return res, nil
}
