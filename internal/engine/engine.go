// Package engine is the entry point the presentation layer calls. It owns the
// fixed demo datasets and the random source, validates typed requests and
// dispatches them to the simulation packages.
package engine

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/mwaskom/StatApps/internal/bootstrap"
	"github.com/mwaskom/StatApps/internal/config"
	"github.com/mwaskom/StatApps/internal/dataset"
	"github.com/mwaskom/StatApps/internal/regression"
	"github.com/mwaskom/StatApps/internal/sampling"
	"github.com/mwaskom/StatApps/internal/simerr"
	"github.com/mwaskom/StatApps/internal/ttest"
	"github.com/mwaskom/StatApps/pkg/distrib"
)

// Data generating processes of the two regression demos.
var (
	BootstrapTruth = dataset.LinearTruth{Intercept: 2, Slope: .75, NoiseSD: 1.5}
	FittingTruth   = dataset.LinearTruth{Intercept: 2, Slope: 1.25, NoiseSD: 1}
)

// Engine is safe for concurrent use when its source is (see pkg/rng).
type Engine struct {
	cfg      *config.Config
	src      rand.Source
	logger   *slog.Logger
	validate *validator.Validate

	bootData dataset.Dataset
	fitData  dataset.Dataset
	grid     []float64
	start    regression.Fit
}

// New generates the demo datasets from src and returns a ready engine.
func New(cfg *config.Config, src rand.Source, logger *slog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, simerr.Invalid("engine.New", "%v", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	e := &Engine{
		cfg:      cfg,
		src:      src,
		logger:   logger,
		validate: newValidator(),
		grid:     regression.Linspace(cfg.GridMin, cfg.GridMax, cfg.GridPoints),
	}

	var err error
	if cfg.DataFile != "" {
		e.bootData, err = dataset.Load(cfg.DataFile)
		if err == nil {
			err = e.bootData.Validate()
		}
	} else {
		e.bootData, err = dataset.Generate(BootstrapTruth, distrib.NewUniDistParams(-3, 3), cfg.NumObsBootstrap, src)
	}
	if err != nil {
		return nil, simerr.Wrap(err, "engine.New")
	}

	e.fitData, err = dataset.Generate(FittingTruth, distrib.NewNormalDistParams(0, 2), cfg.NumObsFitting, src)
	if err != nil {
		return nil, simerr.Wrap(err, "engine.New")
	}
	e.start = regression.RandomStart(src)

	logger.Info("engine ready",
		"bootstrap_obs", e.bootData.Len(),
		"fitting_obs", e.fitData.Len(),
		"data_file", cfg.DataFile,
		"grid_points", len(e.grid))
	return e, nil
}

// BootstrapData returns a copy of the regression/bootstrap demo dataset.
func (e *Engine) BootstrapData() dataset.Dataset { return e.bootData.Clone() }

// FittingData returns a copy of the fitting demo dataset.
func (e *Engine) FittingData() dataset.Dataset { return e.fitData.Clone() }

// Grid returns a copy of the evaluation grid.
func (e *Engine) Grid() []float64 { return append([]float64(nil), e.grid...) }

// StartingLine is the randomly chosen initial line of the fitting demo.
func (e *Engine) StartingLine() regression.Fit { return e.start }

// RegressionResult is the fit and band of the bootstrap demo dataset.
type RegressionResult struct {
	Data         dataset.Dataset  `json:"data" yaml:"data"`
	Band         *regression.Band `json:"band" yaml:"band"`
	ErrorAt      int              `json:"error_at" yaml:"error_at"`
	ErrorY       []float64        `json:"error_y,omitempty" yaml:"error_y,omitempty"`
	ErrorDensity []float64        `json:"error_density,omitempty" yaml:"error_density,omitempty"`
}

// Regression fits the bootstrap demo dataset and computes its confidence band.
func (e *Engine) Regression(req RegressionRequest) (*RegressionResult, error) {
	const op = "engine.Regression"
	defer e.trace(op, time.Now(), "confidence", req.Confidence)

	if err := e.check(op, req); err != nil {
		return nil, err
	}
	if req.ErrorAt >= len(e.grid) {
		return nil, simerr.Invalid(op, "error_at=%d outside grid of %d points", req.ErrorAt, len(e.grid))
	}

	x, y := e.bootData.X, e.bootData.Y
	fit, err := regression.OLS(x, y)
	if err != nil {
		return nil, err
	}
	band, err := regression.ConfidenceBand(x, y, fit, e.grid, req.Confidence)
	if err != nil {
		return nil, err
	}

	res := &RegressionResult{Data: e.BootstrapData(), Band: band, ErrorAt: -1}
	if req.ErrorAt >= 0 && req.ErrorPoints > 0 {
		res.ErrorAt = req.ErrorAt
		res.ErrorY, res.ErrorDensity, err = band.ErrorDensity(req.ErrorAt, req.ErrorPoints)
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

// BootstrapResult is a bootstrap ensemble with the analytic band for comparison.
type BootstrapResult struct {
	Data     dataset.Dataset     `json:"data" yaml:"data"`
	Ensemble *bootstrap.Ensemble `json:"ensemble" yaml:"ensemble"`
	Lines    [][]float64         `json:"lines" yaml:"lines"`
	Band     *regression.Band    `json:"band" yaml:"band"`
	MeanFit  regression.Fit      `json:"mean_fit" yaml:"mean_fit"`
	Failed   []int               `json:"failed,omitempty" yaml:"failed,omitempty"`

	Highlight    int    `json:"highlight" yaml:"highlight"`
	Multiplicity []int  `json:"multiplicity,omitempty" yaml:"multiplicity,omitempty"`
	Included     []bool `json:"included,omitempty" yaml:"included,omitempty"`
}

// Bootstrap resamples the bootstrap demo dataset.
func (e *Engine) Bootstrap(req BootstrapRequest) (*BootstrapResult, error) {
	const op = "engine.Bootstrap"
	defer e.trace(op, time.Now(), "n_boot", req.NumBoot, "highlight", req.Highlight)

	if err := e.check(op, req); err != nil {
		return nil, err
	}

	ens, err := bootstrap.Resample(e.bootData, req.NumBoot, e.src)
	if err != nil {
		return nil, err
	}
	x, y := e.bootData.X, e.bootData.Y
	fit, err := regression.OLS(x, y)
	if err != nil {
		return nil, err
	}
	band, err := regression.ConfidenceBand(x, y, fit, e.grid, e.cfg.Confidence)
	if err != nil {
		return nil, err
	}

	res := &BootstrapResult{
		Data:      e.BootstrapData(),
		Ensemble:  ens,
		Lines:     ens.Lines(e.grid),
		Band:      band,
		Failed:    ens.Failed(),
		Highlight: req.Highlight,
	}
	if len(res.Failed) > 0 {
		e.logger.Warn("bootstrap replicates could not be fitted", "count", len(res.Failed))
	}
	if res.MeanFit, err = ens.MeanFit(); err != nil {
		return nil, err
	}
	if req.Highlight >= 0 {
		s, err := ens.At(req.Highlight)
		if err != nil {
			return nil, err
		}
		res.Multiplicity = s.Multiplicity(ens.NumObs)
		res.Included = s.Included(ens.NumObs)
	}
	return res, nil
}

// ScoreResult reports a hand-picked line on the fitting demo dataset.
type ScoreResult struct {
	Data                   dataset.Dataset `json:"data" yaml:"data"`
	regression.ScoreResult `yaml:",inline"`
}

// Score compares a line against the true line of the fitting demo.
func (e *Engine) Score(req ScoreRequest) (*ScoreResult, error) {
	const op = "engine.Score"
	defer e.trace(op, time.Now(), "intercept", req.Intercept, "slope", req.Slope)

	if err := e.check(op, req); err != nil {
		return nil, err
	}
	truth := regression.Fit{Intercept: FittingTruth.Intercept, Slope: FittingTruth.Slope}
	sr, err := regression.Score(e.fitData.X, e.fitData.Y,
		regression.Fit{Intercept: req.Intercept, Slope: req.Slope}, truth)
	if err != nil {
		return nil, err
	}
	return &ScoreResult{Data: e.FittingData(), ScoreResult: *sr}, nil
}

// Summary returns the OLS report of the fitting demo dataset.
func (e *Engine) Summary() (*regression.Summary, error) {
	const op = "engine.Summary"
	defer e.trace(op, time.Now())

	return regression.Summarize(e.fitData.X, e.fitData.Y, e.cfg.Confidence)
}

// Sampling runs the sampling distribution simulation.
func (e *Engine) Sampling(req SamplingRequest) (*sampling.Result, error) {
	const op = "engine.Sampling"
	defer e.trace(op, time.Now(), "population_sd", req.PopulationSD, "sample_size", req.SampleSize)

	if err := e.check(op, req); err != nil {
		return nil, err
	}
	return sampling.Simulate(sampling.Request{
		PopulationSD: req.PopulationSD,
		SampleSize:   req.SampleSize,
		NumSim:       req.NumSim,
	}, e.src)
}

// TTest runs the t-test simulation.
func (e *Engine) TTest(req TTestRequest) (*ttest.Result, error) {
	const op = "engine.TTest"
	defer e.trace(op, time.Now(), "effect_size", req.EffectSize, "sample_size", req.SampleSize)

	if err := e.check(op, req); err != nil {
		return nil, err
	}
	return ttest.Simulate(ttest.Request{
		EffectSize: req.EffectSize,
		SampleSize: req.SampleSize,
		NumSim:     req.NumSim,
		Alpha:      req.Alpha,
	}, e.src)
}

func (e *Engine) trace(op string, start time.Time, attrs ...any) {
	attrs = append(attrs, "op", op, "elapsed", time.Since(start))
	e.logger.Debug("request handled", attrs...)
}
