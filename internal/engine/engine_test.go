package engine

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwaskom/StatApps/internal/config"
	"github.com/mwaskom/StatApps/internal/simerr"
	"github.com/mwaskom/StatApps/pkg/rng"
)

func newEngine(t *testing.T, seed uint64) *Engine {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	e, err := New(config.Default(), rng.New(seed), logger)
	require.NoError(t, err)
	return e
}

func TestNewGeneratesDatasets(t *testing.T) {
	e := newEngine(t, 1)
	assert.Equal(t, 30, e.BootstrapData().Len())
	assert.Equal(t, 50, e.FittingData().Len())
	assert.Len(t, e.Grid(), 101)

	// Данные фиксированы на всё время жизни движка
	a := e.BootstrapData()
	a.X[0] = 1e9
	assert.NotEqual(t, 1e9, e.BootstrapData().X[0])

	same := newEngine(t, 1)
	assert.Equal(t, e.BootstrapData(), same.BootstrapData())
	assert.Equal(t, e.StartingLine(), same.StartingLine())
}

func TestNewFromDataFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "obs.txt")
	require.NoError(t, os.WriteFile(path, []byte("-1 1\n0 2\n1 3\n2 3.5\n"), 0o644))

	cfg := config.Default()
	cfg.DataFile = path
	e, err := New(cfg, rng.New(1), nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{-1, 0, 1, 2}, e.BootstrapData().X)

	cfg.DataFile = filepath.Join(t.TempDir(), "missing.txt")
	_, err = New(cfg, rng.New(1), nil)
	assert.Error(t, err)
}

func TestNewRejectsConfig(t *testing.T) {
	cfg := config.Default()
	cfg.NumObsBootstrap = 5
	_, err := New(cfg, rng.New(1), nil)
	assert.ErrorIs(t, err, simerr.ErrInvalidParameter)
}

func TestRegression(t *testing.T) {
	e := newEngine(t, 2)
	res, err := e.Regression(RegressionRequest{Confidence: .95, ErrorAt: 20, ErrorPoints: 100})
	require.NoError(t, err)
	assert.Equal(t, 101, res.Band.Len())
	assert.Equal(t, 20, res.ErrorAt)
	assert.Len(t, res.ErrorY, 100)
	assert.Len(t, res.ErrorDensity, 100)

	res, err = e.Regression(RegressionRequest{Confidence: .95, ErrorAt: -1})
	require.NoError(t, err)
	assert.Equal(t, -1, res.ErrorAt)
	assert.Nil(t, res.ErrorY)

	_, err = e.Regression(RegressionRequest{Confidence: 1.5, ErrorAt: -1})
	assert.ErrorIs(t, err, simerr.ErrInvalidParameter)
	_, err = e.Regression(RegressionRequest{Confidence: .9, ErrorAt: 500, ErrorPoints: 10})
	assert.ErrorIs(t, err, simerr.ErrInvalidParameter)
}

func TestBootstrap(t *testing.T) {
	e := newEngine(t, 3)
	res, err := e.Bootstrap(BootstrapRequest{NumBoot: 20, Highlight: 4})
	require.NoError(t, err)
	assert.Equal(t, 20, res.Ensemble.Len())
	assert.Len(t, res.Lines, 20)
	assert.Len(t, res.Multiplicity, 30)
	assert.Len(t, res.Included, 30)

	s, err := res.Ensemble.At(4)
	require.NoError(t, err)
	assert.Equal(t, s.Multiplicity(30), res.Multiplicity)

	res, err = e.Bootstrap(BootstrapRequest{NumBoot: 20, Highlight: -1})
	require.NoError(t, err)
	assert.Nil(t, res.Multiplicity)

	_, err = e.Bootstrap(BootstrapRequest{NumBoot: 20, Highlight: 20})
	assert.ErrorIs(t, err, simerr.ErrInvalidParameter)
	_, err = e.Bootstrap(BootstrapRequest{NumBoot: 0, Highlight: -1})
	assert.ErrorIs(t, err, simerr.ErrInvalidParameter)
}

func TestScoreAndSummary(t *testing.T) {
	e := newEngine(t, 4)
	res, err := e.Score(ScoreRequest{Intercept: 2, Slope: 1.25})
	require.NoError(t, err)
	assert.True(t, res.BestFit)
	assert.Len(t, res.Residuals, 50)
	assert.LessOrEqual(t, res.OLSSSR, res.SSR)

	_, err = e.Score(ScoreRequest{Intercept: 7, Slope: 1})
	assert.ErrorIs(t, err, simerr.ErrInvalidParameter)

	sum, err := e.Summary()
	require.NoError(t, err)
	assert.Equal(t, 50, sum.N)
	assert.InDelta(t, 1.25, sum.Slope.Estimate, .3)
}

func TestSampling(t *testing.T) {
	e := newEngine(t, 5)
	res, err := e.Sampling(SamplingRequest{PopulationSD: 2.5, SampleSize: 100, NumSim: 1000})
	require.NoError(t, err)
	assert.Len(t, res.SampleMeans, 1000)

	_, err = e.Sampling(SamplingRequest{PopulationSD: 2.5, SampleSize: 0, NumSim: 1000})
	assert.ErrorIs(t, err, simerr.ErrDegenerateInput)

	_, err = e.Sampling(SamplingRequest{PopulationSD: 6, SampleSize: 10, NumSim: 1000})
	assert.ErrorIs(t, err, simerr.ErrInvalidParameter)
}

func TestTTest(t *testing.T) {
	e := newEngine(t, 6)
	res, err := e.TTest(TTestRequest{EffectSize: .5, SampleSize: 20, NumSim: 1000, Alpha: .05})
	require.NoError(t, err)
	assert.True(t, res.Power.Defined)

	_, err = e.TTest(TTestRequest{EffectSize: .5, SampleSize: 1, NumSim: 1000, Alpha: .05})
	assert.ErrorIs(t, err, simerr.ErrInvalidParameter)

	_, err = e.TTest(TTestRequest{EffectSize: 1.5, SampleSize: 20, NumSim: 1000, Alpha: .05})
	assert.ErrorContains(t, err, "effect_size")
}

func TestConcurrentRequests(t *testing.T) {
	e := newEngine(t, 7)

	var wg sync.WaitGroup
	errs := make(chan error, 40)
	for i := range 10 {
		wg.Add(4)
		go func() {
			defer wg.Done()
			_, err := e.TTest(TTestRequest{EffectSize: .05 * float64(i), SampleSize: 20, NumSim: 200, Alpha: .05})
			errs <- err
		}()
		go func() {
			defer wg.Done()
			_, err := e.Sampling(SamplingRequest{PopulationSD: 2, SampleSize: 50, NumSim: 200})
			errs <- err
		}()
		go func() {
			defer wg.Done()
			_, err := e.Bootstrap(BootstrapRequest{NumBoot: 20, Highlight: -1})
			errs <- err
		}()
		go func() {
			defer wg.Done()
			_, err := e.Regression(RegressionRequest{Confidence: .95, ErrorAt: -1})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
}
