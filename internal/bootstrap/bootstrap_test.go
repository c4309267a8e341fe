package bootstrap

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwaskom/StatApps/internal/dataset"
	"github.com/mwaskom/StatApps/internal/regression"
	"github.com/mwaskom/StatApps/internal/simerr"
	"github.com/mwaskom/StatApps/pkg/distrib"
	"github.com/mwaskom/StatApps/pkg/rng"
)

var truth = dataset.LinearTruth{Intercept: 2, Slope: .75, NoiseSD: 1.5}

func demoData(t *testing.T, seed uint64) dataset.Dataset {
	t.Helper()
	ds, err := dataset.Generate(truth, distrib.NewUniDistParams(-3, 3), 30, rng.New(seed))
	require.NoError(t, err)
	return ds
}

func TestResampleShape(t *testing.T) {
	ds := demoData(t, 1)
	e, err := Resample(ds, 20, rng.New(2))
	require.NoError(t, err)
	require.Equal(t, 20, e.Len())
	assert.Equal(t, 30, e.NumObs)

	for b := range e.Len() {
		s, err := e.At(b)
		require.NoError(t, err)
		require.Len(t, s.Indices, 30)
		for _, i := range s.Indices {
			assert.GreaterOrEqual(t, i, 0)
			assert.Less(t, i, 30)
		}

		mult := s.Multiplicity(30)
		total := 0
		for i, m := range mult {
			total += m
			assert.Equal(t, m > 0, s.Included(30)[i])
		}
		assert.Equal(t, 30, total)

		// Сэмпл соответствует собственной подвыборке
		sub := ds.Select(s.Indices)
		fit, err := regression.OLS(sub.X, sub.Y)
		require.NoError(t, err)
		assert.Equal(t, fit, s.Fit)
	}

	_, err = e.At(20)
	assert.ErrorIs(t, err, simerr.ErrInvalidParameter)

	xx := regression.Linspace(-3.5, 3.5, 101)
	lines := e.Lines(xx)
	require.Len(t, lines, 20)
	for _, l := range lines {
		assert.Len(t, l, 101)
	}
}

func TestResampleSeeded(t *testing.T) {
	ds := demoData(t, 1)
	a, err := Resample(ds, 5, rng.New(3))
	require.NoError(t, err)
	b, err := Resample(ds, 5, rng.New(3))
	require.NoError(t, err)
	assert.Equal(t, a.Samples, b.Samples)

	src := rng.New(3)
	c, err := Resample(ds, 5, src)
	require.NoError(t, err)
	d, err := Resample(ds, 5, src)
	require.NoError(t, err)
	assert.NotEqual(t, c.Samples[0].Indices, d.Samples[0].Indices)
}

func TestMeanFitConverges(t *testing.T) {
	ds := demoData(t, 4)
	ols, err := regression.OLS(ds.X, ds.Y)
	require.NoError(t, err)

	dev := func(nBoot int) float64 {
		var sum float64
		for seed := uint64(1); seed <= 10; seed++ {
			e, err := Resample(ds, nBoot, rng.New(100+seed))
			require.NoError(t, err)
			m, err := e.MeanFit()
			require.NoError(t, err)
			sum += math.Abs(m.Slope - ols.Slope)
		}
		return sum / 10
	}

	small, large := dev(20), dev(2000)
	assert.Less(t, large, small)
	assert.Less(t, large, 0.02)

	e, err := Resample(ds, 2000, rng.New(7))
	require.NoError(t, err)
	m, err := e.MeanFit()
	require.NoError(t, err)
	assert.InDelta(t, truth.Slope, m.Slope, 0.5)
	assert.InDelta(t, truth.Intercept, m.Intercept, 1)
}

func TestDegenerateReplicatesAreKept(t *testing.T) {
	ds := dataset.Dataset{
		X: []float64{0, 0, 0, 0, 1},
		Y: []float64{1, 2, 3, 4, 5},
	}
	e, err := Resample(ds, 50, rng.New(5))
	require.NoError(t, err)
	require.Equal(t, 50, e.Len())

	failed := e.Failed()
	require.NotEmpty(t, failed)
	lines := e.Lines([]float64{0, 1})
	for _, i := range failed {
		assert.ErrorIs(t, e.Samples[i].Err, simerr.ErrDegenerateInput)
		assert.Nil(t, lines[i])
	}
	assert.Len(t, e.Fits(), 50-len(failed))
}

func TestResampleRejects(t *testing.T) {
	src := rng.New(1)
	_, err := Resample(dataset.Dataset{X: []float64{1, 2}, Y: []float64{1, 2}}, 20, src)
	assert.ErrorIs(t, err, simerr.ErrDegenerateInput)

	_, err = Resample(demoData(t, 1), 0, src)
	assert.ErrorIs(t, err, simerr.ErrInvalidParameter)

	_, err = Resample(dataset.Dataset{X: []float64{1, 2, 3}, Y: []float64{1}}, 20, src)
	assert.ErrorIs(t, err, simerr.ErrInvalidParameter)

	_, err = (&Ensemble{}).MeanFit()
	assert.ErrorIs(t, err, simerr.ErrDegenerateInput)
}

func TestDistinct(t *testing.T) {
	s := Sample{Indices: []int{3, 1, 3, 0, 3, 1}}
	idx, counts := s.Distinct()
	assert.Equal(t, []int{0, 1, 3}, idx)
	assert.Equal(t, []int{1, 2, 3}, counts)
}
