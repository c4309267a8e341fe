package distrib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/mwaskom/StatApps/pkg/rng"
)

func TestNormalMoments(t *testing.T) {
	p := NewNormalDistParams(2, 1.5)
	require.NoError(t, p.Validate())

	xs := p.RandN(rng.New(1), 20000)
	mean, sd := stat.MeanStdDev(xs, nil)
	assert.InDelta(t, 2, mean, 0.05)
	assert.InDelta(t, 1.5, sd, 0.05)
}

func TestUniformBounds(t *testing.T) {
	p := NewUniDistParams(-3, 3)
	require.NoError(t, p.Validate())

	xs := p.RandN(rng.New(2), 5000)
	for _, x := range xs {
		assert.GreaterOrEqual(t, x, -3.0)
		assert.Less(t, x, 3.0)
	}
	assert.InDelta(t, 0, stat.Mean(xs, nil), 0.1)
}

func TestValidate(t *testing.T) {
	assert.Error(t, NewNormalDistParams(0, 0).Validate())
	assert.Error(t, NewUniDistParams(1, 1).Validate())
}

func TestNewDistribution(t *testing.T) {
	assert.IsType(t, &NormalDistParams{}, NewDistribution(true, 0, 2, -3, 3))
	assert.IsType(t, &UniDistParams{}, NewDistribution(false, 0, 2, -3, 3))
}

func TestSameSeedReproduces(t *testing.T) {
	p := NewNormalDistParams(0, 1)
	assert.Equal(t, p.RandN(rng.New(9), 10), p.RandN(rng.New(9), 10))
}
