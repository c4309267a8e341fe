package rng

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSameSeedSameStream(t *testing.T) {
	a := New(42)
	b := New(42)
	for i := 0; i < 100; i++ {
		require.Equal(t, a.Uint64(), b.Uint64(), "draw %d", i)
	}
	assert.Equal(t, uint64(42), a.Seed())
}

func TestDifferentSeeds(t *testing.T) {
	a := New(1)
	b := New(2)
	same := 0
	for i := 0; i < 100; i++ {
		if a.Uint64() == b.Uint64() {
			same++
		}
	}
	assert.Less(t, same, 5)
}

func TestConcurrentDraws(t *testing.T) {
	src := New(7)
	const workers, draws = 8, 1000

	var wg sync.WaitGroup
	results := make([][]uint64, workers)
	for w := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r := src.Rand()
			out := make([]uint64, draws)
			for i := range out {
				out[i] = r.Uint64()
			}
			results[w] = out
		}()
	}
	wg.Wait()

	// Все значения из одного потока, повторов быть не должно
	seen := make(map[uint64]struct{}, workers*draws)
	for _, out := range results {
		for _, v := range out {
			seen[v] = struct{}{}
		}
	}
	assert.Len(t, seen, workers*draws)
}

func TestUnseededDiffer(t *testing.T) {
	a := NewUnseeded()
	b := NewUnseeded()
	assert.NotEqual(t, a.Seed(), b.Seed())
}
