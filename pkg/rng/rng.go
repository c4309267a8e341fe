// Package rng provides the random source shared by every simulation.
package rng

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Source is a rand.Source that can be shared between goroutines.
// Every draw takes the lock, so simulations running for different callers
// consume one stream without racing on the generator state.
type Source struct {
	mu   sync.Mutex
	src  *rand.PCG
	seed uint64
}

// New creates a source with a fixed seed. Two sources with the same seed
// produce the same stream.
func New(seed uint64) *Source {
	return &Source{
		src:  rand.NewPCG(seed, seed^0x9e3779b97f4a7c15),
		seed: seed,
	}
}

// NewUnseeded creates a source seeded from runtime entropy.
func NewUnseeded() *Source {
	// Сид берём из глобального генератора и текущего времени
	seed := rand.Uint64() ^ uint64(time.Now().UnixNano())
	return New(seed)
}

// Uint64 implements rand.Source.
func (s *Source) Uint64() uint64 {
	s.mu.Lock()
	v := s.src.Uint64()
	s.mu.Unlock()
	return v
}

// Seed returns the seed the source was created with, so that a run can be
// reproduced.
func (s *Source) Seed() uint64 {
	return s.seed
}

// Rand wraps the source into a *rand.Rand. The returned value keeps no state
// of its own, so it is as safe for concurrent use as the source.
func (s *Source) Rand() *rand.Rand {
	return rand.New(s)
}
