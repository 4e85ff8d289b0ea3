package generator

import (
	"math/rand"
	"sync"
)

// Uniform draws a uniformly distributed u64 on every call. math/rand's
// default source is not safe for concurrent use, so draws are serialized
// behind a mutex.
type Uniform struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewUniform builds a Uniform generator seeded from math/rand's global
// source.
func NewUniform() *Uniform {
	return &Uniform{rng: rand.New(rand.NewSource(rand.Int63()))}
}

// Next returns the next uniformly distributed draw.
func (g *Uniform) Next() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.Uint64()
}
