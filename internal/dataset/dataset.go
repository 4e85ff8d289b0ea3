// Package dataset maps generator draws onto fixed-width key and value
// byte buffers over a bounded keyspace.
package dataset

import (
	"encoding/binary"
	"fmt"
	"math/rand"
	"sync"

	"github.com/PayRpc/dbbench-go/internal/generator"
)

// valueRNG fills value buffers with pseudo-random bytes; a single shared,
// mutex-guarded source avoids one *rand.Rand per worker while keeping the
// fill off the cryptographic RNG, which is unnecessary for benchmark
// payloads and considerably slower on the hot path.
var valueRNG = struct {
	mu  sync.Mutex
	rng *rand.Rand
}{rng: rand.New(rand.NewSource(rand.Int63()))}

// Options configures the keyspace shape: key/value widths, cardinality, and
// the draw distribution.
type Options struct {
	KLen         int
	VLen         int
	NumRecords   int
	Distribution generator.Distribution
}

// Dataset wraps a generator and derives keys/values from its draws. A
// Dataset is immutable after construction and safe for concurrent use by
// multiple worker goroutines (the underlying generator is itself
// concurrency-safe).
type Dataset struct {
	opts Options
	gen  generator.Generator
}

// New validates opts and constructs the Dataset's generator.
func New(opts Options) (*Dataset, error) {
	if opts.KLen < 1 {
		return nil, fmt.Errorf("dataset: klen must be >= 1, got %d", opts.KLen)
	}
	if opts.VLen < 0 {
		return nil, fmt.Errorf("dataset: vlen must be >= 0, got %d", opts.VLen)
	}
	if opts.NumRecords < 1 {
		return nil, fmt.Errorf("dataset: num_records must be >= 1, got %d", opts.NumRecords)
	}
	gen, err := generator.New(opts.Distribution)
	if err != nil {
		return nil, err
	}
	return &Dataset{opts: opts, gen: gen}, nil
}

// Next draws the next key, writing exactly opts.KLen bytes into buf[:KLen].
// buf must have length >= KLen; callers allocate it once and reuse it on
// the steady-state path.
func (d *Dataset) Next(buf []byte) {
	x := d.gen.Next() % uint64(d.opts.NumRecords)
	var be [8]byte
	binary.BigEndian.PutUint64(be[:], x)

	k := d.opts.KLen
	if k <= 8 {
		copy(buf[:k], be[8-k:])
	} else {
		copy(buf[:8], be[:])
		for i := 8; i < k; i++ {
			buf[i] = 0
		}
	}
}

// NextRecord draws the next key into kbuf and fills vbuf with fresh random
// bytes, for use on the Write path.
func (d *Dataset) NextRecord(kbuf, vbuf []byte) {
	d.Next(kbuf)
	v := vbuf[:d.opts.VLen]
	valueRNG.mu.Lock()
	valueRNG.rng.Read(v) //nolint:errcheck // math/rand.Rand.Read never errors
	valueRNG.mu.Unlock()
}

// KLen returns the configured key width.
func (d *Dataset) KLen() int { return d.opts.KLen }

// VLen returns the configured value width.
func (d *Dataset) VLen() int { return d.opts.VLen }
