package workload

import (
	"fmt"
	"math/rand"
	"sync"
)

// Options sets the relative weights of the three operation kinds. Weights
// need not sum to 1; only their ratios matter.
type Options struct {
	ReadRatio  float64
	ScanRatio  float64
	WriteRatio float64
}

// DefaultOptions mirrors the CLI defaults (-r 0.95 -s 0.00 -w 0.05).
func DefaultOptions() Options {
	return Options{ReadRatio: 0.95, ScanRatio: 0.00, WriteRatio: 0.05}
}

// LoadOptions is the preset used to populate a store before measurement:
// write-only.
func LoadOptions() Options {
	return Options{ReadRatio: 0, ScanRatio: 0, WriteRatio: 1}
}

// Workload is a weighted categorical sampler over {Read, Scan, Write},
// frozen at construction and safe for concurrent Next() calls.
type Workload struct {
	mu      sync.Mutex
	rng     *rand.Rand
	weights [OperationCount]float64
	total   float64
}

// New validates opts and builds the sampler.
func New(opts Options) (*Workload, error) {
	weights := [OperationCount]float64{opts.ReadRatio, opts.ScanRatio, opts.WriteRatio}
	var total float64
	for _, w := range weights {
		if w < 0 {
			return nil, fmt.Errorf("workload: ratios must be non-negative, got %v", weights)
		}
		total += w
	}
	if total <= 0 {
		return nil, fmt.Errorf("workload: ratios must sum to > 0, got %v", weights)
	}
	return &Workload{
		rng:     rand.New(rand.NewSource(rand.Int63())),
		weights: weights,
		total:   total,
	}, nil
}

// Next samples an Operation with probability proportional to its configured
// ratio.
func (w *Workload) Next() Operation {
	w.mu.Lock()
	x := w.rng.Float64() * w.total
	w.mu.Unlock()

	for i, weight := range w.weights {
		if x < weight {
			return Operation(i)
		}
		x -= weight
	}
	// Floating-point rounding can carry x past the last boundary; fall back
	// to the final operation kind.
	return Operation(OperationCount - 1)
}
