package generator

import "sync/atomic"

// Sequential returns monotonically increasing u64 values starting at 0,
// post-incrementing with relaxed ordering semantics (plain atomic add).
type Sequential struct {
	current atomic.Uint64
}

// NewSequential builds a Sequential generator starting at 0.
func NewSequential() *Sequential {
	return &Sequential{}
}

// Next returns the current counter value and advances it.
func (g *Sequential) Next() uint64 {
	return g.current.Add(1) - 1
}
