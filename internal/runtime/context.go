package runtime

import (
	"io"
	"sync/atomic"

	"github.com/PayRpc/dbbench-go/internal/backend"
	"github.com/PayRpc/dbbench-go/internal/dataset"
	"github.com/PayRpc/dbbench-go/internal/stats"
	"github.com/PayRpc/dbbench-go/internal/workload"
)

// Context is the shared state every worker goroutine reads from: the
// backend, dataset, workload, statistics, and the operation budget. It is
// constructed once per run and placed behind a single shared pointer; no
// component mutates another's fields except through the atomics and mutex
// owned by Statistics.
type Context struct {
	Backend  backend.Backend
	Dataset  *dataset.Dataset
	Workload *workload.Workload
	Stats    *stats.Statistics
	Report   io.Writer

	maxOperations int
	numOperations atomic.Uint64
}

// NewContext builds a Context with a fresh Statistics and a zeroed
// operation counter.
func NewContext(be backend.Backend, ds *dataset.Dataset, wl *workload.Workload, report io.Writer, maxOperations int) *Context {
	return &Context{
		Backend:       be,
		Dataset:       ds,
		Workload:      wl,
		Stats:         stats.New(),
		Report:        report,
		maxOperations: maxOperations,
	}
}

// NextOperation atomically claims the next slot in the operation budget. It
// returns ok=false once the pre-increment counter value has reached
// maxOperations; up to N_threads-1 surplus claims may still occur and are
// all rejected, giving an "at most maxOperations" completion guarantee.
func (c *Context) NextOperation() (workload.Operation, bool) {
	current := c.numOperations.Add(1) - 1
	if current >= uint64(c.maxOperations) {
		return 0, false
	}
	return c.Workload.Next(), true
}
