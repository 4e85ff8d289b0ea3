// Package runtime fans work out across worker goroutines, coordinates the
// shared operation budget, times backend calls through Statistics, and
// joins.
package runtime

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/PayRpc/dbbench-go/internal/backend"
	"github.com/PayRpc/dbbench-go/internal/dataset"
	"github.com/PayRpc/dbbench-go/internal/stats"
	"github.com/PayRpc/dbbench-go/internal/workload"
)

const scanWindow = 10

// Runtime owns the shared Context for a single benchmark run and drives it
// across a pool of worker goroutines.
type Runtime struct {
	ctx *Context
}

// New builds a Runtime and its backing Context. report receives the
// periodic interval report lines; pass io.Discard to silence them.
// numOperations is the total operation budget shared across every worker
// goroutine Run later spawns.
func New(be backend.Backend, ds *dataset.Dataset, wl *workload.Workload, report io.Writer, numOperations int) *Runtime {
	return &Runtime{ctx: NewContext(be, ds, wl, report, numOperations)}
}

// Stats returns the Statistics backing this run, for callers (the HTTP
// stats server, the Prometheus exporter) that want to observe it live.
func (r *Runtime) Stats() *stats.Statistics { return r.ctx.Stats }

// Run spawns numThreads worker goroutines sharing the Context built in New,
// each consuming operations from the shared budget until the configured
// operation count is exhausted, then joins. A panic inside any worker is
// recovered and surfaced as an error through the errgroup, which also
// cancels ctx for the remaining workers. Run blocks until every worker has
// returned.
func (r *Runtime) Run(ctx context.Context, numThreads int) error {
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < numThreads; i++ {
		g.Go(func() (err error) {
			defer func() {
				if rec := recover(); rec != nil {
					err = fmt.Errorf("runtime: worker panic: %v", rec)
				}
			}()
			return worker(gctx, r.ctx)
		})
	}
	return g.Wait()
}

// worker pulls operations from rc's shared budget until exhausted or ctx is
// done, executing each against the backend through rc.Stats and attempting
// a report after every call.
func worker(ctx context.Context, rc *Context) error {
	kbuf := make([]byte, rc.Dataset.KLen())
	vbuf := make([]byte, rc.Dataset.VLen())

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		op, ok := rc.NextOperation()
		if !ok {
			return nil
		}

		switch op {
		case workload.Read:
			rc.Dataset.Next(kbuf)
			rc.Stats.Record(int(op), func() error { return rc.Backend.Read(kbuf) })
		case workload.Scan:
			rc.Dataset.Next(kbuf)
			rc.Stats.Record(int(op), func() error { return rc.Backend.Scan(kbuf, scanWindow) })
		case workload.Write:
			rc.Dataset.NextRecord(kbuf, vbuf)
			rc.Stats.Record(int(op), func() error { return rc.Backend.Write(kbuf, vbuf) })
		}
		rc.Stats.Report(rc.Report)
	}
}
