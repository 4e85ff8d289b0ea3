package stats

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

// OperationCount mirrors workload.OperationCount; duplicated here (rather
// than importing internal/workload) to keep stats free of a dependency on
// the op-sampling package — it only needs an ordinal, not a sampler.
const OperationCount = 3

// lastReport holds the previous interval's cumulative snapshots, guarded by
// a mutex: only the single admitted reporter may read or mutate it.
type lastReport struct {
	time       time.Time
	histograms [OperationCount]Histogram
}

// Statistics aggregates per-operation latency histograms, totals, and
// failures, and owns the interval-report protocol. A Statistics value is
// shared read-only (aside from its internal atomics and mutex) across all
// worker goroutines.
type Statistics struct {
	count      atomic.Uint64
	failure    atomic.Uint64
	lastCount  atomic.Uint64
	histograms [OperationCount]*AtomicHistogram

	start   time.Time
	lastRep sync.Mutex
	last    lastReport
}

// New builds an empty Statistics, with its report clock started now.
func New() *Statistics {
	s := &Statistics{start: time.Now()}
	for i := range s.histograms {
		s.histograms[i] = NewAtomicHistogram()
	}
	s.last.time = s.start
	return s
}

// Record times fn with microsecond resolution, attributing the elapsed
// time to op's histogram on success or the failure counter on error. It
// does not report by itself; callers follow it with Report (the runtime's
// workers do so after every call). The count is incremented before the
// histogram add so Report's gate can observe work-done before any snapshot
// is taken.
func (s *Statistics) Record(op int, fn func() error) {
	start := time.Now()
	err := fn()
	elapsed := uint64(time.Since(start).Microseconds())

	s.count.Add(1)
	if err != nil {
		s.failure.Add(1)
	} else {
		s.histograms[op].Add(elapsed)
	}
}

// Count returns the total number of Record invocations so far.
func (s *Statistics) Count() uint64 { return s.count.Load() }

// Failure returns the total number of failed operations so far.
func (s *Statistics) Failure() uint64 { return s.failure.Load() }

// Histogram returns a live snapshot of op's cumulative histogram.
func (s *Statistics) Histogram(op int) Histogram {
	return s.histograms[op].Load()
}

// Report emits an interval report to w if, and only if, all three
// admission conditions hold: enough new work since the last report, an
// uncontended reporter slot, and enough wall-clock time elapsed. Most
// calls return immediately without reporting; that is expected, not an
// error.
func (s *Statistics) Report(w io.Writer) {
	count := s.count.Load()
	lastCount := s.lastCount.Load()
	if count-lastCount < 1000 {
		return
	}
	if !s.lastRep.TryLock() {
		return
	}
	defer s.lastRep.Unlock()

	now := time.Now()
	elapsed := now.Sub(s.last.time)
	if elapsed < time.Second {
		return
	}
	s.last.time = now
	s.lastCount.Store(count)

	failure := s.failure.Load()
	fmt.Fprintf(w, "--- Total: %d Failure: %d Elapsed: %.0fs ---\n", count, failure, now.Sub(s.start).Seconds())

	names := [OperationCount]string{"Read", "Scan", "Write"}
	for i := 0; i < OperationCount; i++ {
		current := s.histograms[i].Load()
		interval := current.Sub(s.last.histograms[i])
		s.last.histograms[i] = current
		if interval.Count() == 0 {
			continue
		}
		ops := float64(interval.Count()) / elapsed.Seconds()
		fmt.Fprintf(w, "%-5s - OPS: %.2f, P50: %dus, P95: %dus, P99: %dus, MAX: %dus\n",
			names[i], ops,
			interval.Percentile(50), interval.Percentile(95), interval.Percentile(99), interval.Percentile(100))
	}
}
