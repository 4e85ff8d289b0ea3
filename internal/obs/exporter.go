// Package obs wires Statistics snapshots into Prometheus series and an
// optional live HTTP surface; strictly additive to the stdout reporter and
// never consulted by the core loop.
package obs

import (
	"time"

	"github.com/PayRpc/dbbench-go/internal/metrics"
	"github.com/PayRpc/dbbench-go/internal/stats"
)

var opNames = [3]string{"read", "scan", "write"}

// Exporter periodically mirrors a Statistics' cumulative histograms into
// the Prometheus series in internal/metrics.
type Exporter struct {
	stats *stats.Statistics
	prior [3]stats.Histogram
}

// NewExporter builds an Exporter over s.
func NewExporter(s *stats.Statistics) *Exporter {
	return &Exporter{stats: s}
}

// Run mirrors snapshots every interval until ctx-like stop channel closes.
func (e *Exporter) Run(stop <-chan struct{}, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			e.sample(interval)
		}
	}
}

func (e *Exporter) sample(interval time.Duration) {
	for i, name := range opNames {
		current := e.stats.Histogram(i)
		delta := current.Sub(e.prior[i])
		e.prior[i] = current

		metrics.OperationsTotal.WithLabelValues(name, "success").Add(float64(delta.Count()))
		metrics.ThroughputOpsPerSecond.WithLabelValues(name).Set(float64(delta.Count()) / interval.Seconds())
		if delta.Count() > 0 {
			metrics.OperationLatencySeconds.WithLabelValues(name).Observe(float64(delta.Percentile(50)) / 1e6)
		}
	}
}
