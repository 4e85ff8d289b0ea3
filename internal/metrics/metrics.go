// Package metrics exposes the same interval counts the stdout reporter
// prints as Prometheus series, purely additive ambient observability that
// the core loop never reads back.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OperationsTotal counts completed operations by operation and outcome.
	// The obs exporter fills only outcome="success", from the per-operation
	// histogram counts; failed operations are not counted here.
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dbbench_operations_total",
			Help: "Total operations dispatched to the backend",
		},
		[]string{"operation", "outcome"},
	)

	// OperationLatencySeconds tracks per-operation latency.
	OperationLatencySeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dbbench_operation_latency_seconds",
			Help:    "Backend operation latency",
			Buckets: prometheus.ExponentialBuckets(0.00001, 2, 20),
		},
		[]string{"operation"},
	)

	// ThroughputOpsPerSecond reports the most recent interval's throughput.
	ThroughputOpsPerSecond = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dbbench_throughput_ops_per_second",
			Help: "Operations per second observed in the last reported interval",
		},
		[]string{"operation"},
	)
)
