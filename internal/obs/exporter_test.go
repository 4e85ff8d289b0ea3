package obs

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/PayRpc/dbbench-go/internal/metrics"
	"github.com/PayRpc/dbbench-go/internal/stats"
)

func TestSampleReportsOnlyNewWorkSinceLastSample(t *testing.T) {
	s := stats.New()
	for i := 0; i < 10; i++ {
		s.Record(0, func() error { return nil })
	}

	e := NewExporter(s)
	e.sample(time.Second)

	before := testutil.ToFloat64(metrics.OperationsTotal.WithLabelValues("read", "success"))

	for i := 0; i < 5; i++ {
		s.Record(0, func() error { return nil })
	}
	e.sample(time.Second)

	after := testutil.ToFloat64(metrics.OperationsTotal.WithLabelValues("read", "success"))
	assert.Equal(t, float64(5), after-before)
}
