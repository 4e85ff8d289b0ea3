package runtime

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PayRpc/dbbench-go/internal/backend"
	"github.com/PayRpc/dbbench-go/internal/dataset"
	"github.com/PayRpc/dbbench-go/internal/generator"
	"github.com/PayRpc/dbbench-go/internal/workload"
)

func TestRunDrivesExactlyNumOperationsAgainstBackend(t *testing.T) {
	ds, err := dataset.New(dataset.Options{KLen: 8, VLen: 8, NumRecords: 100, Distribution: generator.DistributionUniform})
	require.NoError(t, err)
	wl, err := workload.New(workload.LoadOptions())
	require.NoError(t, err)

	rt := New(backend.NewMemory(), ds, wl, io.Discard, 500)
	err = rt.Run(context.Background(), 4)
	require.NoError(t, err)

	assert.Equal(t, uint64(500), rt.Stats().Count())
}

// TestStatsReflectsTheSameContextWorkersUpdate guards against the runtime
// building one Context for its worker pool and handing callers a different,
// never-updated Statistics: Stats() must observe exactly what Run produced.
func TestStatsReflectsTheSameContextWorkersUpdate(t *testing.T) {
	ds, err := dataset.New(dataset.Options{KLen: 8, VLen: 8, NumRecords: 100, Distribution: generator.DistributionUniform})
	require.NoError(t, err)
	wl, err := workload.New(workload.LoadOptions())
	require.NoError(t, err)

	rt := New(backend.NewMemory(), ds, wl, io.Discard, 200)
	statsBeforeRun := rt.Stats()

	require.NoError(t, rt.Run(context.Background(), 2))

	assert.Same(t, statsBeforeRun, rt.Stats(), "Stats() must return the same instance before and after Run")
	assert.Equal(t, uint64(200), statsBeforeRun.Count(), "the Statistics obtained before Run must reflect the work Run performed")
}

func TestRunRecoversWorkerPanicAsError(t *testing.T) {
	ds, err := dataset.New(dataset.Options{KLen: 8, VLen: 8, NumRecords: 10, Distribution: generator.DistributionUniform})
	require.NoError(t, err)
	wl, err := workload.New(workload.Options{ReadRatio: 1})
	require.NoError(t, err)

	rt := New(&panickingBackend{}, ds, wl, io.Discard, 10)
	err = rt.Run(context.Background(), 2)
	require.Error(t, err)
}

type panickingBackend struct{}

func (p *panickingBackend) Read(key []byte) error        { panic("boom") }
func (p *panickingBackend) Scan(key []byte, n int) error  { return nil }
func (p *panickingBackend) Write(key, value []byte) error { return nil }
