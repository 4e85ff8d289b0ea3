package runtime

import (
	"context"
	"encoding/binary"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PayRpc/dbbench-go/internal/backend"
	"github.com/PayRpc/dbbench-go/internal/dataset"
	"github.com/PayRpc/dbbench-go/internal/generator"
	"github.com/PayRpc/dbbench-go/internal/workload"
)

// orderRecordingBackend records every key passed to Write, in call order, so
// S1 can assert on the exact sequence a single-threaded sequential load
// produces.
type orderRecordingBackend struct {
	mu    sync.Mutex
	writes [][]byte
}

func (b *orderRecordingBackend) Read(key []byte) error       { return nil }
func (b *orderRecordingBackend) Scan(key []byte, n int) error { return nil }
func (b *orderRecordingBackend) Write(key, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.writes = append(b.writes, append([]byte(nil), key...))
	return nil
}

// TestScenarioS1SequentialWriteOnlyLoad mirrors the single-threaded
// sequential load scenario: 100 writes, in key order, with zero reads/scans
// and zero failures.
func TestScenarioS1SequentialWriteOnlyLoad(t *testing.T) {
	ds, err := dataset.New(dataset.Options{KLen: 4, VLen: 10, NumRecords: 100, Distribution: generator.DistributionSequential})
	require.NoError(t, err)
	wl, err := workload.New(workload.LoadOptions())
	require.NoError(t, err)

	be := &orderRecordingBackend{}
	rt := New(be, ds, wl, io.Discard, 100)
	require.NoError(t, rt.Run(context.Background(), 1))

	require.Len(t, be.writes, 100)
	for i, key := range be.writes {
		var want [4]byte
		binary.BigEndian.PutUint32(want[:], uint32(i))
		assert.Equal(t, want[:], key)
	}

	s := rt.Stats()
	assert.Equal(t, uint64(100), s.Count())
	assert.Equal(t, uint64(0), s.Failure())
	assert.Equal(t, uint64(100), s.Histogram(int(workload.Write)).Count())
	assert.Equal(t, uint64(0), s.Histogram(int(workload.Read)).Count())
	assert.Equal(t, uint64(0), s.Histogram(int(workload.Scan)).Count())
}

// TestScenarioS4BudgetBoundWithContention mirrors the 16-thread, single
// operation-budget scenario: exactly one operation is ever dispatched
// regardless of how many workers race for it.
func TestScenarioS4BudgetBoundWithContention(t *testing.T) {
	ds, err := dataset.New(dataset.Options{KLen: 8, VLen: 8, NumRecords: 100, Distribution: generator.DistributionUniform})
	require.NoError(t, err)
	wl, err := workload.New(workload.DefaultOptions())
	require.NoError(t, err)

	rt := New(backend.NewMemory(), ds, wl, io.Discard, 1)
	require.NoError(t, rt.Run(context.Background(), 16))

	assert.Equal(t, uint64(1), rt.Stats().Count())
}

// alternatingFailureBackend fails every even-numbered Write call (0-indexed),
// succeeds on odd, for S5's failure-isolation scenario.
type alternatingFailureBackend struct {
	mu    sync.Mutex
	calls int
}

func (b *alternatingFailureBackend) Read(key []byte) error       { return nil }
func (b *alternatingFailureBackend) Scan(key []byte, n int) error { return nil }
func (b *alternatingFailureBackend) Write(key, value []byte) error {
	b.mu.Lock()
	n := b.calls
	b.calls++
	b.mu.Unlock()
	if n%2 == 0 {
		return assert.AnError
	}
	return nil
}

func TestScenarioS5FailureIsolation(t *testing.T) {
	ds, err := dataset.New(dataset.Options{KLen: 8, VLen: 8, NumRecords: 1000, Distribution: generator.DistributionUniform})
	require.NoError(t, err)
	wl, err := workload.New(workload.LoadOptions())
	require.NoError(t, err)

	rt := New(&alternatingFailureBackend{}, ds, wl, io.Discard, 1000)
	require.NoError(t, rt.Run(context.Background(), 1))

	s := rt.Stats()
	assert.Equal(t, uint64(1000), s.Count())
	assert.Equal(t, uint64(500), s.Failure())
	assert.Equal(t, uint64(500), s.Histogram(int(workload.Write)).Count())
}
