package backend

import (
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	readErr error
}

func (f *fakeBackend) Read(key []byte) error           { return f.readErr }
func (f *fakeBackend) Scan(key []byte, n int) error     { return nil }
func (f *fakeBackend) Write(key, value []byte) error    { return nil }

func TestWithCircuitBreakerPassesThroughSuccess(t *testing.T) {
	be := WithCircuitBreaker(&fakeBackend{}, DefaultBreakerOptions())
	assert.NoError(t, be.Read([]byte("k")))
}

func TestWithCircuitBreakerTripsAfterThreshold(t *testing.T) {
	inner := &fakeBackend{readErr: errors.New("backend down")}
	opts := BreakerOptions{
		Name:             "test",
		FailureThreshold: 0.5,
		MinRequests:      5,
		OpenTimeout:      time.Minute,
		Interval:         time.Minute,
	}
	be := WithCircuitBreaker(inner, opts)

	for i := 0; i < 5; i++ {
		_ = be.Read([]byte("k"))
	}

	err := be.Read([]byte("k"))
	require.Error(t, err)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}

func TestWithCircuitBreakerStatPassesThroughWhenSupported(t *testing.T) {
	be := WithCircuitBreaker(NewMemory(), DefaultBreakerOptions())
	s, ok := be.(Statter)
	require.True(t, ok)
	stat, err := s.Stat()
	require.NoError(t, err)
	assert.Equal(t, "records=0", stat)
}

func TestWithCircuitBreakerStatUnsupportedWhenInnerLacksIt(t *testing.T) {
	be := WithCircuitBreaker(&fakeBackend{}, DefaultBreakerOptions())
	s, ok := be.(Statter)
	require.True(t, ok)
	_, err := s.Stat()
	assert.ErrorIs(t, err, ErrStatUnsupported)
}
