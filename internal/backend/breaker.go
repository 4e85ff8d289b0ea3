package backend

import (
	"errors"
	"time"

	"github.com/sony/gobreaker"
)

// ErrStatUnsupported is returned by a breaker-wrapped backend's Stat when
// the wrapped backend does not implement Statter.
var ErrStatUnsupported = errors.New("backend: wrapped backend does not support Stat")

// BreakerOptions tunes the optional circuit breaker decorator, enabled with
// --breaker on the CLI. Defaults trip once at least 20 requests have been
// seen in the current 10s counting interval and at least half of them
// failed, and probe again after 5s.
type BreakerOptions struct {
	Name             string
	FailureThreshold float64
	MinRequests      uint32
	OpenTimeout      time.Duration
	Interval         time.Duration
}

// DefaultBreakerOptions returns conservative defaults: trip once at least
// 20 requests have been seen in the current 10s counting interval and at
// least half of them failed, then probe again after a 5s cooldown.
func DefaultBreakerOptions() BreakerOptions {
	return BreakerOptions{
		Name:             "dbbench-backend",
		FailureThreshold: 0.5,
		MinRequests:      20,
		OpenTimeout:      5 * time.Second,
		Interval:         10 * time.Second,
	}
}

// WithCircuitBreaker wraps a Backend so that once it trips, calls fail fast
// with gobreaker.ErrOpenState instead of invoking the underlying backend.
// Tripped calls still flow back to Statistics as ordinary failures: the
// core never distinguishes a breaker-rejected call from a backend error,
// preserving the "failures are counted, never propagated" contract.
func WithCircuitBreaker(inner Backend, opts BreakerOptions) Backend {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        opts.Name,
		MaxRequests: opts.MinRequests,
		Interval:    opts.Interval,
		Timeout:     opts.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < opts.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= opts.FailureThreshold
		},
	})
	return &breakerBackend{inner: inner, cb: cb}
}

type breakerBackend struct {
	inner Backend
	cb    *gobreaker.CircuitBreaker
}

func (b *breakerBackend) Read(key []byte) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.inner.Read(key)
	})
	return err
}

func (b *breakerBackend) Scan(key []byte, n int) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.inner.Scan(key, n)
	})
	return err
}

func (b *breakerBackend) Write(key, value []byte) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.inner.Write(key, value)
	})
	return err
}

// Stat passes through to the inner backend when it supports Statter.
func (b *breakerBackend) Stat() (string, error) {
	s, ok := b.inner.(Statter)
	if !ok {
		return "", ErrStatUnsupported
	}
	return s.Stat()
}
