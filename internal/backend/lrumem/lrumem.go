// Package lrumem provides an LRU-capped reference Backend, modeling the
// --cache-size bound a real embedded store would enforce on its page/block
// cache, without linking one.
package lrumem

import (
	"fmt"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Config bounds the LRU backend's capacity.
type Config struct {
	// MaxEntries bounds the number of records the backend retains. Writes
	// beyond this bound evict the least-recently-used record, same as a
	// real store's cache-size knob would bound resident pages.
	MaxEntries int
}

// DefaultConfig returns the --cache-size default translated into an entry
// count (128MiB / 1KiB nominal record size).
func DefaultConfig() Config {
	return Config{MaxEntries: 128 * 1024}
}

// Backend is a Backend implementation backed by a size-bounded LRU cache.
type Backend struct {
	cache   *lru.Cache[string, []byte]
	hits    atomic.Uint64
	misses  atomic.Uint64
	writes  atomic.Uint64
	evicted atomic.Uint64
}

// New builds a Backend with the given Config, validating MaxEntries.
func New(cfg Config) (*Backend, error) {
	if cfg.MaxEntries <= 0 {
		return nil, fmt.Errorf("lrumem: max entries must be > 0, got %d", cfg.MaxEntries)
	}
	b := &Backend{}
	cache, err := lru.NewWithEvict[string, []byte](cfg.MaxEntries, func(string, []byte) {
		b.evicted.Add(1)
	})
	if err != nil {
		return nil, fmt.Errorf("lrumem: failed to build cache: %w", err)
	}
	b.cache = cache
	return b, nil
}

// Read performs a point lookup; a miss is not an error.
func (b *Backend) Read(key []byte) error {
	if _, ok := b.cache.Get(string(key)); ok {
		b.hits.Add(1)
	} else {
		b.misses.Add(1)
	}
	return nil
}

// Scan iterates forward from key for at most n steps over the cache's keys.
// The LRU cache does not maintain key order, so this walks its current key
// snapshot; it exists to exercise the Scan code path, not to model a real
// ordered-store range scan.
func (b *Backend) Scan(key []byte, n int) error {
	keys := b.cache.Keys()
	steps := 0
	for _, k := range keys {
		if k >= string(key) {
			if _, ok := b.cache.Get(k); ok {
				b.hits.Add(1)
			}
			steps++
			if steps >= n {
				break
			}
		}
	}
	return nil
}

// Write upserts key/value, evicting the least-recently-used entry if the
// cache is at capacity.
func (b *Backend) Write(key, value []byte) error {
	v := append([]byte(nil), value...)
	b.cache.Add(string(key), v)
	b.writes.Add(1)
	return nil
}

// Stat reports cache hit/miss/write/eviction counters.
func (b *Backend) Stat() (string, error) {
	return fmt.Sprintf("entries=%d hits=%d misses=%d writes=%d evicted=%d",
		b.cache.Len(), b.hits.Load(), b.misses.Load(), b.writes.Load(), b.evicted.Load()), nil
}
