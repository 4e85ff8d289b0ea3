// Package config resolves CLI flags into the typed options each core
// component consumes, validating before any worker goroutine is spawned,
// and loads an optional .env file into the process environment.
package config

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/PayRpc/dbbench-go/internal/backend"
	"github.com/PayRpc/dbbench-go/internal/generator"
)

// Config holds the resolved options for a run/load/open invocation.
type Config struct {
	KLen         int
	VLen         int
	NumRecords   int
	Distribution generator.Distribution

	ReadRatio  float64
	ScanRatio  float64
	WriteRatio float64

	NumThreads    int
	NumOperations int

	DB        backend.Name
	Path      string
	Sync      bool
	CacheSize int64

	Breaker  bool
	HTTPAddr string
}

// ConfigError wraps a configuration-time validation failure, surfaced
// before any thread is spawned and before any backend is opened.
type ConfigError struct {
	Field string
	Msg   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Msg)
}

// Defaults returns the CLI's documented defaults (§6.2).
func Defaults() Config {
	return Config{
		KLen:          10,
		VLen:          100,
		NumRecords:    1000,
		Distribution:  generator.DistributionUniform,
		ReadRatio:     0.95,
		ScanRatio:     0.00,
		WriteRatio:    0.05,
		NumThreads:    1,
		NumOperations: 1_000_000,
		DB:            backend.NameMemory,
		CacheSize:     128 * 1024 * 1024,
	}
}

// LoadEnv loads a .env file, if one is present in the working directory,
// into the process environment; a missing .env file is not an error. The
// flag defaults are not read from the environment.
func LoadEnv() {
	_ = godotenv.Load()
}

// ParseRun parses flags for the `run` subcommand into a Config seeded from
// Defaults(), then validates it.
func ParseRun(args []string) (*Config, error) {
	cfg := Defaults()
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	bindCommon(fs, &cfg)
	fs.IntVar(&cfg.NumThreads, "t", cfg.NumThreads, "worker thread count")
	fs.IntVar(&cfg.NumThreads, "num-threads", cfg.NumThreads, "worker thread count")
	fs.IntVar(&cfg.NumOperations, "o", cfg.NumOperations, "total operations across all workers")
	fs.IntVar(&cfg.NumOperations, "num-operations", cfg.NumOperations, "total operations across all workers")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ParseLoad parses flags for the `load` subcommand: a write-only
// population run forwarding to `run` with write-ratio=1.0 and
// num-operations=num-records, per §6.2.
func ParseLoad(args []string) (*Config, error) {
	cfg := Defaults()
	fs := flag.NewFlagSet("load", flag.ContinueOnError)
	bindCommon(fs, &cfg)
	fs.IntVar(&cfg.NumThreads, "t", cfg.NumThreads, "worker thread count")
	fs.IntVar(&cfg.NumThreads, "num-threads", cfg.NumThreads, "worker thread count")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cfg.ReadRatio, cfg.ScanRatio, cfg.WriteRatio = 0, 0, 1
	cfg.NumOperations = cfg.NumRecords
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ParseOpen parses flags for the `open` subcommand: only the backend
// selector/path matter.
func ParseOpen(args []string) (*Config, error) {
	cfg := Defaults()
	fs := flag.NewFlagSet("open", flag.ContinueOnError)
	bindBackend(fs, &cfg)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := cfg.validateBackend(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func bindBackend(fs *flag.FlagSet, cfg *Config) {
	fs.Func("db", "backend selector (memory|lru)", func(v string) error {
		cfg.DB = backend.Name(v)
		return nil
	})
	fs.StringVar(&cfg.Path, "path", "", "backend data directory")
	fs.BoolVar(&cfg.Sync, "sync", false, "durable sync mode (backend-dependent)")
	fs.Int64Var(&cfg.CacheSize, "cache-size", cfg.CacheSize, "backend cache bytes")
}

func bindCommon(fs *flag.FlagSet, cfg *Config) {
	fs.IntVar(&cfg.KLen, "k", cfg.KLen, "key length (bytes)")
	fs.IntVar(&cfg.KLen, "klen", cfg.KLen, "key length (bytes)")
	fs.IntVar(&cfg.VLen, "v", cfg.VLen, "value length (bytes)")
	fs.IntVar(&cfg.VLen, "vlen", cfg.VLen, "value length (bytes)")
	fs.IntVar(&cfg.NumRecords, "n", cfg.NumRecords, "keyspace cardinality")
	fs.IntVar(&cfg.NumRecords, "num-records", cfg.NumRecords, "keyspace cardinality")
	fs.Func("d", "distribution (uniform|zipfian|sequential)", func(v string) error {
		cfg.Distribution = generator.Distribution(v)
		return nil
	})
	fs.Func("distribution", "distribution (uniform|zipfian|sequential)", func(v string) error {
		cfg.Distribution = generator.Distribution(v)
		return nil
	})
	fs.Float64Var(&cfg.ReadRatio, "r", cfg.ReadRatio, "read ratio")
	fs.Float64Var(&cfg.ReadRatio, "read-ratio", cfg.ReadRatio, "read ratio")
	fs.Float64Var(&cfg.ScanRatio, "s", cfg.ScanRatio, "scan ratio")
	fs.Float64Var(&cfg.ScanRatio, "scan-ratio", cfg.ScanRatio, "scan ratio")
	fs.Float64Var(&cfg.WriteRatio, "w", cfg.WriteRatio, "write ratio")
	fs.Float64Var(&cfg.WriteRatio, "write-ratio", cfg.WriteRatio, "write ratio")
	fs.BoolVar(&cfg.Breaker, "breaker", false, "wrap the backend in a circuit breaker")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", "", "optional live-stats and Prometheus /metrics HTTP listen address")
	bindBackend(fs, cfg)
}

// Validate checks every field required for a run/load invocation.
func (c *Config) Validate() error {
	if c.KLen < 1 {
		return &ConfigError{Field: "klen", Msg: "must be >= 1"}
	}
	if c.VLen < 0 {
		return &ConfigError{Field: "vlen", Msg: "must be >= 0"}
	}
	if c.NumRecords < 1 {
		return &ConfigError{Field: "num-records", Msg: "must be >= 1"}
	}
	switch c.Distribution {
	case generator.DistributionUniform, generator.DistributionZipfian, generator.DistributionSequential:
	default:
		return &ConfigError{Field: "distribution", Msg: fmt.Sprintf("unrecognized value %q", c.Distribution)}
	}
	if c.ReadRatio < 0 || c.ScanRatio < 0 || c.WriteRatio < 0 {
		return &ConfigError{Field: "ratios", Msg: "must be non-negative"}
	}
	if c.ReadRatio+c.ScanRatio+c.WriteRatio <= 0 {
		return &ConfigError{Field: "ratios", Msg: "must sum to > 0"}
	}
	if c.NumThreads < 1 {
		return &ConfigError{Field: "num-threads", Msg: "must be >= 1"}
	}
	if c.NumOperations < 1 {
		return &ConfigError{Field: "num-operations", Msg: "must be >= 1"}
	}
	return c.validateBackend()
}

func (c *Config) validateBackend() error {
	switch c.DB {
	case backend.NameMemory, backend.NameLRU:
	default:
		return &ConfigError{Field: "db", Msg: fmt.Sprintf("unrecognized value %q", c.DB)}
	}
	return nil
}

// RequireArgs is a small convenience so main can report "no subcommand"
// uniformly with the rest of the parse-error path.
func RequireArgs(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("config: missing subcommand (run|load|open); see %s -h", os.Args[0])
	}
	return nil
}
