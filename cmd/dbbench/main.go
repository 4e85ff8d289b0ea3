// Command dbbench drives a configurable read/scan/write workload against a
// pluggable embedded key-value backend and reports live latency and
// throughput statistics.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/PayRpc/dbbench-go/internal/backend"
	"github.com/PayRpc/dbbench-go/internal/backend/lrumem"
	"github.com/PayRpc/dbbench-go/internal/config"
	"github.com/PayRpc/dbbench-go/internal/dataset"
	"github.com/PayRpc/dbbench-go/internal/logging"
	"github.com/PayRpc/dbbench-go/internal/obs"
	"github.com/PayRpc/dbbench-go/internal/runtime"
	"github.com/PayRpc/dbbench-go/internal/shell"
	"github.com/PayRpc/dbbench-go/internal/workload"
)

func main() {
	config.LoadEnv()

	logger, err := logging.New(os.Getenv("DBBENCH_ENV"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	if err := config.RequireArgs(os.Args[1:]); err != nil {
		logger.Error("startup failed", zap.Error(err))
		os.Exit(1)
	}

	var runErr error
	switch os.Args[1] {
	case "run":
		runErr = runRun(logger, os.Args[2:])
	case "load":
		runErr = runLoad(logger, os.Args[2:])
	case "open":
		runErr = runOpen(logger, os.Args[2:])
	default:
		runErr = fmt.Errorf("config: unrecognized subcommand %q (run|load|open)", os.Args[1])
	}

	if runErr != nil {
		logger.Error("command failed", zap.Error(runErr))
		os.Exit(1)
	}
}

func openBackend(cfg *config.Config) (backend.Backend, error) {
	var be backend.Backend
	switch cfg.DB {
	case backend.NameMemory:
		be = backend.NewMemory()
	case backend.NameLRU:
		maxEntries := int(cfg.CacheSize / 1024)
		if maxEntries < 1 {
			maxEntries = 1
		}
		lb, err := lrumem.New(lrumem.Config{MaxEntries: maxEntries})
		if err != nil {
			return nil, err
		}
		be = lb
	default:
		return nil, &config.ConfigError{Field: "db", Msg: fmt.Sprintf("unrecognized value %q", cfg.DB)}
	}

	if cfg.Breaker {
		be = backend.WithCircuitBreaker(be, backend.DefaultBreakerOptions())
	}
	return be, nil
}

func runRun(logger *zap.Logger, args []string) error {
	cfg, err := config.ParseRun(args)
	if err != nil {
		return err
	}
	return execute(logger, cfg)
}

func runLoad(logger *zap.Logger, args []string) error {
	cfg, err := config.ParseLoad(args)
	if err != nil {
		return err
	}
	return execute(logger, cfg)
}

func execute(logger *zap.Logger, cfg *config.Config) error {
	logger.Info("starting run",
		zap.Int("klen", cfg.KLen), zap.Int("vlen", cfg.VLen),
		zap.Int("num_records", cfg.NumRecords), zap.String("distribution", string(cfg.Distribution)),
		zap.Float64("read_ratio", cfg.ReadRatio), zap.Float64("scan_ratio", cfg.ScanRatio), zap.Float64("write_ratio", cfg.WriteRatio),
		zap.Int("num_threads", cfg.NumThreads), zap.Int("num_operations", cfg.NumOperations),
		zap.String("db", string(cfg.DB)),
	)

	be, err := openBackend(cfg)
	if err != nil {
		return fmt.Errorf("failed to open backend: %w", err)
	}

	ds, err := dataset.New(dataset.Options{
		KLen: cfg.KLen, VLen: cfg.VLen, NumRecords: cfg.NumRecords, Distribution: cfg.Distribution,
	})
	if err != nil {
		return err
	}
	wl, err := workload.New(workload.Options{
		ReadRatio: cfg.ReadRatio, ScanRatio: cfg.ScanRatio, WriteRatio: cfg.WriteRatio,
	})
	if err != nil {
		return err
	}

	rt := runtime.New(be, ds, wl, os.Stdout, cfg.NumOperations)

	var srv *obs.Server
	if cfg.HTTPAddr != "" {
		srv = obs.NewServer(cfg.HTTPAddr, rt.Stats())
		go func() {
			if err := srv.Serve(); err != nil {
				logger.Error("stats server failed", zap.Error(err))
			}
		}()
	}

	exporter := obs.NewExporter(rt.Stats())
	stopExporter := make(chan struct{})
	if cfg.HTTPAddr != "" {
		go exporter.Run(stopExporter, time.Second)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		logger.Info("received interrupt, winding down")
		cancel()
	}()

	runErr := rt.Run(ctx, cfg.NumThreads)

	close(stopExporter)
	if srv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}

	return runErr
}

func runOpen(logger *zap.Logger, args []string) error {
	cfg, err := config.ParseOpen(args)
	if err != nil {
		return err
	}
	be, err := openBackend(cfg)
	if err != nil {
		return fmt.Errorf("failed to open backend: %w", err)
	}
	logger.Info("opened backend for inspection", zap.String("db", string(cfg.DB)))
	return shell.Run(os.Stdin, os.Stdout, be)
}
