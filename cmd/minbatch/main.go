// Command minbatch regroups newline-delimited items from stdin or a Redis list
// into batches of a minimum total weight and writes one JSON line per batch.
//
// Usage:
//
//	minbatch [-config minbatch.yaml] [-min-weight N] [-weigher count|bytes|runes]
//
// Each output line has the form
//
//	{"id":"…","run":"…","seq":1,"weight":1024,"reason":"threshold","items":["…"]}
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/MasterOfBinary/minbatch/batch"
	"github.com/MasterOfBinary/minbatch/internal/config"
	"github.com/MasterOfBinary/minbatch/metrics"
	"github.com/MasterOfBinary/minbatch/pipeline"
	"github.com/MasterOfBinary/minbatch/processor"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "minbatch:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("minbatch", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to a YAML config file")
	minWeight := fs.Uint64("min-weight", 0, "minimum batch weight (overrides config)")
	weigher := fs.String("weigher", "", "item weigher: count, bytes or runes (overrides config)")
	flushOnStall := fs.Bool("flush-on-stall", false, "emit partial batches when the input has nothing ready")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return err
		}
	}
	if *minWeight > 0 {
		cfg.Batch.MinWeight = *minWeight
	}
	if *weigher != "" {
		cfg.Weigher = *weigher
	}
	if *flushOnStall {
		cfg.Batch.FlushOnStall = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	zl, err := newLogger(cfg.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runPipeline(ctx, cfg, zl, os.Stdin, os.Stdout)
}

func runPipeline(ctx context.Context, cfg *config.Config, zl *zap.Logger, stdin io.Reader, out io.Writer) error {
	runID := uuid.New()
	logger := batch.NewZapLogger(zl).With("run", runID.String())

	reg := prometheus.NewRegistry()
	m := metrics.New(reg, cfg.Metrics.Namespace)
	if cfg.Metrics.Addr != "" {
		srv := serveMetrics(cfg.Metrics, reg, logger)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	up, err := openInput(cfg.Input, stdin)
	if err != nil {
		return err
	}

	w, err := cfg.NewWeigher()
	if err != nil {
		return err
	}

	acc, err := batch.NewFromConfig[string](up, batch.Checked(w), cfg.BatchConfig())
	if err != nil {
		return err
	}
	acc.WithLogger(logger).WithStats(m)
	defer func() { _ = acc.Close() }()

	sink := newJSONSink(out, runID)
	proc := processor.WrapWithStats[string](processor.WrapWithLogging[string](sink, logger, "stdout"), m)

	logger.Info("Batching %s input with min weight %d (%s weigher)", cfg.Input.Kind, cfg.Batch.MinWeight, cfg.Weigher)
	err = pipeline.Run(ctx, acc, proc)

	stats := m.GetStats()
	logger.Info("Emitted %d batches (%d items, weight %d), discarded %d items",
		stats.BatchesEmitted, stats.ItemsEmitted, stats.WeightEmitted, stats.ItemsDiscarded)

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func serveMetrics(cfg config.Metrics, reg *prometheus.Registry, logger batch.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, metrics.Handler(reg))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("Serving metrics on %s%s", cfg.Addr, cfg.Path)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed: %v", err)
		}
	}()
	return srv
}
