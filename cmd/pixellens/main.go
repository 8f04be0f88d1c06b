package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sanspareilsmyn/pixellens/internal/config"
	"github.com/sanspareilsmyn/pixellens/internal/logging"
	"github.com/sanspareilsmyn/pixellens/internal/pipeline"
)

var (
	configFile = flag.String("config", "configs/config.dev.yaml", "Path to the configuration file")
	logger     *zap.Logger
)

func main() {
	// Initialize Configuration
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration from %s: %v\n", *configFile, err)
		os.Exit(1)
	}

	// Initialize Logger
	var logErr error
	logger, logErr = logging.NewLogger(cfg.Log)
	if logErr != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to initialize logger: %v\n", logErr)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync() // Flush buffered logs on exit
	}()

	sugar := logger.Sugar()
	sugar.Infow("Logger initialized",
		"level", cfg.Log.Level,
		"format", cfg.Log.Format,
	)
	sugar.Infow("Configuration loaded successfully", "path", *configFile)

	// Initialize Pipeline
	sugar.Info("Initializing pipeline...")
	pipe, err := pipeline.New(cfg, logger)
	if err != nil {
		sugar.Fatalw("Failed to initialize pipeline", "error", err)
	}
	sugar.Info("Analysis pipeline initialized")

	// Handle Graceful Shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-signals
		sugar.Infow("Received signal, initiating shutdown...", "signal", sig.String())
		cancel()
	}()

	// Expose Prometheus Metrics
	if cfg.Metrics.Enabled {
		go serveMetrics(cfg.Metrics.ListenAddr, sugar)
	}

	// Run Pipeline
	sugar.Info("Starting analysis pipeline...")
	runErr := pipe.Run(ctx)

	switch {
	case runErr == nil:
		sugar.Info("Pipeline shutdown gracefully.")
	case errors.Is(runErr, context.Canceled):
		sugar.Info("Pipeline cancelled (expected on shutdown).")
	default:
		sugar.Errorw("Pipeline stopped unexpectedly", zap.Error(runErr))
	}

	sugar.Info("PixelLens finished.")
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		_ = logger.Sync()
		os.Exit(1)
	}
}

// serveMetrics exposes the Prometheus /metrics endpoint until process exit.
func serveMetrics(addr string, sugar *zap.SugaredLogger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	sugar.Infow("Serving Prometheus metrics", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		sugar.Errorw("Metrics listener stopped", zap.Error(err))
	}
}
