package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	service "github.com/okian/epochfmt/internal/app"
	"github.com/okian/epochfmt/internal/config"
	"github.com/okian/epochfmt/internal/domain/epoch"
	"github.com/okian/epochfmt/pkg/logger"
	"github.com/okian/epochfmt/pkg/metrics"
)

// Process exit codes.
const (
	exitOK      = 0
	exitFailure = 1
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run converts the configured timestamp, writing the result to stdout and
// diagnostics to stderr, and returns the process exit code.
func run(ctx context.Context, stdout, stderr io.Writer) int {
	if err := logger.InitWithWriter(stderr); err != nil {
		// Logger isn't available yet.
		_, _ = io.WriteString(stderr, "failed to initialize logging: "+err.Error()+"\n")
		return exitFailure
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			_, _ = io.WriteString(stderr, "failed to sync logging: "+err.Error()+"\n")
		}
	}()

	// Defaults -> optional file -> env.
	cfg, err := config.Load(ctx)
	if err != nil {
		_, _ = io.WriteString(stderr, "failed to load config: "+err.Error()+"\n")
		return exitFailure
	}

	runID := uuid.NewString()
	log := logger.Get().With(logger.String("run_id", runID))

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to warn", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("warn")
	}

	unit, err := cfg.TimestampUnit()
	if err != nil {
		_, _ = io.WriteString(stderr, "invalid unit: "+err.Error()+"\n")
		return exitFailure
	}

	formatter := service.New(
		service.WithOutput(stdout),
		service.WithUnit(unit),
		service.WithRecorder(metrics.Default()),
		service.WithLogger(logger.Named("formatter")),
		service.WithRunID(runID),
	)

	code := exitOK
	if err := formatter.Run(ctx, epoch.Timestamp(cfg.Timestamp)); err != nil {
		_, _ = io.WriteString(stderr, "epochfmt: "+err.Error()+"\n")
		code = exitFailure
	}

	if snap, err := metrics.Snapshot(metrics.GetRegistry()); err == nil {
		log.Debug(ctx, "metrics snapshot", logger.Any("metrics", snap))
	}
	if cfg.MetricsDump {
		if err := metrics.WriteText(stderr, metrics.GetRegistry()); err != nil {
			log.Error(ctx, "metrics dump failed", logger.Error(err))
		}
	}
	return code
}
