package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"pcsolotto-backend/lib/serviceutil"
	"pcsolotto-backend/lib/telemetry"

	"github.com/lmittmann/tint"
)

func initSlog(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(logger)
}

// initTelemetry sets up otel when a telemetry.json5 can be found, the returned function flushes
// and shuts it down.
func initTelemetry(ctx context.Context) func() {
	t, err := telemetry.SetupFromEnv(ctx, "pcsolotto-server")
	if errors.Is(err, os.ErrNotExist) {
		slog.Info("no telemetry.json5 found, otel exporting is disabled")
		return func() {}
	}
	if err != nil {
		serviceutil.Fatal("setup telemetry", err)
	}
	telemetry.InstrumentPerfStats(ctx, 30*time.Second)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := t.Shutdown(ctx)
		if err != nil {
			slog.Warn("failed to shutdown telemetry", "err", err)
		}
	}
}
