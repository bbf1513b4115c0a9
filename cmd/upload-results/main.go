// Command upload-results publishes every file in ./results to blob storage
// and prints a markdown list of the public URLs.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/radif/upload-results/internal/config"
	"github.com/radif/upload-results/internal/metrics"
	"github.com/radif/upload-results/internal/storage"
	"github.com/radif/upload-results/internal/uploader"
)

func main() {
	cfg := config.Load()

	zl := newZap(cfg.LogLevel)
	defer zl.Sync()

	if cfg.EnvSource == "" {
		zl.Debug("no env file found, reading from environment")
	} else {
		zl.Debug("loaded env file", zap.String("file", cfg.EnvSource))
	}

	rec := metrics.New()
	u := uploader.New(storage.Open(cfg),
		uploader.WithLogger(zl),
		uploader.WithMetrics(rec),
		uploader.WithConcurrency(cfg.Concurrency),
	)

	ctx := context.Background()
	report := u.Run(ctx, cfg.ResultsDir)
	fmt.Fprint(os.Stdout, uploader.Render(report))

	if cfg.PushgatewayURL != "" {
		pctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := rec.Push(pctx, cfg.PushgatewayURL, "upload-results"); err != nil {
			zl.Debug("metrics push failed", zap.Error(err))
		}
	}
}

// newZap builds a production logger writing to stderr so stdout carries
// only the report.
func newZap(level string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	switch strings.ToLower(level) {
	case "debug":
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "error":
		cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
