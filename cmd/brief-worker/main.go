package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/BearBump/VesselBrief/config"
	"github.com/BearBump/VesselBrief/internal/logging"
	"github.com/pkg/errors"
)

func main() {
	cfg, err := config.LoadConfig(os.Getenv("configPath"))
	if err != nil {
		panic(fmt.Sprintf("load config: %v", err))
	}
	logging.Setup(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := RunBriefWorker(ctx, cfg, defaultWorkerFactories(), nil); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("brief-worker stopped", "error", err)
		cancel()
		os.Exit(1)
	}
}
