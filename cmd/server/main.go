// Package main runs the deadline notification HTTP server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/bootstrap"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/config"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/platform/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

// run loads configuration, wires dependencies and serves until ctx is done.
func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, closer, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	defer closer.Close()

	log.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.Bool("smtp_enabled", cfg.SMTP.Enabled()),
		slog.Bool("redis_enabled", cfg.Redis.URL != ""),
		slog.Bool("metrics_enabled", cfg.Metrics.Enabled))

	deps, err := bootstrap.Build(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	app := newApplication(deps)
	defer app.cleanup()

	return app.Run(ctx)
}
