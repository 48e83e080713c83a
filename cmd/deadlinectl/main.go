// Package main is the entry point for deadlinectl, the operator CLI for the
// deadline notification engine. It is meant to be run by hand or from cron.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/bootstrap"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/config"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/platform/logger"
)

// Version is set at build time.
var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := newRootCmd(defaultCLI(os.Stdout, os.Stderr))
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// cli carries what subcommands share. The loaders are fields so tests can
// substitute in-memory dependencies.
type cli struct {
	configPath string
	stdout     io.Writer
	stderr     io.Writer

	loadConfig func(path string) (*config.Config, error)
	build      func(ctx context.Context, cfg *config.Config, log *slog.Logger) (*bootstrap.Deps, error)
}

func defaultCLI(stdout, stderr io.Writer) *cli {
	return &cli{
		stdout:     stdout,
		stderr:     stderr,
		loadConfig: config.LoadFrom,
		build: func(ctx context.Context, cfg *config.Config, log *slog.Logger) (*bootstrap.Deps, error) {
			return bootstrap.Build(ctx, cfg, log)
		},
	}
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "deadlinectl",
		Short: "Run deadline sweeps and notification maintenance",
		Long: `deadlinectl runs the deadline notification engine outside the HTTP server.

Configuration is read from config.yaml in the working directory (or --config)
and TASKDESK_* environment variables.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(c.stdout)
	root.SetErr(c.stderr)
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "path to a config file")

	root.AddCommand(
		newSweepCmd(c),
		newResendCmd(c),
		newMigrateCmd(c),
		newTokenCmd(c),
	)
	return root
}

// setup loads configuration and builds a stderr logger at the configured level.
func (c *cli) setup() (*config.Config, *slog.Logger, error) {
	cfg, err := c.loadConfig(c.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	level, _ := logger.ParseLevel(cfg.Server.LogLevel)
	return cfg, logger.New(c.stderr, level), nil
}

// deps loads configuration and builds every dependency.
func (c *cli) deps(ctx context.Context) (*bootstrap.Deps, error) {
	cfg, log, err := c.setup()
	if err != nil {
		return nil, err
	}
	return c.build(ctx, cfg, log)
}

// printJSON writes v as indented JSON to stdout.
func (c *cli) printJSON(v any) error {
	enc := json.NewEncoder(c.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
