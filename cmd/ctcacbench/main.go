// Package main provides the ctcacbench command line: extract financing
// cost benchmarks from CTCAC application workbooks, fetch the workbooks,
// or serve the extractor over HTTP.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/internal/app"
	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/internal/config"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "ctcacbench",
	Short: "CTCAC financing cost benchmarker",
	Long: `ctcacbench reads CTCAC tax credit application workbooks, extracts
construction and permanent financing costs, reconciles them against the
sheet totals and reports cost per unit, per square foot and as a share of
hard costs.

Settings come from defaults, an optional YAML file (--config, config.yaml or
configs/config.yaml) and CTCAC_* environment variables, in increasing order
of precedence. A .env file in the working directory is loaded first.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the log level (debug, info, warn, error)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration and applies the global flag overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	return cfg, nil
}

// runApp builds an application from cfg, runs fn with a context cancelled
// on SIGINT or SIGTERM and closes the application afterwards
func runApp(cmd *cobra.Command, cfg *config.Config, fn func(ctx context.Context, a *app.Application) error) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	a, err := app.NewApplication(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := fn(ctx, a)

	closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.Close(closeCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("shutdown: %w", err)
	}
	return runErr
}
