package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the extractor over HTTP",
	Long: `Starts the HTTP API:

  POST /api/v1/extractions      multipart "file" field, ?format=csv, ?detailed=true
  GET  /api/v1/report/columns   report column names
  GET  /api/v1/version          build information
  GET  /healthz, /readyz        liveness and readiness
  GET  /metrics                 Prometheus metrics

SIGINT or SIGTERM drains in-flight requests before exiting.`,
	Args: cobra.NoArgs,
	RunE: runServeCmd,
}

var serveAddr string

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "Listen address (defaults to server.addr)")

	rootCmd.AddCommand(serveCmd)
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	return runApp(cmd, cfg, func(ctx context.Context, a *app.Application) error {
		return a.ListenAndServe(ctx)
	})
}
