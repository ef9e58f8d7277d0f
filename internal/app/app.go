package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/internal/config"
	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/internal/dataprocessing"
	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/internal/exporter"
	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/internal/files"
	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/internal/infrastructure"
	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/internal/operations"
	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/internal/scraper"
	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/internal/services"
	handlers "github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/internal/transport/http"
	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/pkg/contracts"
)

// Application wires configuration, telemetry and the extraction pipeline
// for the three entry points: process, fetch and serve
type Application struct {
	Config        *config.Config
	Paths         *config.Paths
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.ExtractionMetrics
	Runtime       *infrastructure.RuntimeMetrics
	Extractor     *dataprocessing.Extractor
}

// Option configures an Application
type Option func(*Application)

// WithLogger uses logger instead of building one from the logging config
func WithLogger(logger *slog.Logger) Option {
	return func(a *Application) { a.Logger = logger }
}

// NewApplication initializes logging, telemetry and the extractor
func NewApplication(cfg *config.Config, opts ...Option) (*Application, error) {
	a := &Application{Config: cfg}
	for _, opt := range opts {
		opt(a)
	}

	if a.Logger == nil {
		logger, err := infrastructure.InitializeLogger(cfg.Logging)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
		a.Logger = logger
	}

	paths, err := cfg.ResolvePaths()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	a.Paths = paths
	paths.LogPathResolution()

	providers, err := infrastructure.InitializeOTel(cfg.Telemetry, a.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}
	a.OTelProviders = providers

	metrics, err := infrastructure.NewExtractionMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}
	a.Metrics = metrics

	runtimeMetrics, err := infrastructure.NewRuntimeMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to register runtime metrics: %w", err)
	}
	a.Runtime = runtimeMetrics

	a.Extractor = dataprocessing.NewExtractor(cfg.Extraction, a.Logger)

	a.Logger.Info("Application initialized",
		slog.String("name", config.AppName),
		slog.String("version", contracts.Version),
		slog.Int("workers", cfg.Batch.Workers),
		slog.Bool("detailed", cfg.Batch.Detailed))
	return a, nil
}

// Processor builds the directory workflow from the current settings
func (a *Application) Processor() *operations.Processor {
	runner := operations.NewBatchRunner(a.Extractor, a.Logger,
		operations.WithWorkers(a.Config.Batch.Workers),
		operations.WithDocumentTimeout(a.Config.Batch.DocTimeout),
		operations.WithMetrics(a.Metrics),
		operations.WithTracer(a.OTelProviders.Tracer),
	)
	layout := exporter.NewReportLayout(a.Config.Extraction, a.Config.Batch.Detailed)
	reports := exporter.NewReportExporter(a.Paths, layout, a.Config.Batch.BOMPrefix, a.Logger)
	return operations.NewProcessor(runner, reports, a.Logger)
}

// Process extracts every workbook in inputDir into reportPath. Empty
// arguments fall back to the configured paths.
func (a *Application) Process(ctx context.Context, inputDir, reportPath string) (*operations.ProcessResponse, error) {
	if inputDir == "" {
		inputDir = a.Paths.InputDir
	}
	if reportPath == "" {
		reportPath = a.Paths.ReportFile
	}
	reportPath, err := filepath.Abs(reportPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve report path: %w", err)
	}

	return a.Processor().Process(ctx, operations.ProcessRequest{
		InputDir:   inputDir,
		ReportPath: reportPath,
	})
}

// Fetch downloads the workbooks linked from indexURL into dir. Empty
// arguments fall back to the configured index and downloads directory.
func (a *Application) Fetch(ctx context.Context, indexURL, dir string) (*scraper.FetchResult, error) {
	if indexURL == "" {
		indexURL = a.Config.Fetch.IndexURL
	}
	if dir == "" {
		dir = a.Paths.DownloadsDir
	}
	store := files.NewManager(dir, a.Logger)
	fetcher := scraper.NewFetcher(a.Config.Fetch, store, a.Logger, scraper.WithMetrics(a.Metrics))
	return fetcher.Fetch(ctx, indexURL)
}

// Handler returns the HTTP API wrapped in OpenTelemetry instrumentation
func (a *Application) Handler() http.Handler {
	router := handlers.NewRouter(handlers.RouterDeps{
		Server:       a.Config.Server,
		Extraction:   a.Config.Extraction,
		Extractions:  services.NewExtractionService(a.Extractor, a.Metrics, a.Logger),
		Health:       services.NewHealthService(contracts.Version, a.Paths, a.Logger),
		Metrics:      a.Metrics,
		Prometheus:   a.OTelProviders.PrometheusHTTP,
		Logger:       a.Logger,
		IncludeStack: a.Config.Logging.Development,
	})
	return otelhttp.NewHandler(router, config.ServiceName)
}

// Serve runs the HTTP API on ln until ctx is cancelled, then shuts down
// gracefully within the configured timeout
func (a *Application) Serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:      a.Handler(),
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
		BaseContext:  func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.InfoContext(ctx, "HTTP server listening", slog.String("address", ln.Addr().String()))
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.Logger.InfoContext(ctx, "Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.Config.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	return <-errCh
}

// ListenAndServe listens on the configured address and calls Serve
func (a *Application) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.Config.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Config.Server.Addr, err)
	}
	return a.Serve(ctx, ln)
}

// Close flushes telemetry and closes the log file
func (a *Application) Close(ctx context.Context) error {
	var errs []error
	if err := a.Runtime.Unregister(); err != nil {
		errs = append(errs, err)
	}
	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := infrastructure.CloseLogFile(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
