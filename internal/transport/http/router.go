package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/internal/config"
	apierrors "github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/internal/errors"
	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/internal/infrastructure"
	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/internal/middleware"
	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/internal/services"
)

// RouterDeps holds everything the router wires together
type RouterDeps struct {
	Server      config.ServerConfig
	Extraction  config.ExtractionConfig
	Extractions ExtractionServiceInterface
	Health      *services.HealthService
	Metrics     *infrastructure.ExtractionMetrics
	Prometheus  http.Handler
	Logger      *slog.Logger
	// IncludeStack adds stack traces to problem responses
	IncludeStack bool
}

// NewRouter builds the service's HTTP API:
//
//	POST /api/v1/extractions      upload a workbook, get its record
//	GET  /api/v1/report/columns   report column names
//	GET  /api/v1/version          build information
//	GET  /healthz, /readyz        liveness and readiness
//	GET  /metrics                 Prometheus exposition
func NewRouter(deps RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	errorHandler := apierrors.NewErrorHandler(logger, deps.IncludeStack)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(middleware.Metrics(deps.Metrics))
	r.Use(errorHandler.Middleware)
	r.Use(middleware.SecurityHeaders)

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	health := NewHealthHandler(deps.Health, logger)
	r.Get("/healthz", health.HealthCheck)
	r.Get("/readyz", health.ReadinessCheck)
	r.Method(http.MethodGet, "/metrics", NewMetricsHandler(deps.Prometheus))

	extraction := NewExtractionHandler(deps.Extractions, deps.Extraction, logger, errorHandler)
	r.Route("/api/v1", func(r chi.Router) {
		if deps.Server.RateLimit.Enabled {
			limiter := middleware.NewRateLimiter(deps.Server.RateLimit.RPS, deps.Server.RateLimit.Burst, errorHandler, logger)
			r.Use(limiter.Handler)
		}
		r.Get("/version", health.Version)
		r.Get("/report/columns", extraction.GetColumns)
		r.With(
			middleware.MaxBodySize(deps.Server.MaxUploadBytes),
			middleware.ContentTypeValidator(errorHandler, "multipart/form-data"),
		).Post("/extractions", extraction.Extract)
	})

	return r
}
