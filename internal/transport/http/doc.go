// Package http exposes the extractor over HTTP.
//
// Handlers stay thin: they decode and validate the request, call a
// service, and render the result with go-chi/render. Every error goes
// through apierrors.ErrorHandler and leaves as an RFC 7807 problem, so a
// workbook that cannot be opened is a 422 carrying the loader's detail
// and the request's trace_id.
//
// # Routes
//
//	POST /api/v1/extractions        multipart "file" field; ?format=csv, ?detailed=true
//	GET  /api/v1/report/columns     ?detailed=true
//	GET  /api/v1/version
//	GET  /healthz
//	GET  /readyz
//	GET  /metrics
//
// The /api/v1 group is rate limited when server.rate_limit.enabled is set.
// Uploads are capped at server.max_upload_bytes.
//
// # Example
//
//	router := http.NewRouter(http.RouterDeps{
//		Server:      cfg.Server,
//		Extraction:  cfg.Extraction,
//		Extractions: services.NewExtractionService(extractor, metrics, logger),
//		Health:      services.NewHealthService(contracts.Version, paths, logger),
//		Metrics:     metrics,
//		Prometheus:  providers.PrometheusHTTP,
//		Logger:      logger,
//	})
package http
