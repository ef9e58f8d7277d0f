// Package middleware holds the HTTP middleware of the extraction service:
// request IDs, structured request logging, route metrics, rate limiting,
// body size and content type limits, and struct-tag validation of request
// parameters. Failures are rendered by the shared RFC 7807 error handler.
package middleware
