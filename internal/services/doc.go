// Package services sits between the HTTP handlers and the extraction
// pipeline.
//
// ExtractionService runs a single uploaded workbook through the extractor
// inside its own span and records the same document metrics as a batch
// run. HealthService answers liveness, readiness and version queries;
// readiness fails when the reports directory is not writable.
package services
