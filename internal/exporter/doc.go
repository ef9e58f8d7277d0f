// Package exporter writes benchmark reports as CSV.
//
// CSVWriter handles file placement under the reports directory, the
// optional UTF-8 BOM for Excel, and streaming writes. ReportLayout maps an
// ExtractionRecord onto the fixed report columns, or the detailed layout
// with every configured financing category and both section totals.
//
// Example usage:
//
//	layout := exporter.NewReportLayout(cfg.Extraction, cfg.Batch.Detailed)
//	reports := exporter.NewReportExporter(paths, layout, cfg.Batch.BOMPrefix, logger)
//	err := reports.WriteReport(ctx, "benchmarks.csv", records)
package exporter
