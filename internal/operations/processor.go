package operations

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/internal/dataprocessing"
	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/internal/exporter"
	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/internal/files"
	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/internal/validation"
)

// ProcessRequest describes one directory run
type ProcessRequest struct {
	InputDir    string
	ReportPath  string
	SummaryPath string // empty derives <report>.summary.json
}

// ProcessResponse reports what a run produced
type ProcessResponse struct {
	RunID       string                      `json:"run_id"`
	Documents   int                         `json:"documents"`
	ReportPath  string                      `json:"report_path"`
	SummaryPath string                      `json:"summary_path"`
	Summary     dataprocessing.BatchSummary `json:"summary"`
	Duration    time.Duration               `json:"duration"`
}

// Processor runs the directory workflow: discover workbooks, extract them
// on the batch runner, write the report and the flag summary.
type Processor struct {
	discovery  *files.Discovery
	validator  *validation.FileValidator
	runner     *BatchRunner
	reports    *exporter.ReportExporter
	summarizer *dataprocessing.Summarizer
	logger     *slog.Logger
}

// NewProcessor wires a processor from its parts
func NewProcessor(runner *BatchRunner, reports *exporter.ReportExporter, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		discovery:  files.NewDiscovery(""),
		validator:  validation.NewFileValidator(logger),
		runner:     runner,
		reports:    reports,
		summarizer: dataprocessing.NewSummarizer(logger),
		logger:     logger.With(slog.String("component", "processor")),
	}
}

// SummaryPathFor derives the summary file written next to a report
func SummaryPathFor(reportPath string) string {
	return strings.TrimSuffix(reportPath, filepath.Ext(reportPath)) + ".summary.json"
}

// Process runs the workflow. Per-document failures are carried in the
// report; only input, output and cancellation problems return an error.
func (p *Processor) Process(ctx context.Context, req ProcessRequest) (*ProcessResponse, error) {
	if _, err := p.validator.ValidateInputDirectory(req.InputDir); err != nil {
		return nil, err
	}
	if err := p.validator.ValidateOutputDirectory(filepath.Dir(req.ReportPath)); err != nil {
		return nil, err
	}

	found, err := p.discovery.FindWorkbooks(req.InputDir)
	if err != nil {
		return nil, fmt.Errorf("discover workbooks: %w", err)
	}

	result := p.runner.Run(ctx, files.Paths(found))

	if err := p.reports.WriteReport(ctx, req.ReportPath, result.Records); err != nil {
		return nil, fmt.Errorf("write report: %w", err)
	}

	summary := p.summarizer.Summarize(result.Records)
	p.summarizer.Log(ctx, summary)

	summaryPath := req.SummaryPath
	if summaryPath == "" {
		summaryPath = SummaryPathFor(req.ReportPath)
	}
	if err := p.summarizer.WriteJSON(ctx, summaryPath, summary); err != nil {
		return nil, fmt.Errorf("write summary: %w", err)
	}

	resp := &ProcessResponse{
		RunID:       result.RunID,
		Documents:   len(result.Records),
		ReportPath:  req.ReportPath,
		SummaryPath: summaryPath,
		Summary:     summary,
		Duration:    result.Duration,
	}
	if err := ctx.Err(); err != nil {
		return resp, fmt.Errorf("run cancelled after writing partial report: %w", err)
	}
	return resp, nil
}
