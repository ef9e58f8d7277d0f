package services

import (
	"context"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/internal/infrastructure"
	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/pkg/contracts/domain"
)

// UploadExtractor extracts a workbook read from a stream
type UploadExtractor interface {
	ExtractUpload(ctx context.Context, name string, r io.Reader) (domain.ExtractionRecord, error)
}

// ExtractionService runs single uploaded documents through the extractor
// with the same tracing and metrics as batch runs
type ExtractionService struct {
	extractor UploadExtractor
	metrics   *infrastructure.ExtractionMetrics
	tracer    trace.Tracer
	logger    *slog.Logger
}

// NewExtractionService creates an extraction service. metrics may be nil.
func NewExtractionService(extractor UploadExtractor, metrics *infrastructure.ExtractionMetrics, logger *slog.Logger) *ExtractionService {
	return &ExtractionService{
		extractor: extractor,
		metrics:   metrics,
		tracer:    otel.Tracer("ctcacbench.services"),
		logger:    infrastructure.WithComponent(logger, "extraction_service"),
	}
}

// ExtractUpload extracts one uploaded workbook. A workbook that cannot be
// opened returns its Load Error record together with the load error.
func (s *ExtractionService) ExtractUpload(ctx context.Context, name string, r io.Reader) (domain.ExtractionRecord, error) {
	start := time.Now()
	ctx = infrastructure.EnsureTraceID(ctx)
	ctx = infrastructure.WithDocument(ctx, name)
	ctx, span := s.tracer.Start(ctx, "extraction.upload",
		trace.WithAttributes(attribute.String("document.name", name)))
	defer span.End()

	if s.metrics != nil {
		s.metrics.ActiveDocuments.Add(ctx, 1)
		defer s.metrics.ActiveDocuments.Add(ctx, -1)
	}

	rec, err := s.extractor.ExtractUpload(ctx, name, r)

	kinds := make([]string, 0, len(rec.Flags))
	for _, f := range rec.Flags {
		kinds = append(kinds, string(f.Kind))
	}
	primary := string(rec.Flag.Kind)
	if primary == "" {
		primary = string(domain.FlagOK)
	}
	s.metrics.RecordDocument(ctx, primary, kinds, time.Since(start))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		infrastructure.WithError(s.logger, err).WarnContext(ctx, "upload could not be loaded",
			slog.String("file", name))
		return rec, err
	}

	span.SetAttributes(attribute.String("document.flag", rec.Flag.String()))
	s.logger.InfoContext(ctx, "upload extracted",
		slog.String("file", name),
		slog.String("flag", rec.FlagText()),
		slog.Duration("duration", time.Since(start)))
	return rec, nil
}
