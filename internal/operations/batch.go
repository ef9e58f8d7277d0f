package operations

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/internal/dataprocessing"
	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/internal/infrastructure"
	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/pkg/contracts/domain"
)

// TracerName is the instrumentation scope of batch spans
const TracerName = "ctcacbench.batch"

// DocumentExtractor turns one workbook file into a record. It must not
// return without a record.
type DocumentExtractor interface {
	ExtractFile(ctx context.Context, path string) domain.ExtractionRecord
}

// BatchRunner processes documents on a bounded worker pool
type BatchRunner struct {
	extractor  DocumentExtractor
	workers    int
	docTimeout time.Duration
	metrics    *infrastructure.ExtractionMetrics
	tracer     trace.Tracer
	logger     *slog.Logger
}

// BatchOption configures a BatchRunner
type BatchOption func(*BatchRunner)

// WithWorkers sets the pool size; values below 1 mean runtime.NumCPU()
func WithWorkers(n int) BatchOption {
	return func(r *BatchRunner) { r.workers = n }
}

// WithDocumentTimeout bounds the time spent on a single document
func WithDocumentTimeout(d time.Duration) BatchOption {
	return func(r *BatchRunner) { r.docTimeout = d }
}

// WithMetrics records per-document metrics
func WithMetrics(m *infrastructure.ExtractionMetrics) BatchOption {
	return func(r *BatchRunner) { r.metrics = m }
}

// WithTracer overrides the global tracer
func WithTracer(t trace.Tracer) BatchOption {
	return func(r *BatchRunner) { r.tracer = t }
}

// NewBatchRunner creates a runner around extractor
func NewBatchRunner(extractor DocumentExtractor, logger *slog.Logger, opts ...BatchOption) *BatchRunner {
	if logger == nil {
		logger = slog.Default()
	}
	r := &BatchRunner{
		extractor: extractor,
		logger:    logger.With(slog.String("component", "batch_runner")),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.workers < 1 {
		r.workers = runtime.NumCPU()
	}
	if r.tracer == nil {
		r.tracer = otel.Tracer(TracerName)
	}
	return r
}

// BatchResult holds one record per input path, in input order
type BatchResult struct {
	RunID    string
	Records  []domain.ExtractionRecord
	Duration time.Duration
}

// Run extracts every path. Each document writes only its own slot, so the
// output order matches paths whatever order the workers finish in.
// Cancelling ctx stops scheduling; documents never started still get a
// record flagged as an extraction error.
func (r *BatchRunner) Run(ctx context.Context, paths []string) BatchResult {
	runID := uuid.NewString()
	start := time.Now()
	ctx = infrastructure.WithTraceID(ctx, runID)

	ctx, span := r.tracer.Start(ctx, "batch.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("batch.run_id", runID),
			attribute.Int("batch.documents", len(paths)),
			attribute.Int("batch.workers", r.workers),
		),
	)
	defer span.End()

	r.logger.InfoContext(ctx, "batch started",
		slog.String("run_id", runID),
		slog.Int("documents", len(paths)),
		slog.Int("workers", r.workers))

	records := make([]domain.ExtractionRecord, len(paths))
	scheduled := make([]bool, len(paths))
	progress := NewProgressTracker("extract", len(paths))

	var g errgroup.Group
	g.SetLimit(r.workers)
	for i, path := range paths {
		if ctx.Err() != nil {
			break
		}
		scheduled[i] = true
		g.Go(func() error {
			records[i] = r.process(ctx, path)
			done := progress.Increment(records[i].FileName)
			r.logger.DebugContext(ctx, "document done",
				slog.String("file", records[i].FileName),
				slog.String("flag", records[i].Flag.String()),
				slog.Int("done", done),
				slog.Int("total", len(paths)),
				slog.String("eta", progress.GetETA()))
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		skipped := 0
		for i, path := range paths {
			if !scheduled[i] {
				records[i] = dataprocessing.FailedRecord(filepath.Base(path),
					domain.ErrorFlag(domain.FlagExtractionError, err.Error()))
				skipped++
			}
		}
		span.SetStatus(codes.Error, err.Error())
		r.logger.WarnContext(ctx, "batch cancelled",
			slog.String("run_id", runID),
			slog.Int("unscheduled", skipped),
			slog.String("error", err.Error()))
	} else {
		span.SetStatus(codes.Ok, "batch completed")
	}

	res := BatchResult{RunID: runID, Records: records, Duration: time.Since(start)}
	r.logger.InfoContext(ctx, "batch finished",
		slog.String("run_id", runID),
		slog.Int("documents", len(records)),
		slog.String("elapsed", progress.GetElapsedTimeString()))
	return res
}

// process runs one document inside its own span. A panic in the loader or
// extractor becomes a flagged record.
func (r *BatchRunner) process(ctx context.Context, path string) (rec domain.ExtractionRecord) {
	name := filepath.Base(path)
	start := time.Now()

	ctx = infrastructure.WithDocument(ctx, name)
	ctx, span := r.tracer.Start(ctx, "batch.document",
		trace.WithAttributes(attribute.String("document.name", name)))
	defer span.End()

	if r.metrics != nil {
		r.metrics.ActiveDocuments.Add(ctx, 1)
		defer r.metrics.ActiveDocuments.Add(ctx, -1)
	}

	defer func() {
		if p := recover(); p != nil {
			r.logger.ErrorContext(ctx, "document panicked",
				slog.String("file", name),
				slog.Any("panic", p),
				slog.String("stack", string(debug.Stack())))
			rec = dataprocessing.FailedRecord(name,
				domain.ErrorFlag(domain.FlagExtractionError, fmt.Sprint(p)))
		}
		r.finish(ctx, span, rec, time.Since(start))
	}()

	if r.docTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.docTimeout)
		defer cancel()
	}

	rec = r.extractor.ExtractFile(ctx, path)
	if rec.FileName == "" {
		rec.FileName = name
	}
	return rec
}

func (r *BatchRunner) finish(ctx context.Context, span trace.Span, rec domain.ExtractionRecord, elapsed time.Duration) {
	kinds := make([]string, 0, len(rec.Flags))
	for _, f := range rec.Flags {
		kinds = append(kinds, string(f.Kind))
	}
	primary := string(rec.Flag.Kind)
	if primary == "" {
		primary = string(domain.FlagOK)
	}

	span.SetAttributes(
		attribute.String("document.flag", rec.Flag.String()),
		attribute.Int("document.flags", len(rec.Flags)),
	)
	switch rec.Flag.Kind {
	case domain.FlagLoadError, domain.FlagExtractionError:
		span.SetStatus(codes.Error, rec.Flag.String())
	default:
		span.SetStatus(codes.Ok, "")
	}

	r.metrics.RecordDocument(ctx, primary, kinds, elapsed)
}
