package dataprocessing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime/debug"

	"github.com/shopspring/decimal"

	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/internal/config"
	apierrors "github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/internal/errors"
	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/pkg/contracts/domain"
)

// Extractor runs the per-document pipeline: locate units and area, parse
// the budget sections, derive hard costs, reconcile and benchmark. It
// holds no per-document state and is safe for concurrent use.
type Extractor struct {
	units     *UnitsLocator
	area      *AreaScanner
	sections  *SectionParser
	hardCosts *HardCostCalculator
	tolerance decimal.Decimal
	ceiling   decimal.Decimal
	logger    *slog.Logger
}

// NewExtractor creates an extractor from validated settings
func NewExtractor(cfg config.ExtractionConfig, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		units:     NewUnitsLocator(cfg),
		area:      NewAreaScanner(cfg),
		sections:  NewSectionParser(cfg),
		hardCosts: NewHardCostCalculator(cfg.HardCostComponents),
		tolerance: decimal.NewFromFloat(cfg.Tolerance),
		ceiling:   decimal.NewFromFloat(cfg.PercentCeiling),
		logger:    logger.With(slog.String("component", "extractor")),
	}
}

// FailedRecord is the record of a document that could not be processed
func FailedRecord(fileName string, flag domain.Flag) domain.ExtractionRecord {
	rec := domain.ExtractionRecord{
		FileName:        fileName,
		Flag:            flag,
		Flags:           []domain.Flag{flag},
		Construction:    domain.SectionResult{Kind: domain.SectionConstruction, State: domain.StateAbsent},
		Permanent:       domain.SectionResult{Kind: domain.SectionPermanent, State: domain.StateAbsent},
		NewConstruction: domain.SectionResult{Kind: domain.SectionNewConstruction, State: domain.StateAbsent},
		Rehabilitation:  domain.SectionResult{Kind: domain.SectionRehabilitation, State: domain.StateAbsent},
	}
	rec.Benchmarks.ConstructionAbsent = true
	rec.Benchmarks.PermanentAbsent = true
	return rec
}

// LoadFailure converts a loader error into a flagged record
func LoadFailure(fileName string, err error) domain.ExtractionRecord {
	detail := err.Error()
	var appErr *apierrors.AppError
	if errors.As(err, &appErr) {
		detail = appErr.Detail()
	}
	return FailedRecord(fileName, domain.ErrorFlag(domain.FlagLoadError, detail))
}

// ExtractFile loads and extracts one document. Load failures produce a
// flagged record rather than an error.
func (e *Extractor) ExtractFile(ctx context.Context, path string) domain.ExtractionRecord {
	name := filepath.Base(path)
	if err := ctx.Err(); err != nil {
		return FailedRecord(name, domain.ErrorFlag(domain.FlagExtractionError, err.Error()))
	}
	wb, err := LoadWorkbook(path)
	if err != nil {
		e.logger.WarnContext(ctx, "workbook load failed",
			slog.String("file", name),
			slog.String("error", err.Error()))
		return LoadFailure(name, err)
	}
	return e.Extract(ctx, wb)
}

// ExtractReader loads a workbook from r and extracts it
func (e *Extractor) ExtractReader(ctx context.Context, name string, r io.Reader) domain.ExtractionRecord {
	wb, err := LoadWorkbookReader(name, r)
	if err != nil {
		e.logger.WarnContext(ctx, "workbook load failed",
			slog.String("file", name),
			slog.String("error", err.Error()))
		return LoadFailure(name, err)
	}
	return e.Extract(ctx, wb)
}

// ExtractUpload is ExtractReader for callers that answer a load failure
// themselves instead of carrying it as a flagged record
func (e *Extractor) ExtractUpload(ctx context.Context, name string, r io.Reader) (domain.ExtractionRecord, error) {
	wb, err := LoadWorkbookReader(name, r)
	if err != nil {
		return LoadFailure(name, err), err
	}
	return e.Extract(ctx, wb), nil
}

// Extract produces the record for one loaded workbook. It never panics;
// a failure inside the pipeline yields a record flagged Extraction Error.
func (e *Extractor) Extract(ctx context.Context, wb *domain.Workbook) (rec domain.ExtractionRecord) {
	name := wb.Name()
	defer func() {
		if r := recover(); r != nil {
			e.logger.ErrorContext(ctx, "extraction panicked",
				slog.String("file", name),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
			rec = FailedRecord(name, domain.ErrorFlag(domain.FlagExtractionError, fmt.Sprint(r)))
		}
	}()

	if err := ctx.Err(); err != nil {
		return FailedRecord(name, domain.ErrorFlag(domain.FlagExtractionError, err.Error()))
	}

	units := e.units.Locate(wb)
	area := e.area.Scan(wb)
	sections := e.sections.ParseAll(wb)

	rec = domain.ExtractionRecord{
		FileName:        name,
		TotalUnits:      units.Value,
		TotalSF:         area.Value,
		Construction:    sections.Get(domain.SectionConstruction),
		Permanent:       sections.Get(domain.SectionPermanent),
		NewConstruction: sections.Get(domain.SectionNewConstruction),
		Rehabilitation:  sections.Get(domain.SectionRehabilitation),
	}

	hard := e.hardCosts.Resolve(rec.NewConstruction, rec.Rehabilitation)
	rec.HardCosts = hard.Value
	rec.HardCostSource = hard.Source

	rec.Benchmarks = ComputeBenchmarks(rec.Construction, rec.Permanent,
		rec.TotalUnits, rec.TotalSF, rec.HardCosts, e.ceiling)

	var flags []domain.Flag
	if !sections.SourcesSheetFound {
		flags = append(flags, domain.NewFlag(domain.FlagSourcesTabMissing))
	}
	flags = append(flags, sectionNotices(rec.Construction)...)
	flags = append(flags, sectionNotices(rec.Permanent)...)
	flags = append(flags, hard.Flags...)

	if !units.AppSheetFound {
		flags = append(flags, domain.NewFlag(domain.FlagAppTabMissing))
	}
	if units.Low {
		flags = append(flags, domain.NewFlag(domain.FlagLowUnitCount))
	}
	if area.Value.Valid && area.NonApp {
		flags = append(flags, domain.NewFlag(domain.FlagSFNonAppTab))
	}
	if !area.Value.Valid {
		flags = append(flags, domain.NewFlag(domain.FlagSFMissing))
	}
	if !units.Value.Valid {
		flags = append(flags, domain.NewFlag(domain.FlagUnitsMissing))
	}

	for _, s := range []domain.SectionResult{rec.Construction, rec.Permanent} {
		if f := Reconcile(s, e.tolerance); !f.IsOK() {
			flags = append(flags, f)
		}
	}
	if rec.Benchmarks.PercentImplausible {
		flags = append(flags, domain.NewFlag(domain.FlagImplausibleRatio))
	}

	rec.Flags = flags
	rec.Flag = domain.PrimaryFlag(flags)

	e.logger.DebugContext(ctx, "document extracted",
		slog.String("file", name),
		slog.String("flag", rec.Flag.String()),
		slog.Int("flags", len(flags)),
		slog.Int("const_items", len(rec.Construction.Items)),
		slog.Int("perm_items", len(rec.Permanent.Items)))

	return rec
}
