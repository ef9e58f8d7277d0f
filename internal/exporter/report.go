package exporter

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/internal/config"
	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/pkg/contracts/domain"
)

type column struct {
	name  string
	value func(domain.ExtractionRecord) string
}

// ReportLayout is the ordered column set of the benchmark report
type ReportLayout struct {
	columns []column
}

func construction(r domain.ExtractionRecord) domain.SectionResult { return r.Construction }
func permanent(r domain.ExtractionRecord) domain.SectionResult    { return r.Permanent }

type sectionOf func(domain.ExtractionRecord) domain.SectionResult

func categoryColumn(name string, section sectionOf, cat domain.Category) column {
	return column{name, func(r domain.ExtractionRecord) string {
		s := section(r)
		if !s.Present() {
			return ""
		}
		return formatMoney(s.Amount(cat))
	}}
}

func otherCostsColumn(name string, section sectionOf) column {
	return column{name, func(r domain.ExtractionRecord) string {
		s := section(r)
		if !s.Present() {
			return ""
		}
		return formatMoney(s.OtherTotal)
	}}
}

func otherDetailsColumn(name string, section sectionOf) column {
	return column{name, func(r domain.ExtractionRecord) string { return section(r).OtherDetails }}
}

func totalColumn(name string, section sectionOf) column {
	return column{name, func(r domain.ExtractionRecord) string {
		total, ok := section(r).EffectiveTotal()
		if !ok {
			return ""
		}
		return formatMoney(total)
	}}
}

func fixedColumns() []column {
	return []column{
		{"File Name", func(r domain.ExtractionRecord) string { return r.FileName }},
		{"Flag", func(r domain.ExtractionRecord) string { return r.FlagText() }},
		{"Combined Financing Costs", func(r domain.ExtractionRecord) string { return formatMoney(r.Benchmarks.Combined) }},
		{"Cost per Unit", func(r domain.ExtractionRecord) string { return formatRatio(r.Benchmarks.CostPerUnit) }},
		{"Cost per SF", func(r domain.ExtractionRecord) string { return formatRatio(r.Benchmarks.CostPerSF) }},
		{"% of Hard Costs", func(r domain.ExtractionRecord) string { return formatRatio(r.Benchmarks.PercentOfHardCosts) }},
		{"Total Units", func(r domain.ExtractionRecord) string { return formatCount(r.TotalUnits) }},
		{"Total SF", func(r domain.ExtractionRecord) string { return formatCount(r.TotalSF) }},
		{"Hard Costs", func(r domain.ExtractionRecord) string { return formatOptionalMoney(r.HardCosts) }},

		categoryColumn("Const Loan Interest", construction, domain.CategoryConstLoanInterest),
		categoryColumn("Origination Fee (Construction)", construction, domain.CategoryOriginationFee),
		categoryColumn("Taxes (Construction)", construction, domain.CategoryTaxes),
		categoryColumn("Insurance (Construction)", construction, domain.CategoryInsurance),
		otherCostsColumn("Other Costs (Construction)", construction),
		otherDetailsColumn("Other Details (Construction)", construction),
		totalColumn("Const Total", construction),

		categoryColumn("Perm Loan Origination", permanent, domain.CategoryPermLoanOrigination),
		categoryColumn("Taxes (Permanent)", permanent, domain.CategoryTaxes),
		categoryColumn("Insurance (Permanent)", permanent, domain.CategoryInsurance),
		otherCostsColumn("Other Costs (Permanent)", permanent),
		otherDetailsColumn("Other Details (Permanent)", permanent),
		totalColumn("Perm Total", permanent),
	}
}

// categories already carried by the fixed columns
var fixedCategories = map[domain.SectionKind]map[domain.Category]bool{
	domain.SectionConstruction: {
		domain.CategoryConstLoanInterest: true,
		domain.CategoryOriginationFee:    true,
		domain.CategoryTaxes:             true,
		domain.CategoryInsurance:         true,
	},
	domain.SectionPermanent: {
		domain.CategoryPermLoanOrigination: true,
		domain.CategoryTaxes:               true,
		domain.CategoryInsurance:           true,
	},
}

func detailedColumns(cfg config.ExtractionConfig) []column {
	var cols []column
	for _, sec := range []struct {
		kind   domain.SectionKind
		suffix string
		get    sectionOf
	}{
		{domain.SectionConstruction, "Construction", construction},
		{domain.SectionPermanent, "Permanent", permanent},
	} {
		sc, ok := cfg.Section(string(sec.kind))
		if !ok {
			continue
		}
		for _, cc := range sc.Categories {
			cat := domain.Category(cc.Name)
			if fixedCategories[sec.kind][cat] {
				continue
			}
			cols = append(cols, categoryColumn(fmt.Sprintf("%s (%s)", cc.Name, sec.suffix), sec.get, cat))
		}
	}

	for _, sec := range []struct {
		prefix string
		get    sectionOf
	}{
		{domain.SectionConstruction.Prefix(), construction},
		{domain.SectionPermanent.Prefix(), permanent},
	} {
		get := sec.get
		cols = append(cols,
			column{sec.prefix + " Total (Calculated)", func(r domain.ExtractionRecord) string {
				s := get(r)
				if !s.Present() {
					return ""
				}
				return formatMoney(s.Sum())
			}},
			column{sec.prefix + " Total (Sheet)", func(r domain.ExtractionRecord) string {
				return formatOptionalMoney(get(r).Total)
			}},
		)
	}

	return append(cols, column{"Hard Costs Source", func(r domain.ExtractionRecord) string {
		return string(r.HardCostSource)
	}})
}

// NewReportLayout builds the report columns. The detailed layout appends
// every other configured financing category plus calculated and sheet
// totals for both sections.
func NewReportLayout(cfg config.ExtractionConfig, detailed bool) *ReportLayout {
	cols := fixedColumns()
	if detailed {
		cols = append(cols, detailedColumns(cfg)...)
	}
	return &ReportLayout{columns: cols}
}

// Headers returns the column names in order
func (l *ReportLayout) Headers() []string {
	headers := make([]string, len(l.columns))
	for i, c := range l.columns {
		headers[i] = c.name
	}
	return headers
}

// Row renders one record
func (l *ReportLayout) Row(rec domain.ExtractionRecord) []string {
	row := make([]string, len(l.columns))
	for i, c := range l.columns {
		row[i] = c.value(rec)
	}
	return row
}

// ReportExporter writes extraction records as a CSV report
type ReportExporter struct {
	csvWriter *CSVWriter
	layout    *ReportLayout
	bom       bool
	logger    *slog.Logger
}

// NewReportExporter creates a report exporter writing under paths.ReportsDir
func NewReportExporter(paths *config.Paths, layout *ReportLayout, bom bool, logger *slog.Logger) *ReportExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportExporter{
		csvWriter: NewCSVWriter(paths, logger),
		layout:    layout,
		bom:       bom,
		logger:    logger.With(slog.String("component", "report_exporter")),
	}
}

// Layout returns the column layout used by the exporter
func (e *ReportExporter) Layout() *ReportLayout {
	return e.layout
}

// WriteReport streams records to a report file in input order
func (e *ReportExporter) WriteReport(ctx context.Context, path string, records []domain.ExtractionRecord) error {
	stream, err := e.csvWriter.CreateStreamWriter(path, e.layout.Headers(), e.bom)
	if err != nil {
		return err
	}
	for i, rec := range records {
		if err := stream.WriteRecord(e.layout.Row(rec)); err != nil {
			stream.Close()
			return fmt.Errorf("failed to write report row %d (%s): %w", i, rec.FileName, err)
		}
	}
	if err := stream.Close(); err != nil {
		return fmt.Errorf("failed to close report: %w", err)
	}

	e.logger.InfoContext(ctx, "report written",
		slog.String("path", path),
		slog.Int("rows", len(records)),
		slog.Int("columns", len(e.layout.columns)))
	return nil
}

// WriteTo writes a header row plus one row per record to out
func (e *ReportExporter) WriteTo(out io.Writer, records ...domain.ExtractionRecord) error {
	stream, err := NewStreamWriter(out, e.layout.Headers(), false)
	if err != nil {
		return err
	}
	for _, rec := range records {
		if err := stream.WriteRecord(e.layout.Row(rec)); err != nil {
			return err
		}
	}
	return stream.Close()
}
