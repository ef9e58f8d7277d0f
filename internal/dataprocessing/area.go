package dataprocessing

import (
	"github.com/shopspring/decimal"

	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/internal/config"
	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/pkg/contracts/domain"
)

// AreaResult is the outcome of the square footage scan
type AreaResult struct {
	Value     decimal.NullDecimal
	Candidate domain.Candidate
	NonApp    bool
}

// AreaScanner takes the largest plausible area value near any area label
// in the workbook. Budget sheets are skipped because they carry per-SF
// costs next to the same labels.
type AreaScanner struct {
	labels    labelSet
	appSheets []string
	skip      labelSet
	window    window
	min       decimal.Decimal
	max       decimal.Decimal
}

// NewAreaScanner creates a scanner from the extraction settings
func NewAreaScanner(cfg config.ExtractionConfig) *AreaScanner {
	return &AreaScanner{
		labels:    newLabelSet(cfg.AreaLabels),
		appSheets: cfg.AppSheetPatterns,
		skip:      newLabelSet(cfg.AreaSkipSheets),
		window:    window{rows: cfg.RowWindow, cols: cfg.ColWindow},
		min:       decimal.NewFromFloat(cfg.AreaMin),
		max:       decimal.NewFromFloat(cfg.AreaMax),
	}
}

// Scan returns the global maximum; the first occurrence wins a tie
func (s *AreaScanner) Scan(wb *domain.Workbook) AreaResult {
	sheets, _ := orderSheets(wb.SheetNames(), s.appSheets)

	var (
		best  domain.Candidate
		found bool
		seq   int
	)
	for _, name := range sheets {
		if s.skip.Match(name) {
			continue
		}
		sheet, err := wb.Sheet(name)
		if err != nil {
			continue
		}
		for r := 0; r < sheet.Rows(); r++ {
			for c := 0; c < sheet.Cols(); c++ {
				if !s.labels.Match(textAt(sheet, r, c)) {
					continue
				}
				for _, cand := range collectCandidates(sheet, r, c, s.window, &seq) {
					if cand.Value.LessThan(s.min) || cand.Value.GreaterThan(s.max) {
						continue
					}
					if !found || cand.Value.GreaterThan(best.Value) {
						best, found = cand, true
					}
				}
			}
		}
	}

	if !found {
		return AreaResult{}
	}
	return AreaResult{
		Value:     decimal.NewNullDecimal(best.Value),
		Candidate: best,
		NonApp:    !newLabelSet(s.appSheets).Match(best.Sheet),
	}
}
