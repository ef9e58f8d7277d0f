package dataprocessing

import (
	"github.com/shopspring/decimal"

	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/internal/config"
	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/pkg/contracts/domain"
)

// UnitsResult is the outcome of the Total Units search
type UnitsResult struct {
	Value         decimal.NullDecimal
	Candidate     domain.Candidate
	AppSheetFound bool
	Low           bool
}

// UnitsLocator finds the reported total unit count while rejecting the
// question index and program year printed next to the label.
type UnitsLocator struct {
	labels      labelSet
	appSheets   []string
	window      window
	yearMin     decimal.Decimal
	yearMax     decimal.Decimal
	unitMin     decimal.Decimal
	unitMax     decimal.Decimal
	lowUnitsLim decimal.Decimal
}

// NewUnitsLocator creates a locator from the extraction settings
func NewUnitsLocator(cfg config.ExtractionConfig) *UnitsLocator {
	return &UnitsLocator{
		labels:      newLabelSet(cfg.UnitLabels),
		appSheets:   cfg.AppSheetPatterns,
		window:      window{rows: cfg.RowWindow, cols: cfg.ColWindow},
		yearMin:     decimal.NewFromInt(int64(cfg.YearMin)),
		yearMax:     decimal.NewFromInt(int64(cfg.YearMax)),
		unitMin:     decimal.NewFromFloat(cfg.UnitMin),
		unitMax:     decimal.NewFromFloat(cfg.UnitMax),
		lowUnitsLim: decimal.NewFromFloat(cfg.LowUnitThreshold),
	}
}

// exclusions builds the ordered rejection rules for one label occurrence
func (l *UnitsLocator) exclusions(index decimal.Decimal, hasIndex bool) []exclusion {
	return []exclusion{
		{"question index", func(c domain.Candidate) bool {
			return hasIndex && c.Value.Equal(index)
		}},
		{"calendar year", func(c domain.Candidate) bool {
			return c.Value.GreaterThanOrEqual(l.yearMin) && c.Value.LessThanOrEqual(l.yearMax)
		}},
		{"non-positive", func(c domain.Candidate) bool {
			return c.Value.Sign() <= 0
		}},
		{"fractional", func(c domain.Candidate) bool {
			return !c.Value.IsInteger()
		}},
		{"implausible", func(c domain.Candidate) bool {
			return c.Value.LessThan(l.unitMin) || c.Value.GreaterThan(l.unitMax)
		}},
	}
}

// Locate scans every sheet, application sheets first, and returns the
// surviving candidate closest to a unit-count label.
func (l *UnitsLocator) Locate(wb *domain.Workbook) UnitsResult {
	sheets, appCount := orderSheets(wb.SheetNames(), l.appSheets)
	res := UnitsResult{AppSheetFound: appCount > 0}

	var survivors []domain.Candidate
	seq := 0
	for _, name := range sheets {
		sheet, err := wb.Sheet(name)
		if err != nil {
			continue
		}
		for r := 0; r < sheet.Rows(); r++ {
			for c := 0; c < sheet.Cols(); c++ {
				label := textAt(sheet, r, c)
				if !l.labels.Match(label) {
					continue
				}
				index, hasIndex := questionIndex(sheet, r, c, label)
				rules := l.exclusions(index, hasIndex)
				for _, cand := range collectCandidates(sheet, r, c, l.window, &seq) {
					if survives(cand, rules) {
						survivors = append(survivors, cand)
					}
				}
			}
		}
	}

	best, ok := nearest(survivors)
	if !ok {
		return res
	}
	res.Candidate = best
	res.Value = decimal.NewNullDecimal(best.Value)
	res.Low = best.Value.LessThan(l.lowUnitsLim)
	return res
}
