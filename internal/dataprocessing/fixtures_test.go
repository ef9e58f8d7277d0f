package dataprocessing

import (
	"io"
	"log/slog"

	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/internal/config"
	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/internal/shared/testutil"
	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/pkg/contracts/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func defaultCfg() config.ExtractionConfig {
	return config.DefaultExtraction()
}

// budgetRow is a label and amount placed in columns 0 and 2
type budgetRow struct {
	label  string
	amount float64
	text   string
}

// sourcesSheet lays out rows starting at row 0, label in column 0 and
// amount in column 2. A zero amount with empty text leaves the cell blank.
func sourcesSheet(name string, rows ...budgetRow) *testutil.SheetBuilder {
	b := testutil.NewSheetBuilder(name).Width(3)
	for i, r := range rows {
		if r.label != "" {
			b.Text(i, 0, r.label)
		}
		switch {
		case r.text != "":
			b.Text(i, 2, r.text)
		case r.amount != 0:
			b.Num(i, 2, r.amount)
		}
	}
	return b
}

// standardSources is a Sources & Uses sheet with a balanced construction
// section, a permanent section $50 short of its reported total and a
// New Construction section totalling 380,000.
func standardSources() *testutil.SheetBuilder {
	return sourcesSheet("Sources and Uses",
		budgetRow{label: "Sources and Uses Budget"},
		budgetRow{label: "CONSTRUCTION INTEREST & FEES"},
		budgetRow{label: "Construction Loan Interest", amount: 250000},
		budgetRow{label: "Origination Fee", amount: 50000},
		budgetRow{label: "Taxes", amount: 10000},
		budgetRow{label: "Other: (Legal)", amount: 5000},
		budgetRow{label: "Total Construction Interest & Fees", amount: 315000},
		budgetRow{},
		budgetRow{label: "PERMANENT FINANCING"},
		budgetRow{label: "Loan Origination Fee", amount: 20000},
		budgetRow{label: "Title & Recording", amount: 5000},
		budgetRow{label: "Total Permanent Financing Costs", amount: 25050},
		budgetRow{},
		budgetRow{label: "NEW CONSTRUCTION"},
		budgetRow{label: "Site Work", amount: 100000},
		budgetRow{label: "Structures", amount: 250000},
		budgetRow{label: "General Requirements", amount: 30000},
		budgetRow{label: "Total New Construction Costs", amount: 380000},
	)
}

// standardApplication carries "9. Total Units" next to {9, 2025, 45} and
// area labels next to 42,000, 41,950 and an implausible 500.
func standardApplication() *testutil.SheetBuilder {
	return testutil.NewSheetBuilder("Application").
		Text(0, 0, "2025 Application for Tax Credits").
		Text(5, 1, "9. Total Units").Num(5, 2, 9).Num(5, 3, 2025).Num(5, 4, 45).
		Text(7, 1, "Total Residential Square Footage").Num(7, 2, 42000).
		Text(8, 1, "Net Rentable Area").Num(8, 2, 41950).
		Text(12, 1, "Community room sq. ft.").Num(12, 2, 500)
}

func standardWorkbook() *domain.Workbook {
	return testutil.Workbook("25-401.xlsx", standardApplication(), standardSources())
}
