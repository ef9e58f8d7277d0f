package testutil

import (
	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/pkg/contracts/domain"
)

// SheetBuilder assembles a sparse sheet for tests. Rows and columns are 0-based.
type SheetBuilder struct {
	name string
	rows [][]domain.Cell
}

// NewSheetBuilder starts an empty sheet
func NewSheetBuilder(name string) *SheetBuilder {
	return &SheetBuilder{name: name}
}

func (b *SheetBuilder) set(row, col int, c domain.Cell) *SheetBuilder {
	for len(b.rows) <= row {
		b.rows = append(b.rows, nil)
	}
	for len(b.rows[row]) <= col {
		b.rows[row] = append(b.rows[row], domain.Cell{})
	}
	b.rows[row][col] = c
	return b
}

// Text places a text cell
func (b *SheetBuilder) Text(row, col int, s string) *SheetBuilder {
	return b.set(row, col, domain.TextCell(s))
}

// Num places a numeric cell
func (b *SheetBuilder) Num(row, col int, v float64) *SheetBuilder {
	return b.set(row, col, domain.NumberCell(v))
}

// Width pads the sheet to at least cols columns
func (b *SheetBuilder) Width(cols int) *SheetBuilder {
	if cols <= 0 {
		return b
	}
	return b.set(0, cols-1, domain.Cell{})
}

// Height pads the sheet to at least rows rows
func (b *SheetBuilder) Height(rows int) *SheetBuilder {
	for len(b.rows) < rows {
		b.rows = append(b.rows, nil)
	}
	return b
}

// Build returns the dense sheet
func (b *SheetBuilder) Build() *domain.Sheet {
	return domain.NewSheet(b.name, b.rows)
}

// Workbook builds a workbook from sheet builders in order
func Workbook(name string, sheets ...*SheetBuilder) *domain.Workbook {
	built := make([]*domain.Sheet, 0, len(sheets))
	for _, s := range sheets {
		built = append(built, s.Build())
	}
	return domain.NewWorkbook(name, built...)
}
