package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrSheetNotFound is returned when a workbook has no sheet with the requested name
var ErrSheetNotFound = errors.New("sheet not found")

// CellKind identifies the type of a computed cell value
type CellKind int

const (
	CellEmpty CellKind = iota
	CellNumber
	CellText
)

// String returns the lowercase name of the kind
func (k CellKind) String() string {
	switch k {
	case CellNumber:
		return "number"
	case CellText:
		return "text"
	default:
		return "empty"
	}
}

// Cell is a single computed value. Formulas never reach this type;
// the loader stores the cached result instead.
type Cell struct {
	Kind   CellKind `json:"kind"`
	Number float64  `json:"number,omitempty"`
	Text   string   `json:"text,omitempty"`
}

// NumberCell creates a numeric cell
func NumberCell(v float64) Cell {
	return Cell{Kind: CellNumber, Number: v}
}

// TextCell creates a text cell. Whitespace-only text is stored as empty.
func TextCell(s string) Cell {
	if strings.TrimSpace(s) == "" {
		return Cell{}
	}
	return Cell{Kind: CellText, Text: s}
}

// IsEmpty reports whether the cell holds no value
func (c Cell) IsEmpty() bool {
	return c.Kind == CellEmpty
}

// String renders the cell the way a spreadsheet would display its raw value
func (c Cell) String() string {
	switch c.Kind {
	case CellNumber:
		if math.IsNaN(c.Number) || math.IsInf(c.Number, 0) {
			return ""
		}
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case CellText:
		return c.Text
	default:
		return ""
	}
}

// Sheet is a named dense grid of cells indexed by 0-based (row, col).
// Dimensions are fixed at construction.
type Sheet struct {
	name  string
	cells [][]Cell
	cols  int
}

// NewSheet builds a dense sheet from ragged rows. Short rows are padded
// with empty cells so every row has the same width.
func NewSheet(name string, rows [][]Cell) *Sheet {
	cols := 0
	for _, r := range rows {
		if len(r) > cols {
			cols = len(r)
		}
	}

	cells := make([][]Cell, len(rows))
	for i, r := range rows {
		row := make([]Cell, cols)
		copy(row, r)
		cells[i] = row
	}

	return &Sheet{name: name, cells: cells, cols: cols}
}

// Name returns the sheet name
func (s *Sheet) Name() string { return s.name }

// Rows returns the number of rows
func (s *Sheet) Rows() int { return len(s.cells) }

// Cols returns the number of columns
func (s *Sheet) Cols() int { return s.cols }

// Cell returns the cell at (row, col). Out-of-range positions are empty.
func (s *Sheet) Cell(row, col int) Cell {
	if row < 0 || col < 0 || row >= len(s.cells) || col >= s.cols {
		return Cell{}
	}
	return s.cells[row][col]
}

// Workbook is the immutable cell grid of one document
type Workbook struct {
	name   string
	order  []string
	sheets map[string]*Sheet
}

// NewWorkbook creates a workbook from sheets in workbook order.
// A repeated sheet name keeps the first sheet.
func NewWorkbook(name string, sheets ...*Sheet) *Workbook {
	wb := &Workbook{
		name:   name,
		sheets: make(map[string]*Sheet, len(sheets)),
	}
	for _, s := range sheets {
		if s == nil {
			continue
		}
		if _, dup := wb.sheets[s.name]; dup {
			continue
		}
		wb.order = append(wb.order, s.name)
		wb.sheets[s.name] = s
	}
	return wb
}

// Name returns the document filename the workbook was loaded from
func (w *Workbook) Name() string { return w.name }

// SheetNames returns sheet names in workbook order
func (w *Workbook) SheetNames() []string {
	names := make([]string, len(w.order))
	copy(names, w.order)
	return names
}

// Sheet returns the sheet with the given name
func (w *Workbook) Sheet(name string) (*Sheet, error) {
	s, ok := w.sheets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, name)
	}
	return s, nil
}

// Cell returns a cell by sheet name and position. Unknown sheets and
// out-of-range positions are empty.
func (w *Workbook) Cell(sheet string, row, col int) Cell {
	s, ok := w.sheets[sheet]
	if !ok {
		return Cell{}
	}
	return s.Cell(row, col)
}
