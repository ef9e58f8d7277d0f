package dataprocessing

import (
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	apierrors "github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/internal/errors"
	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/pkg/contracts/domain"
)

// rawNumber matches the raw value excelize reports for a numeric cell
var rawNumber = regexp.MustCompile(`^-?\d+(\.\d+)?([eE][-+]?\d+)?$`)

// LoadWorkbook reads an application workbook from disk. Formula cells
// are read as their cached results.
func LoadWorkbook(path string) (*domain.Workbook, error) {
	name := filepath.Base(path)
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apierrors.NewLoadError("failed to open workbook", err).WithContext("file", name)
	}
	defer f.Close()

	return readWorkbook(name, f)
}

// LoadWorkbookReader reads a workbook from r, naming it name
func LoadWorkbookReader(name string, r io.Reader) (*domain.Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apierrors.NewLoadError("failed to open workbook", err).WithContext("file", name)
	}
	defer f.Close()

	return readWorkbook(name, f)
}

func readWorkbook(name string, f *excelize.File) (*domain.Workbook, error) {
	sheetNames := f.GetSheetList()
	if len(sheetNames) == 0 {
		return nil, apierrors.NewLoadError("workbook has no sheets", nil).WithContext("file", name)
	}

	sheets := make([]*domain.Sheet, 0, len(sheetNames))
	for _, sheetName := range sheetNames {
		rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, apierrors.NewLoadError(fmt.Sprintf("failed to read sheet %q", sheetName), err).
				WithContext("file", name)
		}
		dates := newDateStyles(f)
		sheets = append(sheets, domain.NewSheet(sheetName, toCells(rows, func(row, col int) (string, bool) {
			return dates.formatted(sheetName, row, col)
		})))
	}

	return domain.NewWorkbook(name, sheets...), nil
}

// dateLookup returns the displayed text of a date-formatted cell.
// ok is false for cells that are not dates.
type dateLookup func(row, col int) (text string, ok bool)

// toCells types raw values: numeric-looking values become number cells
// unless the cell is formatted as a date, everything else text, blanks
// empty. Date serials are kept as their displayed text so they can never
// be taken for a count or an area.
func toCells(rows [][]string, isDate dateLookup) [][]domain.Cell {
	out := make([][]domain.Cell, len(rows))
	for i, row := range rows {
		cells := make([]domain.Cell, len(row))
		for j, raw := range row {
			cells[j] = typedCell(raw)
			if cells[j].Kind == domain.CellNumber && isDate != nil {
				if text, ok := isDate(i, j); ok {
					cells[j] = domain.TextCell(text)
				}
			}
		}
		out[i] = cells
	}
	return out
}

// dateStyles caches, per style index, whether the number format is a date
type dateStyles struct {
	f     *excelize.File
	cache map[int]bool
}

func newDateStyles(f *excelize.File) *dateStyles {
	return &dateStyles{f: f, cache: make(map[int]bool)}
}

func (d *dateStyles) formatted(sheet string, row, col int) (string, bool) {
	axis, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return "", false
	}
	if t, err := d.f.GetCellType(sheet, axis); err == nil && t == excelize.CellTypeDate {
		return d.text(sheet, axis), true
	}
	styleID, err := d.f.GetCellStyle(sheet, axis)
	if err != nil || styleID == 0 {
		return "", false
	}
	isDate, seen := d.cache[styleID]
	if !seen {
		isDate = d.styleIsDate(styleID)
		d.cache[styleID] = isDate
	}
	if !isDate {
		return "", false
	}
	return d.text(sheet, axis), true
}

func (d *dateStyles) text(sheet, axis string) string {
	v, err := d.f.GetCellValue(sheet, axis)
	if err != nil || v == "" {
		return "date"
	}
	return v
}

func (d *dateStyles) styleIsDate(styleID int) bool {
	style, err := d.f.GetStyle(styleID)
	if err != nil || style == nil {
		return false
	}
	if style.CustomNumFmt != nil {
		return isDateFormat(*style.CustomNumFmt)
	}
	return isBuiltInDateFormat(style.NumFmt)
}

// isBuiltInDateFormat covers the built-in date and time format ids,
// including the East Asian ones
func isBuiltInDateFormat(id int) bool {
	switch {
	case id >= 14 && id <= 22,
		id >= 27 && id <= 36,
		id >= 45 && id <= 47,
		id >= 50 && id <= 58:
		return true
	}
	return false
}

var (
	quotedLiteral = regexp.MustCompile(`"[^"]*"|\\.|\[[^\]]*\]`)
	dateTokens    = regexp.MustCompile(`(?i)[ydmhs]`)
)

// isDateFormat reports whether a custom number format renders a date or
// time. Quoted text, escaped characters and bracketed sections such as
// currency locales are ignored.
func isDateFormat(format string) bool {
	if format == "" || strings.EqualFold(format, "General") {
		return false
	}
	return dateTokens.MatchString(quotedLiteral.ReplaceAllString(format, ""))
}

func typedCell(raw string) domain.Cell {
	if raw == "" {
		return domain.Cell{}
	}
	if rawNumber.MatchString(raw) {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return domain.NumberCell(v)
		}
	}
	return domain.TextCell(raw)
}
