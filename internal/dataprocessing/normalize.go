package dataprocessing

import (
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/pkg/contracts/domain"
)

var (
	numericToken = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)
	dashOnly     = regexp.MustCompile(`^[-\x{2013}\x{2014}]+$`)
	numberCells  = strings.NewReplacer("$", "", ",", "", " ", "", "\t", "", "\u00a0", "")
)

// NormalizeCell turns a cell into at most one numeric value. Empty cells,
// non-finite numbers and text that is not purely numeric yield ok=false.
func NormalizeCell(c domain.Cell) (decimal.Decimal, bool) {
	switch c.Kind {
	case domain.CellNumber:
		if math.IsNaN(c.Number) || math.IsInf(c.Number, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(c.Number), true
	case domain.CellText:
		return NormalizeText(c.Text)
	default:
		return decimal.Zero, false
	}
}

// NormalizeText parses spreadsheet-style numeric text: "$1,250.00",
// "(500)" for -500, and "9." for a question index.
func NormalizeText(s string) (decimal.Decimal, bool) {
	s = numberCells.Replace(strings.TrimSpace(s))
	if s == "" || dashOnly.MatchString(s) {
		return decimal.Zero, false
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	s = strings.TrimSuffix(s, ".")

	if !numericToken.MatchString(s) {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	if negative {
		d = d.Neg()
	}
	return d, true
}
