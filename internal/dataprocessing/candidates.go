package dataprocessing

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/pkg/contracts/domain"
)

// questionPrefix matches a leading question index such as "9." or "12)"
var questionPrefix = regexp.MustCompile(`^\s*(\d{1,3})\s*[.):]`)

// labelSet is a lowercase synonym list matched by substring
type labelSet []string

func newLabelSet(synonyms []string) labelSet {
	set := make(labelSet, 0, len(synonyms))
	for _, s := range synonyms {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			set = append(set, s)
		}
	}
	return set
}

// Match reports whether text contains any synonym, ignoring case
func (l labelSet) Match(text string) bool {
	if text == "" {
		return false
	}
	lower := strings.ToLower(text)
	for _, s := range l {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

// orderSheets moves sheets whose name matches any pattern to the front,
// keeping workbook order within both groups. matched is the size of the
// first group.
func orderSheets(names []string, patterns []string) (ordered []string, matched int) {
	set := newLabelSet(patterns)
	ordered = make([]string, 0, len(names))
	var rest []string
	for _, n := range names {
		if set.Match(n) {
			ordered = append(ordered, n)
		} else {
			rest = append(rest, n)
		}
	}
	matched = len(ordered)
	return append(ordered, rest...), matched
}

// window bounds the cells inspected around a label
type window struct {
	rows int
	cols int
}

// collectCandidates walks the neighborhood of the label at (row, col): the
// rest of the label row to the right, then the next w.rows rows from the
// label column rightwards, all within w.cols columns. Cells left of the
// label hold question indexes and row captions, so they are not read.
// seq is advanced once per candidate and becomes its scan order.
func collectCandidates(sheet *domain.Sheet, row, col int, w window, seq *int) []domain.Candidate {
	var out []domain.Candidate
	last := col + w.cols
	if last >= sheet.Cols() {
		last = sheet.Cols() - 1
	}

	for r := row; r <= row+w.rows && r < sheet.Rows(); r++ {
		start := col
		if r == row {
			start = col + 1
		}
		for c := start; c <= last; c++ {
			v, ok := NormalizeCell(sheet.Cell(r, c))
			if !ok {
				continue
			}
			out = append(out, domain.Candidate{
				Value:    v,
				Sheet:    sheet.Name(),
				Row:      r,
				Col:      c,
				Distance: (r - row) + (c - col),
				Order:    *seq,
			})
			*seq++
		}
	}
	return out
}

// questionIndex returns the index number attached to a label, taken from
// a "9." prefix in the label text or from a lone number in the cell
// immediately to its left.
func questionIndex(sheet *domain.Sheet, row, col int, label string) (decimal.Decimal, bool) {
	if m := questionPrefix.FindStringSubmatch(label); m != nil {
		if d, err := decimal.NewFromString(m[1]); err == nil {
			return d, true
		}
	}
	if col == 0 {
		return decimal.Zero, false
	}
	left := sheet.Cell(row, col-1)
	if left.IsEmpty() {
		return decimal.Zero, false
	}
	v, ok := NormalizeCell(left)
	if !ok || !v.IsInteger() || v.Sign() <= 0 {
		return decimal.Zero, false
	}
	return v, true
}

// exclusion rejects a candidate. Exclusions are applied in order and a
// candidate survives only if none of them reject it.
type exclusion struct {
	name   string
	reject func(domain.Candidate) bool
}

func survives(c domain.Candidate, rules []exclusion) bool {
	for _, r := range rules {
		if r.reject(c) {
			return false
		}
	}
	return true
}

// nearest returns the candidate with the smallest distance, the earliest
// scan order winning ties.
func nearest(cands []domain.Candidate) (domain.Candidate, bool) {
	if len(cands) == 0 {
		return domain.Candidate{}, false
	}
	best := cands[0]
	for _, c := range cands[1:] {
		if c.Distance < best.Distance || (c.Distance == best.Distance && c.Order < best.Order) {
			best = c
		}
	}
	return best, true
}

// textAt returns the trimmed text of a text cell, or "" for anything else
func textAt(sheet *domain.Sheet, row, col int) string {
	c := sheet.Cell(row, col)
	if c.Kind != domain.CellText {
		return ""
	}
	return strings.TrimSpace(c.Text)
}
