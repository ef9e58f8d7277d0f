package dataprocessing

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/internal/config"
	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/pkg/contracts/domain"
)

var (
	otherPrefix = regexp.MustCompile(`(?i)^other[:\s-]*`)
	parens      = strings.NewReplacer("(", "", ")", "")
)

type category struct {
	name     domain.Category
	synonyms labelSet
}

// sectionDef is the compiled form of a config.SectionConfig
type sectionDef struct {
	kind        domain.SectionKind
	anchors     labelSet
	totals      labelSet
	totalPrefix bool
	categories  []category
}

func hasTotalPrefix(label string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(label)), "total")
}

// isTotal reports whether a label closes this section. Only the section's
// own total labels count unless the section accepts any "Total" row.
func (s sectionDef) isTotal(label string) bool {
	return s.totals.Match(label) || (s.totalPrefix && hasTotalPrefix(label))
}

// isAnchor reports whether a label opens this section. Total rows never do.
func (s sectionDef) isAnchor(label string) bool {
	return s.anchors.Match(label) && !s.isTotal(label) && !hasTotalPrefix(label)
}

// classify returns the first category with a synonym contained in label
func (s sectionDef) classify(label string) domain.Category {
	for _, c := range s.categories {
		if c.synonyms.Match(label) {
			return c.name
		}
	}
	return domain.CategoryOther
}

// SectionParser reads budget sections from the Sources & Uses sheet
type SectionParser struct {
	defs          []sectionDef
	sourcesSheets []string
	maxRows       int
	amountColumns []int
}

// NewSectionParser compiles the configured sections
func NewSectionParser(cfg config.ExtractionConfig) *SectionParser {
	p := &SectionParser{
		sourcesSheets: cfg.SourcesSheetPatterns,
		maxRows:       cfg.MaxSectionRows,
		amountColumns: cfg.AmountColumns,
	}
	for _, sc := range cfg.Sections {
		def := sectionDef{
			kind:        domain.SectionKind(sc.Kind),
			anchors:     newLabelSet(sc.Anchors),
			totals:      newLabelSet(sc.Totals),
			totalPrefix: sc.TotalPrefix,
		}
		for _, cc := range sc.Categories {
			def.categories = append(def.categories, category{
				name:     domain.Category(cc.Name),
				synonyms: newLabelSet(cc.Synonyms),
			})
		}
		p.defs = append(p.defs, def)
	}
	return p
}

// Sections is the parse result for every configured section
type Sections struct {
	SourcesSheetFound bool
	Results           map[domain.SectionKind]domain.SectionResult
}

// Get returns the result for a kind; unconfigured kinds are absent
func (s Sections) Get(kind domain.SectionKind) domain.SectionResult {
	if r, ok := s.Results[kind]; ok {
		return r
	}
	return domain.SectionResult{Kind: kind, State: domain.StateAbsent}
}

// ParseAll parses every configured section
func (p *SectionParser) ParseAll(wb *domain.Workbook) Sections {
	sheets, matched := orderSheets(wb.SheetNames(), p.sourcesSheets)
	out := Sections{
		SourcesSheetFound: matched > 0,
		Results:           make(map[domain.SectionKind]domain.SectionResult, len(p.defs)),
	}
	for i := range p.defs {
		out.Results[p.defs[i].kind] = p.parse(wb, sheets, i)
	}
	return out
}

// Parse parses a single section
func (p *SectionParser) Parse(wb *domain.Workbook, kind domain.SectionKind) domain.SectionResult {
	sheets, _ := orderSheets(wb.SheetNames(), p.sourcesSheets)
	for i := range p.defs {
		if p.defs[i].kind == kind {
			return p.parse(wb, sheets, i)
		}
	}
	return domain.SectionResult{Kind: kind, State: domain.StateAbsent}
}

type anchorHit struct {
	sheet *domain.Sheet
	row   int
	col   int
}

// findAnchors returns every row holding an anchor for def, in sheet
// order. A row counts once even if several cells match.
func findAnchors(wb *domain.Workbook, sheets []string, def sectionDef) []anchorHit {
	var hits []anchorHit
	for _, name := range sheets {
		sheet, err := wb.Sheet(name)
		if err != nil {
			continue
		}
		for r := 0; r < sheet.Rows(); r++ {
			for c := 0; c < sheet.Cols(); c++ {
				if def.isAnchor(textAt(sheet, r, c)) {
					hits = append(hits, anchorHit{sheet: sheet, row: r, col: c})
					break
				}
			}
		}
	}
	return hits
}

func (p *SectionParser) parse(wb *domain.Workbook, sheets []string, idx int) domain.SectionResult {
	def := p.defs[idx]
	res := domain.SectionResult{Kind: def.kind, State: domain.StateSearchingAnchor}

	hits := findAnchors(wb, sheets, def)
	if len(hits) == 0 {
		res.State = domain.StateAbsent
		return res
	}
	anchor := hits[0]
	sheet := anchor.sheet
	res.ExtraAnchors = len(hits) - 1
	res.Sheet = sheet.Name()
	res.AnchorRow = anchor.row
	res.AnchorCol = anchor.col
	res.State = domain.StateInSection

	amountCol := p.amountColumn(sheet, anchor.col)

	for r := anchor.row + 1; r <= anchor.row+p.maxRows; r++ {
		if r >= sheet.Rows() {
			res.State = domain.StateIncomplete
			break
		}

		label := textAt(sheet, r, anchor.col)
		amount, hasAmount := amountAt(sheet, r, anchor.col, amountCol)

		// The section's own total closes it whatever its value; a zero or
		// blank total with no items reconciles as Costs Empty.
		if label != "" && def.isTotal(label) {
			if hasAmount {
				res.Total = decimal.NewNullDecimal(amount)
			}
			res.TotalRow = r
			res.State = domain.StateTerminated
			break
		}

		if label != "" && p.isOtherAnchor(idx, label) {
			res.State = domain.StateIncomplete
			break
		}

		if label == "" || !hasAmount || amount.IsZero() {
			continue
		}

		item := domain.LineItem{
			Category: def.classify(label),
			Amount:   amount,
			Label:    label,
			Row:      r,
		}
		if item.Category == domain.CategoryOther {
			item.Description = cleanOtherLabel(label)
		}
		res.Items = append(res.Items, item)
	}

	if res.State == domain.StateInSection {
		res.State = domain.StateIncomplete
	}
	res.OtherTotal, res.OtherDetails = foldOther(res.Items)
	return res
}

func (p *SectionParser) isOtherAnchor(idx int, label string) bool {
	for i, s := range p.defs {
		if i != idx && s.isAnchor(label) {
			return true
		}
	}
	return false
}

// amountColumn picks the first configured amount column the sheet is wide
// enough to hold. -1 means the amount is taken from the first number right
// of the label instead.
func (p *SectionParser) amountColumn(sheet *domain.Sheet, labelCol int) int {
	for _, c := range p.amountColumns {
		if c < sheet.Cols() {
			if c > labelCol {
				return c
			}
			return -1
		}
	}
	return -1
}

func amountAt(sheet *domain.Sheet, row, labelCol, amountCol int) (decimal.Decimal, bool) {
	if amountCol >= 0 {
		return NormalizeCell(sheet.Cell(row, amountCol))
	}
	for c := labelCol + 1; c < sheet.Cols(); c++ {
		if v, ok := NormalizeCell(sheet.Cell(row, c)); ok {
			return v, true
		}
	}
	return decimal.Zero, false
}

// cleanOtherLabel strips a leading "Other:" and any parentheses
func cleanOtherLabel(label string) string {
	s := otherPrefix.ReplaceAllString(strings.TrimSpace(label), "")
	return strings.TrimSpace(parens.Replace(s))
}

// foldOther sums Other items and joins their descriptions in row order
func foldOther(items []domain.LineItem) (decimal.Decimal, string) {
	total := decimal.Zero
	var details []string
	for _, it := range items {
		if it.Category != domain.CategoryOther {
			continue
		}
		total = total.Add(it.Amount)
		if it.Description != "" {
			details = append(details, it.Description)
		}
	}
	return total, strings.Join(details, domain.FlagDelimiter)
}
