package config

import (
	"fmt"
	"strings"
)

// Section kinds accepted in ExtractionConfig.Sections
const (
	SectionConstruction    = "construction"
	SectionPermanent       = "permanent"
	SectionNewConstruction = "new_construction"
	SectionRehabilitation  = "rehabilitation"
)

// ExtractionConfig holds the heuristics used to read an application
// workbook: label synonyms, sheet name patterns, section layouts,
// plausibility bounds and the reconciliation tolerance.
type ExtractionConfig struct {
	UnitLabels           []string `yaml:"unit_labels" envconfig:"UNIT_LABELS" validate:"min=1,dive,required"`
	AreaLabels           []string `yaml:"area_labels" envconfig:"AREA_LABELS" validate:"min=1,dive,required"`
	AppSheetPatterns     []string `yaml:"app_sheet_patterns" envconfig:"APP_SHEET_PATTERNS" validate:"min=1,dive,required"`
	SourcesSheetPatterns []string `yaml:"sources_sheet_patterns" envconfig:"SOURCES_SHEET_PATTERNS" validate:"min=1,dive,required"`
	AreaSkipSheets       []string `yaml:"area_skip_sheets" envconfig:"AREA_SKIP_SHEETS"`

	RowWindow int `yaml:"row_window" envconfig:"ROW_WINDOW" validate:"min=0,max=50"`
	ColWindow int `yaml:"col_window" envconfig:"COL_WINDOW" validate:"min=1,max=500"`

	YearMin          int     `yaml:"year_min" envconfig:"YEAR_MIN"`
	YearMax          int     `yaml:"year_max" envconfig:"YEAR_MAX" validate:"gtefield=YearMin"`
	UnitMin          float64 `yaml:"unit_min" envconfig:"UNIT_MIN" validate:"gt=0"`
	UnitMax          float64 `yaml:"unit_max" envconfig:"UNIT_MAX" validate:"gtfield=UnitMin"`
	LowUnitThreshold float64 `yaml:"low_unit_threshold" envconfig:"LOW_UNIT_THRESHOLD" validate:"min=0"`
	AreaMin          float64 `yaml:"area_min" envconfig:"AREA_MIN" validate:"gt=0"`
	AreaMax          float64 `yaml:"area_max" envconfig:"AREA_MAX" validate:"gtfield=AreaMin"`

	MaxSectionRows int   `yaml:"max_section_rows" envconfig:"MAX_SECTION_ROWS" validate:"min=1"`
	AmountColumns  []int `yaml:"amount_columns" envconfig:"AMOUNT_COLUMNS" validate:"dive,min=0"`

	Tolerance      float64 `yaml:"tolerance" envconfig:"TOLERANCE" validate:"min=0"`
	PercentCeiling float64 `yaml:"percent_ceiling" envconfig:"PERCENT_CEILING" validate:"gt=0"`

	HardCostComponents []string        `yaml:"hard_cost_components" envconfig:"HARD_COST_COMPONENTS" validate:"min=1,dive,required"`
	Sections           []SectionConfig `yaml:"sections" ignored:"true" validate:"min=1,dive"`
}

// SectionConfig describes one Sources & Uses section
type SectionConfig struct {
	Kind        string           `yaml:"kind" validate:"required,oneof=construction permanent new_construction rehabilitation"`
	Anchors     []string         `yaml:"anchors" validate:"min=1,dive,required"`
	Totals      []string         `yaml:"totals" validate:"min=1,dive,required"`
	// TotalPrefix also closes the section on any row labelled "Total...".
	// Hard-cost blocks use it; financing sections must match Totals.
	TotalPrefix bool             `yaml:"total_prefix"`
	Categories  []CategoryConfig `yaml:"categories" validate:"dive"`
}

// CategoryConfig maps label synonyms onto a category. Order matters: the
// first category with a matching synonym wins.
type CategoryConfig struct {
	Name     string   `yaml:"name" validate:"required"`
	Synonyms []string `yaml:"synonyms" validate:"min=1,dive,required"`
}

// Validate checks constraints that struct tags cannot express
func (e *ExtractionConfig) Validate() error {
	seen := make(map[string]bool, len(e.Sections))
	for _, s := range e.Sections {
		if seen[s.Kind] {
			return fmt.Errorf("duplicate section %q", s.Kind)
		}
		seen[s.Kind] = true
	}
	for _, required := range []string{SectionConstruction, SectionPermanent} {
		if !seen[required] {
			return fmt.Errorf("missing required section %q", required)
		}
	}
	return nil
}

// Section returns the configuration for a section kind
func (e *ExtractionConfig) Section(kind string) (SectionConfig, bool) {
	for _, s := range e.Sections {
		if strings.EqualFold(s.Kind, kind) {
			return s, true
		}
	}
	return SectionConfig{}, false
}

// DefaultExtraction returns the extraction heuristics tuned for CTCAC
// 4% application workbooks
func DefaultExtraction() ExtractionConfig {
	return ExtractionConfig{
		UnitLabels: []string{
			"total units",
			"total number of units",
			"total # of units",
			"total residential units",
			"unit count",
		},
		AreaLabels: []string{
			"sq. ft.",
			"square footage",
			"square feet",
			"net rentable",
			"gross building",
			"gba",
			"residential area",
		},
		AppSheetPatterns:     []string{"Application"},
		SourcesSheetPatterns: []string{"Sources and Uses", "Sources & Uses", "Sources and Budget", "S&U"},
		AreaSkipSheets:       []string{"Source", "Budget", "Cost", "Financ"},

		RowWindow: 3,
		ColWindow: 30,

		YearMin:          1900,
		YearMax:          2100,
		UnitMin:          1,
		UnitMax:          5000,
		LowUnitThreshold: 5,
		AreaMin:          2000,
		AreaMax:          2000000,

		MaxSectionRows: 40,
		AmountColumns:  []int{17, 2},

		Tolerance:      1.00,
		PercentCeiling: 100,

		HardCostComponents: []string{
			"Site Work",
			"Structures",
			"General Requirements",
			"Contractor Overhead",
			"Contractor Profit",
			"Contractor Fees",
		},
		Sections: []SectionConfig{
			{
				Kind:    SectionConstruction,
				Anchors: []string{"Construction Interest & Fees", "Construction Interest and Fees"},
				Totals:  []string{"Total Construction Interest & Fees", "Total Construction Interest and Fees"},
				Categories: []CategoryConfig{
					{Name: "Const Loan Interest", Synonyms: []string{"Construction Loan Interest", "Loan Interest"}},
					{Name: "Origination Fee", Synonyms: []string{"Origination Fee"}},
					{Name: "Credit Enhancement", Synonyms: []string{"Credit Enhancement"}},
					{Name: "Bond Premium", Synonyms: []string{"Bond Premium"}},
					{Name: "Cost of Issuance", Synonyms: []string{"Cost of Issuance"}},
					{Name: "Title & Recording", Synonyms: []string{"Title & Recording", "Title and Recording", "Title", "Recording"}},
					{Name: "Taxes", Synonyms: []string{"Taxes"}},
					{Name: "Insurance", Synonyms: []string{"Insurance"}},
				},
			},
			{
				Kind:    SectionPermanent,
				Anchors: []string{"Permanent Financing"},
				Totals:  []string{"Total Permanent Financing Costs", "Total Permanent Financing"},
				Categories: []CategoryConfig{
					{Name: "Perm Loan Origination", Synonyms: []string{"Loan Origination Fee", "Origination Fee"}},
					{Name: "Credit Enhancement", Synonyms: []string{"Credit Enhancement"}},
					{Name: "Title & Recording", Synonyms: []string{"Title & Recording", "Title and Recording", "Title", "Recording"}},
					{Name: "Taxes", Synonyms: []string{"Taxes"}},
					{Name: "Insurance", Synonyms: []string{"Insurance"}},
				},
			},
			{
				Kind:        SectionNewConstruction,
				Anchors:     []string{"New Construction"},
				Totals:      []string{"Total New Construction Costs", "Total New Construction"},
				TotalPrefix: true,
				Categories:  hardCostCategories(),
			},
			{
				Kind:        SectionRehabilitation,
				Anchors:     []string{"Rehabilitation"},
				Totals:      []string{"Total Rehabilitation Costs", "Total Rehabilitation"},
				TotalPrefix: true,
				Categories:  hardCostCategories(),
			},
		},
	}
}

func hardCostCategories() []CategoryConfig {
	return []CategoryConfig{
		{Name: "Site Work", Synonyms: []string{"Site Work"}},
		{Name: "Structures", Synonyms: []string{"Structures"}},
		{Name: "General Requirements", Synonyms: []string{"General Requirements"}},
		{Name: "Contractor Overhead", Synonyms: []string{"Contractor Overhead"}},
		{Name: "Contractor Profit", Synonyms: []string{"Contractor Profit"}},
		{Name: "Contractor Fees", Synonyms: []string{"Contractor Fee"}},
	}
}
