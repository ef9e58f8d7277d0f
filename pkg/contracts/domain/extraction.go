package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Candidate is a numeric value found near a label cell
type Candidate struct {
	Value    decimal.Decimal `json:"value"`
	Sheet    string          `json:"sheet"`
	Row      int             `json:"row"`
	Col      int             `json:"col"`
	Distance int             `json:"distance"` // |Δrow| + |Δcol| from the matched label
	Order    int             `json:"order"`    // scan order, used to break distance ties
}

// Category tags a classified budget row
type Category string

// Categories referenced by the report and the hard cost calculator.
// Other categories may come from configuration.
const (
	CategoryOther               Category = "Other"
	CategoryConstLoanInterest   Category = "Const Loan Interest"
	CategoryOriginationFee      Category = "Origination Fee"
	CategoryCreditEnhancement   Category = "Credit Enhancement"
	CategoryBondPremium         Category = "Bond Premium"
	CategoryCostOfIssuance      Category = "Cost of Issuance"
	CategoryTitleRecording      Category = "Title & Recording"
	CategoryTaxes               Category = "Taxes"
	CategoryInsurance           Category = "Insurance"
	CategoryPermLoanOrigination Category = "Perm Loan Origination"

	CategorySiteWork            Category = "Site Work"
	CategoryStructures          Category = "Structures"
	CategoryGeneralRequirements Category = "General Requirements"
	CategoryContractorOverhead  Category = "Contractor Overhead"
	CategoryContractorProfit    Category = "Contractor Profit"
	CategoryContractorFees      Category = "Contractor Fees"
)

// LineItem is one classified row of a budget section
type LineItem struct {
	Category    Category        `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"` // only set for Other
	Label       string          `json:"label"`
	Row         int             `json:"row"`
}

// SectionKind identifies a Sources & Uses section
type SectionKind string

const (
	SectionConstruction    SectionKind = "construction"
	SectionPermanent       SectionKind = "permanent"
	SectionNewConstruction SectionKind = "new_construction"
	SectionRehabilitation  SectionKind = "rehabilitation"
)

// Prefix returns the short label used in flags and report columns
func (k SectionKind) Prefix() string {
	switch k {
	case SectionConstruction:
		return "Const"
	case SectionPermanent:
		return "Perm"
	case SectionNewConstruction:
		return "New Construction"
	case SectionRehabilitation:
		return "Rehab"
	default:
		return string(k)
	}
}

// SectionState is a state of the section parser. Terminated, Absent and
// Incomplete are final.
type SectionState string

const (
	StateSearchingAnchor SectionState = "searching_anchor"
	StateInSection       SectionState = "in_section"
	StateTerminated      SectionState = "terminated"
	StateAbsent          SectionState = "absent"
	StateIncomplete      SectionState = "incomplete"
)

// SectionResult is the parsed content of one budget section
type SectionResult struct {
	Kind      SectionKind         `json:"kind"`
	State     SectionState        `json:"state"`
	Sheet     string              `json:"sheet,omitempty"`
	AnchorRow int                 `json:"anchor_row"`
	AnchorCol int                 `json:"anchor_col"`
	Items     []LineItem          `json:"items"`
	Total     decimal.NullDecimal `json:"total"`
	TotalRow  int                 `json:"total_row"`

	// Folded from Items
	OtherTotal   decimal.Decimal `json:"other_total"`
	OtherDetails string          `json:"other_details"`

	// Anchors for this section found after the first one
	ExtraAnchors int `json:"extra_anchors"`
}

// Present reports whether the section anchor was found
func (s SectionResult) Present() bool {
	return s.State != StateAbsent && s.State != ""
}

// Sum returns the sum of all line item amounts
func (s SectionResult) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range s.Items {
		sum = sum.Add(it.Amount)
	}
	return sum
}

// Amount returns the summed amount of items with the given category
func (s SectionResult) Amount(c Category) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range s.Items {
		if it.Category == c {
			sum = sum.Add(it.Amount)
		}
	}
	return sum
}

// HasTotal reports whether a non-zero reported total was found
func (s SectionResult) HasTotal() bool {
	return s.Total.Valid && !s.Total.Decimal.IsZero()
}

// EffectiveTotal is the reported total when present, otherwise the
// extracted sum. ok is false for an absent section.
func (s SectionResult) EffectiveTotal() (total decimal.Decimal, ok bool) {
	if !s.Present() {
		return decimal.Zero, false
	}
	if s.HasTotal() {
		return s.Total.Decimal, true
	}
	return s.Sum(), true
}

// HardCostSource records which path produced the hard cost figure
type HardCostSource string

const (
	HardCostMissing         HardCostSource = ""
	HardCostReported        HardCostSource = "reported"
	HardCostComponents      HardCostSource = "components"
	HardCostRehabReported   HardCostSource = "rehab_reported"
	HardCostRehabComponents HardCostSource = "rehab_components"
)

// Benchmarks are metrics derived from reconciled totals
type Benchmarks struct {
	Combined           decimal.Decimal     `json:"combined"`
	ConstructionAbsent bool                `json:"construction_absent"`
	PermanentAbsent    bool                `json:"permanent_absent"`
	CostPerUnit        decimal.NullDecimal `json:"cost_per_unit"`
	CostPerSF          decimal.NullDecimal `json:"cost_per_sf"`
	PercentOfHardCosts decimal.NullDecimal `json:"percent_of_hard_costs"`
	PercentImplausible bool                `json:"percent_implausible"`
}

// ExtractionRecord is the result of processing one document
type ExtractionRecord struct {
	FileName string `json:"file_name"`
	Flag     Flag   `json:"flag"`
	Flags    []Flag `json:"flags"`

	TotalUnits     decimal.NullDecimal `json:"total_units"`
	TotalSF        decimal.NullDecimal `json:"total_sf"`
	HardCosts      decimal.NullDecimal `json:"hard_costs"`
	HardCostSource HardCostSource      `json:"hard_cost_source"`

	Construction    SectionResult `json:"construction"`
	Permanent       SectionResult `json:"permanent"`
	NewConstruction SectionResult `json:"new_construction"`
	Rehabilitation  SectionResult `json:"rehabilitation"`

	Benchmarks Benchmarks `json:"benchmarks"`
}

// FlagText joins every flag with "; ", or returns "OK" when there are none
func (r ExtractionRecord) FlagText() string {
	if len(r.Flags) == 0 {
		return FlagOK.String()
	}
	parts := make([]string, 0, len(r.Flags))
	for _, f := range r.Flags {
		parts = append(parts, f.String())
	}
	return strings.Join(parts, FlagDelimiter)
}
