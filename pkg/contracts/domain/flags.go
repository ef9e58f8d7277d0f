package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// FlagDelimiter joins flags and Other details in the report
const FlagDelimiter = "; "

// FlagKind is a member of the closed flag taxonomy
type FlagKind string

const (
	FlagOK FlagKind = "OK"

	// Section reconciliation
	FlagCostsEmpty        FlagKind = "Costs Empty"
	FlagSheetTotalMissing FlagKind = "Sheet Total Missing"
	FlagVariance          FlagKind = "Variance"

	// Structural
	FlagSectionNotFound   FlagKind = "Section Not Found"
	FlagSectionIncomplete FlagKind = "Section Incomplete"
	FlagMultipleAnchors   FlagKind = "Multiple Anchors"
	FlagSourcesTabMissing FlagKind = "Sources Tab Missing"
	FlagAppTabMissing     FlagKind = "App Tab Missing"

	// Fields
	FlagUnitsMissing     FlagKind = "Units Missing"
	FlagSFMissing        FlagKind = "SF Missing"
	FlagHardCostsMissing FlagKind = "Hard Costs Missing"
	FlagLowUnitCount     FlagKind = "Low Unit Count (<5)"
	FlagSFNonAppTab      FlagKind = "SF Source: Non-App Tab"

	FlagHardCostsComponents FlagKind = "Hard Costs Source: Components"
	FlagHardCostsRehab      FlagKind = "Hard Costs Source: Rehab"

	FlagImplausibleRatio FlagKind = "Implausible % of Hard Costs"

	// Document failures
	FlagExtractionError FlagKind = "Extraction Error"
	FlagLoadError       FlagKind = "Load Error"
)

// String returns the flag kind text
func (k FlagKind) String() string { return string(k) }

// Severity orders flag kinds; the primary flag of a record is the most
// severe one present.
func (k FlagKind) Severity() int {
	switch k {
	case FlagLoadError:
		return 7
	case FlagExtractionError:
		return 6
	case FlagVariance:
		return 5
	case FlagSheetTotalMissing:
		return 4
	case FlagCostsEmpty:
		return 3
	case FlagUnitsMissing, FlagSFMissing, FlagHardCostsMissing, FlagSectionIncomplete, FlagImplausibleRatio:
		return 2
	case FlagOK:
		return 0
	default:
		return 1
	}
}

// Flag is one status entry of a record. Scope names the section for
// section-level flags ("Const", "Perm").
type Flag struct {
	Kind   FlagKind            `json:"kind"`
	Scope  string              `json:"scope,omitempty"`
	Delta  decimal.NullDecimal `json:"delta"`
	Detail string              `json:"detail,omitempty"`
}

// NewFlag creates an unscoped flag
func NewFlag(kind FlagKind) Flag {
	return Flag{Kind: kind}
}

// ScopedFlag creates a section flag
func ScopedFlag(scope string, kind FlagKind) Flag {
	return Flag{Kind: kind, Scope: scope}
}

// VarianceFlag creates a variance flag carrying reported minus extracted
func VarianceFlag(scope string, delta decimal.Decimal) Flag {
	return Flag{Kind: FlagVariance, Scope: scope, Delta: decimal.NewNullDecimal(delta)}
}

// ErrorFlag creates a document failure flag
func ErrorFlag(kind FlagKind, detail string) Flag {
	return Flag{Kind: kind, Detail: detail}
}

// IsOK reports whether the flag is the success value
func (f Flag) IsOK() bool {
	return f.Kind == FlagOK || f.Kind == ""
}

// String renders the flag as it appears in the report
func (f Flag) String() string {
	if f.Kind == FlagMultipleAnchors && f.Scope != "" {
		return "Multiple " + f.Scope + " Anchors"
	}
	text := f.Kind.String()
	if f.Kind == "" {
		text = FlagOK.String()
	}
	if f.Kind == FlagVariance && f.Delta.Valid {
		text += " (" + FormatCurrency(f.Delta.Decimal) + ")"
	}
	if f.Detail != "" {
		text += ": " + f.Detail
	}
	if f.Scope != "" {
		text = f.Scope + " " + text
	}
	return text
}

// MarshalJSON adds the rendered text next to the structured fields
func (f Flag) MarshalJSON() ([]byte, error) {
	type plain Flag
	return json.Marshal(struct {
		plain
		Text string `json:"text"`
	}{plain(f), f.String()})
}

// PrimaryFlag returns the most severe flag; the first one wins a tie.
// An empty list yields OK.
func PrimaryFlag(flags []Flag) Flag {
	primary := NewFlag(FlagOK)
	for _, f := range flags {
		if f.Kind.Severity() > primary.Kind.Severity() {
			primary = f
		}
	}
	return primary
}
