package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlag_String(t *testing.T) {
	tests := []struct {
		name string
		flag Flag
		want string
	}{
		{"ok", NewFlag(FlagOK), "OK"},
		{"zero value", Flag{}, "OK"},
		{"notice", NewFlag(FlagLowUnitCount), "Low Unit Count (<5)"},
		{"scoped", ScopedFlag("Const", FlagCostsEmpty), "Const Costs Empty"},
		{"variance", VarianceFlag("Perm", decimal.NewFromInt(50)), "Perm Variance ($50)"},
		{"negative variance", VarianceFlag("Const", decimal.RequireFromString("-1250.5")), "Const Variance (-$1,250.50)"},
		{"multiple anchors", ScopedFlag("Const", FlagMultipleAnchors), "Multiple Const Anchors"},
		{"error detail", ErrorFlag(FlagLoadError, "zip: not a valid zip file"), "Load Error: zip: not a valid zip file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.flag.String())
		})
	}
}

func TestPrimaryFlag(t *testing.T) {
	tests := []struct {
		name  string
		flags []Flag
		want  FlagKind
	}{
		{"empty", nil, FlagOK},
		{"notice only", []Flag{NewFlag(FlagAppTabMissing)}, FlagAppTabMissing},
		{"variance beats missing fields", []Flag{NewFlag(FlagUnitsMissing), VarianceFlag("Perm", decimal.NewFromInt(5))}, FlagVariance},
		{"load error beats everything", []Flag{VarianceFlag("Perm", decimal.NewFromInt(5)), ErrorFlag(FlagLoadError, "x")}, FlagLoadError},
		{"sheet total missing beats costs empty", []Flag{ScopedFlag("Const", FlagCostsEmpty), ScopedFlag("Perm", FlagSheetTotalMissing)}, FlagSheetTotalMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PrimaryFlag(tt.flags).Kind)
		})
	}
}

func TestPrimaryFlag_FirstWinsTie(t *testing.T) {
	flags := []Flag{VarianceFlag("Const", decimal.NewFromInt(1)), VarianceFlag("Perm", decimal.NewFromInt(2))}
	assert.Equal(t, "Const", PrimaryFlag(flags).Scope)
}

func TestFlag_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(VarianceFlag("Perm", decimal.NewFromInt(50)))
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "Variance", decoded["kind"])
	assert.Equal(t, "Perm", decoded["scope"])
	assert.Equal(t, "Perm Variance ($50)", decoded["text"])
}

func TestExtractionRecord_FlagText(t *testing.T) {
	rec := ExtractionRecord{}
	assert.Equal(t, "OK", rec.FlagText())

	rec.Flags = []Flag{NewFlag(FlagSourcesTabMissing), ScopedFlag("Perm", FlagSectionNotFound)}
	assert.Equal(t, "Sources Tab Missing; Perm Section Not Found", rec.FlagText())
}
