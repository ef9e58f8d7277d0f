package dataprocessing

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/internal/errors"
	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/internal/shared/testutil"
	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/pkg/contracts/domain"
)

func newTestExtractor() *Extractor {
	return NewExtractor(defaultCfg(), discardLogger())
}

func flagTexts(flags []domain.Flag) []string {
	out := make([]string, 0, len(flags))
	for _, f := range flags {
		out = append(out, f.String())
	}
	return out
}

func TestExtractor_StandardWorkbook(t *testing.T) {
	rec := newTestExtractor().Extract(context.Background(), standardWorkbook())

	assert.Equal(t, "25-401.xlsx", rec.FileName)
	assert.Equal(t, "45", rec.TotalUnits.Decimal.String())
	assert.Equal(t, "42000", rec.TotalSF.Decimal.String())
	assert.Equal(t, "380000", rec.HardCosts.Decimal.String())
	assert.Equal(t, domain.HardCostReported, rec.HardCostSource)

	assert.Equal(t, []string{"Perm Variance ($50)"}, flagTexts(rec.Flags))
	assert.Equal(t, domain.FlagVariance, rec.Flag.Kind)
	assert.Equal(t, "Perm Variance ($50)", rec.FlagText())

	assert.Equal(t, "340050", rec.Benchmarks.Combined.String())
	assert.Equal(t, "7556.67", rec.Benchmarks.CostPerUnit.Decimal.StringFixed(2))
	assert.Equal(t, "8.10", rec.Benchmarks.CostPerSF.Decimal.StringFixed(2))
	assert.Equal(t, "89.49", rec.Benchmarks.PercentOfHardCosts.Decimal.StringFixed(2))
	assert.False(t, rec.Benchmarks.PercentImplausible)
}

func TestExtractor_IsDeterministic(t *testing.T) {
	ex := newTestExtractor()
	wb := standardWorkbook()

	first, err := json.Marshal(ex.Extract(context.Background(), wb))
	require.NoError(t, err)
	second, err := json.Marshal(ex.Extract(context.Background(), wb))
	require.NoError(t, err)

	assert.JSONEq(t, string(first), string(second))
}

func TestExtractor_CleanDocumentIsOK(t *testing.T) {
	sources := sourcesSheet("Sources and Uses",
		budgetRow{label: "Construction Interest & Fees"},
		budgetRow{label: "Taxes", amount: 100},
		budgetRow{label: "Total Construction Interest & Fees", amount: 100},
		budgetRow{label: "Permanent Financing"},
		budgetRow{label: "Title & Recording", amount: 50},
		budgetRow{label: "Total Permanent Financing Costs", amount: 50},
		budgetRow{label: "New Construction"},
		budgetRow{label: "Total New Construction Costs", amount: 3000},
	)
	wb := testutil.Workbook("ok.xlsx", standardApplication(), sources)

	rec := newTestExtractor().Extract(context.Background(), wb)

	assert.Empty(t, rec.Flags)
	assert.True(t, rec.Flag.IsOK())
	assert.Equal(t, "OK", rec.FlagText())
	assert.Equal(t, "5", rec.Benchmarks.PercentOfHardCosts.Decimal.String())
}

func TestExtractor_AbsentVersusEmpty(t *testing.T) {
	sources := sourcesSheet("Sources and Uses",
		budgetRow{label: "Construction Interest & Fees"},
		budgetRow{label: "Taxes"},
		budgetRow{label: "Insurance"},
	)
	wb := testutil.Workbook("empty.xlsx", standardApplication(), sources)

	rec := newTestExtractor().Extract(context.Background(), wb)

	assert.True(t, rec.Construction.Present())
	assert.False(t, rec.Permanent.Present())
	assert.Contains(t, flagTexts(rec.Flags), "Const Costs Empty")
	assert.Contains(t, flagTexts(rec.Flags), "Perm Section Not Found")
	assert.Contains(t, flagTexts(rec.Flags), "Hard Costs Missing")
	assert.Equal(t, domain.FlagCostsEmpty, rec.Flag.Kind)
	assert.True(t, rec.Benchmarks.PermanentAbsent)
	assert.False(t, rec.Benchmarks.PercentOfHardCosts.Valid)
}

func TestExtractor_MissingEverything(t *testing.T) {
	wb := testutil.Workbook("blank.xlsx", testutil.NewSheetBuilder("Sheet1").Text(0, 0, "hello"))

	rec := newTestExtractor().Extract(context.Background(), wb)

	assert.Equal(t, []string{
		"Sources Tab Missing",
		"Hard Costs Missing",
		"App Tab Missing",
		"SF Missing",
		"Units Missing",
		"Const Section Not Found",
		"Perm Section Not Found",
	}, flagTexts(rec.Flags))
	assert.False(t, rec.TotalUnits.Valid)
	assert.False(t, rec.TotalSF.Valid)
	assert.False(t, rec.Benchmarks.CostPerUnit.Valid)
	assert.Equal(t, "0", rec.Benchmarks.Combined.String())
}

func TestExtractor_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := newTestExtractor().Extract(ctx, standardWorkbook())

	assert.Equal(t, "Extraction Error: context canceled", rec.FlagText())
	assert.Equal(t, domain.FlagExtractionError, rec.Flag.Kind)
}

func TestExtractor_RecoversPanics(t *testing.T) {
	broken := &Extractor{logger: discardLogger()}

	var rec domain.ExtractionRecord
	assert.NotPanics(t, func() {
		rec = broken.Extract(context.Background(), standardWorkbook())
	})
	assert.Equal(t, domain.FlagExtractionError, rec.Flag.Kind)
	assert.Equal(t, "25-401.xlsx", rec.FileName)
	assert.False(t, rec.Construction.Present())
}

func TestExtractor_ExtractFileLoadError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("not a workbook"), 0644))

	rec := newTestExtractor().ExtractFile(context.Background(), path)

	assert.Equal(t, "broken.xlsx", rec.FileName)
	assert.Equal(t, domain.FlagLoadError, rec.Flag.Kind)
	assert.Contains(t, rec.FlagText(), "Load Error: failed to open workbook")
	require.Len(t, rec.Flags, 1)
}

func TestExtractor_ExtractUpload(t *testing.T) {
	ex := newTestExtractor()

	_, err := ex.ExtractUpload(context.Background(), "bad.xlsx", strings.NewReader("not a workbook"))
	require.Error(t, err)
	assert.True(t, apierrors.IsType(err, apierrors.ErrTypeLoad))

	path := filepath.Join(t.TempDir(), "25-401.xlsx")
	testutil.WriteXLSX(t, path, standardApplication(), standardSources())
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rec, err := ex.ExtractUpload(context.Background(), "25-401.xlsx", f)
	require.NoError(t, err)
	assert.Equal(t, "Perm Variance ($50)", rec.FlagText())
}
