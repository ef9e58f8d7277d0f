package dataprocessing

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/internal/shared/testutil"
	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/pkg/contracts/domain"
)

func recordWithUnitCost(name string, perUnit int64, flags ...domain.Flag) domain.ExtractionRecord {
	rec := domain.ExtractionRecord{FileName: name, Flags: flags, Flag: domain.PrimaryFlag(flags)}
	if perUnit > 0 {
		rec.Benchmarks.CostPerUnit = decimal.NewNullDecimal(decimal.NewFromInt(perUnit))
	}
	return rec
}

func TestSummarizer_Summarize(t *testing.T) {
	records := []domain.ExtractionRecord{
		recordWithUnitCost("a.xlsx", 7000),
		recordWithUnitCost("b.xlsx", 9000, domain.VarianceFlag("Perm", decimal.NewFromInt(50))),
		recordWithUnitCost("c.xlsx", 8000, domain.NewFlag(domain.FlagLowUnitCount), domain.VarianceFlag("Const", decimal.NewFromInt(5))),
		recordWithUnitCost("d.xlsx", 6000, domain.NewFlag(domain.FlagSFMissing)),
		FailedRecord("e.xlsx", domain.ErrorFlag(domain.FlagLoadError, "zip: not a valid zip file")),
	}

	sum := NewSummarizer(discardLogger()).Summarize(records)

	assert.Equal(t, 5, sum.Documents)
	assert.Equal(t, 1, sum.Clean)
	assert.Equal(t, 1, sum.LoadFailures)
	assert.Equal(t, []FlagCount{
		{Kind: domain.FlagVariance, Count: 2},
		{Kind: domain.FlagLoadError, Count: 1},
		{Kind: domain.FlagOK, Count: 1},
		{Kind: domain.FlagSFMissing, Count: 1},
	}, sum.Primary)

	assert.Equal(t, 4, sum.CostPerUnit.Count)
	assert.Equal(t, "6000", sum.CostPerUnit.Min.Decimal.String())
	assert.Equal(t, "7500", sum.CostPerUnit.Median.Decimal.String())
	assert.Equal(t, "9000", sum.CostPerUnit.Max.Decimal.String())
	assert.Equal(t, 0, sum.CostPerSF.Count)
	assert.False(t, sum.CostPerSF.Median.Valid)
}

func TestSummarizer_LogAndWrite(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	s := NewSummarizer(logger)
	sum := s.Summarize([]domain.ExtractionRecord{recordWithUnitCost("a.xlsx", 7000)})

	s.Log(context.Background(), sum)
	assert.True(t, handler.ContainsMessage("batch summary"))

	path := filepath.Join(t.TempDir(), "reports", "summary.json")
	require.NoError(t, s.WriteJSON(context.Background(), path, sum))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, float64(1), decoded["documents"])
}
