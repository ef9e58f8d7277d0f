package dataprocessing

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/shopspring/decimal"

	apierrors "github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/internal/errors"
	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/pkg/contracts/domain"
)

// FlagCount is the number of documents carrying a flag kind
type FlagCount struct {
	Kind  domain.FlagKind `json:"kind"`
	Count int             `json:"count"`
}

// BenchmarkStats summarizes one benchmark across the documents where it is defined
type BenchmarkStats struct {
	Count  int                 `json:"count"`
	Min    decimal.NullDecimal `json:"min"`
	Median decimal.NullDecimal `json:"median"`
	Max    decimal.NullDecimal `json:"max"`
}

// BatchSummary aggregates the records of one run
type BatchSummary struct {
	Documents    int            `json:"documents"`
	Clean        int            `json:"clean"`
	LoadFailures int            `json:"load_failures"`
	Primary      []FlagCount    `json:"primary_flags"`
	AllFlags     []FlagCount    `json:"all_flags"`
	CostPerUnit  BenchmarkStats `json:"cost_per_unit"`
	CostPerSF    BenchmarkStats `json:"cost_per_sf"`
	PercentHard  BenchmarkStats `json:"percent_of_hard_costs"`
}

// Summarizer builds run summaries from extraction records
type Summarizer struct {
	logger *slog.Logger
}

// NewSummarizer creates a new summarizer
func NewSummarizer(logger *slog.Logger) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{logger: logger.With(slog.String("component", "summarizer"))}
}

// Summarize counts flags and computes benchmark spreads. Flag counts are
// sorted by descending count, then by kind.
func (s *Summarizer) Summarize(records []domain.ExtractionRecord) BatchSummary {
	sum := BatchSummary{Documents: len(records)}

	primary := make(map[domain.FlagKind]int)
	all := make(map[domain.FlagKind]int)
	var perUnit, perSF, pct []decimal.Decimal

	for _, rec := range records {
		if rec.Flag.IsOK() {
			sum.Clean++
		}
		if rec.Flag.Kind == domain.FlagLoadError {
			sum.LoadFailures++
		}
		kind := rec.Flag.Kind
		if kind == "" {
			kind = domain.FlagOK
		}
		primary[kind]++

		seen := make(map[domain.FlagKind]bool, len(rec.Flags))
		for _, f := range rec.Flags {
			if !seen[f.Kind] {
				seen[f.Kind] = true
				all[f.Kind]++
			}
		}

		if b := rec.Benchmarks.CostPerUnit; b.Valid {
			perUnit = append(perUnit, b.Decimal)
		}
		if b := rec.Benchmarks.CostPerSF; b.Valid {
			perSF = append(perSF, b.Decimal)
		}
		if b := rec.Benchmarks.PercentOfHardCosts; b.Valid {
			pct = append(pct, b.Decimal)
		}
	}

	sum.Primary = sortedCounts(primary)
	sum.AllFlags = sortedCounts(all)
	sum.CostPerUnit = stats(perUnit)
	sum.CostPerSF = stats(perSF)
	sum.PercentHard = stats(pct)
	return sum
}

// Log writes the summary at info level
func (s *Summarizer) Log(ctx context.Context, sum BatchSummary) {
	attrs := []any{
		slog.Int("documents", sum.Documents),
		slog.Int("clean", sum.Clean),
		slog.Int("load_failures", sum.LoadFailures),
	}
	for _, fc := range sum.Primary {
		attrs = append(attrs, slog.Int("primary."+string(fc.Kind), fc.Count))
	}
	if sum.CostPerUnit.Median.Valid {
		attrs = append(attrs, slog.String("median_cost_per_unit", sum.CostPerUnit.Median.Decimal.StringFixed(2)))
	}
	s.logger.InfoContext(ctx, "batch summary", attrs...)
}

// WriteJSON writes the summary next to the report
func (s *Summarizer) WriteJSON(ctx context.Context, path string, sum BatchSummary) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apierrors.NewStorageError("failed to create directory for summary", err)
	}
	data, err := json.MarshalIndent(sum, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return apierrors.NewStorageError("failed to write summary", err)
	}
	s.logger.InfoContext(ctx, "wrote batch summary", slog.String("path", path))
	return nil
}

func sortedCounts(m map[domain.FlagKind]int) []FlagCount {
	out := make([]FlagCount, 0, len(m))
	for k, v := range m {
		out = append(out, FlagCount{Kind: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Kind < out[j].Kind
	})
	return out
}

// stats returns min, median and max. The median of an even count is the
// mean of the two middle values.
func stats(values []decimal.Decimal) BenchmarkStats {
	st := BenchmarkStats{Count: len(values)}
	if len(values) == 0 {
		return st
	}
	sorted := make([]decimal.Decimal, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })

	st.Min = decimal.NewNullDecimal(sorted[0])
	st.Max = decimal.NewNullDecimal(sorted[len(sorted)-1])
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		st.Median = decimal.NewNullDecimal(sorted[mid])
	} else {
		st.Median = decimal.NewNullDecimal(sorted[mid-1].Add(sorted[mid]).Div(decimal.NewFromInt(2)))
	}
	return st
}
