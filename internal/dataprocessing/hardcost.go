package dataprocessing

import (
	"github.com/shopspring/decimal"

	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/pkg/contracts/domain"
)

// HardCostResult is the hard cost figure and how it was obtained
type HardCostResult struct {
	Value  decimal.NullDecimal
	Source domain.HardCostSource
	Flags  []domain.Flag
}

// HardCostCalculator derives hard costs from the New Construction section,
// falling back to Rehabilitation
type HardCostCalculator struct {
	components []domain.Category
}

// NewHardCostCalculator creates a calculator summing the given component
// categories when no reported total exists
func NewHardCostCalculator(components []string) *HardCostCalculator {
	cats := make([]domain.Category, 0, len(components))
	for _, c := range components {
		cats = append(cats, domain.Category(c))
	}
	return &HardCostCalculator{components: cats}
}

// fromSection applies the reported-total path, then the component sum.
// The Other bucket is never part of the sum.
func (h *HardCostCalculator) fromSection(s domain.SectionResult) (decimal.Decimal, bool, bool) {
	if !s.Present() {
		return decimal.Zero, false, false
	}
	if s.HasTotal() {
		return s.Total.Decimal, true, true
	}
	sum := decimal.Zero
	for _, c := range h.components {
		if c == domain.CategoryOther {
			continue
		}
		sum = sum.Add(s.Amount(c))
	}
	if sum.IsZero() {
		return decimal.Zero, false, false
	}
	return sum, false, true
}

// Resolve picks the hard cost figure
func (h *HardCostCalculator) Resolve(newConstruction, rehab domain.SectionResult) HardCostResult {
	if v, reported, ok := h.fromSection(newConstruction); ok {
		res := HardCostResult{Value: decimal.NewNullDecimal(v), Source: domain.HardCostReported}
		if !reported {
			res.Source = domain.HardCostComponents
			res.Flags = append(res.Flags, domain.NewFlag(domain.FlagHardCostsComponents))
		}
		return res
	}

	if v, reported, ok := h.fromSection(rehab); ok {
		res := HardCostResult{
			Value:  decimal.NewNullDecimal(v),
			Source: domain.HardCostRehabReported,
			Flags:  []domain.Flag{domain.NewFlag(domain.FlagHardCostsRehab)},
		}
		if !reported {
			res.Source = domain.HardCostRehabComponents
			res.Flags = append(res.Flags, domain.NewFlag(domain.FlagHardCostsComponents))
		}
		return res
	}

	return HardCostResult{Flags: []domain.Flag{domain.NewFlag(domain.FlagHardCostsMissing)}}
}
