package dataprocessing

import (
	"github.com/shopspring/decimal"

	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/pkg/contracts/domain"
)

var hundred = decimal.NewFromInt(100)

// ComputeBenchmarks derives the financing cost ratios. A ratio is left
// undefined when its denominator is missing or zero. An absent section
// contributes zero to the combined figure.
func ComputeBenchmarks(construction, permanent domain.SectionResult, units, area, hardCosts decimal.NullDecimal, ceiling decimal.Decimal) domain.Benchmarks {
	constTotal, constOK := construction.EffectiveTotal()
	permTotal, permOK := permanent.EffectiveTotal()
	combined := constTotal.Add(permTotal)

	b := domain.Benchmarks{
		Combined:           combined,
		ConstructionAbsent: !constOK,
		PermanentAbsent:    !permOK,
		CostPerUnit:        ratio(combined, units),
		CostPerSF:          ratio(combined, area),
		PercentOfHardCosts: ratio(combined.Mul(hundred), hardCosts),
	}
	if b.PercentOfHardCosts.Valid {
		b.PercentImplausible = b.PercentOfHardCosts.Decimal.GreaterThan(ceiling)
	}
	return b
}

func ratio(num decimal.Decimal, den decimal.NullDecimal) decimal.NullDecimal {
	if !den.Valid || den.Decimal.IsZero() {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(num.Div(den.Decimal))
}
