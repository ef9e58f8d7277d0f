package dataprocessing

import (
	"github.com/shopspring/decimal"

	"github.com/AtharvaThorat/CTCAC-Financing-Cost-Benchmarker/pkg/contracts/domain"
)

// Reconcile checks a section's line items against its reported total.
// The first matching rule wins: Section Not Found, Costs Empty, Sheet
// Total Missing, Variance, then OK.
func Reconcile(s domain.SectionResult, tolerance decimal.Decimal) domain.Flag {
	scope := s.Kind.Prefix()

	if !s.Present() {
		return domain.ScopedFlag(scope, domain.FlagSectionNotFound)
	}
	if len(s.Items) == 0 && !s.HasTotal() {
		return domain.ScopedFlag(scope, domain.FlagCostsEmpty)
	}
	if !s.HasTotal() {
		return domain.ScopedFlag(scope, domain.FlagSheetTotalMissing)
	}

	delta := s.Total.Decimal.Sub(s.Sum())
	if delta.Abs().GreaterThan(tolerance) {
		return domain.VarianceFlag(scope, delta)
	}
	return domain.NewFlag(domain.FlagOK)
}

// sectionNotices reports structural problems that do not block a result
func sectionNotices(s domain.SectionResult) []domain.Flag {
	var flags []domain.Flag
	scope := s.Kind.Prefix()
	if s.State == domain.StateIncomplete {
		flags = append(flags, domain.ScopedFlag(scope, domain.FlagSectionIncomplete))
	}
	if s.ExtraAnchors > 0 {
		flags = append(flags, domain.ScopedFlag(scope, domain.FlagMultipleAnchors))
	}
	return flags
}
