package reserve

import (
	"fmt"

	"github.com/rgehrsitz/gbrtax/internal/calculation"
	"github.com/rgehrsitz/gbrtax/internal/domain"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// EquitableStrategy pools the extra tax of all partners, plus trade tax for
// commercial partnerships, and reserves every share at the same collective
// rate.
type EquitableStrategy struct{}

// NewEquitableStrategy creates the collective-rate strategy
func NewEquitableStrategy() *EquitableStrategy {
	return &EquitableStrategy{}
}

// Name returns the strategy name
func (s *EquitableStrategy) Name() string {
	return domain.StrategyEquitable
}

// Description returns a one-line explanation
func (s *EquitableStrategy) Description() string {
	return "All partners reserve at one collective rate"
}

// Compute calculates the reserves
func (s *EquitableStrategy) Compute(calc *calculation.TaxCalculator, partners []domain.PartnerTaxProfile, partnership domain.PartnershipProfile) domain.AggregateReserveResult {
	slices, diagnostics := slicePartners(calc, partners, partnership)

	tradeTax := calc.TradeTax.ForPartnership(partnership)
	totalAnnual := sumAnnual(slices)

	rate := decimal.Zero
	if totalAnnual.IsPositive() {
		rate = sumAdditional(slices).Add(tradeTax).Div(totalAnnual)
	}
	capped, wasCapped := calc.CapRate(rate)
	if wasCapped {
		msg := fmt.Sprintf("collective rate %s%% capped at %s%%",
			rate.Mul(domain.Hundred).StringFixed(2), capped.Mul(domain.Hundred).StringFixed(0))
		calc.Log().Warnf("%s", msg)
		diagnostics = append(diagnostics, msg)
	}

	results := make([]domain.PartnerReserveResult, 0, len(slices))
	for _, sl := range slices {
		results = append(results, sl.result(calc, capped, partnership.SafetyMargin, wasCapped))
	}

	calc.Log().Debugf("equitable rate %s on %s annual profit (trade tax %s)", capped.StringFixed(4), totalAnnual.StringFixed(2), tradeTax.StringFixed(2))

	return aggregate(calc, s.Name(), partnership, results, capped, tradeTax, diagnostics)
}

// ComputeEquitableReserves runs the equitable strategy on partners whose
// shares are already normalised
func ComputeEquitableReserves(calc *calculation.TaxCalculator, partners []domain.PartnerTaxProfile, partnership domain.PartnershipProfile) domain.AggregateReserveResult {
	return NewEquitableStrategy().Compute(calc, partners, partnership)
}

func sumAnnual(slices []partnerSlice) decimal.Decimal {
	return lo.Reduce(slices, func(acc decimal.Decimal, sl partnerSlice, _ int) decimal.Decimal {
		return acc.Add(sl.annual)
	}, decimal.Zero)
}

func sumAdditional(slices []partnerSlice) decimal.Decimal {
	return lo.Reduce(slices, func(acc decimal.Decimal, sl partnerSlice, _ int) decimal.Decimal {
		return acc.Add(sl.diff.AdditionalTax)
	}, decimal.Zero)
}

// collectiveRate is the extra tax over the profit it was caused by
func collectiveRate(slices []partnerSlice) decimal.Decimal {
	annual := sumAnnual(slices)
	if !annual.IsPositive() {
		return decimal.Zero
	}
	return sumAdditional(slices).Div(annual)
}
