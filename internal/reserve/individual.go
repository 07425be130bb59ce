package reserve

import (
	"github.com/rgehrsitz/gbrtax/internal/calculation"
	"github.com/rgehrsitz/gbrtax/internal/domain"
	"github.com/shopspring/decimal"
)

// IndividualStrategy reserves each partner's share at that partner's own
// marginal rate. Partners with different base incomes end up with different
// rates; a lower base income can produce the higher rate when the share
// pushes it across a bracket or into the solidarity phase-in.
type IndividualStrategy struct{}

// NewIndividualStrategy creates the individual marginal-rate strategy
func NewIndividualStrategy() *IndividualStrategy {
	return &IndividualStrategy{}
}

// Name returns the strategy name
func (s *IndividualStrategy) Name() string {
	return domain.StrategyIndividual
}

// Description returns a one-line explanation
func (s *IndividualStrategy) Description() string {
	return "Each partner reserves at their own marginal rate"
}

// Compute calculates the reserves. Trade tax is not part of this strategy.
func (s *IndividualStrategy) Compute(calc *calculation.TaxCalculator, partners []domain.PartnerTaxProfile, partnership domain.PartnershipProfile) domain.AggregateReserveResult {
	slices, diagnostics := slicePartners(calc, partners, partnership)

	results := make([]domain.PartnerReserveResult, 0, len(slices))
	for _, sl := range slices {
		results = append(results, sl.result(calc, sl.diff.MarginalRate, partnership.SafetyMargin, sl.diff.RateCapped))
	}

	weighted := collectiveRate(slices)
	weighted, _ = calc.CapRate(weighted)

	return aggregate(calc, s.Name(), partnership, results, weighted, decimal.Zero, diagnostics)
}

// ComputeIndividualReserves runs the individual strategy on partners whose
// shares are already normalised
func ComputeIndividualReserves(calc *calculation.TaxCalculator, partners []domain.PartnerTaxProfile, partnership domain.PartnershipProfile) domain.AggregateReserveResult {
	return NewIndividualStrategy().Compute(calc, partners, partnership)
}
