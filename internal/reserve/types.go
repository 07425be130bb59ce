package reserve

import (
	"fmt"

	"github.com/rgehrsitz/gbrtax/internal/calculation"
	"github.com/rgehrsitz/gbrtax/internal/domain"
	"github.com/shopspring/decimal"
)

// Strategy allocates the partnership's monthly tax reserve among its partners.
// Partners passed to Compute already have normalised shares.
type Strategy interface {
	Name() string
	Description() string
	Compute(calc *calculation.TaxCalculator, partners []domain.PartnerTaxProfile, partnership domain.PartnershipProfile) domain.AggregateReserveResult
}

// partnerSlice is one partner's portion of the partnership profit together
// with the extra tax that portion causes
type partnerSlice struct {
	partner domain.PartnerTaxProfile
	monthly decimal.Decimal
	annual  decimal.Decimal
	diff    domain.DifferentialTax
}

// slicePartners runs the differential calculation for every partner
func slicePartners(calc *calculation.TaxCalculator, partners []domain.PartnerTaxProfile, partnership domain.PartnershipProfile) ([]partnerSlice, []string) {
	slices := make([]partnerSlice, 0, len(partners))
	var diagnostics []string
	for _, p := range partners {
		monthly := partnership.MonthlyProfit.Mul(p.Share).Div(domain.Hundred)
		annual := monthly.Mul(domain.MonthsPerYear)
		diff := calc.ComputeDifferentialTax(p.BaseIncome, annual, p.JointAssessment, p.ChurchMember, p.State)
		for _, msg := range diff.Diagnostics {
			diagnostics = append(diagnostics, fmt.Sprintf("%s: %s", p.DisplayName(), msg))
		}
		slices = append(slices, partnerSlice{partner: p, monthly: monthly, annual: annual, diff: diff})
	}
	return slices, diagnostics
}

// result builds the per-partner output for a given reserve rate
func (s partnerSlice) result(calc *calculation.TaxCalculator, rate, safetyMargin decimal.Decimal, capped bool) domain.PartnerReserveResult {
	reserve := s.monthly.Mul(rate)
	safety := reserve.Mul(safetyMargin)
	p := s.partner
	return domain.PartnerReserveResult{
		PartnerID:           p.ID,
		PartnerName:         p.DisplayName(),
		Share:               p.Share,
		MonthlyProfit:       s.monthly,
		AnnualProfit:        s.annual,
		BaseIncome:          p.BaseIncome,
		BaseTaxAmount:       s.diff.BaseTax,
		TotalTaxAmount:      s.diff.TotalTax,
		AdditionalTaxAmount: s.diff.AdditionalTax,
		EffectiveTaxRate:    rate,
		ReserveAmount:       reserve,
		SafetyAmount:        safety,
		TotalReserve:        reserve.Add(safety),
		Breakdown:           s.diff.Additional,
		BaseZone:            calc.ZoneIndex(p.BaseIncome, p.JointAssessment),
		CombinedZone:        calc.ZoneIndex(p.BaseIncome.Add(s.annual), p.JointAssessment),
		RateCapped:          capped,
	}
}
