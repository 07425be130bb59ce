package calculation

import (
	"github.com/rgehrsitz/gbrtax/internal/domain"
	"github.com/shopspring/decimal"
)

// SolidarityCalculator computes the solidarity surcharge on income tax
type SolidarityCalculator struct {
	Rules domain.SolidarityRules
}

// NewSolidarityCalculator creates a solidarity surcharge calculator
func NewSolidarityCalculator(rules domain.SolidarityRules) *SolidarityCalculator {
	return &SolidarityCalculator{Rules: rules}
}

// Compute returns the surcharge for an already computed income tax.
// Inside the phase-in band the surcharge is the lesser of the full rate and
// the phase-in rate applied to the excess over the threshold; that result is
// not floored. Above the band the full-rate amount is floored.
func (s *SolidarityCalculator) Compute(incomeTax decimal.Decimal, joint bool) decimal.Decimal {
	th := s.Rules.Individual
	if joint {
		th = s.Rules.Joint
	}
	if incomeTax.LessThanOrEqual(th.Threshold) {
		return decimal.Zero
	}

	full := incomeTax.Mul(s.Rules.Rate)
	if incomeTax.LessThanOrEqual(th.PhaseInEnd) {
		reduced := s.Rules.PhaseInRate.Mul(incomeTax.Sub(th.Threshold))
		return decimal.Min(full, reduced)
	}
	return full.Floor()
}

// ChurchTaxCalculator computes church tax on income tax
type ChurchTaxCalculator struct {
	Rules domain.ChurchTaxRules
}

// NewChurchTaxCalculator creates a church tax calculator
func NewChurchTaxCalculator(rules domain.ChurchTaxRules) *ChurchTaxCalculator {
	return &ChurchTaxCalculator{Rules: rules}
}

// RateFor returns the church tax rate of a state. States without an explicit
// rate, including unknown ones, use the default rate.
func (c *ChurchTaxCalculator) RateFor(state domain.FederalState) decimal.Decimal {
	if r, ok := c.Rules.StateRates[state]; ok {
		return r
	}
	return c.Rules.DefaultRate
}

// Compute returns the church tax, zero for non-members
func (c *ChurchTaxCalculator) Compute(incomeTax decimal.Decimal, member bool, state domain.FederalState) decimal.Decimal {
	if !member {
		return decimal.Zero
	}
	return incomeTax.Mul(c.RateFor(state)).Floor()
}
