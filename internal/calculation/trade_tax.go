package calculation

import (
	"github.com/rgehrsitz/gbrtax/internal/domain"
	"github.com/shopspring/decimal"
)

// TradeTaxCalculator applies the simplified trade tax formula:
// max(0, profit - allowance) * base rate * multiplier/100
type TradeTaxCalculator struct {
	Rules domain.TradeTaxRules
}

// NewTradeTaxCalculator creates a trade tax calculator
func NewTradeTaxCalculator(rules domain.TradeTaxRules) *TradeTaxCalculator {
	return &TradeTaxCalculator{Rules: rules}
}

// Compute returns the annual trade tax. A nil multiplier uses the table default.
func (t *TradeTaxCalculator) Compute(annualProfit decimal.Decimal, multiplier *decimal.Decimal) decimal.Decimal {
	taxable := annualProfit.Sub(t.Rules.Allowance)
	if !taxable.IsPositive() {
		return decimal.Zero
	}
	m := t.Rules.DefaultMultiplier
	if multiplier != nil {
		m = *multiplier
	}
	if m.IsNegative() {
		return decimal.Zero
	}
	return taxable.Mul(t.Rules.BaseRate).Mul(m.Div(domain.Hundred))
}

// ForPartnership returns the trade tax owed by a partnership, zero unless it
// is commercial
func (t *TradeTaxCalculator) ForPartnership(p domain.PartnershipProfile) decimal.Decimal {
	if !p.IsCommercial() {
		return decimal.Zero
	}
	return t.Compute(p.AnnualProfit(), p.MunicipalMultiplier)
}
