package calculation

import (
	"github.com/rgehrsitz/gbrtax/internal/domain"
	"github.com/shopspring/decimal"
)

// TaxCalculator combines income tax, solidarity surcharge and church tax for
// one tax table. It holds only read-only configuration and is safe for
// concurrent use.
type TaxCalculator struct {
	Table      *domain.TaxTable
	IncomeTax  *IncomeTaxCalculator
	Solidarity *SolidarityCalculator
	Church     *ChurchTaxCalculator
	TradeTax   *TradeTaxCalculator
	Logger     Logger
}

// NewTaxCalculator creates a calculator for the given table
func NewTaxCalculator(table *domain.TaxTable) *TaxCalculator {
	return &TaxCalculator{
		Table:      table,
		IncomeTax:  NewIncomeTaxCalculator(table),
		Solidarity: NewSolidarityCalculator(table.Solidarity),
		Church:     NewChurchTaxCalculator(table.ChurchTax),
		TradeTax:   NewTradeTaxCalculator(table.TradeTax),
		Logger:     NopLogger{},
	}
}

// SetLogger sets the logger for the calculator; nil restores the no-op logger
func (tc *TaxCalculator) SetLogger(l Logger) {
	if l == nil {
		tc.Logger = NopLogger{}
		return
	}
	tc.Logger = l
}

// Log returns the configured logger, never nil
func (tc *TaxCalculator) Log() Logger {
	if tc.Logger == nil {
		return NopLogger{}
	}
	return tc.Logger
}

// ComputeBracketTax returns the individual-assessment income tax
func (tc *TaxCalculator) ComputeBracketTax(income decimal.Decimal) decimal.Decimal {
	return tc.IncomeTax.ComputeBracketTax(income)
}

// ComputeIncomeTax returns income tax on the chosen filing path
func (tc *TaxCalculator) ComputeIncomeTax(income decimal.Decimal, joint bool) decimal.Decimal {
	return tc.IncomeTax.ComputeIncomeTax(income, joint)
}

// ZoneIndex returns the 1-based tariff zone of an income
func (tc *TaxCalculator) ZoneIndex(income decimal.Decimal, joint bool) int {
	return tc.IncomeTax.ZoneIndex(income, joint)
}

// ComputeTotalTax returns the full annual breakdown for one income figure.
// Solidarity thresholds follow the filing status.
func (tc *TaxCalculator) ComputeTotalTax(income decimal.Decimal, joint, churchMember bool, state domain.FederalState) domain.TaxBreakdown {
	incomeTax := tc.IncomeTax.ComputeIncomeTax(income, joint)
	soli := tc.Solidarity.Compute(incomeTax, joint)
	church := tc.Church.Compute(incomeTax, churchMember, state)
	total := incomeTax.Add(soli).Add(church)

	rate := decimal.Zero
	if income.IsPositive() {
		rate = total.Div(income)
	}

	tc.Log().Debugf("total tax on %s (joint=%t, church=%t, state=%s): income tax %s, soli %s, church %s, total %s",
		income.StringFixed(2), joint, churchMember, state, incomeTax, soli.StringFixed(2), church, total.StringFixed(2))

	return domain.TaxBreakdown{
		IncomeTax:           incomeTax,
		SolidaritySurcharge: soli,
		ChurchTax:           church,
		TotalTax:            total,
		EffectiveRate:       rate,
	}
}
