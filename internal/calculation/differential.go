package calculation

import (
	"fmt"

	"github.com/rgehrsitz/gbrtax/internal/domain"
	"github.com/shopspring/decimal"
)

// ExpectedMaxRate is the marginal rate above which a result is flagged as
// implausible. Rates between this and the table's ceiling are kept.
var ExpectedMaxRate = decimal.NewFromFloat(0.50)

// ComputeDifferentialTax returns the extra tax caused by adding increment to
// baseIncome. Both breakdowns use the same filing path. The marginal rate is
// zero for a non-positive increment.
func (tc *TaxCalculator) ComputeDifferentialTax(baseIncome, increment decimal.Decimal, joint, churchMember bool, state domain.FederalState) domain.DifferentialTax {
	base := tc.ComputeTotalTax(baseIncome, joint, churchMember, state)
	combined := tc.ComputeTotalTax(baseIncome.Add(increment), joint, churchMember, state)
	additional := combined.Sub(base)

	result := domain.DifferentialTax{
		BaseIncome: baseIncome,
		Increment:  increment,
		Base:       base,
		Combined:   combined,
		BaseTax:    base.TotalTax,
		TotalTax:   combined.TotalTax,
	}

	if !increment.IsPositive() {
		result.Additional = additional
		result.AdditionalTax = additional.TotalTax
		result.MarginalRate = decimal.Zero
		return result
	}

	if additional.TotalTax.IsNegative() {
		msg := fmt.Sprintf("tax fell from %s to %s when income rose from %s to %s; additional tax clamped to 0",
			base.TotalTax.StringFixed(2), combined.TotalTax.StringFixed(2),
			baseIncome.StringFixed(0), baseIncome.Add(increment).StringFixed(0))
		tc.Log().Warnf("%s (table %s)", msg, tc.tableName())
		result.Diagnostics = append(result.Diagnostics, msg)
		additional = domain.TaxBreakdown{}
	}

	rate := additional.TotalTax.Div(increment)
	if rate.GreaterThan(ExpectedMaxRate) {
		msg := fmt.Sprintf("marginal rate %s%% exceeds the expected maximum of %s%%",
			rate.Mul(domain.Hundred).StringFixed(2), ExpectedMaxRate.Mul(domain.Hundred).StringFixed(0))
		tc.Log().Debugf("%s (base %s, increment %s)", msg, baseIncome, increment)
		result.Diagnostics = append(result.Diagnostics, msg)
	}

	capped, wasCapped := tc.CapRate(rate)
	if wasCapped {
		msg := fmt.Sprintf("marginal rate %s%% capped at %s%%",
			rate.Mul(domain.Hundred).StringFixed(2), capped.Mul(domain.Hundred).StringFixed(0))
		tc.Log().Warnf("%s (base %s, increment %s)", msg, baseIncome, increment)
		result.Diagnostics = append(result.Diagnostics, msg)
	}

	additional.EffectiveRate = capped
	result.Additional = additional
	result.AdditionalTax = additional.TotalTax
	result.MarginalRate = capped
	result.RateCapped = wasCapped
	return result
}

// CapRate clamps a rate to the table's ceiling
func (tc *TaxCalculator) CapRate(rate decimal.Decimal) (decimal.Decimal, bool) {
	ceiling := tc.Table.RateCeiling
	if ceiling.IsPositive() && rate.GreaterThan(ceiling) {
		return ceiling, true
	}
	return rate, false
}

func (tc *TaxCalculator) tableName() string {
	if tc.Table == nil {
		return ""
	}
	return tc.Table.Name
}
