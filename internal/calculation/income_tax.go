package calculation

import (
	"github.com/rgehrsitz/gbrtax/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	tenThousand = decimal.NewFromInt(10000)
	two         = decimal.NewFromInt(2)
)

// IncomeTaxCalculator evaluates the piecewise §32a EStG tariff of a tax table
type IncomeTaxCalculator struct {
	Zones []domain.TaxZone
}

// NewIncomeTaxCalculator creates an income tax calculator for the given table
func NewIncomeTaxCalculator(table *domain.TaxTable) *IncomeTaxCalculator {
	zones := make([]domain.TaxZone, len(table.Zones))
	copy(zones, table.Zones)
	return &IncomeTaxCalculator{Zones: zones}
}

// ComputeBracketTax returns the base income tax for an annual taxable income.
// Income is floored to whole euros first and so is the result; negative
// income is taxed as zero.
func (c *IncomeTaxCalculator) ComputeBracketTax(income decimal.Decimal) decimal.Decimal {
	x := wholeEuros(income)
	idx := c.zoneIndex(x)
	if idx < 0 {
		return decimal.Zero
	}
	return evaluateZone(c.Zones[idx], x)
}

// ComputeJointTax applies the splitting method: halve, tax, double
func (c *IncomeTaxCalculator) ComputeJointTax(income decimal.Decimal) decimal.Decimal {
	return c.ComputeBracketTax(income.Div(two)).Mul(two)
}

// ComputeIncomeTax dispatches on the filing status
func (c *IncomeTaxCalculator) ComputeIncomeTax(income decimal.Decimal, joint bool) decimal.Decimal {
	if joint {
		return c.ComputeJointTax(income)
	}
	return c.ComputeBracketTax(income)
}

// ZoneIndex returns the 1-based tariff zone an income falls into. For joint
// assessment the halved income decides the zone.
func (c *IncomeTaxCalculator) ZoneIndex(income decimal.Decimal, joint bool) int {
	if joint {
		income = income.Div(two)
	}
	return c.zoneIndex(wholeEuros(income)) + 1
}

// zoneIndex finds the first zone whose max is >= x. A boundary value belongs
// to the lower zone.
func (c *IncomeTaxCalculator) zoneIndex(x decimal.Decimal) int {
	for i, z := range c.Zones {
		if z.Max == nil || x.LessThanOrEqual(*z.Max) {
			return i
		}
	}
	return len(c.Zones) - 1
}

func evaluateZone(z domain.TaxZone, x decimal.Decimal) decimal.Decimal {
	var tax decimal.Decimal
	switch z.Kind {
	case domain.ZoneProgressive:
		y := x.Sub(z.Base).Div(tenThousand)
		tax = z.A.Mul(y).Add(z.B).Mul(y).Add(z.C)
	case domain.ZoneProportional:
		tax = z.Rate.Mul(x).Sub(z.Deduction)
	default:
		return decimal.Zero
	}
	tax = tax.Floor()
	if tax.IsNegative() {
		return decimal.Zero
	}
	return tax
}

func wholeEuros(amount decimal.Decimal) decimal.Decimal {
	x := amount.Floor()
	if x.IsNegative() {
		return decimal.Zero
	}
	return x
}
