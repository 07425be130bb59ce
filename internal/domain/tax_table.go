package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ZoneKind selects the formula used inside a tariff zone
type ZoneKind string

const (
	// ZoneExempt is the basic allowance (Grundfreibetrag), taxed at zero
	ZoneExempt ZoneKind = "exempt"
	// ZoneProgressive uses (A*y + B)*y + C with y = (income - Base) / 10000
	ZoneProgressive ZoneKind = "progressive"
	// ZoneProportional uses Rate*income - Deduction
	ZoneProportional ZoneKind = "proportional"
)

// TaxZone is one piece of the §32a EStG tariff. Max is inclusive; the last
// zone has no Max.
type TaxZone struct {
	Kind      ZoneKind         `yaml:"kind" json:"kind"`
	Max       *decimal.Decimal `yaml:"max,omitempty" json:"max,omitempty"`
	Base      decimal.Decimal  `yaml:"base,omitempty" json:"base,omitempty"`
	A         decimal.Decimal  `yaml:"a,omitempty" json:"a,omitempty"`
	B         decimal.Decimal  `yaml:"b,omitempty" json:"b,omitempty"`
	C         decimal.Decimal  `yaml:"c,omitempty" json:"c,omitempty"`
	Rate      decimal.Decimal  `yaml:"rate,omitempty" json:"rate,omitempty"`
	Deduction decimal.Decimal  `yaml:"deduction,omitempty" json:"deduction,omitempty"`
}

// SolidarityThresholds are the exemption limit and the end of the phase-in band
// for one filing status, both expressed as income tax amounts
type SolidarityThresholds struct {
	Threshold  decimal.Decimal `yaml:"threshold" json:"threshold"`
	PhaseInEnd decimal.Decimal `yaml:"phase_in_end" json:"phase_in_end"`
}

// SolidarityRules configures the solidarity surcharge
type SolidarityRules struct {
	Rate        decimal.Decimal      `yaml:"rate" json:"rate"`
	PhaseInRate decimal.Decimal      `yaml:"phase_in_rate" json:"phase_in_rate"`
	Individual  SolidarityThresholds `yaml:"individual" json:"individual"`
	Joint       SolidarityThresholds `yaml:"joint" json:"joint"`
}

// ChurchTaxRules configures church tax rates by state
type ChurchTaxRules struct {
	DefaultRate decimal.Decimal                  `yaml:"default_rate" json:"default_rate"`
	StateRates  map[FederalState]decimal.Decimal `yaml:"state_rates" json:"state_rates"`
}

// TradeTaxRules configures the simplified trade tax formula
type TradeTaxRules struct {
	Allowance         decimal.Decimal `yaml:"allowance" json:"allowance"`
	BaseRate          decimal.Decimal `yaml:"base_rate" json:"base_rate"`                   // Steuermesszahl
	DefaultMultiplier decimal.Decimal `yaml:"default_multiplier" json:"default_multiplier"` // Hebesatz in percent
}

// TaxTable holds every law-defined constant for one tax year
type TaxTable struct {
	Name        string          `yaml:"name" json:"name"`
	Year        int             `yaml:"year" json:"year"`
	Description string          `yaml:"description" json:"description"`
	Zones       []TaxZone       `yaml:"zones" json:"zones"`
	Solidarity  SolidarityRules `yaml:"solidarity" json:"solidarity"`
	ChurchTax   ChurchTaxRules  `yaml:"church_tax" json:"church_tax"`
	TradeTax    TradeTaxRules   `yaml:"trade_tax" json:"trade_tax"`
	RateCeiling decimal.Decimal `yaml:"rate_ceiling" json:"rate_ceiling"` // sanity cap for marginal rates
}

// BasicAllowance returns the upper bound of the leading exempt zone
func (t *TaxTable) BasicAllowance() decimal.Decimal {
	if len(t.Zones) > 0 && t.Zones[0].Kind == ZoneExempt && t.Zones[0].Max != nil {
		return *t.Zones[0].Max
	}
	return decimal.Zero
}

// Validate checks the structure of the table. Numerical continuity across
// zone boundaries is checked by calculation.CheckContinuity.
func (t *TaxTable) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("tax table name is required")
	}
	if len(t.Zones) < 2 {
		return fmt.Errorf("tax table %s: at least two zones are required, got %d", t.Name, len(t.Zones))
	}
	var prev *decimal.Decimal
	for i, z := range t.Zones {
		last := i == len(t.Zones)-1
		switch z.Kind {
		case ZoneExempt, ZoneProgressive, ZoneProportional:
		default:
			return fmt.Errorf("tax table %s: zone %d has unknown kind %q", t.Name, i, z.Kind)
		}
		if last {
			if z.Max != nil {
				return fmt.Errorf("tax table %s: last zone must be unbounded", t.Name)
			}
			continue
		}
		if z.Max == nil {
			return fmt.Errorf("tax table %s: zone %d needs a max", t.Name, i)
		}
		if prev != nil && !z.Max.GreaterThan(*prev) {
			return fmt.Errorf("tax table %s: zone %d max %s does not exceed previous max %s", t.Name, i, z.Max, prev)
		}
		prev = z.Max
	}
	if t.Solidarity.Rate.IsNegative() || t.Solidarity.PhaseInRate.IsNegative() {
		return fmt.Errorf("tax table %s: solidarity rates cannot be negative", t.Name)
	}
	for label, th := range map[string]SolidarityThresholds{"individual": t.Solidarity.Individual, "joint": t.Solidarity.Joint} {
		if th.PhaseInEnd.LessThan(th.Threshold) {
			return fmt.Errorf("tax table %s: %s solidarity phase-in end %s is below threshold %s", t.Name, label, th.PhaseInEnd, th.Threshold)
		}
	}
	if t.ChurchTax.DefaultRate.IsNegative() {
		return fmt.Errorf("tax table %s: church tax default rate cannot be negative", t.Name)
	}
	if !t.RateCeiling.IsPositive() {
		return fmt.Errorf("tax table %s: rate ceiling must be positive", t.Name)
	}
	return nil
}
