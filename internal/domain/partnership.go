package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

var (
	// Hundred converts between percentages and fractions
	Hundred = decimal.NewFromInt(100)
	// MonthsPerYear converts monthly profit to annual profit
	MonthsPerYear = decimal.NewFromInt(12)
)

// AmountFromFloat converts a float input (interactive editing, sliders) to a
// decimal amount. NaN and infinities are normalised to zero.
func AmountFromFloat(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

// Reserve strategy names
const (
	StrategyIndividual = "individual"
	StrategyEquitable  = "equitable"
)

// StrategyNames lists the reserve strategies in display order
func StrategyNames() []string {
	return []string{StrategyIndividual, StrategyEquitable}
}

// PartnershipType decides whether trade tax applies
type PartnershipType string

const (
	// Freelance partnerships (freiberuflich) pay no trade tax
	Freelance PartnershipType = "freelance"
	// Commercial partnerships (gewerblich) are subject to trade tax
	Commercial PartnershipType = "commercial"
)

// PartnerTaxProfile is the tax situation of one partner outside the partnership.
// Shares across all partners should sum to 100; the reserve engine normalises
// them before any strategy runs.
type PartnerTaxProfile struct {
	ID              string          `yaml:"id" json:"id"`
	Name            string          `yaml:"name" json:"name"`
	BaseIncome      decimal.Decimal `yaml:"base_income" json:"base_income"` // annual taxable income without the partnership
	Share           decimal.Decimal `yaml:"share" json:"share"`             // percent of partnership profit
	ChurchMember    bool            `yaml:"church_member" json:"church_member"`
	State           FederalState    `yaml:"state" json:"state"`
	JointAssessment bool            `yaml:"joint_assessment" json:"joint_assessment"`
}

// DisplayName falls back to a short id when no name was given
func (p PartnerTaxProfile) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	id := p.ID
	if len(id) > 4 {
		id = id[:4]
	}
	return "Partner " + id
}

// PartnershipProfile describes the partnership (GbR) itself
type PartnershipProfile struct {
	MonthlyProfit       decimal.Decimal  `yaml:"monthly_profit" json:"monthly_profit"`
	Type                PartnershipType  `yaml:"type" json:"type"`
	MunicipalMultiplier *decimal.Decimal `yaml:"municipal_multiplier,omitempty" json:"municipal_multiplier,omitempty"` // Hebesatz in percent
	SafetyMargin        decimal.Decimal  `yaml:"safety_margin" json:"safety_margin"`                                   // fraction, 0.05 = 5%
}

// AnnualProfit is twelve times the monthly profit
func (p PartnershipProfile) AnnualProfit() decimal.Decimal {
	return p.MonthlyProfit.Mul(MonthsPerYear)
}

// IsCommercial reports whether trade tax applies
func (p PartnershipProfile) IsCommercial() bool {
	return p.Type == Commercial
}

// Configuration is a complete calculation input as loaded from a scenario file
type Configuration struct {
	TaxYear     string              `yaml:"tax_year" json:"tax_year"`
	Strategy    string              `yaml:"strategy" json:"strategy"`
	Partnership PartnershipProfile  `yaml:"partnership" json:"partnership"`
	Partners    []PartnerTaxProfile `yaml:"partners" json:"partners"`
}
