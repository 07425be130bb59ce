package domain

import "github.com/shopspring/decimal"

// SensitivityParameter is an input swept across a range
type SensitivityParameter struct {
	Name        string          `yaml:"name" json:"name"`
	MinValue    decimal.Decimal `yaml:"min_value" json:"min_value"`
	MaxValue    decimal.Decimal `yaml:"max_value" json:"max_value"`
	Steps       int             `yaml:"steps" json:"steps"`
	Unit        string          `yaml:"unit" json:"unit"` // "euro" or "fraction"
	Description string          `yaml:"description" json:"description"`
}

// SensitivityPoint is the reserve at one parameter value
type SensitivityPoint struct {
	Value                  decimal.Decimal `yaml:"value" json:"value"`
	TotalReserve           decimal.Decimal `yaml:"total_reserve" json:"total_reserve"`
	TotalReservePercentage decimal.Decimal `yaml:"total_reserve_percentage" json:"total_reserve_percentage"`
	WeightedTaxRate        decimal.Decimal `yaml:"weighted_tax_rate" json:"weighted_tax_rate"`
	AnnualTaxBurden        decimal.Decimal `yaml:"annual_tax_burden" json:"annual_tax_burden"`
	Diagnostics            int             `yaml:"diagnostics" json:"diagnostics"`
}

// SensitivitySummary condenses a sweep
type SensitivitySummary struct {
	MinPercentage decimal.Decimal `yaml:"min_percentage" json:"min_percentage"`
	MaxPercentage decimal.Decimal `yaml:"max_percentage" json:"max_percentage"`
	// LargestStepAt is the value whose step from the previous point raised the
	// weighted rate the most; bracket crossings show up here
	LargestStepAt   decimal.Decimal `yaml:"largest_step_at" json:"largest_step_at"`
	LargestStepRate decimal.Decimal `yaml:"largest_step_rate" json:"largest_step_rate"`
}

// SensitivityAnalysis is a one-parameter sweep of the reserve calculation
type SensitivityAnalysis struct {
	Parameter SensitivityParameter `yaml:"parameter" json:"parameter"`
	Strategy  string               `yaml:"strategy" json:"strategy"`
	TaxYear   string               `yaml:"tax_year" json:"tax_year"`
	BaseValue decimal.Decimal      `yaml:"base_value" json:"base_value"`
	Points    []SensitivityPoint   `yaml:"points" json:"points"`
	Summary   SensitivitySummary   `yaml:"summary" json:"summary"`
}

// Sweepable parameters
const (
	ParamMonthlyProfit = "monthly_profit"
	ParamSafetyMargin  = "safety_margin"
)

var (
	MonthlyProfitParam = SensitivityParameter{
		Name:        ParamMonthlyProfit,
		MinValue:    decimal.NewFromInt(1000),
		MaxValue:    decimal.NewFromInt(20000),
		Steps:       20,
		Unit:        "euro",
		Description: "Monthly profit of the partnership",
	}

	SafetyMarginParam = SensitivityParameter{
		Name:        ParamSafetyMargin,
		MinValue:    decimal.Zero,
		MaxValue:    decimal.NewFromFloat(0.20),
		Steps:       5,
		Unit:        "fraction",
		Description: "Safety margin added on top of the reserve",
	}
)

// GetCommonParameters returns the predefined sweep parameters
func GetCommonParameters() []SensitivityParameter {
	return []SensitivityParameter{MonthlyProfitParam, SafetyMarginParam}
}
