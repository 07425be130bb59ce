package domain

import "github.com/shopspring/decimal"

// TaxBreakdown is the annual tax on one income figure
type TaxBreakdown struct {
	IncomeTax           decimal.Decimal `yaml:"income_tax" json:"income_tax"`
	SolidaritySurcharge decimal.Decimal `yaml:"solidarity_surcharge" json:"solidarity_surcharge"`
	ChurchTax           decimal.Decimal `yaml:"church_tax" json:"church_tax"`
	TotalTax            decimal.Decimal `yaml:"total_tax" json:"total_tax"`
	EffectiveRate       decimal.Decimal `yaml:"effective_rate" json:"effective_rate"`
}

// Sub returns the component-wise difference b - other. EffectiveRate is left
// zero because a rate of a difference needs the income delta.
func (b TaxBreakdown) Sub(other TaxBreakdown) TaxBreakdown {
	return TaxBreakdown{
		IncomeTax:           b.IncomeTax.Sub(other.IncomeTax),
		SolidaritySurcharge: b.SolidaritySurcharge.Sub(other.SolidaritySurcharge),
		ChurchTax:           b.ChurchTax.Sub(other.ChurchTax),
		TotalTax:            b.TotalTax.Sub(other.TotalTax),
	}
}

// DifferentialTax compares tax on base income with tax on base plus the
// partnership increment
type DifferentialTax struct {
	BaseIncome    decimal.Decimal `yaml:"base_income" json:"base_income"`
	Increment     decimal.Decimal `yaml:"increment" json:"increment"`
	Base          TaxBreakdown    `yaml:"base" json:"base"`
	Combined      TaxBreakdown    `yaml:"combined" json:"combined"`
	Additional    TaxBreakdown    `yaml:"additional" json:"additional"`
	BaseTax       decimal.Decimal `yaml:"base_tax" json:"base_tax"`
	TotalTax      decimal.Decimal `yaml:"total_tax" json:"total_tax"`
	AdditionalTax decimal.Decimal `yaml:"additional_tax" json:"additional_tax"`
	MarginalRate  decimal.Decimal `yaml:"marginal_rate" json:"marginal_rate"`
	RateCapped    bool            `yaml:"rate_capped" json:"rate_capped"`
	Diagnostics   []string        `yaml:"diagnostics,omitempty" json:"diagnostics,omitempty"`
}

// PartnerReserveResult is the monthly reserve for one partner
type PartnerReserveResult struct {
	PartnerID           string          `yaml:"partner_id" json:"partner_id"`
	PartnerName         string          `yaml:"partner_name" json:"partner_name"`
	Share               decimal.Decimal `yaml:"share" json:"share"` // normalised percent
	MonthlyProfit       decimal.Decimal `yaml:"monthly_profit" json:"monthly_profit"`
	AnnualProfit        decimal.Decimal `yaml:"annual_profit" json:"annual_profit"`
	BaseIncome          decimal.Decimal `yaml:"base_income" json:"base_income"`
	BaseTaxAmount       decimal.Decimal `yaml:"base_tax_amount" json:"base_tax_amount"`
	TotalTaxAmount      decimal.Decimal `yaml:"total_tax_amount" json:"total_tax_amount"`
	AdditionalTaxAmount decimal.Decimal `yaml:"additional_tax_amount" json:"additional_tax_amount"`
	EffectiveTaxRate    decimal.Decimal `yaml:"effective_tax_rate" json:"effective_tax_rate"` // before safety margin
	ReserveAmount       decimal.Decimal `yaml:"reserve_amount" json:"reserve_amount"`         // monthly, before safety margin
	SafetyAmount        decimal.Decimal `yaml:"safety_amount" json:"safety_amount"`           // monthly
	TotalReserve        decimal.Decimal `yaml:"total_reserve" json:"total_reserve"`           // ReserveAmount + SafetyAmount
	Breakdown           TaxBreakdown    `yaml:"breakdown" json:"breakdown"`                   // annual additional tax per component
	BaseZone            int             `yaml:"base_zone" json:"base_zone"`
	CombinedZone        int             `yaml:"combined_zone" json:"combined_zone"`
	RateCapped          bool            `yaml:"rate_capped" json:"rate_capped"`
}

// AggregateReserveResult is the reserve for the whole partnership. Every
// strategy produces this shape.
type AggregateReserveResult struct {
	Strategy               string                 `yaml:"strategy" json:"strategy"`
	TaxYear                string                 `yaml:"tax_year" json:"tax_year"`
	MonthlyProfit          decimal.Decimal        `yaml:"monthly_profit" json:"monthly_profit"`
	SafetyMargin           decimal.Decimal        `yaml:"safety_margin" json:"safety_margin"`
	TotalReserve           decimal.Decimal        `yaml:"total_reserve" json:"total_reserve"`                       // monthly
	TotalReservePercentage decimal.Decimal        `yaml:"total_reserve_percentage" json:"total_reserve_percentage"` // fraction of monthly profit
	WeightedTaxRate        decimal.Decimal        `yaml:"weighted_tax_rate" json:"weighted_tax_rate"`
	AnnualTaxBurden        decimal.Decimal        `yaml:"annual_tax_burden" json:"annual_tax_burden"`
	TradeTax               decimal.Decimal        `yaml:"trade_tax" json:"trade_tax"` // annual
	Partners               []PartnerReserveResult `yaml:"partners" json:"partners"`
	Diagnostics            []string               `yaml:"diagnostics,omitempty" json:"diagnostics,omitempty"`
}

// AnnualIncomeTaxEstimate is the annual reserve attributable to personal
// income taxes. The burden carries the safety margin on every part, so the
// trade tax is taken out together with its margin.
func (r AggregateReserveResult) AnnualIncomeTaxEstimate() decimal.Decimal {
	tradeShare := r.TradeTax.Mul(decimal.NewFromInt(1).Add(r.SafetyMargin))
	est := r.AnnualTaxBurden.Sub(tradeShare)
	if est.IsNegative() {
		return decimal.Zero
	}
	return est
}
