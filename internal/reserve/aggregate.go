package reserve

import (
	"github.com/rgehrsitz/gbrtax/internal/calculation"
	"github.com/rgehrsitz/gbrtax/internal/config"
	"github.com/rgehrsitz/gbrtax/internal/domain"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// aggregate sums the partner results into the partnership view. Both
// strategies end here so the result shape never depends on the strategy.
func aggregate(calc *calculation.TaxCalculator, strategy string, partnership domain.PartnershipProfile, partners []domain.PartnerReserveResult, weightedRate, tradeTax decimal.Decimal, diagnostics []string) domain.AggregateReserveResult {
	total := lo.Reduce(partners, func(acc decimal.Decimal, p domain.PartnerReserveResult, _ int) decimal.Decimal {
		return acc.Add(p.TotalReserve)
	}, decimal.Zero)

	pct := decimal.Zero
	if partnership.MonthlyProfit.IsPositive() {
		pct = total.Div(partnership.MonthlyProfit)
	}

	return domain.AggregateReserveResult{
		Strategy:               strategy,
		TaxYear:                calc.Table.Name,
		MonthlyProfit:          partnership.MonthlyProfit,
		SafetyMargin:           partnership.SafetyMargin,
		TotalReserve:           total,
		TotalReservePercentage: pct,
		WeightedTaxRate:        weightedRate,
		AnnualTaxBurden:        total.Mul(domain.MonthsPerYear),
		TradeTax:               tradeTax,
		Partners:               partners,
		Diagnostics:            diagnostics,
	}
}

// Engine normalises shares once and runs a strategy
type Engine struct {
	Calc   *calculation.TaxCalculator
	Logger calculation.Logger
}

// NewEngine creates a reserve engine around a tax calculator
func NewEngine(calc *calculation.TaxCalculator) *Engine {
	return &Engine{Calc: calc, Logger: calculation.NopLogger{}}
}

// NewEngineForTable creates an engine for an embedded tax table
func NewEngineForTable(name string) (*Engine, error) {
	table, err := config.LoadTaxTable(name)
	if err != nil {
		return nil, err
	}
	return NewEngine(calculation.NewTaxCalculator(table)), nil
}

// SetLogger sets the logger for the engine and its calculator
func (e *Engine) SetLogger(l calculation.Logger) {
	if l == nil {
		l = calculation.NopLogger{}
	}
	e.Logger = l
	e.Calc.SetLogger(l)
}

// Compute runs the named strategy. The caller's partner slice is not modified.
func (e *Engine) Compute(strategyName string, partners []domain.PartnerTaxProfile, partnership domain.PartnershipProfile) (domain.AggregateReserveResult, error) {
	strategy, err := CreateStrategy(strategyName)
	if err != nil {
		return domain.AggregateReserveResult{}, err
	}
	return e.Run(strategy, partners, partnership), nil
}

// Run executes an already created strategy
func (e *Engine) Run(strategy Strategy, partners []domain.PartnerTaxProfile, partnership domain.PartnershipProfile) domain.AggregateReserveResult {
	normalized, note := NormalizeShares(partners)
	if note != "" {
		e.Logger.Warnf("%s", note)
	}

	result := strategy.Compute(e.Calc, normalized, partnership)
	if note != "" {
		result.Diagnostics = append([]string{note}, result.Diagnostics...)
	}

	e.Logger.Infof("%s reserve: %s per month (%s%% of %s) for %d partners",
		result.Strategy, result.TotalReserve.StringFixed(2),
		result.TotalReservePercentage.Mul(domain.Hundred).StringFixed(2),
		result.MonthlyProfit.StringFixed(2), len(result.Partners))
	return result
}

// ComputeConfiguration runs the strategy named in a loaded configuration
func (e *Engine) ComputeConfiguration(cfg *domain.Configuration) (domain.AggregateReserveResult, error) {
	return e.Compute(cfg.Strategy, cfg.Partners, cfg.Partnership)
}
