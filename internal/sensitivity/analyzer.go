package sensitivity

import (
	"fmt"

	"github.com/rgehrsitz/gbrtax/internal/domain"
	"github.com/rgehrsitz/gbrtax/internal/reserve"
	"github.com/shopspring/decimal"
)

// Analyzer sweeps one input of a scenario and records the reserve
type Analyzer struct {
	engine *reserve.Engine
}

// NewAnalyzer creates an analyzer on top of a reserve engine
func NewAnalyzer(engine *reserve.Engine) *Analyzer {
	return &Analyzer{engine: engine}
}

// Analyze runs the configured strategy for every value of the parameter.
// The configuration itself is not modified.
func (a *Analyzer) Analyze(config *domain.Configuration, param domain.SensitivityParameter) (*domain.SensitivityAnalysis, error) {
	if param.Steps < 1 {
		return nil, fmt.Errorf("parameter %s needs at least one step", param.Name)
	}
	if param.MaxValue.LessThan(param.MinValue) {
		return nil, fmt.Errorf("parameter %s: max %s is below min %s", param.Name, param.MaxValue, param.MinValue)
	}
	base, err := baseValue(config, param.Name)
	if err != nil {
		return nil, err
	}
	strategy, err := reserve.CreateStrategy(config.Strategy)
	if err != nil {
		return nil, err
	}

	values := generateParameterValues(param)
	points := make([]domain.SensitivityPoint, 0, len(values))
	var taxYear string
	for _, v := range values {
		partnership, err := modifyPartnership(config.Partnership, param.Name, v)
		if err != nil {
			return nil, err
		}
		result := a.engine.Run(strategy, config.Partners, partnership)
		taxYear = result.TaxYear
		points = append(points, domain.SensitivityPoint{
			Value:                  v,
			TotalReserve:           result.TotalReserve,
			TotalReservePercentage: result.TotalReservePercentage,
			WeightedTaxRate:        result.WeightedTaxRate,
			AnnualTaxBurden:        result.AnnualTaxBurden,
			Diagnostics:            len(result.Diagnostics),
		})
	}

	return &domain.SensitivityAnalysis{
		Parameter: param,
		Strategy:  strategy.Name(),
		TaxYear:   taxYear,
		BaseValue: base,
		Points:    points,
		Summary:   summarize(points),
	}, nil
}

// generateParameterValues spreads Steps values evenly from min to max
func generateParameterValues(param domain.SensitivityParameter) []decimal.Decimal {
	if param.Steps <= 1 {
		return []decimal.Decimal{param.MinValue}
	}

	values := make([]decimal.Decimal, 0, param.Steps)
	stepSize := param.MaxValue.Sub(param.MinValue).Div(decimal.NewFromInt(int64(param.Steps - 1)))
	for i := 0; i < param.Steps; i++ {
		values = append(values, param.MinValue.Add(stepSize.Mul(decimal.NewFromInt(int64(i)))))
	}
	values[len(values)-1] = param.MaxValue
	return values
}

func baseValue(config *domain.Configuration, name string) (decimal.Decimal, error) {
	switch name {
	case domain.ParamMonthlyProfit:
		return config.Partnership.MonthlyProfit, nil
	case domain.ParamSafetyMargin:
		return config.Partnership.SafetyMargin, nil
	default:
		return decimal.Zero, fmt.Errorf("unsupported sensitivity parameter %q", name)
	}
}

func modifyPartnership(p domain.PartnershipProfile, name string, value decimal.Decimal) (domain.PartnershipProfile, error) {
	switch name {
	case domain.ParamMonthlyProfit:
		p.MonthlyProfit = value
	case domain.ParamSafetyMargin:
		p.SafetyMargin = value
	default:
		return p, fmt.Errorf("unsupported sensitivity parameter %q", name)
	}
	return p, nil
}

func summarize(points []domain.SensitivityPoint) domain.SensitivitySummary {
	var s domain.SensitivitySummary
	if len(points) == 0 {
		return s
	}
	s.MinPercentage = points[0].TotalReservePercentage
	s.MaxPercentage = points[0].TotalReservePercentage
	for i, p := range points {
		s.MinPercentage = decimal.Min(s.MinPercentage, p.TotalReservePercentage)
		s.MaxPercentage = decimal.Max(s.MaxPercentage, p.TotalReservePercentage)
		if i == 0 {
			continue
		}
		step := p.WeightedTaxRate.Sub(points[i-1].WeightedTaxRate)
		if step.GreaterThan(s.LargestStepRate) {
			s.LargestStepRate = step
			s.LargestStepAt = p.Value
		}
	}
	return s
}
