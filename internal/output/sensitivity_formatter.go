package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rgehrsitz/gbrtax/internal/domain"
	"github.com/shopspring/decimal"
)

// SensitivityFormatter renders a sensitivity sweep
type SensitivityFormatter interface {
	FormatSensitivityAnalysis(analysis *domain.SensitivityAnalysis) (string, error)
	Name() string
}

// SensitivityConsoleFormatter formats a sweep as a text table
type SensitivityConsoleFormatter struct{}

func (scf SensitivityConsoleFormatter) Name() string { return "console" }

func (scf SensitivityConsoleFormatter) FormatSensitivityAnalysis(analysis *domain.SensitivityAnalysis) (string, error) {
	if len(analysis.Points) == 0 {
		return "", fmt.Errorf("no results in analysis")
	}
	var buf bytes.Buffer
	param := analysis.Parameter

	fmt.Fprintf(&buf, "SENSITIVITY ANALYSIS: %s\n", strings.ToUpper(strings.ReplaceAll(param.Name, "_", " ")))
	fmt.Fprintln(&buf, "=================================================================")
	fmt.Fprintf(&buf, "Strategy: %s, tax table %s\n", analysis.Strategy, analysis.TaxYear)
	fmt.Fprintf(&buf, "Base case: %s\n", formatParamValue(param, analysis.BaseValue))
	fmt.Fprintf(&buf, "Range: %s to %s (%d steps)\n", formatParamValue(param, param.MinValue), formatParamValue(param, param.MaxValue), param.Steps)
	if param.Description != "" {
		fmt.Fprintf(&buf, "Description: %s\n", param.Description)
	}
	fmt.Fprintln(&buf)

	fmt.Fprintf(&buf, "%14s %14s %10s %10s %14s\n", "Value", "Reserve/mo", "Reserve %", "Tax rate", "Annual")
	fmt.Fprintln(&buf, strings.Repeat("-", 66))
	for _, p := range analysis.Points {
		marker := ""
		if p.Value.Equal(analysis.Summary.LargestStepAt) && analysis.Summary.LargestStepRate.IsPositive() {
			marker = " ◀ largest step"
		}
		fmt.Fprintf(&buf, "%14s %14s %10s %10s %14s%s\n",
			formatParamValue(param, p.Value),
			FormatCurrency(p.TotalReserve),
			FormatRate(p.TotalReservePercentage),
			FormatRate(p.WeightedTaxRate),
			FormatCurrency(p.AnnualTaxBurden),
			marker)
	}
	fmt.Fprintln(&buf)
	fmt.Fprintf(&buf, "Reserve share ranges from %s to %s of profit\n",
		FormatRate(analysis.Summary.MinPercentage), FormatRate(analysis.Summary.MaxPercentage))

	return buf.String(), nil
}

// SensitivityCSVFormatter formats a sweep as CSV
type SensitivityCSVFormatter struct{}

func (scf SensitivityCSVFormatter) Name() string { return "csv" }

func (scf SensitivityCSVFormatter) FormatSensitivityAnalysis(analysis *domain.SensitivityAnalysis) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{analysis.Parameter.Name, "total_reserve", "total_reserve_percentage", "weighted_tax_rate", "annual_tax_burden"}); err != nil {
		return "", err
	}
	for _, p := range analysis.Points {
		row := []string{
			p.Value.String(),
			p.TotalReserve.StringFixed(2),
			p.TotalReservePercentage.StringFixed(6),
			p.WeightedTaxRate.StringFixed(6),
			p.AnnualTaxBurden.StringFixed(2),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	return buf.String(), w.Error()
}

// SensitivityJSONFormatter formats a sweep as JSON
type SensitivityJSONFormatter struct{}

func (sjf SensitivityJSONFormatter) Name() string { return "json" }

func (sjf SensitivityJSONFormatter) FormatSensitivityAnalysis(analysis *domain.SensitivityAnalysis) (string, error) {
	data, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal sensitivity analysis: %w", err)
	}
	return string(data), nil
}

// NewSensitivityFormatter returns the formatter for a format name, console by default
func NewSensitivityFormatter(format string) SensitivityFormatter {
	switch format {
	case "csv":
		return SensitivityCSVFormatter{}
	case "json":
		return SensitivityJSONFormatter{}
	default:
		return SensitivityConsoleFormatter{}
	}
}

func formatParamValue(param domain.SensitivityParameter, v decimal.Decimal) string {
	if param.Unit == "fraction" {
		return FormatRate(v)
	}
	return FormatCurrency(v)
}
