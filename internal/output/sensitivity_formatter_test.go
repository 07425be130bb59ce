package output

import (
	"strings"
	"testing"

	"github.com/rgehrsitz/gbrtax/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestSweep() *domain.SensitivityAnalysis {
	return &domain.SensitivityAnalysis{
		Parameter: domain.MonthlyProfitParam,
		Strategy:  domain.StrategyEquitable,
		TaxYear:   "2025",
		BaseValue: d("5000"),
		Points: []domain.SensitivityPoint{
			{Value: d("1000"), TotalReserve: d("298.46"), TotalReservePercentage: d("0.29846"), WeightedTaxRate: d("0.28425"), AnnualTaxBurden: d("3581.55")},
			{Value: d("2000"), TotalReserve: d("643.65"), TotalReservePercentage: d("0.32183"), WeightedTaxRate: d("0.30650"), AnnualTaxBurden: d("7723.80")},
		},
		Summary: domain.SensitivitySummary{
			MinPercentage:   d("0.29846"),
			MaxPercentage:   d("0.32183"),
			LargestStepAt:   d("2000"),
			LargestStepRate: d("0.02225"),
		},
	}
}

func TestSensitivityConsoleFormatter(t *testing.T) {
	out, err := SensitivityConsoleFormatter{}.FormatSensitivityAnalysis(buildTestSweep())
	require.NoError(t, err)

	assert.Contains(t, out, "SENSITIVITY ANALYSIS: MONTHLY PROFIT")
	assert.Contains(t, out, "Base case: €5000.00")
	assert.Contains(t, out, "◀ largest step")
	assert.Contains(t, out, "29.85% to 32.18%")

	_, err = SensitivityConsoleFormatter{}.FormatSensitivityAnalysis(&domain.SensitivityAnalysis{})
	assert.Error(t, err)
}

func TestSensitivityCSVFormatter(t *testing.T) {
	out, err := SensitivityCSVFormatter{}.FormatSensitivityAnalysis(buildTestSweep())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "monthly_profit,total_reserve,total_reserve_percentage,weighted_tax_rate,annual_tax_burden", lines[0])
	assert.Equal(t, "1000,298.46,0.298460,0.284250,3581.55", lines[1])
}

func TestNewSensitivityFormatter(t *testing.T) {
	assert.Equal(t, "csv", NewSensitivityFormatter("csv").Name())
	assert.Equal(t, "json", NewSensitivityFormatter("json").Name())
	assert.Equal(t, "console", NewSensitivityFormatter("anything").Name())

	out, err := NewSensitivityFormatter("json").FormatSensitivityAnalysis(buildTestSweep())
	require.NoError(t, err)
	assert.Contains(t, out, `"largest_step_at"`)
}
