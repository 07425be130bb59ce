package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rgehrsitz/gbrtax/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailableTaxTables(t *testing.T) {
	assert.Equal(t, []string{"2025", "2025-simplified"}, AvailableTaxTables())
}

func TestLoadTaxTable(t *testing.T) {
	table, err := LoadTaxTable("2025")
	require.NoError(t, err)

	assert.Equal(t, "2025", table.Name)
	assert.Equal(t, 2025, table.Year)
	require.Len(t, table.Zones, 5)
	assert.Equal(t, domain.ZoneExempt, table.Zones[0].Kind)
	assert.True(t, decimal.NewFromInt(12096).Equal(table.BasicAllowance()))
	assert.Nil(t, table.Zones[4].Max)
	assert.True(t, decimal.NewFromFloat(0.42).Equal(table.Zones[3].Rate))
	assert.True(t, decimal.NewFromInt(19950).Equal(table.Solidarity.Individual.Threshold))
	assert.True(t, decimal.NewFromInt(55034).Equal(table.Solidarity.Joint.PhaseInEnd))
	assert.True(t, decimal.NewFromFloat(0.08).Equal(table.ChurchTax.StateRates[domain.Bayern]))
	assert.True(t, decimal.NewFromFloat(0.08).Equal(table.ChurchTax.StateRates[domain.BadenWuerttemberg]))
	assert.True(t, decimal.NewFromInt(400).Equal(table.TradeTax.DefaultMultiplier))
	assert.True(t, decimal.NewFromFloat(0.55).Equal(table.RateCeiling))
}

func TestLoadTaxTable_DefaultName(t *testing.T) {
	table, err := LoadTaxTable("")
	require.NoError(t, err)
	assert.Equal(t, DefaultTaxTable, table.Name)
	assert.Equal(t, "2025-simplified", table.Name)
	assert.Len(t, table.Zones, 4, "the default is the four-zone tariff")
}

func TestLoadTaxTable_Simplified(t *testing.T) {
	table, err := LoadTaxTable("2025-simplified")
	require.NoError(t, err)
	require.Len(t, table.Zones, 4)
	assert.True(t, decimal.NewFromInt(11908).Equal(table.BasicAllowance()))
}

func TestLoadTaxTable_ReturnsCopies(t *testing.T) {
	a, err := LoadTaxTable("2025")
	require.NoError(t, err)
	a.Zones[1].A = decimal.Zero

	b, err := LoadTaxTable("2025")
	require.NoError(t, err)
	assert.False(t, b.Zones[1].A.IsZero())
}

func TestLoadTaxTable_Unknown(t *testing.T) {
	_, err := LoadTaxTable("1999")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownTaxTable))
	assert.Contains(t, err.Error(), "2025-simplified")
}

func TestLoadTaxTableFile(t *testing.T) {
	dir := t.TempDir()

	custom := `
name: custom
year: 2026
zones:
  - kind: exempt
    max: 10000
  - kind: proportional
    rate: 0.30
    deduction: 3000
solidarity:
  rate: 0.055
  phase_in_rate: 0.20
  individual: {threshold: 20000, phase_in_end: 28000}
  joint: {threshold: 40000, phase_in_end: 56000}
church_tax:
  default_rate: 0.09
  state_rates:
    BY: 0.08
trade_tax: {allowance: 24500, base_rate: 0.035, default_multiplier: 400}
rate_ceiling: 0.6
`
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(custom), 0o600))

	table, err := LoadTaxTableFile(path)
	require.NoError(t, err)
	assert.Equal(t, "custom", table.Name)
	assert.True(t, decimal.NewFromFloat(0.08).Equal(table.ChurchTax.StateRates[domain.Bayern]), "state codes should be accepted as keys")

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("name: broken\nzones:\n  - kind: exempt\n"), 0o600))
	_, err = LoadTaxTableFile(broken)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid tax table")
}
