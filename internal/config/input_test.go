package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rgehrsitz/gbrtax/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validScenario = `
tax_year: "2025"
strategy: equitable
partnership:
  monthly_profit: 5000
  type: freelance
  safety_margin: 0.05
partners:
  - id: anna
    name: Anna
    base_income: 40000
    share: 50
    church_member: true
    state: Nordrhein-Westfalen
  - name: Ben
    base_income: 12000
    share: 50
    church_member: true
    state: NW
`

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFromFile(t *testing.T) {
	parser := NewInputParser()

	config, err := parser.LoadFromFile(writeScenario(t, validScenario))
	require.NoError(t, err)

	assert.Equal(t, "2025", config.TaxYear)
	assert.Equal(t, domain.StrategyEquitable, config.Strategy)
	assert.True(t, decimal.NewFromInt(5000).Equal(config.Partnership.MonthlyProfit))
	assert.True(t, decimal.NewFromFloat(0.05).Equal(config.Partnership.SafetyMargin))
	require.Len(t, config.Partners, 2)

	assert.Equal(t, "anna", config.Partners[0].ID)
	assert.NotEmpty(t, config.Partners[1].ID, "missing id should be generated")
	assert.Equal(t, domain.NordrheinWestfalen, config.Partners[1].State, "state code should be canonicalised")
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := NewInputParser().LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read file")
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := NewInputParser().Parse([]byte("partners: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestApplyDefaults(t *testing.T) {
	config := &domain.Configuration{
		Partners: []domain.PartnerTaxProfile{{State: "by"}},
	}
	NewInputParser().ApplyDefaults(config)

	assert.Equal(t, DefaultTaxTable, config.TaxYear)
	assert.Equal(t, domain.StrategyIndividual, config.Strategy)
	assert.Equal(t, domain.Freelance, config.Partnership.Type)
	assert.Equal(t, domain.Bayern, config.Partners[0].State)
	assert.Len(t, config.Partners[0].ID, 36)
}

func TestValidateConfiguration(t *testing.T) {
	valid := func() *domain.Configuration {
		return &domain.Configuration{
			TaxYear:  "2025",
			Strategy: domain.StrategyIndividual,
			Partnership: domain.PartnershipProfile{
				MonthlyProfit: decimal.NewFromInt(5000),
				Type:          domain.Freelance,
				SafetyMargin:  decimal.NewFromFloat(0.05),
			},
			Partners: []domain.PartnerTaxProfile{
				{ID: "p1", BaseIncome: decimal.NewFromInt(40000), Share: decimal.NewFromInt(100), State: domain.Hessen},
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *domain.Configuration)
		wantErr string
	}{
		{"valid", func(c *domain.Configuration) {}, ""},
		{"unknown strategy", func(c *domain.Configuration) { c.Strategy = "fair" }, "unknown strategy"},
		{"no partners", func(c *domain.Configuration) { c.Partners = nil }, "at least one partner"},
		{"negative profit", func(c *domain.Configuration) { c.Partnership.MonthlyProfit = decimal.NewFromInt(-1) }, "monthly profit"},
		{"margin above one", func(c *domain.Configuration) { c.Partnership.SafetyMargin = decimal.NewFromFloat(1.5) }, "safety margin"},
		{"unknown type", func(c *domain.Configuration) { c.Partnership.Type = "corporate" }, "partnership type"},
		{"negative multiplier", func(c *domain.Configuration) {
			m := decimal.NewFromInt(-10)
			c.Partnership.MunicipalMultiplier = &m
		}, "municipal multiplier"},
		{"negative base income", func(c *domain.Configuration) { c.Partners[0].BaseIncome = decimal.NewFromInt(-5) }, "base income"},
		{"share above 100", func(c *domain.Configuration) { c.Partners[0].Share = decimal.NewFromInt(120) }, "share"},
		{"missing state", func(c *domain.Configuration) { c.Partners[0].State = "" }, "state is required"},
		{"unknown state", func(c *domain.Configuration) { c.Partners[0].State = "Bavaria" }, "unknown federal state"},
		{"duplicate id", func(c *domain.Configuration) {
			c.Partners = append(c.Partners, c.Partners[0])
		}, "duplicate partner id"},
	}

	parser := NewInputParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := valid()
			tt.mutate(config)
			err := parser.ValidateConfiguration(config)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
