package config

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/rgehrsitz/gbrtax/internal/domain"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of scenario files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a scenario from a YAML (or JSON, which is valid YAML) file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes, completes and validates a scenario document
func (ip *InputParser) Parse(data []byte) (*domain.Configuration, error) {
	var config domain.Configuration
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	ip.ApplyDefaults(&config)

	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// ApplyDefaults fills the tax year, the strategy and missing partner ids and
// canonicalises state codes to state names. Unparseable states are left for
// validation to report.
func (ip *InputParser) ApplyDefaults(config *domain.Configuration) {
	if config.TaxYear == "" {
		config.TaxYear = DefaultTaxTable
	}
	if config.Strategy == "" {
		config.Strategy = domain.StrategyIndividual
	}
	if config.Partnership.Type == "" {
		config.Partnership.Type = domain.Freelance
	}
	for i := range config.Partners {
		p := &config.Partners[i]
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		if st, err := domain.ParseFederalState(string(p.State)); err == nil {
			p.State = st
		}
	}
}

// ValidateConfiguration validates a loaded scenario
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if !lo.Contains(domain.StrategyNames(), config.Strategy) {
		return fmt.Errorf("unknown strategy %q (expected one of %v)", config.Strategy, domain.StrategyNames())
	}
	if err := ip.validatePartnership(&config.Partnership); err != nil {
		return fmt.Errorf("partnership validation failed: %w", err)
	}
	if len(config.Partners) == 0 {
		return fmt.Errorf("at least one partner is required")
	}

	seen := make(map[string]bool, len(config.Partners))
	for i := range config.Partners {
		p := &config.Partners[i]
		if err := ip.validatePartner(p); err != nil {
			return fmt.Errorf("partner %d (%s) validation failed: %w", i, p.DisplayName(), err)
		}
		if seen[p.ID] {
			return fmt.Errorf("duplicate partner id %q", p.ID)
		}
		seen[p.ID] = true
	}

	return nil
}

func (ip *InputParser) validatePartnership(p *domain.PartnershipProfile) error {
	if p.MonthlyProfit.IsNegative() {
		return fmt.Errorf("monthly profit cannot be negative")
	}
	if p.SafetyMargin.IsNegative() || p.SafetyMargin.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("safety margin must be between 0 and 1, got %s", p.SafetyMargin)
	}
	switch p.Type {
	case domain.Freelance, domain.Commercial:
	default:
		return fmt.Errorf("unknown partnership type %q", p.Type)
	}
	if p.MunicipalMultiplier != nil && p.MunicipalMultiplier.IsNegative() {
		return fmt.Errorf("municipal multiplier cannot be negative")
	}
	return nil
}

func (ip *InputParser) validatePartner(p *domain.PartnerTaxProfile) error {
	if p.BaseIncome.IsNegative() {
		return fmt.Errorf("base income cannot be negative")
	}
	if p.Share.IsNegative() || p.Share.GreaterThan(domain.Hundred) {
		return fmt.Errorf("share must be between 0 and 100, got %s", p.Share)
	}
	if p.State == "" {
		return fmt.Errorf("state is required")
	}
	if !p.State.IsValid() {
		return fmt.Errorf("unknown federal state %q", p.State)
	}
	return nil
}
