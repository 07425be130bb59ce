package config

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/rgehrsitz/gbrtax/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// DefaultTaxTable is used when a configuration names no tax year. It is the
// four-zone tariff the reserve figures have always been computed with; the
// statutory five-zone table is available as "2025".
const DefaultTaxTable = "2025-simplified"

// ErrUnknownTaxTable is returned for table names that are not embedded
var ErrUnknownTaxTable = errors.New("unknown tax table")

//go:embed tables/*.yaml
var tableFS embed.FS

// AvailableTaxTables lists the names of the embedded tax tables, sorted
func AvailableTaxTables() []string {
	entries, err := tableFS.ReadDir("tables")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".yaml" {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

// LoadTaxTable returns a fresh copy of an embedded table. An empty name
// selects DefaultTaxTable.
func LoadTaxTable(name string) (*domain.TaxTable, error) {
	if name == "" {
		name = DefaultTaxTable
	}
	data, err := tableFS.ReadFile("tables/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownTaxTable, name, strings.Join(AvailableTaxTables(), ", "))
	}
	return parseTaxTable(data, name)
}

// LoadTaxTableFile loads a custom table from a YAML file
func LoadTaxTableFile(filename string) (*domain.TaxTable, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return parseTaxTable(data, filename)
}

func parseTaxTable(data []byte, source string) (*domain.TaxTable, error) {
	var table domain.TaxTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse tax table %s: %w", source, err)
	}
	rates, err := normalizeStateRates(table.ChurchTax.StateRates)
	if err != nil {
		return nil, fmt.Errorf("tax table %s: %w", source, err)
	}
	table.ChurchTax.StateRates = rates
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tax table %s: %w", source, err)
	}
	return &table, nil
}

// normalizeStateRates lets table files key church rates by code or name
func normalizeStateRates(in map[domain.FederalState]decimal.Decimal) (map[domain.FederalState]decimal.Decimal, error) {
	out := make(map[domain.FederalState]decimal.Decimal, len(in))
	for key, rate := range in {
		state, err := domain.ParseFederalState(string(key))
		if err != nil {
			return nil, fmt.Errorf("church tax rates: %w", err)
		}
		if rate.IsNegative() {
			return nil, fmt.Errorf("church tax rate for %s cannot be negative", state)
		}
		out[state] = rate
	}
	return out, nil
}
