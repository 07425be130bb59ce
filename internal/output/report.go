package output

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rgehrsitz/gbrtax/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Formatter renders a reserve result
type Formatter interface {
	Name() string
	Format(result *domain.AggregateReserveResult) ([]byte, error)
}

// FormatterFunc adapts a function to the Formatter interface
type FormatterFunc struct {
	ID string
	F  func(result *domain.AggregateReserveResult) ([]byte, error)
}

func (f FormatterFunc) Name() string { return f.ID }

func (f FormatterFunc) Format(result *domain.AggregateReserveResult) ([]byte, error) {
	return f.F(result)
}

var formatters = map[string]Formatter{
	"console": ConsoleFormatter{},
	"csv":     CSVFormatter{},
	"json":    JSONFormatter{},
	"yaml":    YAMLFormatter{},
	"html":    HTMLFormatter{},
}

var formatAliases = map[string]string{
	"text": "console",
	"yml":  "yaml",
}

// AvailableFormatterNames returns the registered formatter names, sorted
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(formatters))
	for name := range formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AvailableFormatAliases returns the accepted alternative names, sorted
func AvailableFormatAliases() []string {
	aliases := make([]string, 0, len(formatAliases))
	for alias := range formatAliases {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	return aliases
}

// GetFormatterByName returns the formatter for a name or alias, nil if unknown
func GetFormatterByName(name string) Formatter {
	key := strings.ToLower(strings.TrimSpace(name))
	if target, ok := formatAliases[key]; ok {
		key = target
	}
	return formatters[key]
}

// WriteFormatted renders result with f and writes it to a timestamped file in
// the working directory. It returns the file name.
func WriteFormatted(f Formatter, result *domain.AggregateReserveResult, ext string) (string, error) {
	data, err := f.Format(result)
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("tax_reserve_%s.%s", time.Now().Format("20060102_150405"), ext)
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return filename, nil
}

// SaveConfiguration writes a scenario back to YAML
func SaveConfiguration(config *domain.Configuration, filename string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(filename, data, 0644)
}

// FormatCurrency formats a decimal as an euro amount
func FormatCurrency(amount decimal.Decimal) string {
	return "€" + amount.StringFixed(2)
}

// FormatRate formats a fraction (0.3476) as a percentage (34.76%)
func FormatRate(rate decimal.Decimal) string {
	return rate.Mul(domain.Hundred).StringFixed(2) + "%"
}

// FormatPercentage formats a value that is already a percentage
func FormatPercentage(amount decimal.Decimal) string {
	return amount.StringFixed(2) + "%"
}
