package output

import (
	"github.com/goccy/go-json"
	"github.com/rgehrsitz/gbrtax/internal/domain"
	"gopkg.in/yaml.v3"
)

// JSONFormatter emits the raw result as indented JSON
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(result *domain.AggregateReserveResult) ([]byte, error) {
	return json.MarshalIndent(result, "", "  ")
}

// YAMLFormatter emits the raw result as YAML
type YAMLFormatter struct{}

func (y YAMLFormatter) Name() string { return "yaml" }

func (y YAMLFormatter) Format(result *domain.AggregateReserveResult) ([]byte, error) {
	return yaml.Marshal(result)
}
