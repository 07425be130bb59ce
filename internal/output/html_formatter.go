package output

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/rgehrsitz/gbrtax/internal/domain"
)

// HTMLFormatter produces a printable HTML report
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr": FormatCurrency,
	"rate": FormatRate,
	"pct":  FormatPercentage,
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(result *domain.AggregateReserveResult) ([]byte, error) {
	var buf bytes.Buffer
	data := struct {
		*domain.AggregateReserveResult
		Assumptions []string
	}{result, DefaultAssumptions}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
