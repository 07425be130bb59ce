package scenes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/gbrtax/internal/domain"
	"github.com/rgehrsitz/gbrtax/internal/tui/components"
	"github.com/rgehrsitz/gbrtax/internal/tui/tuimsg"
	"github.com/rgehrsitz/gbrtax/internal/tui/tuistyles"
)

var toggleStrategyKey = key.NewBinding(key.WithKeys("t"))

// ResultsModel shows the reserve of the current scenario with one table row
// per partner
type ResultsModel struct {
	result *domain.AggregateReserveResult
	table  table.Model
	width  int
	height int
}

// NewResultsModel creates a new results scene model
func NewResultsModel() *ResultsModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Partner", Width: 16},
			{Title: "Share", Width: 7},
			{Title: "Zone", Width: 6},
			{Title: "Rate", Width: 7},
			{Title: "Reserve", Width: 13},
			{Title: "Safety", Width: 11},
			{Title: "Total", Width: 13},
		}),
		table.WithFocused(true),
		table.WithHeight(6),
	)
	return &ResultsModel{table: t}
}

// SetResult updates the result to display
func (m *ResultsModel) SetResult(result *domain.AggregateReserveResult) {
	m.result = result
	if result == nil {
		m.table.SetRows(nil)
		return
	}
	rows := make([]table.Row, 0, len(result.Partners))
	for _, p := range result.Partners {
		rows = append(rows, table.Row{
			p.PartnerName,
			p.Share.StringFixed(1) + "%",
			fmt.Sprintf("%d→%d", p.BaseZone, p.CombinedZone),
			tuistyles.FormatRate(p.EffectiveTaxRate),
			tuistyles.FormatCurrency(p.ReserveAmount),
			tuistyles.FormatCurrency(p.SafetyAmount),
			tuistyles.FormatCurrency(p.TotalReserve),
		})
	}
	m.table.SetRows(rows)
	m.table.SetHeight(min(len(rows)+1, 10))
}

// Result returns the displayed result
func (m *ResultsModel) Result() *domain.AggregateReserveResult {
	return m.result
}

// SetSize updates the scene dimensions
func (m *ResultsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update moves the table cursor; t switches the strategy
func (m *ResultsModel) Update(msg tea.Msg) (*ResultsModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.result != nil && key.Matches(keyMsg, toggleStrategyKey) {
		next := domain.StrategyEquitable
		if m.result.Strategy == domain.StrategyEquitable {
			next = domain.StrategyIndividual
		}
		return m, func() tea.Msg { return tuimsg.StrategyToggledMsg{Strategy: next} }
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the results scene
func (m *ResultsModel) View() string {
	if m.result == nil {
		return tuistyles.BorderStyle.Render("No results yet\n\n" +
			tuistyles.SubtitleStyle.Render("Load a scenario or press enter on the parameters screen"))
	}
	r := m.result

	cards := []*components.MetricCard{
		components.NewMetricCard("Monthly reserve", tuistyles.FormatCurrency(r.TotalReserve)).
			WithDescription(tuistyles.FormatRate(r.TotalReservePercentage) + " of profit"),
		components.NewMetricCard("Weighted tax rate", tuistyles.FormatRate(r.WeightedTaxRate)).
			WithDescription("strategy " + r.Strategy),
		components.NewMetricCard("Annual tax burden", tuistyles.FormatCurrency(r.AnnualTaxBurden)),
	}
	if r.TradeTax.IsPositive() {
		cards = append(cards, components.NewMetricCard("Trade tax", tuistyles.FormatCurrency(r.TradeTax)).
			WithDescription("per year"))
	}
	columns := 4
	if m.width > 0 && m.width < 110 {
		columns = 2
	}

	sections := []string{
		tuistyles.TitleStyle.Render(fmt.Sprintf("Tax reserve (%s, table %s)", r.Strategy, r.TaxYear)),
		components.MetricGrid(cards, columns),
		m.table.View(),
	}
	if details := m.renderSelected(); details != "" {
		sections = append(sections, details)
	}
	if len(r.Diagnostics) > 0 {
		var b strings.Builder
		for _, d := range r.Diagnostics {
			b.WriteString("! " + d + "\n")
		}
		sections = append(sections, tuistyles.WarningStyle.Render(strings.TrimRight(b.String(), "\n")))
	}
	sections = append(sections, tuistyles.SubtitleStyle.Render("↑↓ partner • t switch strategy"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderSelected shows the annual tax components of the highlighted partner
func (m *ResultsModel) renderSelected() string {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.result.Partners) {
		return ""
	}
	p := m.result.Partners[i]
	return tuistyles.SubtitleStyle.Render(fmt.Sprintf(
		"%s: additional income tax %s, solidarity %s, church %s (annual, on %s)",
		p.PartnerName,
		tuistyles.FormatCurrency(p.Breakdown.IncomeTax),
		tuistyles.FormatCurrency(p.Breakdown.SolidaritySurcharge),
		tuistyles.FormatCurrency(p.Breakdown.ChurchTax),
		tuistyles.FormatCurrency(p.AnnualProfit)))
}
