package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/gbrtax/internal/compare"
	"github.com/rgehrsitz/gbrtax/internal/domain"
	"github.com/rgehrsitz/gbrtax/internal/tui/components"
)

// View renders the current state of the application
func (m Model) View() string {
	if m.err != nil {
		return m.renderApp(ErrorStyle.Render(
			fmt.Sprintf("Error: %s\n\nPress any key to continue...", m.err)))
	}
	if m.loading {
		return m.renderApp(BorderStyle.Render("⠋ " + m.loadingMessage))
	}

	var content string
	switch m.currentScene {
	case SceneHome:
		content = m.renderHome()
	case SceneParameters:
		content = m.parametersModel.View()
	case SceneResults:
		content = m.resultsModel.View()
	case SceneCompare:
		content = m.renderCompare()
	case SceneSensitivity:
		content = m.renderSensitivity()
	case SceneHelp:
		content = m.renderHelp()
	default:
		content = "Unknown scene"
	}

	return m.renderApp(content)
}

// renderApp wraps content with title bar and status bar
func (m Model) renderApp(content string) string {
	contentHeight := m.height - 4
	if contentHeight < 0 {
		contentHeight = 0
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTitleBar(),
		lipgloss.NewStyle().Height(contentHeight).Render(content),
		m.renderStatusBar(),
	)
}

func (m Model) renderTitleBar() string {
	title := TitleStyle.Render("GbR Tax Reserve Calculator")
	breadcrumb := m.currentScene.String()
	if m.config != nil {
		breadcrumb = fmt.Sprintf("%s / %s / table %s", breadcrumb, m.config.Strategy, m.config.TaxYear)
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, SubtitleStyle.Render(breadcrumb))
}

func (m Model) renderStatusBar() string {
	shortcuts := []string{
		formatShortcut("h", "home"),
		formatShortcut("p", "parameters"),
		formatShortcut("r", "results"),
		formatShortcut("c", "compare"),
		formatShortcut("v", "sensitivity"),
		formatShortcut("?", "help"),
		formatShortcut("q", "quit"),
	}
	statusText := strings.Join(shortcuts, " • ")
	if m.status != "" {
		statusText += "   " + m.status
	}
	return StatusBarStyle.Width(m.width).Render(statusText)
}

func formatShortcut(key, desc string) string {
	return StatusKeyStyle.Render(key) + " " + desc
}

func (m Model) renderHome() string {
	if m.config == nil {
		return BorderStyle.Render("Loading scenario...")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Scenario: %s\n", m.configPath)
	fmt.Fprintf(&b, "Partnership: %s, %s per month, %d partners\n",
		m.config.Partnership.Type, FormatCurrency(m.config.Partnership.MonthlyProfit), len(m.config.Partners))
	if m.result != nil {
		fmt.Fprintf(&b, "\nMonthly reserve (%s): %s, %s of profit\n",
			m.result.Strategy, FormatCurrency(m.result.TotalReserve), FormatRate(m.result.TotalReservePercentage))
		for _, p := range m.result.Partners {
			fmt.Fprintf(&b, "  %-16s %s\n", p.PartnerName, FormatCurrency(p.TotalReserve))
		}
	}
	return BorderStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) renderCompare() string {
	if m.comparison == nil {
		return BorderStyle.Render("No comparison yet")
	}
	return BorderStyle.Render(strings.TrimRight((&compare.TableFormatter{}).Format(m.comparison), "\n"))
}

func (m Model) renderSensitivity() string {
	a := m.sensitivity
	if a == nil {
		return BorderStyle.Render("No sensitivity analysis yet")
	}

	chart := components.NewBarChart("Reserve % by monthly profit ("+a.Strategy+")", 40)
	chart.Format = "%.2f%%"
	for i, p := range a.Points {
		chart.Add(FormatCurrency(p.Value), p.TotalReservePercentage.Mul(domain.Hundred).InexactFloat64())
		if p.Value.Equal(a.Summary.LargestStepAt) {
			chart.Highlight = i
		}
	}

	summary := fmt.Sprintf("Range %s to %s; largest jump at %s",
		FormatRate(a.Summary.MinPercentage), FormatRate(a.Summary.MaxPercentage), FormatCurrency(a.Summary.LargestStepAt))
	return BorderStyle.Render(chart.Render() + "\n\n" + InfoStyle.Render(summary))
}

func (m Model) renderHelp() string {
	helpText := `GbR Tax Reserve Calculator

KEYBOARD SHORTCUTS:
  h        Home
  p        Parameters
  r        Results
  c        Compare strategies
  v        Sensitivity of the reserve to monthly profit
  ?        Show this help
  ESC      Go back
  q/Ctrl+C Quit

PARAMETERS:
  ↑/↓      Select a value
  ←/→      Adjust it
  Tab      Next partner
  K / J    Toggle church membership / joint assessment
  Enter    Recalculate
  Ctrl+S   Save the edited scenario

RESULTS:
  ↑/↓      Select a partner
  t        Switch between individual and equitable strategy
`
	return BorderStyle.Render(helpText)
}
