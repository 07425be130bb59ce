package tui

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rgehrsitz/gbrtax/internal/domain"
	"github.com/rgehrsitz/gbrtax/internal/reserve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioYAML = `tax_year: "2025"
strategy: individual
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
    state: NW
  - id: ben
    name: Ben
    base_income: 12000
    share: 50
    church_member: true
    state: NW
`

// drain runs cmd and every command that follows from it
func drain(t *testing.T, m tea.Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg := c()
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		var next tea.Cmd
		m, next = m.Update(msg)
		queue = append(queue, next)
	}
	return m.(Model)
}

func press(t *testing.T, m Model, k tea.KeyMsg) Model {
	t.Helper()
	next, cmd := m.Update(k)
	return drain(t, next, cmd)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loadedModel(t *testing.T) Model {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gbr.yaml")
	require.NoError(t, os.WriteFile(path, []byte(scenarioYAML), 0o644))

	engine, err := reserve.NewEngineForTable("2025")
	require.NoError(t, err)

	m := NewModel(path, engine)
	return drain(t, m, m.Init())
}

func TestModel_LoadAndCalculate(t *testing.T) {
	m := loadedModel(t)

	require.NoError(t, m.err)
	assert.False(t, m.loading)
	require.NotNil(t, m.result)
	assert.InDelta(t, 1824.8125, m.result.TotalReserve.InexactFloat64(), 1e-6)
	require.NotNil(t, m.comparison)
	assert.Len(t, m.comparison.Results, 2)
	require.NotNil(t, m.sensitivity)
	assert.Len(t, m.sensitivity.Points, 20)

	view := m.View()
	assert.Contains(t, view, "GbR Tax Reserve Calculator")
	assert.Contains(t, view, "€1,824.81")
}

func TestModel_Navigation(t *testing.T) {
	m := loadedModel(t)

	for _, tt := range []struct {
		key   string
		scene Scene
		text  string
	}{
		{"p", SceneParameters, "Monthly profit"},
		{"r", SceneResults, "Weighted tax rate"},
		{"c", SceneCompare, "RESERVE STRATEGY COMPARISON"},
		{"v", SceneSensitivity, "Reserve % by monthly profit"},
		{"?", SceneHelp, "KEYBOARD SHORTCUTS"},
		{"h", SceneHome, "Monthly reserve"},
	} {
		m = press(t, m, runes(tt.key))
		assert.Equal(t, tt.scene, m.currentScene, tt.key)
		assert.Contains(t, m.View(), tt.text, tt.key)
	}
}

func TestModel_EditParameters(t *testing.T) {
	m := loadedModel(t)
	m = press(t, m, runes("p"))

	// monthly profit is focused first
	m = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.True(t, m.parametersModel.Modified())
	assert.Equal(t, "5250", m.parametersModel.Config().Partnership.MonthlyProfit.String())
	// not applied until enter
	assert.Equal(t, "5000", m.result.MonthlyProfit.String())

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NoError(t, m.err)
	assert.Equal(t, "5250", m.result.MonthlyProfit.String())

	// partner sliders follow the selected partner
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, "13000", m.parametersModel.Config().Partners[1].BaseIncome.String())
	assert.Equal(t, "40000", m.parametersModel.Config().Partners[0].BaseIncome.String())

	m = press(t, m, runes("K"))
	assert.False(t, m.parametersModel.Config().Partners[1].ChurchMember)
	// the loaded scenario is untouched
	assert.True(t, m.config.Partners[1].ChurchMember)
}

func TestModel_SaveEditedScenario(t *testing.T) {
	m := loadedModel(t)
	m = press(t, m, runes("p"))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})

	require.NoError(t, m.err)
	saved := m.parametersModel.SavePath()
	assert.Contains(t, m.status, saved)
	data, err := os.ReadFile(saved)
	require.NoError(t, err)
	assert.Contains(t, string(data), "monthly_profit")
}

func TestModel_ToggleStrategy(t *testing.T) {
	m := loadedModel(t)
	m = press(t, m, runes("r"))
	m = press(t, m, runes("t"))

	require.NotNil(t, m.result)
	assert.Equal(t, domain.StrategyEquitable, m.result.Strategy)
	assert.Equal(t, domain.StrategyEquitable, m.config.Strategy)
	assert.Equal(t, domain.StrategyEquitable, m.comparison.BaseStrategy)
}

func TestModel_LoadError(t *testing.T) {
	engine, err := reserve.NewEngineForTable("2025")
	require.NoError(t, err)

	m := NewModel(filepath.Join(t.TempDir(), "missing.yaml"), engine)
	m = drain(t, m, m.Init())
	require.Error(t, m.err)
	assert.Contains(t, m.View(), "Error:")

	// any key clears the error
	m = press(t, m, runes("x"))
	assert.NoError(t, m.err)
}
