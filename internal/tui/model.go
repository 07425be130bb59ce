package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/gbrtax/internal/compare"
	"github.com/rgehrsitz/gbrtax/internal/config"
	"github.com/rgehrsitz/gbrtax/internal/domain"
	"github.com/rgehrsitz/gbrtax/internal/output"
	"github.com/rgehrsitz/gbrtax/internal/reserve"
	"github.com/rgehrsitz/gbrtax/internal/sensitivity"
	"github.com/rgehrsitz/gbrtax/internal/tui/scenes"
	"github.com/rgehrsitz/gbrtax/internal/tui/tuimsg"
)

// Model represents the entire application state
type Model struct {
	// Navigation
	currentScene  Scene
	previousScene Scene

	// Terminal dimensions
	width  int
	height int

	// Configuration and data
	configPath string
	config     *domain.Configuration

	engine *reserve.Engine

	result      *domain.AggregateReserveResult
	comparison  *compare.ComparisonSet
	sensitivity *domain.SensitivityAnalysis

	parametersModel *scenes.ParametersModel
	resultsModel    *scenes.ResultsModel

	status string
	err    error

	loading        bool
	loadingMessage string
}

// NewModel creates a new application model computing with engine
func NewModel(configPath string, engine *reserve.Engine) Model {
	return Model{
		currentScene:    SceneHome,
		configPath:      configPath,
		engine:          engine,
		parametersModel: scenes.NewParametersModel(),
		resultsModel:    scenes.NewResultsModel(),
		width:           80,
		height:          24,
	}
}

// Init loads the configuration
func (m Model) Init() tea.Cmd {
	return loadConfigCmd(m.configPath)
}

// loadConfigCmd returns a command that loads the configuration file
func loadConfigCmd(path string) tea.Cmd {
	return func() tea.Msg {
		parser := config.NewInputParser()
		cfg, err := parser.LoadFromFile(path)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return ConfigLoadedMsg{Config: cfg}
	}
}

// recalculateCmd runs the reserve, the comparison and the profit sweep for
// the current scenario
func (m Model) recalculateCmd() tea.Cmd {
	cfg := m.config
	engine := m.engine
	return tea.Batch(
		func() tea.Msg {
			result, err := engine.ComputeConfiguration(cfg)
			if err != nil {
				return CalculationCompleteMsg{Err: err}
			}
			return CalculationCompleteMsg{Result: &result}
		},
		func() tea.Msg {
			cs, err := compare.NewCompareEngine(engine).Compare(context.Background(), cfg, compare.CompareOptions{
				BaseStrategy: cfg.Strategy,
			})
			return ComparisonCompleteMsg{Comparison: cs, Err: err}
		},
		func() tea.Msg {
			param := domain.MonthlyProfitParam
			analysis, err := sensitivity.NewAnalyzer(engine).Analyze(cfg, param)
			return SensitivityCompleteMsg{Analysis: analysis, Err: err}
		},
	)
}

// saveConfigCmd writes an edited scenario
func saveConfigCmd(msg tuimsg.SaveConfigMsg) tea.Cmd {
	return func() tea.Msg {
		err := output.SaveConfiguration(msg.Config, msg.Filename)
		return tuimsg.SaveCompleteMsg{Filename: msg.Filename, Err: err}
	}
}

// String returns a human-readable name for a scene
func (s Scene) String() string {
	switch s {
	case SceneHome:
		return "Home"
	case SceneParameters:
		return "Parameters"
	case SceneResults:
		return "Results"
	case SceneCompare:
		return "Compare"
	case SceneSensitivity:
		return "Sensitivity"
	case SceneHelp:
		return "Help"
	default:
		return "Unknown"
	}
}
