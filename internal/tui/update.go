package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/gbrtax/internal/tui/tuimsg"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.parametersModel.SetSize(msg.Width, msg.Height)
		m.resultsModel.SetSize(msg.Width, msg.Height)
		return m, nil

	case NavigateMsg:
		m.previousScene = m.currentScene
		m.currentScene = msg.Scene
		return m, nil

	case ErrorMsg:
		m.loading = false
		m.err = msg.Err
		return m, nil

	case ConfigLoadedMsg:
		m.config = msg.Config
		m.parametersModel.SetConfig(msg.Config, m.configPath)
		m.loading = true
		m.loadingMessage = "Calculating reserve..."
		return m, m.recalculateCmd()

	case tuimsg.ConfigChangedMsg:
		m.config = msg.Config
		m.loading = true
		m.loadingMessage = "Recalculating..."
		return m, m.recalculateCmd()

	case tuimsg.StrategyToggledMsg:
		if m.config == nil {
			return m, nil
		}
		cfg := *m.config
		cfg.Strategy = msg.Strategy
		m.config = &cfg
		return m, m.recalculateCmd()

	case tuimsg.SaveConfigMsg:
		return m, saveConfigCmd(msg)

	case tuimsg.SaveCompleteMsg:
		if msg.Err != nil {
			m.err = msg.Err
		} else {
			m.status = fmt.Sprintf("saved %s", msg.Filename)
		}
		return m, nil

	case CalculationCompleteMsg:
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.result = msg.Result
		m.resultsModel.SetResult(msg.Result)
		return m, nil

	case ComparisonCompleteMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.comparison = msg.Comparison
		return m, nil

	case SensitivityCompleteMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.sensitivity = msg.Analysis
		return m, nil
	}

	return m.updateCurrentScene(msg)
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// any key dismisses an error
	if m.err != nil {
		m.err = nil
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "?":
		return m, navigate(SceneHelp)

	case "esc":
		if m.currentScene != SceneHome {
			if m.previousScene != SceneHome && m.previousScene != m.currentScene {
				return m, navigate(m.previousScene)
			}
			return m, navigate(SceneHome)
		}

	case "h":
		if m.currentScene != SceneHome {
			return m, navigate(SceneHome)
		}

	case "p":
		if m.currentScene != SceneParameters {
			return m, navigate(SceneParameters)
		}

	case "r":
		if m.currentScene != SceneResults {
			return m, navigate(SceneResults)
		}

	case "c":
		if m.currentScene != SceneCompare {
			return m, navigate(SceneCompare)
		}

	case "v":
		if m.currentScene != SceneSensitivity {
			return m, navigate(SceneSensitivity)
		}
	}

	return m.updateCurrentScene(msg)
}

func navigate(s Scene) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{Scene: s}
	}
}

// updateCurrentScene delegates updates to the current scene's model
func (m Model) updateCurrentScene(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentScene {
	case SceneParameters:
		m.parametersModel, cmd = m.parametersModel.Update(msg)
	case SceneResults:
		m.resultsModel, cmd = m.resultsModel.Update(msg)
	}
	return m, cmd
}
