package tui

import (
	"github.com/rgehrsitz/gbrtax/internal/compare"
	"github.com/rgehrsitz/gbrtax/internal/domain"
)

// Scene represents different screens in the TUI
type Scene int

const (
	SceneHome Scene = iota
	SceneParameters
	SceneResults
	SceneCompare
	SceneSensitivity
	SceneHelp
)

// NavigateMsg switches to a different scene
type NavigateMsg struct {
	Scene Scene
}

// ErrorMsg displays an error to the user
type ErrorMsg struct {
	Err error
}

// ConfigLoadedMsg signals configuration has been loaded
type ConfigLoadedMsg struct {
	Config *domain.Configuration
}

// CalculationCompleteMsg carries a reserve result
type CalculationCompleteMsg struct {
	Result *domain.AggregateReserveResult
	Err    error
}

// ComparisonCompleteMsg carries the result of running every strategy
type ComparisonCompleteMsg struct {
	Comparison *compare.ComparisonSet
	Err        error
}

// SensitivityCompleteMsg carries a monthly profit sweep
type SensitivityCompleteMsg struct {
	Analysis *domain.SensitivityAnalysis
	Err      error
}
