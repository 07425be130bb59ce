// Package tuimsg holds the messages scenes send back to the root model.
package tuimsg

import (
	"github.com/rgehrsitz/gbrtax/internal/domain"
)

// ConfigChangedMsg carries an edited scenario that should be recalculated
type ConfigChangedMsg struct {
	Config *domain.Configuration
}

// SaveConfigMsg asks for the edited scenario to be written to Filename
type SaveConfigMsg struct {
	Config   *domain.Configuration
	Filename string
}

// SaveCompleteMsg signals a save operation has finished
type SaveCompleteMsg struct {
	Filename string
	Err      error
}

// StrategyToggledMsg asks for the other reserve strategy
type StrategyToggledMsg struct {
	Strategy string
}
