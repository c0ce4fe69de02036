package app

import (
	"github.com/katariyakhushi/umbrella-customiser/internal/module"
	"github.com/katariyakhushi/umbrella-customiser/internal/modules/customizer"
)

// NewModules creates and returns the list of all active modules for the application.
// This is the single source of truth for which features are enabled.
func NewModules() []module.Module {
	return []module.Module{
		customizer.New(),
	}
}
