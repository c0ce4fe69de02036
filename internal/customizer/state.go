package customizer

import "github.com/katariyakhushi/umbrella-customiser/internal/domain"

// Phase tracks whether a logo read is in flight.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDecoding
)

func (p Phase) String() string {
	if p == PhaseDecoding {
		return "decoding"
	}
	return "idle"
}

// State is a snapshot of everything the customizer view renders.
type State struct {
	Color domain.Color
	Logo  *domain.Logo
	// Error is the current banner text, empty when no error is shown.
	Error string
	Phase Phase
	// Version increases on every change so clients can drop stale renders.
	Version uint64
	// PickerGeneration increases whenever the file input must be remounted empty.
	PickerGeneration uint64
}

// LogoControlsVisible reports whether the "Remove Logo" control is shown.
func (s State) LogoControlsVisible() bool {
	return s.Logo != nil
}
