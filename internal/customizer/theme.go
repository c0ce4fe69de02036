package customizer

// Themer applies the page-wide visual theme. It is owned by the top-level view
// and invoked by the customizer whenever the color choice changes.
// Implementations must not call back into the customizer.
type Themer interface {
	ApplyTheme(class string)
}

// ThemeFunc adapts a plain function to the Themer interface.
type ThemeFunc func(class string)

// ApplyTheme implements Themer.
func (f ThemeFunc) ApplyTheme(class string) { f(class) }

// Picker is the native file-selection affordance tied to file intake.
type Picker interface {
	// Open asks the client to show the file chooser.
	Open()
	// Reset clears the selected file so the same file can be chosen again.
	Reset()
}
