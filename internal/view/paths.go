package view

// Paths are the endpoints a rendered view talks to.
type Paths struct {
	Color     string
	Logo      string
	Picker    string
	WebSocket string
}

// PathsFor returns the endpoints of the view with the given id.
func PathsFor(viewID string) Paths {
	base := "/views/" + viewID
	return Paths{
		Color:     base + "/color",
		Logo:      base + "/logo",
		Picker:    base + "/picker",
		WebSocket: base + "/ws",
	}
}
