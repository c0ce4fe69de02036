package view

import (
	"fmt"
	"strconv"

	"github.com/katariyakhushi/umbrella-customiser/internal/customizer"
	"github.com/katariyakhushi/umbrella-customiser/internal/domain"
	"github.com/katariyakhushi/umbrella-customiser/internal/preview"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	. "maragu.dev/gomponents/html"
)

// FragmentID is the element id of the swappable customizer subtree.
const FragmentID = "customizer"

// PickerInputID is the element id of the hidden file input.
const PickerInputID = "logo-input"

const uploadIcon = `<svg class="upload-icon" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2">` +
	`<path d="M21 15v4a2 2 0 0 1-2 2H5a2 2 0 0 1-2-2v-4"></path>` +
	`<polyline points="17 8 12 3 7 8"></polyline>` +
	`<line x1="12" y1="3" x2="12" y2="15"></line></svg>`

var titleCaser = cases.Title(language.English)

// Page renders the full customizer page for a view. The theme class sits on
// <body>.
func Page(viewID string, s customizer.State, themeClass string) g.Node {
	return Document("Custom Umbrella", PathsFor(viewID).WebSocket,
		Class(themeClass),
		Fragment(viewID, s, themeClass),
	)
}

// Fragment renders the whole customizer UI. The root carries the page theme,
// which the client copies onto <body> after a swap, and the state version,
// which the client uses to ignore out-of-order swaps.
func Fragment(viewID string, s customizer.State, themeClass string) g.Node {
	paths := PathsFor(viewID)
	return Div(
		ID(FragmentID),
		Class("App"),
		Data("theme", themeClass),
		Data("version", strconv.FormatUint(s.Version, 10)),
		Div(
			Class("container"),
			Div(
				Class("preview-section"),
				preview.Render(s.Color, s.Logo),
			),
			Div(
				Class("customization-section"),
				H1(Class("title"), g.Text("Custom Umbrella")),
				swatches(paths, s.Color),
				Div(
					Class("customization-info"),
					H2(Class("subtitle"), g.Text("Customize your umbrella")),
					P(Class("description"), g.Text("Upload a logo for an instant preview.")),
					P(Class("file-requirements"), g.Text(".png and .jpg files only. Max file size is 5MB.")),
				),
				uploadSection(paths, s),
				g.If(s.Error != "", Div(Class("error-message show"), Role("alert"), g.Text(s.Error))),
				g.If(s.LogoControlsVisible(), logoControls(paths)),
			),
		),
	)
}

func swatches(paths Paths, active domain.Color) g.Node {
	buttons := make([]g.Node, 0, len(domain.Colors)+1)
	buttons = append(buttons, Class("color-swatches"))
	for _, c := range domain.Colors {
		class := "color-swatch"
		if c == active {
			class += " active"
		}
		buttons = append(buttons, Button(
			Type("button"),
			Class(class),
			Title(titleCaser.String(c.String())),
			Aria("label", titleCaser.String(c.String())+" umbrella"),
			Style("background-color: "+c.Swatch()),
			hx.Post(paths.Color),
			hx.Vals(fmt.Sprintf(`{"color": %q}`, c.String())),
			hx.Target("#"+FragmentID),
			hx.Swap("outerHTML"),
		))
	}
	return Div(buttons...)
}

func uploadSection(paths Paths, s customizer.State) g.Node {
	label := "UPLOAD LOGO"
	if s.Phase == customizer.PhaseDecoding {
		label = "UPLOADING..."
	}
	return Div(
		Class("upload-section"),
		Form(
			ID("upload-form"),
			hx.Post(paths.Logo),
			hx.Encoding("multipart/form-data"),
			hx.Trigger("change"),
			hx.Target("#"+FragmentID),
			hx.Swap("outerHTML"),
			Input(
				Type("file"),
				ID(PickerInputID),
				Name("logo"),
				Accept(".png,.jpg,.jpeg"),
				Style("display: none"),
				Data("generation", strconv.FormatUint(s.PickerGeneration, 10)),
			),
		),
		Button(
			Type("button"),
			Class("upload-btn"),
			Data("phase", s.Phase.String()),
			hx.Post(paths.Picker),
			hx.Swap("none"),
			g.Raw(uploadIcon),
			Span(g.Text(label)),
		),
	)
}

func logoControls(paths Paths) g.Node {
	return Div(
		Class("logo-controls show"),
		Button(
			Type("button"),
			Class("secondary-btn"),
			hx.Delete(paths.Logo),
			hx.Target("#"+FragmentID),
			hx.Swap("outerHTML"),
			g.Text("Remove Logo"),
		),
	)
}
