// Package preview renders the umbrella with its logo layer.
package preview

import (
	"github.com/katariyakhushi/umbrella-customiser/internal/domain"
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

// PlaceholderText marks where the logo will go until one is uploaded.
const PlaceholderText = "Logo will be added here"

// Render layers the logo, or a placeholder, over the product image for color.
// It depends on nothing but its arguments.
func Render(color domain.Color, logo *domain.Logo) g.Node {
	return Div(
		Class("umbrella-container"),
		ID("preview"),
		Img(Src(color.ProductImage()), Alt("Umbrella"), Class("umbrella-img")),
		logoLayer(logo),
	)
}

func logoLayer(logo *domain.Logo) g.Node {
	if logo == nil {
		return Div(
			Class("logo-indicator"),
			Div(Class("indicator-line")),
			Div(Class("indicator-text"), g.Text(PlaceholderText)),
		)
	}
	return Div(
		Class("logo-preview active"),
		Img(Src(logo.DataURI), Alt("Logo"), Class("uploaded-logo")),
	)
}
