package view

import (
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

const (
	htmxScript   = "https://unpkg.com/htmx.org@2.0.4"
	htmxWSScript = "https://unpkg.com/htmx-ext-ws@2.0.2/ws.js"
)

// CalculateTitle handles the conditional logic for the page title.
func CalculateTitle(title string) string {
	if title != "" {
		return title + " - Umbrella Customizer"
	}
	return "Umbrella Customizer"
}

// Document is the HTML shell around a page body. With a wsURL the body is
// connected to that websocket so asynchronous updates can be swapped in.
// Attributes among body, such as a class, land on the <body> element.
func Document(title, wsURL string, body ...g.Node) g.Node {
	return Doctype(
		HTML(
			Lang("en"),
			Head(
				Meta(Charset("utf-8")),
				Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
				TitleEl(g.Text(CalculateTitle(title))),
				Link(Rel("stylesheet"), Href("/static/css/app.css")),
				Script(Src(htmxScript)),
				Script(Src(htmxWSScript)),
				Script(Src("/static/js/customizer.js"), Defer()),
			),
			Body(
				g.If(wsURL != "", g.Group{g.Attr("hx-ext", "ws"), g.Attr("ws-connect", wsURL)}),
				g.Group(body),
			),
		),
	)
}
