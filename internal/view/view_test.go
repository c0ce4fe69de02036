package view_test

import (
	"strings"
	"testing"

	"github.com/katariyakhushi/umbrella-customiser/internal/customizer"
	"github.com/katariyakhushi/umbrella-customiser/internal/domain"
	"github.com/katariyakhushi/umbrella-customiser/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	g "maragu.dev/gomponents"
)

func renderFragment(t *testing.T, s customizer.State) string {
	t.Helper()
	var buf strings.Builder
	require.NoError(t, view.Fragment("v1", s, s.Color.ThemeClass()).Render(&buf))
	return buf.String()
}

func TestFragment_Initial(t *testing.T) {
	html := renderFragment(t, customizer.State{Color: domain.ColorBlue, Version: 3})

	assert.Contains(t, html, `id="customizer"`)
	assert.Contains(t, html, `class="App"`)
	assert.Contains(t, html, `data-theme="theme-blue"`)
	assert.Contains(t, html, `data-version="3"`)
	assert.Contains(t, html, "Custom Umbrella")
	assert.Contains(t, html, "Customize your umbrella")
	assert.Contains(t, html, "Upload a logo for an instant preview.")
	assert.Contains(t, html, ".png and .jpg files only. Max file size is 5MB.")
	assert.Contains(t, html, `accept=".png,.jpg,.jpeg"`)
	assert.Contains(t, html, "UPLOAD LOGO")
	assert.Contains(t, html, "Logo will be added here")
	assert.Contains(t, html, `hx-post="/views/v1/color"`)
	assert.Contains(t, html, `hx-post="/views/v1/logo"`)
	assert.Contains(t, html, `hx-post="/views/v1/picker"`)
	assert.Equal(t, 2, strings.Count(html, `class="color-swatch"`))
	assert.Equal(t, 1, strings.Count(html, `class="color-swatch active"`))
	assert.NotContains(t, html, "error-message")
	assert.NotContains(t, html, "Remove Logo")
}

func TestFragment_ErrorAndLogo(t *testing.T) {
	s := customizer.State{
		Color:            domain.ColorPink,
		Logo:             &domain.Logo{DataURI: "data:image/png;base64,AAAA"},
		Error:            domain.ErrReadFailure.Error(),
		PickerGeneration: 2,
	}
	html := renderFragment(t, s)

	assert.Contains(t, html, `data-theme="theme-pink"`)
	assert.Contains(t, html, `<div class="error-message show" role="alert">Error reading file. Please try again.</div>`)
	assert.Contains(t, html, "Remove Logo")
	assert.Contains(t, html, `hx-delete="/views/v1/logo"`)
	assert.Contains(t, html, `data-generation="2"`)
	assert.Contains(t, html, "pink-umbrella.svg")
	assert.NotContains(t, html, "Logo will be added here")
}

func TestFragment_Decoding(t *testing.T) {
	html := renderFragment(t, customizer.State{Color: domain.ColorYellow, Phase: customizer.PhaseDecoding})
	assert.Contains(t, html, `data-phase="decoding"`)
	assert.Contains(t, html, "UPLOADING...")
}

func TestPage(t *testing.T) {
	var buf strings.Builder
	s := customizer.State{Color: domain.ColorBlue, Version: 1}
	require.NoError(t, view.Page("abc", s, "theme-blue").Render(&buf))

	html := buf.String()
	assert.True(t, strings.HasPrefix(strings.ToLower(html), "<!doctype html>"))
	assert.Contains(t, html, "<title>Custom Umbrella - Umbrella Customizer</title>")
	assert.Contains(t, html, `<body hx-ext="ws" ws-connect="/views/abc/ws" class="theme-blue">`)
	assert.Contains(t, html, `id="customizer"`)
	assert.True(t, strings.HasSuffix(html, "</body></html>"))
}

func TestCalculateTitle(t *testing.T) {
	assert.Equal(t, "Umbrella Customizer", view.CalculateTitle(""))
	assert.Equal(t, "Home - Umbrella Customizer", view.CalculateTitle("Home"))
}

func TestDocument_WithoutWebSocket(t *testing.T) {
	var buf strings.Builder
	require.NoError(t, view.Document("", "", g.Text("hi")).Render(&buf))

	assert.Contains(t, buf.String(), "<title>Umbrella Customizer</title>")
	assert.Contains(t, buf.String(), "<body>hi</body>")
	assert.NotContains(t, buf.String(), "ws-connect")
}

func TestDocument_EscapesAttributes(t *testing.T) {
	var buf strings.Builder
	require.NoError(t, view.Document(`<x>`, `/views/"a"/ws`).Render(&buf))

	assert.Contains(t, buf.String(), "<title>&lt;x&gt; - Umbrella Customizer</title>")
	assert.Contains(t, buf.String(), `ws-connect="/views/&#34;a&#34;/ws"`)
}
