package domain

import (
	"fmt"
	"strings"
)

// Color identifies one of the umbrella colors offered by the customizer.
type Color string

const (
	ColorBlue   Color = "blue"
	ColorPink   Color = "pink"
	ColorYellow Color = "yellow"
)

// DefaultColor is the color a fresh customizer starts with.
const DefaultColor = ColorBlue

// Colors lists the palette in display order.
var Colors = []Color{ColorBlue, ColorPink, ColorYellow}

var swatches = map[Color]string{
	ColorBlue:   "#3B82F6",
	ColorPink:   "#EC4899",
	ColorYellow: "#FCD34D",
}

// ParseColor converts a raw key into a Color.
func ParseColor(s string) (Color, error) {
	c := Color(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownColor, s)
	}
	return c, nil
}

// Valid reports whether c belongs to the palette.
func (c Color) Valid() bool {
	_, ok := swatches[c]
	return ok
}

// Swatch returns the hex color used to paint the swatch button.
func (c Color) Swatch() string {
	return swatches[c]
}

// ThemeClass is the page-wide style class for the color, e.g. "theme-pink".
func (c Color) ThemeClass() string {
	return "theme-" + string(c)
}

// ProductImage is the path of the umbrella illustration for the color.
func (c Color) ProductImage() string {
	return "/static/images/" + string(c) + "-umbrella.svg"
}

func (c Color) String() string {
	return string(c)
}
