package models

import "fmt"

// Color is the suit of a card. Wild kinds carry ColorNone until a player chooses.
type Color string

const (
	ColorRed    Color = "red"
	ColorGreen  Color = "green"
	ColorBlue   Color = "blue"
	ColorYellow Color = "yellow"
	ColorNone   Color = "none"
)

// Colors lists the four playable colors in deck-building order.
var Colors = []Color{ColorRed, ColorGreen, ColorBlue, ColorYellow}

// ParseColor converts the wire form of a color, rejecting unknown values.
func ParseColor(s string) (Color, error) {
	switch c := Color(s); c {
	case ColorRed, ColorGreen, ColorBlue, ColorYellow, ColorNone:
		return c, nil
	}
	return ColorNone, fmt.Errorf("%w: %q", ErrInvalidColor, s)
}

// Playable reports whether the color can be chosen after a wild card.
func (c Color) Playable() bool {
	switch c {
	case ColorRed, ColorGreen, ColorBlue, ColorYellow:
		return true
	}
	return false
}

func (c Color) String() string {
	return string(c)
}
