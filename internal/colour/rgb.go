// Package colour provides the colour math used to quantize images onto a
// closed bead palette: Lab conversion, background detection, k-means colour
// reduction and nearest-palette lookup.
package colour

import (
	"fmt"
	"image/color"
)

// RGB represents a colour in 8-bit RGB format.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// String returns the RGB colour as a string in the format "rgb(r, g, b)".
func (rgb RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
}

// Hex returns the RGB colour as a hex string (e.g., "#1a2b3c").
func (rgb RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B)
}

// ToRGB converts a color.Color to RGB.
func ToRGB(c color.Color) RGB {
	r, g, b, _ := c.RGBA()
	// RGBA returns values in the range [0, 65535], convert to [0, 255]
	return RGB{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
	}
}

// RGBToColor converts an RGB value to a color.Color (RGBA).
func RGBToColor(rgb RGB) color.Color {
	return color.RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255}
}

// MeanRGB returns the per-channel mean of the given colours, rounded to 8-bit
// channel depth. Returns solid white for an empty slice.
func MeanRGB(colours []RGB) RGB {
	if len(colours) == 0 {
		return RGB{R: 255, G: 255, B: 255}
	}
	var r, g, b float64
	for _, c := range colours {
		r += float64(c.R)
		g += float64(c.G)
		b += float64(c.B)
	}
	n := float64(len(colours))
	return RGB{
		R: uint8(r/n + 0.5),
		G: uint8(g/n + 0.5),
		B: uint8(b/n + 0.5),
	}
}
