package imaging

import (
	"fmt"
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// HexColor formats 8-bit channel values as a lowercase "#rrggbb" string.
//
// Channel values may be fractional (k-means centroids are); each one is
// clamped to [0,255] and truncated toward zero before formatting, so 254.9
// becomes "fe" rather than rounding up.
func HexColor(r, g, b float64) string {
	c := colorful.Color{
		R: truncChannel(r) / 255.0,
		G: truncChannel(g) / 255.0,
		B: truncChannel(b) / 255.0,
	}
	return c.Hex()
}

// HexFromColor formats any color.Color as "#rrggbb", ignoring alpha.
func HexFromColor(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return HexColor(float64(r>>8), float64(g>>8), float64(b>>8))
}

// ParseHex parses a "#rrggbb" string into an opaque color.
func ParseHex(s string) (color.RGBA, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

func truncChannel(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return math.Floor(v)
}
