package render

import (
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// palette is the categorical cycle used for hue groups.
var palette = []string{
	"1f77b4", "ff7f0e", "2ca02c", "d62728", "9467bd",
	"8c564b", "e377c2", "7f7f7f", "bcbd22", "17becf",
}

var namedColors = map[string]string{
	"red":    "d62728",
	"green":  "2ca02c",
	"blue":   "1f77b4",
	"cyan":   "17becf",
	"yellow": "f2d63a",
	"orange": "ff7f0e",
	"purple": "9467bd",
	"brown":  "8c564b",
	"pink":   "e377c2",
	"gray":   "7f7f7f",
	"grey":   "7f7f7f",
	"black":  "000000",
	"white":  "ffffff",
}

func paletteColor(i int) drawing.Color {
	return drawing.ColorFromHex(palette[i%len(palette)])
}

// namedColor resolves a color name or a 6-digit hex code; anything else falls
// back to the palette entry at i.
func namedColor(name string, i int) drawing.Color {
	n := strings.ToLower(strings.TrimSpace(name))
	if hex, ok := namedColors[n]; ok {
		return drawing.ColorFromHex(hex)
	}
	n = strings.TrimPrefix(n, "#")
	if len(n) == 6 && strings.Trim(n, "0123456789abcdef") == "" {
		return drawing.ColorFromHex(n)
	}
	return paletteColor(i)
}

// blues maps frac in [0, 1] onto a white-to-navy ramp.
func blues(frac float64) drawing.Color {
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	lerp := func(a, b uint8) uint8 { return uint8(float64(a) + (float64(b)-float64(a))*frac) }
	return drawing.Color{R: lerp(247, 8), G: lerp(251, 48), B: lerp(255, 107), A: 255}
}
