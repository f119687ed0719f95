package colour

import (
	"math"
)

// HSL is a colour in HSL space with integer components as produced by
// RGBToHSL: hue in degrees [0, 360), saturation and lightness in percent.
type HSL struct {
	H int `json:"h"`
	S int `json:"s"`
	L int `json:"l"`
}

// round rounds half up, matching the rounding used for stored palettes.
func round(v float64) float64 {
	return math.Floor(v + 0.5)
}

// RGBToHSLFloat converts RGB to HSL without rounding.
// Returns hue (0-360), saturation (0-100), lightness (0-100).
func RGBToHSLFloat(rgb RGB) (h, s, l float64) {
	r := float64(rgb.R) / 255.0
	g := float64(rgb.G) / 255.0
	b := float64(rgb.B) / 255.0

	maxVal := math.Max(r, math.Max(g, b))
	minVal := math.Min(r, math.Min(g, b))
	delta := maxVal - minVal

	l = (maxVal + minVal) / 2.0

	// Achromatic.
	if delta == 0 {
		return 0, 0, l * 100
	}

	if l > 0.5 {
		s = delta / (2.0 - maxVal - minVal)
	} else {
		s = delta / (maxVal + minVal)
	}

	switch maxVal {
	case r:
		h = (g - b) / delta
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/delta + 2
	case b:
		h = (r-g)/delta + 4
	}

	return h * 60, s * 100, l * 100
}

// RGBToHSL converts RGB to HSL, rounding each component to the nearest
// integer. A hue that rounds up to 360 wraps to 0.
func RGBToHSL(rgb RGB) HSL {
	h, s, l := RGBToHSLFloat(rgb)
	hi := int(round(h))
	if hi >= 360 {
		hi -= 360
	}
	return HSL{H: hi, S: int(round(s)), L: int(round(l))}
}

// HSLToRGB converts HSL to RGB. h is in degrees and wraps around, s and l
// are percentages and are clamped to [0, 100].
func HSLToRGB(h, s, l float64) RGB {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	s = math.Max(0, math.Min(100, s)) / 100
	l = math.Max(0, math.Min(100, l)) / 100

	c := (1 - math.Abs(2*l-1)) * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := l - c/2

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	return RGB{
		R: channel(r + m),
		G: channel(g + m),
		B: channel(b + m),
	}
}

// channel scales a [0, 1] component to a rounded, clamped 8-bit value.
func channel(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, round(v*255))))
}

// Distance returns the Euclidean distance between two colours in RGB
// space. The maximum, between black and white, is about 441.67.
func Distance(a, b RGB) float64 {
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}
