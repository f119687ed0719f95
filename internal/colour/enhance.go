package colour

import "math"

const (
	saturationGain  = 1.2
	saturationBoost = 10.0
	minLightness    = 25.0
	maxLightness    = 65.0
)

// Enhance adjusts every colour for use as a widget background: saturation
// is raised to min(100, S*1.2+10) and lightness clamped to [25, 65].
// The palette length and order are preserved; the input is not modified.
func Enhance(p Palette) Palette {
	out := make(Palette, len(p))
	for i, c := range p {
		out[i] = EnhanceColour(c)
	}
	return out
}

// EnhanceColour applies the background adjustment to a single colour.
func EnhanceColour(c RGB) RGB {
	hsl := RGBToHSL(c)
	s := math.Min(100, float64(hsl.S)*saturationGain+saturationBoost)
	l := math.Max(minLightness, math.Min(maxLightness, float64(hsl.L)))
	return HSLToRGB(float64(hsl.H), s, l)
}
