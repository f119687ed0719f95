package gradient

import (
	"math"
	"math/rand/v2"

	"github.com/gogpu/gg"

	"github.com/jmylchreest/daycount/internal/colour"
)

// Kind identifies how a layer is painted.
type Kind int

const (
	// KindSolid fills the canvas with a single colour.
	KindSolid Kind = iota

	// KindLinear fills the canvas with a linear gradient along an axis.
	KindLinear

	// KindRadial fills the canvas with a radial gradient around a centre.
	KindRadial
)

// String returns the name of the layer kind.
func (k Kind) String() string {
	switch k {
	case KindSolid:
		return "solid"
	case KindLinear:
		return "linear"
	case KindRadial:
		return "radial"
	default:
		return "unknown"
	}
}

// Stop is a colour stop with straight alpha.
type Stop struct {
	Offset float64
	Colour colour.RGB
	Alpha  float64
}

// Layer is one full-canvas paint operation.
type Layer struct {
	Kind  Kind
	Stops []Stop

	// Linear axis.
	X0, Y0, X1, Y1 float64

	// Radial centre and outer radius.
	CX, CY, Radius float64
}

// Layer alphas.
const (
	LinearAlpha     = 0.65
	BlobInnerAlpha  = 0.55
	BlobMidAlpha    = 0.25
	BlobMidOffset   = 0.6
	OverlayAlpha    = 0.03
	blobMinRadius   = 0.45
	blobRadiusRange = 0.5
)

// SolidLayer returns a flat fill.
func SolidLayer(c colour.RGB, alpha float64) Layer {
	return Layer{Kind: KindSolid, Stops: []Stop{{Offset: 0, Colour: c, Alpha: alpha}}}
}

// Plan builds the layers for a w x h canvas:
//
//  1. an opaque fill with p[0];
//  2. linear gradients between consecutive palette colours along random axes;
//  3. radial blobs of random palette colours;
//  4. a faint white overlay.
//
// p must hold at least colour.MinPaletteSize colours.
func Plan(p colour.Palette, w, h, linear, blobs int, rng *rand.Rand) ([]Layer, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	fw, fh := float64(w), float64(h)
	layers := make([]Layer, 0, 2+linear+blobs)
	layers = append(layers, SolidLayer(p[0], 1))

	for i := range linear {
		c1 := p[i%len(p)]
		c2 := p[(i+1)%len(p)]
		angle := rng.Float64() * 2 * math.Pi
		dx := math.Cos(angle) * fw
		dy := math.Sin(angle) * fh
		layers = append(layers, Layer{
			Kind: KindLinear,
			X0:   fw/2 - dx/2,
			Y0:   fh/2 - dy/2,
			X1:   fw/2 + dx/2,
			Y1:   fh/2 + dy/2,
			Stops: []Stop{
				{Offset: 0, Colour: c1, Alpha: LinearAlpha},
				{Offset: 1, Colour: c2, Alpha: LinearAlpha},
			},
		})
	}

	maxDim := math.Max(fw, fh)
	for range blobs {
		c := p[rng.IntN(len(p))]
		x := rng.Float64() * fw
		y := rng.Float64() * fh
		radius := (rng.Float64()*blobRadiusRange + blobMinRadius) * maxDim
		layers = append(layers, Layer{
			Kind:   KindRadial,
			CX:     x,
			CY:     y,
			Radius: radius,
			Stops: []Stop{
				{Offset: 0, Colour: c, Alpha: BlobInnerAlpha},
				{Offset: BlobMidOffset, Colour: c, Alpha: BlobMidAlpha},
				{Offset: 1, Colour: c, Alpha: 0},
			},
		})
	}

	layers = append(layers, SolidLayer(colour.RGB{R: 255, G: 255, B: 255}, OverlayAlpha))
	return layers, nil
}

// rampSize is the number of entries in a layer's colour lookup table.
const rampSize = 1024

// ramp maps a gradient parameter in [0, 1] to a straight-alpha colour.
type ramp [rampSize]gg.RGBA

func newRamp(stops []Stop) *ramp {
	r := new(ramp)
	for i := range r {
		r[i] = stopColourAt(stops, float64(i)/(rampSize-1))
	}
	return r
}

// at looks up t, padding values outside [0, 1] with the end colours.
func (r *ramp) at(t float64) gg.RGBA {
	switch {
	case t <= 0:
		return r[0]
	case t >= 1:
		return r[rampSize-1]
	}
	return r[int(t*(rampSize-1)+0.5)]
}

// stopColourAt interpolates the sorted stops at t in sRGB.
func stopColourAt(stops []Stop, t float64) gg.RGBA {
	if len(stops) == 0 {
		return gg.Transparent
	}
	if t <= stops[0].Offset {
		return stops[0].rgba()
	}
	for i := 1; i < len(stops); i++ {
		a, b := stops[i-1], stops[i]
		if t > b.Offset {
			continue
		}
		span := b.Offset - a.Offset
		if span <= 0 {
			return b.rgba()
		}
		return a.rgba().Lerp(b.rgba(), (t-a.Offset)/span)
	}
	return stops[len(stops)-1].rgba()
}

// param returns the unpadded gradient parameter at (x, y): the projection
// onto the axis for linear layers, the distance over the radius for radial
// ones.
func (l Layer) param(x, y float64) float64 {
	switch l.Kind {
	case KindLinear:
		dx, dy := l.X1-l.X0, l.Y1-l.Y0
		lenSq := dx*dx + dy*dy
		if lenSq == 0 {
			return 0
		}
		return ((x-l.X0)*dx + (y-l.Y0)*dy) / lenSq
	case KindRadial:
		if l.Radius <= 0 {
			return 1
		}
		dx, dy := x-l.CX, y-l.CY
		return math.Sqrt(dx*dx+dy*dy) / l.Radius
	default:
		return 0
	}
}

// solid returns the fill colour of a solid layer.
func (l Layer) solid() gg.RGBA {
	if len(l.Stops) == 0 {
		return gg.Transparent
	}
	return l.Stops[0].rgba()
}

func (s Stop) rgba() gg.RGBA {
	return gg.RGBA2(float64(s.Colour.R)/255, float64(s.Colour.G)/255, float64(s.Colour.B)/255, s.Alpha)
}
