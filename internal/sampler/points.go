package sampler

import (
	"image"

	"github.com/jmylchreest/daycount/internal/colour"
)

// Point is a sampling position as a fraction of the canvas size.
type Point struct {
	X, Y float64
}

// DefaultPoints are the nine positions sampled by PointSampler, in the
// order their colours are returned.
var DefaultPoints = []Point{
	{0.1, 0.1},
	{0.9, 0.1},
	{0.5, 0.5},
	{0.1, 0.9},
	{0.9, 0.9},
	{0.3, 0.5},
	{0.7, 0.5},
	{0.5, 0.3},
	{0.5, 0.7},
}

// PointSampler scales the image to a square canvas and averages a square
// window of pixels around each point.
type PointSampler struct {
	// CanvasSize is the side of the square canvas. Default: 100.
	CanvasSize int

	// Radius is the half-width of the averaging window. Default: 2 (5x5).
	Radius int

	// Points are the sampling positions. Default: DefaultPoints.
	Points []Point
}

// NewPointSampler creates a point sampler with default settings.
func NewPointSampler() *PointSampler {
	return &PointSampler{
		CanvasSize: 100,
		Radius:     2,
		Points:     DefaultPoints,
	}
}

// Sample returns one averaged colour per point.
func (s *PointSampler) Sample(img image.Image) ([]colour.RGB, error) {
	canvas, err := resample(img, s.CanvasSize)
	if err != nil {
		return nil, err
	}

	out := make([]colour.RGB, 0, len(s.Points))
	for _, p := range s.Points {
		x := int(p.X * float64(s.CanvasSize))
		y := int(p.Y * float64(s.CanvasSize))
		out = append(out, s.average(canvas, x, y))
	}
	return out, nil
}

// average returns the mean colour of the window centred on (cx, cy).
// Coordinates outside the canvas are clamped to the edge, so every window
// contributes the same number of samples.
func (s *PointSampler) average(canvas *image.RGBA, cx, cy int) colour.RGB {
	var r, g, b, n int
	for dy := -s.Radius; dy <= s.Radius; dy++ {
		for dx := -s.Radius; dx <= s.Radius; dx++ {
			x := clamp(cx+dx, 0, s.CanvasSize-1)
			y := clamp(cy+dy, 0, s.CanvasSize-1)
			i := canvas.PixOffset(x, y)
			r += int(canvas.Pix[i])
			g += int(canvas.Pix[i+1])
			b += int(canvas.Pix[i+2])
			n++
		}
	}
	return colour.RGB{
		R: roundDiv(r, n),
		G: roundDiv(g, n),
		B: roundDiv(b, n),
	}
}

// roundDiv returns sum/n rounded half up.
func roundDiv(sum, n int) uint8 {
	return uint8((2*sum + n) / (2 * n))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
