package sampler

import (
	"image"

	"github.com/cenkalti/dominantcolor"

	"github.com/jmylchreest/daycount/internal/colour"
)

// DominantSampler returns the most frequent colours, most dominant first.
type DominantSampler struct {
	Count int
}

// Sample implements Sampler.
func (s *DominantSampler) Sample(img image.Image) ([]colour.RGB, error) {
	canvas, err := resample(img, workingSize)
	if err != nil {
		return nil, err
	}

	found := dominantcolor.FindWeight(canvas, s.Count)
	out := make([]colour.RGB, 0, len(found))
	for _, c := range found {
		out = append(out, colour.RGB{R: c.RGBA.R, G: c.RGBA.G, B: c.RGBA.B})
	}
	if len(out) == 0 {
		// Fully transparent input.
		out = append(out, colour.RGB{R: 128, G: 128, B: 128})
	}
	return pad(out, s.Count), nil
}

// workingSize is the canvas side used by the clustering samplers.
const workingSize = 100
