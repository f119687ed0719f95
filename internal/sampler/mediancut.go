package sampler

import (
	"image"
	"slices"

	"github.com/soniakeys/quant/median"

	"github.com/jmylchreest/daycount/internal/colour"
)

// MedianCutSampler quantizes the image with median cut and returns the
// palette entries ordered by how many pixels map to them.
type MedianCutSampler struct {
	Count int
}

// Sample implements Sampler.
func (s *MedianCutSampler) Sample(img image.Image) ([]colour.RGB, error) {
	canvas, err := resample(img, workingSize)
	if err != nil {
		return nil, err
	}

	paletted := median.Quantizer(s.Count).Paletted(canvas)
	counts := make([]int, len(paletted.Palette))
	for _, idx := range paletted.Pix {
		if int(idx) < len(counts) {
			counts[idx]++
		}
	}

	order := make([]int, len(paletted.Palette))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return counts[b] - counts[a]
	})

	out := make([]colour.RGB, 0, len(order))
	for _, i := range order {
		if counts[i] == 0 {
			continue
		}
		out = append(out, colour.ToRGB(paletted.Palette[i]))
	}
	return pad(out, s.Count), nil
}
