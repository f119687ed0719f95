package sampler

import (
	"fmt"
	"image"
	"math"
	"slices"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"github.com/jmylchreest/daycount/internal/colour"
)

// KMeansSampler clusters pixel colours and returns cluster centres ordered
// by population.
type KMeansSampler struct {
	Count int
}

// Sample implements Sampler.
func (s *KMeansSampler) Sample(img image.Image) ([]colour.RGB, error) {
	canvas, err := resample(img, workingSize)
	if err != nil {
		return nil, err
	}

	dataset := make(clusters.Observations, 0, workingSize*workingSize)
	for i := 0; i < len(canvas.Pix); i += 4 {
		if canvas.Pix[i+3] == 0 {
			continue
		}
		dataset = append(dataset, clusters.Coordinates{
			float64(canvas.Pix[i]) / 255,
			float64(canvas.Pix[i+1]) / 255,
			float64(canvas.Pix[i+2]) / 255,
		})
	}
	if len(dataset) == 0 {
		return nil, ErrEmptyImage
	}

	k := min(s.Count, len(dataset))
	cc, err := kmeans.New().Partition(dataset, k)
	if err != nil {
		return nil, fmt.Errorf("failed to partition pixels: %w", err)
	}

	slices.SortStableFunc(cc, func(a, b clusters.Cluster) int {
		return len(b.Observations) - len(a.Observations)
	})

	out := make([]colour.RGB, 0, len(cc))
	for _, c := range cc {
		if len(c.Observations) == 0 || len(c.Center) < 3 {
			continue
		}
		out = append(out, colour.RGB{
			R: unit8(c.Center[0]),
			G: unit8(c.Center[1]),
			B: unit8(c.Center[2]),
		})
	}
	return pad(out, s.Count), nil
}

// unit8 maps a [0, 1] component to 8 bits.
func unit8(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Round(v*255))))
}
