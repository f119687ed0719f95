// Package sampler extracts candidate colours from an image for the palette
// filter.
package sampler

import (
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/jmylchreest/daycount/internal/colour"
)

// ErrEmptyImage is returned when the image has no pixels.
var ErrEmptyImage = errors.New("image has no pixels")

// Sampler yields an ordered list of candidate colours from an image.
type Sampler interface {
	Sample(img image.Image) ([]colour.RGB, error)
}

// Algorithm selects how candidates are produced.
type Algorithm string

const (
	// AlgorithmPoints averages a window around nine fixed positions.
	AlgorithmPoints Algorithm = "points"

	// AlgorithmDominant uses the most frequent colours.
	AlgorithmDominant Algorithm = "dominant"

	// AlgorithmKMeans clusters pixels with k-means.
	AlgorithmKMeans Algorithm = "kmeans"

	// AlgorithmMedianCut uses median cut quantization.
	AlgorithmMedianCut Algorithm = "mediancut"
)

// DefaultAlgorithm is used when no algorithm is configured.
const DefaultAlgorithm = AlgorithmPoints

// CandidateCount is the number of candidates each sampler aims to produce.
const CandidateCount = 9

// ValidAlgorithms returns a list of valid algorithm names.
func ValidAlgorithms() []Algorithm {
	return []Algorithm{
		AlgorithmPoints,
		AlgorithmDominant,
		AlgorithmKMeans,
		AlgorithmMedianCut,
	}
}

// IsValidAlgorithm checks if the given algorithm name is valid.
func IsValidAlgorithm(alg Algorithm) bool {
	for _, valid := range ValidAlgorithms() {
		if alg == valid {
			return true
		}
	}
	return false
}

// New creates a Sampler for the specified algorithm. An empty algorithm
// selects DefaultAlgorithm.
func New(alg Algorithm) (Sampler, error) {
	switch alg {
	case AlgorithmPoints, "":
		return NewPointSampler(), nil
	case AlgorithmDominant:
		return &DominantSampler{Count: CandidateCount}, nil
	case AlgorithmKMeans:
		return &KMeansSampler{Count: CandidateCount}, nil
	case AlgorithmMedianCut:
		return &MedianCutSampler{Count: CandidateCount}, nil
	default:
		return nil, fmt.Errorf("unknown algorithm: %s (valid algorithms: %v)", alg, ValidAlgorithms())
	}
}

// Extract samples img with alg and returns the filtered palette.
func Extract(img image.Image, alg Algorithm) (colour.Palette, error) {
	s, err := New(alg)
	if err != nil {
		return nil, err
	}
	candidates, err := s.Sample(img)
	if err != nil {
		return nil, err
	}
	return colour.FilterDistinct(candidates), nil
}

// pad repeats the strongest candidate until there are at least n, so flat
// or low-colour images still give the palette filter enough input.
func pad(candidates []colour.RGB, n int) []colour.RGB {
	if len(candidates) == 0 {
		return candidates
	}
	for len(candidates) < n {
		candidates = append(candidates, candidates[0])
	}
	return candidates
}

// resample scales img onto a size x size canvas.
func resample(img image.Image, size int) (*image.RGBA, error) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, ErrEmptyImage
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst, nil
}
