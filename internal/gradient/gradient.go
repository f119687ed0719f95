// Package gradient synthesises soft multi-layer gradient backgrounds from a
// palette.
package gradient

import (
	"context"
	"fmt"
	"image"
	"math/rand/v2"
	"sync"

	"github.com/jmylchreest/daycount/internal/colour"
)

// Defaults for a Synthesizer.
const (
	DefaultScale        = 3
	DefaultLinearLayers = 3
	DefaultBlobs        = 8
)

// Synthesizer renders gradient backgrounds. The zero value is not usable;
// create one with New.
type Synthesizer struct {
	// Scale multiplies the logical size to get the raster size.
	Scale int

	// LinearLayers is the number of linear gradient layers.
	LinearLayers int

	// Blobs is the number of radial blobs.
	Blobs int

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithScale sets the raster scale. Values below 1 are ignored.
func WithScale(scale int) Option {
	return func(s *Synthesizer) {
		if scale >= 1 {
			s.Scale = scale
		}
	}
}

// WithSeed makes the synthesizer deterministic.
func WithSeed(seed uint64) Option {
	return func(s *Synthesizer) {
		s.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithRand sets the random source. The synthesizer serialises access to it.
func WithRand(rng *rand.Rand) Option {
	return func(s *Synthesizer) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// New creates a Synthesizer. Without WithSeed or WithRand every render is
// different.
func New(opts ...Option) *Synthesizer {
	s := &Synthesizer{
		Scale:        DefaultScale,
		LinearLayers: DefaultLinearLayers,
		Blobs:        DefaultBlobs,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return s
}

// Size returns the raster size for a logical size.
func (s *Synthesizer) Size(width, height int) (int, int) {
	return width * s.Scale, height * s.Scale
}

// Plan returns the layers for a logical width x height background.
func (s *Synthesizer) Plan(p colour.Palette, width, height int) ([]Layer, error) {
	w, h := s.Size(width, height)
	s.mu.Lock()
	defer s.mu.Unlock()
	return Plan(p, w, h, s.LinearLayers, s.Blobs, s.rng)
}

// Synthesize renders a background for a logical width x height widget. The
// returned image is width*Scale x height*Scale. Rendering is abandoned with
// ctx's error once ctx is done.
func (s *Synthesizer) Synthesize(ctx context.Context, p colour.Palette, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid size %dx%d", width, height)
	}
	layers, err := s.Plan(p, width, height)
	if err != nil {
		return nil, err
	}

	w, h := s.Size(width, height)
	canvas := NewCanvas(w, h)
	for _, l := range layers {
		if err := canvas.Paint(ctx, l); err != nil {
			return nil, err
		}
	}
	return canvas.Image(), nil
}

// Solid renders a flat width*scale x height*scale raster of c.
func Solid(c colour.RGB, width, height, scale int) *image.RGBA {
	canvas := NewCanvas(max(0, width*scale), max(0, height*scale))
	_ = canvas.Paint(context.Background(), SolidLayer(c, 1))
	return canvas.Image()
}
