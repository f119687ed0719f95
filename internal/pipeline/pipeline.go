// Package pipeline turns a photo or stored palette into a rendered widget,
// delegating sampling and gradient synthesis to a rendering surface.
package pipeline

import (
	"context"
	"encoding/json"
	"image"
	"math/rand/v2"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/daycount/internal/colour"
	"github.com/jmylchreest/daycount/internal/gradient"
	"github.com/jmylchreest/daycount/internal/prefs"
	"github.com/jmylchreest/daycount/internal/sampler"
	"github.com/jmylchreest/daycount/internal/surface"
	"github.com/jmylchreest/daycount/internal/widget"
)

// Pipeline coordinates palette extraction, background synthesis and
// widget rendering. It holds no state between calls.
type Pipeline struct {
	surface   surface.Surface
	poll      surface.PollOptions
	algorithm sampler.Algorithm
	scale     int
	seed      *uint64
	logger    hclog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithPollOptions sets how long surface jobs are awaited.
func WithPollOptions(opts surface.PollOptions) Option {
	return func(p *Pipeline) { p.poll = opts }
}

// WithAlgorithm selects the candidate sampler used for extraction.
func WithAlgorithm(alg sampler.Algorithm) Option {
	return func(p *Pipeline) { p.algorithm = alg }
}

// WithScale sets the pixel density of backgrounds and renders.
func WithScale(scale int) Option {
	return func(p *Pipeline) {
		if scale >= 1 {
			p.scale = scale
		}
	}
}

// WithSeed makes background synthesis deterministic.
func WithSeed(seed uint64) Option {
	return func(p *Pipeline) { p.seed = &seed }
}

// WithLogger sets the logger.
func WithLogger(logger hclog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New creates a Pipeline running its work on s.
func New(s surface.Surface, opts ...Option) *Pipeline {
	p := &Pipeline{
		surface:   s,
		poll:      surface.DefaultPollOptions(),
		algorithm: sampler.DefaultAlgorithm,
		scale:     gradient.DefaultScale,
		logger:    hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Scale returns the configured pixel density.
func (p *Pipeline) Scale() int {
	return p.scale
}

// ExtractPalette samples img on the surface and enhances the result. ok is
// false when the surface fails, times out or yields fewer than two colours.
func (p *Pipeline) ExtractPalette(ctx context.Context, img image.Image) (colour.Palette, bool) {
	prog, err := surface.ExtractProgram(img, p.algorithm)
	if err != nil {
		p.logger.Warn("failed to encode image for extraction", "error", err)
		return nil, false
	}

	result, err := surface.Run(ctx, p.surface, prog, p.poll)
	if err != nil {
		p.logger.Warn("palette extraction failed", "error", err)
		return nil, false
	}

	var palette colour.Palette
	if err := json.Unmarshal([]byte(result), &palette); err != nil {
		p.logger.Warn("invalid extraction result", "error", err)
		return nil, false
	}
	if err := palette.Validate(); err != nil {
		p.logger.Warn("extracted palette rejected", "error", err)
		return nil, false
	}

	enhanced := colour.Enhance(palette)
	p.logger.Debug("extracted palette", "colours", enhanced.Hex())
	return enhanced, true
}

// Background synthesises a width x height background for palette at the
// configured scale. When the surface fails a solid fill of the first colour
// is returned instead.
func (p *Pipeline) Background(ctx context.Context, palette colour.Palette, width, height int) image.Image {
	if len(palette) == 0 {
		palette = colour.DefaultPalettes[0]
	}

	prog := surface.GradientProgram(palette, width, height, p.scale)
	prog.Seed = p.seed

	result, err := surface.Run(ctx, p.surface, prog, p.poll)
	if err == nil {
		var img image.Image
		img, err = surface.DecodeDataURI(result)
		if err == nil {
			return img
		}
	}
	p.logger.Warn("gradient synthesis failed, using solid background", "error", err, "colour", palette[0].Hex())
	return gradient.Solid(palette[0], width, height, p.scale)
}

// ResolvePalette returns the stored palette or a random built-in one.
func (p *Pipeline) ResolvePalette(store *prefs.Store, rng *rand.Rand) colour.Palette {
	return store.ResolvePalette(rng)
}

// Request describes one widget render.
type Request struct {
	Family  widget.Family
	Content widget.Content

	// Palette is used when set. Otherwise Image is sampled, and when that
	// is unset or fails the fallback palette is used.
	Palette  colour.Palette
	Image    image.Image
	Fallback colour.Palette
}

// Render produces the widget image for req.
func (p *Pipeline) Render(ctx context.Context, req Request) (*image.RGBA, error) {
	cfg := widget.ConfigFor(req.Family)

	palette := req.Palette
	if len(palette) == 0 && req.Image != nil {
		if extracted, ok := p.ExtractPalette(ctx, req.Image); ok {
			palette = extracted
		}
	}
	if len(palette) == 0 {
		palette = req.Fallback
	}

	bg := p.Background(ctx, palette, cfg.Width, cfg.Height)
	return widget.Render(bg, req.Content, cfg, float64(p.scale))
}
