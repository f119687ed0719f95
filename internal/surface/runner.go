package surface

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/daycount/internal/gradient"
	"github.com/jmylchreest/daycount/internal/sampler"
)

// Runner executes programs synchronously.
type Runner struct {
	logger hclog.Logger
}

// NewRunner creates a Runner. A nil logger discards output.
func NewRunner(logger hclog.Logger) *Runner {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Runner{logger: logger}
}

// Run executes p and returns its result string.
func (r *Runner) Run(ctx context.Context, p Program) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	switch p.Kind {
	case KindExtract:
		return r.extract(p)
	case KindGradient:
		return r.gradient(ctx, p)
	default:
		return "", fmt.Errorf("%w: unknown kind %q", ErrInvalidProgram, p.Kind)
	}
}

func (r *Runner) extract(p Program) (string, error) {
	img, err := DecodeImage(p.Image)
	if err != nil {
		return "", err
	}

	palette, err := sampler.Extract(img, p.Algorithm)
	if err != nil {
		return "", fmt.Errorf("failed to extract palette: %w", err)
	}
	r.logger.Debug("extracted palette", "algorithm", p.Algorithm, "colours", palette.Hex())

	data, err := json.Marshal(palette)
	if err != nil {
		return "", fmt.Errorf("failed to encode palette: %w", err)
	}
	return string(data), nil
}

func (r *Runner) gradient(ctx context.Context, p Program) (string, error) {
	opts := []gradient.Option{gradient.WithScale(p.Scale)}
	if p.Seed != nil {
		opts = append(opts, gradient.WithSeed(*p.Seed))
	}

	img, err := gradient.New(opts...).Synthesize(ctx, p.Palette, p.Width, p.Height)
	if err != nil {
		return "", fmt.Errorf("failed to synthesize gradient: %w", err)
	}
	r.logger.Debug("synthesized gradient", "width", img.Bounds().Dx(), "height", img.Bounds().Dy())

	return EncodeDataURI(img)
}
