// Package surface runs rendering programs and exposes their results through
// a load-then-poll interface, either in process or in a separate plugin
// process.
package surface

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/jmylchreest/daycount/internal/colour"
	"github.com/jmylchreest/daycount/internal/sampler"

	// Decoders for program input images.
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/webp"
)

// Kind identifies what a program computes.
type Kind string

const (
	// KindExtract samples an image and returns a filtered palette as a JSON
	// array of hex strings.
	KindExtract Kind = "extract"

	// KindGradient synthesises a background and returns a PNG data URI.
	KindGradient Kind = "gradient"
)

// DataURIPrefix prefixes every gradient result.
const DataURIPrefix = "data:image/png;base64,"

// ErrInvalidProgram is returned for programs that cannot be run.
var ErrInvalidProgram = errors.New("invalid program")

// Program is the self-contained description of one unit of surface work.
type Program struct {
	Kind Kind `json:"kind"`

	// Image is the base64 encoded input image for extract programs.
	Image string `json:"image,omitempty"`

	// Algorithm selects the candidate sampler for extract programs.
	Algorithm sampler.Algorithm `json:"algorithm,omitempty"`

	// Palette, Width, Height and Scale describe a gradient program.
	Palette colour.Palette `json:"palette,omitempty"`
	Width   int            `json:"width,omitempty"`
	Height  int            `json:"height,omitempty"`
	Scale   int            `json:"scale,omitempty"`

	// Seed makes a gradient program deterministic.
	Seed *uint64 `json:"seed,omitempty"`
}

// ExtractProgram builds an extract program for img.
func ExtractProgram(img image.Image, alg sampler.Algorithm) (Program, error) {
	data, err := EncodeImage(img)
	if err != nil {
		return Program{}, err
	}
	return Program{Kind: KindExtract, Image: data, Algorithm: alg}, nil
}

// GradientProgram builds a gradient program.
func GradientProgram(p colour.Palette, width, height, scale int) Program {
	return Program{
		Kind:    KindGradient,
		Palette: p,
		Width:   width,
		Height:  height,
		Scale:   scale,
	}
}

// Validate checks that the program can be run.
func (p Program) Validate() error {
	switch p.Kind {
	case KindExtract:
		if p.Image == "" {
			return fmt.Errorf("%w: extract program has no image", ErrInvalidProgram)
		}
		if p.Algorithm != "" && !sampler.IsValidAlgorithm(p.Algorithm) {
			return fmt.Errorf("%w: unknown algorithm %q", ErrInvalidProgram, p.Algorithm)
		}
	case KindGradient:
		if err := p.Palette.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidProgram, err)
		}
		if p.Width <= 0 || p.Height <= 0 {
			return fmt.Errorf("%w: invalid size %dx%d", ErrInvalidProgram, p.Width, p.Height)
		}
		if p.Scale < 0 {
			return fmt.Errorf("%w: invalid scale %d", ErrInvalidProgram, p.Scale)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidProgram, p.Kind)
	}
	return nil
}

// Marshal encodes the program as JSON.
func (p Program) Marshal() ([]byte, error) {
	return json.Marshal(p)
}

// ParseProgram decodes and validates a JSON program.
func ParseProgram(data []byte) (Program, error) {
	var p Program
	if err := json.Unmarshal(data, &p); err != nil {
		return Program{}, fmt.Errorf("%w: %w", ErrInvalidProgram, err)
	}
	if err := p.Validate(); err != nil {
		return Program{}, err
	}
	return p, nil
}

// EncodeImage encodes img as base64 PNG.
func EncodeImage(img image.Image) (string, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodeImage decodes a base64 image in any registered format.
func DecodeImage(data string) (image.Image, error) {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 image: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// EncodeDataURI encodes img as a PNG data URI.
func EncodeDataURI(img image.Image) (string, error) {
	data, err := EncodeImage(img)
	if err != nil {
		return "", err
	}
	return DataURIPrefix + data, nil
}

// DecodeDataURI decodes a PNG data URI produced by a gradient program.
func DecodeDataURI(uri string) (image.Image, error) {
	data, ok := strings.CutPrefix(uri, DataURIPrefix)
	if !ok {
		return nil, fmt.Errorf("unexpected data URI prefix")
	}
	return DecodeImage(data)
}
