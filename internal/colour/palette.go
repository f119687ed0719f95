// Package colour provides the colour model, colour space conversion and the
// palette filtering and enhancement stages of the background pipeline.
package colour

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var (
	// ErrInvalidHex is returned when a string is not a #rrggbb or #rgb colour.
	ErrInvalidHex = errors.New("invalid hex colour")

	// ErrPaletteTooShort is returned when a palette has fewer than MinPaletteSize colours.
	ErrPaletteTooShort = errors.New("palette needs at least 2 colours")
)

// MinPaletteSize is the smallest palette the gradient synthesizer accepts.
const MinPaletteSize = 2

// RGB represents a colour with 8-bit channels.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// String returns the RGB colour as a string in the format "rgb(r, g, b)".
func (rgb RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
}

// Hex returns the RGB colour as a lowercase hex string (e.g., "#1a2b3c").
func (rgb RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B)
}

// RGBA converts the colour to an opaque color.RGBA.
func (rgb RGB) RGBA() color.RGBA {
	return color.RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255}
}

// ToRGB converts a color.Color to RGB, dropping alpha.
func ToRGB(c color.Color) RGB {
	r, g, b, _ := c.RGBA()
	// RGBA returns values in the range [0, 65535], convert to [0, 255]
	return RGB{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
	}
}

// ParseHex parses "#rrggbb" or "#rgb" (either case) into an RGB colour.
func ParseHex(s string) (RGB, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") || (len(s) != 7 && len(s) != 4) {
		return RGB{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	c, err := colorful.Hex(strings.ToLower(s))
	if err != nil {
		return RGB{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	r, g, b := c.RGB255()
	return RGB{R: r, G: g, B: b}, nil
}

// MustParseHex is like ParseHex but panics on error. Intended for constants.
func MustParseHex(s string) RGB {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Palette is an ordered list of colours. Index 0 is the base colour
// used by the gradient synthesizer.
type Palette []RGB

// ParsePalette parses a list of hex strings into a Palette.
func ParsePalette(hexes []string) (Palette, error) {
	p := make(Palette, 0, len(hexes))
	for i, h := range hexes {
		c, err := ParseHex(h)
		if err != nil {
			return nil, fmt.Errorf("colour %d: %w", i, err)
		}
		p = append(p, c)
	}
	return p, nil
}

// Hex converts the palette colours to hex strings.
func (p Palette) Hex() []string {
	out := make([]string, len(p))
	for i, c := range p {
		out[i] = c.Hex()
	}
	return out
}

// Validate reports whether the palette is usable by the gradient synthesizer.
func (p Palette) Validate() error {
	if len(p) < MinPaletteSize {
		return fmt.Errorf("%w, got %d", ErrPaletteTooShort, len(p))
	}
	return nil
}

// Clone returns a copy of the palette.
func (p Palette) Clone() Palette {
	if p == nil {
		return nil
	}
	out := make(Palette, len(p))
	copy(out, p)
	return out
}

// MarshalJSON encodes the palette as an array of hex strings.
func (p Palette) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Hex())
}

// UnmarshalJSON decodes an array of hex strings.
func (p *Palette) UnmarshalJSON(data []byte) error {
	var hexes []string
	if err := json.Unmarshal(data, &hexes); err != nil {
		return fmt.Errorf("palette must be an array of hex strings: %w", err)
	}
	parsed, err := ParsePalette(hexes)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// String returns a human-readable string representation of the palette.
func (p Palette) String() string {
	if len(p) == 0 {
		return "Empty palette"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Palette with %d colours:\n", len(p))
	for i, c := range p {
		fmt.Fprintf(&sb, "  %2d: %s (%s)\n", i+1, c.Hex(), c.String())
	}
	return sb.String()
}
