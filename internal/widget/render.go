package widget

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"
	"sync"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/draw"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Content is the text shown on the widget.
type Content struct {
	Title string
	Days  int
	Unit  string
}

const (
	// TitleMinScale is the smallest factor a title is shrunk by before it
	// is truncated.
	TitleMinScale = 0.7

	// NumberMinScale is the smallest factor the day count is shrunk by.
	NumberMinScale = 0.5

	// ShadowOffset is the text shadow offset in logical pixels.
	ShadowOffset = 1.0

	ellipsis = "…"
)

var (
	titleColour  = color.NRGBA{R: 255, G: 255, B: 255, A: 242}
	shadowColour = color.NRGBA{A: 128}
	numberColour = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	unitColour   = color.NRGBA{R: 255, G: 255, B: 255, A: 230}
)

// ErrNoBackground is returned when Render is called without a background.
var ErrNoBackground = errors.New("widget: no background image")

var (
	boldSource    = sync.OnceValues(func() (*text.FontSource, error) { return text.NewFontSource(gobold.TTF) })
	regularSource = sync.OnceValues(func() (*text.FontSource, error) { return text.NewFontSource(goregular.TTF) })
)

// line is a single positioned run of text.
type line struct {
	text string
	face text.Face
}

func (l line) width() float64 {
	return l.face.Advance(l.text)
}

func (l line) height() float64 {
	m := l.face.Metrics()
	return m.Ascent + m.Descent
}

// draw paints the line with its baseline at (x, y) over a shadow shifted
// by off.
func (l line) draw(dst draw.Image, x, y, off float64, c color.Color) {
	text.Draw(dst, l.text, l.face, x+off, y+off, shadowColour)
	text.Draw(dst, l.text, l.face, x, y, c)
}

// Render draws c over bg at cfg's size multiplied by scale. The background
// is resampled when its size differs from the widget.
func Render(bg image.Image, c Content, cfg Config, scale float64) (*image.RGBA, error) {
	if bg == nil {
		return nil, ErrNoBackground
	}
	if scale <= 0 {
		scale = 1
	}
	bold, err := boldSource()
	if err != nil {
		return nil, fmt.Errorf("failed to load bold font: %w", err)
	}
	regular, err := regularSource()
	if err != nil {
		return nil, fmt.Errorf("failed to load regular font: %w", err)
	}

	w := int(math.Round(float64(cfg.Width) * scale))
	h := int(math.Round(float64(cfg.Height) * scale))
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if bg.Bounds().Dx() == w && bg.Bounds().Dy() == h {
		draw.Draw(dst, dst.Bounds(), bg, bg.Bounds().Min, draw.Src)
	} else {
		draw.BiLinear.Scale(dst, dst.Bounds(), bg, bg.Bounds(), draw.Src, nil)
	}

	pad := cfg.Padding * scale
	avail := float64(w) - 2*pad
	off := ShadowOffset * scale

	title := fitTitle(bold, c.Title, cfg.TitleSize*scale, avail)
	if title.text != "" {
		title.draw(dst, pad, pad+title.face.Metrics().Ascent, off, titleColour)
	}

	// The number and unit share one row, centred in the area below the
	// title, with the unit centred vertically against the number.
	number := line{text: FormatNumber(c.Days), face: bold.Face(cfg.NumberSize * scale)}
	unit := line{text: c.Unit, face: regular.Face(cfg.UnitSize * scale)}
	gap, uw := 0.0, 0.0
	if unit.text != "" {
		gap, uw = cfg.Spacing*scale, unit.width()
	}
	if nw := number.width(); nw > 0 && nw+gap+uw > avail {
		f := math.Max(NumberMinScale, (avail-gap-uw)/nw)
		number.face = bold.Face(cfg.NumberSize * scale * f)
	}

	top := pad + title.face.Metrics().LineHeight()
	bottom := float64(h) - pad
	y := top + (bottom-top-number.height())/2
	x := (float64(w) - (number.width() + gap + uw)) / 2

	number.draw(dst, x, y+number.face.Metrics().Ascent, off, numberColour)
	if unit.text != "" {
		uy := y + (number.height()-unit.height())/2 + unit.face.Metrics().Ascent
		unit.draw(dst, x+number.width()+gap, uy, off, unitColour)
	}

	return dst, nil
}

// fitTitle shrinks the title down to TitleMinScale to fit on one line and
// truncates it with an ellipsis when that is not enough.
func fitTitle(src *text.FontSource, title string, size, avail float64) line {
	title = strings.TrimSpace(title)
	l := line{text: title, face: src.Face(size)}
	if title == "" {
		return l
	}
	if tw := l.width(); tw > avail {
		l.face = src.Face(size * math.Max(TitleMinScale, avail/tw))
	}
	if l.width() <= avail {
		return l
	}

	runes := []rune(title)
	for n := len(runes) - 1; n > 0; n-- {
		l.text = strings.TrimRight(string(runes[:n]), " ") + ellipsis
		if l.width() <= avail {
			return l
		}
	}
	l.text = ellipsis
	return l
}
