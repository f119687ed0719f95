package gradient

import (
	"context"
	"image"
	"math"
	"runtime"
	"sync"

	"github.com/gogpu/gg"
)

// Canvas is a straight-alpha RGBA raster that layers are composited onto
// with source-over.
type Canvas struct {
	pm      *gg.Pixmap
	workers int
}

// NewCanvas creates a transparent w x h canvas.
func NewCanvas(w, h int) *Canvas {
	return &Canvas{
		pm:      gg.NewPixmap(w, h),
		workers: runtime.GOMAXPROCS(0),
	}
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int { return c.pm.Width() }

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int { return c.pm.Height() }

// Paint composites a full-canvas layer. Each pixel is sampled at its centre.
// Painting stops between rows once ctx is done and returns its error.
func (c *Canvas) Paint(ctx context.Context, l Layer) error {
	w := c.pm.Width()
	data := c.pm.Data()

	if l.Kind == KindSolid {
		src := l.solid()
		return c.rows(ctx, func(y int) {
			row := data[y*w*4 : (y+1)*w*4]
			for x := range w {
				blend(row[x*4:x*4+4], src)
			}
		})
	}

	r := newRamp(l.Stops)
	return c.rows(ctx, func(y int) {
		row := data[y*w*4 : (y+1)*w*4]
		py := float64(y) + 0.5
		for x := range w {
			blend(row[x*4:x*4+4], r.at(l.param(float64(x)+0.5, py)))
		}
	})
}

// Image returns a copy of the canvas as an *image.RGBA.
func (c *Canvas) Image() *image.RGBA {
	return c.pm.ToImage()
}

// rows runs fn for every row, spreading rows over the worker goroutines.
func (c *Canvas) rows(ctx context.Context, fn func(y int)) error {
	h := c.pm.Height()
	workers := max(1, min(c.workers, h))

	var wg sync.WaitGroup
	for w := range workers {
		wg.Add(1)
		go func(start int) {
			defer wg.Done()
			for y := start; y < h; y += workers {
				if ctx.Err() != nil {
					return
				}
				fn(y)
			}
		}(w)
	}
	wg.Wait()
	return ctx.Err()
}

// blend composites src over the pixel px.
func blend(px []uint8, src gg.RGBA) {
	if src.A <= 0 {
		return
	}
	sa := math.Min(src.A, 1)
	if sa >= 1 {
		px[0], px[1], px[2], px[3] = to8(src.R), to8(src.G), to8(src.B), 255
		return
	}

	da := float64(px[3]) / 255
	outA := sa + da*(1-sa)
	if outA <= 0 {
		return
	}
	k := da * (1 - sa) / 255
	px[0] = to8((src.R*sa + float64(px[0])*k) / outA)
	px[1] = to8((src.G*sa + float64(px[1])*k) / outA)
	px[2] = to8((src.B*sa + float64(px[2])*k) / outA)
	px[3] = to8(outA)
}

// to8 converts a [0, 1] value to a rounded 8-bit channel.
func to8(v float64) uint8 {
	v = v*255 + 0.5
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v)
}
