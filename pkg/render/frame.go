package render

import (
	"math"

	"github.com/matzehuels/puncta/pkg/sec"
)

// Colours of the plot elements.
const (
	trackColor  = "#4682b4"
	circleColor = "#191970"
	frameColor  = "#c8c8c8"
	circleAlpha = 0.8
	markerSize  = 2.0
)

// frame maps track coordinates to image pixels. The y axis points up in
// track space and down in image space.
type frame struct {
	center sec.Point
	half   float64
	size   float64
	pad    float64
}

func newFrame(c sec.Circle, opts Options) frame {
	half := math.Max(opts.Margin, c.Radius*1.05)
	size := float64(opts.Size)
	pad := math.Round(size / 12)
	if opts.Title != "" {
		pad = math.Round(size / 8)
	}
	return frame{center: c.Center, half: half, size: size, pad: pad}
}

// scale is pixels per track unit.
func (f frame) scale() float64 {
	return (f.size - 2*f.pad) / (2 * f.half)
}

// px returns the pixel position of p.
func (f frame) px(p sec.Point) (float64, float64) {
	s := f.scale()
	x := f.pad + (p.X-(f.center.X-f.half))*s
	y := f.pad + ((f.center.Y+f.half)-p.Y)*s
	return x, y
}

// bounds returns the visible track-space range.
func (f frame) bounds() (minX, maxX, minY, maxY float64) {
	return f.center.X - f.half, f.center.X + f.half, f.center.Y - f.half, f.center.Y + f.half
}
