package render

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"image/png"

	"github.com/fogleman/gg"

	"github.com/matzehuels/puncta/pkg/sec"
	"github.com/matzehuels/puncta/pkg/tracks"
)

// RenderPNG rasterises the plot as PNG.
func RenderPNG(t *tracks.Track, c sec.Circle, ok bool, opts Options) ([]byte, error) {
	dc := draw(t, c, ok, opts)
	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderJPEG rasterises the plot as JPEG.
func RenderJPEG(t *tracks.Track, c sec.Circle, ok bool, opts Options) ([]byte, error) {
	dc := draw(t, c, ok, opts)
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dc.Image(), &jpeg.Options{Quality: 92}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

func draw(t *tracks.Track, c sec.Circle, ok bool, opts Options) *gg.Context {
	opts = opts.withDefaults()
	f := newFrame(c, opts)

	dc := gg.NewContext(opts.Size, opts.Size)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	if opts.Title != "" {
		dc.SetRGB(0, 0, 0)
		dc.DrawStringAnchored(opts.Title, f.size/2, f.pad*0.5, 0.5, 0.5)
	}

	w := f.size - 2*f.pad
	dc.SetHexColor(frameColor)
	dc.SetLineWidth(1)
	dc.DrawRectangle(f.pad, f.pad, w, w)
	dc.Stroke()

	minX, maxX, minY, maxY := f.bounds()
	dc.SetRGB(0.33, 0.33, 0.33)
	dc.DrawStringAnchored(fmt.Sprintf("%.2f", minX), f.pad, f.size-f.pad+10, 0, 0.5)
	dc.DrawStringAnchored(fmt.Sprintf("%.2f", maxX), f.size-f.pad, f.size-f.pad+10, 1, 0.5)
	dc.DrawStringAnchored(fmt.Sprintf("%.2f", minY), f.pad-4, f.size-f.pad, 1, 0)
	dc.DrawStringAnchored(fmt.Sprintf("%.2f", maxY), f.pad-4, f.pad, 1, 1)

	if t != nil && len(t.Points) > 0 {
		dc.SetHexColor(trackColor)
		for i, p := range t.Points {
			x, y := f.px(p)
			if i == 0 {
				dc.MoveTo(x, y)
			} else {
				dc.LineTo(x, y)
			}
		}
		dc.Stroke()
		for _, p := range t.Points {
			x, y := f.px(p)
			dc.DrawCircle(x, y, markerSize)
			dc.Fill()
		}
	}

	if ok {
		cx, cy := f.px(c.Center)
		dc.SetRGBA(0x19/255.0, 0x19/255.0, 0x70/255.0, circleAlpha)
		dc.DrawCircle(cx, cy, c.Radius*f.scale())
		dc.Stroke()
	}
	return dc
}
