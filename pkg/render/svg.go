package render

import (
	"bytes"
	"fmt"
	"html"

	"github.com/matzehuels/puncta/pkg/sec"
	"github.com/matzehuels/puncta/pkg/tracks"
)

// RenderSVG draws the track and circle as an SVG document. An empty circle
// (ok false from sec.Compute) is not drawn.
func RenderSVG(t *tracks.Track, c sec.Circle, ok bool, opts Options) []byte {
	opts = opts.withDefaults()
	f := newFrame(c, opts)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		opts.Size, opts.Size, opts.Size, opts.Size)
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="white"/>`+"\n")
	if opts.Title != "" {
		fmt.Fprintf(&buf, `  <text x="%.1f" y="%.1f" text-anchor="middle" font-family="sans-serif" font-size="%.0f">%s</text>`+"\n",
			f.size/2, f.pad*0.55, f.pad*0.3, html.EscapeString(opts.Title))
	}
	renderFrameSVG(&buf, f)
	renderTrackSVG(&buf, f, t)
	if ok {
		cx, cy := f.px(c.Center)
		fmt.Fprintf(&buf, `  <circle class="enclosing" cx="%.2f" cy="%.2f" r="%.2f" fill="none" stroke="%s" stroke-opacity="%.1f" stroke-width="1"/>`+"\n",
			cx, cy, c.Radius*f.scale(), circleColor, circleAlpha)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderFrameSVG(buf *bytes.Buffer, f frame) {
	w := f.size - 2*f.pad
	fmt.Fprintf(buf, `  <rect class="frame" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="%s"/>`+"\n",
		f.pad, f.pad, w, w, frameColor)

	minX, maxX, minY, maxY := f.bounds()
	label := `  <text x="%.1f" y="%.1f" text-anchor="%s" font-family="sans-serif" font-size="10" fill="#555">%.2f</text>` + "\n"
	fmt.Fprintf(buf, label, f.pad, f.size-f.pad+12, "start", minX)
	fmt.Fprintf(buf, label, f.size-f.pad, f.size-f.pad+12, "end", maxX)
	fmt.Fprintf(buf, label, f.pad-4, f.size-f.pad, "end", minY)
	fmt.Fprintf(buf, label, f.pad-4, f.pad+10, "end", maxY)
}

func renderTrackSVG(buf *bytes.Buffer, f frame, t *tracks.Track) {
	if t == nil || len(t.Points) == 0 {
		return
	}
	buf.WriteString(`  <polyline class="track" fill="none" stroke="` + trackColor + `" stroke-width="1" points="`)
	for i, p := range t.Points {
		x, y := f.px(p)
		if i > 0 {
			buf.WriteByte(' ')
		}
		fmt.Fprintf(buf, "%.2f,%.2f", x, y)
	}
	buf.WriteString("\"/>\n")
	for _, p := range t.Points {
		x, y := f.px(p)
		fmt.Fprintf(buf, `  <circle class="point" cx="%.2f" cy="%.2f" r="%.1f" fill="%s"/>`+"\n", x, y, markerSize, trackColor)
	}
}
