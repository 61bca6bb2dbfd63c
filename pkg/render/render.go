package render

import (
	"fmt"

	"github.com/matzehuels/puncta/pkg/sec"
	"github.com/matzehuels/puncta/pkg/tracks"
)

// Render draws the plot in the named format.
func Render(format string, t *tracks.Track, c sec.Circle, ok bool, opts Options) ([]byte, error) {
	switch NormalizeFormat(format) {
	case FormatSVG:
		return RenderSVG(t, c, ok, opts), nil
	case FormatPNG:
		return RenderPNG(t, c, ok, opts)
	case FormatJPEG:
		return RenderJPEG(t, c, ok, opts)
	case FormatPDF:
		return ToPDF(RenderSVG(t, c, ok, opts))
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
