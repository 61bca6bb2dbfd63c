package render

import (
	"fmt"
	"slices"
	"strings"
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
	FormatPDF  = "pdf"
)

// Formats lists every supported output format.
var Formats = []string{FormatSVG, FormatPNG, FormatJPEG, FormatPDF}

// Plot defaults.
const (
	DefaultMargin = 0.7
	DefaultSize   = 480
)

// Options controls plot geometry.
type Options struct {
	// Margin is the minimum half-width of the view in track units.
	Margin float64 `json:"margin"`
	// Size is the width and height of the image in pixels.
	Size int `json:"size"`
	// Title is drawn above the plot when non-empty.
	Title string `json:"title,omitempty"`
}

func (o Options) withDefaults() Options {
	if o.Margin <= 0 {
		o.Margin = DefaultMargin
	}
	if o.Size <= 0 {
		o.Size = DefaultSize
	}
	return o
}

// NormalizeFormat lowercases a format name and maps "jpg" to FormatJPEG.
func NormalizeFormat(f string) string {
	f = strings.ToLower(strings.TrimSpace(f))
	if f == "jpg" {
		return FormatJPEG
	}
	return f
}

// ValidateFormats normalises formats in place and rejects unknown ones.
func ValidateFormats(formats []string) error {
	for i, f := range formats {
		formats[i] = NormalizeFormat(f)
		if !slices.Contains(Formats, formats[i]) {
			return fmt.Errorf("invalid format: %s (must be one of: %s)", f, strings.Join(Formats, ", "))
		}
	}
	return nil
}

// Extension returns the file extension for a format, including the dot.
func Extension(format string) string {
	return "." + NormalizeFormat(format)
}
