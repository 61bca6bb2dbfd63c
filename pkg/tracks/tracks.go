// Package tracks reads point tracks: the x/y positions of one fluorescent
// focus followed through a microscopy recording.
//
// A track file holds two numeric columns, x then y, one row per frame. The
// supported containers are Excel workbooks (first sheet) and
// delimiter-separated text. Rows keep their file order, which is the
// trajectory order used when plotting.
//
// Recordings are organised in group directories (for example "ChrI" and
// "ChrX") under a common root; see [Discover].
package tracks

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	perrors "github.com/matzehuels/puncta/pkg/errors"
	"github.com/matzehuels/puncta/pkg/sec"
)

// Track is one recording's sequence of positions.
type Track struct {
	// Name is the sample name: the file name without its extension.
	Name string `json:"name"`
	// Path is the file the track was read from, if any.
	Path string `json:"path,omitempty"`
	// Points are the positions in frame order.
	Points []sec.Point `json:"points"`
}

// Format identifies a track file container.
type Format string

// Supported track formats.
const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
	FormatText Format = "txt"
)

// FormatOf returns the format implied by a path's extension.
func FormatOf(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return FormatXLSX, true
	case ".csv":
		return FormatCSV, true
	case ".tsv":
		return FormatTSV, true
	case ".txt":
		return FormatText, true
	}
	return "", false
}

// SampleName returns the sample name for a track file path.
func SampleName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ReadFile reads the track at path, choosing the parser by extension.
func ReadFile(path string) (*Track, error) {
	format, ok := FormatOf(path)
	if !ok {
		return nil, perrors.New(perrors.ErrCodeInvalidFormat, "unsupported track file %q", filepath.Base(path))
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, perrors.Wrap(perrors.ErrCodeFileNotFound, err, "track %s", path)
		}
		return nil, fmt.Errorf("open track: %w", err)
	}
	defer f.Close()

	t, err := Read(f, format, SampleName(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	t.Path = path
	return t, nil
}

// Read parses a track in the given format from r.
func Read(r io.Reader, format Format, name string) (*Track, error) {
	var (
		rows [][]string
		err  error
	)
	switch format {
	case FormatXLSX:
		rows, err = readXLSX(r)
	case FormatCSV:
		rows, err = readDelimited(r, ',')
	case FormatTSV:
		rows, err = readDelimited(r, '\t')
	case FormatText:
		rows, err = readFields(r)
	default:
		return nil, perrors.New(perrors.ErrCodeInvalidFormat, "unsupported track format %q", format)
	}
	if err != nil {
		return nil, err
	}

	points, err := parseRows(rows)
	if err != nil {
		return nil, err
	}
	return &Track{Name: name, Points: points}, nil
}

// String describes the track for logs.
func (t *Track) String() string {
	return fmt.Sprintf("%s (%d points)", t.Name, len(t.Points))
}
