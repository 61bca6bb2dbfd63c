// Package report writes analysis results as Excel workbooks and JSON.
//
// Workbooks follow a dataframe layout: the first column holds the row index
// (the sample name), the first row holds the column headers. Undefined values
// such as the deviation of a single-sample group are left as empty cells.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/puncta/pkg/stats"
	"github.com/matzehuels/puncta/pkg/tracks"
)

// Column headers.
const (
	ColX       = "x (μm)"
	ColY       = "y (μm)"
	ColRadius  = "radius (μm)"
	ColArea    = "area (μm^2)"
	ColAvgArea = "avg area (μm^2)"
	ColStdDev  = "stdev"
	ColSEM     = "sem"
)

const sheet = "Sheet1"

// SampleRow is one sample's circle. Empty samples have no circle and are
// written with blank cells.
type SampleRow struct {
	Name   string
	X      float64
	Y      float64
	Radius float64
	Area   float64
	Empty  bool
}

func (r SampleRow) values() []any {
	if r.Empty {
		return []any{r.Name, nil, nil, nil, nil}
	}
	return []any{r.Name, r.X, r.Y, r.Radius, r.Area}
}

// SamplePath returns the per-sample workbook path.
func SamplePath(dir, sample string) string {
	return filepath.Join(dir, sample+tracks.SuffixCircle+".xlsx")
}

// SummaryPath returns the per-group circle summary path.
func SummaryPath(dir, group string) string {
	return filepath.Join(dir, group+tracks.SuffixSummary+".xlsx")
}

// StatsPath returns the per-group area statistics path.
func StatsPath(dir, group string) string {
	return filepath.Join(dir, group+tracks.SuffixStats+".xlsx")
}

// PlotPath returns the path of a sample plot in the given format extension.
func PlotPath(dir, sample, ext string) string {
	return filepath.Join(dir, sample+tracks.SuffixPlot+ext)
}

var circleHeader = []any{nil, ColX, ColY, ColRadius, ColArea}

// WriteSample writes `<sample> circle.xlsx` into dir and returns its path.
func WriteSample(dir string, row SampleRow) (string, error) {
	path := SamplePath(dir, row.Name)
	return path, writeRows(path, circleHeader, [][]any{row.values()})
}

// WriteGroupSummary writes `<group> circle summary.xlsx` with one row per
// sample and returns its path.
func WriteGroupSummary(dir, group string, rows []SampleRow) (string, error) {
	data := make([][]any, len(rows))
	for i, r := range rows {
		data[i] = r.values()
	}
	path := SummaryPath(dir, group)
	return path, writeRows(path, circleHeader, data)
}

// WriteGroupStats writes `<group> area stats.xlsx` and returns its path.
func WriteGroupStats(dir, group string, s stats.Summary) (string, error) {
	path := StatsPath(dir, group)
	header := []any{nil, ColAvgArea, ColStdDev, ColSEM}
	row := []any{0, cell(s.Mean), cell(s.StdDev), cell(s.SEM)}
	return path, writeRows(path, header, [][]any{row})
}

// cell maps NaN to an empty cell.
func cell(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

func writeRows(path string, header []any, rows [][]any) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, axis, &row); err != nil {
			return err
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
