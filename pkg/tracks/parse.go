package tracks

import (
	"bufio"
	"encoding/csv"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	perrors "github.com/matzehuels/puncta/pkg/errors"
	"github.com/matzehuels/puncta/pkg/sec"
)

// readXLSX returns the raw cell values of the workbook's first sheet.
func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidFormat, err, "read workbook")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidFormat, err, "read sheet %q", sheets[0])
	}
	return rows, nil
}

func readDelimited(r io.Reader, comma rune) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidFormat, err, "read delimited track")
	}
	return rows, nil
}

// readFields splits each line on runs of whitespace, or on commas when a
// line contains them.
func readFields(r io.Reader) ([][]string, error) {
	var rows [][]string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		if strings.Contains(line, ",") {
			rows = append(rows, strings.Split(line, ","))
			continue
		}
		rows = append(rows, strings.Fields(line))
	}
	if err := sc.Err(); err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidFormat, err, "read text track")
	}
	return rows, nil
}

// parseRows converts rows of cells to points. Blank rows are skipped, and
// so is the first non-blank row when it is not numeric (a header). Columns
// past the second are ignored.
func parseRows(rows [][]string) ([]sec.Point, error) {
	points := make([]sec.Point, 0, len(rows))
	maybeHeader := true
	for i, row := range rows {
		if blank(row) {
			continue
		}
		line := i + 1
		if maybeHeader {
			maybeHeader = false
			if !numericRow(row) {
				continue
			}
		}
		if len(row) < 2 {
			return nil, perrors.New(perrors.ErrCodeInvalidInput, "row %d: expected x and y columns", line)
		}

		x, err := parseCell(row[0], line, 1)
		if err != nil {
			return nil, err
		}
		y, err := parseCell(row[1], line, 2)
		if err != nil {
			return nil, err
		}
		points = append(points, sec.Point{X: x, Y: y})
	}
	return points, nil
}

func parseCell(s string, row, col int) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, perrors.New(perrors.ErrCodeInvalidInput, "row %d column %d: %q is not a number", row, col, s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, perrors.Wrap(perrors.ErrCodeNonFinite, sec.ErrNonFinite, "row %d column %d", row, col)
	}
	return v, nil
}

func numericRow(row []string) bool {
	if len(row) < 2 {
		return false
	}
	for _, c := range row[:2] {
		if _, err := strconv.ParseFloat(strings.TrimSpace(c), 64); err != nil {
			return false
		}
	}
	return true
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
