package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadColumn returns the numeric values under header in the first sheet of
// the workbook at path. Blank cells are skipped.
func ReadColumn(path, header string) ([]float64, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s: no sheets", path)
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: empty sheet", path)
	}

	col := -1
	for i, h := range rows[0] {
		if strings.TrimSpace(h) == header {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("%s: no column %q", path, header)
	}

	var out []float64
	for i, row := range rows[1:] {
		if col >= len(row) || strings.TrimSpace(row[col]) == "" {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row[col]), 64)
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: %q is not a number", path, i+2, row[col])
		}
		out = append(out, v)
	}
	return out, nil
}
