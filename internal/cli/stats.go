package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	perrors "github.com/matzehuels/puncta/pkg/errors"
	"github.com/matzehuels/puncta/pkg/report"
	"github.com/matzehuels/puncta/pkg/stats"
	"github.com/matzehuels/puncta/pkg/tracks"
)

// statsCommand creates the stats command.
func (c *CLI) statsCommand() *cobra.Command {
	var (
		column string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "stats FILE",
		Short: "Summarize a column of numbers",
		Long: `Print the count, mean, sample standard deviation and standard error of
the mean of a list of numbers.

FILE is either a text file with one number per line or an .xlsx report, in
which case the values are read from --column.`,
		Example: `  puncta stats areas.txt
  puncta stats "ChrI circle summary.xlsx"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := readValues(args[0], column)
			if err != nil {
				return err
			}
			s := stats.Summarize(values)
			if asJSON {
				return report.WriteJSON(cmd.OutOrStdout(), s)
			}
			writeTable(cmd.OutOrStdout(),
				[]string{"n", "mean", "stdev", "sem"},
				[][]string{{formatInt(s.N), formatFloat(s.Mean), formatFloat(s.StdDev), formatFloat(s.SEM)}},
				0, 1, 2, 3)
			return nil
		},
	}

	cmd.Flags().StringVar(&column, "column", report.ColArea, "column header to read from .xlsx files")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")

	return cmd
}

// readValues reads numbers from a workbook column or a text file. Blank
// lines and lines starting with '#' are skipped.
func readValues(path, column string) ([]float64, error) {
	if f, ok := tracks.FormatOf(path); ok && f == tracks.FormatXLSX {
		values, err := report.ReadColumn(path, column)
		if err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "%v", err)
		}
		return values, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeFileNotFound, err, "open %s", path)
	}
	defer file.Close()

	var values []float64
	sc := bufio.NewScanner(file)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, perrors.New(perrors.ErrCodeInvalidInput, "%s:%d: %q is not a number", path, line, text)
		}
		values = append(values, v)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return values, nil
}

func formatInt(n int) string { return strconv.Itoa(n) }
