package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/puncta/pkg/pipeline"
	"github.com/matzehuels/puncta/pkg/report"
	"github.com/matzehuels/puncta/pkg/tracks"
)

type circleFlags struct {
	epsilon float64
	seed    uint64
	noCache bool
	refresh bool
	json    bool
}

// circleResult is one file's circle as printed by the circle command.
type circleResult struct {
	File   string   `json:"file"`
	Name   string   `json:"name"`
	Points int      `json:"points"`
	Empty  bool     `json:"empty,omitempty"`
	X      *float64 `json:"x,omitempty"`
	Y      *float64 `json:"y,omitempty"`
	Radius *float64 `json:"radius,omitempty"`
	Area   *float64 `json:"area,omitempty"`
	Cached bool     `json:"cached"`
}

// circleCommand creates the circle command.
func (c *CLI) circleCommand() *cobra.Command {
	var flags circleFlags

	cmd := &cobra.Command{
		Use:   "circle FILE...",
		Short: "Compute the smallest enclosing circle of track files",
		Long: `Compute the smallest circle containing every point of each track file.

Tracks are read from the first sheet of .xlsx workbooks or from .csv, .tsv
and whitespace-separated .txt files, taking x from the first and y from the
second column.`,
		Example: `  puncta circle "cell 1.xlsx"
  puncta circle --json data/ChrI/*.csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCircle(cmd, args, flags)
		},
	}

	cmd.Flags().Float64Var(&flags.epsilon, "epsilon", 0, "relative containment tolerance (default from config)")
	cmd.Flags().Uint64Var(&flags.seed, "seed", 0, "shuffle seed for reproducible runs (0 = random)")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable result caching")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "recompute even when cached")
	cmd.Flags().BoolVar(&flags.json, "json", false, "print results as JSON")

	return cmd
}

func (c *CLI) runCircle(cmd *cobra.Command, files []string, flags circleFlags) error {
	ctx := cmd.Context()
	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	opts := c.pipelineOptions()
	opts.Formats = nil
	opts.Seed = flags.seed
	opts.Refresh = flags.refresh
	if cmd.Flags().Changed("epsilon") {
		opts.Epsilon = flags.epsilon
	}

	results := make([]circleResult, 0, len(files))
	for _, path := range files {
		res, err := c.circleFile(cmd, runner, path, opts)
		if err != nil {
			return err
		}
		results = append(results, res)
	}

	if flags.json {
		return report.WriteJSON(cmd.OutOrStdout(), results)
	}

	rows := make([][]string, len(results))
	for i, r := range results {
		row := []string{r.Name, formatInt(r.Points), iconNone, iconNone, iconNone, iconNone, cacheLabel(r.Cached)}
		if !r.Empty {
			row[2], row[3] = formatFloat(*r.X), formatFloat(*r.Y)
			row[4], row[5] = formatFloat(*r.Radius), formatFloat(*r.Area)
		}
		rows[i] = row
	}
	writeTable(cmd.OutOrStdout(), []string{"Sample", "Points", "x", "y", "Radius", "Area", ""}, rows, 1, 2, 3, 4, 5)
	return nil
}

func (c *CLI) circleFile(cmd *cobra.Command, runner *pipeline.Runner, path string, opts pipeline.Options) (circleResult, error) {
	t, err := tracks.ReadFile(path)
	if err != nil {
		return circleResult{}, err
	}
	circle, ok, hit, err := runner.Circle(cmd.Context(), t, opts)
	if err != nil {
		return circleResult{}, err
	}
	res := circleResult{File: path, Name: t.Name, Points: len(t.Points), Cached: hit}
	if !ok {
		res.Empty = true
		c.Logger.Warn("empty track", "file", path)
		return res, nil
	}
	area := circle.Area()
	res.X, res.Y = &circle.Center.X, &circle.Center.Y
	res.Radius, res.Area = &circle.Radius, &area
	c.Logger.Debug("circle", "file", path, "points", len(t.Points), "radius", circle.Radius, "cached", hit)
	return res, nil
}
