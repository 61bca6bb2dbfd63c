package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/puncta/pkg/observability"
	"github.com/matzehuels/puncta/pkg/pipeline"
	"github.com/matzehuels/puncta/pkg/report"
)

type analyzeFlags struct {
	pattern   string
	groups    []string
	workers   int
	formats   string
	margin    float64
	size      int
	seed      uint64
	output    string
	noCache   bool
	refresh   bool
	noReports bool
	failFast  bool
	pick      bool
	json      bool
}

// analyzeCommand creates the analyze command.
func (c *CLI) analyzeCommand() *cobra.Command {
	var flags analyzeFlags

	cmd := &cobra.Command{
		Use:   "analyze ROOT",
		Short: "Analyze every group of samples under a directory",
		Long: `Analyze every group directory under ROOT whose name contains --pattern.

Each supported file in a group is one sample. For every sample the smallest
enclosing circle is computed and written to "<sample> circle.xlsx" with the
requested plots; each group gets "<group> circle summary.xlsx" and
"<group> area stats.xlsx". Existing outputs are overwritten.`,
		Example: `  puncta analyze data/
  puncta analyze data/ --format svg,png --workers 4
  puncta analyze data/ --pick --no-reports --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAnalyze(cmd, args[0], flags)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.pattern, "pattern", "", "substring selecting group directories (default from config)")
	f.StringSliceVar(&flags.groups, "group", nil, "analyze only these groups (repeatable)")
	f.IntVarP(&flags.workers, "workers", "w", 0, "samples analyzed in parallel (default from config)")
	f.StringVarP(&flags.formats, "format", "f", "", "plot formats: svg,png,jpeg,pdf or none (default from config)")
	f.Float64Var(&flags.margin, "margin", 0, "minimum plot half-width in track units (default from config)")
	f.IntVar(&flags.size, "size", 0, "plot edge length in pixels (default from config)")
	f.Uint64Var(&flags.seed, "seed", 0, "shuffle seed for reproducible runs (0 = random)")
	f.StringVarP(&flags.output, "output", "o", "", "write outputs under this directory instead of next to the samples")
	f.BoolVar(&flags.noCache, "no-cache", false, "disable result caching")
	f.BoolVar(&flags.refresh, "refresh", false, "recompute circles and plots even when cached")
	f.BoolVar(&flags.noReports, "no-reports", false, "skip writing Excel reports")
	f.BoolVar(&flags.failFast, "fail-fast", false, "stop at the first sample that fails")
	f.BoolVar(&flags.pick, "pick", false, "choose groups interactively")
	f.BoolVar(&flags.json, "json", false, "print the run as JSON")

	return cmd
}

// analyzeOptions applies flags given on the command line over the config.
func (c *CLI) analyzeOptions(cmd *cobra.Command, flags analyzeFlags) pipeline.Options {
	opts := c.pipelineOptions()
	changed := cmd.Flags().Changed

	if changed("pattern") {
		opts.Pattern = flags.pattern
	}
	if changed("workers") {
		opts.Workers = flags.workers
	}
	if changed("format") {
		opts.Formats = parseFormats(flags.formats)
	}
	if changed("margin") {
		opts.Margin = flags.margin
	}
	if changed("size") {
		opts.Size = flags.size
	}
	if flags.noReports {
		opts.WriteReports = false
	}
	opts.Groups = flags.groups
	opts.Seed = flags.seed
	opts.OutputDir = flags.output
	opts.Refresh = flags.refresh
	opts.FailFast = flags.failFast
	return opts
}

func (c *CLI) runAnalyze(cmd *cobra.Command, root string, flags analyzeFlags) error {
	ctx := cmd.Context()
	opts := c.analyzeOptions(cmd, flags)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	st, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close(ctx)
	runner.Store = st

	if flags.pick {
		groups, err := runner.Discover(root, opts)
		if err != nil {
			return err
		}
		names, err := pickGroups(groups)
		if err != nil {
			return err
		}
		if len(names) == 0 {
			printInfo("No groups selected")
			return nil
		}
		opts.Groups = names
	}

	spin := newSpinnerWithContext(ctx, "Discovering groups in "+root)
	rec := observability.NewRecorder()
	hooks := spinnerHooks{Recorder: rec, spin: spin}
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(rec)
	defer observability.Reset()

	finished := stopwatch(loggerFromContext(ctx), "Analysis finished")
	if !flags.json {
		spin.Start()
	}
	run, err := runner.Execute(ctx, root, opts)
	if !flags.json {
		spin.Stop()
	}
	if run == nil {
		return err
	}
	snap := rec.Snapshot()
	finished("samples", snap.Samples, "errors", snap.SampleErrors)

	if flags.json {
		if werr := report.WriteJSON(cmd.OutOrStdout(), run); werr != nil {
			return werr
		}
		return err
	}

	printRun(cmd, run)
	printRunStats(snap)
	return err
}

// printRun prints a table of group statistics followed by failures and the
// written reports.
func printRun(cmd *cobra.Command, run *pipeline.Run) {
	rows := make([][]string, 0, len(run.Groups))
	for _, g := range run.Groups {
		rows = append(rows, []string{
			g.Name,
			formatInt(len(g.Samples)),
			formatInt(g.Empty),
			formatInt(g.Failed),
			formatFloat(g.Area.Mean),
			formatFloat(g.Area.StdDev),
			formatFloat(g.Area.SEM),
		})
	}
	writeTable(cmd.OutOrStdout(),
		[]string{"Group", "Samples", "Empty", "Failed", "Mean area", "Stdev", "SEM"},
		rows, 1, 2, 3, 4, 5, 6)

	for _, g := range run.Groups {
		for _, s := range g.Samples {
			if s.Error != "" {
				printError("%s/%s: %s", g.Name, s.Name, s.Error)
			}
		}
	}

	n := 0
	for _, g := range run.Groups {
		n += len(g.Reports)
	}
	if n > 0 {
		printSuccess("Wrote %d group reports", n)
		for _, g := range run.Groups {
			for _, path := range g.Reports {
				printFile(path)
			}
		}
	}
	printDetail("Run %s", run.ID)
	if failed := countFailed(run); failed > 0 {
		printWarning("%d samples failed", failed)
	}
}

func countFailed(run *pipeline.Run) int {
	n := 0
	for _, g := range run.Groups {
		n += g.Failed
	}
	return n
}
