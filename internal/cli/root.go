package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/puncta/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// The config file is loaded before any subcommand runs; flags given on the
// command line override its values. --verbose switches the logger to debug
// level first.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:   appName,
		Short: "Puncta measures the spread of particle tracks",
		Long: `Puncta computes the smallest enclosing circle of particle tracks recorded
in spreadsheets, summarizes circle areas per group of samples, and writes
Excel reports and plots next to the recordings.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				c.SetLogLevel(LogDebug)
			}
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/puncta/puncta.toml)")
	root.PersistentFlags().StringVar(&c.envFile, "env-file", "", "dotenv file with PUNCTA_* overrides (default ./.env if present)")

	root.AddCommand(c.circleCommand())
	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.statsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
