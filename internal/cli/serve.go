package cli

import (
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/matzehuels/puncta/pkg/observability"
	"github.com/matzehuels/puncta/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		logFile string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Serve circle computation, summary statistics and stored runs over HTTP
until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.Config.Server
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}

			if logFile != "" {
				cfg.LogFile = logFile
			}
			if cfg.LogFile != "" {
				rotator := &lumberjack.Logger{
					Filename:   cfg.LogFile,
					MaxSize:    cfg.LogMaxSizeMB,
					MaxBackups: cfg.LogMaxBackups,
				}
				defer rotator.Close()
				c.Logger.SetOutput(io.MultiWriter(os.Stderr, rotator))
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			srv := server.New(server.Options{
				Runner:          runner,
				Store:           st,
				Logger:          c.Logger,
				MaxPoints:       cfg.MaxPoints,
				ReadTimeout:     cfg.ReadTimeout,
				WriteTimeout:    cfg.WriteTimeout,
				ShutdownTimeout: cfg.ShutdownTimeout,
			})

			printKeyValue("Address", cfg.Addr)
			printKeyValue("Cache", orDefault(c.Config.Cache.Backend, "file"))
			printKeyValue("Store", orDefault(c.Config.Store.Backend, "none"))
			printKeyValue("Max points", strconv.Itoa(cfg.MaxPoints))
			if cfg.LogFile != "" {
				printKeyValue("Log file", cfg.LogFile)
			}

			rec := observability.NewRecorder()
			observability.SetServerHooks(rec)
			observability.SetCacheHooks(rec)
			defer observability.Reset()

			err = srv.ListenAndServe(ctx, cfg.Addr)
			s := rec.Snapshot()
			c.Logger.Info("server stopped", "requests", s.Requests, "failed", s.FailedReqs,
				"cache_hits", s.CacheHits, "cache_misses", s.CacheMisses)
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&logFile, "log-file", "", "also write the log to this file, rotated by size")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable result caching")

	return cmd
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
