// Package cli implements the puncta command-line interface.
package cli

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/puncta/pkg/cache"
	"github.com/matzehuels/puncta/pkg/config"
	"github.com/matzehuels/puncta/pkg/pipeline"
	"github.com/matzehuels/puncta/pkg/store"
)

// appName is the application name used for directories and display.
const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
	envFile    string
}

// New creates a new CLI instance with a default logger and the built-in
// configuration. The config file is read when a command runs.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// loadConfig reads the dotenv file and the config file named by --env-file
// and --config, or their defaults.
func (c *CLI) loadConfig() error {
	if err := config.LoadEnvFile(c.envFile); err != nil {
		return err
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.openCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(ch, nil, c.Logger), nil
}

// openCache opens the configured cache. An unreachable Redis degrades to no
// caching with a warning.
func (c *CLI) openCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	cfg := c.Config.Cache
	dir, err := c.cacheDir()
	if err != nil && (cfg.Backend == "" || cfg.Backend == cache.BackendFile) {
		c.Logger.Warn("no cache directory, caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	ch, err := cache.Open(ctx, cache.Config{
		Backend: cfg.Backend,
		Dir:     dir,
		Redis: cache.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.Prefix,
		},
	})
	if errors.Is(err, cache.ErrUnavailable) {
		c.Logger.Warn("cache unavailable, continuing without it", "backend", cfg.Backend, "err", err)
		return cache.NewNullCache(), nil
	}
	return ch, err
}

// openStore opens the configured run store.
func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	cfg := c.Config.Store
	dir := cfg.Dir
	if dir == "" && cfg.Backend == store.BackendFile {
		data, err := config.DataDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(data, "runs")
	}
	return store.Open(ctx, store.Config{
		Backend:  cfg.Backend,
		Dir:      dir,
		MongoURI: cfg.MongoURI,
		Database: cfg.Database,
	})
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured file cache directory, defaulting to the
// XDG cache directory (~/.cache/puncta/).
func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return config.CacheDir()
}

// =============================================================================
// Options Helpers
// =============================================================================

// pipelineOptions returns pipeline options from the loaded configuration.
func (c *CLI) pipelineOptions() pipeline.Options {
	a, r := c.Config.Analysis, c.Config.Render
	return pipeline.Options{
		Pattern:      a.Pattern,
		Workers:      a.Workers,
		Epsilon:      a.Epsilon,
		Formats:      append([]string(nil), a.Formats...),
		WriteReports: a.WriteReports,
		Margin:       r.Margin,
		Size:         r.Size,
		Logger:       c.Logger,
	}
}

// parseFormats parses a comma-separated format string into a slice.
// "none" selects no plots.
func parseFormats(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" || s == "none" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
