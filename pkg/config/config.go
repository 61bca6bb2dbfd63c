// Package config loads puncta's TOML configuration file.
//
// The file is optional. Values it sets replace the built-in defaults, and
// command-line flags in turn override the file. Unknown keys are rejected so
// that typos do not silently fall back to defaults.
//
//	[analysis]
//	pattern = "Chr"
//	workers = 8
//	formats = ["svg", "jpeg"]
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	perrors "github.com/matzehuels/puncta/pkg/errors"
)

// AppName names the config and cache directories.
const AppName = "puncta"

// FileName is the config file name inside the config directory.
const FileName = "puncta.toml"

// Config is the full configuration.
type Config struct {
	Analysis Analysis `toml:"analysis"`
	Render   Render   `toml:"render"`
	Cache    Cache    `toml:"cache"`
	Store    Store    `toml:"store"`
	Server   Server   `toml:"server"`
}

// Analysis configures the batch pipeline.
type Analysis struct {
	Pattern      string   `toml:"pattern"`
	Workers      int      `toml:"workers"`
	Epsilon      float64  `toml:"epsilon"`
	Formats      []string `toml:"formats"`
	WriteReports bool     `toml:"write_reports"`
}

// Render configures plots.
type Render struct {
	Margin float64 `toml:"margin"`
	Size   int     `toml:"size"`
}

// Cache selects the result cache backend: "file", "redis" or "none".
type Cache struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	Prefix        string `toml:"prefix"`
}

// Store selects where runs are persisted: "file", "mongo" or "none".
type Store struct {
	Backend  string `toml:"backend"`
	Dir      string `toml:"dir"`
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

// Server configures the HTTP API.
type Server struct {
	Addr            string        `toml:"addr"`
	ReadTimeout     time.Duration `toml:"read_timeout"`
	WriteTimeout    time.Duration `toml:"write_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
	MaxPoints       int           `toml:"max_points"`

	// LogFile, when set, receives a copy of the server log, rotated at
	// LogMaxSizeMB and keeping LogMaxBackups old files.
	LogFile       string `toml:"log_file"`
	LogMaxSizeMB  int    `toml:"log_max_size_mb"`
	LogMaxBackups int    `toml:"log_max_backups"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Analysis: Analysis{
			Pattern:      "Chr",
			Workers:      runtime.NumCPU(),
			Epsilon:      1e-14,
			Formats:      []string{"jpeg"},
			WriteReports: true,
		},
		Render: Render{Margin: 0.7, Size: 480},
		Cache:  Cache{Backend: "file"},
		Store:  Store{Backend: "none", Database: AppName},
		Server: Server{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxPoints:       1_000_000,
			LogMaxSizeMB:    100,
			LogMaxBackups:   3,
		},
	}
}

// Load reads the config at path over the defaults, then applies PUNCTA_*
// environment overrides. An empty path reads DefaultPath and tolerates its
// absence; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg, err := loadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadFile(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, perrors.Wrap(perrors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return cfg, perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, perrors.New(perrors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// Validate checks value ranges and backend names.
func (c Config) Validate() error {
	switch {
	case c.Analysis.Workers < 0:
		return perrors.New(perrors.ErrCodeInvalidConfig, "analysis.workers must be >= 0")
	case c.Analysis.Epsilon < 0:
		return perrors.New(perrors.ErrCodeInvalidConfig, "analysis.epsilon must be >= 0")
	case c.Render.Margin < 0:
		return perrors.New(perrors.ErrCodeInvalidConfig, "render.margin must be >= 0")
	case c.Render.Size < 0:
		return perrors.New(perrors.ErrCodeInvalidConfig, "render.size must be >= 0")
	case c.Server.LogMaxSizeMB < 0 || c.Server.LogMaxBackups < 0:
		return perrors.New(perrors.ErrCodeInvalidConfig, "server log rotation limits must be >= 0")
	case !slices.Contains([]string{"", "file", "redis", "none"}, c.Cache.Backend):
		return perrors.New(perrors.ErrCodeInvalidConfig, "cache.backend %q must be file, redis or none", c.Cache.Backend)
	case !slices.Contains([]string{"", "file", "mongo", "none"}, c.Store.Backend):
		return perrors.New(perrors.ErrCodeInvalidConfig, "store.backend %q must be file, mongo or none", c.Store.Backend)
	case c.Cache.Backend == "redis" && c.Cache.RedisAddr == "":
		return perrors.New(perrors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
	case c.Store.Backend == "mongo" && c.Store.MongoURI == "":
		return perrors.New(perrors.ErrCodeInvalidConfig, "store.mongo_uri is required for the mongo backend")
	}
	return nil
}

// DefaultPath returns $XDG_CONFIG_HOME/puncta/puncta.toml, falling back to
// ~/.config.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, FileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, FileName), nil
}

// CacheDir returns $XDG_CACHE_HOME/puncta, falling back to ~/.cache.
func CacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// DataDir returns $XDG_DATA_HOME/puncta, falling back to ~/.local/share.
func DataDir() (string, error) {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", AppName), nil
}

// Encode renders the config as TOML.
func (c Config) Encode() (string, error) {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(c); err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return b.String(), nil
}
