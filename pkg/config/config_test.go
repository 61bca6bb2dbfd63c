package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perrors "github.com/matzehuels/puncta/pkg/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "Chr", cfg.Analysis.Pattern)
	assert.Equal(t, 0.7, cfg.Render.Margin)
	assert.Equal(t, 480, cfg.Render.Size)
	assert.Equal(t, 1e-14, cfg.Analysis.Epsilon)
	assert.True(t, cfg.Analysis.WriteReports)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[analysis]
pattern = "Rec"
workers = 3
formats = ["svg", "png"]

[render]
margin = 1.5

[cache]
backend = "redis"
redis_addr = "localhost:6379"

[server]
addr = "127.0.0.1:9000"
read_timeout = "5s"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Rec", cfg.Analysis.Pattern)
	assert.Equal(t, 3, cfg.Analysis.Workers)
	assert.Equal(t, []string{"svg", "png"}, cfg.Analysis.Formats)
	assert.Equal(t, 1.5, cfg.Render.Margin)
	assert.Equal(t, 480, cfg.Render.Size, "unset keys keep defaults")
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown key", "[analysis]\npatern = \"Chr\"\n"},
		{"unknown section", "[plot]\nsize = 1\n"},
		{"bad syntax", "[analysis\n"},
		{"bad backend", "[cache]\nbackend = \"memcached\"\n"},
		{"redis without addr", "[cache]\nbackend = \"redis\"\n"},
		{"mongo without uri", "[store]\nbackend = \"mongo\"\n"},
		{"negative margin", "[render]\nmargin = -1.0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.True(t, perrors.Is(err, perrors.ErrCodeInvalidConfig), "got %v", err)
		})
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.True(t, perrors.Is(err, perrors.ErrCodeFileNotFound), "got %v", err)

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Render, cfg.Render)
}

func TestLoadDefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, AppName), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, AppName, FileName), []byte("[render]\nsize = 200\n"), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.Render.Size)
}

func TestDirs(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_CACHE_HOME", "/tmp/cache")
	t.Setenv("XDG_DATA_HOME", "/tmp/data")

	p, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/cfg", AppName, FileName), p)

	c, err := CacheDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/cache", AppName), c)

	d, err := DataDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/data", AppName), d)
}

func TestCacheDirHome(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	dir, err := CacheDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".cache", AppName), dir)
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Analysis.Workers = 2
	text, err := cfg.Encode()
	require.NoError(t, err)

	got, err := Load(writeConfig(t, text))
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}
