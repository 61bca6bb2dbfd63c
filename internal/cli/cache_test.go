package cli

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/puncta/pkg/cache"
)

func TestCachePath(t *testing.T) {
	env := setupEnv(t)
	out, err := execute(t, "cache", "path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(env.cache, appName), strings.TrimSpace(out))
}

func TestCachePathFromConfig(t *testing.T) {
	setupEnv(t)
	dir := t.TempDir()
	cfg := writeFile(t, filepath.Join(t.TempDir(), "puncta.toml"), "[cache]\ndir = \""+filepath.ToSlash(dir)+"\"\n")
	out, err := execute(t, "cache", "path", "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, filepath.ToSlash(dir), strings.TrimSpace(out))
}

func TestCacheClear(t *testing.T) {
	env := setupEnv(t)

	_, err := execute(t, "cache", "clear")
	require.NoError(t, err, "clearing a missing cache is not an error")

	fc, err := cache.NewFileCache(filepath.Join(env.cache, appName))
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, fc.Set(ctx, "k1", []byte("v"), time.Hour))
	require.NoError(t, fc.Set(ctx, "k2", []byte("v"), time.Hour))

	_, err = execute(t, "cache", "clear")
	require.NoError(t, err)
	_, found, err := fc.Get(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCachePrune(t *testing.T) {
	env := setupEnv(t)
	fc, err := cache.NewFileCache(filepath.Join(env.cache, appName))
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, fc.Set(ctx, "live", []byte("v"), time.Hour))

	_, err = execute(t, "cache", "prune")
	require.NoError(t, err)
	_, found, err := fc.Get(ctx, "live")
	require.NoError(t, err)
	assert.True(t, found)
}
