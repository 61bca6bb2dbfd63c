package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/puncta/pkg/cache"
	"github.com/matzehuels/puncta/pkg/observability"
	"github.com/matzehuels/puncta/pkg/render"
	"github.com/matzehuels/puncta/pkg/sec"
	"github.com/matzehuels/puncta/pkg/tracks"
)

// RunStore persists completed runs.
type RunStore interface {
	SaveRun(ctx context.Context, run *Run) error
}

// Runner encapsulates pipeline execution with caching.
// Both the CLI and the HTTP server use it.
//
// The Runner holds no per-run state; multiple goroutines can use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	Store  RunStore // optional
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// cachedCircle is the cache encoding of a circle result.
type cachedCircle struct {
	Circle sec.Circle `json:"circle"`
	OK     bool       `json:"ok"`
}

// Circle computes the smallest enclosing circle of a track with caching.
// ok is false for an empty track; hit reports a cache hit.
func (r *Runner) Circle(ctx context.Context, t *tracks.Track, opts Options) (c sec.Circle, ok, hit bool, err error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return sec.Circle{}, false, false, err
	}
	key := r.Keyer.CircleKey(tracks.Hash(t), opts.CircleKeyOpts())

	if !opts.Refresh {
		if data, found, err := r.Cache.Get(ctx, key); err == nil && found {
			var cc cachedCircle
			if json.Unmarshal(data, &cc) == nil {
				observability.Cache().OnCacheHit(ctx, "circle")
				return cc.Circle, cc.OK, true, nil
			}
		} else if err != nil {
			r.Logger.Warn("cache read failed", "key", "circle", "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, "circle")
	}

	c, ok, err = sec.ComputeWithOptions(t.Points, sec.Options{
		Rand:     r.rng(opts),
		Epsilon:  opts.Epsilon,
		Validate: true,
	})
	if err != nil {
		return sec.Circle{}, false, false, err
	}

	if data, err := json.Marshal(cachedCircle{Circle: c, OK: ok}); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLCircle); err != nil {
			r.Logger.Warn("cache write failed", "key", "circle", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "circle", len(data))
		}
	}
	return c, ok, false, nil
}

// Plot renders a sample plot with caching.
func (r *Runner) Plot(ctx context.Context, t *tracks.Track, c sec.Circle, ok bool, format string, opts Options) ([]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	ropts := opts.RenderOptions(t.Name)
	key := r.Keyer.ArtifactKey(tracks.Hash(t), opts.ArtifactKeyOpts(format, ropts.Title))

	if !opts.Refresh {
		if data, found, err := r.Cache.Get(ctx, key); err == nil && found {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return data, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	start := time.Now()
	data, err := render.Render(format, t, c, ok, ropts)
	observability.Pipeline().OnRenderComplete(ctx, t.Name, format, time.Since(start), err)
	if err != nil {
		return nil, false, fmt.Errorf("render %s: %w", format, err)
	}
	if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err == nil {
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return data, false, nil
}

// rng returns a seeded generator when opts.Seed is set, or nil to use the
// global source.
func (r *Runner) rng(opts Options) *rand.Rand {
	if opts.Seed == 0 {
		return nil
	}
	return rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
