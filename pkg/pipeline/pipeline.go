// Package pipeline runs the puncta batch analysis.
//
// # Architecture
//
// A run walks three levels:
//
//  1. Run: discover group directories under a root ([tracks.Discover])
//  2. Group: analyze every sample of a group in parallel and summarize areas
//  3. Sample: read the track, compute its smallest enclosing circle, and
//     write the per-sample report and plots
//
// Circles and rendered plots are cached by track content hash, so reruns over
// unchanged recordings only rewrite the reports.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	run, err := runner.Execute(ctx, "/data/tracks", pipeline.Options{
//	    Formats: []string{"jpeg"},
//	})
//	for _, g := range run.Groups {
//	    fmt.Println(g.Name, g.Area.Mean, g.Area.SEM)
//	}
//
// Single samples and groups can be analyzed directly with
// [Runner.AnalyzeSample] and [Runner.AnalyzeGroup].
package pipeline

import (
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/puncta/pkg/buildinfo"
	"github.com/matzehuels/puncta/pkg/cache"
	"github.com/matzehuels/puncta/pkg/render"
	"github.com/matzehuels/puncta/pkg/sec"
	"github.com/matzehuels/puncta/pkg/stats"
	"github.com/matzehuels/puncta/pkg/tracks"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultPattern selects group directories by substring.
	DefaultPattern = tracks.DefaultPattern

	// DefaultEpsilon is the relative containment slack of the circle.
	DefaultEpsilon = sec.DefaultEpsilon

	// DefaultMargin is the minimum plot half-width in track units.
	DefaultMargin = render.DefaultMargin

	// DefaultSize is the plot edge length in pixels.
	DefaultSize = render.DefaultSize
)

// plotTitleSuffix follows the sample name in plot titles.
const plotTitleSuffix = " smallest circle dots and lines"

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
type Options struct {
	// Discovery
	Pattern string   `json:"pattern,omitempty"`
	Groups  []string `json:"groups,omitempty"` // restrict to these group names

	// Computation
	Workers int     `json:"workers,omitempty"`
	Epsilon float64 `json:"epsilon,omitempty"`
	Seed    uint64  `json:"seed,omitempty"` // fixes the shuffle; 0 draws a fresh one
	Refresh bool    `json:"refresh,omitempty"`

	// Output
	Formats      []string `json:"formats,omitempty"` // plot formats; empty writes no plots
	Margin       float64  `json:"margin,omitempty"`
	Size         int      `json:"size,omitempty"`
	WriteReports bool     `json:"write_reports,omitempty"`
	OutputDir    string   `json:"output_dir,omitempty"` // default: next to the samples
	FailFast     bool     `json:"fail_fast,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-" bson:"-"`

	validated bool
}

// ValidateAndSetDefaults checks options and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Pattern == "" {
		o.Pattern = DefaultPattern
	}
	if o.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", o.Workers)
	}
	if o.Workers == 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.Epsilon < 0 {
		return fmt.Errorf("epsilon must be >= 0, got %g", o.Epsilon)
	}
	if o.Epsilon == 0 {
		o.Epsilon = DefaultEpsilon
	}
	if o.Margin < 0 {
		return fmt.Errorf("margin must be >= 0, got %g", o.Margin)
	}
	if o.Margin == 0 {
		o.Margin = DefaultMargin
	}
	if o.Size < 0 {
		return fmt.Errorf("size must be >= 0, got %d", o.Size)
	}
	if o.Size == 0 {
		o.Size = DefaultSize
	}
	if err := render.ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// CircleKeyOpts returns cache key options for circle computation.
func (o *Options) CircleKeyOpts() cache.CircleKeyOpts {
	return cache.CircleKeyOpts{
		Algorithm: buildinfo.AlgorithmVersion,
		Epsilon:   o.Epsilon,
	}
}

// ArtifactKeyOpts returns cache key options for a sample plot.
func (o *Options) ArtifactKeyOpts(format, title string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Margin: o.Margin,
		Size:   o.Size,
		Title:  title,
	}
}

// RenderOptions returns plot options for a sample.
func (o *Options) RenderOptions(sample string) render.Options {
	return render.Options{Margin: o.Margin, Size: o.Size, Title: sample + plotTitleSuffix}
}

// =============================================================================
// Results
// =============================================================================

// SampleResult is the outcome of one sample.
type SampleResult struct {
	Name      string        `json:"name" bson:"name"`
	Path      string        `json:"path" bson:"path"`
	Points    int           `json:"points" bson:"points"`
	Empty     bool          `json:"empty,omitempty" bson:"empty,omitempty"`
	Circle    sec.Circle    `json:"circle" bson:"circle"`
	Area      float64       `json:"area" bson:"area"`
	TrackHash string        `json:"track_hash" bson:"track_hash"`
	CacheHit  bool          `json:"cache_hit,omitempty" bson:"cache_hit,omitempty"`
	Plots     []string      `json:"plots,omitempty" bson:"plots,omitempty"`
	Report    string        `json:"report,omitempty" bson:"report,omitempty"`
	Error     string        `json:"error,omitempty" bson:"error,omitempty"`
	Duration  time.Duration `json:"duration" bson:"duration"`
}

// OK reports whether the sample produced a circle.
func (s *SampleResult) OK() bool { return s.Error == "" && !s.Empty }

// GroupResult is the outcome of one group directory.
type GroupResult struct {
	Name     string         `json:"name" bson:"name"`
	Dir      string         `json:"dir" bson:"dir"`
	Samples  []SampleResult `json:"samples" bson:"samples"`
	Area     stats.Summary  `json:"area" bson:"area"`
	Radius   stats.Summary  `json:"radius" bson:"radius"`
	Empty    int            `json:"empty" bson:"empty"`
	Failed   int            `json:"failed" bson:"failed"`
	Reports  []string       `json:"reports,omitempty" bson:"reports,omitempty"`
	Duration time.Duration  `json:"duration" bson:"duration"`
}

// Run is a complete batch over a root directory.
type Run struct {
	ID        string        `json:"id" bson:"_id"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at"`
	Root      string        `json:"root" bson:"root"`
	Version   string        `json:"version" bson:"version"`
	Options   Options       `json:"options" bson:"options"`
	Groups    []GroupResult `json:"groups" bson:"groups"`
	Duration  time.Duration `json:"duration" bson:"duration"`
}

// Samples returns the total number of samples in the run.
func (r *Run) Samples() int {
	n := 0
	for _, g := range r.Groups {
		n += len(g.Samples)
	}
	return n
}
