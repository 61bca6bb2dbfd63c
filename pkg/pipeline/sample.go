package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/matzehuels/puncta/pkg/observability"
	"github.com/matzehuels/puncta/pkg/render"
	"github.com/matzehuels/puncta/pkg/report"
	"github.com/matzehuels/puncta/pkg/tracks"
)

// AnalyzeSample reads the track at path, computes its circle and area, and
// writes the per-sample report and plots requested by opts.
//
// An empty track is not an error: the result has Empty set and no circle.
func (r *Runner) AnalyzeSample(ctx context.Context, path string, opts Options) (*SampleResult, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	groupDir := filepath.Dir(path)
	group := filepath.Base(groupDir)
	name := tracks.SampleName(path)

	start := time.Now()
	observability.Pipeline().OnSampleStart(ctx, group, name)
	res, err := r.analyzeSample(ctx, path, groupDir, opts)
	points := 0
	if res != nil {
		res.Duration = time.Since(start)
		points = res.Points
	}
	observability.Pipeline().OnSampleComplete(ctx, group, name, points, time.Since(start), err)
	return res, err
}

func (r *Runner) analyzeSample(ctx context.Context, path, groupDir string, opts Options) (*SampleResult, error) {
	t, err := tracks.ReadFile(path)
	if err != nil {
		return nil, err
	}
	res := &SampleResult{
		Name:      t.Name,
		Path:      path,
		Points:    len(t.Points),
		TrackHash: tracks.Hash(t),
	}

	c, ok, hit, err := r.Circle(ctx, t, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t.Name, err)
	}
	res.CacheHit = hit
	if !ok {
		res.Empty = true
		opts.Logger.Warn("empty track", "sample", t.Name, "path", path)
	} else {
		res.Circle = c
		res.Area = c.Area()
		opts.Logger.Debug("computed circle",
			"sample", t.Name,
			"points", len(t.Points),
			"radius", c.Radius,
			"cached", hit)
	}

	outDir, err := opts.outputDir(groupDir)
	if err != nil {
		return nil, err
	}

	if opts.WriteReports {
		p, err := report.WriteSample(outDir, res.row())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", t.Name, err)
		}
		res.Report = p
	}

	if ok {
		for _, format := range opts.Formats {
			data, _, err := r.Plot(ctx, t, c, ok, format, opts)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", t.Name, err)
			}
			p := report.PlotPath(outDir, t.Name, render.Extension(format))
			if err := os.WriteFile(p, data, 0o644); err != nil {
				return nil, fmt.Errorf("write plot: %w", err)
			}
			res.Plots = append(res.Plots, p)
		}
	}
	return res, nil
}

// row converts the result to a report row.
func (s *SampleResult) row() report.SampleRow {
	return report.SampleRow{
		Name:   s.Name,
		X:      s.Circle.Center.X,
		Y:      s.Circle.Center.Y,
		Radius: s.Circle.Radius,
		Area:   s.Area,
		Empty:  !s.OK(),
	}
}

// outputDir returns where a group's outputs go, creating it when OutputDir
// redirects them.
func (o *Options) outputDir(groupDir string) (string, error) {
	if o.OutputDir == "" {
		return groupDir, nil
	}
	dir := filepath.Join(o.OutputDir, filepath.Base(groupDir))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	return dir, nil
}
