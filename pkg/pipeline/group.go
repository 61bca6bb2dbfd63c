package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/puncta/pkg/observability"
	"github.com/matzehuels/puncta/pkg/report"
	"github.com/matzehuels/puncta/pkg/stats"
	"github.com/matzehuels/puncta/pkg/tracks"
)

// AnalyzeGroup analyzes every sample of a group with up to opts.Workers
// samples in flight, then summarizes circle areas and radii.
//
// A failing sample is recorded in its result and excluded from the summary,
// unless opts.FailFast is set, in which case the first error aborts the group.
func (r *Runner) AnalyzeGroup(ctx context.Context, g tracks.Group, opts Options) (*GroupResult, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	start := time.Now()
	observability.Pipeline().OnGroupStart(ctx, g.Name, len(g.Samples))
	res, err := r.analyzeGroup(ctx, g, opts)
	observability.Pipeline().OnGroupComplete(ctx, g.Name, len(g.Samples), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	res.Duration = time.Since(start)

	opts.Logger.Info("analyzed group",
		"group", g.Name,
		"samples", len(res.Samples),
		"empty", res.Empty,
		"failed", res.Failed,
		"duration", res.Duration)
	return res, nil
}

func (r *Runner) analyzeGroup(ctx context.Context, g tracks.Group, opts Options) (*GroupResult, error) {
	results := make([]SampleResult, len(g.Samples))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(opts.Workers)
	for i, path := range g.Samples {
		eg.Go(func() error {
			res, err := r.AnalyzeSample(egCtx, path, opts)
			if err == nil {
				results[i] = *res
				return nil
			}
			if opts.FailFast || errors.Is(err, context.Canceled) {
				return err
			}
			opts.Logger.Error("sample failed", "group", g.Name, "sample", tracks.SampleName(path), "err", err)
			results[i] = SampleResult{Name: tracks.SampleName(path), Path: path, Error: err.Error()}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("group %s: %w", g.Name, err)
	}

	res := &GroupResult{Name: g.Name, Dir: g.Dir, Samples: results}
	var areas, radii []float64
	for _, s := range results {
		switch {
		case s.Error != "":
			res.Failed++
		case s.Empty:
			res.Empty++
		default:
			areas = append(areas, s.Area)
			radii = append(radii, s.Circle.Radius)
		}
	}
	res.Area = stats.Summarize(areas)
	res.Radius = stats.Summarize(radii)
	if !res.Area.Defined() {
		opts.Logger.Warn("spread undefined for fewer than two samples", "group", g.Name, "samples", res.Area.N)
	}

	if opts.WriteReports {
		if err := r.writeGroupReports(res, opts); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (r *Runner) writeGroupReports(res *GroupResult, opts Options) error {
	dir, err := opts.outputDir(res.Dir)
	if err != nil {
		return err
	}
	rows := make([]report.SampleRow, 0, len(res.Samples))
	for i := range res.Samples {
		if res.Samples[i].Error == "" {
			rows = append(rows, res.Samples[i].row())
		}
	}
	summary, err := report.WriteGroupSummary(dir, res.Name, rows)
	if err != nil {
		return err
	}
	statsPath, err := report.WriteGroupStats(dir, res.Name, res.Area)
	if err != nil {
		return err
	}
	res.Reports = []string{summary, statsPath}
	return nil
}
