package pipeline

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/puncta/pkg/buildinfo"
	perrors "github.com/matzehuels/puncta/pkg/errors"
	"github.com/matzehuels/puncta/pkg/tracks"
)

// Execute discovers the groups under root and analyzes each in name order.
// The run is saved to the runner's Store when one is configured.
func (r *Runner) Execute(ctx context.Context, root string, opts Options) (*Run, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	groups, err := r.Discover(root, opts)
	if err != nil {
		return nil, err
	}

	run := &Run{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Root:      root,
		Version:   buildinfo.Version,
		Options:   opts,
	}
	start := time.Now()
	for _, g := range groups {
		res, err := r.AnalyzeGroup(ctx, g, opts)
		if err != nil {
			return nil, err
		}
		run.Groups = append(run.Groups, *res)
	}
	run.Duration = time.Since(start)

	opts.Logger.Info("run complete",
		"id", run.ID,
		"groups", len(run.Groups),
		"samples", run.Samples(),
		"duration", run.Duration)

	if r.Store != nil {
		if err := r.Store.SaveRun(ctx, run); err != nil {
			return run, fmt.Errorf("save run: %w", err)
		}
	}
	return run, nil
}

// Discover lists the groups under root selected by opts.
func (r *Runner) Discover(root string, opts Options) ([]tracks.Group, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	all, err := tracks.Discover(root, opts.Pattern)
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidPath, err, "discover groups in %s", root)
	}
	groups := all
	if len(opts.Groups) > 0 {
		groups = slices.DeleteFunc(slices.Clone(all), func(g tracks.Group) bool {
			return !slices.Contains(opts.Groups, g.Name)
		})
	}
	if len(groups) == 0 {
		return nil, perrors.New(perrors.ErrCodeNotFound, "no groups matching %q in %s", opts.Pattern, root)
	}
	return groups, nil
}
