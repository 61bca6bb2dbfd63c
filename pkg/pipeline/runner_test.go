package pipeline

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/puncta/pkg/cache"
	perrors "github.com/matzehuels/puncta/pkg/errors"
	"github.com/matzehuels/puncta/pkg/report"
	"github.com/matzehuels/puncta/pkg/sec"
	"github.com/matzehuels/puncta/pkg/tracks"
)

// writeTrack writes a csv track file and returns its path.
func writeTrack(t *testing.T, dir, name string, pts ...[2]float64) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	var b strings.Builder
	for _, p := range pts {
		b.WriteString(strconv.FormatFloat(p[0], 'g', -1, 64) + "," + strconv.FormatFloat(p[1], 'g', -1, 64))
		b.WriteByte('\n')
	}
	path := filepath.Join(dir, name+".csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

// fixture builds root/ChrI with three samples and root/ChrX with one
// sample plus an empty one.
func fixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	chrI := filepath.Join(root, "ChrI")
	writeTrack(t, chrI, "a", [2]float64{0, 0}, [2]float64{2, 0})                   // r=1
	writeTrack(t, chrI, "b", [2]float64{0, 0}, [2]float64{4, 0})                   // r=2
	writeTrack(t, chrI, "c", [2]float64{0, 0}, [2]float64{4, 3}, [2]float64{0, 3}) // r=2.5
	chrX := filepath.Join(root, "ChrX")
	writeTrack(t, chrX, "d", [2]float64{1, 1}, [2]float64{1, 3}) // r=1
	writeTrack(t, chrX, "e")
	return root
}

func newFileRunner(t *testing.T) *Runner {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	return NewRunner(fc, nil, nil)
}

func TestNewRunnerDefaults(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	assert.NotNil(t, r.Cache)
	assert.NotNil(t, r.Keyer)
	assert.NotNil(t, r.Logger)
	assert.NoError(t, r.Close())
}

func TestRunnerCircleCaching(t *testing.T) {
	ctx := context.Background()
	r := newFileRunner(t)
	tr := &tracks.Track{Name: "s", Points: []sec.Point{{X: 0, Y: 0}, {X: 4, Y: 3}, {X: 0, Y: 3}}}

	c, ok, hit, err := r.Circle(ctx, tr, Options{})
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, hit)
	assert.InDelta(t, 2.5, c.Radius, 1e-12)

	c2, ok, hit, err := r.Circle(ctx, tr, Options{})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, hit)
	assert.Equal(t, c, c2)

	_, _, hit, err = r.Circle(ctx, tr, Options{Refresh: true})
	require.NoError(t, err)
	assert.False(t, hit, "refresh bypasses the cache")

	_, _, hit, err = r.Circle(ctx, tr, Options{Epsilon: 1e-10})
	require.NoError(t, err)
	assert.False(t, hit, "epsilon is part of the key")
}

func TestRunnerCircleEmpty(t *testing.T) {
	ctx := context.Background()
	r := newFileRunner(t)

	_, ok, _, err := r.Circle(ctx, &tracks.Track{Name: "e"}, Options{})
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, hit, err := r.Circle(ctx, &tracks.Track{Name: "e"}, Options{})
	require.NoError(t, err)
	assert.False(t, ok, "cached empty result stays empty")
	assert.True(t, hit)
}

func TestRunnerCircleNonFinite(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	tr := &tracks.Track{Points: []sec.Point{{X: math.NaN(), Y: 0}}}
	_, _, _, err := r.Circle(context.Background(), tr, Options{})
	assert.ErrorIs(t, err, sec.ErrNonFinite)
}

func TestRunnerCircleSeeded(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	tr := &tracks.Track{Points: []sec.Point{{X: 0, Y: 0}, {X: 1, Y: 5}, {X: 3, Y: 2}, {X: -2, Y: 1}}}
	a, _, _, err := r.Circle(context.Background(), tr, Options{Seed: 7})
	require.NoError(t, err)
	b, _, _, err := r.Circle(context.Background(), tr, Options{})
	require.NoError(t, err)
	assert.True(t, a.ApproxEqual(b, 1e-12))
}

func TestAnalyzeSample(t *testing.T) {
	ctx := context.Background()
	root := fixture(t)
	r := newFileRunner(t)

	path := filepath.Join(root, "ChrI", "c.csv")
	res, err := r.AnalyzeSample(ctx, path, Options{WriteReports: true, Formats: []string{"svg", "png"}})
	require.NoError(t, err)

	assert.Equal(t, "c", res.Name)
	assert.Equal(t, 3, res.Points)
	assert.True(t, res.OK())
	assert.InDelta(t, 2.5, res.Circle.Radius, 1e-12)
	assert.InDelta(t, math.Pi*6.25, res.Area, 1e-9)
	assert.Equal(t, report.SamplePath(filepath.Join(root, "ChrI"), "c"), res.Report)
	require.Len(t, res.Plots, 2)
	for _, p := range res.Plots {
		assert.FileExists(t, p)
	}
	assert.True(t, strings.HasSuffix(res.Plots[0], "c circle dots and lines.svg"))

	again, err := r.AnalyzeSample(ctx, path, Options{})
	require.NoError(t, err)
	assert.True(t, again.CacheHit)
}

func TestAnalyzeSampleEmpty(t *testing.T) {
	root := fixture(t)
	r := newFileRunner(t)

	res, err := r.AnalyzeSample(context.Background(), filepath.Join(root, "ChrX", "e.csv"),
		Options{Formats: []string{"svg"}})
	require.NoError(t, err)
	assert.True(t, res.Empty)
	assert.False(t, res.OK())
	assert.Empty(t, res.Plots, "empty samples are not plotted")
}

func TestAnalyzeSampleMissing(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	_, err := r.AnalyzeSample(context.Background(), filepath.Join(t.TempDir(), "x.csv"), Options{})
	assert.True(t, perrors.Is(err, perrors.ErrCodeFileNotFound), "got %v", err)
}

func TestAnalyzeGroup(t *testing.T) {
	ctx := context.Background()
	root := fixture(t)
	r := newFileRunner(t)

	groups, err := tracks.Discover(root, "")
	require.NoError(t, err)
	require.Len(t, groups, 2)

	res, err := r.AnalyzeGroup(ctx, groups[0], Options{Workers: 2, WriteReports: true})
	require.NoError(t, err)
	require.Len(t, res.Samples, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{res.Samples[0].Name, res.Samples[1].Name, res.Samples[2].Name})

	areas := []float64{math.Pi, 4 * math.Pi, 6.25 * math.Pi}
	assert.Equal(t, 3, res.Area.N)
	assert.InDelta(t, 3.75*math.Pi, res.Area.Mean, 1e-9)
	assert.True(t, res.Area.Defined())
	assert.InDelta(t, res.Area.StdDev/math.Sqrt(3), res.Area.SEM, 1e-12)
	require.Len(t, res.Reports, 2)

	got, err := report.ReadColumn(report.SummaryPath(groups[0].Dir, "ChrI"), report.ColArea)
	require.NoError(t, err)
	assert.InDeltaSlice(t, areas, got, 1e-9)
}

func TestAnalyzeGroupEmptyAndSingle(t *testing.T) {
	root := fixture(t)
	r := newFileRunner(t)

	groups, err := tracks.Discover(root, "")
	require.NoError(t, err)

	res, err := r.AnalyzeGroup(context.Background(), groups[1], Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Empty)
	assert.Equal(t, 1, res.Area.N)
	assert.InDelta(t, math.Pi, res.Area.Mean, 1e-12)
	assert.False(t, res.Area.Defined())
	assert.True(t, math.IsNaN(res.Area.StdDev))
}

func TestAnalyzeGroupFailures(t *testing.T) {
	root := fixture(t)
	bad := filepath.Join(root, "ChrI", "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte("1,2\n3,oops\n"), 0o644))
	r := newFileRunner(t)

	groups, err := tracks.Discover(root, "")
	require.NoError(t, err)

	res, err := r.AnalyzeGroup(context.Background(), groups[0], Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, 3, res.Area.N)

	_, err = r.AnalyzeGroup(context.Background(), groups[0], Options{FailFast: true})
	assert.True(t, perrors.Is(err, perrors.ErrCodeInvalidInput), "got %v", err)
}

type memStore struct {
	runs []*Run
	err  error
}

func (m *memStore) SaveRun(_ context.Context, run *Run) error {
	if m.err != nil {
		return m.err
	}
	m.runs = append(m.runs, run)
	return nil
}

func TestExecute(t *testing.T) {
	root := fixture(t)
	r := newFileRunner(t)
	st := &memStore{}
	r.Store = st

	run, err := r.Execute(context.Background(), root, Options{OutputDir: filepath.Join(t.TempDir(), "out"), WriteReports: true})
	require.NoError(t, err)
	assert.Len(t, run.ID, 36)
	require.Len(t, run.Groups, 2)
	assert.Equal(t, "ChrI", run.Groups[0].Name)
	assert.Equal(t, 5, run.Samples())
	require.Len(t, st.runs, 1)
	assert.Equal(t, run.ID, st.runs[0].ID)

	assert.FileExists(t, report.StatsPath(filepath.Join(run.Options.OutputDir, "ChrX"), "ChrX"))
	assert.NoFileExists(t, report.StatsPath(filepath.Join(root, "ChrX"), "ChrX"))
}

func TestExecuteGroupFilter(t *testing.T) {
	root := fixture(t)
	r := newFileRunner(t)

	run, err := r.Execute(context.Background(), root, Options{Groups: []string{"ChrX"}})
	require.NoError(t, err)
	require.Len(t, run.Groups, 1)
	assert.Equal(t, "ChrX", run.Groups[0].Name)

	_, err = r.Execute(context.Background(), root, Options{Groups: []string{"ChrV"}})
	assert.True(t, perrors.Is(err, perrors.ErrCodeNotFound), "got %v", err)

	_, err = r.Execute(context.Background(), filepath.Join(root, "missing"), Options{})
	assert.True(t, perrors.Is(err, perrors.ErrCodeInvalidPath), "got %v", err)
}

func TestExecuteStoreError(t *testing.T) {
	root := fixture(t)
	r := newFileRunner(t)
	r.Store = &memStore{err: errors.New("down")}

	run, err := r.Execute(context.Background(), root, Options{})
	assert.Error(t, err)
	assert.NotNil(t, run, "the run is returned even when saving fails")
}

func TestRerunSkipsOutputs(t *testing.T) {
	root := fixture(t)
	r := newFileRunner(t)

	first, err := r.Execute(context.Background(), root, Options{WriteReports: true, Formats: []string{"svg"}})
	require.NoError(t, err)
	second, err := r.Execute(context.Background(), root, Options{WriteReports: true, Formats: []string{"svg"}})
	require.NoError(t, err)
	assert.Equal(t, first.Samples(), second.Samples())
}
