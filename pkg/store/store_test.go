package store

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perrors "github.com/matzehuels/puncta/pkg/errors"
	"github.com/matzehuels/puncta/pkg/pipeline"
	"github.com/matzehuels/puncta/pkg/sec"
	"github.com/matzehuels/puncta/pkg/stats"
)

func newRun(created time.Time) *pipeline.Run {
	return &pipeline.Run{
		ID:        uuid.NewString(),
		CreatedAt: created.UTC().Truncate(time.Millisecond),
		Root:      "/data",
		Groups: []pipeline.GroupResult{{
			Name: "ChrI",
			Samples: []pipeline.SampleResult{
				{Name: "a", Points: 2, Circle: sec.Circle{Center: sec.Point{X: 1, Y: 0}, Radius: 1}, Area: math.Pi},
				{Name: "b", Empty: true},
			},
			Area:  stats.Summarize([]float64{math.Pi}),
			Empty: 1,
		}},
	}
}

// storeContract exercises behaviour every backend must share.
func storeContract(t *testing.T, s Store) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	older, newer := newRun(base), newRun(base.Add(time.Hour))

	require.NoError(t, s.SaveRun(ctx, older))
	require.NoError(t, s.SaveRun(ctx, newer))

	got, err := s.GetRun(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, older.ID, got.ID)
	assert.True(t, older.CreatedAt.Equal(got.CreatedAt))
	require.Len(t, got.Groups, 1)
	assert.Equal(t, "a", got.Groups[0].Samples[0].Name)
	assert.InDelta(t, 1, got.Groups[0].Samples[0].Circle.Radius, 0)
	assert.True(t, got.Groups[0].Samples[1].Empty)
	assert.True(t, math.IsNaN(got.Groups[0].Area.StdDev))

	older.Root = "/elsewhere"
	require.NoError(t, s.SaveRun(ctx, older), "saving again replaces")
	got, err = s.GetRun(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, "/elsewhere", got.Root)

	runs, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, newer.ID, runs[0].ID, "newest first")

	runs, err = s.ListRuns(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, runs, 1)

	_, err = s.GetRun(ctx, uuid.NewString())
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
	assert.True(t, perrors.Is(err, perrors.ErrCodeNotFound))
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "runs"))
	require.NoError(t, err)
	defer s.Close(context.Background())
	storeContract(t, s)
}

func TestFileStoreRejectsBadIDs(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.GetRun(context.Background(), "../../etc/passwd")
	assert.True(t, perrors.Is(err, perrors.ErrCodeInvalidInput), "got %v", err)

	err = s.SaveRun(context.Background(), &pipeline.Run{ID: "x/y"})
	assert.Error(t, err)
}

func TestNullStore(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, Config{})
	require.NoError(t, err)

	require.NoError(t, s.SaveRun(ctx, newRun(time.Now())))
	_, err = s.GetRun(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
	runs, err := s.ListRuns(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Config{Backend: BackendFile, Dir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	_, err = Open(ctx, Config{Backend: "postgres"})
	assert.Error(t, err)

	_, err = Open(ctx, Config{Backend: BackendMongo})
	assert.Error(t, err, "mongo requires a uri")
}
