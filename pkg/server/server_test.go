package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/puncta/pkg/buildinfo"
	"github.com/matzehuels/puncta/pkg/cache"
	"github.com/matzehuels/puncta/pkg/httputil"
	"github.com/matzehuels/puncta/pkg/observability"
	"github.com/matzehuels/puncta/pkg/pipeline"
	"github.com/matzehuels/puncta/pkg/stats"
	"github.com/matzehuels/puncta/pkg/store"
)

func newTestServer(t *testing.T) (*httptest.Server, store.Store) {
	t.Helper()
	st, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)

	logger := log.New(io.Discard)
	srv := New(Options{
		Runner:    pipeline.NewRunner(fc, nil, logger),
		Store:     st,
		Logger:    logger,
		MaxPoints: 100,
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, st
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
	var body healthResponse
	require.NoError(t, httputil.Decode(resp.Body, &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, buildinfo.AlgorithmVersion, body.Algorithm)
}

func TestRequestIDPassthrough(t *testing.T) {
	ts, _ := newTestServer(t)
	req, err := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-Id", "abc-123")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "abc-123", resp.Header.Get("X-Request-Id"))
}

func TestCircle(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := post(t, ts.URL+"/v1/circle", `{"points":[[0,0],[4,0],[0,3],[4,3]]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got CircleResponse
	require.NoError(t, httputil.Decode(resp.Body, &got))
	require.NotNil(t, got.Center)
	assert.InDelta(t, 2, got.Center.X, 1e-12)
	assert.InDelta(t, 1.5, got.Center.Y, 1e-12)
	require.NotNil(t, got.Radius)
	require.NotNil(t, got.Area)
	assert.InDelta(t, 2.5, *got.Radius, 1e-12)
	assert.InDelta(t, math.Pi*6.25, *got.Area, 1e-9)
	assert.Equal(t, 4, got.Points)
	assert.False(t, got.Cached)

	resp = post(t, ts.URL+"/v1/circle", `{"points":[[0,0],[4,0],[0,3],[4,3]]}`)
	var again CircleResponse
	require.NoError(t, httputil.Decode(resp.Body, &again))
	assert.True(t, again.Cached)
}

func TestCircleZeroRadius(t *testing.T) {
	ts, _ := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"single point", `{"points":[[5,5]]}`},
		{"duplicates", `{"points":[[5,5],[5,5],[5,5]]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts.URL+"/v1/circle", tt.body)
			require.Equal(t, http.StatusOK, resp.StatusCode)

			var got map[string]any
			require.NoError(t, httputil.Decode(resp.Body, &got))
			assert.Equal(t, map[string]any{"x": 5.0, "y": 5.0}, got["center"])
			assert.Equal(t, 0.0, got["radius"])
			assert.Equal(t, 0.0, got["area"])
			assert.NotContains(t, got, "empty")
		})
	}
}

func TestCircleEmpty(t *testing.T) {
	ts, _ := newTestServer(t)
	resp := post(t, ts.URL+"/v1/circle", `{"points":[]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got map[string]any
	require.NoError(t, httputil.Decode(resp.Body, &got))
	assert.Equal(t, true, got["empty"])
	assert.NotContains(t, got, "center")
	assert.NotContains(t, got, "radius")
}

func TestCircleErrors(t *testing.T) {
	ts, _ := newTestServer(t)

	tests := []struct {
		name string
		body string
		code string
	}{
		{"overflow", `{"points":[[1e400,0]]}`, "INVALID_INPUT"},
		{"not json", `points`, "INVALID_INPUT"},
		{"unknown field", `{"pts":[]}`, "INVALID_INPUT"},
		{"negative epsilon", `{"points":[[0,0]],"epsilon":-1}`, "INVALID_INPUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts.URL+"/v1/circle", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			var body httputil.ErrorBody
			require.NoError(t, httputil.Decode(resp.Body, &body))
			assert.Equal(t, tt.code, body.Error.Code)
		})
	}

	var pts [][2]float64
	for i := 0; i < 101; i++ {
		pts = append(pts, [2]float64{float64(i), 0})
	}
	data, err := json.Marshal(CircleRequest{Points: pts})
	require.NoError(t, err)
	resp := post(t, ts.URL+"/v1/circle", string(data))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "point limit")
}

func TestSummary(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := post(t, ts.URL+"/v1/summary", `{"values":[1,2,3]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got stats.Summary
	require.NoError(t, httputil.Decode(resp.Body, &got))
	assert.Equal(t, 3, got.N)
	assert.InDelta(t, 2, got.Mean, 1e-12)
	assert.InDelta(t, 1, got.StdDev, 1e-12)

	resp = post(t, ts.URL+"/v1/summary", `{"values":[7]}`)
	var raw map[string]any
	require.NoError(t, httputil.Decode(resp.Body, &raw))
	assert.Nil(t, raw["stdev"])
	assert.Nil(t, raw["sem"])
	assert.Equal(t, float64(7), raw["mean"])
}

func TestRuns(t *testing.T) {
	ts, st := newTestServer(t)
	run := &pipeline.Run{ID: uuid.NewString(), CreatedAt: time.Now().UTC(), Root: "/data"}
	require.NoError(t, st.SaveRun(context.Background(), run))

	resp, err := http.Get(ts.URL + "/v1/runs/" + run.ID)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got pipeline.Run
	require.NoError(t, httputil.Decode(resp.Body, &got))
	assert.Equal(t, run.ID, got.ID)

	resp2, err := http.Get(ts.URL + "/v1/runs/" + uuid.NewString())
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp2.StatusCode)

	resp3, err := http.Get(ts.URL + "/v1/runs/not-a-uuid")
	require.NoError(t, err)
	defer resp3.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp3.StatusCode)

	resp4, err := http.Get(ts.URL + "/v1/runs?limit=5")
	require.NoError(t, err)
	defer resp4.Body.Close()
	var list runsResponse
	require.NoError(t, httputil.Decode(resp4.Body, &list))
	assert.Len(t, list.Runs, 1)

	resp5, err := http.Get(ts.URL + "/v1/runs?limit=x")
	require.NoError(t, err)
	defer resp5.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp5.StatusCode)
}

func TestListenAndServeShutdown(t *testing.T) {
	srv := New(Options{Logger: log.New(io.Discard)})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx, "127.0.0.1:0") }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestRequestHooks(t *testing.T) {
	rec := observability.NewRecorder()
	observability.SetServerHooks(rec)
	t.Cleanup(observability.Reset)

	srv := New(Options{Logger: log.New(io.Discard)})
	for _, path := range []string{"/healthz", "/v1/runs/nope"} {
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}

	s := rec.Snapshot()
	assert.Equal(t, int64(2), s.Requests)
	assert.Zero(t, s.FailedReqs)
}
