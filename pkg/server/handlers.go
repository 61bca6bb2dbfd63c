package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/puncta/pkg/buildinfo"
	perrors "github.com/matzehuels/puncta/pkg/errors"
	"github.com/matzehuels/puncta/pkg/httputil"
	"github.com/matzehuels/puncta/pkg/pipeline"
	"github.com/matzehuels/puncta/pkg/sec"
	"github.com/matzehuels/puncta/pkg/stats"
	"github.com/matzehuels/puncta/pkg/store"
	"github.com/matzehuels/puncta/pkg/tracks"
)

type healthResponse struct {
	Status string `json:"status"`
	buildinfo.Info
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = httputil.WriteJSON(w, http.StatusOK, healthResponse{Status: "ok", Info: buildinfo.Get()})
}

// CircleRequest is the body of POST /v1/circle.
type CircleRequest struct {
	Points  [][2]float64 `json:"points"`
	Epsilon float64      `json:"epsilon,omitempty"`
}

// CircleResponse is the reply of POST /v1/circle. Only Empty is set for an
// empty point list.
type CircleResponse struct {
	Empty  bool       `json:"empty,omitempty"`
	Center *PointJSON `json:"center,omitempty"`
	Radius *float64   `json:"radius,omitempty"`
	Area   *float64   `json:"area,omitempty"`
	Points int        `json:"points"`
	Cached bool       `json:"cached"`
}

// PointJSON is a point on the wire.
type PointJSON struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (s *Server) handleCircle(w http.ResponseWriter, r *http.Request) {
	var req CircleRequest
	if err := httputil.DecodeJSON(w, r, &req, 0); err != nil {
		_ = httputil.WriteError(w, err)
		return
	}
	if len(req.Points) > s.opts.MaxPoints {
		_ = httputil.WriteError(w, perrors.New(perrors.ErrCodeInvalidInput,
			"%d points exceeds the limit of %d", len(req.Points), s.opts.MaxPoints))
		return
	}
	if req.Epsilon < 0 {
		_ = httputil.WriteError(w, perrors.New(perrors.ErrCodeInvalidInput, "epsilon must be >= 0"))
		return
	}

	t := &tracks.Track{Name: "request", Points: make([]sec.Point, len(req.Points))}
	for i, p := range req.Points {
		t.Points[i] = sec.Point{X: p[0], Y: p[1]}
	}

	c, ok, hit, err := s.runner.Circle(r.Context(), t, pipeline.Options{Epsilon: req.Epsilon, Logger: s.logger})
	if err != nil {
		if errors.Is(err, sec.ErrNonFinite) {
			err = perrors.Wrap(perrors.ErrCodeNonFinite, err, "%v", err)
		}
		_ = httputil.WriteError(w, err)
		return
	}
	resp := CircleResponse{Points: len(t.Points), Cached: hit}
	if !ok {
		resp.Empty = true
	} else {
		resp.Center = &PointJSON{X: c.Center.X, Y: c.Center.Y}
		radius, area := c.Radius, c.Area()
		resp.Radius = &radius
		resp.Area = &area
	}
	_ = httputil.WriteJSON(w, http.StatusOK, resp)
}

// SummaryRequest is the body of POST /v1/summary.
type SummaryRequest struct {
	Values []float64 `json:"values"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	var req SummaryRequest
	if err := httputil.DecodeJSON(w, r, &req, 0); err != nil {
		_ = httputil.WriteError(w, err)
		return
	}
	_ = httputil.WriteJSON(w, http.StatusOK, stats.Summarize(req.Values))
}

type runsResponse struct {
	Runs []*pipeline.Run `json:"runs"`
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			_ = httputil.WriteError(w, perrors.New(perrors.ErrCodeInvalidInput, "limit must be a non-negative integer"))
			return
		}
		limit = n
	}
	runs, err := s.store.ListRuns(r.Context(), limit)
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}
	if runs == nil {
		runs = []*pipeline.Run{}
	}
	_ = httputil.WriteJSON(w, http.StatusOK, runsResponse{Runs: runs})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := perrors.ValidateRunID(id); err != nil {
		_ = httputil.WriteError(w, err)
		return
	}
	run, err := s.store.GetRun(r.Context(), id)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Error("get run", "id", id, "err", err)
		}
		_ = httputil.WriteError(w, err)
		return
	}
	_ = httputil.WriteJSON(w, http.StatusOK, run)
}
