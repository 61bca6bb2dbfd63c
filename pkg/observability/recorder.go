package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// Recorder counts pipeline, cache and server events. It is safe for concurrent use.
type Recorder struct {
	NoopPipelineHooks

	samples      atomic.Int64
	sampleErrors atomic.Int64
	points       atomic.Int64
	renders      atomic.Int64
	hits         atomic.Int64
	misses       atomic.Int64
	sets         atomic.Int64
	bytesWritten atomic.Int64
	computeNanos atomic.Int64
	requests     atomic.Int64
	failed       atomic.Int64
}

// NewRecorder returns a zeroed Recorder.
func NewRecorder() *Recorder { return &Recorder{} }

// Snapshot is a point-in-time copy of a Recorder's counters.
type Snapshot struct {
	Samples      int64         `json:"samples"`
	SampleErrors int64         `json:"sample_errors"`
	Points       int64         `json:"points"`
	Renders      int64         `json:"renders"`
	CacheHits    int64         `json:"cache_hits"`
	CacheMisses  int64         `json:"cache_misses"`
	CacheSets    int64         `json:"cache_sets"`
	CacheBytes   int64         `json:"cache_bytes"`
	SampleTime   time.Duration `json:"sample_time"`
	Requests     int64         `json:"requests"`
	FailedReqs   int64         `json:"failed_requests"` // status >= 500
}

// HitRate returns hits / (hits + misses), or 0 without lookups.
func (s Snapshot) HitRate() float64 {
	total := s.CacheHits + s.CacheMisses
	if total == 0 {
		return 0
	}
	return float64(s.CacheHits) / float64(total)
}

// Snapshot returns the current counters.
func (r *Recorder) Snapshot() Snapshot {
	return Snapshot{
		Samples:      r.samples.Load(),
		SampleErrors: r.sampleErrors.Load(),
		Points:       r.points.Load(),
		Renders:      r.renders.Load(),
		CacheHits:    r.hits.Load(),
		CacheMisses:  r.misses.Load(),
		CacheSets:    r.sets.Load(),
		CacheBytes:   r.bytesWritten.Load(),
		SampleTime:   time.Duration(r.computeNanos.Load()),
		Requests:     r.requests.Load(),
		FailedReqs:   r.failed.Load(),
	}
}

func (r *Recorder) OnSampleComplete(_ context.Context, _, _ string, points int, d time.Duration, err error) {
	r.samples.Add(1)
	if err != nil {
		r.sampleErrors.Add(1)
	}
	r.points.Add(int64(points))
	r.computeNanos.Add(int64(d))
}

func (r *Recorder) OnRenderComplete(_ context.Context, _, _ string, _ time.Duration, err error) {
	if err == nil {
		r.renders.Add(1)
	}
}

func (r *Recorder) OnRequest(context.Context, string, string) { r.requests.Add(1) }

func (r *Recorder) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	if status >= 500 {
		r.failed.Add(1)
	}
}

func (r *Recorder) OnCacheHit(context.Context, string)  { r.hits.Add(1) }
func (r *Recorder) OnCacheMiss(context.Context, string) { r.misses.Add(1) }
func (r *Recorder) OnCacheSet(_ context.Context, _ string, size int) {
	r.sets.Add(1)
	r.bytesWritten.Add(int64(size))
}

var (
	_ PipelineHooks = (*Recorder)(nil)
	_ CacheHooks    = (*Recorder)(nil)
	_ ServerHooks   = (*Recorder)(nil)
)
