// Package cache stores computed circles and rendered plots between runs.
//
// Circle computation is cheap per track, but a batch over hundreds of
// recordings re-reads spreadsheets and re-renders plots on every run. The
// pipeline keys cached results by a content hash of the track, so an
// unchanged file is never recomputed, while any edit to its coordinates
// produces a new key.
//
// Backends:
//   - [FileCache]: sharded JSON files under the XDG cache directory (CLI)
//   - [RedisCache]: shared cache for the HTTP server and multi-host batches
//   - [NullCache]: caching disabled
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value for key. The boolean is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl stores without expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Cache lifetimes per entry kind.
const (
	// TTLCircle is the lifetime of a computed circle. Circles depend only on
	// the track content and the algorithm version, both part of the key.
	TTLCircle = 90 * 24 * time.Hour

	// TTLArtifact is the lifetime of a rendered plot.
	TTLArtifact = 30 * 24 * time.Hour
)

// Keyer builds cache keys. Implementations must produce distinct keys for
// distinct options.
type Keyer interface {
	// CircleKey returns the key for the circle of a track.
	CircleKey(trackHash string, opts CircleKeyOpts) string

	// ArtifactKey returns the key for a rendered plot of a track.
	ArtifactKey(trackHash string, opts ArtifactKeyOpts) string
}

// CircleKeyOpts are the options that change a computed circle.
type CircleKeyOpts struct {
	Algorithm string  `json:"algorithm"`
	Epsilon   float64 `json:"epsilon"`
}

// ArtifactKeyOpts are the options that change a rendered plot.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Margin float64 `json:"margin"`
	Size   int     `json:"size"`
	Title  string  `json:"title"`
}

// DefaultKeyer hashes key options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// CircleKey implements Keyer.
func (DefaultKeyer) CircleKey(trackHash string, opts CircleKeyOpts) string {
	return hashKey("circle", trackHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(trackHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", trackHash, opts)
}

var _ Keyer = DefaultKeyer{}
