// Package store persists pipeline runs so that results can be listed and
// fetched after the batch finishes, including over the HTTP API.
//
// Backends:
//   - file: one JSON document per run under a data directory (CLI)
//   - mongo: a MongoDB collection keyed by run ID (shared deployments)
//   - none: runs are not kept
package store

import (
	"context"
	"fmt"

	perrors "github.com/matzehuels/puncta/pkg/errors"
	"github.com/matzehuels/puncta/pkg/pipeline"
)

// ErrNotFound is returned when a run does not exist.
var ErrNotFound = perrors.New(perrors.ErrCodeNotFound, "run not found")

// Store is the interface for run storage backends.
type Store interface {
	// SaveRun inserts or replaces a run.
	SaveRun(ctx context.Context, run *pipeline.Run) error

	// GetRun returns the run with the given ID, or ErrNotFound.
	GetRun(ctx context.Context, id string) (*pipeline.Run, error)

	// ListRuns returns up to limit runs, newest first. A limit <= 0
	// returns all runs.
	ListRuns(ctx context.Context, limit int) ([]*pipeline.Run, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// Backend names accepted by Open.
const (
	BackendFile  = "file"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// Config selects and configures a store backend.
type Config struct {
	Backend  string
	Dir      string
	MongoURI string
	Database string
}

// Open returns the backend named by cfg.Backend. An empty backend means none.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case "", BackendNone:
		return NullStore{}, nil
	case BackendFile:
		return NewFileStore(cfg.Dir)
	case BackendMongo:
		return NewMongoStore(ctx, cfg.MongoURI, cfg.Database)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

// NullStore discards runs.
type NullStore struct{}

func (NullStore) SaveRun(context.Context, *pipeline.Run) error { return nil }

func (NullStore) GetRun(context.Context, string) (*pipeline.Run, error) { return nil, ErrNotFound }

func (NullStore) ListRuns(context.Context, int) ([]*pipeline.Run, error) { return nil, nil }

func (NullStore) Close(context.Context) error { return nil }

var (
	_ Store             = NullStore{}
	_ pipeline.RunStore = NullStore{}
)
