// Package repository holds the track stores: the document-database
// implementation used in production and an in-memory one.
package repository

import (
	"context"
	"time"

	"github.com/okian/songs/internal/domain/model"
	"github.com/okian/songs/pkg/metrics"
)

// Store provides read/write access to the track collection.
// Absence is reported through the boolean results, never as an error.
type Store interface {
	// List returns every track in storage order. The result is never nil.
	List(ctx context.Context) ([]model.Track, error)

	// Insert assigns a new id, persists the track and returns it.
	Insert(ctx context.Context, fields model.TrackFields) (model.Track, error)

	// UpdateByID overwrites every non-id field of the track with id and
	// returns the stored result. ok is false when no track has that id.
	UpdateByID(ctx context.Context, id model.TrackID, fields model.TrackFields) (track model.Track, ok bool, err error)

	// DeleteByID removes the track with id. ok is false when none matched.
	DeleteByID(ctx context.Context, id model.TrackID) (ok bool, err error)

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error
}

// Operation names used for metrics and logs.
const (
	opList   = "list"
	opInsert = "insert"
	opUpdate = "update"
	opDelete = "delete"
	opPing   = "ping"
)

// Outcome labels for repository metrics.
const (
	statusOK    = "ok"
	statusError = "error"
)

func observe(op string, start time.Time, err error) {
	latencyMs := float64(time.Since(start).Microseconds()) / 1000
	if err != nil {
		metrics.RecordRepositoryOperation(op, statusError, latencyMs)
		metrics.RecordErrorByComponent("repository", op)
		metrics.RecordErrorLatency("repository", op, latencyMs)
		return
	}
	metrics.RecordRepositoryOperation(op, statusOK, latencyMs)
}

var (
	_ Store = (*MongoStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
