// Package bridge is the external contract between the relation/grid core
// and an (out-of-scope) planner/executor: a Snapshot identifies a
// bitemporal read-timestamp, a Scanner turns a column list and snapshot
// into a ResultCursor, and a ResultCursor yields read-relation batches.
package bridge

import (
	"context"

	"github.com/google/uuid"

	"relcore/internal/relation"
)

// Snapshot is an opaque bitemporal read-timestamp token: a unique id plus
// a monotonic watermark. The core never interprets the watermark; it is
// produced by the external transaction manager and passed through scan.
type Snapshot struct {
	ID        uuid.UUID
	Watermark int64
}

// NewSnapshot mints a snapshot at the given watermark.
func NewSnapshot(watermark int64) Snapshot {
	return Snapshot{ID: uuid.New(), Watermark: watermark}
}

// Scanner is the leaf operator contract: given a column projection and a
// snapshot, produce a cursor over matching read-relations.
type Scanner interface {
	Scan(ctx context.Context, columns []string, snap Snapshot) (ResultCursor, error)
}

// ResultCursor yields a sequence of read-relation batches. Next returns
// (nil, false, nil) once exhausted; Close is idempotent and releases any
// batch the cursor still owns.
type ResultCursor interface {
	Next(ctx context.Context) (*relation.ReadRelation, bool, error)
	Close()
}
