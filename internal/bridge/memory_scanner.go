package bridge

import (
	"context"

	"relcore/internal/relation"
)

// MemoryScanner is a trivial in-memory Scanner used by tests: it serves
// pre-built read-relations, unfiltered by
// snapshot (there is no bitemporal storage behind it).
type MemoryScanner struct {
	batches []*relation.ReadRelation
}

// NewMemoryScanner wraps a fixed sequence of already-built read-relation
// batches. Ownership of batches is NOT transferred: MemoryScanner's cursor
// projects named-column views over them rather than materializing copies,
// so the caller remains responsible for closing the originals.
func NewMemoryScanner(batches ...*relation.ReadRelation) *MemoryScanner {
	return &MemoryScanner{batches: batches}
}

func (s *MemoryScanner) Scan(ctx context.Context, columns []string, snap Snapshot) (ResultCursor, error) {
	return &memoryCursor{batches: s.batches, columns: columns}, nil
}

type memoryCursor struct {
	batches []*relation.ReadRelation
	columns []string
	pos     int
	closed  bool
}

func (c *memoryCursor) Next(ctx context.Context) (*relation.ReadRelation, bool, error) {
	if c.closed || c.pos >= len(c.batches) {
		return nil, false, nil
	}
	batch := c.batches[c.pos]
	c.pos++
	if len(c.columns) == 0 {
		return batch, true, nil
	}
	return project(batch, c.columns), true, nil
}

// Close marks the cursor closed, after which Next reports exhaustion. It
// releases nothing: MemoryScanner does not own the batches it serves.
func (c *memoryCursor) Close() { c.closed = true }

// project returns a view relation containing only the named columns, each
// a cheap rename-to-self (owns nothing, safe to discard without closing).
func project(rel *relation.ReadRelation, columns []string) *relation.ReadRelation {
	out := relation.NewReadRelation(rel.RowCount())
	for _, name := range columns {
		if col, ok := rel.Column(name); ok {
			out.AddColumn(col.Rename(name))
		}
	}
	return out
}
