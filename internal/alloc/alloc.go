// Package alloc supervises buffer allocation for value vectors. All vector
// allocation in this module goes through an explicitly supplied
// memory.Allocator; there is no process-wide default.
package alloc

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/dustin/go-humanize"
)

// New returns the production allocator: a plain Go-heap allocator with no
// leak checking, suitable for long-lived query execution.
func New() memory.Allocator {
	return memory.NewGoAllocator()
}

// NewChecked returns an allocator that fails loudly (via AssertSize /
// panics on Release imbalance) when buffers are leaked or double-freed.
// Used by tests to make the "scoped acquisitions with guaranteed release"
// resource-discipline invariant machine-checkable.
func NewChecked() *memory.CheckedAllocator {
	return memory.NewCheckedAllocator(memory.NewGoAllocator())
}

// Stats reports a checked allocator's outstanding allocation in
// human-readable form, for operator-facing logging.
func Stats(a *memory.CheckedAllocator) string {
	return fmt.Sprintf("%s allocated", humanize.Bytes(uint64(a.CurrentAlloc())))
}
