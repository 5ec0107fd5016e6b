package relation

import (
	"github.com/apache/arrow-go/v18/arrow/memory"

	"relcore/internal/column"
	"relcore/internal/types"
)

// HeterogeneousFactory builds a tagged-union append column for every name,
// appropriate for ingest connectors that don't know column types up front.
func HeterogeneousFactory(mem memory.Allocator) ColumnFactory {
	return func(name string) column.AppendColumn {
		return column.NewHeterogeneous(mem, name)
	}
}

// HomogeneousFactory builds a fixed-minor-type append column per name
// listed in schema, falling back to a heterogeneous column for any name
// not listed — e.g. columns discovered only at ingest time.
func HomogeneousFactory(mem memory.Allocator, schema map[string]types.MinorType) ColumnFactory {
	return func(name string) column.AppendColumn {
		if mt, ok := schema[name]; ok {
			return column.NewHomogeneous(mem, name, mt)
		}
		return column.NewHeterogeneous(mem, name)
	}
}
