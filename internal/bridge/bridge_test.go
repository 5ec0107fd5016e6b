package bridge

import (
	"context"
	"testing"

	"relcore/internal/alloc"
	"relcore/internal/relation"
	"relcore/internal/types"
)

func buildTestRelation(t *testing.T) *relation.ReadRelation {
	t.Helper()
	mem := alloc.NewChecked()
	t.Cleanup(func() { mem.AssertSize(t, 0) })
	ar := relation.NewAppendRelation(relation.HomogeneousFactory(mem, map[string]types.MinorType{
		"a": types.BigInt,
		"b": types.VarChar,
	}))
	a := ar.AppendColumn("a")
	a.AppendLong(1)
	a.AppendLong(2)
	b := ar.AppendColumn("b")
	b.AppendString("x")
	b.AppendString("y")
	rel, err := ar.Read()
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	return rel
}

func TestMemoryScannerYieldsAllBatches(t *testing.T) {
	rel := buildTestRelation(t)
	defer rel.Close()

	scanner := NewMemoryScanner(rel)
	cursor, err := scanner.Scan(context.Background(), nil, NewSnapshot(1))
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	defer cursor.Close()

	got, ok, err := cursor.Next(context.Background())
	if err != nil || !ok {
		t.Fatalf("Next() = (_, %v, %v), want (_, true, nil)", ok, err)
	}
	if got.RowCount() != 2 {
		t.Errorf("RowCount() = %d, want 2", got.RowCount())
	}

	_, ok, err = cursor.Next(context.Background())
	if err != nil || ok {
		t.Fatalf("second Next() = (_, %v, %v), want (_, false, nil)", ok, err)
	}
}

func TestMemoryScannerProjectsColumns(t *testing.T) {
	rel := buildTestRelation(t)
	defer rel.Close()

	scanner := NewMemoryScanner(rel)
	cursor, err := scanner.Scan(context.Background(), []string{"b"}, NewSnapshot(1))
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	defer cursor.Close()

	got, _, err := cursor.Next(context.Background())
	if err != nil {
		t.Fatalf("Next() error: %v", err)
	}
	if len(got.Names()) != 1 || got.Names()[0] != "b" {
		t.Fatalf("Names() = %v, want [b]", got.Names())
	}
	if got.MustColumn("b").GetObject(0) != "x" {
		t.Errorf("b.GetObject(0) = %v, want x", got.MustColumn("b").GetObject(0))
	}
}
