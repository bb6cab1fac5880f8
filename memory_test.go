package duocache

import "testing"

func TestMemoryIndexUpsertAndGet(t *testing.T) {
	m := newMemoryIndex()
	m.Upsert("a", &memoryRow{Value: "1", ByteSize: 10, LastAccessTs: 1, SchemaVersion: "v1"})

	row, ok := m.Get("a")
	if !ok {
		t.Fatal("expected row to be present")
	}
	if row.Value != "1" {
		t.Errorf("got value %v, want 1", row.Value)
	}
	if m.Count() != 1 {
		t.Errorf("Count() = %d, want 1", m.Count())
	}
	if m.TotalBytes() != 10 {
		t.Errorf("TotalBytes() = %d, want 10", m.TotalBytes())
	}
}

func TestMemoryIndexUpsertReplacesByteTotal(t *testing.T) {
	m := newMemoryIndex()
	m.Upsert("a", &memoryRow{ByteSize: 10})
	m.Upsert("a", &memoryRow{ByteSize: 30})
	if m.TotalBytes() != 30 {
		t.Errorf("TotalBytes() = %d, want 30", m.TotalBytes())
	}
	if m.Count() != 1 {
		t.Errorf("Count() = %d, want 1", m.Count())
	}
}

func TestMemoryIndexDelete(t *testing.T) {
	m := newMemoryIndex()
	m.Upsert("a", &memoryRow{ByteSize: 10})

	if !m.Delete("a") {
		t.Error("expected Delete to report existing key")
	}
	if m.Delete("a") {
		t.Error("expected second Delete to report absent key")
	}
	if m.Count() != 0 || m.TotalBytes() != 0 {
		t.Errorf("expected empty index, got count=%d bytes=%d", m.Count(), m.TotalBytes())
	}
}

func TestMemoryIndexClear(t *testing.T) {
	m := newMemoryIndex()
	m.Upsert("a", &memoryRow{ByteSize: 10})
	m.Upsert("b", &memoryRow{ByteSize: 20})
	m.Clear()
	if m.Count() != 0 || m.TotalBytes() != 0 {
		t.Errorf("expected cleared index, got count=%d bytes=%d", m.Count(), m.TotalBytes())
	}
}

func TestMemoryIndexSnapshot(t *testing.T) {
	m := newMemoryIndex()
	m.Upsert("a", &memoryRow{ByteSize: 10, LastAccessTs: 1})
	m.Upsert("b", &memoryRow{ByteSize: 20, LastAccessTs: 2})

	snap := m.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(snap))
	}
	found := map[string]tierSnapshot{}
	for _, s := range snap {
		found[s.Key] = s
	}
	if found["a"].ByteSize != 10 || found["b"].ByteSize != 20 {
		t.Errorf("unexpected snapshot contents: %v", snap)
	}
}
