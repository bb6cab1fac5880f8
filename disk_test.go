package duocache

import "testing"

func openTestDiskStore(t *testing.T) *diskStore {
	t.Helper()
	ds, err := openDiskStore(":memory:")
	if err != nil {
		t.Fatalf("openDiskStore() error = %v", err)
	}
	t.Cleanup(func() { ds.Close() })
	return ds
}

func TestDiskStoreUpsertAndGet(t *testing.T) {
	ds := openTestDiskStore(t)

	row := diskRow{Key: "a", Payload: []byte("hello"), ByteSize: 5, LastAccessTs: 1, SchemaVersion: "v1"}
	if err := ds.Upsert(row); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	got, found, err := ds.Get("a")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !found {
		t.Fatal("expected row to be found")
	}
	if string(got.Payload) != "hello" {
		t.Errorf("Payload = %q, want hello", got.Payload)
	}
	if ds.Count() != 1 || ds.TotalBytes() != 5 {
		t.Errorf("Count()=%d TotalBytes()=%d, want 1/5", ds.Count(), ds.TotalBytes())
	}
}

func TestDiskStoreUpsertReplacesAggregates(t *testing.T) {
	ds := openTestDiskStore(t)

	ds.Upsert(diskRow{Key: "a", Payload: []byte("12345"), ByteSize: 5, SchemaVersion: "v1"})
	ds.Upsert(diskRow{Key: "a", Payload: []byte("1234567890"), ByteSize: 10, SchemaVersion: "v1"})

	if ds.Count() != 1 {
		t.Errorf("Count() = %d, want 1", ds.Count())
	}
	if ds.TotalBytes() != 10 {
		t.Errorf("TotalBytes() = %d, want 10", ds.TotalBytes())
	}
}

func TestDiskStoreGetMany(t *testing.T) {
	ds := openTestDiskStore(t)
	ds.UpsertMany([]diskRow{
		{Key: "a", Payload: []byte("1"), ByteSize: 1, SchemaVersion: "v1"},
		{Key: "b", Payload: []byte("2"), ByteSize: 1, SchemaVersion: "v1"},
	})

	got, err := ds.GetMany([]string{"a", "b", "missing"})
	if err != nil {
		t.Fatalf("GetMany() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
}

func TestDiskStoreUpsertManyAtomic(t *testing.T) {
	ds := openTestDiskStore(t)
	rows := []diskRow{
		{Key: "a", Payload: []byte("1"), ByteSize: 1, SchemaVersion: "v1"},
		{Key: "b", Payload: []byte("2"), ByteSize: 1, SchemaVersion: "v1"},
		{Key: "c", Payload: []byte("3"), ByteSize: 1, SchemaVersion: "v1"},
	}
	if err := ds.UpsertMany(rows); err != nil {
		t.Fatalf("UpsertMany() error = %v", err)
	}
	if ds.Count() != 3 {
		t.Errorf("Count() = %d, want 3", ds.Count())
	}
}

func TestDiskStoreDeleteMany(t *testing.T) {
	ds := openTestDiskStore(t)
	ds.UpsertMany([]diskRow{
		{Key: "a", Payload: []byte("1"), ByteSize: 1, SchemaVersion: "v1"},
		{Key: "b", Payload: []byte("2"), ByteSize: 1, SchemaVersion: "v1"},
	})

	if err := ds.DeleteMany([]string{"a", "missing"}); err != nil {
		t.Fatalf("DeleteMany() error = %v", err)
	}
	if ds.Count() != 1 {
		t.Errorf("Count() = %d, want 1", ds.Count())
	}
	if _, found, _ := ds.Get("a"); found {
		t.Error("expected a to be deleted")
	}
}

func TestDiskStoreScanOrderedAndClear(t *testing.T) {
	ds := openTestDiskStore(t)
	ds.UpsertMany([]diskRow{
		{Key: "b", Payload: []byte("1"), ByteSize: 1, LastAccessTs: 1, SchemaVersion: "v1"},
		{Key: "a", Payload: []byte("2"), ByteSize: 1, LastAccessTs: 1, SchemaVersion: "v1"},
		{Key: "c", Payload: []byte("3"), ByteSize: 1, LastAccessTs: 2, SchemaVersion: "v1"},
	})

	snap, err := ds.ScanOrdered()
	if err != nil {
		t.Fatalf("ScanOrdered() error = %v", err)
	}
	if len(snap) != 3 || snap[0].Key != "a" || snap[1].Key != "b" || snap[2].Key != "c" {
		t.Errorf("unexpected scan order: %v", snap)
	}

	if err := ds.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if ds.Count() != 0 || ds.TotalBytes() != 0 {
		t.Errorf("expected empty store after Clear, got count=%d bytes=%d", ds.Count(), ds.TotalBytes())
	}
}
