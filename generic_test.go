package duocache

import "testing"

type typedTestRecord struct {
	Name string `json:"name"`
}

func newTestTypedEngine(t *testing.T) *TypedEngine[typedTestRecord] {
	t.Helper()
	cfg := unboundedConfig(NewJSONCodec[typedTestRecord]("v1"))
	engine := newTestEngine(t, cfg)
	return NewTypedEngine[typedTestRecord](engine)
}

func TestTypedEnginePutGet(t *testing.T) {
	typed := newTestTypedEngine(t)

	if err := typed.Put("a", typedTestRecord{Name: "alice"}, 1); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, found, err := typed.Get("a", 1)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !found || got.Name != "alice" {
		t.Errorf("Get() = (%+v, %v), want (alice, true)", got, found)
	}
}

func TestTypedEngineGetMiss(t *testing.T) {
	typed := newTestTypedEngine(t)
	_, found, err := typed.Get("missing", 1)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if found {
		t.Error("expected miss")
	}
}

func TestTypedEngineDeleteAndExists(t *testing.T) {
	typed := newTestTypedEngine(t)
	typed.Put("a", typedTestRecord{Name: "alice"}, 1)

	exists, err := typed.Exists("a", 1)
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if !exists {
		t.Error("expected key to exist")
	}

	if err := typed.Delete("a"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	exists, err = typed.Exists("a", 1)
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if exists {
		t.Error("expected key to be gone after Delete")
	}
}

func TestTypedEngineGetManyAndPutMany(t *testing.T) {
	typed := newTestTypedEngine(t)

	err := typed.PutMany(map[string]typedTestRecord{
		"a": {Name: "alice"},
		"b": {Name: "bob"},
	}, 1)
	if err != nil {
		t.Fatalf("PutMany() error = %v", err)
	}

	found, err := typed.GetMany([]string{"a", "b", "missing"}, 2)
	if err != nil {
		t.Fatalf("GetMany() error = %v", err)
	}
	if len(found) != 2 || found["a"].Name != "alice" || found["b"].Name != "bob" {
		t.Errorf("unexpected GetMany result: %+v", found)
	}
}

func TestTypedEngineDeleteManyAndClear(t *testing.T) {
	typed := newTestTypedEngine(t)
	typed.PutMany(map[string]typedTestRecord{"a": {Name: "alice"}, "b": {Name: "bob"}}, 1)

	if err := typed.DeleteMany([]string{"a"}); err != nil {
		t.Fatalf("DeleteMany() error = %v", err)
	}
	if _, found, _ := typed.Get("a", 1); found {
		t.Error("expected a to be deleted")
	}

	if err := typed.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, found, _ := typed.Get("b", 1); found {
		t.Error("expected b to be gone after Clear")
	}
}

func TestTypedEngineWrongTypeOnSharedDisk(t *testing.T) {
	cfg := unboundedConfig(NewJSONCodec[string]("v1"))
	engine := newTestEngine(t, cfg)

	if err := engine.Put("a", "a string value", 1); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	// The raw Engine accepted a string under model v1; wrapping the same
	// Engine in a TypedEngine[int] must surface the mismatch as an error
	// rather than panicking on the failed type assertion.
	typed := NewTypedEngine[int](engine)
	_, _, err := typed.Get("a", 1)
	if !IsWrongType(err) {
		t.Errorf("expected WrongType error, got %v", err)
	}
}

func TestTypedEngineUnderlyingEngineAccessor(t *testing.T) {
	typed := newTestTypedEngine(t)
	if typed.Engine() == nil {
		t.Fatal("expected Engine() to return the underlying engine")
	}
	if _, err := typed.Engine().GetCount(); err != nil {
		t.Fatalf("GetCount() error = %v", err)
	}
}
