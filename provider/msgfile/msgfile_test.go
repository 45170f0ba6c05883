package msgfile

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/datakit-go/datastream/provider"
	"github.com/datakit-go/datastream/record"
)

func writeFixture(t *testing.T, records []provider.Raw) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "records.msgpack")
	if err := Write(path, records); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRoundTrip(t *testing.T) {
	path := writeFixture(t, []provider.Raw{
		{"id": 1, "text": "first"},
		{"id": 2, "text": "second"},
		{"id": 3, "text": "third"},
	})

	src := New("fixture", path)
	if !src.IsAvailable(context.Background()) {
		t.Fatal("source should be available")
	}

	iter, err := src.Records(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer iter.Close()

	adapter := &record.Adapter{}
	var ids []int64
	for {
		raw, ok, err := iter.Next(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			break
		}
		rec, err := adapter.Adapt(raw)
		if err != nil {
			t.Fatal(err)
		}
		id, _ := rec.Get("id")
		n, ok := id.AsInt()
		if !ok {
			t.Fatalf("id should adapt to an int, got %s", id.Kind())
		}
		ids = append(ids, n)
	}

	if len(ids) != 3 || ids[0] != 1 || ids[2] != 3 {
		t.Errorf("ids = %v, want [1 2 3]", ids)
	}
}

func TestFreshIteratorPerCall(t *testing.T) {
	path := writeFixture(t, []provider.Raw{{"id": 1}})
	src := New("fixture", path)

	for i := 0; i < 2; i++ {
		iter, err := src.Records(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		_, ok, err := iter.Next(context.Background())
		if err != nil || !ok {
			t.Fatalf("pass %d: Next() = %v, %v", i, ok, err)
		}
		iter.Close()
	}
}

func TestExhaustionIsSticky(t *testing.T) {
	path := writeFixture(t, []provider.Raw{{"id": 1}})
	src := New("fixture", path)

	iter, err := src.Records(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer iter.Close()

	for {
		_, ok, err := iter.Next(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			break
		}
	}
	if _, ok, _ := iter.Next(context.Background()); ok {
		t.Error("exhausted iterator should stay exhausted")
	}
}

func TestInitMissingFile(t *testing.T) {
	src := New("missing", filepath.Join(t.TempDir(), "nope.msgpack"))
	if err := src.Init(context.Background()); err == nil {
		t.Fatal("Init should fail for a missing file")
	}
	if src.IsAvailable(context.Background()) {
		t.Error("missing file should not be available")
	}
}

func TestFactory(t *testing.T) {
	path := writeFixture(t, []provider.Raw{{"id": 1}})
	src, err := Factory(map[string]any{"name": "f", "path": path})
	if err != nil {
		t.Fatal(err)
	}
	if src.Name() != "f" {
		t.Errorf("Name() = %q", src.Name())
	}
	if _, err := Factory(map[string]any{}); err == nil {
		t.Error("expected error without path")
	}
}
