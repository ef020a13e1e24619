package portal

import (
	"path/filepath"
	"testing"
)

func tempDB(t *testing.T) *Database {
	t.Helper()
	dir := t.TempDir()
	db, err := NewDatabase(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("new db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestKeyValueRoundTrip(t *testing.T) {
	db := tempDB(t)

	if _, ok, err := db.Get("missing"); err != nil || ok {
		t.Fatalf("get missing: ok=%v err=%v", ok, err)
	}

	if err := db.Set("k", "v1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := db.Set("k", "v2"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, ok, err := db.Get("k")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got != "v2" {
		t.Fatalf("want v2, got %q", got)
	}

	if err := db.Delete("k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := db.Get("k"); ok {
		t.Fatalf("key still present after delete")
	}
	if err := db.Delete("k"); err != nil {
		t.Fatalf("deleting a missing key should succeed: %v", err)
	}
}

func TestValuesSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "portal.db")

	db, err := NewDatabase(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := db.Set("currentUser", `{"UserID":1}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	db.Close()

	// Second open runs migrations again; they must be a no-op.
	db, err = NewDatabase(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()

	got, ok, err := db.Get("currentUser")
	if err != nil || !ok {
		t.Fatalf("get after reopen: ok=%v err=%v", ok, err)
	}
	if got != `{"UserID":1}` {
		t.Fatalf("unexpected value %q", got)
	}
}
