package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSnapshotsSaveLoad(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileSnapshots(filepath.Join(dir, "nested", "data"))
	if err != nil {
		t.Fatalf("new snapshots: %v", err)
	}

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	if err := fs.Save("test-slot", payload{Name: "a", Count: 3}); err != nil {
		t.Fatalf("save: %v", err)
	}

	var got payload
	if err := fs.Load("test-slot", &got); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Name != "a" || got.Count != 3 {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	// The temp file must not linger after the rename.
	if _, err := os.Stat(filepath.Join(dir, "nested", "data", "test-slot.json.tmp")); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

func TestFileSnapshotsMissingSlot(t *testing.T) {
	fs, err := NewFileSnapshots(t.TempDir())
	if err != nil {
		t.Fatalf("new snapshots: %v", err)
	}
	got := map[string]string{"seed": "kept"}
	if err := fs.Load("never-written", &got); err != nil {
		t.Fatalf("missing slot must load as empty, got %v", err)
	}
	if got["seed"] != "kept" {
		t.Fatalf("load of a missing slot must not touch the target")
	}
}

func TestFileSnapshotsEmptyDir(t *testing.T) {
	if _, err := NewFileSnapshots(""); err == nil {
		t.Fatalf("expected error for empty directory")
	}
}

func TestOutcomeFound(t *testing.T) {
	if !Updated.Found() {
		t.Fatalf("Updated must report found")
	}
	if NotFound.Found() {
		t.Fatalf("NotFound must not report found")
	}
}
