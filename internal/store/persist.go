// Package store holds the panel's in-memory state: identity, support
// tickets, alerts, and servers. Each store owns its slice of state behind
// a mutex and writes a JSON snapshot to its named slot on every mutation.
package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Snapshot slot names. One file per store under the data directory.
const (
	SlotAuth    = "auth-storage"
	SlotServers = "servers-storage"
	SlotAlerts  = "alerts-storage"
	SlotSupport = "support-storage"
)

// Snapshotter persists store snapshots. Stores call Save after every
// mutation; writes are fire-and-forget from the store's point of view
// (last write wins, no cross-store transaction).
type Snapshotter interface {
	Save(slot string, v any) error
	Load(slot string, v any) error
}

// FileSnapshots stores each slot as an indented JSON file in a directory.
type FileSnapshots struct {
	dir string
}

// NewFileSnapshots creates the data directory if needed.
func NewFileSnapshots(dir string) (*FileSnapshots, error) {
	if dir == "" {
		return nil, errors.New("snapshot directory not set")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileSnapshots{dir: dir}, nil
}

func (fs *FileSnapshots) slotPath(slot string) string {
	return filepath.Join(fs.dir, slot+".json")
}

// Save writes the snapshot atomically via a temp file and rename.
func (fs *FileSnapshots) Save(slot string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	path := fs.slotPath(slot)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Load rehydrates a snapshot. A missing or empty file is an empty store,
// not an error.
func (fs *FileSnapshots) Load(slot string, v any) error {
	data, err := os.ReadFile(fs.slotPath(slot))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

// Outcome reports whether an id-keyed store action found its target.
// Missing ids are silent no-ops by contract, never errors; Outcome makes
// the "nothing happened" case inspectable.
type Outcome int

const (
	Updated Outcome = iota
	NotFound
)

// Found reports whether the action located and applied to its target.
func (o Outcome) Found() bool { return o == Updated }
