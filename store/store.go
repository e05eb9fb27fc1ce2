// Package store manages the spill directory for disk-placed downloads.
//
// Items that exceed the memory budget are written here under fresh
// uuid-based names; the scheduler sweeps the directory after every tick
// and once more at shutdown, so nothing written here outlives a tick.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// SpillExt is the extension given to every spilled file.
const SpillExt = ".dat"

// Dir is a spill directory.
type Dir struct {
	path string
}

// Open ensures the directory exists and returns a handle to it.
func Open(path string) (*Dir, error) {
	if path == "" {
		return nil, fmt.Errorf("spill directory path must not be empty")
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, WrapWriteError(err, path)
	}
	return &Dir{path: path}, nil
}

// Path returns the directory path.
func (d *Dir) Path() string { return d.path }

// Spill writes content under a freshly generated unique name and returns
// the name used. Write failures are classified for the caller.
func (d *Dir) Spill(content []byte) (string, error) {
	name := uuid.New().String() + SpillExt
	full := filepath.Join(d.path, name)
	if err := os.WriteFile(full, content, 0o644); err != nil {
		return "", WrapWriteError(err, full)
	}
	return name, nil
}

// Sweep removes every regular file directly under the directory.
// Subdirectories are left alone. Sweeping an empty directory is a no-op.
// Returns the number of files removed.
func (d *Dir) Sweep() (int, error) {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		return 0, WrapReadError(err, d.path)
	}

	removed := 0
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		full := filepath.Join(d.path, entry.Name())
		if err := os.Remove(full); err != nil {
			return removed, WrapWriteError(err, full)
		}
		removed++
	}
	return removed, nil
}
