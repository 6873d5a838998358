// Package ioutil provides atomic, durable file writes: write to a temp file
// in the target directory, fsync, then rename over the destination. Named
// ioutil (not io) to avoid shadowing the stdlib package while keeping the
// teacher's package name intent (internal/io/atomic.go).
package ioutil

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// WriteJSONAtomic marshals v as indented JSON and atomically replaces path
// with it: write to a uniquely named path+".tmp-*" file in the same
// directory, fsync, rename. A reader can never
// observe a partially written file, matching the teacher's
// internal/io/atomic.go WriteJSONAtomic and the Python original's
// `_save_state` (`temp_file.replace(self.storage_file)`).
func WriteJSONAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("ioutil: marshal json: %w", err)
	}
	return WriteFileAtomic(path, data, 0o644)
}

// WriteFileAtomic writes data to path atomically via temp-file-write +
// rename, fsyncing the temp file before the rename so the write survives a
// crash between fsync and rename.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("ioutil: create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once the rename below succeeds

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("ioutil: write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("ioutil: fsync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("ioutil: close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("ioutil: chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("ioutil: rename temp file into place: %w", err)
	}
	return nil
}

// ReadJSON unmarshals the file at path into v. Returns the plain os error
// (including os.ErrNotExist) on open failure so callers can distinguish
// "never written" from a corrupt file.
func ReadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("ioutil: unmarshal %s: %w", path, err)
	}
	return nil
}
