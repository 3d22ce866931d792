// Package store implements the durable credential and session stores.
//
// Each store owns an in-memory table synced to a JSON snapshot on
// disk: the snapshot is loaded once at startup and the entire file is
// rewritten before any mutation reports success. There is no append
// log and no partial-write protection; a failed write is returned to
// the caller, never reported as success.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Common errors for store operations.
var (
	// ErrInvalidInput indicates a missing or malformed field.
	ErrInvalidInput = errors.New("invalid input")
	// ErrConflict indicates the username is already taken.
	ErrConflict = errors.New("username already exists")
)

// loadSnapshot reads the snapshot at path into out. Returns false
// with no error when the file does not exist yet.
func loadSnapshot(path string, out any) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read snapshot %s: %w", path, err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("decode snapshot %s: %w", path, err)
	}

	return true, nil
}

// saveSnapshot rewrites the snapshot at path with the full state of v.
func saveSnapshot(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write snapshot %s: %w", path, err)
	}

	return nil
}
