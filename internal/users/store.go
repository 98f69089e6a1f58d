package users

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Store persists the full ordered user list.
type Store interface {
	// LoadAll returns every stored user in file order.
	LoadAll(ctx context.Context) ([]User, error)
	// SaveAll replaces the stored list with users.
	SaveAll(ctx context.Context, users []User) error
}

// FileStore is a Store backed by a single JSON array on disk. It keeps no
// state between calls and takes no locks: every LoadAll reads the file
// afresh and every SaveAll rewrites it in full.
type FileStore struct {
	path string
	mode os.FileMode
}

// NewFileStore returns a FileStore for the JSON file at path. The file does
// not need to exist yet.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, mode: 0o644}
}

// Path returns the backing file location.
func (s *FileStore) Path() string { return s.path }

// LoadAll reads the backing file. A missing or blank file is an empty store.
func (s *FileStore) LoadAll(ctx context.Context) ([]User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []User{}, nil
	}
	if err != nil {
		return nil, &StoreError{Op: OpRead, Path: s.path, Err: err}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []User{}, nil
	}

	var list []User
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, &StoreError{Op: OpRead, Path: s.path, Err: fmt.Errorf("%w: %v", ErrCorruptStore, err)}
	}
	if list == nil {
		list = []User{}
	}
	return list, nil
}

// SaveAll writes users as 2-space indented JSON, replacing the file via a
// temp file and rename. Concurrent writers are not merged; the last rename
// wins.
func (s *FileStore) SaveAll(ctx context.Context, users []User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if users == nil {
		users = []User{}
	}

	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return &StoreError{Op: OpWrite, Path: s.path, Err: err}
	}
	if err := writeFile(s.path, data, s.mode); err != nil {
		return &StoreError{Op: OpWrite, Path: s.path, Err: err}
	}
	return nil
}

// writeFile writes b to a temp file next to path, then renames it over path.
func writeFile(path string, b []byte, mode os.FileMode) error {
	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()

	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Chmod(mode); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

var _ Store = (*FileStore)(nil)
