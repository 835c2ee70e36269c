// Package statestore persists per-workspace preset selections as JSON under
// the workspace's .crest directory.
package statestore

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/crest/internal/core/domain"
	"go.trai.ch/crest/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.SelectionStore = (*Store)(nil)

// Store implements ports.SelectionStore on the local file system.
type Store struct {
	mu sync.Mutex
}

// NewStore creates a new selection store.
func NewStore() *Store {
	return &Store{}
}

// Get retrieves the selection record for a workspace. A missing state file
// yields nil without error.
func (s *Store) Get(workspace string) (*domain.Selection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := domain.DefaultStatePath(workspace)
	//nolint:gosec // the path is derived from the workspace folder
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStateReadFailed.Error()), "path", path)
	}

	var sel domain.Selection
	if err := json.Unmarshal(data, &sel); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStateReadFailed.Error()), "path", path)
	}

	return &sel, nil
}

// Put stores the selection record for a workspace via write-to-temp plus
// atomic rename.
func (s *Store) Put(workspace string, sel *domain.Selection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := domain.DefaultStatePath(workspace)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStateWriteFailed.Error()), "path", path)
	}

	data, err := json.MarshalIndent(sel, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStateWriteFailed.Error())
	}

	tmpFile, err := os.CreateTemp(dir, "state-*.json")
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStateWriteFailed.Error()), "path", path)
	}
	tmpName := tmpFile.Name()

	defer func() {
		if _, err := os.Stat(tmpName); err == nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return zerr.With(zerr.Wrap(err, domain.ErrStateWriteFailed.Error()), "path", path)
	}
	if err := tmpFile.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStateWriteFailed.Error()), "path", path)
	}
	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStateWriteFailed.Error()), "path", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStateWriteFailed.Error()), "path", path)
	}

	return nil
}
