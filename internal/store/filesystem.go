package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"creg/internal/registry"
)

// SnapshotFileName is the file holding every collection under a filesystem
// store root.
const SnapshotFileName = "collections.cbor"

// FileSystemStore keeps every collection in one CBOR file:
//
//	<root>/
//	  collections.cbor
//
// Each Set rewrites the file through a temp file and a rename, so readers
// see either the old or the new snapshot and never a partial one.
type FileSystemStore struct {
	snapshotStore
	root string
}

// NewFileSystemStore creates a store rooted at root, creating the directory
// if needed.
func NewFileSystemStore(root string) (*FileSystemStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	s := &FileSystemStore{root: root}
	s.blob = &fileBlob{path: filepath.Join(root, SnapshotFileName)}
	return s, nil
}

// Root returns the directory the store writes to.
func (s *FileSystemStore) Root() string {
	return s.root
}

// Close is a no-op; no file handles are held between calls.
func (s *FileSystemStore) Close() error {
	return nil
}

type fileBlob struct {
	path string
}

func (b *fileBlob) load() ([]byte, bool, error) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading %s: %w", b.path, err)
	}
	return data, true, nil
}

// save writes data using an atomic write (temp file + rename).
func (b *fileBlob) save(data []byte) error {
	// The temp file lives in the target directory so the rename stays on one
	// filesystem.
	tmpFile, err := os.CreateTemp(filepath.Dir(b.path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write data: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, b.path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

var _ registry.Store = (*FileSystemStore)(nil)
