package prerender

import (
	"context"
	"os"
	"path/filepath"
)

// Store receives prerendered documents. Path is slash-separated and
// relative, e.g. "about/index.html".
type Store interface {
	Put(ctx context.Context, path string, data []byte) error
}

// DiskStore writes documents under a root directory.
type DiskStore struct {
	Root string
}

// NewDiskStore creates a store rooted at dir.
func NewDiskStore(dir string) *DiskStore {
	return &DiskStore{Root: dir}
}

func (s *DiskStore) Put(ctx context.Context, path string, data []byte) error {
	full := filepath.Join(s.Root, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return err
	}
	return os.WriteFile(full, data, 0644)
}
