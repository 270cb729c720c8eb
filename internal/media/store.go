package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Store persists uploaded bytes under a flat name.
type Store interface {
	Put(ctx context.Context, name string, data []byte) error
}

// DiskStore writes files into the public uploads directory.
type DiskStore struct {
	dir string
}

// NewDiskStore creates the directory if needed.
func NewDiskStore(dir string) (*DiskStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("upload dir required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %q: %w", dir, err)
	}
	return &DiskStore{dir: dir}, nil
}

// Dir returns the root the store writes into.
func (s *DiskStore) Dir() string {
	return s.dir
}

// Put refuses to overwrite an existing file.
func (s *DiskStore) Put(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if name == "" || filepath.Base(name) != name {
		return fmt.Errorf("invalid file name %q", name)
	}
	target := filepath.Join(s.dir, name)
	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("open %q: %w", target, err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(target)
		return fmt.Errorf("write %q: %w", target, err)
	}
	return f.Close()
}
