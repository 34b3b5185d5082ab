// Package file stores each collection as an indented JSON array in its own
// file inside a data directory.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"barbershop/internal/store"
)

var _ store.Backend = (*Backend)(nil)

type Backend struct {
	dir string
}

func New(dir string) (*Backend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &Backend{dir: dir}, nil
}

func (b *Backend) Path(collection string) string {
	return filepath.Join(b.dir, collection+".json")
}

func (b *Backend) Read(ctx context.Context, collection string) ([]byte, error) {
	data, err := os.ReadFile(b.Path(collection))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, store.ErrCollectionNotFound
		}
		return nil, fmt.Errorf("reading %s: %w", collection, err)
	}
	return data, nil
}

// Write stages the new contents in a temporary file next to the target and
// renames it into place, so readers see either the old or the new file.
func (b *Backend) Write(ctx context.Context, collection string, data []byte) error {
	tmp, err := os.CreateTemp(b.dir, collection+"-*.json.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", collection, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", collection, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing %s: %w", collection, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing %s: %w", collection, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("setting permissions on %s: %w", collection, err)
	}

	if err := os.Rename(tmpName, b.Path(collection)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", collection, err)
	}

	return nil
}
