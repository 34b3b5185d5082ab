// Package memory implements an in-memory collection backend.
package memory

import (
	"context"
	"sync"

	"barbershop/internal/store"
)

var _ store.Backend = (*Backend)(nil)

// Backend keeps each collection's encoded form in a map.
type Backend struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// New creates an empty in-memory backend.
func New() *Backend {
	return &Backend{data: make(map[string][]byte)}
}

// Read returns a copy of the stored bytes.
func (b *Backend) Read(ctx context.Context, collection string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	data, ok := b.data[collection]
	if !ok {
		return nil, store.ErrCollectionNotFound
	}
	return append([]byte(nil), data...), nil
}

// Write replaces the stored bytes.
func (b *Backend) Write(ctx context.Context, collection string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data[collection] = append([]byte(nil), data...)
	return nil
}
