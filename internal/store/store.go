// Package store persists record collections as whole units. A collection is
// read fully, modified in memory and written back fully.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	apperrors "barbershop/internal/errors"
	"barbershop/internal/infrastructure/metrics"
)

// ErrCollectionNotFound is returned by a Backend when nothing has been
// written for a collection yet.
var ErrCollectionNotFound = errors.New("collection not found")

type Record interface {
	RecordID() int
}

// Backend is the durable medium behind a collection. Data is the JSON
// encoding of the whole collection.
type Backend interface {
	Read(ctx context.Context, collection string) ([]byte, error)
	Write(ctx context.Context, collection string, data []byte) error
}

type Collection[T Record] struct {
	name    string
	backend Backend
	logger  *zap.Logger

	// mu serialises Mutate calls so concurrent writers cannot interleave a
	// load/save cycle within this process.
	mu sync.Mutex
}

func NewCollection[T Record](name string, backend Backend, logger *zap.Logger) *Collection[T] {
	return &Collection[T]{
		name:    name,
		backend: backend,
		logger:  logger.With(zap.String("collection", name)),
	}
}

func (c *Collection[T]) Name() string {
	return c.name
}

// Load returns the persisted records in order. A missing, unreadable or
// corrupt collection loads as empty. Individual records that cannot be
// decoded are skipped.
func (c *Collection[T]) Load(ctx context.Context) []T {
	records, err := c.load(ctx)
	if err != nil && !errors.Is(err, ErrCollectionNotFound) {
		c.logger.Warn("loading collection failed", zap.Int("recovered", len(records)), zap.Error(err))
	}
	if records == nil {
		records = []T{}
	}
	return records
}

// load decodes each record on its own so one bad record does not hide the
// rest. It returns the records it could decode together with the first
// error met.
func (c *Collection[T]) load(ctx context.Context) ([]T, error) {
	data, err := c.backend.Read(ctx, c.name)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []T{}, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", c.name, err)
	}

	records := make([]T, 0, len(raw))
	var firstErr error
	for i, item := range raw {
		var record T
		if err := json.Unmarshal(item, &record); err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("decoding %s record %d: %w", c.name, i, err)
			}
			continue
		}
		records = append(records, record)
	}

	return records, firstErr
}

// Save replaces the whole collection.
func (c *Collection[T]) Save(ctx context.Context, records []T) error {
	data, err := encode(records)
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("encoding %s", c.name), err)
	}

	if err := c.backend.Write(ctx, c.name, data); err != nil {
		metrics.StorageErrorsTotal.WithLabelValues(c.name).Inc()
		c.logger.Error("writing collection failed", zap.Error(err))
		return apperrors.NewStorageError(fmt.Sprintf("saving %s", c.name), err)
	}

	return nil
}

// Exists reports whether the collection has ever been written.
func (c *Collection[T]) Exists(ctx context.Context) (bool, error) {
	_, err := c.backend.Read(ctx, c.name)
	if errors.Is(err, ErrCollectionNotFound) {
		return false, nil
	}
	if err != nil {
		return false, apperrors.NewStorageError(fmt.Sprintf("reading %s", c.name), err)
	}
	return true, nil
}

// Mutate runs one load, modify, save cycle while holding the collection's
// writer lock. If fn returns an error nothing is saved and the error is
// returned unchanged. A collection that exists but cannot be fully read is
// never overwritten; Mutate returns a StorageError instead.
func (c *Collection[T]) Mutate(ctx context.Context, fn func(records []T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	current, err := c.load(ctx)
	switch {
	case errors.Is(err, ErrCollectionNotFound):
		current = []T{}
	case err != nil:
		metrics.StorageErrorsTotal.WithLabelValues(c.name).Inc()
		c.logger.Error("refusing to overwrite unreadable collection", zap.Error(err))
		return apperrors.NewStorageError(fmt.Sprintf("reading %s", c.name), err)
	}

	records, err := fn(current)
	if err != nil {
		return err
	}

	return c.Save(ctx, records)
}

// NextID returns 1 for an empty collection, otherwise one more than the
// largest id present. Ids of deleted records are never handed out again
// unless they were the largest.
func NextID[T Record](records []T) int {
	maxID := 0
	for _, r := range records {
		if id := r.RecordID(); id > maxID {
			maxID = id
		}
	}
	return maxID + 1
}

func encode[T Record](records []T) ([]byte, error) {
	if records == nil {
		records = []T{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
