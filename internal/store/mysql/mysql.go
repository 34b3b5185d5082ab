package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"barbershop/internal/store"
)

var _ store.Backend = (*Backend)(nil)

const createTableQuery = `
	CREATE TABLE IF NOT EXISTS record_collections (
		name VARCHAR(64) NOT NULL PRIMARY KEY,
		payload LONGTEXT NOT NULL,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	) DEFAULT CHARSET = utf8mb4`

// Backend keeps every collection as a single JSON document row, so a save
// replaces the collection in one statement.
type Backend struct {
	db *sql.DB
}

func New(db *sql.DB) *Backend {
	return &Backend{db: db}
}

func (b *Backend) EnsureSchema(ctx context.Context) error {
	if _, err := b.db.ExecContext(ctx, createTableQuery); err != nil {
		return fmt.Errorf("creating record_collections table: %w", err)
	}
	return nil
}

func (b *Backend) Read(ctx context.Context, collection string) ([]byte, error) {
	query := `SELECT payload FROM record_collections WHERE name = ?`

	var payload string
	err := b.db.QueryRowContext(ctx, query, collection).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrCollectionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying collection %s: %w", collection, err)
	}

	return []byte(payload), nil
}

func (b *Backend) Write(ctx context.Context, collection string, data []byte) error {
	query := `
		INSERT INTO record_collections (name, payload)
		VALUES (?, ?)
		ON DUPLICATE KEY UPDATE payload = VALUES(payload)
	`

	if _, err := b.db.ExecContext(ctx, query, collection, string(data)); err != nil {
		return fmt.Errorf("writing collection %s: %w", collection, err)
	}

	return nil
}
