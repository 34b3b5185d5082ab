// Package bootstrap seeds empty storage with example records so a fresh
// install has something to show.
package bootstrap

import (
	"context"
	_ "embed"
	"fmt"

	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"

	"barbershop/internal/domain"
)

//go:embed seed.yaml
var defaultSeed []byte

type SeedData struct {
	Orders  []domain.Order  `yaml:"orders"`
	Reviews []domain.Review `yaml:"reviews"`
}

type Collection[T any] interface {
	Name() string
	Exists(ctx context.Context) (bool, error)
	Save(ctx context.Context, records []T) error
}

func DefaultSeed() (*SeedData, error) {
	return ParseSeed(defaultSeed)
}

func ParseSeed(data []byte) (*SeedData, error) {
	var seed SeedData
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parsing seed data: %w", err)
	}
	return &seed, nil
}

// Seed writes the seed records into each collection that has never been
// written. Existing collections, including empty ones, are left alone.
func Seed(ctx context.Context, seed *SeedData, orders Collection[domain.Order], reviews Collection[domain.Review], logger *zap.Logger) error {
	if err := seedCollection(ctx, orders, seed.Orders, logger); err != nil {
		return err
	}
	return seedCollection(ctx, reviews, seed.Reviews, logger)
}

func seedCollection[T any](ctx context.Context, c Collection[T], records []T, logger *zap.Logger) error {
	exists, err := c.Exists(ctx)
	if err != nil {
		return fmt.Errorf("checking %s: %w", c.Name(), err)
	}
	if exists {
		return nil
	}

	if err := c.Save(ctx, records); err != nil {
		return fmt.Errorf("seeding %s: %w", c.Name(), err)
	}

	logger.Info("seeded collection", zap.String("collection", c.Name()), zap.Int("records", len(records)))
	return nil
}
