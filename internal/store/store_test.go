package store_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"barbershop/internal/domain"
	apperrors "barbershop/internal/errors"
	"barbershop/internal/store"
	"barbershop/internal/store/memory"
)

type failingBackend struct {
	readErr  error
	writeErr error
	data     []byte
	writes   int
}

func (f *failingBackend) Read(ctx context.Context, collection string) ([]byte, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	if f.data == nil {
		return nil, store.ErrCollectionNotFound
	}
	return f.data, nil
}

func (f *failingBackend) Write(ctx context.Context, collection string, data []byte) error {
	f.writes++
	if f.writeErr != nil {
		return f.writeErr
	}
	f.data = data
	return nil
}

func TestNextID(t *testing.T) {
	tests := []struct {
		name    string
		records []domain.Order
		want    int
	}{
		{name: "empty collection", records: nil, want: 1},
		{name: "single record", records: []domain.Order{{ID: 1}}, want: 2},
		{name: "gap after deletion", records: []domain.Order{{ID: 1}, {ID: 4}}, want: 5},
		{name: "unsorted ids", records: []domain.Order{{ID: 7}, {ID: 2}, {ID: 5}}, want: 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, store.NextID(tt.records))
		})
	}
}

func TestNextID_SequenceOfCreations(t *testing.T) {
	var records []domain.Review
	for i := 0; i < 5; i++ {
		prevMax := 0
		for _, r := range records {
			prevMax = max(prevMax, r.ID)
		}

		id := store.NextID(records)
		assert.Equal(t, prevMax+1, id)
		records = append(records, domain.Review{ID: id})
	}

	assert.Equal(t, 5, records[4].ID)
}

func TestCollection_LoadMissingIsEmpty(t *testing.T) {
	orders := store.NewCollection[domain.Order]("orders", memory.New(), zap.NewNop())

	got := orders.Load(context.Background())
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCollection_LoadReadErrorIsEmpty(t *testing.T) {
	backend := &failingBackend{readErr: errors.New("permission denied")}
	orders := store.NewCollection[domain.Order]("orders", backend, zap.NewNop())

	assert.Empty(t, orders.Load(context.Background()))
}

func TestCollection_SaveAndLoadPreservesOrder(t *testing.T) {
	ctx := context.Background()
	orders := store.NewCollection[domain.Order]("orders", memory.New(), zap.NewNop())

	want := []domain.Order{{ID: 3, Name: "c"}, {ID: 1, Name: "a"}, {ID: 2, Name: "b"}}
	require.NoError(t, orders.Save(ctx, want))

	assert.Equal(t, want, orders.Load(ctx))
}

func TestCollection_SaveEmptyWritesArray(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()
	orders := store.NewCollection[domain.Order]("orders", backend, zap.NewNop())

	require.NoError(t, orders.Save(ctx, nil))

	raw, err := backend.Read(ctx, "orders")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(raw))
}

func TestCollection_SaveFailureIsStorageError(t *testing.T) {
	backend := &failingBackend{writeErr: errors.New("disk full")}
	orders := store.NewCollection[domain.Order]("orders", backend, zap.NewNop())

	err := orders.Save(context.Background(), []domain.Order{{ID: 1}})
	require.Error(t, err)

	se, ok := apperrors.IsStorageError(err)
	require.True(t, ok)
	assert.Contains(t, se.Message, "orders")
}

func TestCollection_Exists(t *testing.T) {
	ctx := context.Background()
	orders := store.NewCollection[domain.Order]("orders", memory.New(), zap.NewNop())

	ok, err := orders.Exists(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, orders.Save(ctx, []domain.Order{}))

	ok, err = orders.Exists(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCollection_ExistsReadError(t *testing.T) {
	backend := &failingBackend{readErr: errors.New("connection refused")}
	orders := store.NewCollection[domain.Order]("orders", backend, zap.NewNop())

	_, err := orders.Exists(context.Background())
	_, ok := apperrors.IsStorageError(err)
	assert.True(t, ok)
}

func TestCollection_MutateAbortsOnError(t *testing.T) {
	ctx := context.Background()
	backend := &failingBackend{}
	orders := store.NewCollection[domain.Order]("orders", backend, zap.NewNop())
	require.NoError(t, orders.Save(ctx, []domain.Order{{ID: 1}}))
	writes := backend.writes

	sentinel := apperrors.NewNotFoundError("order 9 not found")
	err := orders.Mutate(ctx, func(records []domain.Order) ([]domain.Order, error) {
		return append(records, domain.Order{ID: 2}), sentinel
	})

	assert.Equal(t, sentinel, err)
	assert.Equal(t, writes, backend.writes)
	assert.Len(t, orders.Load(ctx), 1)
}

func TestCollection_ConcurrentMutateLosesNoUpdates(t *testing.T) {
	ctx := context.Background()
	orders := store.NewCollection[domain.Order]("orders", memory.New(), zap.NewNop())

	const writers = 50
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := orders.Mutate(ctx, func(records []domain.Order) ([]domain.Order, error) {
				return append(records, domain.Order{ID: store.NextID(records)}), nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got := orders.Load(ctx)
	require.Len(t, got, writers)

	seen := make(map[int]bool, writers)
	for _, o := range got {
		assert.False(t, seen[o.ID], "duplicate id %d", o.ID)
		seen[o.ID] = true
	}
	assert.Equal(t, writers+1, store.NextID(got))
}

func TestCollection_LoadSkipsUndecodableRecord(t *testing.T) {
	backend := &failingBackend{data: []byte(`[{"id":1,"name":"a"},{"id":2,"name":{"bad":true}},{"id":3,"name":"c"}]`)}
	orders := store.NewCollection[domain.Order]("orders", backend, zap.NewNop())

	got := orders.Load(context.Background())

	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].ID)
	assert.Equal(t, 3, got[1].ID)
}

func TestCollection_MutateRefusesUnreadableCollection(t *testing.T) {
	tests := []struct {
		name    string
		backend *failingBackend
	}{
		{name: "corrupt document", backend: &failingBackend{data: []byte(`{not json`)}},
		{name: "undecodable record", backend: &failingBackend{data: []byte(`[{"id":1},{"id":2,"name":[1]}]`)}},
		{name: "read error", backend: &failingBackend{readErr: errors.New("permission denied")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders := store.NewCollection[domain.Order]("orders", tt.backend, zap.NewNop())
			called := false

			err := orders.Mutate(context.Background(), func(records []domain.Order) ([]domain.Order, error) {
				called = true
				return append(records, domain.Order{ID: store.NextID(records)}), nil
			})

			_, ok := apperrors.IsStorageError(err)
			assert.True(t, ok)
			assert.False(t, called)
			assert.Zero(t, tt.backend.writes)
		})
	}
}

func TestCollection_MutateOnBlankDocument(t *testing.T) {
	backend := &failingBackend{data: []byte("  \n")}
	orders := store.NewCollection[domain.Order]("orders", backend, zap.NewNop())

	err := orders.Mutate(context.Background(), func(records []domain.Order) ([]domain.Order, error) {
		assert.Empty(t, records)
		return append(records, domain.Order{ID: 1}), nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, backend.writes)
}
