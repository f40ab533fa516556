package store

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"api_retail/internal/apperr"
)

func backends(t *testing.T) map[string]Store {
	pebbleStore, err := NewPebbleStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = pebbleStore.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"pebble": pebbleStore,
	}
}

func TestStore_Contract(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			first, err := s.Push(ctx, Products, json.RawMessage(`{"name":"Arroz","quantity":5}`))
			require.NoError(t, err)
			second, err := s.Push(ctx, Products, json.RawMessage(`{"name":"Feijao","quantity":2}`))
			require.NoError(t, err)
			_, err = s.Push(ctx, Sales, json.RawMessage(`{"quantity":1}`))
			require.NoError(t, err)

			docs, err := s.Get(ctx, Products)
			require.NoError(t, err)
			require.Len(t, docs, 2)
			assert.Equal(t, first, docs[0].Key, "generated keys keep insertion order")
			assert.Equal(t, second, docs[1].Key)

			require.NoError(t, s.Update(ctx, Products, first, map[string]any{"quantity": 7}))
			doc, err := s.Lookup(ctx, Products, first)
			require.NoError(t, err)
			assert.JSONEq(t, `{"name":"Arroz","quantity":7}`, string(doc.Data))

			require.NoError(t, s.Set(ctx, ReorderPoints, first, json.RawMessage(`{"point":3}`)))
			doc, err = s.Lookup(ctx, ReorderPoints, first)
			require.NoError(t, err)
			assert.JSONEq(t, `{"point":3}`, string(doc.Data))

			require.NoError(t, s.Remove(ctx, Products, second))
			_, err = s.Lookup(ctx, Products, second)
			assert.ErrorIs(t, err, apperr.ErrNotFound)
			assert.ErrorIs(t, s.Remove(ctx, Products, second), apperr.ErrNotFound)
			assert.ErrorIs(t, s.Update(ctx, Products, second, map[string]any{"quantity": 1}), apperr.ErrNotFound)

			empty, err := s.Get(ctx, Campaigns)
			require.NoError(t, err)
			assert.Empty(t, empty)
		})
	}
}

func TestStore_MutateAbortLeavesRecord(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			key, err := s.Push(ctx, Products, json.RawMessage(`{"quantity":5}`))
			require.NoError(t, err)

			err = s.Mutate(ctx, Products, key, func(json.RawMessage) (json.RawMessage, error) {
				return nil, apperr.ErrInsufficientStock
			})
			assert.ErrorIs(t, err, apperr.ErrInsufficientStock)

			doc, err := s.Lookup(ctx, Products, key)
			require.NoError(t, err)
			assert.JSONEq(t, `{"quantity":5}`, string(doc.Data))
		})
	}
}

func TestStore_ConcurrentMutate(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			key, err := s.Push(ctx, Products, json.RawMessage(`{"quantity":0}`))
			require.NoError(t, err)

			var wg sync.WaitGroup
			for i := 0; i < 50; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					err := s.Mutate(ctx, Products, key, func(current json.RawMessage) (json.RawMessage, error) {
						var rec struct {
							Quantity int `json:"quantity"`
						}
						if err := json.Unmarshal(current, &rec); err != nil {
							return nil, err
						}
						rec.Quantity++
						return json.Marshal(rec)
					})
					if err != nil {
						t.Errorf("mutate: %v", err)
					}
				}()
			}
			wg.Wait()

			doc, err := s.Lookup(ctx, Products, key)
			require.NoError(t, err)
			assert.JSONEq(t, `{"quantity":50}`, string(doc.Data))
		})
	}
}

func TestStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMemoryStore().Get(ctx, Products)
	assert.ErrorIs(t, err, apperr.ErrStoreUnavailable)
}

func TestPebbleStore_Reopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := NewPebbleStore(dir)
	require.NoError(t, err)
	key, err := s.Push(ctx, Customers, json.RawMessage(`{"name":"Ana"}`))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = NewPebbleStore(dir)
	require.NoError(t, err)
	defer s.Close()

	doc, err := s.Lookup(ctx, Customers, key)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Ana"}`, string(doc.Data))
}
