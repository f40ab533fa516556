package store

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/pkg/errors"

	"api_retail/internal/apperr"
)

// MemoryStore is a thread-safe in-memory Store.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]json.RawMessage
}

// NewMemoryStore instantiates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: map[string]map[string]json.RawMessage{}}
}

func (m *MemoryStore) Get(ctx context.Context, collection string) ([]Document, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	docs := make([]Document, 0, len(m.collections[collection]))
	for key, data := range m.collections[collection] {
		docs = append(docs, Document{Key: key, Data: clone(data)})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Key < docs[j].Key })
	return docs, nil
}

func (m *MemoryStore) Lookup(ctx context.Context, collection, key string) (Document, error) {
	if err := checkContext(ctx); err != nil {
		return Document{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.collections[collection][key]
	if !ok {
		return Document{}, errors.Wrapf(apperr.ErrNotFound, "%s/%s", collection, key)
	}
	return Document{Key: key, Data: clone(data)}, nil
}

func (m *MemoryStore) Push(ctx context.Context, collection string, data json.RawMessage) (string, error) {
	if err := checkContext(ctx); err != nil {
		return "", err
	}
	key, err := NewKey()
	if err != nil {
		return "", errors.Wrap(apperr.ErrStoreUnavailable, err.Error())
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.collection(collection)[key] = clone(data)
	return key, nil
}

func (m *MemoryStore) Set(ctx context.Context, collection, key string, data json.RawMessage) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.collection(collection)[key] = clone(data)
	return nil
}

func (m *MemoryStore) Update(ctx context.Context, collection, key string, partial map[string]any) error {
	return m.Mutate(ctx, collection, key, func(current json.RawMessage) (json.RawMessage, error) {
		return mergePatch(current, partial)
	})
}

func (m *MemoryStore) Remove(ctx context.Context, collection, key string) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	docs := m.collections[collection]
	if _, ok := docs[key]; !ok {
		return errors.Wrapf(apperr.ErrNotFound, "%s/%s", collection, key)
	}
	delete(docs, key)
	return nil
}

func (m *MemoryStore) Mutate(ctx context.Context, collection, key string, fn MutateFunc) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.collections[collection][key]
	if !ok {
		return errors.Wrapf(apperr.ErrNotFound, "%s/%s", collection, key)
	}
	next, err := fn(clone(current))
	if err != nil {
		return err
	}
	m.collections[collection][key] = clone(next)
	return nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error { return nil }

func (m *MemoryStore) collection(name string) map[string]json.RawMessage {
	docs, ok := m.collections[name]
	if !ok {
		docs = map[string]json.RawMessage{}
		m.collections[name] = docs
	}
	return docs
}

func checkContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(apperr.ErrStoreUnavailable, err.Error())
	}
	return nil
}
