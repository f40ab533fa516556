package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"

	"github.com/cockroachdb/pebble"
	"github.com/pkg/errors"

	"api_retail/internal/apperr"
)

// PebbleStore implements Store on an on-disk PebbleDB. Records live under
// "<collection>/<key>"; writes are serialized so Mutate is atomic.
type PebbleStore struct {
	db *pebble.DB
	mu sync.Mutex
}

// NewPebbleStore opens (or creates) the database under dir.
func NewPebbleStore(dir string) (*PebbleStore, error) {
	opts := &pebble.Options{
		MemTableSize:             64 << 20,
		MaxConcurrentCompactions: func() int { return 2 },
		L0CompactionThreshold:    4,
		L0StopWritesThreshold:    8,
	}
	db, err := pebble.Open(filepath.Clean(dir), opts)
	if err != nil {
		return nil, errors.Wrap(err, "pebble open")
	}
	return &PebbleStore{db: db}, nil
}

func (p *PebbleStore) Close() error { return p.db.Close() }

func recordKey(collection, key string) []byte {
	return []byte(collection + "/" + key)
}

// collectionBounds covers every key with the "<collection>/" prefix; '0' sorts right after '/'.
func collectionBounds(collection string) (lower, upper []byte) {
	return []byte(collection + "/"), []byte(collection + "0")
}

func unavailable(err error, op string) error {
	return errors.Wrapf(apperr.ErrStoreUnavailable, "pebble %s: %v", op, err)
}

func (p *PebbleStore) Get(ctx context.Context, collection string) ([]Document, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	lower, upper := collectionBounds(collection)
	it, err := p.db.NewIter(&pebble.IterOptions{LowerBound: lower, UpperBound: upper})
	if err != nil {
		return nil, unavailable(err, "iter")
	}
	defer it.Close()

	docs := make([]Document, 0)
	for it.First(); it.Valid(); it.Next() {
		docs = append(docs, Document{
			Key:  string(it.Key()[len(lower):]),
			Data: clone(it.Value()),
		})
	}
	if err := it.Error(); err != nil {
		return nil, unavailable(err, "iter")
	}
	return docs, nil
}

func (p *PebbleStore) Lookup(ctx context.Context, collection, key string) (Document, error) {
	if err := checkContext(ctx); err != nil {
		return Document{}, err
	}
	data, err := p.read(collection, key)
	if err != nil {
		return Document{}, err
	}
	return Document{Key: key, Data: data}, nil
}

func (p *PebbleStore) read(collection, key string) (json.RawMessage, error) {
	v, closer, err := p.db.Get(recordKey(collection, key))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, errors.Wrapf(apperr.ErrNotFound, "%s/%s", collection, key)
	}
	if err != nil {
		return nil, unavailable(err, "get")
	}
	defer closer.Close()
	return clone(v), nil
}

func (p *PebbleStore) Push(ctx context.Context, collection string, data json.RawMessage) (string, error) {
	key, err := NewKey()
	if err != nil {
		return "", errors.Wrap(apperr.ErrStoreUnavailable, err.Error())
	}
	if err := p.Set(ctx, collection, key, data); err != nil {
		return "", err
	}
	return key, nil
}

func (p *PebbleStore) Set(ctx context.Context, collection, key string, data json.RawMessage) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.db.Set(recordKey(collection, key), data, pebble.Sync); err != nil {
		return unavailable(err, "set")
	}
	return nil
}

func (p *PebbleStore) Update(ctx context.Context, collection, key string, partial map[string]any) error {
	return p.Mutate(ctx, collection, key, func(current json.RawMessage) (json.RawMessage, error) {
		return mergePatch(current, partial)
	})
}

func (p *PebbleStore) Remove(ctx context.Context, collection, key string) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, err := p.read(collection, key); err != nil {
		return err
	}
	if err := p.db.Delete(recordKey(collection, key), pebble.Sync); err != nil {
		return unavailable(err, "delete")
	}
	return nil
}

func (p *PebbleStore) Mutate(ctx context.Context, collection, key string, fn MutateFunc) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	current, err := p.read(collection, key)
	if err != nil {
		return err
	}
	next, err := fn(current)
	if err != nil {
		return err
	}
	if err := p.db.Set(recordKey(collection, key), next, pebble.Sync); err != nil {
		return unavailable(err, "set")
	}
	return nil
}
