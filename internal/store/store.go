// Package store is the record store gateway: named collections of JSON
// documents keyed by store-generated identifiers.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Collections used by the retail service.
const (
	Products       = "products"
	Sales          = "sales"
	Employees      = "employees"
	Suppliers      = "suppliers"
	Customers      = "customers"
	Competitors    = "competitors"
	Campaigns      = "campaigns"
	Feedback       = "feedback"
	SeasonalEvents = "seasonal-events"
	PurchaseOrders = "purchase-orders"
	ReorderPoints  = "reorder-points"
	PurchasePlans  = "purchase-plans"
)

// Document is a single record of a collection.
type Document struct {
	Key  string
	Data json.RawMessage
}

// MutateFunc receives the current record and returns its replacement.
// Returning an error aborts the mutation and leaves the record untouched.
type MutateFunc func(current json.RawMessage) (json.RawMessage, error)

// Store is the contract every backend implements. Get returns documents
// ordered by key; generated keys are time-ordered so this is insertion order.
type Store interface {
	Get(ctx context.Context, collection string) ([]Document, error)
	Lookup(ctx context.Context, collection, key string) (Document, error)
	Push(ctx context.Context, collection string, data json.RawMessage) (string, error)
	Set(ctx context.Context, collection, key string, data json.RawMessage) error
	Update(ctx context.Context, collection, key string, partial map[string]any) error
	Remove(ctx context.Context, collection, key string) error
	// Mutate applies fn to one record atomically with respect to every other
	// write on the same store.
	Mutate(ctx context.Context, collection, key string, fn MutateFunc) error
	Close() error
}

// NewKey returns a fresh time-ordered record key.
func NewKey() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate key: %w", err)
	}
	return id.String(), nil
}

// mergePatch applies a shallow partial update to a JSON object.
func mergePatch(current json.RawMessage, partial map[string]any) (json.RawMessage, error) {
	fields := map[string]json.RawMessage{}
	if len(current) > 0 {
		if err := json.Unmarshal(current, &fields); err != nil {
			return nil, fmt.Errorf("decode record: %w", err)
		}
	}
	for name, value := range partial {
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("encode field %s: %w", name, err)
		}
		fields[name] = raw
	}
	return json.Marshal(fields)
}

func clone(data []byte) json.RawMessage {
	if data == nil {
		return nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out
}
