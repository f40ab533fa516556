package sales

import (
	"context"

	"go.uber.org/zap"

	"api_retail/internal/store"
)

// Storage is the main interface for our sales storage layer. Sales are
// append-only: there is no update nor delete.
type Storage interface {
	Add(ctx context.Context, sale Sale) (Sale, error)
	GetAll(ctx context.Context) ([]Sale, error)
}

// RecordStorage keeps sales in the record store's sales collection.
type RecordStorage struct {
	sales *store.Repository[Sale]
}

// NewRecordStorage instantiates a RecordStorage on s.
func NewRecordStorage(s store.Store, logger *zap.Logger) *RecordStorage {
	return &RecordStorage{sales: store.NewRepository[Sale](s, store.Sales, logger)}
}

// Add pushes a new sale and returns it with its generated ID.
func (r *RecordStorage) Add(ctx context.Context, sale Sale) (Sale, error) {
	sale.ID = ""
	return r.sales.Create(ctx, sale)
}

// GetAll returns every sale in recording order.
func (r *RecordStorage) GetAll(ctx context.Context) ([]Sale, error) {
	return r.sales.List(ctx)
}
