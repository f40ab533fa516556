package sales

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"api_retail/internal/apperr"
	"api_retail/internal/auth"
	"api_retail/internal/metrics"
	"api_retail/internal/products"
	"api_retail/internal/store"
)

type fixture struct {
	svc      *Service
	products *products.Service
	storage  *RecordStorage
	metrics  *metrics.Registry
}

func setup(t *testing.T) fixture {
	s := store.NewMemoryStore()
	logger := zaptest.NewLogger(t)
	m := metrics.NewRegistry()
	productService := products.NewService(s, logger, m)
	storage := NewRecordStorage(s, logger)
	svc := NewService(storage, productService, logger, m)
	svc.now = func() time.Time { return time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC) }
	svc.releaseBackOff = func() backoff.BackOff { return backoff.WithMaxRetries(&backoff.ZeroBackOff{}, 3) }
	return fixture{svc: svc, products: productService, storage: storage, metrics: m}
}

func (f fixture) addProduct(t *testing.T, qty int, price int64) products.Product {
	p, err := f.products.Create(context.Background(), products.Product{
		Name:          "Arroz",
		Category:      "cereais",
		Quantity:      qty,
		PurchasePrice: decimal.NewFromInt(price / 2),
		SalePrice:     decimal.NewFromInt(price),
		ExpiryDate:    "2027-03-01",
	})
	require.NoError(t, err)
	return p
}

func TestNewService(t *testing.T) {
	svc := NewService(NewRecordStorage(store.NewMemoryStore(), nil), nil, zaptest.NewLogger(t), nil)

	if svc == nil {
		t.Fatal("NewService returned nil")
	}
	if svc.storage == nil {
		t.Error("Service storage was not initialized")
	}
	if svc.metrics == nil {
		t.Error("Service metrics were not initialized")
	}
}

func TestRecordSale_Scenario(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p := f.addProduct(t, 5, 100)

	sale, err := f.svc.RecordSale(ctx, SaleRequest{ProductID: p.ID, Quantity: 3, Seller: auth.Staff})
	require.NoError(t, err)
	assert.NotEmpty(t, sale.ID)
	assert.Equal(t, "Arroz", sale.ProductName)
	assert.True(t, sale.UnitPrice.Equal(decimal.NewFromInt(100)))
	assert.True(t, sale.Total.Equal(decimal.NewFromInt(300)))
	assert.Equal(t, auth.Staff, sale.Seller)

	got, err := f.products.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Quantity)

	_, err = f.svc.RecordSale(ctx, SaleRequest{ProductID: p.ID, Quantity: 3, Seller: auth.Admin})
	assert.ErrorIs(t, err, apperr.ErrInsufficientStock)

	got, err = f.products.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Quantity)

	history, err := f.svc.History(ctx)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.SalesRecorded))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.SalesRejected.WithLabelValues("insufficient_stock")))
}

func TestRecordSale_PriceSnapshot(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p := f.addProduct(t, 10, 50)

	first, err := f.svc.RecordSale(ctx, SaleRequest{ProductID: p.ID, Quantity: 2, Seller: auth.Staff})
	require.NoError(t, err)

	edit, err := f.products.Get(ctx, p.ID)
	require.NoError(t, err)
	edit.SalePrice = decimal.NewFromInt(70)
	_, err = f.products.Update(ctx, p.ID, edit)
	require.NoError(t, err)

	second, err := f.svc.RecordSale(ctx, SaleRequest{ProductID: p.ID, Quantity: 1, Seller: auth.Staff})
	require.NoError(t, err)

	assert.True(t, first.Total.Equal(decimal.NewFromInt(100)))
	assert.True(t, second.Total.Equal(decimal.NewFromInt(70)))

	history, err := f.svc.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.True(t, history[0].UnitPrice.Equal(decimal.NewFromInt(50)), "recorded sales keep their price")
}

func TestRecordSale_Validation(t *testing.T) {
	f := setup(t)
	p := f.addProduct(t, 5, 100)

	cases := map[string]SaleRequest{
		"missing product":   {Quantity: 1, Seller: auth.Staff},
		"zero quantity":     {ProductID: p.ID, Quantity: 0, Seller: auth.Staff},
		"negative quantity": {ProductID: p.ID, Quantity: -2, Seller: auth.Staff},
		"unknown seller":    {ProductID: p.ID, Quantity: 1, Seller: "owner"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			sale, err := f.svc.RecordSale(context.Background(), req)
			assert.Nil(t, sale)
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}

	got, err := f.products.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Quantity)
}

func TestRecordSale_UnknownProduct(t *testing.T) {
	f := setup(t)
	_, err := f.svc.RecordSale(context.Background(), SaleRequest{ProductID: "missing", Quantity: 1, Seller: auth.Staff})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRecordSale_Concurrent(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p := f.addProduct(t, 5, 100)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.RecordSale(ctx, SaleRequest{ProductID: p.ID, Quantity: 3, Seller: auth.Staff})
		}(i)
	}
	wg.Wait()

	succeeded, rejected := 0, 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else if errors.Is(err, apperr.ErrInsufficientStock) {
			rejected++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, rejected)

	history, err := f.svc.History(ctx)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	got, err := f.products.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Quantity)
}

// failingStorage refuses every write.
type failingStorage struct {
	Storage
}

func (failingStorage) Add(context.Context, Sale) (Sale, error) {
	return Sale{}, apperr.ErrStoreUnavailable
}

func TestRecordSale_CompensatesFailedWrite(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p := f.addProduct(t, 5, 100)
	f.svc.storage = failingStorage{Storage: f.storage}

	sale, err := f.svc.RecordSale(ctx, SaleRequest{ProductID: p.ID, Quantity: 3, Seller: auth.Staff})
	assert.Nil(t, sale)
	assert.ErrorIs(t, err, apperr.ErrStoreUnavailable)

	got, err := f.products.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Quantity, "reserved stock is given back")

	history, err := f.storage.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, history)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.SaleCompensations.WithLabelValues("released")))
}

// flakyStock fails the first releases before delegating.
type flakyStock struct {
	StockKeeper
	failures int
	calls    int
}

func (s *flakyStock) ReleaseStock(ctx context.Context, id string, q int) (products.Product, error) {
	s.calls++
	if s.calls <= s.failures {
		return products.Product{}, apperr.ErrStoreUnavailable
	}
	return s.StockKeeper.ReleaseStock(ctx, id, q)
}

func TestRecordSale_RetriesRelease(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p := f.addProduct(t, 4, 10)
	stock := &flakyStock{StockKeeper: f.products, failures: 2}
	f.svc.stock = stock
	f.svc.storage = failingStorage{Storage: f.storage}

	_, err := f.svc.RecordSale(ctx, SaleRequest{ProductID: p.ID, Quantity: 4, Seller: auth.Admin})
	assert.ErrorIs(t, err, apperr.ErrStoreUnavailable)
	assert.Equal(t, 3, stock.calls)

	got, err := f.products.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Quantity)
}

func TestRecordSale_ReleaseGivesUp(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p := f.addProduct(t, 4, 10)
	f.svc.stock = &flakyStock{StockKeeper: f.products, failures: 100}
	f.svc.storage = failingStorage{Storage: f.storage}

	_, err := f.svc.RecordSale(ctx, SaleRequest{ProductID: p.ID, Quantity: 1, Seller: auth.Admin})
	assert.ErrorIs(t, err, apperr.ErrStoreUnavailable)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.SaleCompensations.WithLabelValues("failed")))
}

func TestList_NewestFirst(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p := f.addProduct(t, 10, 20)

	for q := 1; q <= 3; q++ {
		_, err := f.svc.RecordSale(ctx, SaleRequest{ProductID: p.ID, Quantity: q, Seller: auth.Staff})
		require.NoError(t, err)
	}

	list, err := f.svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, 3, list[0].Quantity)
	assert.Equal(t, 1, list[2].Quantity)
}
