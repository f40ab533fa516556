package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"api_retail/internal/apperr"
	"api_retail/internal/auth"
	"api_retail/internal/metrics"
	"api_retail/internal/products"
)

// StockKeeper takes and gives back product stock atomically.
type StockKeeper interface {
	ReserveStock(ctx context.Context, productID string, q int) (products.Product, error)
	ReleaseStock(ctx context.Context, productID string, q int) (products.Product, error)
}

// Service records sales against product stock.
type Service struct {
	storage        Storage
	stock          StockKeeper
	logger         *zap.Logger
	metrics        *metrics.Registry
	now            func() time.Time
	releaseBackOff func() backoff.BackOff
}

const maxReleaseRetries = 5

// NewService creates a new Service.
func NewService(storage Storage, stock StockKeeper, logger *zap.Logger, m *metrics.Registry) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = metrics.NewRegistry()
	}
	return &Service{
		storage: storage,
		stock:   stock,
		logger:  logger,
		metrics: m,
		now:     time.Now,
		releaseBackOff: func() backoff.BackOff {
			return backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxReleaseRetries)
		},
	}
}

// RecordSale takes req.Quantity units of the product and records the sale.
//
// The stock check and decrement happen in one atomic step, so concurrent
// sales never oversell. If the sale record cannot be written afterwards the
// units are given back before the error is returned.
func (s *Service) RecordSale(ctx context.Context, req SaleRequest) (*Sale, error) {
	if err := validateRequest(req); err != nil {
		s.reject(err)
		return nil, err
	}

	product, err := s.stock.ReserveStock(ctx, req.ProductID, req.Quantity)
	if err != nil {
		s.reject(err)
		s.logger.Warn("sale rejected",
			zap.String("product_id", req.ProductID),
			zap.Int("quantity", req.Quantity),
			zap.Error(err),
		)
		return nil, fmt.Errorf("record sale: %w", err)
	}

	sale := Sale{
		ProductID:   product.ID,
		ProductName: product.Name,
		Quantity:    req.Quantity,
		UnitPrice:   product.SalePrice,
		Total:       product.SalePrice.Mul(decimal.NewFromInt(int64(req.Quantity))),
		Date:        s.now().UTC(),
		Seller:      req.Seller,
		EmployeeID:  req.EmployeeID,
	}

	saved, err := s.storage.Add(ctx, sale)
	if err != nil {
		s.logger.Error("failed to save sale, releasing reserved stock",
			zap.String("product_id", product.ID),
			zap.Int("quantity", req.Quantity),
			zap.Error(err),
		)
		s.release(ctx, product.ID, req.Quantity)
		s.reject(err)
		return nil, fmt.Errorf("failed to save sale: %w", err)
	}

	s.metrics.SalesRecorded.Inc()
	s.metrics.Revenue.Add(saved.Total.InexactFloat64())
	s.logger.Info("sale recorded",
		zap.String("sale_id", saved.ID),
		zap.String("product_id", saved.ProductID),
		zap.Int("quantity", saved.Quantity),
		zap.String("total", saved.Total.String()),
		zap.String("seller", string(saved.Seller)),
	)
	return &saved, nil
}

// release gives back stock taken for a sale that was not recorded, retrying
// with backoff. The caller's cancellation does not stop it.
func (s *Service) release(ctx context.Context, productID string, q int) {
	releaseCtx := context.WithoutCancel(ctx)
	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		_, err := s.stock.ReleaseStock(releaseCtx, productID, q)
		if err != nil {
			s.logger.Warn("stock release attempt failed",
				zap.String("product_id", productID),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
		}
		return err
	}, s.releaseBackOff())
	if err != nil {
		s.metrics.SaleCompensations.WithLabelValues("failed").Inc()
		s.logger.Error("stock release failed, product stock is short",
			zap.String("product_id", productID),
			zap.Int("quantity", q),
			zap.Error(err),
		)
		return
	}
	s.metrics.SaleCompensations.WithLabelValues("released").Inc()
}

// List returns the sales history, newest first.
func (s *Service) List(ctx context.Context) ([]Sale, error) {
	all, err := s.History(ctx)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}
	return all, nil
}

// History returns every sale in recording order.
func (s *Service) History(ctx context.Context) ([]Sale, error) {
	all, err := s.storage.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to get sales from storage", zap.Error(err))
		return nil, fmt.Errorf("failed to retrieve sales: %w", err)
	}
	return all, nil
}

func validateRequest(req SaleRequest) error {
	if req.ProductID == "" {
		return apperr.Validation("product_id", "is required")
	}
	if req.Quantity <= 0 {
		return apperr.Validation("quantity", "must be greater than zero")
	}
	if _, err := auth.ParseRole(string(req.Seller)); err != nil {
		return err
	}
	return nil
}

func (s *Service) reject(err error) {
	reason := "other"
	switch {
	case errors.Is(err, apperr.ErrValidation):
		reason = "validation"
	case errors.Is(err, apperr.ErrInsufficientStock):
		reason = "insufficient_stock"
	case errors.Is(err, apperr.ErrNotFound):
		reason = "not_found"
	case errors.Is(err, apperr.ErrStoreUnavailable):
		reason = "store_unavailable"
	}
	s.metrics.SalesRejected.WithLabelValues(reason).Inc()
}
