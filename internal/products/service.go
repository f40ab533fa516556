package products

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"api_retail/internal/apperr"
	"api_retail/internal/calendar"
	"api_retail/internal/metrics"
	"api_retail/internal/store"
)

const (
	// DefaultReorderPoint applies to products without an explicit reorder point.
	DefaultReorderPoint = 10
	// TargetStock is the level a generated purchase order restocks towards.
	TargetStock = 50
	// MinimumOrder is the smallest quantity a purchase order recommends.
	MinimumOrder = 10
)

// Service provides catalogue and inventory operations.
type Service struct {
	products *store.Repository[Product]
	reorder  *store.Repository[ReorderPoint]
	orders   *store.Repository[PurchaseOrder]
	logger   *zap.Logger
	metrics  *metrics.Registry
	now      func() time.Time
}

// NewService creates a new Service.
func NewService(s store.Store, logger *zap.Logger, m *metrics.Registry) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = metrics.NewRegistry()
	}
	return &Service{
		products: store.NewRepository[Product](s, store.Products, logger),
		reorder:  store.NewRepository[ReorderPoint](s, store.ReorderPoints, logger),
		orders:   store.NewRepository[PurchaseOrder](s, store.PurchaseOrders, logger),
		logger:   logger,
		metrics:  m,
		now:      time.Now,
	}
}

// Create adds a product to the catalogue.
func (s *Service) Create(ctx context.Context, p Product) (Product, error) {
	p.ID = ""
	p.UpdatedAt = s.now().UTC()
	created, err := s.products.Create(ctx, p)
	if err != nil {
		return Product{}, fmt.Errorf("create product: %w", err)
	}
	s.logger.Info("product created", zap.String("product_id", created.ID), zap.String("name", created.Name))
	return created, nil
}

func (s *Service) Get(ctx context.Context, id string) (Product, error) {
	p, err := s.products.Get(ctx, id)
	if err != nil {
		return Product{}, fmt.Errorf("get product %s: %w", id, err)
	}
	return p, nil
}

func (s *Service) List(ctx context.Context) ([]Product, error) {
	list, err := s.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return list, nil
}

// Update replaces the editable fields of a product with those of p. The
// stored quantity is kept; stock only moves through ReserveStock,
// ReleaseStock and AdjustStock.
func (s *Service) Update(ctx context.Context, id string, p Product) (Product, error) {
	updated, err := s.products.Modify(ctx, id, func(cur *Product) error {
		p.ID = id
		p.Quantity = cur.Quantity
		p.UpdatedAt = s.now().UTC()
		*cur = p
		return nil
	})
	if err != nil {
		return Product{}, fmt.Errorf("update product %s: %w", id, err)
	}
	s.logger.Info("product updated", zap.String("product_id", id))
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	s.logger.Info("product deleted", zap.String("product_id", id))
	return nil
}

// ReserveStock decrements the product's quantity by q in a single atomic
// step, failing with apperr.ErrInsufficientStock when q exceeds the stock.
// The returned product is the state right after the decrement, so its
// SalePrice is the price in force at that instant.
func (s *Service) ReserveStock(ctx context.Context, id string, q int) (Product, error) {
	if q <= 0 {
		return Product{}, apperr.Validation("quantity", "must be greater than zero")
	}
	p, err := s.products.Modify(ctx, id, func(cur *Product) error {
		if q > cur.Quantity {
			return fmt.Errorf("%w: requested %d, available %d", apperr.ErrInsufficientStock, q, cur.Quantity)
		}
		cur.Quantity -= q
		cur.UpdatedAt = s.now().UTC()
		return nil
	})
	if err != nil {
		return Product{}, fmt.Errorf("reserve stock of %s: %w", id, err)
	}
	return p, nil
}

// ReleaseStock gives q units back to the product.
func (s *Service) ReleaseStock(ctx context.Context, id string, q int) (Product, error) {
	if q <= 0 {
		return Product{}, apperr.Validation("quantity", "must be greater than zero")
	}
	p, err := s.products.Modify(ctx, id, func(cur *Product) error {
		cur.Quantity += q
		cur.UpdatedAt = s.now().UTC()
		return nil
	})
	if err != nil {
		return Product{}, fmt.Errorf("release stock of %s: %w", id, err)
	}
	return p, nil
}

// AdjustStock adds delta units to the product (negative for write-offs),
// refusing to take the quantity below zero.
func (s *Service) AdjustStock(ctx context.Context, id string, delta int) (Product, error) {
	if delta == 0 {
		return Product{}, apperr.Validation("delta", "must not be zero")
	}
	p, err := s.products.Modify(ctx, id, func(cur *Product) error {
		if cur.Quantity+delta < 0 {
			return fmt.Errorf("%w: adjust by %d, available %d", apperr.ErrInsufficientStock, delta, cur.Quantity)
		}
		cur.Quantity += delta
		cur.UpdatedAt = s.now().UTC()
		return nil
	})
	if err != nil {
		return Product{}, fmt.Errorf("adjust stock of %s: %w", id, err)
	}
	s.logger.Info("stock adjusted", zap.String("product_id", id), zap.Int("delta", delta), zap.Int("quantity", p.Quantity))
	return p, nil
}

// LowStock returns the products whose quantity is below threshold.
func (s *Service) LowStock(ctx context.Context, threshold int) ([]Product, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return FilterLowStock(list, threshold), nil
}

// FilterLowStock keeps the products whose quantity is below threshold.
func FilterLowStock(list []Product, threshold int) []Product {
	low := make([]Product, 0)
	for _, p := range list {
		if p.Quantity < threshold {
			low = append(low, p)
		}
	}
	return low
}

// Expiring returns the products that expire within the next days days.
func (s *Service) Expiring(ctx context.Context, now time.Time, days int) ([]Product, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	expiring := make([]Product, 0)
	for _, p := range list {
		expiry, err := calendar.ParseDate(p.ExpiryDate, now.Location())
		if err != nil {
			s.logger.Warn("unparsable expiry date", zap.String("product_id", p.ID), zap.Error(err))
			continue
		}
		if d := calendar.DaysUntil(now, expiry); d > 0 && d <= days {
			expiring = append(expiring, p)
		}
	}
	return expiring, nil
}

// SetReorderPoint records the stock level at which productID should be reordered.
func (s *Service) SetReorderPoint(ctx context.Context, productID string, point int) (ReorderPoint, error) {
	if _, err := s.Get(ctx, productID); err != nil {
		return ReorderPoint{}, err
	}
	rp, err := s.reorder.Put(ctx, productID, ReorderPoint{Point: point, SetAt: s.now().UTC()})
	if err != nil {
		return ReorderPoint{}, fmt.Errorf("set reorder point of %s: %w", productID, err)
	}
	return rp, nil
}

// NeedingReorder returns the products at or below their reorder point.
func (s *Service) NeedingReorder(ctx context.Context) ([]Product, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	points, err := s.reorder.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reorder points: %w", err)
	}
	byProduct := make(map[string]int, len(points))
	for _, rp := range points {
		byProduct[rp.ProductID] = rp.Point
	}

	out := make([]Product, 0)
	for _, p := range list {
		point, ok := byProduct[p.ID]
		if !ok {
			point = DefaultReorderPoint
		}
		if p.Quantity <= point {
			out = append(out, p)
		}
	}
	return out, nil
}

// GeneratePurchaseOrder records a pending order bringing productID back towards TargetStock.
func (s *Service) GeneratePurchaseOrder(ctx context.Context, productID string) (PurchaseOrder, error) {
	p, err := s.Get(ctx, productID)
	if err != nil {
		return PurchaseOrder{}, err
	}
	order, err := s.orders.Create(ctx, PurchaseOrder{
		ProductID:           p.ID,
		ProductName:         p.Name,
		CurrentStock:        p.Quantity,
		RecommendedQuantity: max(TargetStock-p.Quantity, MinimumOrder),
		Status:              OrderPending,
		CreatedAt:           s.now().UTC(),
	})
	if err != nil {
		return PurchaseOrder{}, fmt.Errorf("create purchase order for %s: %w", productID, err)
	}
	s.metrics.PurchaseOrders.Inc()
	s.logger.Info("purchase order generated",
		zap.String("order_id", order.ID),
		zap.String("product_id", p.ID),
		zap.Int("recommended_quantity", order.RecommendedQuantity),
	)
	return order, nil
}

func (s *Service) ListPurchaseOrders(ctx context.Context) ([]PurchaseOrder, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	return orders, nil
}
