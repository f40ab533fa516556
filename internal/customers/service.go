package customers

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"api_retail/internal/apperr"
	"api_retail/internal/metrics"
	"api_retail/internal/store"
)

// DefaultIncrement is the number of points the back office adds per action.
const DefaultIncrement = 10

// Service manages the loyalty programme.
type Service struct {
	customers *store.Repository[Customer]
	logger    *zap.Logger
	metrics   *metrics.Registry
	now       func() time.Time
}

func NewService(s store.Store, logger *zap.Logger, m *metrics.Registry) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = metrics.NewRegistry()
	}
	return &Service{
		customers: store.NewRepository[Customer](s, store.Customers, logger),
		logger:    logger,
		metrics:   m,
		now:       time.Now,
	}
}

// Create registers a customer with no points.
func (s *Service) Create(ctx context.Context, c Customer) (View, error) {
	c.ID = ""
	c.Points = 0
	c.RegisteredAt = s.now().UTC()
	created, err := s.customers.Create(ctx, c)
	if err != nil {
		return View{}, fmt.Errorf("create customer: %w", err)
	}
	s.logger.Info("customer registered", zap.String("customer_id", created.ID))
	return NewView(created), nil
}

func (s *Service) Get(ctx context.Context, id string) (View, error) {
	c, err := s.customers.Get(ctx, id)
	if err != nil {
		return View{}, fmt.Errorf("get customer %s: %w", id, err)
	}
	return NewView(c), nil
}

// List returns every customer with its derived tier.
func (s *Service) List(ctx context.Context) ([]View, error) {
	list, err := s.customers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	views := make([]View, len(list))
	for i, c := range list {
		views[i] = NewView(c)
	}
	return views, nil
}

// AddPoints credits n points to the customer.
func (s *Service) AddPoints(ctx context.Context, id string, n int) (View, error) {
	if n <= 0 {
		return View{}, apperr.Validation("points", "must be greater than zero")
	}
	c, err := s.customers.Modify(ctx, id, func(cur *Customer) error {
		cur.Points += n
		return nil
	})
	if err != nil {
		return View{}, fmt.Errorf("add points to %s: %w", id, err)
	}
	s.metrics.LoyaltyPointsAdded.Add(float64(n))
	v := NewView(c)
	s.logger.Info("loyalty points added",
		zap.String("customer_id", id),
		zap.Int("added", n),
		zap.Int("points", c.Points),
		zap.String("tier", string(v.Tier)),
	)
	return v, nil
}

// InSegment returns the customers a campaign for seg would reach.
func (s *Service) InSegment(ctx context.Context, seg Segment) ([]View, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]View, 0)
	for _, v := range list {
		if seg.Matches(v.Points) {
			out = append(out, v)
		}
	}
	return out, nil
}
