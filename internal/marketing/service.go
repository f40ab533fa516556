package marketing

import (
	"context"
	"time"

	"go.uber.org/zap"

	"api_retail/internal/customers"
	"api_retail/internal/products"
	"api_retail/internal/store"
)

// Audience resolves the customers a campaign reaches.
type Audience interface {
	InSegment(ctx context.Context, seg customers.Segment) ([]customers.View, error)
}

// Catalogue looks up the products prices are compared for.
type Catalogue interface {
	Get(ctx context.Context, id string) (products.Product, error)
}

// Service groups the marketing tools: campaigns, feedback, competitor
// prices and seasonal planning.
type Service struct {
	campaigns   *store.Repository[Campaign]
	feedback    *store.Repository[Feedback]
	competitors *store.Repository[Competitor]
	events      *store.Repository[SeasonalEvent]
	plans       *store.Repository[PurchasePlan]
	audience    Audience
	catalogue   Catalogue
	logger      *zap.Logger
	loc         *time.Location
	now         func() time.Time
}

func NewService(s store.Store, audience Audience, catalogue Catalogue, logger *zap.Logger, loc *time.Location) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		campaigns:   store.NewRepository[Campaign](s, store.Campaigns, logger),
		feedback:    store.NewRepository[Feedback](s, store.Feedback, logger),
		competitors: store.NewRepository[Competitor](s, store.Competitors, logger),
		events:      store.NewRepository[SeasonalEvent](s, store.SeasonalEvents, logger),
		plans:       store.NewRepository[PurchasePlan](s, store.PurchasePlans, logger),
		audience:    audience,
		catalogue:   catalogue,
		logger:      logger,
		loc:         loc,
		now:         time.Now,
	}
}
