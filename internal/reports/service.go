package reports

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"api_retail/internal/calendar"
	"api_retail/internal/customers"
	"api_retail/internal/products"
	"api_retail/internal/sales"
)

type ProductSource interface {
	List(ctx context.Context) ([]products.Product, error)
}

type SaleSource interface {
	History(ctx context.Context) ([]sales.Sale, error)
}

type CustomerSource interface {
	List(ctx context.Context) ([]customers.View, error)
}

type Dashboard struct {
	ProductCount  int             `json:"product_count"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	TodayRevenue  decimal.Decimal `json:"today_revenue"`
	LowStockCount int             `json:"low_stock_count"`
}

type Analytics struct {
	Revenue30Days   decimal.Decimal `json:"revenue_30_days"`
	TopProducts     []ProductUnits  `json:"top_products"`
	MonthlyForecast decimal.Decimal `json:"monthly_forecast"`
	CustomerCount   int             `json:"customer_count"`
}

// Service computes reports over full snapshots of the collections.
type Service struct {
	products          ProductSource
	sales             SaleSource
	customers         CustomerSource
	logger            *zap.Logger
	loc               *time.Location
	lowStockThreshold int
	now               func() time.Time
}

func NewService(p ProductSource, s SaleSource, c CustomerSource, logger *zap.Logger, loc *time.Location, lowStockThreshold int) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		products:          p,
		sales:             s,
		customers:         c,
		logger:            logger,
		loc:               loc,
		lowStockThreshold: lowStockThreshold,
		now:               time.Now,
	}
}

// Location is the location calendar windows are evaluated in.
func (s *Service) Location() *time.Location { return s.loc }

type snapshot struct {
	products  []products.Product
	sales     []sales.Sale
	customers []customers.View
}

// load fetches the requested collections concurrently.
func (s *Service) load(ctx context.Context, withProducts, withSales, withCustomers bool) (snapshot, error) {
	var snap snapshot
	g, ctx := errgroup.WithContext(ctx)
	if withProducts {
		g.Go(func() error {
			list, err := s.products.List(ctx)
			snap.products = list
			return err
		})
	}
	if withSales {
		g.Go(func() error {
			list, err := s.sales.History(ctx)
			snap.sales = list
			return err
		})
	}
	if withCustomers {
		g.Go(func() error {
			list, err := s.customers.List(ctx)
			snap.customers = list
			return err
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Error("failed to load report data", zap.Error(err))
		return snapshot{}, fmt.Errorf("load report data: %w", err)
	}
	return snap, nil
}

// Summary aggregates the sales in w.
func (s *Service) Summary(ctx context.Context, w Window) (Summary, error) {
	snap, err := s.load(ctx, true, true, false)
	if err != nil {
		return Summary{}, err
	}
	sum := Summarize(snap.sales, snap.products, w.Match(s.now(), s.loc), DefaultTopN)
	for _, a := range sum.Anomalies {
		s.logger.Warn("sale references a product missing from the catalogue, counted with zero profit",
			zap.String("sale_id", a.SaleID),
			zap.String("product_id", a.ProductID),
			zap.String("product_name", a.Name),
		)
	}
	return sum, nil
}

func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	snap, err := s.load(ctx, true, true, false)
	if err != nil {
		return Dashboard{}, err
	}
	now := s.now()
	today := Filter(snap.sales, func(t time.Time) bool { return calendar.SameDay(t, now, s.loc) })
	return Dashboard{
		ProductCount:  len(snap.products),
		TotalRevenue:  TotalRevenue(snap.sales),
		TodayRevenue:  TotalRevenue(today),
		LowStockCount: len(products.FilterLowStock(snap.products, s.lowStockThreshold)),
	}, nil
}

func (s *Service) Analytics(ctx context.Context) (Analytics, error) {
	snap, err := s.load(ctx, false, true, true)
	if err != nil {
		return Analytics{}, err
	}
	now := s.now()
	last30 := Filter(snap.sales, Since(now, 30*calendar.Day))
	return Analytics{
		Revenue30Days:   TotalRevenue(last30),
		TopProducts:     TopProducts(last30, DefaultTopN),
		MonthlyForecast: MonthlyRevenueForecast(snap.sales, now, s.loc),
		CustomerCount:   len(snap.customers),
	}, nil
}

// ExportSales writes the sales in w as CSV.
func (s *Service) ExportSales(ctx context.Context, out io.Writer, w Window) error {
	snap, err := s.load(ctx, false, true, false)
	if err != nil {
		return err
	}
	return WriteSalesCSV(out, Filter(snap.sales, w.Match(s.now(), s.loc)), s.loc)
}

// ExportInventory writes the catalogue as CSV.
func (s *Service) ExportInventory(ctx context.Context, out io.Writer) error {
	snap, err := s.load(ctx, true, false, false)
	if err != nil {
		return err
	}
	return WriteInventoryCSV(out, snap.products)
}
