package staff

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"api_retail/internal/sales"
	"api_retail/internal/store"
)

type SaleSource interface {
	History(ctx context.Context) ([]sales.Sale, error)
}

var hundred = decimal.NewFromInt(100)

// Service manages employees and suppliers.
type Service struct {
	employees *store.Repository[Employee]
	suppliers *store.Repository[Supplier]
	sales     SaleSource
	logger    *zap.Logger
	loc       *time.Location
	now       func() time.Time
}

func NewService(s store.Store, sales SaleSource, logger *zap.Logger, loc *time.Location) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		employees: store.NewRepository[Employee](s, store.Employees, logger),
		suppliers: store.NewRepository[Supplier](s, store.Suppliers, logger),
		sales:     sales,
		logger:    logger,
		loc:       loc,
		now:       time.Now,
	}
}

func (s *Service) CreateEmployee(ctx context.Context, e Employee) (Employee, error) {
	e.ID = ""
	e.HiredAt = s.now().UTC()
	created, err := s.employees.Create(ctx, e)
	if err != nil {
		return Employee{}, fmt.Errorf("create employee: %w", err)
	}
	s.logger.Info("employee created", zap.String("employee_id", created.ID))
	return created, nil
}

func (s *Service) ListEmployees(ctx context.Context) ([]Employee, error) {
	list, err := s.employees.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return list, nil
}

// Performance reports every employee's sales for the current month.
func (s *Service) Performance(ctx context.Context) ([]Performance, error) {
	employees, err := s.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}
	history, err := s.sales.History(ctx)
	if err != nil {
		return nil, fmt.Errorf("load sales: %w", err)
	}
	out := make([]Performance, len(employees))
	for i, e := range employees {
		out[i] = MonthlyPerformance(e, history, s.now(), s.loc)
	}
	return out, nil
}

// EmployeePerformance reports one employee's sales for the current month.
func (s *Service) EmployeePerformance(ctx context.Context, id string) (Performance, error) {
	e, err := s.employees.Get(ctx, id)
	if err != nil {
		return Performance{}, fmt.Errorf("get employee %s: %w", id, err)
	}
	history, err := s.sales.History(ctx)
	if err != nil {
		return Performance{}, fmt.Errorf("load sales: %w", err)
	}
	return MonthlyPerformance(e, history, s.now(), s.loc), nil
}

// MonthlyPerformance sums e's sales in the calendar month of now.
func MonthlyPerformance(e Employee, history []sales.Sale, now time.Time, loc *time.Location) Performance {
	y, m, _ := now.In(loc).Date()
	p := Performance{EmployeeID: e.ID, Name: e.Name, SalesTotal: decimal.Zero, GoalPercent: decimal.Zero}
	for _, sale := range history {
		sy, sm, _ := sale.Date.In(loc).Date()
		if sale.EmployeeID != e.ID || sy != y || sm != m {
			continue
		}
		p.SalesTotal = p.SalesTotal.Add(sale.Total)
		p.SalesCount++
	}
	if e.MonthlyGoal.IsPositive() {
		p.GoalPercent = p.SalesTotal.Div(e.MonthlyGoal).Mul(hundred).Round(1)
	}
	p.Commission = p.SalesTotal.Mul(e.Commission).Div(hundred).Round(2)
	return p
}

func (s *Service) CreateSupplier(ctx context.Context, sup Supplier) (Supplier, error) {
	sup.ID = ""
	sup.RegisteredAt = s.now().UTC()
	created, err := s.suppliers.Create(ctx, sup)
	if err != nil {
		return Supplier{}, fmt.Errorf("create supplier: %w", err)
	}
	s.logger.Info("supplier created", zap.String("supplier_id", created.ID))
	return created, nil
}

func (s *Service) ListSuppliers(ctx context.Context) ([]Supplier, error) {
	list, err := s.suppliers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	return list, nil
}

// UpdateSupplier merges the given fields into the stored supplier.
func (s *Service) UpdateSupplier(ctx context.Context, id string, fields map[string]any) (Supplier, error) {
	delete(fields, "registered_at")
	sup, err := s.suppliers.Patch(ctx, id, fields)
	if err != nil {
		return Supplier{}, fmt.Errorf("update supplier %s: %w", id, err)
	}
	s.logger.Info("supplier updated", zap.String("supplier_id", id))
	return sup, nil
}

func (s *Service) DeleteSupplier(ctx context.Context, id string) error {
	if err := s.suppliers.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete supplier %s: %w", id, err)
	}
	s.logger.Info("supplier deleted", zap.String("supplier_id", id))
	return nil
}
