package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the retail counters on a private prometheus registry.
type Registry struct {
	reg                *prometheus.Registry
	SalesRecorded      prometheus.Counter
	Revenue            prometheus.Counter
	SalesRejected      *prometheus.CounterVec
	SaleCompensations  *prometheus.CounterVec
	PurchaseOrders     prometheus.Counter
	LoyaltyPointsAdded prometheus.Counter
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	recorded := prometheus.NewCounter(prometheus.CounterOpts{Name: "retail_sales_recorded_total"})
	revenue := prometheus.NewCounter(prometheus.CounterOpts{Name: "retail_sales_revenue_total"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "retail_sales_rejected_total"}, []string{"reason"})
	compensations := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "retail_sale_compensations_total"}, []string{"outcome"})
	orders := prometheus.NewCounter(prometheus.CounterOpts{Name: "retail_purchase_orders_total"})
	points := prometheus.NewCounter(prometheus.CounterOpts{Name: "retail_loyalty_points_added_total"})

	r.MustRegister(recorded, revenue, rejected, compensations, orders, points)
	return &Registry{
		reg:                r,
		SalesRecorded:      recorded,
		Revenue:            revenue,
		SalesRejected:      rejected,
		SaleCompensations:  compensations,
		PurchaseOrders:     orders,
		LoyaltyPointsAdded: points,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
