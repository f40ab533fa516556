package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"api_retail/internal/auth"
	"api_retail/internal/customers"
	"api_retail/internal/marketing"
	"api_retail/internal/metrics"
	"api_retail/internal/products"
	"api_retail/internal/reports"
	"api_retail/internal/sales"
	"api_retail/internal/staff"
	"api_retail/internal/store"
)

// Services are the operations the router exposes.
type Services struct {
	Products  *products.Service
	Sales     *sales.Service
	Customers *customers.Service
	Reports   *reports.Service
	Marketing *marketing.Service
	Staff     *staff.Service
	Gate      *auth.Gate
	Metrics   *metrics.Registry
}

// NewServices wires every service onto the record store s.
func NewServices(s store.Store, gate *auth.Gate, cfg Settings, logger *zap.Logger, m *metrics.Registry) Services {
	productService := products.NewService(s, logger, m)
	salesService := sales.NewService(sales.NewRecordStorage(s, logger), productService, logger, m)
	customerService := customers.NewService(s, logger, m)
	return Services{
		Products:  productService,
		Sales:     salesService,
		Customers: customerService,
		Reports:   reports.NewService(productService, salesService, customerService, logger, cfg.Location, cfg.LowStockThreshold),
		Marketing: marketing.NewService(s, customerService, productService, logger, cfg.Location),
		Staff:     staff.NewService(s, salesService, logger, cfg.Location),
		Gate:      gate,
		Metrics:   m,
	}
}

// Settings tune handler defaults.
type Settings struct {
	Location          *time.Location
	LowStockThreshold int
	ExpiryWarningDays int
	LoyaltyIncrement  int
}

// InitRoutes registers every endpoint on the given Gin engine. Everything but
// /ping and /metrics needs an X-Role header; writes to the catalogue and the
// back-office records need the administrator role.
func InitRoutes(e *gin.Engine, svc Services, cfg Settings, logger *zap.Logger) {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	e.Use(recovery(logger), requestLogger(logger))

	salesHandler := NewSalesHandler(svc.Sales, logger)
	productsHandler := &productsHandler{
		productService:    svc.Products,
		logger:            logger,
		loc:               cfg.Location,
		lowStockThreshold: cfg.LowStockThreshold,
		expiryDays:        cfg.ExpiryWarningDays,
	}
	customersHandler := &customersHandler{customerService: svc.Customers, logger: logger, increment: cfg.LoyaltyIncrement}
	reportsHandler := &reportsHandler{reportService: svc.Reports, logger: logger}
	marketingHandler := &marketingHandler{marketingService: svc.Marketing, logger: logger}
	staffHandler := &staffHandler{staffService: svc.Staff, logger: logger}

	e.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
	e.GET("/metrics", gin.WrapH(svc.Metrics.Handler()))

	r := e.Group("/", requireRole(svc.Gate, logger))
	admin := r.Group("/", adminOnly(logger))

	r.POST("/sales", salesHandler.handleCreateSale)
	r.GET("/sales", salesHandler.handleListSales)

	r.GET("/products", productsHandler.handleListProducts)
	r.GET("/products/:id", productsHandler.handleGetProduct)
	admin.POST("/products", productsHandler.handleCreateProduct)
	admin.PUT("/products/:id", productsHandler.handleUpdateProduct)
	admin.DELETE("/products/:id", productsHandler.handleDeleteProduct)
	admin.POST("/products/:id/stock", productsHandler.handleAdjustStock)
	admin.PUT("/products/:id/reorder-point", productsHandler.handleSetReorderPoint)
	admin.POST("/products/:id/purchase-orders", productsHandler.handleGeneratePurchaseOrder)
	admin.GET("/purchase-orders", productsHandler.handleListPurchaseOrders)
	r.GET("/inventory/low-stock", productsHandler.handleLowStock)
	r.GET("/inventory/expiring", productsHandler.handleExpiring)
	r.GET("/inventory/reorder", productsHandler.handleNeedingReorder)

	r.GET("/customers", customersHandler.handleListCustomers)
	r.POST("/customers", customersHandler.handleCreateCustomer)
	admin.POST("/customers/:id/points", customersHandler.handleAddPoints)

	r.GET("/reports/summary", reportsHandler.handleSummary)
	r.GET("/reports/dashboard", reportsHandler.handleDashboard)
	r.GET("/reports/analytics", reportsHandler.handleAnalytics)
	admin.GET("/exports/sales.csv", reportsHandler.handleExportSales)
	admin.GET("/exports/inventory.csv", reportsHandler.handleExportInventory)

	r.GET("/campaigns", marketingHandler.handleListCampaigns)
	admin.POST("/campaigns", marketingHandler.handleCreateCampaign)
	admin.POST("/campaigns/:id/send", marketingHandler.handleSendCampaign)
	r.GET("/feedback", marketingHandler.handleListFeedback)
	r.POST("/feedback", marketingHandler.handleAddFeedback)
	r.GET("/products/:id/rating", marketingHandler.handleAverageRating)
	r.GET("/products/:id/price-suggestion", marketingHandler.handleSuggestPrice)
	r.GET("/competitors", marketingHandler.handleListCompetitors)
	admin.POST("/competitors", marketingHandler.handleCreateCompetitor)
	admin.PUT("/competitors/:id/prices/:product_id", marketingHandler.handleSetPrice)
	r.GET("/events", marketingHandler.handleListEvents)
	r.GET("/events/upcoming", marketingHandler.handleUpcomingEvents)
	admin.POST("/events", marketingHandler.handleCreateEvent)
	admin.POST("/events/:id/purchase-plan", marketingHandler.handleGeneratePurchasePlan)
	r.GET("/purchase-plans", marketingHandler.handleListPurchasePlans)

	admin.GET("/employees", staffHandler.handleListEmployees)
	admin.POST("/employees", staffHandler.handleCreateEmployee)
	admin.GET("/performance", staffHandler.handlePerformance)
	admin.GET("/performance/:id", staffHandler.handleEmployeePerformance)
	admin.GET("/suppliers", staffHandler.handleListSuppliers)
	admin.POST("/suppliers", staffHandler.handleCreateSupplier)
	admin.PATCH("/suppliers/:id", staffHandler.handlePatchSupplier)
	admin.DELETE("/suppliers/:id", staffHandler.handleDeleteSupplier)
}
