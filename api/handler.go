package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"api_retail/internal/sales"
)

// salesHandler holds the sales service and implements HTTP handlers for sales operations.
type salesHandler struct {
	salesService *sales.Service
	logger       *zap.Logger
}

// NewSalesHandler creates a new sales handler.
func NewSalesHandler(salesService *sales.Service, logger *zap.Logger) *salesHandler {
	return &salesHandler{
		salesService: salesService,
		logger:       logger,
	}
}

// handleCreateSale handles the POST /sales endpoint. The seller is the role
// the request logged in as.
func (h *salesHandler) handleCreateSale(ctx *gin.Context) {
	var req sales.SaleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, h.logger, err)
		return
	}
	req.Seller = roleOf(ctx)

	sale, err := h.salesService.RecordSale(ctx.Request.Context(), req)
	if err != nil {
		fail(ctx, h.logger, "record sale", err)
		return
	}

	ctx.JSON(http.StatusCreated, sale)
}

// handleListSales handles GET /sales, newest first.
func (h *salesHandler) handleListSales(ctx *gin.Context) {
	list, err := h.salesService.List(ctx.Request.Context())
	if err != nil {
		fail(ctx, h.logger, "list sales", err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"results": list, "count": len(list)})
}
