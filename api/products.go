package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"api_retail/internal/apperr"
	"api_retail/internal/products"
)

type productsHandler struct {
	productService    *products.Service
	logger            *zap.Logger
	loc               *time.Location
	lowStockThreshold int
	expiryDays        int
}

func (h *productsHandler) handleCreateProduct(ctx *gin.Context) {
	var p products.Product
	if err := ctx.ShouldBindJSON(&p); err != nil {
		badRequest(ctx, h.logger, err)
		return
	}
	created, err := h.productService.Create(ctx.Request.Context(), p)
	if err != nil {
		fail(ctx, h.logger, "create product", err)
		return
	}
	ctx.JSON(http.StatusCreated, created)
}

func (h *productsHandler) handleListProducts(ctx *gin.Context) {
	list, err := h.productService.List(ctx.Request.Context())
	if err != nil {
		fail(ctx, h.logger, "list products", err)
		return
	}
	ctx.JSON(http.StatusOK, list)
}

func (h *productsHandler) handleGetProduct(ctx *gin.Context) {
	p, err := h.productService.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		fail(ctx, h.logger, "get product", err)
		return
	}
	ctx.JSON(http.StatusOK, p)
}

func (h *productsHandler) handleUpdateProduct(ctx *gin.Context) {
	var p products.Product
	if err := ctx.ShouldBindJSON(&p); err != nil {
		badRequest(ctx, h.logger, err)
		return
	}
	updated, err := h.productService.Update(ctx.Request.Context(), ctx.Param("id"), p)
	if err != nil {
		fail(ctx, h.logger, "update product", err)
		return
	}
	ctx.JSON(http.StatusOK, updated)
}

func (h *productsHandler) handleDeleteProduct(ctx *gin.Context) {
	if err := h.productService.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		fail(ctx, h.logger, "delete product", err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// handleAdjustStock handles POST /products/:id/stock with {"delta": n}.
func (h *productsHandler) handleAdjustStock(ctx *gin.Context) {
	var req struct {
		Delta int `json:"delta"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, h.logger, err)
		return
	}
	p, err := h.productService.AdjustStock(ctx.Request.Context(), ctx.Param("id"), req.Delta)
	if err != nil {
		fail(ctx, h.logger, "adjust stock", err)
		return
	}
	ctx.JSON(http.StatusOK, p)
}

func (h *productsHandler) handleLowStock(ctx *gin.Context) {
	threshold, err := intQuery(ctx, "threshold", h.lowStockThreshold)
	if err != nil {
		fail(ctx, h.logger, "low stock", err)
		return
	}
	list, err := h.productService.LowStock(ctx.Request.Context(), threshold)
	if err != nil {
		fail(ctx, h.logger, "low stock", err)
		return
	}
	ctx.JSON(http.StatusOK, list)
}

func (h *productsHandler) handleExpiring(ctx *gin.Context) {
	days, err := intQuery(ctx, "days", h.expiryDays)
	if err != nil {
		fail(ctx, h.logger, "expiring products", err)
		return
	}
	list, err := h.productService.Expiring(ctx.Request.Context(), time.Now().In(h.loc), days)
	if err != nil {
		fail(ctx, h.logger, "expiring products", err)
		return
	}
	ctx.JSON(http.StatusOK, list)
}

func (h *productsHandler) handleNeedingReorder(ctx *gin.Context) {
	list, err := h.productService.NeedingReorder(ctx.Request.Context())
	if err != nil {
		fail(ctx, h.logger, "needing reorder", err)
		return
	}
	ctx.JSON(http.StatusOK, list)
}

func (h *productsHandler) handleSetReorderPoint(ctx *gin.Context) {
	var req struct {
		Point int `json:"point"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, h.logger, err)
		return
	}
	rp, err := h.productService.SetReorderPoint(ctx.Request.Context(), ctx.Param("id"), req.Point)
	if err != nil {
		fail(ctx, h.logger, "set reorder point", err)
		return
	}
	ctx.JSON(http.StatusOK, rp)
}

func (h *productsHandler) handleGeneratePurchaseOrder(ctx *gin.Context) {
	order, err := h.productService.GeneratePurchaseOrder(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		fail(ctx, h.logger, "generate purchase order", err)
		return
	}
	ctx.JSON(http.StatusCreated, order)
}

func (h *productsHandler) handleListPurchaseOrders(ctx *gin.Context) {
	list, err := h.productService.ListPurchaseOrders(ctx.Request.Context())
	if err != nil {
		fail(ctx, h.logger, "list purchase orders", err)
		return
	}
	ctx.JSON(http.StatusOK, list)
}

// intQuery reads a non-negative integer query parameter, def when absent.
func intQuery(ctx *gin.Context, name string, def int) (int, error) {
	raw := ctx.Query(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperr.Validation(name, "must be a non-negative integer")
	}
	return n, nil
}
