package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"api_retail/internal/customers"
)

type customersHandler struct {
	customerService *customers.Service
	logger          *zap.Logger
	increment       int
}

func (h *customersHandler) handleCreateCustomer(ctx *gin.Context) {
	var c customers.Customer
	if err := ctx.ShouldBindJSON(&c); err != nil {
		badRequest(ctx, h.logger, err)
		return
	}
	created, err := h.customerService.Create(ctx.Request.Context(), c)
	if err != nil {
		fail(ctx, h.logger, "create customer", err)
		return
	}
	ctx.JSON(http.StatusCreated, created)
}

// handleListCustomers handles GET /customers, optionally narrowed to ?segment=.
func (h *customersHandler) handleListCustomers(ctx *gin.Context) {
	segment, err := customers.ParseSegment(ctx.Query("segment"))
	if err != nil {
		fail(ctx, h.logger, "list customers", err)
		return
	}
	list, err := h.customerService.InSegment(ctx.Request.Context(), segment)
	if err != nil {
		fail(ctx, h.logger, "list customers", err)
		return
	}
	ctx.JSON(http.StatusOK, list)
}

// handleAddPoints handles POST /customers/:id/points. Without a body the
// configured increment is added.
func (h *customersHandler) handleAddPoints(ctx *gin.Context) {
	var req struct {
		Points *int `json:"points"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(ctx, h.logger, err)
		return
	}
	points := h.increment
	if req.Points != nil {
		points = *req.Points
	}
	v, err := h.customerService.AddPoints(ctx.Request.Context(), ctx.Param("id"), points)
	if err != nil {
		fail(ctx, h.logger, "add loyalty points", err)
		return
	}
	ctx.JSON(http.StatusOK, v)
}
