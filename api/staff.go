package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"api_retail/internal/staff"
)

type staffHandler struct {
	staffService *staff.Service
	logger       *zap.Logger
}

func (h *staffHandler) handleCreateEmployee(ctx *gin.Context) {
	var e staff.Employee
	if err := ctx.ShouldBindJSON(&e); err != nil {
		badRequest(ctx, h.logger, err)
		return
	}
	created, err := h.staffService.CreateEmployee(ctx.Request.Context(), e)
	if err != nil {
		fail(ctx, h.logger, "create employee", err)
		return
	}
	ctx.JSON(http.StatusCreated, created)
}

func (h *staffHandler) handleListEmployees(ctx *gin.Context) {
	list, err := h.staffService.ListEmployees(ctx.Request.Context())
	if err != nil {
		fail(ctx, h.logger, "list employees", err)
		return
	}
	ctx.JSON(http.StatusOK, list)
}

func (h *staffHandler) handlePerformance(ctx *gin.Context) {
	list, err := h.staffService.Performance(ctx.Request.Context())
	if err != nil {
		fail(ctx, h.logger, "employee performance", err)
		return
	}
	ctx.JSON(http.StatusOK, list)
}

func (h *staffHandler) handleEmployeePerformance(ctx *gin.Context) {
	p, err := h.staffService.EmployeePerformance(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		fail(ctx, h.logger, "employee performance", err)
		return
	}
	ctx.JSON(http.StatusOK, p)
}

func (h *staffHandler) handleCreateSupplier(ctx *gin.Context) {
	var s staff.Supplier
	if err := ctx.ShouldBindJSON(&s); err != nil {
		badRequest(ctx, h.logger, err)
		return
	}
	created, err := h.staffService.CreateSupplier(ctx.Request.Context(), s)
	if err != nil {
		fail(ctx, h.logger, "create supplier", err)
		return
	}
	ctx.JSON(http.StatusCreated, created)
}

func (h *staffHandler) handleListSuppliers(ctx *gin.Context) {
	list, err := h.staffService.ListSuppliers(ctx.Request.Context())
	if err != nil {
		fail(ctx, h.logger, "list suppliers", err)
		return
	}
	ctx.JSON(http.StatusOK, list)
}

func (h *staffHandler) handlePatchSupplier(ctx *gin.Context) {
	var fields map[string]any
	if err := ctx.ShouldBindJSON(&fields); err != nil {
		badRequest(ctx, h.logger, err)
		return
	}
	s, err := h.staffService.UpdateSupplier(ctx.Request.Context(), ctx.Param("id"), fields)
	if err != nil {
		fail(ctx, h.logger, "update supplier", err)
		return
	}
	ctx.JSON(http.StatusOK, s)
}

func (h *staffHandler) handleDeleteSupplier(ctx *gin.Context) {
	if err := h.staffService.DeleteSupplier(ctx.Request.Context(), ctx.Param("id")); err != nil {
		fail(ctx, h.logger, "delete supplier", err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
