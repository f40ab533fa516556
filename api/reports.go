package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"api_retail/internal/reports"
)

type reportsHandler struct {
	reportService *reports.Service
	logger        *zap.Logger
}

func (h *reportsHandler) window(ctx *gin.Context) (reports.Window, error) {
	return reports.ParseWindow(ctx.Query("period"), ctx.Query("date"), h.reportService.Location())
}

// handleSummary handles GET /reports/summary?period=today|week|month|date|all&date=YYYY-MM-DD.
func (h *reportsHandler) handleSummary(ctx *gin.Context) {
	w, err := h.window(ctx)
	if err != nil {
		fail(ctx, h.logger, "sales summary", err)
		return
	}
	sum, err := h.reportService.Summary(ctx.Request.Context(), w)
	if err != nil {
		fail(ctx, h.logger, "sales summary", err)
		return
	}
	ctx.JSON(http.StatusOK, sum)
}

func (h *reportsHandler) handleDashboard(ctx *gin.Context) {
	d, err := h.reportService.Dashboard(ctx.Request.Context())
	if err != nil {
		fail(ctx, h.logger, "dashboard", err)
		return
	}
	ctx.JSON(http.StatusOK, d)
}

func (h *reportsHandler) handleAnalytics(ctx *gin.Context) {
	a, err := h.reportService.Analytics(ctx.Request.Context())
	if err != nil {
		fail(ctx, h.logger, "analytics", err)
		return
	}
	ctx.JSON(http.StatusOK, a)
}

func (h *reportsHandler) handleExportSales(ctx *gin.Context) {
	w, err := h.window(ctx)
	if err != nil {
		fail(ctx, h.logger, "export sales", err)
		return
	}
	ctx.Header("Content-Disposition", `attachment; filename="sales.csv"`)
	ctx.Header("Content-Type", "text/csv")
	if err := h.reportService.ExportSales(ctx.Request.Context(), ctx.Writer, w); err != nil {
		fail(ctx, h.logger, "export sales", err)
	}
}

func (h *reportsHandler) handleExportInventory(ctx *gin.Context) {
	ctx.Header("Content-Disposition", `attachment; filename="inventory.csv"`)
	ctx.Header("Content-Type", "text/csv")
	if err := h.reportService.ExportInventory(ctx.Request.Context(), ctx.Writer); err != nil {
		fail(ctx, h.logger, "export inventory", err)
	}
}
