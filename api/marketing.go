package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"api_retail/internal/marketing"
)

type marketingHandler struct {
	marketingService *marketing.Service
	logger           *zap.Logger
}

func (h *marketingHandler) handleCreateCampaign(ctx *gin.Context) {
	var c marketing.Campaign
	if err := ctx.ShouldBindJSON(&c); err != nil {
		badRequest(ctx, h.logger, err)
		return
	}
	created, err := h.marketingService.CreateCampaign(ctx.Request.Context(), c)
	if err != nil {
		fail(ctx, h.logger, "create campaign", err)
		return
	}
	ctx.JSON(http.StatusCreated, created)
}

func (h *marketingHandler) handleListCampaigns(ctx *gin.Context) {
	list, err := h.marketingService.ListCampaigns(ctx.Request.Context())
	if err != nil {
		fail(ctx, h.logger, "list campaigns", err)
		return
	}
	ctx.JSON(http.StatusOK, list)
}

func (h *marketingHandler) handleSendCampaign(ctx *gin.Context) {
	c, err := h.marketingService.SendCampaign(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		fail(ctx, h.logger, "send campaign", err)
		return
	}
	ctx.JSON(http.StatusOK, c)
}

func (h *marketingHandler) handleAddFeedback(ctx *gin.Context) {
	var f marketing.Feedback
	if err := ctx.ShouldBindJSON(&f); err != nil {
		badRequest(ctx, h.logger, err)
		return
	}
	created, err := h.marketingService.AddFeedback(ctx.Request.Context(), f)
	if err != nil {
		fail(ctx, h.logger, "add feedback", err)
		return
	}
	ctx.JSON(http.StatusCreated, created)
}

func (h *marketingHandler) handleListFeedback(ctx *gin.Context) {
	list, err := h.marketingService.ListFeedback(ctx.Request.Context())
	if err != nil {
		fail(ctx, h.logger, "list feedback", err)
		return
	}
	ctx.JSON(http.StatusOK, list)
}

func (h *marketingHandler) handleAverageRating(ctx *gin.Context) {
	avg, err := h.marketingService.AverageRating(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		fail(ctx, h.logger, "average rating", err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"product_id": ctx.Param("id"), "average_rating": avg})
}

func (h *marketingHandler) handleCreateCompetitor(ctx *gin.Context) {
	var c marketing.Competitor
	if err := ctx.ShouldBindJSON(&c); err != nil {
		badRequest(ctx, h.logger, err)
		return
	}
	created, err := h.marketingService.CreateCompetitor(ctx.Request.Context(), c)
	if err != nil {
		fail(ctx, h.logger, "create competitor", err)
		return
	}
	ctx.JSON(http.StatusCreated, created)
}

func (h *marketingHandler) handleListCompetitors(ctx *gin.Context) {
	list, err := h.marketingService.ListCompetitors(ctx.Request.Context())
	if err != nil {
		fail(ctx, h.logger, "list competitors", err)
		return
	}
	ctx.JSON(http.StatusOK, list)
}

func (h *marketingHandler) handleSetPrice(ctx *gin.Context) {
	var req struct {
		Price decimal.Decimal `json:"price"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, h.logger, err)
		return
	}
	c, err := h.marketingService.SetPrice(ctx.Request.Context(), ctx.Param("id"), ctx.Param("product_id"), req.Price)
	if err != nil {
		fail(ctx, h.logger, "set competitor price", err)
		return
	}
	ctx.JSON(http.StatusOK, c)
}

func (h *marketingHandler) handleSuggestPrice(ctx *gin.Context) {
	s, err := h.marketingService.SuggestPrice(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		fail(ctx, h.logger, "suggest price", err)
		return
	}
	ctx.JSON(http.StatusOK, s)
}

func (h *marketingHandler) handleCreateEvent(ctx *gin.Context) {
	var e marketing.SeasonalEvent
	if err := ctx.ShouldBindJSON(&e); err != nil {
		badRequest(ctx, h.logger, err)
		return
	}
	created, err := h.marketingService.CreateEvent(ctx.Request.Context(), e)
	if err != nil {
		fail(ctx, h.logger, "create seasonal event", err)
		return
	}
	ctx.JSON(http.StatusCreated, created)
}

func (h *marketingHandler) handleListEvents(ctx *gin.Context) {
	list, err := h.marketingService.ListEvents(ctx.Request.Context())
	if err != nil {
		fail(ctx, h.logger, "list seasonal events", err)
		return
	}
	ctx.JSON(http.StatusOK, list)
}

func (h *marketingHandler) handleUpcomingEvents(ctx *gin.Context) {
	list, err := h.marketingService.Upcoming(ctx.Request.Context())
	if err != nil {
		fail(ctx, h.logger, "upcoming events", err)
		return
	}
	ctx.JSON(http.StatusOK, list)
}

func (h *marketingHandler) handleGeneratePurchasePlan(ctx *gin.Context) {
	plan, err := h.marketingService.GeneratePurchasePlan(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		fail(ctx, h.logger, "generate purchase plan", err)
		return
	}
	ctx.JSON(http.StatusCreated, plan)
}

func (h *marketingHandler) handleListPurchasePlans(ctx *gin.Context) {
	list, err := h.marketingService.ListPurchasePlans(ctx.Request.Context())
	if err != nil {
		fail(ctx, h.logger, "list purchase plans", err)
		return
	}
	ctx.JSON(http.StatusOK, list)
}
