package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lifelens/backend/internal/apierror"
	"github.com/lifelens/backend/internal/logger"
	"github.com/lifelens/backend/internal/repository"
	"github.com/lifelens/backend/internal/service"
)

// InsightsHandler handles insight feed HTTP requests
type InsightsHandler struct {
	insightService   service.InsightService
	analyticsService service.AnalyticsService
}

// NewInsightsHandler creates a new insights handler
func NewInsightsHandler(insightService service.InsightService, analyticsService service.AnalyticsService) *InsightsHandler {
	return &InsightsHandler{
		insightService:   insightService,
		analyticsService: analyticsService,
	}
}

// GetInsights handles GET /api/v1/insights
func (h *InsightsHandler) GetInsights(c *gin.Context) {
	userID, ok := userScope(c)
	if !ok {
		return
	}

	resp, err := h.insightService.GetInsights(c.Request.Context(), userID)
	if err != nil {
		logger.Ctx(c.Request.Context()).Error("failed to get insights", logger.Err(err), logger.String("user_id", userID))
		apierror.WriteProblem(c, apierror.NewInternalError(apierror.GetRequestID(c)))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RefreshInsights handles POST /api/v1/insights/refresh
func (h *InsightsHandler) RefreshInsights(c *gin.Context) {
	userID, ok := userScope(c)
	if !ok {
		return
	}

	resp, err := h.insightService.RefreshInsights(c.Request.Context(), userID)
	if err != nil {
		logger.Ctx(c.Request.Context()).Error("failed to refresh insights", logger.Err(err), logger.String("user_id", userID))
		apierror.WriteProblem(c, apierror.NewInternalError(apierror.GetRequestID(c)))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetStreaks handles GET /api/v1/insights/streaks
func (h *InsightsHandler) GetStreaks(c *gin.Context) {
	userID, ok := userScope(c)
	if !ok {
		return
	}

	streaks, err := h.analyticsService.GetStreaks(c.Request.Context(), userID)
	if err != nil {
		logger.Ctx(c.Request.Context()).Error("failed to get streaks", logger.Err(err), logger.String("user_id", userID))
		apierror.WriteProblem(c, apierror.NewInternalError(apierror.GetRequestID(c)))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"streaks": streaks,
	})
}

// DismissInsight handles POST /api/v1/insights/:id/dismiss
func (h *InsightsHandler) DismissInsight(c *gin.Context) {
	userID, ok := userScope(c)
	if !ok {
		return
	}
	insightID := c.Param("id")

	if err := h.insightService.DismissInsight(c.Request.Context(), userID, insightID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			apierror.WriteProblem(c, apierror.NewNotFoundError(apierror.GetRequestID(c), "Insight", insightID))
			return
		}
		logger.Ctx(c.Request.Context()).Error("failed to dismiss insight", logger.Err(err), logger.String("insight_id", insightID))
		apierror.WriteProblem(c, apierror.NewInternalError(apierror.GetRequestID(c)))
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "dismissed"})
}

// MarkInsightRead handles POST /api/v1/insights/:id/read
func (h *InsightsHandler) MarkInsightRead(c *gin.Context) {
	userID, ok := userScope(c)
	if !ok {
		return
	}
	insightID := c.Param("id")

	if err := h.insightService.MarkInsightRead(c.Request.Context(), userID, insightID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			apierror.WriteProblem(c, apierror.NewNotFoundError(apierror.GetRequestID(c), "Insight", insightID))
			return
		}
		logger.Ctx(c.Request.Context()).Error("failed to mark insight read", logger.Err(err), logger.String("insight_id", insightID))
		apierror.WriteProblem(c, apierror.NewInternalError(apierror.GetRequestID(c)))
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "read"})
}
