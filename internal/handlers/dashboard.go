package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lifelens/backend/internal/apierror"
	"github.com/lifelens/backend/internal/logger"
	"github.com/lifelens/backend/internal/repository"
	"github.com/lifelens/backend/internal/service"
)

// DashboardHandler handles dashboard data HTTP requests
type DashboardHandler struct {
	dashboardService service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// GetDashboardData handles GET /api/v1/dashboard/:id/data
func (h *DashboardHandler) GetDashboardData(c *gin.Context) {
	userID, ok := userScope(c)
	if !ok {
		return
	}
	dashboardID := c.Param("id")

	refresh := false
	if raw := c.Query("refresh"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			apierror.WriteProblem(c, apierror.NewValidationError(apierror.GetRequestID(c), []apierror.FieldError{
				{Field: "refresh", Message: "must be a boolean", Code: "invalid_bool"},
			}))
			return
		}
		refresh = parsed
	}

	resp, err := h.dashboardService.GetDashboardData(c.Request.Context(), userID, dashboardID, refresh)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			apierror.WriteProblem(c, apierror.NewNotFoundError(apierror.GetRequestID(c), "Dashboard", dashboardID))
			return
		}
		logger.Ctx(c.Request.Context()).Error("failed to resolve dashboard", logger.Err(err), logger.String("dashboard_id", dashboardID))
		apierror.WriteProblem(c, apierror.NewInternalError(apierror.GetRequestID(c)))
		return
	}

	c.JSON(http.StatusOK, resp)
}
