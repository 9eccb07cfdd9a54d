package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lifelens/backend/internal/apierror"
	"github.com/lifelens/backend/internal/extract"
	"github.com/lifelens/backend/internal/logger"
	"github.com/lifelens/backend/internal/models"
	"github.com/lifelens/backend/internal/service"
	"github.com/lifelens/backend/internal/stats"
)

// AnalyticsHandler handles statistical analysis HTTP requests
type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsService service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
	}
}

// userScope pulls the user scope set by the scope middleware.
func userScope(c *gin.Context) (string, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		apierror.WriteProblem(c, apierror.NewUnauthorizedError(apierror.GetRequestID(c)))
		return "", false
	}
	return userID.(string), true
}

// AnalyzeCorrelations handles POST /api/v1/correlations/analyze
func (h *AnalyticsHandler) AnalyzeCorrelations(c *gin.Context) {
	userID, ok := userScope(c)
	if !ok {
		return
	}

	// An empty body means a full default scan.
	var req models.CorrelationScanRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		apierror.WriteProblem(c, apierror.NewBadRequestError(apierror.GetRequestID(c),
			"Request body is not valid JSON", "Please check the request format"))
		return
	}

	var fieldErrs []apierror.FieldError
	var startDate, endDate time.Time
	if req.StartDate != "" {
		var err error
		if startDate, err = time.Parse(models.DateFormat, req.StartDate); err != nil {
			fieldErrs = append(fieldErrs, apierror.FieldError{
				Field: "start_date", Message: "must be a YYYY-MM-DD date", Code: "invalid_date",
			})
		}
	}
	if req.EndDate != "" {
		var err error
		if endDate, err = time.Parse(models.DateFormat, req.EndDate); err != nil {
			fieldErrs = append(fieldErrs, apierror.FieldError{
				Field: "end_date", Message: "must be a YYYY-MM-DD date", Code: "invalid_date",
			})
		}
	}
	if !startDate.IsZero() && !endDate.IsZero() && endDate.Before(startDate) {
		fieldErrs = append(fieldErrs, apierror.FieldError{
			Field: "end_date", Message: "must not precede start_date", Code: "invalid_range",
		})
	}
	if req.MinCorrelation < 0 || req.MinCorrelation > 1 {
		fieldErrs = append(fieldErrs, apierror.FieldError{
			Field: "min_correlation", Message: "must be between 0 and 1", Code: "out_of_range",
		})
	}
	if len(fieldErrs) > 0 {
		apierror.WriteProblem(c, apierror.NewValidationError(apierror.GetRequestID(c), fieldErrs))
		return
	}

	resp, err := h.analyticsService.AnalyzeCorrelations(c.Request.Context(), userID, &req, false)
	if err != nil {
		// A one-sided range can still invert against the derived default.
		if errors.Is(err, service.ErrInvalidDateRange) {
			apierror.WriteProblem(c, apierror.NewValidationError(apierror.GetRequestID(c), []apierror.FieldError{
				{Field: "end_date", Message: "must not precede start_date", Code: "invalid_range"},
			}))
			return
		}
		logger.Ctx(c.Request.Context()).Error("correlation scan failed", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewInternalError(apierror.GetRequestID(c)))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// DetectTrends handles GET /api/v1/trends/detect
func (h *AnalyticsHandler) DetectTrends(c *gin.Context) {
	userID, ok := userScope(c)
	if !ok {
		return
	}

	module := c.Query("module")
	period, err := strconv.Atoi(c.DefaultQuery("period", "30"))
	if err != nil || period <= 0 {
		apierror.WriteProblem(c, apierror.NewValidationError(apierror.GetRequestID(c), []apierror.FieldError{
			{Field: "period", Message: "must be a positive number of days", Code: "out_of_range"},
		}))
		return
	}

	resp, err := h.analyticsService.DetectTrends(c.Request.Context(), userID, module, period, false)
	if err != nil {
		if errors.Is(err, extract.ErrUnavailableSource) {
			apierror.WriteProblem(c, apierror.NewNotFoundError(apierror.GetRequestID(c), "Module", module))
			return
		}
		logger.Ctx(c.Request.Context()).Error("trend scan failed", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewInternalError(apierror.GetRequestID(c)))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ScanAnomalies handles GET /api/v1/anomalies/scan
func (h *AnalyticsHandler) ScanAnomalies(c *gin.Context) {
	userID, ok := userScope(c)
	if !ok {
		return
	}

	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil || days <= 0 {
		apierror.WriteProblem(c, apierror.NewValidationError(apierror.GetRequestID(c), []apierror.FieldError{
			{Field: "days", Message: "must be a positive number of days", Code: "out_of_range"},
		}))
		return
	}

	resp, err := h.analyticsService.ScanAnomalies(c.Request.Context(), userID, days, false)
	if err != nil {
		logger.Ctx(c.Request.Context()).Error("anomaly scan failed", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewInternalError(apierror.GetRequestID(c)))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GenerateForecast handles POST /api/v1/forecasts/generate
func (h *AnalyticsHandler) GenerateForecast(c *gin.Context) {
	userID, ok := userScope(c)
	if !ok {
		return
	}

	var req models.ForecastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.WriteProblem(c, apierror.NewBadRequestError(apierror.GetRequestID(c),
			"Request body is not valid JSON", "Please check the request format"))
		return
	}

	var fieldErrs []apierror.FieldError
	if req.Module == "" {
		fieldErrs = append(fieldErrs, apierror.FieldError{Field: "module", Message: "is required", Code: "required"})
	}
	if req.Metric == "" {
		fieldErrs = append(fieldErrs, apierror.FieldError{Field: "metric", Message: "is required", Code: "required"})
	}
	if req.PeriodDays < 0 {
		fieldErrs = append(fieldErrs, apierror.FieldError{Field: "period_days", Message: "must be positive", Code: "out_of_range"})
	}
	if len(fieldErrs) > 0 {
		apierror.WriteProblem(c, apierror.NewValidationError(apierror.GetRequestID(c), fieldErrs))
		return
	}

	result, err := h.analyticsService.GenerateForecast(c.Request.Context(), userID, &req, false)
	if err != nil {
		requestID := apierror.GetRequestID(c)
		switch {
		case errors.Is(err, extract.ErrUnavailableSource), errors.Is(err, extract.ErrUnsupportedMetric):
			apierror.WriteProblem(c, apierror.NewUnsupportedMetricError(requestID, req.Module, req.Metric))
		case stats.IsInsufficientData(err):
			apierror.WriteProblem(c, apierror.NewInsufficientDataError(requestID, err.Error()))
		default:
			logger.Ctx(c.Request.Context()).Error("forecast failed", logger.Err(err))
			apierror.WriteProblem(c, apierror.NewInternalError(requestID))
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
