package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifelens/backend/internal/extract"
	"github.com/lifelens/backend/internal/models"
	"github.com/lifelens/backend/internal/service"
	"github.com/lifelens/backend/internal/stats"
)

// stubAnalyticsService returns canned responses so handler tests only
// exercise parameter validation and error mapping.
type stubAnalyticsService struct {
	correlations *models.CorrelationScanResponse
	trends       *models.TrendScanResponse
	anomalies    *models.AnomalyScanResponse
	forecast     *models.ForecastResult
	streaks      []models.StreakResult
	err          error
}

func (s *stubAnalyticsService) AnalyzeCorrelations(ctx context.Context, userID string, req *models.CorrelationScanRequest, refresh bool) (*models.CorrelationScanResponse, error) {
	return s.correlations, s.err
}

func (s *stubAnalyticsService) DetectTrends(ctx context.Context, userID, module string, periodDays int, refresh bool) (*models.TrendScanResponse, error) {
	return s.trends, s.err
}

func (s *stubAnalyticsService) ScanAnomalies(ctx context.Context, userID string, days int, refresh bool) (*models.AnomalyScanResponse, error) {
	return s.anomalies, s.err
}

func (s *stubAnalyticsService) GenerateForecast(ctx context.Context, userID string, req *models.ForecastRequest, refresh bool) (*models.ForecastResult, error) {
	return s.forecast, s.err
}

func (s *stubAnalyticsService) GetStreaks(ctx context.Context, userID string) ([]models.StreakResult, error) {
	return s.streaks, s.err
}

// newScopedRouter mimics the scope middleware by setting user_id on
// every request before the handler runs.
func newScopedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", "user-1")
		c.Next()
	})
	return router
}

func decodeProblem(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	return problem
}

func fieldNames(t *testing.T, problem map[string]interface{}) []string {
	t.Helper()
	raw, ok := problem["errors"].([]interface{})
	require.True(t, ok, "expected field errors in problem")
	var names []string
	for _, e := range raw {
		names = append(names, e.(map[string]interface{})["field"].(string))
	}
	return names
}

func TestAnalyzeCorrelationsEmptyBodyDefaultScan(t *testing.T) {
	handler := NewAnalyticsHandler(&stubAnalyticsService{
		correlations: &models.CorrelationScanResponse{
			PairsEvaluated: 3,
			ComputedAt:     time.Now().UTC(),
		},
	})
	router := newScopedRouter()
	router.POST("/correlations/analyze", handler.AnalyzeCorrelations)

	req := httptest.NewRequest(http.MethodPost, "/correlations/analyze", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.CorrelationScanResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.PairsEvaluated)
}

func TestAnalyzeCorrelationsRejectsBadFields(t *testing.T) {
	handler := NewAnalyticsHandler(&stubAnalyticsService{})
	router := newScopedRouter()
	router.POST("/correlations/analyze", handler.AnalyzeCorrelations)

	body := `{"start_date":"01/15/2026","end_date":"2026-01-20","min_correlation":1.5}`
	req := httptest.NewRequest(http.MethodPost, "/correlations/analyze", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	problem := decodeProblem(t, w)
	assert.Equal(t, "urn:lifelens:error:validation", problem["type"])
	names := fieldNames(t, problem)
	assert.Contains(t, names, "start_date")
	assert.Contains(t, names, "min_correlation")
	assert.NotContains(t, names, "end_date")
}

func TestAnalyzeCorrelationsRejectsInvertedRange(t *testing.T) {
	handler := NewAnalyticsHandler(&stubAnalyticsService{})
	router := newScopedRouter()
	router.POST("/correlations/analyze", handler.AnalyzeCorrelations)

	body := `{"start_date":"2026-03-10","end_date":"2026-03-01"}`
	req := httptest.NewRequest(http.MethodPost, "/correlations/analyze", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	problem := decodeProblem(t, w)
	assert.Equal(t, "urn:lifelens:error:validation", problem["type"])
	assert.Contains(t, fieldNames(t, problem), "end_date")
}

func TestAnalyzeCorrelationsMapsInvalidRangeFromService(t *testing.T) {
	// A lone future start_date only inverts against the default end, so
	// the handler sees it as a service error.
	handler := NewAnalyticsHandler(&stubAnalyticsService{err: service.ErrInvalidDateRange})
	router := newScopedRouter()
	router.POST("/correlations/analyze", handler.AnalyzeCorrelations)

	body := `{"start_date":"2099-01-01"}`
	req := httptest.NewRequest(http.MethodPost, "/correlations/analyze", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "urn:lifelens:error:validation", decodeProblem(t, w)["type"])
}

func TestAnalyzeCorrelationsRejectsMalformedJSON(t *testing.T) {
	handler := NewAnalyticsHandler(&stubAnalyticsService{})
	router := newScopedRouter()
	router.POST("/correlations/analyze", handler.AnalyzeCorrelations)

	req := httptest.NewRequest(http.MethodPost, "/correlations/analyze", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyzeCorrelationsRequiresUserScope(t *testing.T) {
	handler := NewAnalyticsHandler(&stubAnalyticsService{})
	gin.SetMode(gin.TestMode)
	router := gin.New() // no scope middleware
	router.POST("/correlations/analyze", handler.AnalyzeCorrelations)

	req := httptest.NewRequest(http.MethodPost, "/correlations/analyze", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	problem := decodeProblem(t, w)
	assert.Equal(t, "urn:lifelens:error:unauthorized", problem["type"])
	assert.Equal(t, "set_user_scope", problem["action"])
}

func TestDetectTrendsRejectsBadPeriod(t *testing.T) {
	handler := NewAnalyticsHandler(&stubAnalyticsService{})
	router := newScopedRouter()
	router.GET("/trends/detect", handler.DetectTrends)

	for _, period := range []string{"abc", "0", "-5"} {
		req := httptest.NewRequest(http.MethodGet, "/trends/detect?module=mood&period="+period, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, "period=%s", period)
		assert.Contains(t, fieldNames(t, decodeProblem(t, w)), "period")
	}
}

func TestDetectTrendsUnknownModuleNotFound(t *testing.T) {
	handler := NewAnalyticsHandler(&stubAnalyticsService{err: extract.ErrUnavailableSource})
	router := newScopedRouter()
	router.GET("/trends/detect", handler.DetectTrends)

	req := httptest.NewRequest(http.MethodGet, "/trends/detect?module=meditation", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "urn:lifelens:error:not_found", decodeProblem(t, w)["type"])
}

func TestScanAnomaliesRejectsBadDays(t *testing.T) {
	handler := NewAnalyticsHandler(&stubAnalyticsService{})
	router := newScopedRouter()
	router.GET("/anomalies/scan", handler.ScanAnomalies)

	req := httptest.NewRequest(http.MethodGet, "/anomalies/scan?days=-1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, fieldNames(t, decodeProblem(t, w)), "days")
}

func TestScanAnomaliesDefaultWindow(t *testing.T) {
	handler := NewAnalyticsHandler(&stubAnalyticsService{
		anomalies: &models.AnomalyScanResponse{MetricsScanned: 4},
	})
	router := newScopedRouter()
	router.GET("/anomalies/scan", handler.ScanAnomalies)

	req := httptest.NewRequest(http.MethodGet, "/anomalies/scan", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.AnomalyScanResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.MetricsScanned)
}

func TestGenerateForecastRequiresFields(t *testing.T) {
	handler := NewAnalyticsHandler(&stubAnalyticsService{})
	router := newScopedRouter()
	router.POST("/forecasts/generate", handler.GenerateForecast)

	req := httptest.NewRequest(http.MethodPost, "/forecasts/generate", bytes.NewBufferString(`{"period_days":-3}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	names := fieldNames(t, decodeProblem(t, w))
	assert.Contains(t, names, "module")
	assert.Contains(t, names, "metric")
	assert.Contains(t, names, "period_days")
}

func TestGenerateForecastUnsupportedMetric(t *testing.T) {
	handler := NewAnalyticsHandler(&stubAnalyticsService{err: extract.ErrUnsupportedMetric})
	router := newScopedRouter()
	router.POST("/forecasts/generate", handler.GenerateForecast)

	body := `{"module":"mood","metric":"volatility"}`
	req := httptest.NewRequest(http.MethodPost, "/forecasts/generate", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	problem := decodeProblem(t, w)
	assert.Equal(t, "urn:lifelens:error:unsupported_metric", problem["type"])
	assert.Contains(t, problem["detail"], "mood.volatility")
}

func TestGenerateForecastInsufficientData(t *testing.T) {
	handler := NewAnalyticsHandler(&stubAnalyticsService{
		err: &stats.InsufficientDataError{Op: "forecast", Need: 7, Got: 2},
	})
	router := newScopedRouter()
	router.POST("/forecasts/generate", handler.GenerateForecast)

	body := `{"module":"sleep","metric":"duration"}`
	req := httptest.NewRequest(http.MethodPost, "/forecasts/generate", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "urn:lifelens:error:insufficient_data", decodeProblem(t, w)["type"])
}

func TestGenerateForecastSuccess(t *testing.T) {
	handler := NewAnalyticsHandler(&stubAnalyticsService{
		forecast: &models.ForecastResult{
			Metric:         models.MetricRef{Module: "mood", Metric: "average"},
			TrendDirection: models.TrendImproving,
		},
	})
	router := newScopedRouter()
	router.POST("/forecasts/generate", handler.GenerateForecast)

	body := `{"module":"mood","metric":"average","period_days":7}`
	req := httptest.NewRequest(http.MethodPost, "/forecasts/generate", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.ForecastResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.TrendImproving, resp.TrendDirection)
}
