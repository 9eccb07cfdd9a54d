package service

import (
	"context"

	"github.com/lifelens/backend/internal/models"
)

// AnalyticsService defines the interface for statistical analysis
// business logic. refresh=true bypasses cached results and forces
// recomputation all the way down to the metric sources.
type AnalyticsService interface {
	AnalyzeCorrelations(ctx context.Context, userID string, req *models.CorrelationScanRequest, refresh bool) (*models.CorrelationScanResponse, error)
	DetectTrends(ctx context.Context, userID, module string, periodDays int, refresh bool) (*models.TrendScanResponse, error)
	ScanAnomalies(ctx context.Context, userID string, days int, refresh bool) (*models.AnomalyScanResponse, error)
	GenerateForecast(ctx context.Context, userID string, req *models.ForecastRequest, refresh bool) (*models.ForecastResult, error)
	GetStreaks(ctx context.Context, userID string) ([]models.StreakResult, error)
}

// InsightService defines the interface for the insight feed lifecycle
type InsightService interface {
	GetInsights(ctx context.Context, userID string) (*models.InsightsResponse, error)
	RefreshInsights(ctx context.Context, userID string) (*models.InsightsResponse, error)
	DismissInsight(ctx context.Context, userID, insightID string) error
	MarkInsightRead(ctx context.Context, userID, insightID string) error
}

// DashboardService defines the interface for dashboard widget resolution
type DashboardService interface {
	GetDashboardData(ctx context.Context, userID, dashboardID string, refresh bool) (*models.DashboardDataResponse, error)
}
