package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/lifelens/backend/internal/logger"
	"github.com/lifelens/backend/internal/models"
	"github.com/lifelens/backend/internal/repository"
	"github.com/lifelens/backend/internal/stats"
)

// insightValidFor is how long a synthesized batch stays authoritative
// before the feed recomputes it.
const insightValidFor = 6 * time.Hour

type insightService struct {
	analytics AnalyticsService
	repo      repository.InsightRepository
}

// NewInsightService creates a new insight service
func NewInsightService(analytics AnalyticsService, repo repository.InsightRepository) InsightService {
	return &insightService{
		analytics: analytics,
		repo:      repo,
	}
}

// GetInsights serves the stored feed while it is valid and recomputes
// it when nothing valid remains.
func (s *insightService) GetInsights(ctx context.Context, userID string) (*models.InsightsResponse, error) {
	stored, err := s.repo.GetValidByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get stored insights: %w", err)
	}

	if len(stored) > 0 {
		return s.buildResponse(ctx, userID, stored)
	}
	// An expired feed may still be backed by fresh statistical caches.
	return s.recompute(ctx, userID, false)
}

// RefreshInsights drops the stored feed and synthesizes a fresh one,
// forcing the underlying statistical scans to recompute as well.
func (s *insightService) RefreshInsights(ctx context.Context, userID string) (*models.InsightsResponse, error) {
	return s.recompute(ctx, userID, true)
}

func (s *insightService) recompute(ctx context.Context, userID string, refresh bool) (*models.InsightsResponse, error) {
	if err := s.repo.DeleteByUserID(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to clear insights: %w", err)
	}

	insights, err := s.synthesizeAll(ctx, userID, refresh)
	if err != nil {
		return nil, err
	}

	if len(insights) > 0 {
		if err := s.repo.BulkCreate(ctx, insights); err != nil {
			return nil, fmt.Errorf("failed to store insights: %w", err)
		}
	}

	return s.buildResponse(ctx, userID, insights)
}

func (s *insightService) DismissInsight(ctx context.Context, userID, insightID string) error {
	return s.repo.Dismiss(ctx, userID, insightID)
}

func (s *insightService) MarkInsightRead(ctx context.Context, userID, insightID string) error {
	return s.repo.MarkRead(ctx, userID, insightID)
}

// synthesizeAll runs every detector and turns the combined results into
// stamped insight records. Detector failures degrade to fewer inputs
// rather than failing the feed.
func (s *insightService) synthesizeAll(ctx context.Context, userID string, refresh bool) ([]models.InsightRecord, error) {
	var correlations []models.CorrelationResult
	if scan, err := s.analytics.AnalyzeCorrelations(ctx, userID, &models.CorrelationScanRequest{}, refresh); err != nil {
		logger.Ctx(ctx).Warn("correlation scan failed during synthesis", logger.Err(err))
	} else {
		correlations = scan.Correlations
	}

	var trends []models.TrendResult
	if scan, err := s.analytics.DetectTrends(ctx, userID, "", 0, refresh); err != nil {
		logger.Ctx(ctx).Warn("trend scan failed during synthesis", logger.Err(err))
	} else {
		trends = scan.Trends
	}

	var anomalies []models.AnomalyResult
	if scan, err := s.analytics.ScanAnomalies(ctx, userID, 0, refresh); err != nil {
		logger.Ctx(ctx).Warn("anomaly scan failed during synthesis", logger.Err(err))
	} else {
		anomalies = scan.Anomalies
	}

	forecasts := s.forecastAll(ctx, userID, trends, refresh)

	insights := Synthesize(correlations, trends, anomalies, forecasts)

	now := time.Now().UTC()
	for i := range insights {
		insights[i].ID = uuid.New().String()
		insights[i].UserID = userID
		insights[i].CreatedAt = now
		insights[i].ValidUntil = now.Add(insightValidFor)
	}
	return insights, nil
}

// forecastAll projects the metrics that produced a trend. Metrics with
// too little history are silently skipped.
func (s *insightService) forecastAll(ctx context.Context, userID string, trends []models.TrendResult, refresh bool) []models.ForecastResult {
	forecasts := make([]models.ForecastResult, 0, len(trends))
	for _, t := range trends {
		result, err := s.analytics.GenerateForecast(ctx, userID, &models.ForecastRequest{
			Module: t.Metric.Module,
			Metric: t.Metric.Metric,
		}, refresh)
		if err != nil {
			if !stats.IsInsufficientData(err) {
				logger.Ctx(ctx).Warn("forecast failed during synthesis",
					logger.String("metric", t.Metric.String()), logger.Err(err))
			}
			continue
		}
		forecasts = append(forecasts, *result)
	}
	return forecasts
}

func (s *insightService) buildResponse(ctx context.Context, userID string, insights []models.InsightRecord) (*models.InsightsResponse, error) {
	// Stored order is creation time; the feed orders by severity.
	sort.SliceStable(insights, func(i, j int) bool {
		ri, rj := models.SeverityRank(insights[i].Severity), models.SeverityRank(insights[j].Severity)
		if ri != rj {
			return ri > rj
		}
		return insights[i].Confidence > insights[j].Confidence
	})

	streaks, err := s.analytics.GetStreaks(ctx, userID)
	if err != nil {
		logger.Ctx(ctx).Warn("streak computation failed", logger.Err(err))
		streaks = nil
	}

	return &models.InsightsResponse{
		Insights:   insights,
		Streaks:    streaks,
		ComputedAt: time.Now().UTC(),
	}, nil
}
