package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lifelens/backend/internal/cache"
	"github.com/lifelens/backend/internal/config"
	"github.com/lifelens/backend/internal/extract"
	"github.com/lifelens/backend/internal/models"
	"github.com/lifelens/backend/internal/repository"
	"github.com/lifelens/backend/internal/stats"
)

// sparklineWindow is the rolling-mean window drawn behind sparklines.
const sparklineWindow = 7

var errUnknownWidgetKind = errors.New("unknown widget kind")

type dashboardService struct {
	analytics AnalyticsService
	registry  *extract.Registry
	repo      repository.DashboardRepository
	cache     *cache.Cache
	cfg       config.AnalyticsConfig
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(analytics AnalyticsService, registry *extract.Registry, repo repository.DashboardRepository, c *cache.Cache, cfg config.AnalyticsConfig) DashboardService {
	return &dashboardService{
		analytics: analytics,
		registry:  registry,
		repo:      repo,
		cache:     c,
		cfg:       cfg,
	}
}

// GetDashboardData resolves every widget of a stored dashboard. Widgets
// resolve independently: an unsupported or failing widget yields its own
// status marker and never fails the batch.
func (s *dashboardService) GetDashboardData(ctx context.Context, userID, dashboardID string, refresh bool) (*models.DashboardDataResponse, error) {
	dashboard, err := s.repo.GetByID(ctx, userID, dashboardID)
	if err != nil {
		return nil, err
	}

	results := make(map[string]models.WidgetResult, len(dashboard.Widgets))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, widget := range dashboard.Widgets {
		g.Go(func() error {
			result := s.resolveWidget(gctx, userID, widget, refresh)
			mu.Lock()
			results[widget.ID] = result
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	return &models.DashboardDataResponse{
		DashboardID: dashboard.ID,
		Widgets:     results,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// resolveWidget computes one widget through the snapshot cache. Only
// successful payloads are cached; unsupported and failed widgets are
// reported per call.
func (s *dashboardService) resolveWidget(ctx context.Context, userID string, widget models.WidgetConfig, refresh bool) models.WidgetResult {
	key := cache.Key(cache.KindWidget, userID,
		widget.ID, string(widget.Kind), widget.Module, widget.Metric,
		strconv.Itoa(widget.TimeRangeDays))

	var data json.RawMessage
	err := s.cache.GetOrCompute(ctx, key, s.cfg.SnapshotTTL, refresh, &data, func(ctx context.Context) (any, error) {
		return s.computeWidget(ctx, userID, widget, refresh)
	})
	if err != nil {
		status := models.WidgetStatusError
		if errors.Is(err, extract.ErrUnavailableSource) ||
			errors.Is(err, extract.ErrUnsupportedMetric) ||
			errors.Is(err, errUnknownWidgetKind) {
			status = models.WidgetStatusUnsupported
		}
		return models.WidgetResult{WidgetID: widget.ID, Status: status, Error: err.Error()}
	}

	return models.WidgetResult{WidgetID: widget.ID, Status: models.WidgetStatusOK, Data: data}
}

// computeWidget builds one widget payload. refresh propagates to the
// nested analytics calls so a forced dashboard refresh recomputes their
// caches too instead of re-wrapping stale scans.
func (s *dashboardService) computeWidget(ctx context.Context, userID string, widget models.WidgetConfig, refresh bool) (any, error) {
	days := widget.TimeRangeDays
	if days <= 0 {
		days = defaultScanDays
	}
	start, end := window(days)

	switch widget.Kind {
	case models.WidgetCorrelation:
		return s.analytics.AnalyzeCorrelations(ctx, userID, &models.CorrelationScanRequest{
			StartDate: start.Format(models.DateFormat),
			EndDate:   end.Format(models.DateFormat),
		}, refresh)

	case models.WidgetTrend:
		adapter, err := s.registry.Lookup(widget.Module, widget.Metric)
		if err != nil {
			return nil, err
		}
		series := adapter.Extract(ctx, userID, start, end)
		return stats.Trend(series, s.cfg.SignificanceThreshold), nil

	case models.WidgetAnomaly:
		adapter, err := s.registry.Lookup(widget.Module, widget.Metric)
		if err != nil {
			return nil, err
		}
		series := adapter.Extract(ctx, userID, start, end)
		anomalies, err := stats.DetectAnomalies(series, s.cfg.AnomalyZThreshold, s.cfg.AnomalyHighZThreshold)
		if err != nil {
			return nil, err
		}
		return anomalies, nil

	case models.WidgetForecast:
		return s.analytics.GenerateForecast(ctx, userID, &models.ForecastRequest{
			Module: widget.Module,
			Metric: widget.Metric,
		}, refresh)

	case models.WidgetStreak:
		adapter, err := s.registry.Lookup(widget.Module, widget.Metric)
		if err != nil {
			return nil, err
		}
		streakStart, streakEnd := window(streakWindowDays)
		series := adapter.Extract(ctx, userID, streakStart, streakEnd)
		dates := make([]time.Time, len(series.Points))
		for i, p := range series.Points {
			dates[i] = p.Date
		}
		streak := stats.Streaks(dates, time.Now())
		streak.Module = widget.Module
		streak.Metric = widget.Metric
		return streak, nil

	case models.WidgetSparkline:
		adapter, err := s.registry.Lookup(widget.Module, widget.Metric)
		if err != nil {
			return nil, err
		}
		series := adapter.Extract(ctx, userID, start, end)
		return map[string]any{
			"series":       series,
			"rolling_mean": stats.RollingMean(series.Values(), sparklineWindow),
		}, nil

	default:
		return nil, fmt.Errorf("%w: %s", errUnknownWidgetKind, widget.Kind)
	}
}
