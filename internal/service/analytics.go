package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lifelens/backend/internal/cache"
	"github.com/lifelens/backend/internal/config"
	"github.com/lifelens/backend/internal/extract"
	"github.com/lifelens/backend/internal/models"
	"github.com/lifelens/backend/internal/stats"
)

const (
	// defaultScanDays is the analysis window when a request names none.
	defaultScanDays = 30

	// forecastHistoryDays is how far back the forecast looks for its fit.
	forecastHistoryDays = 90

	// defaultForecastHorizon is the projected days when none are requested.
	defaultForecastHorizon = 7

	// streakWindowDays bounds the streak scan; a longest streak beyond it
	// is reported as the window's longest run.
	streakWindowDays = 365
)

// ErrInvalidDateRange reports a requested window whose end precedes its
// start. Handlers map it to a field-level validation problem.
var ErrInvalidDateRange = errors.New("end_date precedes start_date")

// streakMetrics are the presence-style metrics worth streak tracking.
var streakMetrics = []models.MetricRef{
	{Module: "habits", Metric: "completions"},
	{Module: "tasks", Metric: "completed"},
	{Module: "journal", Metric: "entries"},
}

type analyticsService struct {
	registry *extract.Registry
	cache    *cache.Cache
	cfg      config.AnalyticsConfig
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(registry *extract.Registry, c *cache.Cache, cfg config.AnalyticsConfig) AnalyticsService {
	return &analyticsService{
		registry: registry,
		cache:    c,
		cfg:      cfg,
	}
}

// window resolves a day count into a [start, end] calendar range ending today.
func window(days int) (time.Time, time.Time) {
	if days <= 0 {
		days = defaultScanDays
	}
	end := models.Day(time.Now())
	return end.AddDate(0, 0, -(days - 1)), end
}

// extractAll pulls every requested series concurrently. Extraction never
// fails; an unreachable source yields an empty series.
func (s *analyticsService) extractAll(ctx context.Context, userID string, refs []models.MetricRef, start, end time.Time) []models.MetricSeries {
	series := make([]models.MetricSeries, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, ref := range refs {
		g.Go(func() error {
			adapter, err := s.registry.Lookup(ref.Module, ref.Metric)
			if err != nil {
				series[i] = models.MetricSeries{Module: ref.Module, Metric: ref.Metric}
				return nil
			}
			series[i] = adapter.Extract(gctx, userID, start, end)
			return nil
		})
	}
	g.Wait()

	return series
}

// selectRefs filters registered metrics down to the requested modules.
// An empty module list means everything registered.
func (s *analyticsService) selectRefs(modules []string) []models.MetricRef {
	refs := s.registry.Metrics()
	if len(modules) == 0 {
		return refs
	}

	wanted := make(map[string]bool, len(modules))
	for _, m := range modules {
		wanted[m] = true
	}

	filtered := refs[:0]
	for _, ref := range refs {
		if wanted[ref.Module] {
			filtered = append(filtered, ref)
		}
	}
	return filtered
}

func (s *analyticsService) AnalyzeCorrelations(ctx context.Context, userID string, req *models.CorrelationScanRequest, refresh bool) (*models.CorrelationScanResponse, error) {
	start, end := window(defaultScanDays)
	var err error
	if req.EndDate != "" {
		if end, err = time.Parse(models.DateFormat, req.EndDate); err != nil {
			return nil, fmt.Errorf("invalid end_date: %w", err)
		}
		// Anchor the default window to the requested end, not to today.
		start = end.AddDate(0, 0, -(defaultScanDays - 1))
	}
	if req.StartDate != "" {
		if start, err = time.Parse(models.DateFormat, req.StartDate); err != nil {
			return nil, fmt.Errorf("invalid start_date: %w", err)
		}
	}
	if end.Before(start) {
		return nil, ErrInvalidDateRange
	}

	modules := append([]string(nil), req.Modules...)
	sort.Strings(modules)

	key := cache.Key(cache.KindCorrelationScan, userID,
		strings.Join(modules, ","),
		start.Format(models.DateFormat),
		end.Format(models.DateFormat),
		fmt.Sprintf("%.2f", req.MinCorrelation),
	)

	var resp models.CorrelationScanResponse
	err = s.cache.GetOrCompute(ctx, key, s.cfg.CorrelationTTL, refresh, &resp, func(ctx context.Context) (any, error) {
		return s.computeCorrelations(ctx, userID, modules, start, end, req.MinCorrelation), nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// computeCorrelations runs the pairwise scan. A pair with too little
// overlap or an empty side is skipped, never fatal: one broken module
// must not take down the whole scan.
func (s *analyticsService) computeCorrelations(ctx context.Context, userID string, modules []string, start, end time.Time, minCorrelation float64) *models.CorrelationScanResponse {
	refs := s.selectRefs(modules)
	series := s.extractAll(ctx, userID, refs, start, end)

	results := make([]models.CorrelationResult, 0)
	evaluated, skipped := 0, 0
	for i := 0; i < len(series); i++ {
		for j := i + 1; j < len(series); j++ {
			// Cross-module pairs only; correlating a module with itself
			// restates the obvious.
			if series[i].Module == series[j].Module {
				continue
			}
			if series[i].IsEmpty() || series[j].IsEmpty() {
				skipped++
				continue
			}

			result := stats.Correlate(series[i], series[j], s.cfg.MinCorrelationSample)
			if result.SampleSize < s.cfg.MinCorrelationSample {
				skipped++
				continue
			}
			evaluated++

			if math.Abs(result.Coefficient) < minCorrelation {
				continue
			}
			describeCorrelation(&result)
			results = append(results, result)
		}
	}

	sort.Slice(results, func(i, j int) bool {
		ai, aj := math.Abs(results[i].Coefficient), math.Abs(results[j].Coefficient)
		if ai != aj {
			return ai > aj
		}
		return results[i].MetricA.String()+results[i].MetricB.String() < results[j].MetricA.String()+results[j].MetricB.String()
	})

	return &models.CorrelationScanResponse{
		Correlations:   results,
		PairsEvaluated: evaluated,
		PairsSkipped:   skipped,
		ComputedAt:     time.Now().UTC(),
	}
}

func (s *analyticsService) DetectTrends(ctx context.Context, userID, module string, periodDays int, refresh bool) (*models.TrendScanResponse, error) {
	if module != "" && !s.registry.HasModule(module) {
		return nil, extract.ErrUnavailableSource
	}

	start, end := window(periodDays)
	key := cache.Key(cache.KindTrendScan, userID, module,
		start.Format(models.DateFormat), end.Format(models.DateFormat))

	var resp models.TrendScanResponse
	err := s.cache.GetOrCompute(ctx, key, s.cfg.DetectorTTL, refresh, &resp, func(ctx context.Context) (any, error) {
		var modules []string
		if module != "" {
			modules = []string{module}
		}
		refs := s.selectRefs(modules)
		series := s.extractAll(ctx, userID, refs, start, end)

		trends := make([]models.TrendResult, 0, len(series))
		produced, skipped := 0, 0
		for _, sr := range series {
			if sr.IsEmpty() {
				skipped++
				continue
			}
			trends = append(trends, stats.Trend(sr, s.cfg.SignificanceThreshold))
			produced++
		}

		return &models.TrendScanResponse{
			Trends:     trends,
			Produced:   produced,
			Skipped:    skipped,
			ComputedAt: time.Now().UTC(),
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *analyticsService) ScanAnomalies(ctx context.Context, userID string, days int, refresh bool) (*models.AnomalyScanResponse, error) {
	start, end := window(days)
	key := cache.Key(cache.KindAnomalyScan, userID,
		start.Format(models.DateFormat), end.Format(models.DateFormat),
		fmt.Sprintf("%.2f", s.cfg.AnomalyZThreshold))

	var resp models.AnomalyScanResponse
	err := s.cache.GetOrCompute(ctx, key, s.cfg.DetectorTTL, refresh, &resp, func(ctx context.Context) (any, error) {
		refs := s.registry.Metrics()
		series := s.extractAll(ctx, userID, refs, start, end)

		anomalies := make([]models.AnomalyResult, 0)
		scanned, skipped := 0, 0
		for _, sr := range series {
			found, err := stats.DetectAnomalies(sr, s.cfg.AnomalyZThreshold, s.cfg.AnomalyHighZThreshold)
			if err != nil {
				// Not enough history for a baseline; skip the metric.
				skipped++
				continue
			}
			scanned++
			anomalies = append(anomalies, found...)
		}

		sort.Slice(anomalies, func(i, j int) bool {
			if !anomalies[i].Date.Equal(anomalies[j].Date) {
				return anomalies[i].Date.Before(anomalies[j].Date)
			}
			return anomalies[i].Metric.String() < anomalies[j].Metric.String()
		})

		return &models.AnomalyScanResponse{
			Anomalies:      anomalies,
			MetricsScanned: scanned,
			MetricsSkipped: skipped,
			ComputedAt:     time.Now().UTC(),
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *analyticsService) GenerateForecast(ctx context.Context, userID string, req *models.ForecastRequest, refresh bool) (*models.ForecastResult, error) {
	adapter, err := s.registry.Lookup(req.Module, req.Metric)
	if err != nil {
		return nil, err
	}

	horizon := req.PeriodDays
	if horizon <= 0 {
		horizon = defaultForecastHorizon
	}
	start, end := window(forecastHistoryDays)

	key := cache.Key(cache.KindForecast, userID, req.Module, req.Metric,
		strconv.Itoa(horizon), end.Format(models.DateFormat))

	var result models.ForecastResult
	err = s.cache.GetOrCompute(ctx, key, s.cfg.DetectorTTL, refresh, &result, func(ctx context.Context) (any, error) {
		series := adapter.Extract(ctx, userID, start, end)
		forecast, err := stats.Forecast(series, horizon, s.cfg.ForecastMinHistory)
		if err != nil {
			return nil, err
		}
		return &forecast, nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *analyticsService) GetStreaks(ctx context.Context, userID string) ([]models.StreakResult, error) {
	start, end := window(streakWindowDays)
	today := time.Now()

	results := make([]models.StreakResult, 0, len(streakMetrics))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, ref := range streakMetrics {
		adapter, err := s.registry.Lookup(ref.Module, ref.Metric)
		if err != nil {
			continue
		}
		g.Go(func() error {
			series := adapter.Extract(gctx, userID, start, end)
			dates := make([]time.Time, len(series.Points))
			for i, p := range series.Points {
				dates[i] = p.Date
			}

			streak := stats.Streaks(dates, today)
			streak.Module = ref.Module
			streak.Metric = ref.Metric

			mu.Lock()
			results = append(results, streak)
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].Module < results[j].Module })
	return results, nil
}
