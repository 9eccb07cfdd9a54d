// Package extract normalizes raw module records into date-keyed metric
// series. Adapters are registered per (module, metric) pair at startup;
// anything unregistered is reported as an unavailable source instead of
// being looked up dynamically at call time.
package extract

import (
	"context"
	"sort"
	"time"

	"github.com/lifelens/backend/internal/logger"
	"github.com/lifelens/backend/internal/models"
)

// Record is one timestamped numeric fact from a module's store.
type Record struct {
	Timestamp time.Time
	Value     float64
}

// RecordSource fetches raw records for one metric of one module.
// Implementations live in the repository layer.
type RecordSource interface {
	FetchRecords(ctx context.Context, userID string, start, end time.Time) ([]Record, error)
}

// Reduction collapses multiple same-day records into one point.
type Reduction string

const (
	// ReduceSum totals same-day values; used for counts and durations.
	ReduceSum Reduction = "sum"
	// ReduceMean averages same-day values; used for ratings.
	ReduceMean Reduction = "mean"
)

// Adapter extracts one (module, metric) pair into a MetricSeries.
type Adapter struct {
	Module    string
	Metric    string
	Reduction Reduction
	source    RecordSource
}

// NewAdapter wires a record source to a metric with its reduction policy.
func NewAdapter(module, metric string, reduction Reduction, source RecordSource) *Adapter {
	return &Adapter{Module: module, Metric: metric, Reduction: reduction, source: source}
}

// Extract fetches raw records for [start, end] (both inclusive), groups
// them by calendar date, and applies the adapter's reduction. Dates with
// no records are absent from the result, never zero-filled. A source
// failure degrades to an empty series so aggregate computations lose one
// pair instead of crashing.
func (a *Adapter) Extract(ctx context.Context, userID string, start, end time.Time) models.MetricSeries {
	series := models.MetricSeries{
		Module:    a.Module,
		Metric:    a.Metric,
		Points:    []models.TimeSeriesPoint{},
		StartDate: models.Day(start),
		EndDate:   models.Day(end),
	}

	records, err := a.source.FetchRecords(ctx, userID, start, end)
	if err != nil {
		logger.Ctx(ctx).Warn("metric source unavailable, returning empty series",
			logger.String("module", a.Module),
			logger.String("metric", a.Metric),
			logger.Err(err),
		)
		return series
	}

	type bucket struct {
		sum   float64
		count int
	}
	buckets := make(map[string]*bucket)
	for _, rec := range records {
		key := models.Day(rec.Timestamp).Format(models.DateFormat)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
		}
		b.sum += rec.Value
		b.count++
	}

	points := make([]models.TimeSeriesPoint, 0, len(buckets))
	for key, b := range buckets {
		date, err := time.Parse(models.DateFormat, key)
		if err != nil {
			continue
		}
		value := b.sum
		if a.Reduction == ReduceMean && b.count > 0 {
			value = b.sum / float64(b.count)
		}
		points = append(points, models.TimeSeriesPoint{Date: date.UTC(), Value: value})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })

	series.Points = points
	return series
}
