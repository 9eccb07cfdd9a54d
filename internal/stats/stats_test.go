package stats

import (
	"time"

	"github.com/lifelens/backend/internal/models"
)

// seriesOf builds a MetricSeries with one value per consecutive day
// starting at start.
func seriesOf(module, metric string, start time.Time, values ...float64) models.MetricSeries {
	points := make([]models.TimeSeriesPoint, len(values))
	for i, v := range values {
		points[i] = models.TimeSeriesPoint{Date: start.AddDate(0, 0, i), Value: v}
	}
	end := start
	if len(values) > 0 {
		end = start.AddDate(0, 0, len(values)-1)
	}
	return models.MetricSeries{
		Module:    module,
		Metric:    metric,
		Points:    points,
		StartDate: start,
		EndDate:   end,
	}
}

var testStart = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
