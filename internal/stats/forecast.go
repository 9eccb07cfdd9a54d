package stats

import (
	"github.com/lifelens/backend/internal/models"
)

// confidenceBandRatio is the fixed ±10% band around each predicted
// value. This is a simplification kept for output compatibility, not a
// true prediction interval.
const confidenceBandRatio = 0.10

// slopeDeadZone is the per-day slope magnitude below which the forecast
// trend reads as stable.
const slopeDeadZone = 0.01

// Forecast fits ordinary least squares on (index, value) pairs and
// extrapolates horizon daily points. It needs at least minHistory
// historical points; every forecast date is strictly after the last
// historical date and strictly increasing.
func Forecast(series models.MetricSeries, horizon, minHistory int) (models.ForecastResult, error) {
	points := series.Points
	n := len(points)
	if n < minHistory {
		return models.ForecastResult{}, &InsufficientDataError{Op: "forecast", Need: minHistory, Got: n}
	}

	slope, intercept := olsFit(series.Values())

	mean, _ := MeanStd(series.Values())
	lastDate := models.Day(points[n-1].Date)

	forecast := make([]models.ForecastPoint, 0, horizon)
	for i := 1; i <= horizon; i++ {
		predicted := slope*float64(n-1+i) + intercept
		band := predicted * confidenceBandRatio
		if band < 0 {
			band = -band
		}
		forecast = append(forecast, models.ForecastPoint{
			Date:           lastDate.AddDate(0, 0, i),
			PredictedValue: predicted,
			ConfidenceLow:  predicted - band,
			ConfidenceHigh: predicted + band,
		})
	}

	direction := models.TrendStable
	if slope > slopeDeadZone {
		direction = models.TrendImproving
	} else if slope < -slopeDeadZone {
		direction = models.TrendDeclining
	}

	return models.ForecastResult{
		Metric:            models.MetricRef{Module: series.Module, Metric: series.Metric},
		ForecastPoints:    forecast,
		TrendDirection:    direction,
		HistoricalAverage: mean,
		HistoricalSlope:   slope,
	}, nil
}

// olsFit computes the closed-form least squares slope and intercept over
// (0..n-1, value) pairs. A zero denominator cannot occur with two or
// more distinct indices but is guarded anyway.
func olsFit(values []float64) (slope, intercept float64) {
	n := float64(len(values))
	if n == 0 {
		return 0, 0
	}

	var sumX, sumY float64
	for i, y := range values {
		sumX += float64(i)
		sumY += y
	}
	meanX := sumX / n
	meanY := sumY / n

	var numerator, denominator float64
	for i, y := range values {
		dx := float64(i) - meanX
		numerator += dx * (y - meanY)
		denominator += dx * dx
	}

	if denominator == 0 {
		return 0, meanY
	}

	slope = numerator / denominator
	intercept = meanY - slope*meanX
	return slope, intercept
}
