package stats

import (
	"testing"

	"github.com/lifelens/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForecastLinearSeries(t *testing.T) {
	series := seriesOf("focus", "minutes", testStart, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10)

	result, err := Forecast(series, 3, 7)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, result.HistoricalSlope, 1e-9)
	assert.InDelta(t, 5.5, result.HistoricalAverage, 1e-9)
	assert.Equal(t, models.TrendImproving, result.TrendDirection)

	require.Len(t, result.ForecastPoints, 3)
	assert.InDelta(t, 11.0, result.ForecastPoints[0].PredictedValue, 1e-9)
	assert.InDelta(t, 11.0*0.9, result.ForecastPoints[0].ConfidenceLow, 1e-9)
	assert.InDelta(t, 11.0*1.1, result.ForecastPoints[0].ConfidenceHigh, 1e-9)
}

func TestForecastDatesStrictlyIncreasing(t *testing.T) {
	series := seriesOf("sleep", "duration", testStart, 7, 8, 7, 6, 8, 7, 7, 8)

	result, err := Forecast(series, 5, 7)
	require.NoError(t, err)
	require.Len(t, result.ForecastPoints, 5)

	lastHistorical := models.Day(series.Points[len(series.Points)-1].Date)
	assert.True(t, result.ForecastPoints[0].Date.After(lastHistorical))
	for i := 1; i < len(result.ForecastPoints); i++ {
		assert.True(t, result.ForecastPoints[i-1].Date.Before(result.ForecastPoints[i].Date))
	}
}

func TestForecastInsufficientHistory(t *testing.T) {
	series := seriesOf("mood", "average", testStart, 3, 4, 5)

	_, err := Forecast(series, 7, 7)
	require.Error(t, err)
	assert.True(t, IsInsufficientData(err))
}

func TestForecastFlatSeriesIsStable(t *testing.T) {
	series := seriesOf("habits", "completions", testStart, 2, 2, 2, 2, 2, 2, 2)

	result, err := Forecast(series, 2, 7)
	require.NoError(t, err)
	assert.Equal(t, models.TrendStable, result.TrendDirection)
	assert.Zero(t, result.HistoricalSlope)
	assert.InDelta(t, 2.0, result.ForecastPoints[0].PredictedValue, 1e-9)
}

func TestOLSFitZeroDenominatorGuard(t *testing.T) {
	slope, intercept := olsFit([]float64{4})
	assert.Zero(t, slope)
	assert.Equal(t, 4.0, intercept)
}
