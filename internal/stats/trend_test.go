package stats

import (
	"testing"

	"github.com/lifelens/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestTrendImproving(t *testing.T) {
	series := seriesOf("tasks", "completed", testStart, 1, 1, 1, 1, 1, 10, 10, 10, 10, 10)

	result := Trend(series, 10.0)

	assert.Equal(t, 1.0, result.StartValue)
	assert.Equal(t, 10.0, result.EndValue)
	assert.InDelta(t, 900.0, result.ChangePercentage, 1e-9)
	assert.Equal(t, models.TrendImproving, result.Direction)
	assert.True(t, result.IsSignificant)
}

func TestTrendDeclining(t *testing.T) {
	series := seriesOf("focus", "minutes", testStart, 60, 60, 60, 30, 30, 30)

	result := Trend(series, 10.0)
	assert.Equal(t, models.TrendDeclining, result.Direction)
	assert.InDelta(t, -50.0, result.ChangePercentage, 1e-9)
	assert.True(t, result.IsSignificant)
}

func TestTrendStableWithinBand(t *testing.T) {
	series := seriesOf("sleep", "duration", testStart, 8, 8, 8, 8.2, 8.2, 8.2)

	result := Trend(series, 10.0)
	assert.Equal(t, models.TrendStable, result.Direction)
	assert.False(t, result.IsSignificant)
}

func TestTrendZeroFirstMean(t *testing.T) {
	series := seriesOf("journal", "entries", testStart, 0, 0, 3, 3)

	result := Trend(series, 10.0)
	assert.Zero(t, result.ChangePercentage)
	assert.Equal(t, models.TrendStable, result.Direction)
}

func TestTrendOddLengthFloorsFirstHalf(t *testing.T) {
	// len 5 splits 2|3: first mean 1, second mean 10.
	series := seriesOf("mood", "average", testStart, 1, 1, 10, 10, 10)

	result := Trend(series, 10.0)
	assert.Equal(t, 1.0, result.StartValue)
	assert.Equal(t, 10.0, result.EndValue)
}

func TestTrendTooShort(t *testing.T) {
	series := seriesOf("mood", "average", testStart, 5)

	result := Trend(series, 10.0)
	assert.Equal(t, models.TrendStable, result.Direction)
	assert.False(t, result.IsSignificant)
	assert.Zero(t, result.ChangePercentage)
}
