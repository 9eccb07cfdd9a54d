package stats

import (
	"math"

	"github.com/lifelens/backend/internal/models"
)

// trendDirectionBound is the change percentage beyond which a trend
// stops reading as stable.
const trendDirectionBound = 5.0

// Trend splits a series at its midpoint (the first half takes the floor
// on odd lengths), compares the half means, and classifies the movement.
// ChangePercentage is zero when the first-half mean is zero. The
// volatile direction is reserved for a coefficient-of-variation check
// that has no computation yet.
func Trend(series models.MetricSeries, significanceThreshold float64) models.TrendResult {
	ref := models.MetricRef{Module: series.Module, Metric: series.Metric}
	values := series.Values()
	if len(values) < 2 {
		return models.TrendResult{Metric: ref, Direction: models.TrendStable}
	}

	mid := len(values) / 2
	firstMean := mean(values[:mid])
	secondMean := mean(values[mid:])

	changeAbs := secondMean - firstMean
	var changePct float64
	if firstMean != 0 {
		changePct = changeAbs / firstMean * 100
	}

	direction := models.TrendStable
	if changePct > trendDirectionBound {
		direction = models.TrendImproving
	} else if changePct < -trendDirectionBound {
		direction = models.TrendDeclining
	}

	return models.TrendResult{
		Metric:           ref,
		Direction:        direction,
		StartValue:       firstMean,
		EndValue:         secondMean,
		ChangeAbsolute:   changeAbs,
		ChangePercentage: changePct,
		IsSignificant:    math.Abs(changePct) > significanceThreshold,
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
