package stats

import (
	"math"

	"github.com/lifelens/backend/internal/models"
)

// Strength bucket boundaries for |r|.
const (
	veryStrongBound = 0.8
	strongBound     = 0.6
	moderateBound   = 0.4
	weakBound       = 0.2
)

// confidenceSampleCap is the overlap (in days) at which correlation
// confidence saturates at 1.0. The min(1, n/30) heuristic is preserved
// as-is for output compatibility; it is not a statistical interval.
const confidenceSampleCap = 30

// Pearson computes the Pearson correlation coefficient of an aligned
// sample. Fewer than minSample overlapping days, or a zero denominator
// (a constant series), yields 0 — never NaN, never an error.
func Pearson(sample models.AlignedSample, minSample int) float64 {
	n := len(sample)
	if n < minSample {
		return 0
	}

	var sumA, sumB float64
	for _, p := range sample {
		sumA += p.A
		sumB += p.B
	}
	meanA := sumA / float64(n)
	meanB := sumB / float64(n)

	var numerator, denomA, denomB float64
	for _, p := range sample {
		da := p.A - meanA
		db := p.B - meanB
		numerator += da * db
		denomA += da * da
		denomB += db * db
	}

	if denomA == 0 || denomB == 0 {
		return 0
	}

	return numerator / math.Sqrt(denomA*denomB)
}

// ClassifyStrength maps a coefficient onto the nine fixed buckets.
func ClassifyStrength(r float64) models.CorrelationStrength {
	abs := math.Abs(r)
	negative := r < 0

	switch {
	case abs >= veryStrongBound:
		if negative {
			return models.StrengthVeryStrongNegative
		}
		return models.StrengthVeryStrongPositive
	case abs >= strongBound:
		if negative {
			return models.StrengthStrongNegative
		}
		return models.StrengthStrongPositive
	case abs >= moderateBound:
		if negative {
			return models.StrengthModerateNegative
		}
		return models.StrengthModeratePositive
	case abs >= weakBound:
		if negative {
			return models.StrengthWeakNegative
		}
		return models.StrengthWeakPositive
	default:
		return models.StrengthNone
	}
}

// Confidence returns min(1, n/30): more overlapping days raise
// confidence, capped at 1.
func Confidence(sampleSize int) float64 {
	return math.Min(1.0, float64(sampleSize)/float64(confidenceSampleCap))
}

// Correlate runs the full correlation pipeline for one metric pair.
// Small samples force a zero coefficient and strength none.
func Correlate(a, b models.MetricSeries, minSample int) models.CorrelationResult {
	sample := Align(a, b)
	n := len(sample)

	r := Pearson(sample, minSample)
	strength := models.StrengthNone
	if n >= minSample {
		strength = ClassifyStrength(r)
	}

	return models.CorrelationResult{
		MetricA:     models.MetricRef{Module: a.Module, Metric: a.Metric},
		MetricB:     models.MetricRef{Module: b.Module, Metric: b.Metric},
		Coefficient: r,
		Strength:    strength,
		SampleSize:  n,
		Confidence:  Confidence(n),
	}
}
