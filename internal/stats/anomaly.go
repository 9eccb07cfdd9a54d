package stats

import (
	"math"

	"github.com/lifelens/backend/internal/models"
)

// minAnomalyHistory is the smallest series a z-score baseline can be
// built from.
const minAnomalyHistory = 7

// DetectAnomalies flags points whose z-score against the series'
// population mean and standard deviation strictly exceeds zThreshold.
// Severity escalates to high above highThreshold; sign picks spike vs
// drop. A zero standard deviation means no anomalies by definition.
func DetectAnomalies(series models.MetricSeries, zThreshold, highThreshold float64) ([]models.AnomalyResult, error) {
	points := series.Points
	if len(points) < minAnomalyHistory {
		return nil, &InsufficientDataError{Op: "anomaly detection", Need: minAnomalyHistory, Got: len(points)}
	}

	mean, std := MeanStd(series.Values())
	if std == 0 {
		return []models.AnomalyResult{}, nil
	}

	ref := models.MetricRef{Module: series.Module, Metric: series.Metric}
	anomalies := make([]models.AnomalyResult, 0)
	for _, p := range points {
		z := (p.Value - mean) / std
		if math.Abs(z) <= zThreshold {
			continue
		}

		anomalyType := models.AnomalySpike
		if z < 0 {
			anomalyType = models.AnomalyDrop
		}

		severity := models.SeverityMedium
		if math.Abs(z) > highThreshold {
			severity = models.SeverityHigh
		}

		anomalies = append(anomalies, models.AnomalyResult{
			Metric:        ref,
			Date:          models.Day(p.Date),
			AnomalyType:   anomalyType,
			Severity:      severity,
			ExpectedValue: mean,
			ActualValue:   p.Value,
			ZScore:        z,
		})
	}

	return anomalies, nil
}

// MeanStd returns the arithmetic mean and population standard deviation.
func MeanStd(values []float64) (mean, std float64) {
	n := len(values)
	if n == 0 {
		return 0, 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean = sum / float64(n)

	var sqDiff float64
	for _, v := range values {
		d := v - mean
		sqDiff += d * d
	}
	std = math.Sqrt(sqDiff / float64(n))

	return mean, std
}
