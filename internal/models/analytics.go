package models

import "time"

// CorrelationStrength is one of nine fixed buckets used for
// human-readable labeling of a Pearson coefficient.
type CorrelationStrength string

const (
	StrengthVeryStrongPositive CorrelationStrength = "very_strong_positive"
	StrengthStrongPositive     CorrelationStrength = "strong_positive"
	StrengthModeratePositive   CorrelationStrength = "moderate_positive"
	StrengthWeakPositive       CorrelationStrength = "weak_positive"
	StrengthNone               CorrelationStrength = "none"
	StrengthWeakNegative       CorrelationStrength = "weak_negative"
	StrengthModerateNegative   CorrelationStrength = "moderate_negative"
	StrengthStrongNegative     CorrelationStrength = "strong_negative"
	StrengthVeryStrongNegative CorrelationStrength = "very_strong_negative"
)

// CorrelationResult is the outcome of correlating two aligned metric series.
// Fewer than three overlapping days forces Coefficient=0, Strength=none.
type CorrelationResult struct {
	MetricA            MetricRef           `json:"metric_a"`
	MetricB            MetricRef           `json:"metric_b"`
	Coefficient        float64             `json:"coefficient"`
	Strength           CorrelationStrength `json:"strength"`
	SampleSize         int                 `json:"sample_size"`
	Confidence         float64             `json:"confidence"`
	InsightTitle       string              `json:"insight_title"`
	InsightDescription string              `json:"insight_description"`
	Recommendations    []string            `json:"recommendations"`
}

// TrendDirection classifies how a series moved between its two halves.
type TrendDirection string

const (
	TrendImproving TrendDirection = "improving"
	TrendDeclining TrendDirection = "declining"
	TrendStable    TrendDirection = "stable"
	// TrendVolatile is reserved for a coefficient-of-variation check that
	// is not implemented yet; no computation produces it.
	TrendVolatile TrendDirection = "volatile"
)

// TrendResult compares the first and second halves of a series.
// IsSignificant holds iff |ChangePercentage| exceeds the configured
// significance threshold.
type TrendResult struct {
	Metric           MetricRef      `json:"metric"`
	Direction        TrendDirection `json:"direction"`
	StartValue       float64        `json:"start_value"`
	EndValue         float64        `json:"end_value"`
	ChangeAbsolute   float64        `json:"change_absolute"`
	ChangePercentage float64        `json:"change_percentage"`
	IsSignificant    bool           `json:"is_significant"`
}

// AnomalyType classifies the sign of an anomalous deviation.
type AnomalyType string

const (
	AnomalySpike   AnomalyType = "spike"
	AnomalyDrop    AnomalyType = "drop"
	AnomalyOutlier AnomalyType = "outlier"
)

// AnomalySeverity escalates with the magnitude of the z-score.
type AnomalySeverity string

const (
	SeverityLow    AnomalySeverity = "low"
	SeverityMedium AnomalySeverity = "medium"
	SeverityHigh   AnomalySeverity = "high"
)

// AnomalyResult is emitted only for points whose |z| exceeds the anomaly
// threshold (strict comparison).
type AnomalyResult struct {
	Metric        MetricRef       `json:"metric"`
	Date          time.Time       `json:"date"`
	AnomalyType   AnomalyType     `json:"anomaly_type"`
	Severity      AnomalySeverity `json:"severity"`
	ExpectedValue float64         `json:"expected_value"`
	ActualValue   float64         `json:"actual_value"`
	ZScore        float64         `json:"z_score"`
}

// ForecastPoint is a single predicted value with its confidence band.
// The band is a fixed ±10% heuristic, not a statistical interval.
type ForecastPoint struct {
	Date           time.Time `json:"date"`
	PredictedValue float64   `json:"predicted_value"`
	ConfidenceLow  float64   `json:"confidence_low"`
	ConfidenceHigh float64   `json:"confidence_high"`
}

// ForecastResult is a linear extrapolation of a metric series. All
// forecast dates are strictly after the last historical date and
// strictly increasing.
type ForecastResult struct {
	Metric            MetricRef       `json:"metric"`
	ForecastPoints    []ForecastPoint `json:"forecast_points"`
	TrendDirection    TrendDirection  `json:"trend_direction"`
	HistoricalAverage float64         `json:"historical_average"`
	HistoricalSlope   float64         `json:"historical_slope"`
}

// StreakResult counts consecutive-day runs over a presence series.
// LongestStreak is the longest run within the examined window only;
// callers needing an all-time longest must track it across calls.
type StreakResult struct {
	Module        string `json:"module"`
	Metric        string `json:"metric"`
	CurrentStreak int    `json:"current_streak"`
	LongestStreak int    `json:"longest_streak"`
}

// CorrelationScanRequest narrows a correlation scan. All fields are
// optional: no modules means all registered modules, no dates means the
// last 30 days, a zero MinCorrelation keeps every pair.
type CorrelationScanRequest struct {
	Modules        []string `json:"modules"`
	StartDate      string   `json:"start_date"`
	EndDate        string   `json:"end_date"`
	MinCorrelation float64  `json:"min_correlation"`
}

// ForecastRequest asks for a forward projection of one metric.
type ForecastRequest struct {
	Module     string `json:"module"`
	Metric     string `json:"metric"`
	PeriodDays int    `json:"period_days"`
}

// CorrelationScanResponse is the partial-success envelope for a
// cross-module correlation scan.
type CorrelationScanResponse struct {
	Correlations   []CorrelationResult `json:"correlations"`
	PairsEvaluated int                 `json:"pairs_evaluated"`
	PairsSkipped   int                 `json:"pairs_skipped"`
	ComputedAt     time.Time           `json:"computed_at"`
}

// TrendScanResponse carries per-metric trends with item-level counts.
type TrendScanResponse struct {
	Trends     []TrendResult `json:"trends"`
	Produced   int           `json:"produced"`
	Skipped    int           `json:"skipped"`
	ComputedAt time.Time     `json:"computed_at"`
}

// AnomalyScanResponse carries anomalies found across all registered metrics.
type AnomalyScanResponse struct {
	Anomalies      []AnomalyResult `json:"anomalies"`
	MetricsScanned int             `json:"metrics_scanned"`
	MetricsSkipped int             `json:"metrics_skipped"`
	ComputedAt     time.Time       `json:"computed_at"`
}
