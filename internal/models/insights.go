package models

import "time"

// InsightType categorizes what kind of finding an insight reports.
type InsightType string

const (
	InsightTypeCorrelation InsightType = "correlation"
	InsightTypeTrend       InsightType = "trend"
	InsightTypeAnomaly     InsightType = "anomaly"
	InsightTypeStreak      InsightType = "streak"
	InsightTypeForecast    InsightType = "forecast"
)

// InsightSeverity ranks how urgently an insight deserves attention.
type InsightSeverity string

const (
	SeverityUrgent   InsightSeverity = "urgent"
	SeverityWarning  InsightSeverity = "warning"
	SeverityPositive InsightSeverity = "positive"
	SeverityInfo     InsightSeverity = "info"
)

// SeverityRank orders severities for deduplication; higher wins.
func SeverityRank(s InsightSeverity) int {
	switch s {
	case SeverityUrgent:
		return 3
	case SeverityWarning:
		return 2
	case SeverityPositive:
		return 1
	default:
		return 0
	}
}

// InsightRecord is a synthesized, human-readable finding. Everything is
// immutable after synthesis except the IsDismissed and IsRead flags.
type InsightRecord struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	Type           InsightType     `json:"type"`
	Severity       InsightSeverity `json:"severity"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	RelatedMetrics []MetricRef     `json:"related_metrics"`
	ActionItems    []string        `json:"action_items"`
	Confidence     float64         `json:"confidence"`
	CreatedAt      time.Time       `json:"created_at"`
	ValidUntil     time.Time       `json:"valid_until"`
	IsDismissed    bool            `json:"is_dismissed"`
	IsRead         bool            `json:"is_read"`
}

// InsightsResponse is the API envelope for the insight feed.
type InsightsResponse struct {
	Insights   []InsightRecord `json:"insights"`
	Streaks    []StreakResult  `json:"streaks,omitempty"`
	ComputedAt time.Time       `json:"computed_at"`
}
