package models

import (
	"encoding/json"
	"time"
)

// WidgetKind selects which computation backs a dashboard widget.
type WidgetKind string

const (
	WidgetCorrelation WidgetKind = "correlation"
	WidgetTrend       WidgetKind = "trend"
	WidgetAnomaly     WidgetKind = "anomaly"
	WidgetForecast    WidgetKind = "forecast"
	WidgetStreak      WidgetKind = "streak"
	WidgetSparkline   WidgetKind = "sparkline"
)

// WidgetConfig describes one dashboard widget. Module/Metric are unused
// for correlation widgets, which scan all registered pairs.
type WidgetConfig struct {
	ID            string     `json:"id"`
	Kind          WidgetKind `json:"kind"`
	Module        string     `json:"module,omitempty"`
	Metric        string     `json:"metric,omitempty"`
	TimeRangeDays int        `json:"time_range_days"`
}

// Dashboard is a stored set of widget configurations.
type Dashboard struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Name      string         `json:"name"`
	Widgets   []WidgetConfig `json:"widgets"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Widget resolution statuses. "unsupported" is distinct from empty data:
// it means no registered computation backs the requested widget.
const (
	WidgetStatusOK          = "ok"
	WidgetStatusUnsupported = "unsupported"
	WidgetStatusError       = "error"
)

// WidgetResult is the resolved payload for a single widget.
type WidgetResult struct {
	WidgetID string          `json:"widget_id"`
	Status   string          `json:"status"`
	Data     json.RawMessage `json:"data,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// DashboardDataResponse maps widget IDs to their resolved payloads.
type DashboardDataResponse struct {
	DashboardID string                  `json:"dashboard_id"`
	Widgets     map[string]WidgetResult `json:"widgets"`
	GeneratedAt time.Time               `json:"generated_at"`
}
