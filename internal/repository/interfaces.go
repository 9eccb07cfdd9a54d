package repository

import (
	"context"
	"errors"

	"github.com/lifelens/backend/internal/models"
)

// ErrNotFound is returned when a lookup matches no rows.
var ErrNotFound = errors.New("not found")

// InsightRepository defines the interface for insight persistence
type InsightRepository interface {
	BulkCreate(ctx context.Context, insights []models.InsightRecord) error
	GetValidByUserID(ctx context.Context, userID string) ([]models.InsightRecord, error)
	DeleteByUserID(ctx context.Context, userID string) error
	Dismiss(ctx context.Context, userID, insightID string) error
	MarkRead(ctx context.Context, userID, insightID string) error
}

// DashboardRepository defines the interface for dashboard configuration access
type DashboardRepository interface {
	GetByID(ctx context.Context, userID, dashboardID string) (*models.Dashboard, error)
}
