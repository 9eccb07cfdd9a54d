package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lifelens/backend/internal/models"
	"github.com/lifelens/backend/pkg/lifestore"
)

type dashboardRepository struct {
	client *lifestore.Client
}

// NewDashboardRepository creates a new dashboard repository
func NewDashboardRepository(client *lifestore.Client) DashboardRepository {
	return &dashboardRepository{client: client}
}

func (r *dashboardRepository) GetByID(ctx context.Context, userID, dashboardID string) (*models.Dashboard, error) {
	query := map[string]string{
		"id":      fmt.Sprintf("eq.%s", dashboardID),
		"user_id": fmt.Sprintf("eq.%s", userID),
		"select":  "*",
	}

	body, err := r.client.Query(ctx, "dashboards", query)
	if err != nil {
		return nil, fmt.Errorf("failed to get dashboard: %w", err)
	}

	var dashboards []models.Dashboard
	if err := json.Unmarshal(body, &dashboards); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(dashboards) == 0 {
		return nil, ErrNotFound
	}
	return &dashboards[0], nil
}
