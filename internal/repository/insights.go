package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lifelens/backend/internal/models"
	"github.com/lifelens/backend/pkg/lifestore"
)

type insightRepository struct {
	client *lifestore.Client
}

// NewInsightRepository creates a new insight repository
func NewInsightRepository(client *lifestore.Client) InsightRepository {
	return &insightRepository{client: client}
}

func (r *insightRepository) BulkCreate(ctx context.Context, insights []models.InsightRecord) error {
	if len(insights) == 0 {
		return nil
	}

	// PostgREST requires all objects in a bulk insert to carry the same keys.
	data := make([]map[string]interface{}, len(insights))
	for i, insight := range insights {
		data[i] = map[string]interface{}{
			"id":              insight.ID,
			"user_id":         insight.UserID,
			"type":            insight.Type,
			"severity":        insight.Severity,
			"title":           insight.Title,
			"description":     insight.Description,
			"related_metrics": insight.RelatedMetrics,
			"action_items":    insight.ActionItems,
			"confidence":      insight.Confidence,
			"created_at":      insight.CreatedAt,
			"valid_until":     insight.ValidUntil,
			"is_dismissed":    insight.IsDismissed,
			"is_read":         insight.IsRead,
		}
	}

	if _, err := r.client.Insert(ctx, "insights", data); err != nil {
		return fmt.Errorf("failed to bulk create insights: %w", err)
	}
	return nil
}

func (r *insightRepository) GetValidByUserID(ctx context.Context, userID string) ([]models.InsightRecord, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	query := map[string]string{
		"user_id":      fmt.Sprintf("eq.%s", userID),
		"valid_until":  fmt.Sprintf("gt.%s", now),
		"is_dismissed": "eq.false",
		"select":       "*",
		"order":        "created_at.desc",
	}

	body, err := r.client.Query(ctx, "insights", query)
	if err != nil {
		return nil, fmt.Errorf("failed to get valid insights: %w", err)
	}

	var insights []models.InsightRecord
	if err := json.Unmarshal(body, &insights); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return insights, nil
}

func (r *insightRepository) DeleteByUserID(ctx context.Context, userID string) error {
	query := map[string]string{
		"user_id": fmt.Sprintf("eq.%s", userID),
	}

	if err := r.client.DeleteWhere(ctx, "insights", query); err != nil {
		return fmt.Errorf("failed to delete insights: %w", err)
	}
	return nil
}

func (r *insightRepository) Dismiss(ctx context.Context, userID, insightID string) error {
	return r.setFlag(ctx, userID, insightID, "is_dismissed")
}

func (r *insightRepository) MarkRead(ctx context.Context, userID, insightID string) error {
	return r.setFlag(ctx, userID, insightID, "is_read")
}

// setFlag flips one of the two mutable insight columns. The user filter
// keeps one user from touching another's insights.
func (r *insightRepository) setFlag(ctx context.Context, userID, insightID, column string) error {
	query := map[string]string{
		"id":      fmt.Sprintf("eq.%s", insightID),
		"user_id": fmt.Sprintf("eq.%s", userID),
	}

	body, err := r.client.UpdateWhere(ctx, "insights", query, map[string]interface{}{column: true})
	if err != nil {
		return fmt.Errorf("failed to update insight: %w", err)
	}

	var updated []models.InsightRecord
	if err := json.Unmarshal(body, &updated); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(updated) == 0 {
		return ErrNotFound
	}
	return nil
}
