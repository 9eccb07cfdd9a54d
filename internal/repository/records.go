package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lifelens/backend/internal/extract"
	"github.com/lifelens/backend/pkg/lifestore"
)

// recordSource reads one module's table and projects each row onto a
// timestamped value. A blank valueColumn counts the row as 1, which is
// what completion-style metrics want.
type recordSource struct {
	client      *lifestore.Client
	table       string
	timeColumn  string
	valueColumn string
}

func (s *recordSource) FetchRecords(ctx context.Context, userID string, start, end time.Time) ([]extract.Record, error) {
	sel := s.timeColumn
	if s.valueColumn != "" {
		sel = fmt.Sprintf("%s,%s", s.timeColumn, s.valueColumn)
	}

	query := map[string]string{
		"user_id": fmt.Sprintf("eq.%s", userID),
		"and":     fmt.Sprintf("(%s.gte.%s,%s.lte.%s)", s.timeColumn, start.Format(time.RFC3339), s.timeColumn, end.Format(time.RFC3339)),
		"select":  sel,
		"order":   fmt.Sprintf("%s.asc", s.timeColumn),
	}

	body, err := s.client.Query(ctx, s.table, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", s.table, err)
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	records := make([]extract.Record, 0, len(rows))
	for _, row := range rows {
		ts, ok := parseTimestamp(row[s.timeColumn])
		if !ok {
			continue
		}

		value := 1.0
		if s.valueColumn != "" {
			v, ok := row[s.valueColumn].(float64)
			if !ok {
				continue
			}
			value = v
		}

		records = append(records, extract.Record{Timestamp: ts, Value: value})
	}

	return records, nil
}

// parseTimestamp accepts the timestamp formats the store emits: full
// RFC 3339, timezone-less timestamps, and bare dates.
func parseTimestamp(raw interface{}) (time.Time, bool) {
	s, ok := raw.(string)
	if !ok {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), true
		}
	}
	return time.Time{}, false
}

// NewTaskCompletionSource reads completed tasks; each row counts as one.
func NewTaskCompletionSource(client *lifestore.Client) extract.RecordSource {
	return &recordSource{client: client, table: "task_completions", timeColumn: "completed_at"}
}

// NewHabitCompletionSource reads habit check-ins; each row counts as one.
func NewHabitCompletionSource(client *lifestore.Client) extract.RecordSource {
	return &recordSource{client: client, table: "habit_completions", timeColumn: "completed_at"}
}

// NewMoodScoreSource reads mood entries with their 1-10 score.
func NewMoodScoreSource(client *lifestore.Client) extract.RecordSource {
	return &recordSource{client: client, table: "mood_entries", timeColumn: "recorded_at", valueColumn: "score"}
}

// NewSleepDurationSource reads sleep sessions keyed by wake-up time, so
// a night's sleep lands on the morning it ended.
func NewSleepDurationSource(client *lifestore.Client) extract.RecordSource {
	return &recordSource{client: client, table: "sleep_sessions", timeColumn: "ended_at", valueColumn: "duration_hours"}
}

// NewSleepQualitySource reads the self-reported quality score of each
// sleep session.
func NewSleepQualitySource(client *lifestore.Client) extract.RecordSource {
	return &recordSource{client: client, table: "sleep_sessions", timeColumn: "ended_at", valueColumn: "quality_score"}
}

// NewJournalEntrySource reads journal entries; each row counts as one.
func NewJournalEntrySource(client *lifestore.Client) extract.RecordSource {
	return &recordSource{client: client, table: "journal_entries", timeColumn: "created_at"}
}

// NewSpendingSource reads finance transactions with their amount.
func NewSpendingSource(client *lifestore.Client) extract.RecordSource {
	return &recordSource{client: client, table: "finance_transactions", timeColumn: "occurred_at", valueColumn: "amount"}
}

// NewFocusMinutesSource reads focus sessions with their length in minutes.
func NewFocusMinutesSource(client *lifestore.Client) extract.RecordSource {
	return &recordSource{client: client, table: "focus_sessions", timeColumn: "started_at", valueColumn: "minutes"}
}
