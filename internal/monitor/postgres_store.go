package monitor

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// PostgresStore persists activity alerts in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a PostgreSQL-backed alert store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Record(ctx context.Context, alert *Alert) error {
	detailsJSON, err := json.Marshal(alert.Details)
	if err != nil {
		return fmt.Errorf("failed to marshal details: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO activity_alerts
			(id, user_id, activity_type, count, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		alert.ID,
		alert.UserID,
		alert.ActivityType,
		alert.Count,
		detailsJSON,
		alert.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to record alert: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID string, limit int) ([]*Alert, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, activity_type, count, details, created_at
		FROM activity_alerts
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []*Alert
	for rows.Next() {
		var a Alert
		var detailsJSON []byte
		var createdAt time.Time

		if err := rows.Scan(&a.ID, &a.UserID, &a.ActivityType, &a.Count, &detailsJSON, &createdAt); err != nil {
			continue
		}
		a.Timestamp = createdAt
		_ = json.Unmarshal(detailsJSON, &a.Details)
		result = append(result, &a)
	}
	return result, nil
}
