package fraud

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// PostgresStore persists fraud assessments in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a PostgreSQL-backed assessment store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Record(ctx context.Context, assessment *Assessment) error {
	reasonsJSON, err := json.Marshal(assessment.Reasons)
	if err != nil {
		return fmt.Errorf("failed to marshal reasons: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO fraud_assessments
			(id, transaction_id, user_id, score, risk_level, reasons, blocked, requires_review, evaluated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		assessment.ID,
		assessment.TransactionID,
		assessment.UserID,
		assessment.Score,
		string(assessment.Level),
		reasonsJSON,
		assessment.Blocked,
		assessment.RequiresReview,
		assessment.EvaluatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record fraud assessment: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID string, limit int) ([]*Assessment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, transaction_id, user_id, score, risk_level, reasons, blocked, requires_review, evaluated_at
		FROM fraud_assessments
		WHERE user_id = $1
		ORDER BY evaluated_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list fraud assessments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []*Assessment
	for rows.Next() {
		var a Assessment
		var reasonsJSON []byte
		var evaluatedAt time.Time

		if err := rows.Scan(&a.ID, &a.TransactionID, &a.UserID, &a.Score, &a.Level,
			&reasonsJSON, &a.Blocked, &a.RequiresReview, &evaluatedAt); err != nil {
			continue
		}
		a.Raw = a.Score
		a.EvaluatedAt = evaluatedAt
		_ = json.Unmarshal(reasonsJSON, &a.Reasons)
		result = append(result, &a)
	}
	return result, nil
}
