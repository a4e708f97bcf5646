package aml

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// PostgresStore persists AML reports in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a PostgreSQL-backed report store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Record(ctx context.Context, report *Report) error {
	patternsJSON, err := json.Marshal(report.Patterns)
	if err != nil {
		return fmt.Errorf("failed to marshal patterns: %w", err)
	}

	flags := make([]string, len(report.Flags))
	for i, f := range report.Flags {
		flags[i] = string(f)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO aml_reports
			(id, user_id, score, category, flags, monthly_volume, patterns, requires_manual_review, analyzed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		report.ID,
		report.UserID,
		report.Score,
		string(report.Category),
		pq.Array(flags),
		report.MonthlyVolume,
		patternsJSON,
		report.RequiresManualReview,
		report.AnalyzedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record aml report: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID string, limit int) ([]*Report, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, score, category, flags, monthly_volume, patterns, requires_manual_review, analyzed_at
		FROM aml_reports
		WHERE user_id = $1
		ORDER BY analyzed_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list aml reports: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []*Report
	for rows.Next() {
		var r Report
		var flags []string
		var patternsJSON []byte
		var analyzedAt time.Time

		if err := rows.Scan(&r.ID, &r.UserID, &r.Score, &r.Category, pq.Array(&flags),
			&r.MonthlyVolume, &patternsJSON, &r.RequiresManualReview, &analyzedAt); err != nil {
			continue
		}
		r.AnalyzedAt = analyzedAt
		for _, f := range flags {
			r.Flags = append(r.Flags, Flag(f))
		}
		_ = json.Unmarshal(patternsJSON, &r.Patterns)
		result = append(result, &r)
	}
	return result, nil
}
