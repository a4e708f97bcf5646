// Package aml implements monthly anti-money-laundering pattern analysis.
//
// A user's calendar-month transaction window is screened for structuring,
// repeated amounts, round-amount bias, volume, and rapid-fire clustering.
// Each matched pattern contributes a fixed number of points; the composite
// score is their sum, reported capped at 100.
package aml

import (
	"context"
	"time"
)

// Category classifies the capped composite score.
type Category string

const (
	CategoryLow    Category = "LOW"
	CategoryMedium Category = "MEDIUM"
	CategoryHigh   Category = "HIGH"
)

// Score thresholds for category mapping and the manual-review flag.
const (
	HighThreshold   = 70
	MediumThreshold = 40
	ReviewThreshold = 50
)

// Flag identifies a matched laundering pattern.
type Flag string

const (
	FlagHighVolume      Flag = "HIGH_VOLUME"
	FlagStructuring     Flag = "STRUCTURING"
	FlagRepeatedAmounts Flag = "REPEATED_AMOUNTS"
	FlagRoundAmounts    Flag = "ROUND_AMOUNTS"
	FlagRapidFire       Flag = "RAPID_FIRE"
)

// Report is the result of analyzing one user's monthly window.
type Report struct {
	ID                   string    `json:"id"`
	UserID               string    `json:"userId"`
	Score                int       `json:"score"`
	Category             Category  `json:"category"`
	Flags                []Flag    `json:"flags,omitempty"`
	MonthlyVolume        float64   `json:"monthlyVolume"`
	Patterns             []string  `json:"patterns,omitempty"`
	RequiresManualReview bool      `json:"requiresManualReview"`
	AnalyzedAt           time.Time `json:"analyzedAt"`
}

// HasFlag reports whether the given pattern was matched.
func (r *Report) HasFlag(f Flag) bool {
	for _, have := range r.Flags {
		if have == f {
			return true
		}
	}
	return false
}

// CategoryFor maps a capped score to its category.
func CategoryFor(score int) Category {
	switch {
	case score >= HighThreshold:
		return CategoryHigh
	case score >= MediumThreshold:
		return CategoryMedium
	default:
		return CategoryLow
	}
}

// Store persists reports for audit trail. Writes are best-effort; a verdict
// never depends on stored state.
type Store interface {
	Record(ctx context.Context, report *Report) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*Report, error)
}
