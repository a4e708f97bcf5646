// Package fraud implements transaction fraud scoring.
//
// Every incoming transaction is evaluated against the user's behavioral
// profile and a recent-transaction window across 6 independent signals:
// amount, velocity, time pattern, merchant, device, and travel. Each signal
// contributes points; the composite score is their sum, reported capped at
// 100. Transactions at or above the block threshold should be rejected by
// the caller before funds move.
package fraud

import (
	"context"
	"fmt"
	"time"
)

// Level classifies the capped composite score.
type Level string

const (
	LevelLow      Level = "LOW"
	LevelMedium   Level = "MEDIUM"
	LevelHigh     Level = "HIGH"
	LevelCritical Level = "CRITICAL"
)

// Score thresholds for level mapping and enforcement flags.
const (
	BlockThreshold  = 80
	ReviewThreshold = 60
	MediumThreshold = 30
)

// ReasonCode identifies a fired scoring signal. Codes are stable so
// downstream consumers can localize or machine-parse them without string
// scraping; Reason.String renders the operator-facing text.
type ReasonCode string

const (
	ReasonHighValue         ReasonCode = "HIGH_VALUE"
	ReasonAmountSpike       ReasonCode = "AMOUNT_SPIKE"
	ReasonOverHistoricalMax ReasonCode = "OVER_HISTORICAL_MAX"
	ReasonHighVelocity      ReasonCode = "HIGH_VELOCITY"
	ReasonHighDailyVolume   ReasonCode = "HIGH_DAILY_VOLUME"
	ReasonLateNightHour     ReasonCode = "LATE_NIGHT_HOUR"
	ReasonUnusualHour       ReasonCode = "UNUSUAL_HOUR"
	ReasonRiskyMerchant     ReasonCode = "HIGH_RISK_MERCHANT"
	ReasonNewMerchant       ReasonCode = "UNFAMILIAR_MERCHANT"
	ReasonMissingDevice     ReasonCode = "MISSING_DEVICE"
	ReasonNewDevice         ReasonCode = "UNKNOWN_DEVICE"
	ReasonNoLocation        ReasonCode = "NO_LOCATION"
	ReasonImpossibleTravel  ReasonCode = "IMPOSSIBLE_TRAVEL"
)

// Reason is one fired signal with its parameters.
type Reason struct {
	Code   ReasonCode     `json:"code"`
	Params map[string]any `json:"params,omitempty"`
}

// String renders the human-readable description of the reason.
func (r Reason) String() string {
	switch r.Code {
	case ReasonHighValue:
		return "Extremely high transaction amount"
	case ReasonAmountSpike:
		if ratio, ok := r.Params["ratio"].(float64); ok {
			return fmt.Sprintf("Amount %.1fx higher than user average", ratio)
		}
		return "Amount far above user average"
	case ReasonOverHistoricalMax:
		return "Amount exceeds 2x historical maximum"
	case ReasonHighVelocity:
		if n, ok := r.Params["count"].(int); ok {
			return fmt.Sprintf("Too many transactions in the last hour (%d)", n)
		}
		return "Too many transactions in the last hour"
	case ReasonHighDailyVolume:
		return "Daily transaction volume limit exceeded"
	case ReasonLateNightHour:
		return "Transaction during unusual hours (2-5 AM)"
	case ReasonUnusualHour:
		return "Transaction outside usual hours"
	case ReasonRiskyMerchant:
		if kw, ok := r.Params["keyword"].(string); ok {
			return fmt.Sprintf("High-risk merchant category: %s", kw)
		}
		return "High-risk merchant category"
	case ReasonNewMerchant:
		return "Transaction with unfamiliar merchant"
	case ReasonMissingDevice:
		return "Missing device fingerprint"
	case ReasonNewDevice:
		return "Transaction from unrecognized device"
	case ReasonNoLocation:
		return "Location data unavailable"
	case ReasonImpossibleTravel:
		if speed, ok := r.Params["speed"].(float64); ok {
			return fmt.Sprintf("Physically impossible travel speed (%.0f units/hour)", speed)
		}
		return "Physically impossible travel speed"
	default:
		return string(r.Code)
	}
}

// Assessment is the result of scoring a single transaction.
// Score is capped at 100 for reporting; Raw keeps the uncapped sum.
type Assessment struct {
	ID             string    `json:"id"`
	TransactionID  string    `json:"transactionId"`
	UserID         string    `json:"userId"`
	Score          int       `json:"score"`
	Raw            int       `json:"-"`
	Level          Level     `json:"riskLevel"`
	Reasons        []Reason  `json:"reasons,omitempty"`
	Blocked        bool      `json:"blocked"`
	RequiresReview bool      `json:"requiresReview"`
	EvaluatedAt    time.Time `json:"evaluatedAt"`
}

// Descriptions renders all reasons in evaluation order.
func (a *Assessment) Descriptions() []string {
	out := make([]string, len(a.Reasons))
	for i, r := range a.Reasons {
		out[i] = r.String()
	}
	return out
}

// LevelFor maps a capped score to its risk level.
func LevelFor(score int) Level {
	switch {
	case score >= BlockThreshold:
		return LevelCritical
	case score >= ReviewThreshold:
		return LevelHigh
	case score >= MediumThreshold:
		return LevelMedium
	default:
		return LevelLow
	}
}

// Store persists assessments for audit trail. Writes are best-effort; a
// verdict never depends on stored state.
type Store interface {
	Record(ctx context.Context, assessment *Assessment) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*Assessment, error)
}
