package fraud

import (
	"context"
	"strings"
	"time"

	"github.com/TaddsTechnology/piggy-risk/internal/idgen"
	"github.com/TaddsTechnology/piggy-risk/internal/profile"
	"github.com/TaddsTechnology/piggy-risk/internal/transaction"
)

// Fixed rule thresholds. Amounts are rupees.
const (
	highValueLimit      = 100_000.0 // single-transaction ceiling
	spikeMultiplier     = 5.0       // ratio to profile average
	maxAmountMultiplier = 2.0       // ratio to historical maximum

	hourlyTxLimit    = 10
	dailyAmountLimit = 500_000.0

	lateNightStart = 2 // 02:00 inclusive
	lateNightEnd   = 5 // 05:00 exclusive

	impossibleSpeed = 100.0 // distance units per hour
)

// Point contributions per signal.
const (
	pointsHighValue         = 40
	pointsAmountSpike       = 30
	pointsOverHistoricalMax = 25

	pointsHighVelocity    = 35
	pointsHighDailyVolume = 30

	pointsLateNightHour = 20
	pointsUnusualHour   = 10

	pointsRiskyMerchant = 25
	pointsNewMerchant   = 5

	pointsMissingDevice = 15
	pointsNewDevice     = 20

	pointsNoLocation       = 10
	pointsImpossibleTravel = 35
)

// highRiskKeywords flag merchant categories with elevated fraud rates.
// Matching is a case-insensitive substring check against the merchant name.
var highRiskKeywords = []string{
	"crypto",
	"bitcoin",
	"gambling",
	"casino",
	"betting",
	"lottery",
	"wire transfer",
	"money transfer",
	"gift card",
	"prepaid card",
}

// DistanceFunc estimates the distance between two free-text location
// strings. Identical strings must yield 0; the default is a deterministic
// stand-in to be swapped for real geocoordinate math.
type DistanceFunc func(a, b string) float64

// Engine scores transactions against behavioral profiles. Stateless apart
// from the optional audit store; safe for concurrent use.
type Engine struct {
	store    Store
	distance DistanceFunc
}

// NewEngine creates a fraud scoring engine backed by the given audit store.
// A nil store disables the audit trail.
func NewEngine(store Store) *Engine {
	return &Engine{
		store:    store,
		distance: PseudoDistance,
	}
}

// WithDistanceFunc overrides the location distance estimator.
func (e *Engine) WithDistanceFunc(f DistanceFunc) *Engine {
	if f != nil {
		e.distance = f
	}
	return e
}

// Score evaluates a single transaction. Pure function of its inputs: the
// recent window is re-filtered by elapsed time here, so callers do not need
// to pre-trim it. Reasons are collected in signal order regardless of which
// one ends up deciding the level.
func (e *Engine) Score(ctx context.Context, tx *transaction.Transaction, prof *profile.BehaviorProfile, recent []transaction.Transaction) *Assessment {
	if prof == nil {
		prof = &profile.BehaviorProfile{UserID: tx.UserID}
	}

	total := 0
	var reasons []Reason

	add := func(points int, reason *Reason) {
		if points <= 0 {
			return
		}
		total += points
		if reason != nil {
			reasons = append(reasons, *reason)
		}
	}

	add(e.checkAmount(tx, prof))
	add(e.checkVelocity(tx, recent))
	add(e.checkTimePattern(tx, prof))
	add(e.checkMerchant(tx, prof))
	add(e.checkDevice(tx, prof))
	add(e.checkLocation(tx, recent))

	capped := total
	if capped > 100 {
		capped = 100
	}

	a := &Assessment{
		ID:             idgen.WithPrefix("frd_"),
		TransactionID:  tx.ID,
		UserID:         tx.UserID,
		Score:          capped,
		Raw:            total,
		Level:          LevelFor(capped),
		Reasons:        reasons,
		Blocked:        capped >= BlockThreshold,
		RequiresReview: capped >= ReviewThreshold,
		EvaluatedAt:    time.Now().UTC(),
	}

	// Persist asynchronously (best-effort audit trail)
	if e.store != nil {
		go func() {
			_ = e.store.Record(context.Background(), a)
		}()
	}

	return a
}

// checkAmount compares the amount against the absolute ceiling, the profile
// average, and the historical maximum. Tiers are mutually exclusive;
// ceiling wins over spike-ratio wins over historical-max.
func (e *Engine) checkAmount(tx *transaction.Transaction, prof *profile.BehaviorProfile) (int, *Reason) {
	switch {
	case tx.Amount > highValueLimit:
		return pointsHighValue, &Reason{Code: ReasonHighValue, Params: map[string]any{"amount": tx.Amount}}
	case prof.AverageAmount > 0 && tx.Amount/prof.AverageAmount > spikeMultiplier:
		return pointsAmountSpike, &Reason{
			Code:   ReasonAmountSpike,
			Params: map[string]any{"ratio": tx.Amount / prof.AverageAmount},
		}
	case prof.MaxAmount > 0 && tx.Amount > maxAmountMultiplier*prof.MaxAmount:
		return pointsOverHistoricalMax, &Reason{Code: ReasonOverHistoricalMax, Params: map[string]any{"amount": tx.Amount}}
	default:
		return 0, nil
	}
}

// checkVelocity counts the trailing-hour transactions and trailing-24h
// volume, anchored at the transaction's own timestamp. First match wins.
func (e *Engine) checkVelocity(tx *transaction.Transaction, recent []transaction.Transaction) (int, *Reason) {
	hourAgo := tx.Timestamp.Add(-time.Hour)
	dayAgo := tx.Timestamp.Add(-24 * time.Hour)

	hourlyCount := 0
	var dailyAmount float64
	for i := range recent {
		prev := &recent[i]
		if prev.Timestamp.After(tx.Timestamp) {
			continue
		}
		if prev.Timestamp.After(hourAgo) {
			hourlyCount++
		}
		if prev.Timestamp.After(dayAgo) {
			dailyAmount += prev.Amount
		}
	}

	if hourlyCount > hourlyTxLimit {
		return pointsHighVelocity, &Reason{Code: ReasonHighVelocity, Params: map[string]any{"count": hourlyCount}}
	}
	if dailyAmount+tx.Amount > dailyAmountLimit {
		return pointsHighDailyVolume, &Reason{
			Code:   ReasonHighDailyVolume,
			Params: map[string]any{"amount": dailyAmount + tx.Amount},
		}
	}
	return 0, nil
}

// checkTimePattern flags transactions in hours the user has never
// transacted in, with a heavier penalty for the late-night band.
func (e *Engine) checkTimePattern(tx *transaction.Transaction, prof *profile.BehaviorProfile) (int, *Reason) {
	hour := tx.Hour()
	if prof.IsUsualHour(hour) {
		return 0, nil
	}
	if hour >= lateNightStart && hour < lateNightEnd {
		return pointsLateNightHour, &Reason{Code: ReasonLateNightHour, Params: map[string]any{"hour": hour}}
	}
	return pointsUnusualHour, &Reason{Code: ReasonUnusualHour, Params: map[string]any{"hour": hour}}
}

// checkMerchant flags unfamiliar merchants, escalating when the merchant
// name matches a high-risk category keyword.
func (e *Engine) checkMerchant(tx *transaction.Transaction, prof *profile.BehaviorProfile) (int, *Reason) {
	if prof.KnowsMerchant(tx.Merchant) {
		return 0, nil
	}
	name := strings.ToLower(tx.Merchant)
	for _, kw := range highRiskKeywords {
		if strings.Contains(name, kw) {
			return pointsRiskyMerchant, &Reason{Code: ReasonRiskyMerchant, Params: map[string]any{"keyword": kw}}
		}
	}
	return pointsNewMerchant, &Reason{Code: ReasonNewMerchant, Params: map[string]any{"merchant": tx.Merchant}}
}

// checkDevice flags a missing fingerprint or one the profile has never seen.
func (e *Engine) checkDevice(tx *transaction.Transaction, prof *profile.BehaviorProfile) (int, *Reason) {
	if tx.DeviceFingerprint == "" {
		return pointsMissingDevice, &Reason{Code: ReasonMissingDevice}
	}
	if !prof.KnowsDevice(tx.DeviceFingerprint) {
		return pointsNewDevice, &Reason{Code: ReasonNewDevice}
	}
	return 0, nil
}

// checkLocation estimates travel speed from the most recent prior located
// transaction. Missing or unusable location data degrades to a small fixed
// penalty rather than an error.
func (e *Engine) checkLocation(tx *transaction.Transaction, recent []transaction.Transaction) (int, *Reason) {
	loc := strings.TrimSpace(tx.Location)
	if loc == "" {
		return pointsNoLocation, &Reason{Code: ReasonNoLocation}
	}

	var prev *transaction.Transaction
	for i := range recent {
		cand := &recent[i]
		if strings.TrimSpace(cand.Location) == "" {
			continue
		}
		if cand.Timestamp.After(tx.Timestamp) {
			continue
		}
		if prev == nil || cand.Timestamp.After(prev.Timestamp) {
			prev = cand
		}
	}
	if prev == nil {
		return 0, nil
	}

	dist := e.distance(loc, prev.Location)
	if dist <= 0 {
		return 0, nil
	}

	elapsed := tx.Timestamp.Sub(prev.Timestamp).Hours()
	if elapsed < 1.0/60 {
		// Floor at one minute so back-to-back transactions in different
		// places register as impossible rather than dividing by zero.
		elapsed = 1.0 / 60
	}

	speed := dist / elapsed
	if speed > impossibleSpeed {
		return pointsImpossibleTravel, &Reason{Code: ReasonImpossibleTravel, Params: map[string]any{"speed": speed}}
	}
	return 0, nil
}
