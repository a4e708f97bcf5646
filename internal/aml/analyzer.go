package aml

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/TaddsTechnology/piggy-risk/internal/idgen"
	"github.com/TaddsTechnology/piggy-risk/internal/transaction"
)

// Fixed pattern thresholds. Amounts are rupees.
const (
	monthlyVolumeLimit = 200_000.0

	structuringLow   = 45_000.0 // just under the 50k reporting threshold
	structuringHigh  = 49_000.0
	structuringCount = 5

	repeatMinAmount = 10_000.0
	repeatCount     = 3

	roundAmountUnit = 1_000.0
	roundFraction   = 0.8

	rapidWindowSize = 20
	rapidWindowSpan = 60 * time.Minute
)

// Point contributions per pattern.
const (
	pointsHighVolume      = 30
	pointsStructuring     = 40
	pointsRepeatedAmounts = 20
	pointsRoundAmounts    = 25
	pointsRapidFire       = 30
)

// Analyzer screens monthly transaction windows. Stateless apart from the
// optional audit store; safe for concurrent use.
type Analyzer struct {
	store Store
}

// NewAnalyzer creates an AML analyzer backed by the given audit store.
// A nil store disables the audit trail.
func NewAnalyzer(store Store) *Analyzer {
	return &Analyzer{store: store}
}

// Analyze screens one user's monthly window. Pure function of its inputs;
// every matched flag and description is accumulated regardless of the final
// category.
func (a *Analyzer) Analyze(ctx context.Context, userID string, monthly []transaction.Transaction) *Report {
	r := &Report{
		ID:         idgen.WithPrefix("aml_"),
		UserID:     userID,
		AnalyzedAt: time.Now().UTC(),
	}

	total := 0
	total += a.checkVolume(monthly, r)
	total += a.checkStructuring(monthly, r)
	total += a.checkRepeatedAmounts(monthly, r)
	total += a.checkRoundAmounts(monthly, r)
	total += a.checkRapidFire(monthly, r)

	if total > 100 {
		total = 100
	}
	r.Score = total
	r.Category = CategoryFor(total)
	r.RequiresManualReview = total >= ReviewThreshold

	// Persist asynchronously (best-effort audit trail)
	if a.store != nil {
		go func() {
			_ = a.store.Record(context.Background(), r)
		}()
	}

	return r
}

// checkVolume flags months whose summed amount crosses the volume ceiling.
func (a *Analyzer) checkVolume(monthly []transaction.Transaction, r *Report) int {
	var volume float64
	for i := range monthly {
		volume += monthly[i].Amount
	}
	r.MonthlyVolume = volume

	if volume <= monthlyVolumeLimit {
		return 0
	}
	r.Flags = append(r.Flags, FlagHighVolume)
	r.Patterns = append(r.Patterns,
		fmt.Sprintf("Monthly volume %.2f exceeds the %.0f ceiling", volume, monthlyVolumeLimit))
	return pointsHighVolume
}

// checkStructuring counts transactions placed just under the reporting
// threshold.
func (a *Analyzer) checkStructuring(monthly []transaction.Transaction, r *Report) int {
	count := 0
	for i := range monthly {
		amt := monthly[i].Amount
		if amt >= structuringLow && amt <= structuringHigh {
			count++
		}
	}
	if count < structuringCount {
		return 0
	}
	r.Flags = append(r.Flags, FlagStructuring)
	r.Patterns = append(r.Patterns,
		fmt.Sprintf("%d transactions between %.0f and %.0f, just under the reporting threshold",
			count, structuringLow, structuringHigh))
	return pointsStructuring
}

// checkRepeatedAmounts flags any large amount recurring across the month,
// with a description per repeated amount.
func (a *Analyzer) checkRepeatedAmounts(monthly []transaction.Transaction, r *Report) int {
	counts := make(map[float64]int)
	for i := range monthly {
		if monthly[i].Amount >= repeatMinAmount {
			counts[monthly[i].Amount]++
		}
	}

	var repeated []float64
	for amt, n := range counts {
		if n >= repeatCount {
			repeated = append(repeated, amt)
		}
	}
	if len(repeated) == 0 {
		return 0
	}
	sort.Float64s(repeated)

	r.Flags = append(r.Flags, FlagRepeatedAmounts)
	for _, amt := range repeated {
		r.Patterns = append(r.Patterns,
			fmt.Sprintf("Amount %.2f repeated %d times", amt, counts[amt]))
	}
	return pointsRepeatedAmounts
}

// checkRoundAmounts flags months dominated by exact multiples of 1000.
func (a *Analyzer) checkRoundAmounts(monthly []transaction.Transaction, r *Report) int {
	if len(monthly) == 0 {
		return 0
	}

	round := 0
	for i := range monthly {
		if isRoundAmount(monthly[i].Amount) {
			round++
		}
	}

	fraction := float64(round) / float64(len(monthly))
	if fraction <= roundFraction {
		return 0
	}
	r.Flags = append(r.Flags, FlagRoundAmounts)
	r.Patterns = append(r.Patterns,
		fmt.Sprintf("%.0f%% of transactions are round amounts", fraction*100))
	return pointsRoundAmounts
}

// checkRapidFire slides a fixed-size window over the time-sorted sequence
// looking for dense clusters. First matching window wins.
func (a *Analyzer) checkRapidFire(monthly []transaction.Transaction, r *Report) int {
	if len(monthly) < rapidWindowSize {
		return 0
	}

	sorted := make([]transaction.Transaction, len(monthly))
	copy(sorted, monthly)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	for i := 0; i+rapidWindowSize <= len(sorted); i++ {
		span := sorted[i+rapidWindowSize-1].Timestamp.Sub(sorted[i].Timestamp)
		if span <= rapidWindowSpan {
			r.Flags = append(r.Flags, FlagRapidFire)
			r.Patterns = append(r.Patterns,
				fmt.Sprintf("%d transactions within %.0f minutes", rapidWindowSize, span.Minutes()))
			return pointsRapidFire
		}
	}
	return 0
}

// isRoundAmount reports whether the amount is an exact multiple of 1000.
func isRoundAmount(amount float64) bool {
	if amount <= 0 {
		return false
	}
	return math.Mod(amount, roundAmountUnit) == 0
}
