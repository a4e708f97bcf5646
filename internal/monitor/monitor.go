// Package monitor tracks suspicious activity reports per user and raises
// alerts when any activity type repeats past a threshold.
//
// Counters are keyed by (user, activity type). Once a counter reaches the
// threshold, every further report re-alerts, so a burst of failed logins
// keeps paging rather than firing once and going quiet.
package monitor

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/TaddsTechnology/piggy-risk/internal/idgen"
	"github.com/TaddsTechnology/piggy-risk/internal/logging"
)

// DefaultThreshold is the repeat count at which an activity starts alerting.
const DefaultThreshold = 3

// Alert is raised when an activity type repeats past the threshold.
type Alert struct {
	ID           string         `json:"id"`
	UserID       string         `json:"userId"`
	ActivityType string         `json:"activityType"`
	Count        int            `json:"count"`
	Details      map[string]any `json:"details,omitempty"`
	Timestamp    time.Time      `json:"timestamp"`
}

// Sink receives alerts as they are raised (log, websocket fan-out, pager).
type Sink interface {
	Publish(ctx context.Context, alert *Alert)
}

// Store persists alerts for the audit trail.
type Store interface {
	Record(ctx context.Context, alert *Alert) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*Alert, error)
}

// Monitor counts activity reports and raises alerts. Safe for concurrent use.
type Monitor struct {
	mu     sync.RWMutex
	counts map[string]int // "userID:activityType" → count

	threshold int
	sinks     []Sink
	store     Store
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithThreshold overrides the alert threshold. Values below 1 are ignored.
func WithThreshold(n int) Option {
	return func(m *Monitor) {
		if n >= 1 {
			m.threshold = n
		}
	}
}

// WithSink adds an alert sink. May be given multiple times.
func WithSink(s Sink) Option {
	return func(m *Monitor) {
		if s != nil {
			m.sinks = append(m.sinks, s)
		}
	}
}

// WithStore sets the audit store for raised alerts.
func WithStore(s Store) Option {
	return func(m *Monitor) { m.store = s }
}

// New creates an activity monitor. Each call gets its own counter space;
// nothing is shared between instances.
func New(opts ...Option) *Monitor {
	m := &Monitor{
		counts:    make(map[string]int),
		threshold: DefaultThreshold,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Threshold returns the configured alert threshold.
func (m *Monitor) Threshold() int {
	return m.threshold
}

// Report records one occurrence of an activity for a user and returns the
// new count plus the alert raised, if any. The alert fires on every report
// at or past the threshold.
func (m *Monitor) Report(ctx context.Context, userID, activityType string, details map[string]any) (int, *Alert) {
	key := userID + ":" + activityType

	m.mu.Lock()
	m.counts[key]++
	count := m.counts[key]
	m.mu.Unlock()

	if count < m.threshold {
		return count, nil
	}

	alert := &Alert{
		ID:           idgen.WithPrefix("alrt_"),
		UserID:       userID,
		ActivityType: activityType,
		Count:        count,
		Details:      details,
		Timestamp:    time.Now().UTC(),
	}

	for _, sink := range m.sinks {
		sink.Publish(ctx, alert)
	}

	// Persist asynchronously (best-effort audit trail)
	if m.store != nil {
		go func() {
			_ = m.store.Record(context.Background(), alert)
		}()
	}

	return count, alert
}

// Activity returns a copy of the user's counters, keyed by activity type.
func (m *Monitor) Activity(userID string) map[string]int {
	prefix := userID + ":"

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]int)
	for key, n := range m.counts {
		if strings.HasPrefix(key, prefix) {
			out[key[len(prefix):]] = n
		}
	}
	return out
}

// AllActivity returns a copy of every counter, keyed "userID:activityType".
func (m *Monitor) AllActivity() map[string]int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]int, len(m.counts))
	for key, n := range m.counts {
		out[key] = n
	}
	return out
}

// Reset clears all counters for a user.
func (m *Monitor) Reset(userID string) {
	prefix := userID + ":"

	m.mu.Lock()
	defer m.mu.Unlock()

	for key := range m.counts {
		if strings.HasPrefix(key, prefix) {
			delete(m.counts, key)
		}
	}
}

// AlertStore exposes the audit store for handlers. Nil when auditing is disabled.
func (m *Monitor) AlertStore() Store {
	return m.store
}

// LogSink writes alerts to the request-scoped structured logger.
type LogSink struct {
	Logger *slog.Logger
}

func (s LogSink) Publish(ctx context.Context, alert *Alert) {
	logger := s.Logger
	if logger == nil {
		logger = logging.L(ctx)
	}
	logger.Warn("suspicious activity alert",
		"alertId", alert.ID,
		"userId", alert.UserID,
		"activityType", alert.ActivityType,
		"count", alert.Count,
	)
}
