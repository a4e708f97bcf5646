package monitor

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory implementation of Store for demo/test use.
type MemoryStore struct {
	mu     sync.RWMutex
	alerts map[string][]*Alert // userID → alerts
}

// NewMemoryStore creates an in-memory alert store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		alerts: make(map[string][]*Alert),
	}
}

func (s *MemoryStore) Record(ctx context.Context, alert *Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.alerts[alert.UserID] = append(s.alerts[alert.UserID], copyAlert(alert))
	return nil
}

func (s *MemoryStore) ListByUser(ctx context.Context, userID string, limit int) ([]*Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.alerts[userID]
	if len(all) == 0 {
		return nil, nil
	}

	start := len(all) - limit
	if start < 0 {
		start = 0
	}

	result := make([]*Alert, 0, len(all)-start)
	for i := len(all) - 1; i >= start; i-- {
		result = append(result, copyAlert(all[i]))
	}
	return result, nil
}

func copyAlert(a *Alert) *Alert {
	c := *a
	if a.Details != nil {
		c.Details = make(map[string]any, len(a.Details))
		for k, v := range a.Details {
			c.Details[k] = v
		}
	}
	return &c
}
