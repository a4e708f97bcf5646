package aml

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory implementation of Store for demo/test use.
type MemoryStore struct {
	mu      sync.RWMutex
	reports map[string][]*Report // userID → reports
}

// NewMemoryStore creates an in-memory report store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		reports: make(map[string][]*Report),
	}
}

func (s *MemoryStore) Record(ctx context.Context, report *Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reports[report.UserID] = append(s.reports[report.UserID], copyReport(report))
	return nil
}

func (s *MemoryStore) ListByUser(ctx context.Context, userID string, limit int) ([]*Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.reports[userID]
	if len(all) == 0 {
		return nil, nil
	}

	start := len(all) - limit
	if start < 0 {
		start = 0
	}

	result := make([]*Report, 0, len(all)-start)
	for i := len(all) - 1; i >= start; i-- {
		result = append(result, copyReport(all[i]))
	}
	return result, nil
}

func copyReport(r *Report) *Report {
	c := *r
	c.Flags = append([]Flag(nil), r.Flags...)
	c.Patterns = append([]string(nil), r.Patterns...)
	return &c
}
