package monitor

import (
	"context"
	"sync"
	"testing"
	"time"
)

type captureSink struct {
	mu     sync.Mutex
	alerts []*Alert
}

func (s *captureSink) Publish(ctx context.Context, alert *Alert) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = append(s.alerts, alert)
}

func (s *captureSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.alerts)
}

func TestReport_BelowThresholdNoAlert(t *testing.T) {
	sink := &captureSink{}
	m := New(WithSink(sink))
	ctx := context.Background()

	for i := 1; i <= 2; i++ {
		count, alert := m.Report(ctx, "user_1", "failed_login", nil)
		if count != i {
			t.Errorf("report %d: expected count %d, got %d", i, i, count)
		}
		if alert != nil {
			t.Errorf("report %d: alerted below the threshold", i)
		}
	}
	if sink.count() != 0 {
		t.Errorf("sink received %d alerts below the threshold", sink.count())
	}
}

func TestReport_AlertsAtThresholdAndBeyond(t *testing.T) {
	sink := &captureSink{}
	m := New(WithSink(sink))
	ctx := context.Background()

	m.Report(ctx, "user_1", "failed_login", nil)
	m.Report(ctx, "user_1", "failed_login", nil)

	count, alert := m.Report(ctx, "user_1", "failed_login", map[string]any{"ip": "10.0.0.1"})
	if count != 3 || alert == nil {
		t.Fatalf("third report should alert with count 3, got count=%d alert=%v", count, alert)
	}
	if alert.UserID != "user_1" || alert.ActivityType != "failed_login" || alert.Count != 3 {
		t.Errorf("alert fields wrong: %+v", alert)
	}
	if alert.Details["ip"] != "10.0.0.1" {
		t.Errorf("details not carried through: %v", alert.Details)
	}

	// Past the threshold every report re-alerts.
	count, alert = m.Report(ctx, "user_1", "failed_login", nil)
	if count != 4 || alert == nil || alert.Count != 4 {
		t.Fatalf("fourth report should re-alert with count 4, got count=%d alert=%+v", count, alert)
	}
	if sink.count() != 2 {
		t.Errorf("expected 2 alerts in sink, got %d", sink.count())
	}
}

func TestReport_KeysAreScopedPerUserAndType(t *testing.T) {
	m := New()
	ctx := context.Background()

	m.Report(ctx, "user_1", "failed_login", nil)
	m.Report(ctx, "user_1", "failed_login", nil)
	m.Report(ctx, "user_1", "password_reset", nil)
	m.Report(ctx, "user_2", "failed_login", nil)

	if count, alert := m.Report(ctx, "user_2", "failed_login", nil); count != 2 || alert != nil {
		t.Errorf("user_2 counter leaked: count=%d alert=%v", count, alert)
	}
	if count, _ := m.Report(ctx, "user_1", "failed_login", nil); count != 3 {
		t.Errorf("user_1 failed_login counter lost: count=%d", count)
	}
}

func TestReport_CustomThreshold(t *testing.T) {
	m := New(WithThreshold(1))

	count, alert := m.Report(context.Background(), "user_1", "card_declined", nil)
	if count != 1 || alert == nil {
		t.Errorf("threshold 1 should alert on the first report, got count=%d alert=%v", count, alert)
	}

	if New(WithThreshold(0)).Threshold() != DefaultThreshold {
		t.Error("threshold below 1 must fall back to the default")
	}
}

func TestActivity_ScopedCopy(t *testing.T) {
	m := New()
	ctx := context.Background()

	m.Report(ctx, "user_1", "failed_login", nil)
	m.Report(ctx, "user_1", "failed_login", nil)
	m.Report(ctx, "user_1", "password_reset", nil)
	m.Report(ctx, "user_2", "failed_login", nil)

	activity := m.Activity("user_1")
	if len(activity) != 2 || activity["failed_login"] != 2 || activity["password_reset"] != 1 {
		t.Errorf("unexpected activity snapshot: %v", activity)
	}

	// Mutating the snapshot must not touch the monitor.
	activity["failed_login"] = 99
	if m.Activity("user_1")["failed_login"] != 2 {
		t.Error("Activity returned a live reference instead of a copy")
	}

	if len(m.Activity("user_3")) != 0 {
		t.Error("unknown user should have empty activity")
	}
}

func TestAllActivity(t *testing.T) {
	m := New()
	ctx := context.Background()

	m.Report(ctx, "user_1", "failed_login", nil)
	m.Report(ctx, "user_1", "failed_login", nil)
	m.Report(ctx, "user_2", "password_reset", nil)

	all := m.AllActivity()
	if len(all) != 2 {
		t.Fatalf("expected 2 counters, got %d: %v", len(all), all)
	}
	if all["user_1:failed_login"] != 2 {
		t.Errorf("user_1:failed_login = %d, want 2", all["user_1:failed_login"])
	}
	if all["user_2:password_reset"] != 1 {
		t.Errorf("user_2:password_reset = %d, want 1", all["user_2:password_reset"])
	}

	all["user_1:failed_login"] = 99
	if m.AllActivity()["user_1:failed_login"] != 2 {
		t.Error("AllActivity returned a live reference instead of a copy")
	}
}

func TestReset(t *testing.T) {
	m := New()
	ctx := context.Background()

	m.Report(ctx, "user_1", "failed_login", nil)
	m.Report(ctx, "user_1", "password_reset", nil)
	m.Report(ctx, "user_2", "failed_login", nil)

	m.Reset("user_1")

	if len(m.Activity("user_1")) != 0 {
		t.Error("reset did not clear user_1 counters")
	}
	if m.Activity("user_2")["failed_login"] != 1 {
		t.Error("reset leaked into user_2")
	}

	// Counting restarts from zero after a reset.
	if count, alert := m.Report(ctx, "user_1", "failed_login", nil); count != 1 || alert != nil {
		t.Errorf("post-reset report should start at 1, got count=%d alert=%v", count, alert)
	}
}

func TestReport_ConcurrentCounts(t *testing.T) {
	sink := &captureSink{}
	m := New(WithSink(sink))
	ctx := context.Background()

	const workers = 100
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			m.Report(ctx, "user_1", "failed_login", nil)
		}()
	}
	wg.Wait()

	if got := m.Activity("user_1")["failed_login"]; got != workers {
		t.Errorf("expected %d reports counted, got %d", workers, got)
	}
	// Reports 3..100 all alert.
	if sink.count() != workers-DefaultThreshold+1 {
		t.Errorf("expected %d alerts, got %d", workers-DefaultThreshold+1, sink.count())
	}
}

func TestReport_RecordsToAuditStore(t *testing.T) {
	store := NewMemoryStore()
	m := New(WithStore(store))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		m.Report(ctx, "user_1", "failed_login", nil)
	}

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		list, _ := store.ListByUser(ctx, "user_1", 10)
		if len(list) == 1 {
			if list[0].Count != 3 {
				t.Fatalf("stored alert has count %d, want 3", list[0].Count)
			}
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("alert never reached the audit store")
}
