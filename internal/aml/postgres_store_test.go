//go:build integration

package aml

import (
	"context"
	"testing"
	"time"

	"github.com/TaddsTechnology/piggy-risk/internal/testutil"
)

func TestPostgresStore_RecordAndList(t *testing.T) {
	db, cleanup := testutil.PGTest(t)
	defer cleanup()

	store := NewPostgresStore(db)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	r := &Report{
		ID:                   "aml_pgtest001",
		UserID:               "user_pg",
		Score:                70,
		Category:             CategoryHigh,
		Flags:                []Flag{FlagStructuring, FlagHighVolume},
		MonthlyVolume:        240000.50,
		Patterns:             []string{"5 transactions just below reporting threshold"},
		RequiresManualReview: true,
		AnalyzedAt:           now,
	}

	if err := store.Record(ctx, r); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	got, err := store.ListByUser(ctx, "user_pg", 10)
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Expected 1 report, got %d", len(got))
	}

	if got[0].Score != 70 {
		t.Errorf("Score: got %d, want 70", got[0].Score)
	}
	if got[0].Category != CategoryHigh {
		t.Errorf("Category: got %s, want HIGH", got[0].Category)
	}
	if len(got[0].Flags) != 2 || got[0].Flags[0] != FlagStructuring {
		t.Errorf("Flags did not survive the round trip: %v", got[0].Flags)
	}
	if got[0].MonthlyVolume != 240000.50 {
		t.Errorf("MonthlyVolume: got %.2f, want 240000.50", got[0].MonthlyVolume)
	}
	if len(got[0].Patterns) != 1 {
		t.Errorf("Patterns did not survive the round trip: %v", got[0].Patterns)
	}
	if !got[0].RequiresManualReview {
		t.Error("RequiresManualReview should survive the round trip")
	}
}

func TestPostgresStore_ListOrderAndLimit(t *testing.T) {
	db, cleanup := testutil.PGTest(t)
	defer cleanup()

	store := NewPostgresStore(db)
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Second)

	for i := 0; i < 4; i++ {
		r := &Report{
			ID:         "aml_pgorder" + string(rune('0'+i)),
			UserID:     "user_order",
			Score:      10 * i,
			Category:   CategoryFor(10 * i),
			AnalyzedAt: base.Add(time.Duration(i) * time.Hour),
		}
		if err := store.Record(ctx, r); err != nil {
			t.Fatalf("Record #%d failed: %v", i, err)
		}
	}

	got, err := store.ListByUser(ctx, "user_order", 2)
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 reports with limit, got %d", len(got))
	}
	if got[0].ID != "aml_pgorder3" {
		t.Errorf("Expected newest report first, got %s", got[0].ID)
	}
}
