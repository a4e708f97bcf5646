package transaction

import (
	"testing"
	"time"
)

func validTx() Transaction {
	return Transaction{
		ID:        "txn_1",
		UserID:    "user_1",
		Amount:    499.00,
		Merchant:  "Grocery Mart",
		Timestamp: time.Date(2026, 8, 14, 10, 30, 0, 0, time.UTC),
	}
}

func TestNew_Valid(t *testing.T) {
	tx, err := New(validTx())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx.ID != "txn_1" {
		t.Errorf("expected id txn_1, got %s", tx.ID)
	}
}

func TestNew_MissingFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Transaction)
	}{
		{"missing id", func(tx *Transaction) { tx.ID = "" }},
		{"missing user id", func(tx *Transaction) { tx.UserID = "" }},
		{"zero timestamp", func(tx *Transaction) { tx.Timestamp = time.Time{} }},
		{"negative amount", func(tx *Transaction) { tx.Amount = -1 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx := validTx()
			tc.mutate(&tx)
			if _, err := New(tx); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestValidate_ZeroAmountAllowed(t *testing.T) {
	tx := validTx()
	tx.Amount = 0
	if err := tx.Validate(); err != nil {
		t.Errorf("zero amount should be valid: %v", err)
	}
}

func TestHour_UsesUTC(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	tx := validTx()
	tx.Timestamp = time.Date(2026, 8, 14, 3, 0, 0, 0, ist) // 21:30 UTC previous day

	if got := tx.Hour(); got != 21 {
		t.Errorf("expected hour 21 (UTC), got %d", got)
	}
}
