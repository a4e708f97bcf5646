// Package transaction defines the transaction record consumed by the
// risk-scoring, AML, and integrity layers.
//
// A Transaction is built by the payment-initiation side immediately before
// scoring and is immutable from this layer's perspective: the analyzers read
// it, they never write it.
package transaction

import (
	"fmt"
	"time"
)

// Transaction is a single financial movement to be scored or
// integrity-protected. Amounts are in rupees.
type Transaction struct {
	ID                string    `json:"id"`
	UserID            string    `json:"userId"`
	Amount            float64   `json:"amount"`
	Merchant          string    `json:"merchant"`
	Location          string    `json:"location,omitempty"`
	Timestamp         time.Time `json:"timestamp"`
	IPAddress         string    `json:"ipAddress,omitempty"`
	ClientID          string    `json:"clientId,omitempty"`
	PaymentMethod     string    `json:"paymentMethod,omitempty"`
	DeviceFingerprint string    `json:"deviceFingerprint,omitempty"`
}

// New validates the given record and returns it as an immutable value.
// Construction is the only place validation errors surface; the scoring
// layers assume their inputs are well-formed.
func New(tx Transaction) (*Transaction, error) {
	if err := tx.Validate(); err != nil {
		return nil, err
	}
	return &tx, nil
}

// Validate checks the invariants every downstream component relies on.
func (t *Transaction) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("transaction: id is required")
	}
	if t.UserID == "" {
		return fmt.Errorf("transaction: user id is required")
	}
	if t.Timestamp.IsZero() {
		return fmt.Errorf("transaction: timestamp is required")
	}
	if t.Amount < 0 {
		return fmt.Errorf("transaction: amount must be non-negative, got %.2f", t.Amount)
	}
	return nil
}

// Hour returns the transaction's hour-of-day (0-23) in UTC, the ordering
// key used for time-pattern analysis.
func (t *Transaction) Hour() int {
	return t.Timestamp.UTC().Hour()
}
