// Package integrity provides tamper-evidence for transactions: a canonical
// SHA-256 digest over the fields that matter, and an HMAC-SHA256 signature
// that binds a transaction to a shared secret. Verification is constant-time
// and fails closed on any malformed input.
package integrity

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"time"

	"github.com/TaddsTechnology/piggy-risk/internal/transaction"
)

// Service computes and verifies transaction digests and signatures.
type Service struct {
	secret []byte
}

// NewService creates an integrity service keyed with the given secret.
// An empty secret disables signing; Hash still works.
func NewService(secret string) *Service {
	if secret == "" {
		return &Service{}
	}
	return &Service{secret: []byte(secret)}
}

// CanSign reports whether a signing secret is configured.
func (s *Service) CanSign() bool {
	return len(s.secret) > 0
}

// Hash returns the hex SHA-256 digest of the transaction's canonical form:
// userID|amount|merchant|timestamp, with the amount rendered to two decimal
// places and the timestamp in RFC 3339.
func (s *Service) Hash(tx transaction.Transaction) string {
	sum := sha256.Sum256([]byte(canonicalString(tx)))
	return hex.EncodeToString(sum[:])
}

// VerifyHash recomputes the digest and compares it in constant time.
func (s *Service) VerifyHash(tx transaction.Transaction, hash string) bool {
	expected := s.Hash(tx)
	return hmac.Equal([]byte(expected), []byte(hash))
}

// signedPayload is the canonical signing payload. Field order is the JSON
// key order, alphabetical, so the marshaled bytes are stable.
type signedPayload struct {
	Amount    float64 `json:"amount"`
	ID        string  `json:"id"`
	Timestamp string  `json:"timestamp"`
	UserID    string  `json:"userId"`
}

// Sign computes the hex HMAC-SHA256 of the transaction's canonical JSON
// payload. Returns empty when no secret is configured.
func (s *Service) Sign(tx transaction.Transaction) string {
	if !s.CanSign() {
		return ""
	}
	return SignWith(tx, s.secret)
}

// VerifySignature recomputes the HMAC and compares it in constant time
// against the hex-decoded signature. Malformed hex, an unconfigured secret,
// or any length mismatch verifies false.
func (s *Service) VerifySignature(tx transaction.Transaction, signature string) bool {
	if !s.CanSign() {
		return false
	}
	return VerifySignatureWith(tx, signature, s.secret)
}

// SignWith computes the hex HMAC-SHA256 of the transaction's canonical JSON
// payload under the given key.
func SignWith(tx transaction.Transaction, key []byte) string {
	mac := hmac.New(sha256.New, key)
	mac.Write(canonicalJSON(tx))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignatureWith recomputes the HMAC under the given key and compares
// it in constant time against the hex-decoded signature.
func VerifySignatureWith(tx transaction.Transaction, signature string, key []byte) bool {
	provided, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, key)
	mac.Write(canonicalJSON(tx))
	return hmac.Equal(mac.Sum(nil), provided)
}

func canonicalString(tx transaction.Transaction) string {
	return tx.UserID + "|" +
		strconv.FormatFloat(tx.Amount, 'f', 2, 64) + "|" +
		tx.Merchant + "|" +
		tx.Timestamp.UTC().Format(time.RFC3339)
}

func canonicalJSON(tx transaction.Transaction) []byte {
	// Marshal cannot fail for this shape.
	data, _ := json.Marshal(signedPayload{
		Amount:    tx.Amount,
		ID:        tx.ID,
		Timestamp: tx.Timestamp.UTC().Format(time.RFC3339),
		UserID:    tx.UserID,
	})
	return data
}
