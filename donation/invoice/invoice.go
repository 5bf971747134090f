package invoice

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TTL is the fixed lifetime of an unpaid invoice
const TTL = time.Hour

const AnonymousDonor = "Anonymous"

type Invoice struct {
	PaymentID string    `json:"payment_hash"` // unique payment identifier
	Amount    int64     `json:"amount_sats"`  // in satoshis
	DonorName string    `json:"donor_name"`
	Recipient string    `json:"recipient"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Payload   string    `json:"invoice"` // opaque encoded invoice handed to the wallet
}

func (inv Invoice) Expired(now time.Time) bool {
	return now.After(inv.ExpiresAt)
}

// NewPaymentID generates a 64-char hex payment identifier
func NewPaymentID() string {
	sum := sha256.Sum256([]byte(uuid.New().String()))
	return hex.EncodeToString(sum[:])
}

func ExpiryFor(createdAt time.Time) time.Time {
	return createdAt.Add(TTL)
}

// NormalizeDonor maps empty or whitespace-only names to the anonymous donor
func NormalizeDonor(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return AnonymousDonor
	}
	return name
}
