package ledger

import "time"

// Donation is the durable record of a paid invoice. Entries are append-only;
// they are never mutated or deleted.
type Donation struct {
	ID        string    `json:"id"`
	DonorName string    `json:"donor_name"`
	Recipient string    `json:"recipient"`
	Amount    int64     `json:"amount_sats"`
	PaymentID string    `json:"payment_hash"`
	PaidAt    time.Time `json:"paid_at"`
}

type Stats struct {
	TotalSats  int64 `json:"total_sats"`
	DonorCount int   `json:"donor_count"`
}

// Store is the append-only donation ledger. Append must be atomic per
// payment id: at most one donation is ever recorded for a payment id, and
// concurrent appends for the same id all observe the same stored record.
type Store interface {
	// Append records d unless a donation for d.PaymentID already exists.
	// It returns the stored record and whether this call inserted it.
	Append(d Donation) (Donation, bool, error)
	FindByPaymentID(paymentID string) (Donation, bool, error)
	Stats() (Stats, error)
	// Recent returns up to limit donations, most recently paid first,
	// ties broken by insertion order
	Recent(limit int) ([]Donation, error)
}
