package manager

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"satsforgood/donation/invoice"
	"satsforgood/donation/ledger"
)

const (
	MinAmount = 1
	MaxAmount = 1_000_000
)

const maxIDRetries = 10

var (
	ErrInvalidAmount = errors.New("amount must be between 1 and 1000000 satoshis")
	ErrNotFound      = errors.New("unknown payment id")
)

type Status string

const (
	StatusPending Status = "PENDING"
	StatusPaid    Status = "PAID"
	StatusExpired Status = "EXPIRED"
)

type PaymentStatus struct {
	Status Status
	PaidAt time.Time // set when Status is PAID
}

type Receipt struct {
	ID            string    `json:"id"`
	DonorName     string    `json:"donor_name"`
	Recipient     string    `json:"recipient"`
	Amount        int64     `json:"amount_sats"`
	PaymentID     string    `json:"payment_hash"`
	PaidAt        time.Time `json:"paid_at"`
	TransactionID string    `json:"transaction_id"`
	Network       string    `json:"network"`
}

// Manager owns the invoice and donation lifecycle: it creates invoices,
// reconciles their state against the payment oracle, and promotes paid
// invoices into the ledger exactly once.
type Manager struct {
	invoices *invoice.Store
	ledger   ledger.Store
	oracle   Oracle
	encoder  invoice.Encoder
}

func New(invoices *invoice.Store, led ledger.Store, oracle Oracle, encoder invoice.Encoder) *Manager {
	return &Manager{
		invoices: invoices,
		ledger:   led,
		oracle:   oracle,
		encoder:  encoder,
	}
}

func (m *Manager) CreateInvoice(amount int64, donorName, recipient string) (invoice.Invoice, error) {
	if amount < MinAmount || amount > MaxAmount {
		return invoice.Invoice{}, ErrInvalidAmount
	}

	createdAt := time.Now()
	inv := invoice.Invoice{
		Amount:    amount,
		DonorName: invoice.NormalizeDonor(donorName),
		Recipient: recipient,
		CreatedAt: createdAt,
		ExpiresAt: invoice.ExpiryFor(createdAt),
	}

	// id collisions are recovered by regenerating, never surfaced
	for i := 0; i < maxIDRetries; i++ {
		inv.PaymentID = invoice.NewPaymentID()

		payload, err := m.encoder.Encode(inv.Amount, inv.PaymentID)
		if err != nil {
			return invoice.Invoice{}, fmt.Errorf("encoding invoice: %w", err)
		}
		inv.Payload = payload

		err = m.invoices.Put(inv)
		if err == nil {
			return inv, nil
		}
		if !errors.Is(err, invoice.ErrDuplicateID) {
			return invoice.Invoice{}, err
		}
	}
	return invoice.Invoice{}, errors.New("could not generate a unique payment id")
}

// CheckStatus reports the payment state for a payment id, promoting the
// invoice into the ledger when the oracle confirms payment. PAID and
// EXPIRED are terminal; repeated calls after payment are pure reads.
func (m *Manager) CheckStatus(ctx context.Context, paymentID string) (PaymentStatus, error) {
	// already promoted: answer from the ledger
	if d, ok, err := m.ledger.FindByPaymentID(paymentID); err != nil {
		return PaymentStatus{}, fmt.Errorf("reading ledger: %w", err)
	} else if ok {
		return PaymentStatus{Status: StatusPaid, PaidAt: d.PaidAt}, nil
	}

	inv, ok := m.invoices.Get(paymentID)
	if !ok {
		return PaymentStatus{}, ErrNotFound
	}

	now := time.Now()
	if inv.Expired(now) {
		m.invoices.Remove(paymentID)
		return PaymentStatus{Status: StatusExpired}, nil
	}

	// the oracle call can be slow; no store lock is held across it
	report, err := m.oracle.IsPaid(ctx, paymentID)
	if err != nil {
		return PaymentStatus{}, fmt.Errorf("%w: %v", ErrOracleUnavailable, err)
	}
	if !report.Paid {
		return PaymentStatus{Status: StatusPending}, nil
	}

	paidAt := report.PaidAt
	if paidAt.IsZero() {
		paidAt = now
	}
	d, inserted, err := m.ledger.Append(ledger.Donation{
		ID:        uuid.New().String(),
		DonorName: inv.DonorName,
		Recipient: inv.Recipient,
		Amount:    inv.Amount,
		PaymentID: inv.PaymentID,
		PaidAt:    paidAt,
	})
	if err != nil {
		return PaymentStatus{}, fmt.Errorf("recording donation: %w", err)
	}
	m.invoices.Remove(paymentID)
	if inserted {
		log.Printf("payment confirmed: %d sats from %s (hash %s)", d.Amount, d.DonorName, d.PaymentID)
	}
	return PaymentStatus{Status: StatusPaid, PaidAt: d.PaidAt}, nil
}

func (m *Manager) GetStats() (ledger.Stats, error) {
	return m.ledger.Stats()
}

func (m *Manager) GetRecentDonations(limit int) ([]ledger.Donation, error) {
	return m.ledger.Recent(limit)
}

// GetReceipt serves a receipt strictly from the ledger. Unknown ids fail
// with ErrNotFound; nothing is ever synthesized.
func (m *Manager) GetReceipt(paymentID string) (Receipt, error) {
	d, ok, err := m.ledger.FindByPaymentID(paymentID)
	if err != nil {
		return Receipt{}, fmt.Errorf("reading ledger: %w", err)
	}
	if !ok {
		return Receipt{}, ErrNotFound
	}
	return Receipt{
		ID:            d.ID,
		DonorName:     d.DonorName,
		Recipient:     d.Recipient,
		Amount:        d.Amount,
		PaymentID:     d.PaymentID,
		PaidAt:        d.PaidAt,
		TransactionID: d.ID,
		Network:       "lightning",
	}, nil
}
