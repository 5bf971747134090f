package manager

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrOracleUnavailable means the payment oracle could not be reached. It is
// never mapped to PENDING: callers should retry the poll later.
var ErrOracleUnavailable = errors.New("payment oracle unavailable")

type Report struct {
	Paid   bool
	PaidAt time.Time // zero when the oracle does not report a settlement time
}

// Oracle answers whether a payment identifier has been paid. Any returned
// error means the answer is unknown, not that the payment failed.
type Oracle interface {
	IsPaid(ctx context.Context, paymentID string) (Report, error)
}

// FakeOracle reports an invoice as paid once it has been polled PaidAfter
// times. With PaidAfter <= 0 it never reports paid. Used in tests and as
// the dev-mode oracle when no Lightning node is configured.
type FakeOracle struct {
	PaidAfter int
	SettledAt time.Time // reported settlement time; zero means "now"

	mu    sync.Mutex
	polls map[string]int
}

func NewFakeOracle(paidAfter int) *FakeOracle {
	return &FakeOracle{PaidAfter: paidAfter, polls: make(map[string]int)}
}

func (f *FakeOracle) IsPaid(ctx context.Context, paymentID string) (Report, error) {
	if f.PaidAfter <= 0 {
		return Report{}, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.polls[paymentID]++
	if f.polls[paymentID] >= f.PaidAfter {
		return Report{Paid: true, PaidAt: f.SettledAt}, nil
	}
	return Report{}, nil
}
