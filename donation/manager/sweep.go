package manager

import (
	"log"
	"time"
)

// SweepExpired removes invoices whose expiry has passed and reports how
// many were removed. An invoice promoted concurrently is safe: promotion
// goes through the ledger's compare-and-insert, and removal of an absent
// invoice is a no-op.
func (m *Manager) SweepExpired() int {
	ids := m.invoices.ExpiredBefore(time.Now())
	for _, id := range ids {
		m.invoices.Remove(id)
	}
	return len(ids)
}

// StartSweep bounds invoice store memory by sweeping expired invoices
// periodically. Expiry stays correct without it: CheckStatus observes
// expiry lazily on every call.
func (m *Manager) StartSweep(interval time.Duration) {
	go func() {
		for {
			time.Sleep(interval)
			if n := m.SweepExpired(); n > 0 {
				log.Printf("swept %d expired invoices", n)
			}
		}
	}()
}
