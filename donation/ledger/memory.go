package ledger

import (
	"sort"
	"sync"
)

// MemoryStore keeps the ledger in process memory. Stats are maintained
// incrementally inside the same critical section as the append, so readers
// never see a donation without its stats or vice versa.
type MemoryStore struct {
	mu        sync.RWMutex
	donations []Donation
	byPayment map[string]int // payment id → index into donations
	stats     Stats
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byPayment: make(map[string]int),
	}
}

func (s *MemoryStore) Append(d Donation) (Donation, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.byPayment[d.PaymentID]; ok {
		return s.donations[i], false, nil
	}
	s.byPayment[d.PaymentID] = len(s.donations)
	s.donations = append(s.donations, d)
	s.stats.TotalSats += d.Amount
	s.stats.DonorCount++
	return d, true, nil
}

func (s *MemoryStore) FindByPaymentID(paymentID string) (Donation, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.byPayment[paymentID]
	if !ok {
		return Donation{}, false, nil
	}
	return s.donations[i], true, nil
}

func (s *MemoryStore) Stats() (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.stats, nil
}

func (s *MemoryStore) Recent(limit int) ([]Donation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// newest insertion first, then a stable sort by paid_at keeps
	// insertion order as the tiebreaker
	recent := make([]Donation, len(s.donations))
	for i, d := range s.donations {
		recent[len(s.donations)-1-i] = d
	}
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].PaidAt.After(recent[j].PaidAt)
	})
	if limit < 0 {
		limit = 0
	}
	if limit < len(recent) {
		recent = recent[:limit]
	}
	return recent, nil
}
