package invoice

import (
	"errors"
	"sync"
	"time"

	"github.com/google/btree"
)

var ErrDuplicateID = errors.New("payment id already exists")

// expiryItem orders pending invoices by expiry so the sweep can collect
// expired ones without scanning the whole store
type expiryItem struct {
	expiresAt time.Time
	paymentID string
}

func (a expiryItem) Less(b btree.Item) bool {
	o := b.(expiryItem)
	if a.expiresAt.Equal(o.expiresAt) {
		return a.paymentID < o.paymentID
	}
	return a.expiresAt.Before(o.expiresAt)
}

// Store holds invoices awaiting payment, keyed by payment identifier
type Store struct {
	mu       sync.RWMutex
	invoices map[string]Invoice
	expiry   *btree.BTree
}

func NewStore() *Store {
	return &Store{
		invoices: make(map[string]Invoice),
		expiry:   btree.New(2),
	}
}

func (s *Store) Put(inv Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.invoices[inv.PaymentID]; ok {
		return ErrDuplicateID
	}
	s.invoices[inv.PaymentID] = inv
	s.expiry.ReplaceOrInsert(expiryItem{inv.ExpiresAt, inv.PaymentID})
	return nil
}

func (s *Store) Get(paymentID string) (Invoice, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inv, ok := s.invoices[paymentID]
	return inv, ok
}

// Remove deletes an invoice; removing an absent id is a no-op
func (s *Store) Remove(paymentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.invoices[paymentID]
	if !ok {
		return
	}
	delete(s.invoices, paymentID)
	s.expiry.Delete(expiryItem{inv.ExpiresAt, inv.PaymentID})
}

// ExpiredBefore returns the payment ids of invoices with expires_at < t
func (s *Store) ExpiredBefore(t time.Time) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []string
	s.expiry.AscendLessThan(expiryItem{expiresAt: t}, func(it btree.Item) bool {
		ids = append(ids, it.(expiryItem).paymentID)
		return true
	})
	return ids
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.invoices)
}
