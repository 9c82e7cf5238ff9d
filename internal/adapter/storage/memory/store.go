// Package memory is an in-process Store. Transactions run one at a time against a
// copy of the data and replace it only on success, which makes them trivially
// serializable and all-or-nothing.
package memory

import (
	"context"
	"sync"

	"escrow-wallet-ledger/internal/core/domain"
	"escrow-wallet-ledger/internal/core/ports"
	"escrow-wallet-ledger/pkg/apperror"

	"github.com/google/uuid"
)

type balanceKey struct {
	buyer uuid.UUID
	unit  string
}

type state struct {
	sources    map[uuid.UUID]domain.PaymentSource
	wallets    map[uuid.UUID]domain.HotWallet
	payments   map[uuid.UUID]domain.PaymentRequest
	registry   map[uuid.UUID]domain.RegistryRequest
	collateral map[uuid.UUID]domain.CollateralRequest
	entries    map[string]domain.CreditLedgerEntry
	topUps     map[string]domain.CreditTopUp
	balances   map[balanceKey]int64
}

func newState() *state {
	return &state{
		sources:    make(map[uuid.UUID]domain.PaymentSource),
		wallets:    make(map[uuid.UUID]domain.HotWallet),
		payments:   make(map[uuid.UUID]domain.PaymentRequest),
		registry:   make(map[uuid.UUID]domain.RegistryRequest),
		collateral: make(map[uuid.UUID]domain.CollateralRequest),
		entries:    make(map[string]domain.CreditLedgerEntry),
		topUps:     make(map[string]domain.CreditTopUp),
		balances:   make(map[balanceKey]int64),
	}
}

// clone copies every map. Values are never mutated in place, pointer fields are replaced on write.
func (s *state) clone() *state {
	c := newState()
	for k, v := range s.sources {
		c.sources[k] = v
	}
	for k, v := range s.wallets {
		c.wallets[k] = v
	}
	for k, v := range s.payments {
		c.payments[k] = v
	}
	for k, v := range s.registry {
		c.registry[k] = v
	}
	for k, v := range s.collateral {
		c.collateral[k] = v
	}
	for k, v := range s.entries {
		c.entries[k] = v
	}
	for k, v := range s.topUps {
		c.topUps[k] = v
	}
	for k, v := range s.balances {
		c.balances[k] = v
	}
	return c
}

// Store implements ports.Transactor in memory.
type Store struct {
	mu          sync.Mutex
	st          *state
	commitFails []error
	commits     int
}

// New creates an empty Store.
func New() *Store {
	return &Store{st: newState()}
}

// Serializable runs fn against a private copy and publishes it if fn and the commit succeed.
func (s *Store) Serializable(ctx context.Context, fn func(ctx context.Context, st ports.Store) error) error {
	if err := ctx.Err(); err != nil {
		return apperror.ErrStoreUnavailable(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	if err := fn(ctx, &txStore{st: work}); err != nil {
		return err
	}
	if len(s.commitFails) > 0 {
		err := s.commitFails[0]
		s.commitFails = s.commitFails[1:]
		return err
	}
	s.st = work
	s.commits++
	return nil
}

// FailNextCommits makes the next len(errs) commits fail with errs in order.
func (s *Store) FailNextCommits(errs ...error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commitFails = append(s.commitFails, errs...)
}

// Commits returns the number of committed transactions.
func (s *Store) Commits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commits
}

// PutSource inserts or replaces a payment source.
func (s *Store) PutSource(src domain.PaymentSource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.sources[src.ID] = src
}

// PutWallet inserts or replaces a hot wallet.
func (s *Store) PutWallet(w domain.HotWallet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.wallets[w.ID] = w
}

// PutPaymentRequest inserts or replaces a payment request.
func (s *Store) PutPaymentRequest(r domain.PaymentRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.payments[r.ID] = r
}

// PutRegistryRequest inserts or replaces a registry request.
func (s *Store) PutRegistryRequest(r domain.RegistryRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.registry[r.ID] = r
}

// PutCollateralRequest inserts or replaces a collateral request.
func (s *Store) PutCollateralRequest(r domain.CollateralRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.collateral[r.ID] = r
}

// Wallet returns a committed wallet snapshot.
func (s *Store) Wallet(id uuid.UUID) (domain.HotWallet, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.st.wallets[id]
	return w, ok
}

// Balance returns a committed unit balance.
func (s *Store) Balance(buyer uuid.UUID, unit string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.balances[balanceKey{buyer: buyer, unit: unit}]
}

// EntryCount returns the number of committed ledger entries.
func (s *Store) EntryCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.st.entries)
}

type txStore struct {
	st *state
}

func (t *txStore) Sources() ports.PaymentSourceRepository        { return sourceRepo{t.st} }
func (t *txStore) Wallets() ports.HotWalletRepository            { return walletRepo{t.st} }
func (t *txStore) Payments() ports.PaymentRequestRepository      { return paymentRepo{t.st} }
func (t *txStore) Registry() ports.RegistryRequestRepository     { return registryRepo{t.st} }
func (t *txStore) Collateral() ports.CollateralRequestRepository { return collateralRepo{t.st} }
func (t *txStore) Credits() ports.CreditRepository               { return creditRepo{t.st} }
