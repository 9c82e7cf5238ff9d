package ports

import (
	"context"
	"time"

	"escrow-wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
)

// PaymentSourceRepository reads payment sources.
type PaymentSourceRepository interface {
	// ListActive returns sources with no sync in progress and not deleted, ascending by id.
	ListActive(ctx context.Context) ([]domain.PaymentSource, error)
}

// HotWalletRepository reads and conditionally updates hot wallets.
type HotWalletRepository interface {
	// ListBySource returns every non-deleted wallet of a source, ascending by id.
	ListBySource(ctx context.Context, sourceID uuid.UUID) ([]domain.HotWallet, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.HotWallet, error)
	// Lock sets locked_at and the lock token if the wallet is free. Returns false if it was not.
	Lock(ctx context.Context, id uuid.UUID, now time.Time, lockID uuid.UUID) (bool, error)
	// SetState overwrites locked_at and pending_transaction_id of a wallet still held
	// under lockID, clearing the token once both are nil. Returns false if the wallet
	// is not held under lockID.
	SetState(ctx context.Context, id, lockID uuid.UUID, lockedAt *time.Time, pendingTxID *uuid.UUID) (bool, error)
	// ReclaimLockedBefore clears locked_at and the lock token on wallets locked at or
	// before cutoff that carry no pending transaction, returning their ids.
	ReclaimLockedBefore(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error)
}

// PaymentRequestRepository reads payment requests.
type PaymentRequestRepository interface {
	// ListAwaiting returns requests of a source awaiting action, ascending by id.
	ListAwaiting(ctx context.Context, sourceID uuid.UUID, action domain.PaymentAction) ([]domain.PaymentRequest, error)
}

// RegistryRequestRepository reads registry requests.
type RegistryRequestRepository interface {
	ListByState(ctx context.Context, sourceID uuid.UUID, state domain.RegistrationState) ([]domain.RegistryRequest, error)
}

// CollateralRequestRepository reads collateral requests.
type CollateralRequestRepository interface {
	ListByState(ctx context.Context, sourceID uuid.UUID, state domain.CollateralState) ([]domain.CollateralRequest, error)
}

// CreditRepository persists buyer balances and ledger entries.
type CreditRepository interface {
	GetEntry(ctx context.Context, id string) (*domain.CreditLedgerEntry, error)
	CreateEntry(ctx context.Context, entry *domain.CreditLedgerEntry) error
	// GetBalance returns the remaining balance for one unit, zero if none was ever credited.
	GetBalance(ctx context.Context, buyerID uuid.UUID, unit string) (int64, error)
	// AddBalance adds delta (may be negative) to a unit balance, creating the row if needed.
	AddBalance(ctx context.Context, buyerID uuid.UUID, unit string, delta int64) error
	ListBalances(ctx context.Context, buyerID uuid.UUID) ([]domain.BuyerBalance, error)
	GetTopUp(ctx context.Context, id string) (*domain.CreditTopUp, error)
	// CreateTopUp records a keyed top-up. A duplicate id is a serialization conflict.
	CreateTopUp(ctx context.Context, topUp *domain.CreditTopUp) error
}

// Store groups repositories bound to one transaction.
type Store interface {
	Sources() PaymentSourceRepository
	Wallets() HotWalletRepository
	Payments() PaymentRequestRepository
	Registry() RegistryRequestRepository
	Collateral() CollateralRequestRepository
	Credits() CreditRepository
}

// Transactor runs work inside a serializable store transaction.
// fn's Store is only valid for the duration of the call. A nil return commits,
// anything else rolls back. Conflicts surface as apperror SYS_002.
type Transactor interface {
	Serializable(ctx context.Context, fn func(ctx context.Context, s Store) error) error
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock is a Clock backed by time.Now in UTC.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time { return time.Now().UTC() }
