package ports

import (
	"context"
	"time"

	"escrow-wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
)

//go:generate mockgen -source=services.go -destination=mocks/mock_services.go -package=mocks

// WalletLockManager claims exclusive use of hot wallets for reconciliation workers.
type WalletLockManager interface {
	AcquireBatch(ctx context.Context, workload domain.Workload, now time.Time) (domain.Batch, error)
	Release(ctx context.Context, walletID uuid.UUID, outcome domain.ReleaseOutcome) (*domain.HotWallet, error)
	ReclaimStaleLocks(ctx context.Context, now time.Time) ([]uuid.UUID, error)
}

// CreditLedger reserves purchase credit against buyer balances.
type CreditLedger interface {
	ReserveCredit(ctx context.Context, id string, buyerID uuid.UUID, cost []domain.UnitAmount) (*domain.CreditLedgerEntry, error)
	// Credit tops up balances. A non-empty id makes the top-up idempotent.
	Credit(ctx context.Context, id string, buyerID uuid.UUID, amounts []domain.UnitAmount) ([]domain.BuyerBalance, error)
	Balances(ctx context.Context, buyerID uuid.UUID) ([]domain.BuyerBalance, error)
	Entry(ctx context.Context, id string) (*domain.CreditLedgerEntry, error)
}

// TransactionSubmitter builds and submits chain transactions for a claimed batch.
// It must eventually call WalletLockManager.Release for each claim it accepts.
type TransactionSubmitter interface {
	Submit(ctx context.Context, batch domain.SourceBatch) error
}

// CreditEntryCache is the Redis-layer idempotency check (fast path).
type CreditEntryCache interface {
	Get(ctx context.Context, id string) ([]byte, error) // Returns cached entry JSON or nil
	Set(ctx context.Context, id string, value []byte, ttl time.Duration) error
}

// NonceStore records nonces of signed requests so each is accepted once.
type NonceStore interface {
	// CheckAndSet returns true if nonce is new for caller.
	CheckAndSet(ctx context.Context, caller string, nonce string, ttl time.Duration) (bool, error)
}

// LockMetrics records lock manager activity.
type LockMetrics interface {
	ObserveClaims(workload string, n int)
	ObserveSkip(workload string, reason string)
	ObserveConflict(operation string)
	ObserveReclaimed(n int)
	ObserveRelease(kind string)
}

// LedgerMetrics records credit ledger activity.
type LedgerMetrics interface {
	ObserveReservation(result string)
}

// NopMetrics discards all observations.
type NopMetrics struct{}

func (NopMetrics) ObserveClaims(string, int)  {}
func (NopMetrics) ObserveSkip(string, string) {}
func (NopMetrics) ObserveConflict(string)     {}
func (NopMetrics) ObserveReclaimed(int)       {}
func (NopMetrics) ObserveRelease(string)      {}
func (NopMetrics) ObserveReservation(string)  {}

// HealthChecker reports whether an external dependency is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
	// Name is the dependency label in /health output.
	Name() string
}
