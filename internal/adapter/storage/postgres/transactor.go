package postgres

import (
	"context"
	"errors"

	"escrow-wallet-ledger/internal/core/ports"
	"escrow-wallet-ledger/pkg/apperror"

	"github.com/jackc/pgx/v5"
)

// Transactor implements ports.Transactor with SERIALIZABLE pgx transactions.
type Transactor struct {
	pool Pool
}

// NewTransactor creates a new Transactor wrapping the connection pool.
func NewTransactor(pool Pool) *Transactor {
	return &Transactor{pool: pool}
}

// Serializable runs fn in one SERIALIZABLE transaction and commits if fn returns nil.
func (t *Transactor) Serializable(ctx context.Context, fn func(ctx context.Context, s ports.Store) error) error {
	tx, err := t.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return storeError(mapError("begin tx", err))
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := fn(ctx, NewStore(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return storeError(mapError("commit tx", err))
	}
	return nil
}

func storeError(err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.ErrStoreUnavailable(err)
}

// Store binds every repository to one querier, usually a transaction.
type Store struct {
	sources    *SourceRepo
	wallets    *WalletRepo
	payments   *PaymentRequestRepo
	registry   *RegistryRequestRepo
	collateral *CollateralRequestRepo
	credits    *CreditRepo
}

// NewStore creates a Store over q.
func NewStore(q Querier) *Store {
	return &Store{
		sources:    NewSourceRepo(q),
		wallets:    NewWalletRepo(q),
		payments:   NewPaymentRequestRepo(q),
		registry:   NewRegistryRequestRepo(q),
		collateral: NewCollateralRequestRepo(q),
		credits:    NewCreditRepo(q),
	}
}

func (s *Store) Sources() ports.PaymentSourceRepository        { return s.sources }
func (s *Store) Wallets() ports.HotWalletRepository            { return s.wallets }
func (s *Store) Payments() ports.PaymentRequestRepository      { return s.payments }
func (s *Store) Registry() ports.RegistryRequestRepository     { return s.registry }
func (s *Store) Collateral() ports.CollateralRequestRepository { return s.collateral }
func (s *Store) Credits() ports.CreditRepository               { return s.credits }
