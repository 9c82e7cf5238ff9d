package postgres

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"time"

	"escrow-wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const walletColumns = `id, payment_source_id, role, locked_at, pending_transaction_id, lock_id`

// WalletRepo implements ports.HotWalletRepository.
type WalletRepo struct {
	q Querier
}

// NewWalletRepo creates a new WalletRepo.
func NewWalletRepo(q Querier) *WalletRepo {
	return &WalletRepo{q: q}
}

// ListBySource returns the non-deleted wallets of a source.
func (r *WalletRepo) ListBySource(ctx context.Context, sourceID uuid.UUID) ([]domain.HotWallet, error) {
	query := `SELECT ` + walletColumns + `
		FROM hot_wallets
		WHERE payment_source_id = $1 AND deleted_at IS NULL
		ORDER BY id`

	rows, err := r.q.Query(ctx, query, sourceID)
	if err != nil {
		return nil, mapError("list wallets by source", err)
	}
	defer rows.Close()

	var wallets []domain.HotWallet
	for rows.Next() {
		var w domain.HotWallet
		if err := rows.Scan(&w.ID, &w.PaymentSourceID, &w.Role, &w.LockedAt, &w.PendingTransactionID, &w.LockID); err != nil {
			return nil, mapError("scan wallet", err)
		}
		wallets = append(wallets, w)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("iterate wallets", err)
	}
	return wallets, nil
}

// GetByID fetches a wallet by its UUID.
func (r *WalletRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.HotWallet, error) {
	query := `SELECT ` + walletColumns + ` FROM hot_wallets WHERE id = $1`

	w := &domain.HotWallet{}
	err := r.q.QueryRow(ctx, query, id).Scan(&w.ID, &w.PaymentSourceID, &w.Role, &w.LockedAt, &w.PendingTransactionID, &w.LockID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get wallet by id", err)
	}
	return w, nil
}

// Lock marks a free wallet as locked under lockID. The freeness check is part of
// the UPDATE, so a wallet another transaction already took reports false.
func (r *WalletRepo) Lock(ctx context.Context, id uuid.UUID, now time.Time, lockID uuid.UUID) (bool, error) {
	query := `UPDATE hot_wallets SET locked_at = $2, lock_id = $3, updated_at = NOW()
		WHERE id = $1 AND locked_at IS NULL AND pending_transaction_id IS NULL`

	tag, err := r.q.Exec(ctx, query, id, now, lockID)
	if err != nil {
		return false, mapError("lock wallet", err)
	}
	return tag.RowsAffected() == 1, nil
}

// SetState overwrites the lock columns of a wallet still held under lockID.
// The token is cleared in the same statement once the wallet is free.
func (r *WalletRepo) SetState(ctx context.Context, id, lockID uuid.UUID, lockedAt *time.Time, pendingTxID *uuid.UUID) (bool, error) {
	query := `UPDATE hot_wallets SET
			locked_at = $3,
			pending_transaction_id = $4,
			lock_id = CASE WHEN $3::timestamptz IS NULL AND $4::uuid IS NULL THEN NULL ELSE lock_id END,
			updated_at = NOW()
		WHERE id = $1 AND lock_id = $2`

	tag, err := r.q.Exec(ctx, query, id, lockID, lockedAt, pendingTxID)
	if err != nil {
		return false, mapError("update wallet state", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ReclaimLockedBefore unlocks wallets locked at or before cutoff with no pending transaction.
func (r *WalletRepo) ReclaimLockedBefore(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error) {
	query := `UPDATE hot_wallets SET locked_at = NULL, lock_id = NULL, updated_at = NOW()
		WHERE locked_at <= $1 AND pending_transaction_id IS NULL
		RETURNING id`

	rows, err := r.q.Query(ctx, query, cutoff)
	if err != nil {
		return nil, mapError("reclaim stale locks", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, mapError("scan reclaimed wallet", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("iterate reclaimed wallets", err)
	}
	// RETURNING has no defined order.
	slices.SortFunc(ids, func(a, b uuid.UUID) int { return bytes.Compare(a[:], b[:]) })
	return ids, nil
}
