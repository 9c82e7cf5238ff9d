package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"escrow-wallet-ledger/internal/core/domain"
	"escrow-wallet-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func walletCols() []string {
	return []string{"id", "payment_source_id", "role", "locked_at", "pending_transaction_id", "lock_id"}
}

func TestWalletRepo_ListBySource(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	sourceID := uuid.New()
	lockedAt := time.Now().UTC().Truncate(time.Microsecond)
	lockID := uuid.New()
	free := domain.HotWallet{ID: uuid.New(), PaymentSourceID: sourceID, Role: domain.WalletRoleSelling}

	mock.ExpectQuery("SELECT .+ FROM hot_wallets WHERE payment_source_id = \\$1 AND deleted_at IS NULL ORDER BY id").
		WithArgs(sourceID).
		WillReturnRows(pgxmock.NewRows(walletCols()).
			AddRow(free.ID, sourceID, domain.WalletRoleSelling, (*time.Time)(nil), (*uuid.UUID)(nil), (*uuid.UUID)(nil)).
			AddRow(uuid.New(), sourceID, domain.WalletRolePurchasing, &lockedAt, (*uuid.UUID)(nil), &lockID))

	wallets, err := repo.ListBySource(context.Background(), sourceID)
	require.NoError(t, err)
	require.Len(t, wallets, 2)
	assert.Equal(t, free, wallets[0])
	assert.True(t, wallets[0].IsFree())
	require.NotNil(t, wallets[1].LockedAt)
	assert.Equal(t, lockedAt, *wallets[1].LockedAt)
	require.NotNil(t, wallets[1].LockID)
	assert.Equal(t, lockID, *wallets[1].LockID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	id := uuid.New()

	mock.ExpectQuery("SELECT .+ FROM hot_wallets WHERE id").
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	w, err := repo.GetByID(context.Background(), id)
	assert.NoError(t, err)
	assert.Nil(t, w)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_Lock(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	id := uuid.New()
	now := time.Now().UTC()
	lockID := uuid.New()

	mock.ExpectExec("UPDATE hot_wallets SET locked_at = \\$2, lock_id = \\$3.+WHERE id = \\$1 AND locked_at IS NULL AND pending_transaction_id IS NULL").
		WithArgs(id, now, lockID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE hot_wallets SET locked_at").
		WithArgs(id, now, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	ok, err := repo.Lock(context.Background(), id, now, lockID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Lock(context.Background(), id, now, uuid.New())
	require.NoError(t, err)
	assert.False(t, ok, "already-locked wallet must not be locked again")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_Lock_SerializationFailure(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)

	mock.ExpectExec("UPDATE hot_wallets SET locked_at").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "40001", Message: "could not serialize access"})

	_, err = repo.Lock(context.Background(), uuid.New(), time.Now(), uuid.New())
	assert.True(t, apperror.IsConflict(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_SetState(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	id := uuid.New()
	lockID := uuid.New()
	txID := uuid.New()

	mock.ExpectExec("UPDATE hot_wallets SET locked_at = \\$3, pending_transaction_id = \\$4, lock_id = CASE .+ WHERE id = \\$1 AND lock_id = \\$2").
		WithArgs(id, lockID, (*time.Time)(nil), &txID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE hot_wallets SET locked_at = \\$3").
		WithArgs(id, pgxmock.AnyArg(), (*time.Time)(nil), (*uuid.UUID)(nil)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	ok, err := repo.SetState(context.Background(), id, lockID, nil, &txID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.SetState(context.Background(), id, uuid.New(), nil, nil)
	require.NoError(t, err)
	assert.False(t, ok, "a different lock token must not update the wallet")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_ReclaimLockedBefore(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	cutoff := time.Now().UTC().Add(-30 * time.Minute)
	low := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	high := uuid.MustParse("00000000-0000-0000-0000-000000000002")

	mock.ExpectQuery("UPDATE hot_wallets SET locked_at = NULL, lock_id = NULL.+WHERE locked_at <= \\$1 AND pending_transaction_id IS NULL.+RETURNING id").
		WithArgs(cutoff).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(high).AddRow(low))

	ids, err := repo.ReclaimLockedBefore(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{low, high}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletRepo_QueryError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletRepo(mock)
	mock.ExpectQuery("SELECT .+ FROM hot_wallets").
		WithArgs(pgxmock.AnyArg()).
		WillReturnError(errors.New("connection reset"))

	_, err = repo.ListBySource(context.Background(), uuid.New())
	require.Error(t, err)
	assert.False(t, apperror.IsConflict(err))
	assert.Contains(t, err.Error(), "list wallets by source")
}
