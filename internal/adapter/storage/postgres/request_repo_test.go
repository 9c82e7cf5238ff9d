package postgres

import (
	"context"
	"testing"
	"time"

	"escrow-wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceRepo_ListActive(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewSourceRepo(mock)
	id := uuid.New()

	mock.ExpectQuery("SELECT .+ FROM payment_sources WHERE sync_in_progress = false AND deleted_at IS NULL ORDER BY id").
		WillReturnRows(pgxmock.NewRows([]string{"id", "network", "sync_in_progress", "deleted_at", "cooldown_ms"}).
			AddRow(id, domain.NetworkMainnet, false, (*time.Time)(nil), int64(1_200_000)))

	sources, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, id, sources[0].ID)
	assert.Equal(t, domain.NetworkMainnet, sources[0].Network)
	assert.Equal(t, 20*time.Minute, sources[0].CooldownTime)
	assert.True(t, sources[0].IsActive())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func paymentCols() []string {
	return []string{
		"id", "payment_source_id", "next_action_phase", "requested_action", "error_type", "error_note", "result_hash",
		"submit_result_time", "refund_time", "unlock_time", "seller_cool_down_time", "smart_contract_wallet_id",
	}
}

func TestPaymentRequestRepo_ListAwaiting(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPaymentRequestRepo(mock)
	sourceID := uuid.New()
	walletID := uuid.New()
	reqID := uuid.New()
	ts := time.Now().UTC().Truncate(time.Microsecond)
	hash := "abc123"

	mock.ExpectQuery("SELECT .+ FROM payment_requests WHERE payment_source_id = \\$1 AND next_action_phase = \\$2 AND requested_action = \\$3 AND error_type IS NULL").
		WithArgs(sourceID, domain.PhaseAwaitingAction, domain.ActionSubmitResultRequested).
		WillReturnRows(pgxmock.NewRows(paymentCols()).
			AddRow(reqID, sourceID, domain.PhaseAwaitingAction, domain.ActionSubmitResultRequested,
				(*string)(nil), (*string)(nil), &hash, ts, ts, ts, ts, walletID))

	list, err := repo.ListAwaiting(context.Background(), sourceID, domain.ActionSubmitResultRequested)
	require.NoError(t, err)
	require.Len(t, list, 1)

	got := list[0]
	assert.Equal(t, reqID, got.ID)
	assert.Nil(t, got.NextAction.Failure)
	assert.Equal(t, hash, got.NextAction.ResultHash)
	assert.Equal(t, domain.Bound(walletID), got.WalletBinding())
	assert.True(t, domain.PaymentWorkload(domain.ActionSubmitResultRequested).PaymentEligible(&got))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRequestRepo_ScansFailure(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPaymentRequestRepo(mock)
	errType, errNote := "NETWORK_ERROR", "node timeout"
	ts := time.Now().UTC().Truncate(time.Microsecond)

	mock.ExpectQuery("SELECT .+ FROM payment_requests").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(paymentCols()).
			AddRow(uuid.New(), uuid.New(), domain.PhaseAwaitingAction, domain.ActionWithdrawRequested,
				&errType, &errNote, (*string)(nil), ts, ts, ts, ts, uuid.New()))

	list, err := repo.ListAwaiting(context.Background(), uuid.New(), domain.ActionWithdrawRequested)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].NextAction.Failure)
	assert.Equal(t, domain.ActionFailure{Type: errType, Message: errNote}, *list[0].NextAction.Failure)
	assert.False(t, domain.PaymentWorkload(domain.ActionWithdrawRequested).PaymentEligible(&list[0]))
}

func TestRegistryRequestRepo_ListByState(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewRegistryRequestRepo(mock)
	sourceID := uuid.New()
	walletID := uuid.New()

	mock.ExpectQuery("SELECT .+ FROM registry_requests WHERE payment_source_id = \\$1 AND state = \\$2").
		WithArgs(sourceID, domain.RegistrationRequested).
		WillReturnRows(pgxmock.NewRows([]string{"id", "payment_source_id", "state", "wallet_id"}).
			AddRow(uuid.New(), sourceID, domain.RegistrationRequested, &walletID).
			AddRow(uuid.New(), sourceID, domain.RegistrationRequested, (*uuid.UUID)(nil)))

	list, err := repo.ListByState(context.Background(), sourceID, domain.RegistrationRequested)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, domain.Bound(walletID), list[0].Wallet)
	assert.False(t, list[1].Wallet.IsBound())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCollateralRequestRepo_ListByState(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCollateralRequestRepo(mock)
	sourceID := uuid.New()
	walletID := uuid.New()

	mock.ExpectQuery("SELECT .+ FROM collateral_requests WHERE payment_source_id = \\$1 AND state = \\$2").
		WithArgs(sourceID, domain.CollateralPending).
		WillReturnRows(pgxmock.NewRows([]string{"id", "payment_source_id", "state", "smart_contract_wallet_id"}).
			AddRow(uuid.New(), sourceID, domain.CollateralPending, walletID))

	list, err := repo.ListByState(context.Background(), sourceID, domain.CollateralPending)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.Bound(walletID), list[0].WalletBinding())
	assert.NoError(t, mock.ExpectationsWereMet())
}
