package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentSource_IsActive(t *testing.T) {
	deleted := time.Now()
	tests := []struct {
		name   string
		source PaymentSource
		want   bool
	}{
		{"active", PaymentSource{}, true},
		{"syncing", PaymentSource{SyncInProgress: true}, false},
		{"deleted", PaymentSource{DeletedAt: &deleted}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.source.IsActive())
		})
	}
}

func TestHotWallet_IsFree(t *testing.T) {
	now := time.Now()
	txID := uuid.New()
	tests := []struct {
		name   string
		wallet HotWallet
		want   bool
	}{
		{"free", HotWallet{}, true},
		{"locked", HotWallet{LockedAt: &now}, false},
		{"pending", HotWallet{PendingTransactionID: &txID}, false},
		{"locked and pending", HotWallet{LockedAt: &now, PendingTransactionID: &txID}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.wallet.IsFree())
		})
	}
}

func TestCooldownElapsed_Boundary(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	source := &PaymentSource{CooldownTime: 20 * time.Minute}

	tests := []struct {
		name     string
		coolDown time.Time
		want     bool
	}{
		{"19 minutes ago", now.Add(-19 * time.Minute), false},
		{"exactly 20 minutes ago", now.Add(-20 * time.Minute), true},
		{"21 minutes ago", now.Add(-21 * time.Minute), true},
		{"in the future", now.Add(20 * time.Minute), false},
		{"never set", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &PaymentRequest{SellerCoolDownTime: tt.coolDown}
			assert.Equal(t, tt.want, CooldownElapsed(req, source, now))
		})
	}
}

func TestWorkload_PaymentEligible(t *testing.T) {
	w := PaymentWorkload(ActionSubmitResultRequested)

	tests := []struct {
		name string
		next NextAction
		want bool
	}{
		{"matching action", AwaitingAction(ActionSubmitResultRequested), true},
		{"other action", AwaitingAction(ActionWithdrawRequested), false},
		{"pending", NextAction{Phase: PhasePending, RequestedAction: ActionSubmitResultRequested}, false},
		{"failed", NextAction{Phase: PhaseFailed, RequestedAction: ActionSubmitResultRequested, Failure: &ActionFailure{Type: "NETWORK"}}, false},
		{"completed", NextAction{Phase: PhaseCompleted, RequestedAction: ActionSubmitResultRequested}, false},
		{"awaiting with failure", NextAction{Phase: PhaseAwaitingAction, RequestedAction: ActionSubmitResultRequested, Failure: &ActionFailure{Type: "X"}}, false},
		{"unknown phase", NextAction{Phase: "BOGUS", RequestedAction: ActionSubmitResultRequested}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.PaymentEligible(&PaymentRequest{NextAction: tt.next}))
		})
	}

	assert.False(t, CollateralWorkload().PaymentEligible(&PaymentRequest{NextAction: AwaitingAction(ActionSubmitResultRequested)}))
}

func TestWorkload_RegistryAndCollateralEligible(t *testing.T) {
	reg := RegistryWorkload(RegistrationRequested)
	assert.True(t, reg.RegistryEligible(&RegistryRequest{State: RegistrationRequested}))
	assert.False(t, reg.RegistryEligible(&RegistryRequest{State: RegistrationInitiated}))

	col := CollateralWorkload()
	assert.True(t, col.CollateralEligible(&CollateralRequest{State: CollateralPending}))
	assert.False(t, col.CollateralEligible(&CollateralRequest{State: CollateralConfirmed}))
	assert.False(t, reg.CollateralEligible(&CollateralRequest{State: CollateralPending}))
}

func TestWorkload_Validate(t *testing.T) {
	assert.NoError(t, PaymentWorkload(ActionWithdrawRequested).Validate())
	assert.NoError(t, RegistryWorkload(DeregistrationRequested).Validate())
	assert.NoError(t, CollateralWorkload().Validate())

	assert.Error(t, PaymentWorkload(ActionNone).Validate())
	assert.Error(t, RegistryWorkload("").Validate())
	assert.Error(t, Workload{Kind: "NOPE"}.Validate())
}

func TestWorkload_String(t *testing.T) {
	assert.Equal(t, "payment:WITHDRAW_REQUESTED", PaymentWorkload(ActionWithdrawRequested).String())
	assert.Equal(t, "registry:REGISTRATION_REQUESTED", RegistryWorkload(RegistrationRequested).String())
	assert.Equal(t, "collateral", CollateralWorkload().String())
}

func TestBinding(t *testing.T) {
	id := uuid.New()

	got, ok := Bound(id).WalletID()
	assert.True(t, ok)
	assert.Equal(t, id, got)

	_, ok = Unbound().WalletID()
	assert.False(t, ok)

	req := &RegistryRequest{ID: uuid.New(), Wallet: Bound(id)}
	data, err := json.Marshal(req)
	require.NoError(t, err)

	var decoded RegistryRequest
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, Bound(id), decoded.Wallet)

	data, err = json.Marshal(&RegistryRequest{Wallet: Unbound()})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"wallet_id":null`)
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.False(t, decoded.Wallet.IsBound())
}

func TestRequest_Bindings(t *testing.T) {
	walletID := uuid.New()

	p := &PaymentRequest{SmartContractWalletID: walletID}
	assert.Equal(t, Bound(walletID), p.WalletBinding())
	assert.Equal(t, WorkloadPayment, p.Kind())

	c := &CollateralRequest{SmartContractWalletID: walletID}
	assert.Equal(t, Bound(walletID), c.WalletBinding())
	assert.Equal(t, WorkloadCollateral, c.Kind())

	r := &RegistryRequest{}
	assert.False(t, r.WalletBinding().IsBound())
	assert.Equal(t, WorkloadRegistry, r.Kind())
}

func TestTotalsByUnit(t *testing.T) {
	totals, err := TotalsByUnit([]UnitAmount{
		{Unit: "lovelace", Amount: 10},
		{Unit: "usdm", Amount: 5},
		{Unit: "lovelace", Amount: 7},
	})
	require.NoError(t, err)
	assert.Equal(t, []UnitTotal{{Unit: "lovelace", Amount: 17}, {Unit: "usdm", Amount: 5}}, totals)

	_, err = TotalsByUnit(nil)
	assert.ErrorIs(t, err, ErrEmptyCost)

	_, err = TotalsByUnit([]UnitAmount{{Unit: "", Amount: 1}})
	assert.ErrorIs(t, err, ErrEmptyUnit)

	_, err = TotalsByUnit([]UnitAmount{{Unit: "lovelace", Amount: 0}})
	assert.ErrorIs(t, err, ErrNonPositive)

	_, err = TotalsByUnit([]UnitAmount{{Unit: "lovelace", Amount: 1 << 62}, {Unit: "lovelace", Amount: 1 << 62}, {Unit: "lovelace", Amount: 1 << 62}})
	assert.ErrorIs(t, err, ErrAmountOverflow)
}

func TestReleaseOutcome_Apply(t *testing.T) {
	now := time.Now()
	txID := uuid.New()
	lockID := uuid.New()
	locked := HotWallet{ID: uuid.New(), LockedAt: &now, LockID: &lockID}
	pending := HotWallet{ID: uuid.New(), PendingTransactionID: &txID, LockID: &lockID}
	free := HotWallet{ID: uuid.New()}

	got, ok := OutcomeSubmitted(lockID, txID).Apply(locked)
	require.True(t, ok)
	assert.Nil(t, got.LockedAt)
	require.NotNil(t, got.PendingTransactionID)
	assert.Equal(t, txID, *got.PendingTransactionID)
	require.NotNil(t, got.LockID, "pending wallet keeps its lock token")
	assert.Equal(t, lockID, *got.LockID)

	_, ok = OutcomeSubmitted(lockID, txID).Apply(pending)
	assert.False(t, ok, "submitted twice")

	got, ok = OutcomeConfirmed(lockID).Apply(pending)
	require.True(t, ok)
	assert.True(t, got.IsFree())
	assert.Nil(t, got.LockID)

	got, ok = OutcomeFailed(lockID).Apply(locked)
	require.True(t, ok)
	assert.True(t, got.IsFree())
	assert.Nil(t, got.LockID)

	_, ok = OutcomeConfirmed(lockID).Apply(free)
	assert.False(t, ok)

	got, ok = OutcomeAbandoned(lockID).Apply(locked)
	require.True(t, ok)
	assert.True(t, got.IsFree())

	_, ok = OutcomeAbandoned(lockID).Apply(pending)
	assert.False(t, ok)
}

func TestReleaseOutcome_ApplyRejectsForeignLock(t *testing.T) {
	now := time.Now()
	txID := uuid.New()
	current := uuid.New()
	stale := uuid.New()
	locked := HotWallet{ID: uuid.New(), LockedAt: &now, LockID: &current}
	pending := HotWallet{ID: uuid.New(), PendingTransactionID: &txID, LockID: &current}

	for name, o := range map[string]ReleaseOutcome{
		"submitted": OutcomeSubmitted(stale, txID),
		"failed":    OutcomeFailed(stale),
		"abandoned": OutcomeAbandoned(stale),
	} {
		got, ok := o.Apply(locked)
		assert.False(t, ok, name)
		assert.Equal(t, locked, got, name)
	}

	_, ok := OutcomeConfirmed(stale).Apply(pending)
	assert.False(t, ok)

	untokened := HotWallet{ID: uuid.New(), LockedAt: &now}
	_, ok = OutcomeFailed(current).Apply(untokened)
	assert.False(t, ok)
}

func TestReleaseOutcome_Valid(t *testing.T) {
	lockID := uuid.New()
	assert.True(t, OutcomeSubmitted(lockID, uuid.New()).Valid())
	assert.False(t, OutcomeSubmitted(lockID, uuid.Nil).Valid())
	assert.False(t, OutcomeSubmitted(uuid.Nil, uuid.New()).Valid())
	assert.True(t, OutcomeConfirmed(lockID).Valid())
	assert.False(t, OutcomeConfirmed(uuid.Nil).Valid())
	assert.False(t, ReleaseOutcome{Kind: "BOGUS", LockID: lockID}.Valid())
}

func TestBatch_LenAndWallets(t *testing.T) {
	w1, w2 := HotWallet{ID: uuid.New()}, HotWallet{ID: uuid.New()}
	b := Batch{
		{Claims: []Claim{{Wallet: w1}}},
		{Claims: []Claim{{Wallet: w2}}},
	}
	assert.Equal(t, 2, b.Len())
	assert.Equal(t, []HotWallet{w1, w2}, b.Wallets())
}
