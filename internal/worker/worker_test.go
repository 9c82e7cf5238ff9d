package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"escrow-wallet-ledger/internal/core/domain"
	"escrow-wallet-ledger/internal/core/ports/mocks"
	"escrow-wallet-ledger/internal/service"
	"escrow-wallet-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var testNow = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

func sourceBatch(walletIDs ...uuid.UUID) domain.SourceBatch {
	sb := domain.SourceBatch{Source: domain.PaymentSource{ID: uuid.New(), Network: domain.NetworkPreprod}}
	for _, id := range walletIDs {
		sb.Claims = append(sb.Claims, domain.Claim{
			Request: &domain.PaymentRequest{ID: uuid.New(), SmartContractWalletID: id},
			Wallet:  domain.HotWallet{ID: id, PaymentSourceID: sb.Source.ID},
			LockID:  uuid.New(),
		})
	}
	return sb
}

func newReconciler(locks *mocks.MockWalletLockManager, sub *mocks.MockTransactionSubmitter) *Reconciler {
	return NewReconciler(ReconcilerConfig{
		Workload: domain.PaymentWorkload(domain.ActionSubmitResultRequested),
		Interval: time.Second,
		Retry:    service.RetryPolicy{Attempts: 3, Backoff: time.Millisecond},
	}, locks, sub, fixedClock{testNow}, zerolog.Nop())
}

func TestReconciler_SubmitsEachSource(t *testing.T) {
	ctrl := gomock.NewController(t)
	locks := mocks.NewMockWalletLockManager(ctrl)
	sub := mocks.NewMockTransactionSubmitter(ctrl)
	r := newReconciler(locks, sub)

	b1, b2 := sourceBatch(uuid.New()), sourceBatch(uuid.New(), uuid.New())
	workload := domain.PaymentWorkload(domain.ActionSubmitResultRequested)
	locks.EXPECT().AcquireBatch(gomock.Any(), workload, testNow).Return(domain.Batch{b1, b2}, nil)
	gomock.InOrder(
		sub.EXPECT().Submit(gomock.Any(), b1).Return(nil),
		sub.EXPECT().Submit(gomock.Any(), b2).Return(nil),
	)

	require.NoError(t, r.RunOnce(context.Background()))
	assert.Equal(t, "payment:SUBMIT_RESULT_REQUESTED", r.Name())
}

func TestReconciler_EmptyBatchSubmitsNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	locks := mocks.NewMockWalletLockManager(ctrl)
	r := newReconciler(locks, mocks.NewMockTransactionSubmitter(ctrl))

	locks.EXPECT().AcquireBatch(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

	require.NoError(t, r.RunOnce(context.Background()))
}

func TestReconciler_RetriesConflicts(t *testing.T) {
	ctrl := gomock.NewController(t)
	locks := mocks.NewMockWalletLockManager(ctrl)
	sub := mocks.NewMockTransactionSubmitter(ctrl)
	r := newReconciler(locks, sub)

	b := sourceBatch(uuid.New())
	gomock.InOrder(
		locks.EXPECT().AcquireBatch(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, apperror.ErrSerializationConflict(nil)),
		locks.EXPECT().AcquireBatch(gomock.Any(), gomock.Any(), gomock.Any()).Return(domain.Batch{b}, nil),
	)
	sub.EXPECT().Submit(gomock.Any(), b).Return(nil)

	require.NoError(t, r.RunOnce(context.Background()))
}

func TestReconciler_ConflictRetriesExhausted(t *testing.T) {
	ctrl := gomock.NewController(t)
	locks := mocks.NewMockWalletLockManager(ctrl)
	r := newReconciler(locks, mocks.NewMockTransactionSubmitter(ctrl))

	locks.EXPECT().AcquireBatch(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrSerializationConflict(nil)).Times(3)

	err := r.RunOnce(context.Background())
	assert.True(t, apperror.IsConflict(err))
}

func TestReconciler_SubmitFailureAbandonsClaims(t *testing.T) {
	ctrl := gomock.NewController(t)
	locks := mocks.NewMockWalletLockManager(ctrl)
	sub := mocks.NewMockTransactionSubmitter(ctrl)
	r := newReconciler(locks, sub)

	w1, w2, w3 := uuid.New(), uuid.New(), uuid.New()
	failing, ok := sourceBatch(w1, w2), sourceBatch(w3)
	locks.EXPECT().AcquireBatch(gomock.Any(), gomock.Any(), gomock.Any()).Return(domain.Batch{failing, ok}, nil)

	submitErr := errors.New("submitter unreachable")
	sub.EXPECT().Submit(gomock.Any(), failing).Return(submitErr)
	sub.EXPECT().Submit(gomock.Any(), ok).Return(nil)

	lock1, lock2 := failing.Claims[0].LockID, failing.Claims[1].LockID
	locks.EXPECT().Release(gomock.Any(), w1, domain.OutcomeAbandoned(lock1)).Return(&domain.HotWallet{ID: w1}, nil)
	gomock.InOrder(
		locks.EXPECT().Release(gomock.Any(), w2, domain.OutcomeAbandoned(lock2)).Return(nil, apperror.ErrSerializationConflict(nil)),
		locks.EXPECT().Release(gomock.Any(), w2, domain.OutcomeAbandoned(lock2)).Return(&domain.HotWallet{ID: w2}, nil),
	)

	err := r.RunOnce(context.Background())
	assert.ErrorIs(t, err, submitErr)
}

func TestReaper_RunOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	locks := mocks.NewMockWalletLockManager(ctrl)
	reaper := NewReaper(locks, fixedClock{testNow}, time.Minute, service.RetryPolicy{Attempts: 2}, zerolog.Nop())

	locks.EXPECT().ReclaimStaleLocks(gomock.Any(), testNow).Return([]uuid.UUID{uuid.New()}, nil)
	require.NoError(t, reaper.RunOnce(context.Background()))

	storeDown := apperror.ErrStoreUnavailable(errors.New("pg down"))
	locks.EXPECT().ReclaimStaleLocks(gomock.Any(), testNow).Return(nil, storeDown)
	assert.ErrorIs(t, reaper.RunOnce(context.Background()), storeDown)

	assert.Equal(t, "reaper", reaper.Name())
	assert.Equal(t, time.Minute, reaper.Interval())
}

type countingWorker struct {
	name  string
	runs  atomic.Int32
	fail  bool
	every time.Duration
}

func (w *countingWorker) Name() string            { return w.name }
func (w *countingWorker) Interval() time.Duration { return w.every }

func (w *countingWorker) RunOnce(context.Context) error {
	w.runs.Add(1)
	if w.fail {
		return errors.New("cycle failed")
	}
	return nil
}

func TestRun_StopsOnCancel(t *testing.T) {
	w := &countingWorker{name: "test", every: 5 * time.Millisecond, fail: true}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		Run(ctx, w, zerolog.Nop())
		close(done)
	}()

	require.Eventually(t, func() bool { return w.runs.Load() >= 3 }, time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestGroup_RunsAllUntilCancelled(t *testing.T) {
	a := &countingWorker{name: "a", every: 5 * time.Millisecond}
	b := &countingWorker{name: "b", every: 5 * time.Millisecond}
	g := NewGroup(zerolog.Nop(), a, b)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		g.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return a.runs.Load() >= 2 && b.runs.Load() >= 2 }, time.Second, time.Millisecond)
	cancel()
	<-done
}

func TestReconciler_Loop(t *testing.T) {
	ctrl := gomock.NewController(t)
	locks := mocks.NewMockWalletLockManager(ctrl)
	sub := mocks.NewMockTransactionSubmitter(ctrl)
	r := NewReconciler(ReconcilerConfig{
		Name:     "collateral",
		Workload: domain.CollateralWorkload(),
		Interval: 5 * time.Millisecond,
	}, locks, sub, nil, zerolog.Nop())

	var cycles atomic.Int32
	locks.EXPECT().AcquireBatch(gomock.Any(), domain.CollateralWorkload(), gomock.Any()).
		DoAndReturn(func(context.Context, domain.Workload, time.Time) (domain.Batch, error) {
			cycles.Add(1)
			return nil, nil
		}).MinTimes(2)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		Run(ctx, r, zerolog.Nop())
		close(done)
	}()

	require.Eventually(t, func() bool { return cycles.Load() >= 2 }, time.Second, time.Millisecond)
	cancel()
	<-done
}
