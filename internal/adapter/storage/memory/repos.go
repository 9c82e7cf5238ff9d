package memory

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"escrow-wallet-ledger/internal/core/domain"
	"escrow-wallet-ledger/pkg/apperror"

	"github.com/google/uuid"
)

func compareID(a, b uuid.UUID) int {
	return bytes.Compare(a[:], b[:])
}

type sourceRepo struct{ st *state }

func (r sourceRepo) ListActive(_ context.Context) ([]domain.PaymentSource, error) {
	var out []domain.PaymentSource
	for _, src := range r.st.sources {
		if src.IsActive() {
			out = append(out, src)
		}
	}
	slices.SortFunc(out, func(a, b domain.PaymentSource) int { return compareID(a.ID, b.ID) })
	return out, nil
}

type walletRepo struct{ st *state }

func (r walletRepo) ListBySource(_ context.Context, sourceID uuid.UUID) ([]domain.HotWallet, error) {
	var out []domain.HotWallet
	for _, w := range r.st.wallets {
		if w.PaymentSourceID == sourceID {
			out = append(out, w)
		}
	}
	slices.SortFunc(out, func(a, b domain.HotWallet) int { return compareID(a.ID, b.ID) })
	return out, nil
}

func (r walletRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.HotWallet, error) {
	w, ok := r.st.wallets[id]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (r walletRepo) Lock(_ context.Context, id uuid.UUID, now time.Time, lockID uuid.UUID) (bool, error) {
	w, ok := r.st.wallets[id]
	if !ok || !w.IsFree() {
		return false, nil
	}
	lockedAt := now
	w.LockedAt = &lockedAt
	w.LockID = &lockID
	r.st.wallets[id] = w
	return true, nil
}

func (r walletRepo) SetState(_ context.Context, id, lockID uuid.UUID, lockedAt *time.Time, pendingTxID *uuid.UUID) (bool, error) {
	w, ok := r.st.wallets[id]
	if !ok {
		return false, fmt.Errorf("wallet not found: %s", id)
	}
	if w.LockID == nil || *w.LockID != lockID {
		return false, nil
	}
	w.LockedAt = copyTime(lockedAt)
	w.PendingTransactionID = copyID(pendingTxID)
	if w.IsFree() {
		w.LockID = nil
	}
	r.st.wallets[id] = w
	return true, nil
}

func (r walletRepo) ReclaimLockedBefore(_ context.Context, cutoff time.Time) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for id, w := range r.st.wallets {
		if w.LockedAt == nil || w.PendingTransactionID != nil || w.LockedAt.After(cutoff) {
			continue
		}
		w.LockedAt = nil
		w.LockID = nil
		r.st.wallets[id] = w
		ids = append(ids, id)
	}
	slices.SortFunc(ids, compareID)
	return ids, nil
}

type paymentRepo struct{ st *state }

func (r paymentRepo) ListAwaiting(_ context.Context, sourceID uuid.UUID, action domain.PaymentAction) ([]domain.PaymentRequest, error) {
	var out []domain.PaymentRequest
	for _, p := range r.st.payments {
		if p.PaymentSourceID != sourceID {
			continue
		}
		if p.NextAction.Phase == domain.PhaseAwaitingAction && p.NextAction.RequestedAction == action && p.NextAction.Failure == nil {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b domain.PaymentRequest) int { return compareID(a.ID, b.ID) })
	return out, nil
}

type registryRepo struct{ st *state }

func (r registryRepo) ListByState(_ context.Context, sourceID uuid.UUID, state domain.RegistrationState) ([]domain.RegistryRequest, error) {
	var out []domain.RegistryRequest
	for _, req := range r.st.registry {
		if req.PaymentSourceID == sourceID && req.State == state {
			out = append(out, req)
		}
	}
	slices.SortFunc(out, func(a, b domain.RegistryRequest) int { return compareID(a.ID, b.ID) })
	return out, nil
}

type collateralRepo struct{ st *state }

func (r collateralRepo) ListByState(_ context.Context, sourceID uuid.UUID, state domain.CollateralState) ([]domain.CollateralRequest, error) {
	var out []domain.CollateralRequest
	for _, req := range r.st.collateral {
		if req.PaymentSourceID == sourceID && req.State == state {
			out = append(out, req)
		}
	}
	slices.SortFunc(out, func(a, b domain.CollateralRequest) int { return compareID(a.ID, b.ID) })
	return out, nil
}

type creditRepo struct{ st *state }

func (r creditRepo) GetEntry(_ context.Context, id string) (*domain.CreditLedgerEntry, error) {
	e, ok := r.st.entries[id]
	if !ok {
		return nil, nil
	}
	e.Cost = slices.Clone(e.Cost)
	return &e, nil
}

func (r creditRepo) CreateEntry(_ context.Context, entry *domain.CreditLedgerEntry) error {
	if _, ok := r.st.entries[entry.ID]; ok {
		// Mirrors the unique-key violation the SQL store reports.
		return apperror.ErrSerializationConflict(fmt.Errorf("duplicate ledger entry %q", entry.ID))
	}
	e := *entry
	e.Cost = slices.Clone(entry.Cost)
	r.st.entries[entry.ID] = e
	return nil
}

func (r creditRepo) GetBalance(_ context.Context, buyerID uuid.UUID, unit string) (int64, error) {
	return r.st.balances[balanceKey{buyer: buyerID, unit: unit}], nil
}

func (r creditRepo) AddBalance(_ context.Context, buyerID uuid.UUID, unit string, delta int64) error {
	k := balanceKey{buyer: buyerID, unit: unit}
	next := r.st.balances[k] + delta
	if next < 0 {
		return fmt.Errorf("balance for %s would become negative", unit)
	}
	r.st.balances[k] = next
	return nil
}

func (r creditRepo) ListBalances(_ context.Context, buyerID uuid.UUID) ([]domain.BuyerBalance, error) {
	var out []domain.BuyerBalance
	for k, v := range r.st.balances {
		if k.buyer == buyerID {
			out = append(out, domain.BuyerBalance{BuyerID: buyerID, Unit: k.unit, Amount: v})
		}
	}
	slices.SortFunc(out, func(a, b domain.BuyerBalance) int { return strings.Compare(a.Unit, b.Unit) })
	return out, nil
}

func (r creditRepo) GetTopUp(_ context.Context, id string) (*domain.CreditTopUp, error) {
	t, ok := r.st.topUps[id]
	if !ok {
		return nil, nil
	}
	t.Amounts = slices.Clone(t.Amounts)
	return &t, nil
}

func (r creditRepo) CreateTopUp(_ context.Context, topUp *domain.CreditTopUp) error {
	if _, ok := r.st.topUps[topUp.ID]; ok {
		return apperror.ErrSerializationConflict(fmt.Errorf("duplicate top-up %q", topUp.ID))
	}
	t := *topUp
	t.Amounts = slices.Clone(topUp.Amounts)
	r.st.topUps[topUp.ID] = t
	return nil
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func copyID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
