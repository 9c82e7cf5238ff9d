package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"escrow-wallet-ledger/internal/core/domain"
	"escrow-wallet-ledger/internal/core/ports"
	"escrow-wallet-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Skip reasons reported to metrics and debug logs.
const (
	skipCooldown      = "cooldown"
	skipWalletMissing = "wallet_missing"
	skipWalletBusy    = "wallet_busy"
	skipWalletClaimed = "wallet_claimed"
	skipNoFreeWallet  = "no_free_wallet"
	skipLockLost      = "lock_lost"
)

// LockManagerOptions tunes the lock manager.
type LockManagerOptions struct {
	// MaxLockAge is how long a lock may be held without a pending transaction
	// before the reaper reclaims it. Zero disables reclaiming.
	MaxLockAge time.Duration
	// TxTimeout bounds each store transaction. Zero means no extra bound.
	TxTimeout time.Duration
}

// LockManager implements ports.WalletLockManager. It keeps no in-memory lock state;
// exclusion comes entirely from running every read-then-lock inside one
// serializable store transaction.
type LockManager struct {
	transactor ports.Transactor
	metrics    ports.LockMetrics
	opts       LockManagerOptions
	log        zerolog.Logger
}

// NewLockManager creates a new LockManager.
func NewLockManager(transactor ports.Transactor, metrics ports.LockMetrics, opts LockManagerOptions, log zerolog.Logger) *LockManager {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &LockManager{
		transactor: transactor,
		metrics:    metrics,
		opts:       opts,
		log:        log,
	}
}

// AcquireBatch selects eligible (request, wallet) pairs for workload across all active
// sources and locks every selected wallet, all in one serializable transaction.
// Sources are visited by ascending id, requests within a source by ascending id; the
// first request to reach a contested wallet wins it. Sources that yield no claim are
// omitted. On any error nothing is locked.
func (m *LockManager) AcquireBatch(ctx context.Context, workload domain.Workload, now time.Time) (domain.Batch, error) {
	if err := workload.Validate(); err != nil {
		return nil, apperror.ErrInvalidWorkload(err)
	}

	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	var batch domain.Batch
	err := m.transactor.Serializable(ctx, func(ctx context.Context, s ports.Store) error {
		batch = nil

		sources, err := s.Sources().ListActive(ctx)
		if err != nil {
			return storeError("list active sources", err)
		}
		slices.SortFunc(sources, func(a, b domain.PaymentSource) int { return compareID(a.ID, b.ID) })

		for i := range sources {
			claims, err := m.claimSource(ctx, s, workload, &sources[i], now)
			if err != nil {
				return err
			}
			if len(claims) == 0 {
				continue
			}
			batch = append(batch, domain.SourceBatch{Source: sources[i], Claims: claims})
		}
		return nil
	})
	if err != nil {
		m.logFailure(err, "acquire_batch", workload.String())
		return nil, err
	}

	m.metrics.ObserveClaims(workload.String(), batch.Len())
	if batch.Len() > 0 {
		m.log.Info().
			Str("workload", workload.String()).
			Int("sources", len(batch)).
			Int("claims", batch.Len()).
			Msg("wallet batch acquired")
	}
	return batch, nil
}

// claimSource locks wallets for the eligible requests of one source.
func (m *LockManager) claimSource(ctx context.Context, s ports.Store, workload domain.Workload, src *domain.PaymentSource, now time.Time) ([]domain.Claim, error) {
	requests, err := m.eligibleRequests(ctx, s, workload, src, now)
	if err != nil {
		return nil, err
	}
	if len(requests) == 0 {
		return nil, nil
	}

	wallets, err := s.Wallets().ListBySource(ctx, src.ID)
	if err != nil {
		return nil, storeError("list source wallets", err)
	}
	pool := newWalletPool(wallets)

	var claims []domain.Claim
	for _, req := range requests {
		wallet, reason := pool.pick(req)
		if wallet == nil {
			m.skip(workload, req, reason)
			continue
		}

		lockID := uuid.New()
		ok, err := s.Wallets().Lock(ctx, wallet.ID, now, lockID)
		if err != nil {
			return nil, storeError("lock wallet", err)
		}
		if !ok {
			m.skip(workload, req, skipLockLost)
			pool.markClaimed(wallet.ID)
			continue
		}

		locked := pool.lock(wallet.ID, now, lockID)
		claims = append(claims, domain.Claim{Request: req, Wallet: locked, LockID: lockID})
		m.log.Debug().
			Str("workload", workload.String()).
			Str("request_id", req.RequestID().String()).
			Str("wallet_id", locked.ID.String()).
			Str("lock_id", lockID.String()).
			Msg("wallet claimed")
	}
	return claims, nil
}

// eligibleRequests loads the workload's candidates for a source, applies the
// eligibility predicate and cooldown gate, and orders them by id.
func (m *LockManager) eligibleRequests(ctx context.Context, s ports.Store, workload domain.Workload, src *domain.PaymentSource, now time.Time) ([]domain.Request, error) {
	var out []domain.Request

	switch workload.Kind {
	case domain.WorkloadPayment:
		list, err := s.Payments().ListAwaiting(ctx, src.ID, workload.PaymentAction)
		if err != nil {
			return nil, storeError("list payment requests", err)
		}
		for i := range list {
			req := &list[i]
			if !workload.PaymentEligible(req) {
				continue
			}
			if !domain.CooldownElapsed(req, src, now) {
				m.skip(workload, req, skipCooldown)
				continue
			}
			out = append(out, req)
		}
	case domain.WorkloadRegistry:
		list, err := s.Registry().ListByState(ctx, src.ID, workload.RegistrationState)
		if err != nil {
			return nil, storeError("list registry requests", err)
		}
		for i := range list {
			if workload.RegistryEligible(&list[i]) {
				out = append(out, &list[i])
			}
		}
	case domain.WorkloadCollateral:
		list, err := s.Collateral().ListByState(ctx, src.ID, domain.CollateralPending)
		if err != nil {
			return nil, storeError("list collateral requests", err)
		}
		for i := range list {
			if workload.CollateralEligible(&list[i]) {
				out = append(out, &list[i])
			}
		}
	default:
		return nil, apperror.ErrInvalidWorkload(fmt.Errorf("unknown workload kind %q", workload.Kind))
	}

	slices.SortFunc(out, func(a, b domain.Request) int { return compareID(a.RequestID(), b.RequestID()) })
	return out, nil
}

// Release applies the submitter's outcome to a wallet. The outcome must name the
// lock token the wallet is currently held under, so a holder whose lock was
// reclaimed or abandoned cannot release a later claim. Each lock can be released
// once: a wallet not holding what the outcome releases fails with LOCK_001.
func (m *LockManager) Release(ctx context.Context, walletID uuid.UUID, outcome domain.ReleaseOutcome) (*domain.HotWallet, error) {
	if !outcome.Valid() {
		return nil, apperror.Validation(fmt.Sprintf("invalid release outcome %q", outcome.Kind))
	}

	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	var released domain.HotWallet
	err := m.transactor.Serializable(ctx, func(ctx context.Context, s ports.Store) error {
		w, err := s.Wallets().GetByID(ctx, walletID)
		if err != nil {
			return storeError("get wallet", err)
		}
		if w == nil {
			return apperror.ErrNotFound("Wallet")
		}

		next, ok := outcome.Apply(*w)
		if !ok {
			return apperror.ErrLockNotHeld()
		}
		ok, err = s.Wallets().SetState(ctx, walletID, outcome.LockID, next.LockedAt, next.PendingTransactionID)
		if err != nil {
			return storeError("update wallet state", err)
		}
		if !ok {
			return apperror.ErrLockNotHeld()
		}
		released = next
		return nil
	})
	if err != nil {
		m.logFailure(err, "release", string(outcome.Kind))
		return nil, err
	}

	m.metrics.ObserveRelease(string(outcome.Kind))
	m.log.Info().
		Str("wallet_id", walletID.String()).
		Str("lock_id", outcome.LockID.String()).
		Str("outcome", string(outcome.Kind)).
		Msg("wallet released")
	return &released, nil
}

// ReclaimStaleLocks frees wallets locked for longer than MaxLockAge that never
// received a pending transaction, which is what a crashed worker leaves behind.
func (m *LockManager) ReclaimStaleLocks(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	if m.opts.MaxLockAge <= 0 {
		return nil, nil
	}
	cutoff := now.Add(-m.opts.MaxLockAge)

	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	var reclaimed []uuid.UUID
	err := m.transactor.Serializable(ctx, func(ctx context.Context, s ports.Store) error {
		ids, err := s.Wallets().ReclaimLockedBefore(ctx, cutoff)
		if err != nil {
			return storeError("reclaim stale locks", err)
		}
		reclaimed = ids
		return nil
	})
	if err != nil {
		m.logFailure(err, "reclaim", "")
		return nil, err
	}

	m.metrics.ObserveReclaimed(len(reclaimed))
	for _, id := range reclaimed {
		m.log.Warn().
			Str("wallet_id", id.String()).
			Time("cutoff", cutoff).
			Msg("reclaimed stale wallet lock")
	}
	return reclaimed, nil
}

func (m *LockManager) skip(workload domain.Workload, req domain.Request, reason string) {
	m.metrics.ObserveSkip(workload.String(), reason)
	m.log.Debug().
		Str("workload", workload.String()).
		Str("request_id", req.RequestID().String()).
		Str("reason", reason).
		Msg("request skipped")
}

func (m *LockManager) logFailure(err error, op, label string) {
	if apperror.IsConflict(err) {
		m.metrics.ObserveConflict(op)
		m.log.Warn().Err(err).Str("op", op).Str("label", label).Msg("serialization conflict, caller should retry")
		return
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.HTTPStatus < 500 {
		m.log.Info().Err(err).Str("op", op).Str("label", label).Msg("lock operation rejected")
		return
	}
	m.log.Error().Err(err).Str("op", op).Str("label", label).Msg("lock operation failed")
}

func (m *LockManager) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.opts.TxTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, m.opts.TxTimeout)
}

// walletPool is the per-source wallet index used while building one batch.
type walletPool struct {
	ordered []uuid.UUID
	byID    map[uuid.UUID]domain.HotWallet
	claimed map[uuid.UUID]bool
}

func newWalletPool(wallets []domain.HotWallet) *walletPool {
	p := &walletPool{
		byID:    make(map[uuid.UUID]domain.HotWallet, len(wallets)),
		claimed: make(map[uuid.UUID]bool),
	}
	for _, w := range wallets {
		p.byID[w.ID] = w
		p.ordered = append(p.ordered, w.ID)
	}
	slices.SortFunc(p.ordered, compareID)
	return p
}

// pick returns the wallet req should lock, or nil and a skip reason.
// Bound requests only ever get their own wallet; unbound ones take the
// first free selling wallet by id.
func (p *walletPool) pick(req domain.Request) (*domain.HotWallet, string) {
	if id, ok := req.WalletBinding().WalletID(); ok {
		w, found := p.byID[id]
		switch {
		case !found:
			return nil, skipWalletMissing
		case p.claimed[id]:
			return nil, skipWalletClaimed
		case !w.IsFree():
			return nil, skipWalletBusy
		}
		return &w, ""
	}

	for _, id := range p.ordered {
		w := p.byID[id]
		if w.Role == domain.WalletRoleSelling && w.IsFree() && !p.claimed[id] {
			return &w, ""
		}
	}
	return nil, skipNoFreeWallet
}

func (p *walletPool) markClaimed(id uuid.UUID) {
	p.claimed[id] = true
}

func (p *walletPool) lock(id uuid.UUID, now time.Time, lockID uuid.UUID) domain.HotWallet {
	w := p.byID[id]
	lockedAt := now
	w.LockedAt = &lockedAt
	w.LockID = &lockID
	p.byID[id] = w
	p.claimed[id] = true
	return w
}

func compareID(a, b uuid.UUID) int {
	return bytes.Compare(a[:], b[:])
}

// storeError passes AppErrors through and marks anything else as the store being unavailable.
func storeError(op string, err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.ErrStoreUnavailable(fmt.Errorf("%s: %w", op, err))
}
