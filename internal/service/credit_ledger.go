package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"escrow-wallet-ledger/internal/core/domain"
	"escrow-wallet-ledger/internal/core/ports"
	"escrow-wallet-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const entryCacheTTL = 24 * time.Hour

// Reservation results reported to metrics.
const (
	reservationCreated      = "created"
	reservationReplayed     = "replayed"
	reservationInsufficient = "insufficient_funds"
	reservationConflict     = "conflict"
	reservationError        = "error"
)

// CreditLedgerService implements ports.CreditLedger.
type CreditLedgerService struct {
	transactor ports.Transactor
	cache      ports.CreditEntryCache
	clock      ports.Clock
	metrics    ports.LedgerMetrics
	txTimeout  time.Duration
	log        zerolog.Logger
}

// NewCreditLedgerService creates a new CreditLedgerService. cache may be nil.
func NewCreditLedgerService(
	transactor ports.Transactor,
	cache ports.CreditEntryCache,
	clock ports.Clock,
	metrics ports.LedgerMetrics,
	txTimeout time.Duration,
	log zerolog.Logger,
) *CreditLedgerService {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &CreditLedgerService{
		transactor: transactor,
		cache:      cache,
		clock:      clock,
		metrics:    metrics,
		txTimeout:  txTimeout,
		log:        log,
	}
}

// ReserveCredit debits cost from the buyer's balances and records a ledger entry
// under id. Either every unit is debited and the entry exists, or nothing changes.
// Replaying an id that already committed returns the stored entry without debiting again.
func (s *CreditLedgerService) ReserveCredit(ctx context.Context, id string, buyerID uuid.UUID, cost []domain.UnitAmount) (*domain.CreditLedgerEntry, error) {
	if id == "" {
		return nil, apperror.Validation("reservation id is required")
	}
	if buyerID == uuid.Nil {
		return nil, apperror.Validation("buyer_id is required")
	}
	totals, err := domain.TotalsByUnit(cost)
	if err != nil {
		return nil, apperror.ErrInvalidCost(err)
	}

	// Layer 1: Redis idempotency check
	if entry := s.cachedEntry(ctx, id); entry != nil {
		s.warnBuyerMismatch(entry, buyerID)
		s.metrics.ObserveReservation(reservationReplayed)
		return entry, nil
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var (
		entry    *domain.CreditLedgerEntry
		replayed bool
	)
	err = s.transactor.Serializable(ctx, func(ctx context.Context, st ports.Store) error {
		entry, replayed = nil, false

		// Layer 2: DB idempotency check
		existing, err := st.Credits().GetEntry(ctx, id)
		if err != nil {
			return storeError("get ledger entry", err)
		}
		if existing != nil {
			entry, replayed = existing, true
			return nil
		}

		// Business rule: every unit covered before any debit
		for _, t := range totals {
			balance, err := st.Credits().GetBalance(ctx, buyerID, t.Unit)
			if err != nil {
				return storeError("get balance", err)
			}
			if balance < t.Amount {
				return apperror.ErrInsufficientFunds()
			}
		}

		for _, t := range totals {
			if err := st.Credits().AddBalance(ctx, buyerID, t.Unit, -t.Amount); err != nil {
				return storeError("debit balance", err)
			}
		}

		entry = &domain.CreditLedgerEntry{
			ID:        id,
			BuyerID:   buyerID,
			Cost:      append([]domain.UnitAmount(nil), cost...),
			CreatedAt: s.clock.Now(),
		}
		if err := st.Credits().CreateEntry(ctx, entry); err != nil {
			return storeError("create ledger entry", err)
		}
		return nil
	})
	if err != nil {
		s.observeFailure(err, id, buyerID)
		return nil, err
	}

	if replayed {
		s.warnBuyerMismatch(entry, buyerID)
		s.metrics.ObserveReservation(reservationReplayed)
	} else {
		s.metrics.ObserveReservation(reservationCreated)
		s.log.Info().
			Str("entry_id", id).
			Str("buyer_id", buyerID.String()).
			Int("units", len(totals)).
			Msg("credit reserved")
	}

	s.cacheEntry(ctx, entry)
	return entry, nil
}

// Credit adds amounts to the buyer's balances and returns the resulting balances.
// With a non-empty id the top-up is recorded under it in the same transaction, and
// a repeated id returns the current balances without crediting again.
func (s *CreditLedgerService) Credit(ctx context.Context, id string, buyerID uuid.UUID, amounts []domain.UnitAmount) ([]domain.BuyerBalance, error) {
	if buyerID == uuid.Nil {
		return nil, apperror.Validation("buyer_id is required")
	}
	totals, err := domain.TotalsByUnit(amounts)
	if err != nil {
		return nil, apperror.ErrInvalidCost(err)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var (
		balances []domain.BuyerBalance
		replayed *domain.CreditTopUp
	)
	err = s.transactor.Serializable(ctx, func(ctx context.Context, st ports.Store) error {
		balances, replayed = nil, nil

		if id != "" {
			existing, err := st.Credits().GetTopUp(ctx, id)
			if err != nil {
				return storeError("get top-up", err)
			}
			replayed = existing
		}

		if replayed == nil {
			for _, t := range totals {
				if err := st.Credits().AddBalance(ctx, buyerID, t.Unit, t.Amount); err != nil {
					return storeError("credit balance", err)
				}
			}
			if id != "" {
				topUp := &domain.CreditTopUp{
					ID:        id,
					BuyerID:   buyerID,
					Amounts:   append([]domain.UnitAmount(nil), amounts...),
					CreatedAt: s.clock.Now(),
				}
				if err := st.Credits().CreateTopUp(ctx, topUp); err != nil {
					return storeError("record top-up", err)
				}
			}
		}

		list, err := st.Credits().ListBalances(ctx, buyerID)
		if err != nil {
			return storeError("list balances", err)
		}
		balances = list
		return nil
	})
	if err != nil {
		s.log.Error().Err(err).Str("buyer_id", buyerID.String()).Str("top_up_id", id).Msg("credit failed")
		return nil, err
	}

	if replayed != nil {
		if replayed.BuyerID != buyerID {
			s.log.Warn().
				Str("top_up_id", id).
				Str("buyer_id", buyerID.String()).
				Str("stored_buyer_id", replayed.BuyerID.String()).
				Msg("top-up id replayed by a different buyer")
		}
		s.log.Info().Str("top_up_id", id).Str("buyer_id", buyerID.String()).Msg("top-up replayed, balances unchanged")
		return balances, nil
	}

	s.log.Info().
		Str("buyer_id", buyerID.String()).
		Str("top_up_id", id).
		Int("units", len(totals)).
		Msg("buyer credited")
	return balances, nil
}

// Balances returns every unit balance the buyer holds, ordered by unit.
func (s *CreditLedgerService) Balances(ctx context.Context, buyerID uuid.UUID) ([]domain.BuyerBalance, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var balances []domain.BuyerBalance
	err := s.transactor.Serializable(ctx, func(ctx context.Context, st ports.Store) error {
		list, err := st.Credits().ListBalances(ctx, buyerID)
		if err != nil {
			return storeError("list balances", err)
		}
		balances = list
		return nil
	})
	if err != nil {
		return nil, err
	}
	return balances, nil
}

// Entry returns the ledger entry recorded under id.
func (s *CreditLedgerService) Entry(ctx context.Context, id string) (*domain.CreditLedgerEntry, error) {
	if entry := s.cachedEntry(ctx, id); entry != nil {
		return entry, nil
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var entry *domain.CreditLedgerEntry
	err := s.transactor.Serializable(ctx, func(ctx context.Context, st ports.Store) error {
		e, err := st.Credits().GetEntry(ctx, id)
		if err != nil {
			return storeError("get ledger entry", err)
		}
		if e == nil {
			return apperror.ErrNotFound("Ledger entry")
		}
		entry = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *CreditLedgerService) cachedEntry(ctx context.Context, id string) *domain.CreditLedgerEntry {
	if s.cache == nil {
		return nil
	}
	cached, err := s.cache.Get(ctx, id)
	if err != nil {
		s.log.Warn().Err(err).Str("entry_id", id).Msg("redis idempotency check failed, falling through to DB")
		return nil
	}
	if cached == nil {
		return nil
	}
	var entry domain.CreditLedgerEntry
	if err := json.Unmarshal(cached, &entry); err != nil {
		s.log.Warn().Err(err).Str("entry_id", id).Msg("discarding unreadable cached entry")
		return nil
	}
	return &entry
}

// cacheEntry is best-effort; the store stays the source of truth.
func (s *CreditLedgerService) cacheEntry(ctx context.Context, entry *domain.CreditLedgerEntry) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(entry)
	if err != nil {
		s.log.Warn().Err(err).Str("entry_id", entry.ID).Msg("failed to marshal ledger entry for cache")
		return
	}
	if err := s.cache.Set(ctx, entry.ID, data, entryCacheTTL); err != nil {
		s.log.Warn().Err(err).Str("entry_id", entry.ID).Msg("failed to cache ledger entry in redis")
	}
}

func (s *CreditLedgerService) warnBuyerMismatch(entry *domain.CreditLedgerEntry, buyerID uuid.UUID) {
	if entry.BuyerID == buyerID {
		return
	}
	s.log.Warn().
		Str("entry_id", entry.ID).
		Str("buyer_id", buyerID.String()).
		Str("stored_buyer_id", entry.BuyerID.String()).
		Msg("reservation id replayed by a different buyer")
}

func (s *CreditLedgerService) observeFailure(err error, id string, buyerID uuid.UUID) {
	var appErr *apperror.AppError
	switch {
	case errors.As(err, &appErr) && appErr.Code == apperror.CodeInsufficientFunds:
		s.metrics.ObserveReservation(reservationInsufficient)
		s.log.Info().Str("entry_id", id).Str("buyer_id", buyerID.String()).Msg("reservation rejected: insufficient funds")
	case apperror.IsConflict(err):
		s.metrics.ObserveReservation(reservationConflict)
		s.log.Warn().Err(err).Str("entry_id", id).Msg("reservation hit serialization conflict")
	default:
		s.metrics.ObserveReservation(reservationError)
		s.log.Error().Err(fmt.Errorf("reserve credit %s: %w", id, err)).Msg("reservation failed")
	}
}

func (s *CreditLedgerService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.txTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.txTimeout)
}
